package httpapi

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Manish1808/Cybernauts/internal/apperr"
)

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error. Unclassified errors are logged and
// reported without their text.
func (h *Handler) fail(c *gin.Context, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", c.Request.Method, "route", c.FullPath(), "error", err)
		jsonError(c, code, "internal server error")
		return
	}
	jsonError(c, code, apperr.Message(err, err.Error()))
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors name fields the way clients
// send them.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// bindError turns a binding failure into one readable InvalidInput error.
func bindError(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				msgs = append(msgs, fe.Field()+" is required")
			case "email":
				msgs = append(msgs, fe.Field()+" must be a valid email address")
			case "min":
				msgs = append(msgs, fe.Field()+" must have at least "+fe.Param()+" item(s)")
			default:
				msgs = append(msgs, fe.Field()+" is invalid")
			}
		}
		return apperr.InvalidInput(strings.Join(msgs, "; "))
	}

	return apperr.InvalidInput("invalid request: " + err.Error())
}
