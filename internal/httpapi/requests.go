package httpapi

import (
	"encoding/json"
	"io"
	"math"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/media"
)

// stringList accepts a JSON array, a JSON-encoded array in a string or a
// comma separated string.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return apperr.InvalidInput("expected a list or a comma separated string")
	}
	*l = splitList(s)
	return nil
}

func splitList(values ...string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(v), &arr); err == nil {
				out = append(out, arr...)
				continue
			}
		}
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// flexNumber accepts a JSON number or a finite numeric string. Null and ""
// leave it unset.
type flexNumber struct {
	Value *float64
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return apperr.InvalidInput("rating must be a number")
	}
	switch v := raw.(type) {
	case nil:
		n.Value = nil
	case float64:
		n.Value = &v
	case string:
		if strings.TrimSpace(v) == "" {
			n.Value = nil
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return apperr.InvalidInput("rating must be a number")
		}
		n.Value = &f
	default:
		return apperr.InvalidInput("rating must be a number")
	}
	return nil
}

func parseDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return nil, apperr.InvalidInput("invalid date format (use RFC3339 or YYYY-MM-DD)")
	}
	return &t, nil
}

// -----------------------------
// Events
// -----------------------------

type eventRequest struct {
	Title       string     `json:"title" form:"title"`
	Type        string     `json:"type" form:"type"`
	Description string     `json:"description" form:"description"`
	StartDate   string     `json:"startDate" form:"startDate"`
	EndDate     string     `json:"endDate" form:"endDate"`
	StartTime   string     `json:"startTime" form:"startTime"`
	EndTime     string     `json:"endTime" form:"endTime"`
	Organizer   string     `json:"organizer" form:"organizer"`
	Faculty     stringList `json:"faculty" form:"-"`
	ChiefGuest  stringList `json:"chiefGuest" form:"-"`
	Poster      string     `json:"poster" form:"-"`
	Images      stringList `json:"images" form:"-"`
	Form        string     `json:"form" form:"form"`
}

func isMultipart(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == binding.MIMEMultipartPOSTForm || ct == binding.MIMEPOSTForm
}

// bindEvent reads an event body sent either as JSON or as a form with
// optional file parts.
func bindEvent(c *gin.Context) (eventRequest, error) {
	var req eventRequest
	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			return req, bindError(err)
		}
		req.Faculty = splitList(c.PostFormArray("faculty")...)
		req.ChiefGuest = splitList(c.PostFormArray("chiefGuest")...)
		return req, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, bindError(err)
	}
	return req, nil
}

func (r eventRequest) toEvent() (domain.Event, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return domain.Event{}, err
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return domain.Event{}, err
	}

	e := domain.Event{
		Title:       strings.TrimSpace(r.Title),
		Type:        strings.TrimSpace(r.Type),
		Description: strings.TrimSpace(r.Description),
		StartTime:   strings.TrimSpace(r.StartTime),
		EndTime:     strings.TrimSpace(r.EndTime),
		Organizer:   strings.TrimSpace(r.Organizer),
		Faculty:     r.Faculty,
		ChiefGuest:  r.ChiefGuest,
		Poster:      strings.TrimSpace(r.Poster),
		Images:      r.Images,
		Form:        strings.TrimSpace(r.Form),
	}
	if start != nil {
		e.StartDate = *start
	}
	if end != nil {
		e.EndDate = *end
	}
	return e, nil
}

func (r eventRequest) toPatch() (domain.EventPatch, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return domain.EventPatch{}, err
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return domain.EventPatch{}, err
	}

	return domain.EventPatch{
		Title:       &r.Title,
		Type:        &r.Type,
		Description: &r.Description,
		StartDate:   start,
		EndDate:     end,
		StartTime:   &r.StartTime,
		EndTime:     &r.EndTime,
		Organizer:   &r.Organizer,
		Faculty:     r.Faculty,
		ChiefGuest:  r.ChiefGuest,
		Poster:      &r.Poster,
		Images:      r.Images,
		Form:        &r.Form,
	}.Compact(), nil
}

type winnerRequest struct {
	Position   string                `json:"position" binding:"required"`
	PrizeMoney decimal.NullDecimal   `json:"prizeMoney"`
	Type       domain.WinnerType     `json:"type" binding:"required"`
	TeamSize   int                   `json:"teamSize"`
	Members    []domain.WinnerMember `json:"members"`
}

func (r winnerRequest) toWinner() domain.Winner {
	w := domain.Winner{
		Position: strings.TrimSpace(r.Position),
		Type:     r.Type,
		TeamSize: r.TeamSize,
		Members:  r.Members,
	}
	if r.PrizeMoney.Valid {
		w.PrizeMoney = r.PrizeMoney.Decimal
	}
	if w.Members == nil {
		w.Members = []domain.WinnerMember{}
	}
	return w
}

type registerRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	RollNo string `json:"rollNo"`
	Branch string `json:"branch"`
	Year   string `json:"year"`
}

type removeParticipantRequest struct {
	Email string `json:"email" binding:"required"`
}

type noticeRequest struct {
	Notice string `json:"notice" binding:"required"`
}

type announceRequest struct {
	Notice   string     `json:"notice" binding:"required"`
	Branches stringList `json:"branches" binding:"required,min=1"`
}

type feedbackRequest struct {
	Email   string     `json:"email"`
	Rating  flexNumber `json:"rating"`
	Comment string     `json:"comment"`
}

// -----------------------------
// Contacts, blogs, admins
// -----------------------------

type contactRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email"`
}

type contactResponseRequest struct {
	Response string `json:"response" binding:"required"`
}

type blogForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Role     domain.Role `json:"role"`
}

type adminUpdateRequest struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Role     *domain.Role `json:"role"`
}

// -----------------------------
// Uploads
// -----------------------------

func fileUpload(fh *multipart.FileHeader) media.Upload {
	return media.Upload{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

// formFile returns the named file part, or nil when it was not sent.
func formFile(c *gin.Context, name string) *media.Upload {
	if !isMultipart(c) {
		return nil
	}
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	u := fileUpload(fh)
	return &u
}

func formFiles(c *gin.Context, name string) []media.Upload {
	if !isMultipart(c) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var out []media.Upload
	for _, fh := range form.File[name] {
		out = append(out, fileUpload(fh))
	}
	return out
}
