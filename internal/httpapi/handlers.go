package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/auth"
	"github.com/Manish1808/Cybernauts/internal/service"
)

// -----------------------------
// Feedback
// -----------------------------

func (h *Handler) SubmitFeedback(c *gin.Context) {
	var body feedbackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, bindError(err))
		return
	}

	err := h.svc.Feedback.Submit(c.Request.Context(), c.Param("id"), service.FeedbackInput{
		Email:   body.Email,
		Rating:  body.Rating.Value,
		Comment: body.Comment,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Feedback submitted successfully!"})
}

// -----------------------------
// Contacts
// -----------------------------

func (h *Handler) CreateContact(c *gin.Context) {
	var body contactRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, bindError(err))
		return
	}

	contact, err := h.svc.Contacts.Create(c.Request.Context(), service.ContactInput{
		Name:        body.Name,
		Description: body.Description,
		Email:       body.Email,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	days := int(h.opts.ContactRetention / (24 * time.Hour))
	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Feedback received and will expire in %d days.", days),
		"contact": contact,
	})
}

func (h *Handler) ListContacts(c *gin.Context) {
	contacts, err := h.svc.Contacts.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *Handler) DeleteContact(c *gin.Context) {
	if err := h.svc.Contacts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}

func (h *Handler) RespondContact(c *gin.Context) {
	var body contactResponseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, bindError(err))
		return
	}

	if err := h.svc.Contacts.Respond(c.Request.Context(), c.Param("id"), body.Response); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Response sent successfully"})
}

// -----------------------------
// Blogs
// -----------------------------

func (h *Handler) ListBlogs(c *gin.Context) {
	blogs, err := h.svc.Blogs.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "blogs": blogs})
}

func (h *Handler) CreateBlog(c *gin.Context) {
	if !isMultipart(c) {
		h.fail(c, apperr.InvalidInput("blog must be sent as multipart form data"))
		return
	}
	var form blogForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, bindError(err))
		return
	}

	b, err := h.svc.Blogs.Create(c.Request.Context(), service.BlogInput{
		Title:       form.Title,
		Description: form.Description,
		Image:       formFile(c, "image"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Blog added successfully", "blog": b})
}

func (h *Handler) DeleteBlog(c *gin.Context) {
	if err := h.svc.Blogs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}

// -----------------------------
// Admins
// -----------------------------

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	token, admin, err := h.svc.Admins.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": admin.Role})
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	admin, err := h.svc.Admins.Signup(c.Request.Context(), service.AdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful", "admin": admin})
}

func (h *Handler) ValidateAdmin(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"role": auth.RoleFrom(c)})
}

func (h *Handler) ListAdmins(c *gin.Context) {
	admins, superadmins, err := h.svc.Admins.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Fetched admins successfully",
		"admins":      admins,
		"superadmins": superadmins,
	})
}

func (h *Handler) UpdateAdmin(c *gin.Context) {
	var req adminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	admin, err := h.svc.Admins.Update(c.Request.Context(), c.Param("id"), service.AdminUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin updated successfully", "admin": admin})
}

func (h *Handler) DeleteAdmin(c *gin.Context) {
	id := c.Param("id")
	if id == auth.AdminIDFrom(c) {
		jsonError(c, http.StatusBadRequest, "you cannot delete your own account")
		return
	}
	if err := h.svc.Admins.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}
