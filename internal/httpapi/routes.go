// Package httpapi exposes the services as a JSON REST API over gin.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Manish1808/Cybernauts/internal/auth"
	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/media"
	"github.com/Manish1808/Cybernauts/internal/metrics"
	"github.com/Manish1808/Cybernauts/internal/ratelimit"
	"github.com/Manish1808/Cybernauts/internal/service"
)

type Services struct {
	Events        *service.Events
	Registrations *service.Registrations
	Feedback      *service.Feedback
	Notices       *service.Notices
	Certificates  *service.Certificates
	Exports       *service.Exports
	Contacts      *service.Contacts
	Blogs         *service.Blogs
	Admins        *service.Admins
}

type Options struct {
	CORSOrigins      []string
	MediaDir         string
	ContactRetention time.Duration
	// Health reports the state of external dependencies. Nil means healthy.
	Health func(ctx context.Context) error
}

type Handler struct {
	svc    Services
	opts   Options
	logger *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc Services, tokens *auth.Tokens, limiter *ratelimit.Limiter, opts Options, logger *slog.Logger) *gin.Engine {
	useJSONFieldNames()
	h := &Handler{svc: svc, opts: opts, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(metrics.Middleware())
	r.Use(CORSMiddleware(opts.CORSOrigins))

	if opts.MediaDir != "" {
		r.Static(media.URLPrefix, opts.MediaDir)
	}
	r.GET("/health", h.Health)
	r.GET("/metrics", metrics.Handler())

	requireAdmin := auth.Middleware(tokens)
	superOnly := auth.RequireRole(domain.RoleSuperAdmin)

	// Public Routes
	r.GET("/events", h.ListEvents)
	r.GET("/events/recent", h.RecentEvent)
	r.GET("/events/:id", h.GetEvent)
	r.POST("/events/:id/participants", limiter.Middleware("register"), h.Register)
	r.POST("/feedback/:id/submit", limiter.Middleware("feedback"), h.SubmitFeedback)
	r.POST("/contact", limiter.Middleware("contact"), h.CreateContact)
	r.GET("/blogs", h.ListBlogs)
	r.POST("/auth/login", h.Login)

	// Admin routes outside /admin
	r.POST("/feedback/:id/request", requireAdmin, h.RequestFeedback)
	r.POST("/certificate/:id", requireAdmin, h.IssueCertificates)
	r.POST("/auth/signup", requireAdmin, superOnly, h.Signup)

	admin := r.Group("/admin")
	admin.Use(requireAdmin)
	{
		admin.GET("/validate", h.ValidateAdmin)

		// EVENTS
		admin.GET("/events", h.AllEvents)
		admin.POST("/events", h.CreateEvent)
		admin.GET("/events/export", h.ExportAll)
		admin.PUT("/events/:id", h.UpdateEvent)
		admin.DELETE("/events/:id", h.DeleteEvent)
		admin.POST("/events/:id/winners", h.AddWinner)
		admin.DELETE("/events/:id/participants", h.RemoveParticipant)
		admin.POST("/events/:id/mail", h.NotifyParticipants)
		admin.GET("/events/:id/export", h.ExportEvent)

		// NOTICES
		admin.POST("/announce", h.Announce)

		// CONTACTS
		admin.GET("/contacts", h.ListContacts)
		admin.DELETE("/contacts/:id", h.DeleteContact)
		admin.POST("/contacts/:id/response", h.RespondContact)

		// BLOGS
		admin.POST("/blogs", h.CreateBlog)
		admin.DELETE("/blogs/:id", h.DeleteBlog)

		// ADMINS
		admin.GET("", superOnly, h.ListAdmins)
		admin.PUT("/:id", superOnly, h.UpdateAdmin)
		admin.DELETE("/:id", superOnly, h.DeleteAdmin)
	}

	return r
}

func (h *Handler) Health(c *gin.Context) {
	if h.opts.Health != nil {
		if err := h.opts.Health(c.Request.Context()); err != nil {
			h.logger.Warn("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
