package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Manish1808/Cybernauts/internal/auth"
	"github.com/Manish1808/Cybernauts/internal/certificate"
	"github.com/Manish1808/Cybernauts/internal/config"
	"github.com/Manish1808/Cybernauts/internal/httpapi"
	"github.com/Manish1808/Cybernauts/internal/mail"
	"github.com/Manish1808/Cybernauts/internal/media"
	"github.com/Manish1808/Cybernauts/internal/notify"
	"github.com/Manish1808/Cybernauts/internal/ratelimit"
	"github.com/Manish1808/Cybernauts/internal/service"
	"github.com/Manish1808/Cybernauts/internal/store"
	"github.com/Manish1808/Cybernauts/internal/store/memory"
	"github.com/Manish1808/Cybernauts/internal/store/mongodb"
	"github.com/Manish1808/Cybernauts/internal/store/postgres"
	"github.com/Manish1808/Cybernauts/internal/store/redisstore"
)

// backend bundles the persistent stores picked by STORE_DRIVER.
type backend struct {
	events store.Events
	admins store.Admins
	blogs  store.Blogs
	ping   func(ctx context.Context) error
	close  func(ctx context.Context) error
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		st, err := postgres.Open(cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		return &backend{
			events: st, admins: st, blogs: st,
			ping:  st.Ping,
			close: func(context.Context) error { return st.Close() },
		}, nil
	case config.DriverMongo:
		st, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &backend{events: st, admins: st, blogs: st, ping: st.Ping, close: st.Close}, nil
	default:
		log.Println("⚠️ Using in-memory store, data is lost on restart")
		st := memory.New()
		return &backend{
			events: st, admins: st, blogs: st,
			ping:  func(context.Context) error { return nil },
			close: func(context.Context) error { return nil },
		}, nil
	}
}

func newSender(cfg *config.Config, logger *slog.Logger) mail.Sender {
	if cfg.SMTPHost == "" {
		log.Println("⚠️ SMTP_HOST not set, emails will only be logged")
		return mail.LogSender{Logger: logger}
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("🔐 JWT_SECRET loaded successfully")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect: %v", err)
	}

	// Contacts and rate limiting share Redis. Without it both stay in process.
	var (
		contacts store.Contacts
		rdb      redis.Cmdable
		health   = db.ping
	)
	if cfg.RedisURL != "" {
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("❌ Redis connection failed: %v", err)
		}
		defer client.Close()
		rdb = client
		contacts = redisstore.NewContacts(client, cfg.ContactRetention)
		health = func(ctx context.Context) error {
			if err := db.ping(ctx); err != nil {
				return err
			}
			return redisstore.HealthCheck(ctx, client)
		}
	} else {
		mem := memory.New()
		mem.ContactRetention = cfg.ContactRetention
		contacts = mem
	}

	disk, err := media.NewDisk(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("❌ Media directory: %v", err)
	}

	sender := newSender(cfg, logger)
	catalog := mail.NewCatalog(cfg.MailLocale)
	sweeper := notify.NewSweeper(sender, logger)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	loc := cfg.Location()

	admins := service.NewAdmins(db.admins, tokens, logger)
	if cfg.SuperAdminEmail != "" {
		if err := admins.EnsureSuperAdmin(ctx, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
			log.Fatalf("❌ Seeding superadmin failed: %v", err)
		}
	}

	svc := httpapi.Services{
		Events:        service.NewEvents(db.events, disk, loc, logger),
		Registrations: service.NewRegistrations(db.events, sender, catalog, cfg.DefaultOrganizer, logger),
		Feedback:      service.NewFeedback(db.events, sweeper, catalog, cfg.FrontendURL, cfg.DefaultOrganizer, logger),
		Notices:       service.NewNotices(db.events, sweeper, catalog, cfg.AnnounceDir, cfg.DefaultOrganizer, logger),
		Certificates: service.NewCertificates(db.events, sweeper, catalog, certificate.Renderer{},
			cfg.CertificateSignatory, cfg.CertificateSignatoryTitle, cfg.DefaultOrganizer),
		Exports:  service.NewExports(db.events, loc),
		Contacts: service.NewContacts(contacts, sender, catalog, logger),
		Blogs:    service.NewBlogs(db.blogs, disk, logger),
		Admins:   admins,
	}

	router := httpapi.NewRouter(svc, tokens, ratelimit.New(rdb, cfg.RateLimit, logger), httpapi.Options{
		CORSOrigins:      cfg.CORSOrigins,
		MediaDir:         cfg.MediaDir,
		ContactRetention: cfg.ContactRetention,
		Health:           health,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := db.close(shutdownCtx); err != nil {
		logger.Error("closing store failed", "error", err)
	}
}
