package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	// Server
	Port        string   `env:"PORT" envDefault:"3001"`
	Environment string   `env:"ENVIRONMENT" envDefault:"development"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	FrontendURL string   `env:"FRONTEND_URI" envDefault:"http://localhost:3000"`

	// Auth
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	SuperAdminEmail    string        `env:"SUPERADMIN_EMAIL"`
	SuperAdminPassword string        `env:"SUPERADMIN_PASSWORD"`

	// Storage
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"postgres"`
	DBHost        string `env:"DB_HOST"`
	DBUser        string `env:"DB_USER"`
	DBPass        string `env:"DB_PASS"`
	DBName        string `env:"DB_NAME"`
	DBPort        string `env:"DB_PORT" envDefault:"5432"`
	DBSSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"cybernauts"`

	// Redis holds contacts and rate-limit counters. Empty keeps both in memory.
	RedisURL         string        `env:"REDIS_URL"`
	ContactRetention time.Duration `env:"CONTACT_RETENTION" envDefault:"120h"`
	RateLimit        int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	// Mail
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	MailFrom     string `env:"MAIL_FROM"`
	MailFromName string `env:"MAIL_FROM_NAME" envDefault:"Cybernauts"`
	MailLocale   string `env:"MAIL_LOCALE" envDefault:"en"`

	// Files
	MediaDir     string `env:"MEDIA_DIR" envDefault:"./public/media"`
	MediaBaseURL string `env:"MEDIA_BASE_URL" envDefault:"http://localhost:3001"`
	AnnounceDir  string `env:"ANNOUNCE_DIR" envDefault:"./public"`

	// Events
	Timezone                  string `env:"EVENT_TIMEZONE" envDefault:"Local"`
	DefaultOrganizer          string `env:"DEFAULT_ORGANIZER" envDefault:"Cybernauts Team"`
	CertificateSignatory      string `env:"CERTIFICATE_SIGNATORY" envDefault:"Principal"`
	CertificateSignatoryTitle string `env:"CERTIFICATE_SIGNATORY_TITLE" envDefault:"Principal"`

	location *time.Location
}

// Load reads .env when present, parses the environment and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate applies the cross-field rules and resolves the event time zone.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBUser == "" || c.DBPass == "" || c.DBName == "" || c.DBPort == "" {
			return fmt.Errorf("config: DB_HOST, DB_USER, DB_PASS, DB_NAME and DB_PORT are required for the postgres driver")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("config: MONGO_URI is required for the mongo driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.ContactRetention <= 0 {
		return fmt.Errorf("config: CONTACT_RETENTION must be positive")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("config: EVENT_TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Location is the zone event end times are interpreted in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// PostgresDSN builds the gorm/pgx connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
