// Package config reads settings from the environment. A .env file in the
// working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// SMTP holds the mail relay used for contact notifications.
type SMTP struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// Enabled reports whether credentials are present.
func (s SMTP) Enabled() bool { return s.User != "" && s.Pass != "" }

// Config is the full server configuration.
type Config struct {
	Port         string
	GinMode      string
	LogLevel     string
	DatabasePath string
	RedisURL     string
	ResumePath   string
	StaticDir    string

	AdminUsername string
	AdminPassword string
	// DefaultAdmin is set when either admin credential fell back to its dev default.
	DefaultAdmin bool

	SMTP SMTP

	TickInterval       time.Duration
	SessionIdleTimeout time.Duration
	MaxSessions        int
	ContactRateLimit   int
	ContactRateWindow  time.Duration
	VisitorRetention   time.Duration
}

// Load builds a Config from the environment.
func Load() (Config, error) {
	c := Config{
		Port:          env("PORT", "8080"),
		GinMode:       os.Getenv("GIN_MODE"),
		LogLevel:      env("LOG_LEVEL", "info"),
		DatabasePath:  env("DATABASE_PATH", "portfolio.db"),
		RedisURL:      os.Getenv("REDIS_URL"),
		ResumePath:    env("RESUME_PATH", "static/resume.pdf"),
		StaticDir:     env("STATIC_DIR", "static"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SMTP: SMTP{
			Host: env("SMTP_HOST", "smtp.gmail.com"),
			Port: env("SMTP_PORT", "587"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			To:   os.Getenv("TO_EMAIL"),
		},
	}

	// Default credentials for development
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
		c.DefaultAdmin = true
	}
	if c.AdminPassword == "" {
		c.AdminPassword = "admin123"
		c.DefaultAdmin = true
	}
	if c.SMTP.To == "" {
		c.SMTP.To = c.SMTP.User
	}

	var err error
	if c.TickInterval, err = duration("TICK_INTERVAL", 50*time.Millisecond); err != nil {
		return c, err
	}
	if c.SessionIdleTimeout, err = duration("SESSION_IDLE_TIMEOUT", 10*time.Minute); err != nil {
		return c, err
	}
	if c.ContactRateWindow, err = duration("CONTACT_RATE_WINDOW", time.Hour); err != nil {
		return c, err
	}
	if c.VisitorRetention, err = duration("VISITOR_RETENTION", 365*24*time.Hour); err != nil {
		return c, err
	}
	if c.MaxSessions, err = integer("MAX_SESSIONS", 500); err != nil {
		return c, err
	}
	if c.ContactRateLimit, err = integer("CONTACT_RATE_LIMIT", 5); err != nil {
		return c, err
	}
	return c, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func integer(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return n, nil
}
