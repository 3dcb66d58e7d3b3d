package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

type Config struct {
	ServerPort   string
	AppEnv       string
	AuthDevMode  bool
	LogLevel     string
	ClientOrigin string
	DB           DBConfig
	Auth         AuthConfig
	Push         PushConfig
	Notify       NotifyConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AuthDevMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_DEV_MODE must not be enabled in %s environment", c.AppEnv)
	}
	if !c.AuthDevMode {
		if c.Auth.GoogleClientID == "" {
			return fmt.Errorf("GOOGLE_CLIENT_ID is required when AUTH_DEV_MODE is disabled")
		}
	}
	if c.AppEnv != "local" && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in %s environment", c.AppEnv)
	}
	if _, err := time.LoadLocation(c.Notify.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Notify.Timezone, err)
	}
	if c.Notify.Schedule == "" {
		return fmt.Errorf("NOTIFY_SCHEDULE must not be empty")
	}
	if c.Push.Enabled() {
		if c.Push.Subject == "" {
			return fmt.Errorf("VAPID_SUBJECT is required when VAPID keys are set")
		}
	}
	return nil
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

const defaultJWTSecret = "dev-secret"

type AuthConfig struct {
	GoogleClientID string
	JWTSecret      string
	TokenTTL       time.Duration
	CookieSecure   bool
}

// PushConfig carries the VAPID key pair used to sign Web Push requests.
type PushConfig struct {
	Subject    string
	PublicKey  string
	PrivateKey string
}

// Enabled reports whether push delivery is configured. With no key pair the
// scheduler still runs but every send fails, so main treats this as a hard
// requirement outside local.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

type NotifyConfig struct {
	// Schedule is a cron expression evaluated in Timezone.
	Schedule string
	Timezone string
}

func (n NotifyConfig) Location() *time.Location {
	loc, err := time.LoadLocation(n.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Load() Config {
	return Config{
		ServerPort:   envOrDefault("SERVER_PORT", "8080"),
		AppEnv:       envOrDefault("APP_ENV", "local"),
		AuthDevMode:  strings.EqualFold(envOrDefault("AUTH_DEV_MODE", "false"), "true"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		ClientOrigin: envOrDefault("CLIENT_ORIGIN", "http://localhost:5173"),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "todotodo"),
			Password: envOrDefault("DB_PASSWORD", "todotodo"),
			Name:     envOrDefault("DB_NAME", "todotodo"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
			JWTSecret:      envOrDefault("JWT_SECRET", defaultJWTSecret),
			TokenTTL:       7 * 24 * time.Hour,
			CookieSecure:   envOrDefault("APP_ENV", "local") == "prod",
		},
		Push: PushConfig{
			Subject:    os.Getenv("VAPID_SUBJECT"),
			PublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
			PrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		},
		Notify: NotifyConfig{
			Schedule: envOrDefault("NOTIFY_SCHEDULE", "0 9 * * *"),
			Timezone: envOrDefault("APP_TIMEZONE", "Asia/Seoul"),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
