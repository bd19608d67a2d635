package app

import (
	"os"
	"strconv"
	"time"

	"github.com/inkwellhq/inkwell/pkg/cryptox"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	DBDriver     string // Database driver (sqlite, postgres) (default: sqlite)
	DatabaseFile string // Path to SQLite database file (default: ./blog.db)
	DatabaseURL  string // Postgres connection string (required when DBDriver=postgres)

	HashCost    int           // bcrypt cost for passwords and tokens (default: bcrypt's default)
	ResetWindow time.Duration // How long a password reset token stays valid (default: 2h)

	NameMaxLength     int // Max user name length (default: 50)
	EmailMaxLength    int // Max email length (default: 255)
	PasswordMinLength int // Min password length (default: 6)

	Mailer       string // Mail delivery (log, smtp) (default: log)
	SMTPAddr     string // SMTP server host:port (required when Mailer=smtp)
	SMTPUsername string
	SMTPPassword string
	MailFrom     string // From address for outbound mail (default: no-reply@localhost)
	BaseURL      string // Public base URL used in emailed links (default: http://localhost:8080)

	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-reset sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		DBDriver:     getEnvOrDefault("BLOG_DB_DRIVER", "sqlite"),
		DatabaseFile: getEnvOrDefault("BLOG_DATABASE_FILE", "blog.db"),
		DatabaseURL:  os.Getenv("BLOG_DATABASE_URL"),

		HashCost:    getEnvIntOrDefault("BLOG_HASH_COST", cryptox.DefaultCost),
		ResetWindow: getEnvDurationOrDefault("BLOG_RESET_WINDOW", 2*time.Hour),

		NameMaxLength:     getEnvIntOrDefault("BLOG_NAME_MAX_LENGTH", 50),
		EmailMaxLength:    getEnvIntOrDefault("BLOG_EMAIL_MAX_LENGTH", 255),
		PasswordMinLength: getEnvIntOrDefault("BLOG_PASSWORD_MIN_LENGTH", 6),

		Mailer:       getEnvOrDefault("BLOG_MAILER", "log"),
		SMTPAddr:     os.Getenv("SMTP_ADDR"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnvOrDefault("MAIL_FROM", "no-reply@localhost"),
		BaseURL:      getEnvOrDefault("BLOG_BASE_URL", "http://localhost:8080"),

		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
