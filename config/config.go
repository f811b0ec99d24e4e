package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Server settings
	ServerPort      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Env             string
	Version         string

	// Remote summarization service
	Summary SummaryConfig

	// Per-session widget registry
	SessionTTL time.Duration

	RateLimit RateLimitConfig

	// Submission log; empty disables it
	DBPath string

	LogDir   string
	LogLevel string

	// Optional YAML file replacing the embedded site content
	SiteContentFile string
}

type SummaryConfig struct {
	APIURL           string
	Timeout          time.Duration
	MaxResponseBytes int64
	StrictURLs       bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	BurstSize         int
}

const (
	DefaultAPIURL           = "https://fabric-api-production.up.railway.app"
	DefaultSummaryTimeout   = 30 * time.Second
	DefaultMaxResponseBytes = 10 << 20
)

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Failed to load .env file")
	}

	return &Config{
		ServerPort:      GetEnv("SERVER_PORT", "8080"),
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 45*time.Second),
		IdleTimeout:     getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Env:             GetEnv("ENV", "development"),
		Version:         GetEnv("VERSION", "dev"),
		Summary: SummaryConfig{
			APIURL:           strings.TrimRight(GetEnv("SUMMARY_API_URL", DefaultAPIURL), "/"),
			Timeout:          getEnvAsDuration("SUMMARY_TIMEOUT", DefaultSummaryTimeout),
			MaxResponseBytes: getEnvAsInt64("SUMMARY_MAX_RESPONSE_BYTES", DefaultMaxResponseBytes),
			StrictURLs:       getEnvAsBool("STRICT_URL_VALIDATION", false),
		},
		SessionTTL: getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 30),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
		DBPath:          GetEnv("DB_PATH", "./data/submissions.db"),
		LogDir:          GetEnv("LOG_DIR", "./logs"),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		SiteContentFile: GetEnv("SITE_CONTENT_FILE", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid boolean, using default")
	}
	return defaultValue
}

func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if cfg.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	if cfg.SessionTTL <= 0 {
		return errors.New("session TTL must be greater than 0")
	}
	if err := validateSummary(cfg.Summary); err != nil {
		return errors.Wrap(err, "summary service")
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("rate limit requests per minute must be greater than 0")
		}
		if cfg.RateLimit.BurstSize <= 0 {
			return errors.New("rate limit burst size must be greater than 0")
		}
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Wrapf(err, "log level %q", cfg.LogLevel)
	}
	return nil
}

func validateSummary(s SummaryConfig) error {
	if s.APIURL == "" {
		return errors.New("API URL is required")
	}
	u, err := url.Parse(s.APIURL)
	if err != nil {
		return errors.Wrap(err, "invalid API URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API URL must use http or https")
	}
	if s.Timeout <= 0 {
		return errors.New("timeout must be greater than 0")
	}
	if s.MaxResponseBytes <= 0 {
		return errors.New("max response size must be greater than 0")
	}
	return nil
}
