package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrEmptyEnvironmentVariable = errors.New("empty environment variable")
	ErrInvalidConfig            = errors.New("invalid configuration")
)

// Mail providers
const (
	MailProviderResend = "resend"
	MailProviderSMTP   = "smtp"
	MailProviderGmail  = "gmail"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Mail     MailConfig
	Dispatch DispatchConfig
	Worker   WorkerConfig
	Uploads  UploadConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// AuthConfig holds the secret used to verify bearer tokens
type AuthConfig struct {
	JWTSecret string
}

// RedisConfig holds Redis connection settings. Redis backs both the asynq
// queue and the per-campaign run lease.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port for clients that take a single address.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka/event streaming configuration.
// Publishing is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers       string
	Topic         string
	ConsumerGroup string
}

// BrokerList splits Brokers on commas.
func (k KafkaConfig) BrokerList() []string {
	if strings.TrimSpace(k.Brokers) == "" {
		return nil
	}
	parts := strings.Split(k.Brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MailConfig selects and configures the outbound mail transport
type MailConfig struct {
	Provider    string
	FromAddress string
	FromName    string

	ResendAPIKey string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	GmailClientID        string
	GmailClientSecret    string
	GmailRefreshToken    string
	GmailCredentialsFile string
}

// SupportsAttachments reports whether the configured provider can send local files.
func (m MailConfig) SupportsAttachments() bool {
	return m.Provider != MailProviderResend
}

// DispatchConfig holds the send caps and pacing of the dispatch loop
type DispatchConfig struct {
	MaxEmailsPerHour    int
	MaxEmailsPerDay     int
	MinDelay            time.Duration
	MaxDelay            time.Duration
	ResumeHour          int
	ResumeLocation      *time.Location
	StatusPollInterval  time.Duration
	TriggerPollInterval time.Duration
}

// WorkerConfig holds background worker sizing
type WorkerConfig struct {
	Concurrency   int
	KafkaPoolSize int
}

// UploadConfig holds where uploaded attachments are stored
type UploadConfig struct {
	Folder   string
	MaxBytes int64
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port      int
	WebAppURI string
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	var err error
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	// Redis
	if cfg.Redis.Enabled, err = envBool("REDIS_ENABLED", true); err != nil {
		return nil, err
	}
	cfg.Redis.Host = getEnvWithDefault("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = envInt("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	// Kafka
	cfg.Kafka.Brokers = os.Getenv("KAFKA_BROKERS")
	cfg.Kafka.Topic = getEnvWithDefault("KAFKA_TOPIC", "campaign-events")
	cfg.Kafka.ConsumerGroup = getEnvWithDefault("KAFKA_CONSUMER_GROUP", "campaign-activity")

	if err := loadMail(cfg); err != nil {
		return nil, err
	}
	if err := loadDispatch(cfg); err != nil {
		return nil, err
	}

	// Workers
	if cfg.Worker.Concurrency, err = envInt("WORKER_CONCURRENCY", 20); err != nil {
		return nil, err
	}
	if cfg.Worker.KafkaPoolSize, err = envInt("KAFKA_WORKER_POOL_SIZE", 5); err != nil {
		return nil, err
	}

	// Uploads
	cfg.Uploads.Folder = getEnvWithDefault("UPLOAD_FOLDER", "uploads")
	maxUpload, err := envInt("MAX_UPLOAD_BYTES", 16*1024*1024)
	if err != nil {
		return nil, err
	}
	cfg.Uploads.MaxBytes = int64(maxUpload)

	// Server
	if cfg.Server.Port, err = envInt("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	cfg.Server.WebAppURI = getEnvWithDefault("WEBAPP_URI", "http://localhost:3000")

	return cfg, nil
}

func loadMail(cfg *Config) error {
	var err error
	cfg.Mail.Provider = strings.ToLower(getEnvWithDefault("MAIL_PROVIDER", MailProviderGmail))
	if cfg.Mail.FromAddress, err = requireEnv("MAIL_FROM_ADDRESS"); err != nil {
		return err
	}
	cfg.Mail.FromName = os.Getenv("MAIL_FROM_NAME")

	switch cfg.Mail.Provider {
	case MailProviderResend:
		if cfg.Mail.ResendAPIKey, err = requireEnv("RESEND_API_KEY"); err != nil {
			return err
		}
	case MailProviderSMTP:
		if cfg.Mail.SMTPHost, err = requireEnv("SMTP_HOST"); err != nil {
			return err
		}
		if cfg.Mail.SMTPPort, err = envInt("SMTP_PORT", 587); err != nil {
			return err
		}
		cfg.Mail.SMTPUsername = os.Getenv("SMTP_USERNAME")
		cfg.Mail.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	case MailProviderGmail:
		cfg.Mail.GmailClientID = os.Getenv("GMAIL_CLIENT_ID")
		cfg.Mail.GmailClientSecret = os.Getenv("GMAIL_CLIENT_SECRET")
		cfg.Mail.GmailRefreshToken = os.Getenv("GMAIL_REFRESH_TOKEN")
		cfg.Mail.GmailCredentialsFile = os.Getenv("GMAIL_CREDENTIALS_FILE")
		if cfg.Mail.GmailRefreshToken == "" && cfg.Mail.GmailCredentialsFile == "" {
			return fmt.Errorf("GMAIL_REFRESH_TOKEN or GMAIL_CREDENTIALS_FILE must be set: %w", ErrEmptyEnvironmentVariable)
		}
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q: %w", cfg.Mail.Provider, ErrInvalidConfig)
	}
	return nil
}

func loadDispatch(cfg *Config) error {
	var err error
	d := &cfg.Dispatch

	if d.MaxEmailsPerHour, err = envInt("MAX_EMAILS_PER_HOUR", 4); err != nil {
		return err
	}
	if d.MaxEmailsPerDay, err = envInt("MAX_EMAILS_PER_DAY", 25); err != nil {
		return err
	}
	if d.MaxEmailsPerHour <= 0 || d.MaxEmailsPerDay <= 0 {
		return fmt.Errorf("send caps must be positive: %w", ErrInvalidConfig)
	}

	minDelay, err := envInt("MIN_DELAY_SECONDS", 60)
	if err != nil {
		return err
	}
	maxDelay, err := envInt("MAX_DELAY_SECONDS", 300)
	if err != nil {
		return err
	}
	if minDelay < 0 || maxDelay < minDelay {
		return fmt.Errorf("MIN_DELAY_SECONDS must be >= 0 and <= MAX_DELAY_SECONDS: %w", ErrInvalidConfig)
	}
	d.MinDelay = time.Duration(minDelay) * time.Second
	d.MaxDelay = time.Duration(maxDelay) * time.Second

	if d.ResumeHour, err = envInt("RESUME_HOUR", 9); err != nil {
		return err
	}
	if d.ResumeHour < 0 || d.ResumeHour > 23 {
		return fmt.Errorf("RESUME_HOUR must be within 0-23: %w", ErrInvalidConfig)
	}
	if d.ResumeLocation, err = time.LoadLocation(getEnvWithDefault("RESUME_TIMEZONE", "UTC")); err != nil {
		return fmt.Errorf("failed to parse RESUME_TIMEZONE: %w", err)
	}

	statusPoll, err := envInt("STATUS_POLL_SECONDS", 5)
	if err != nil {
		return err
	}
	triggerPoll, err := envInt("TRIGGER_POLL_SECONDS", 30)
	if err != nil {
		return err
	}
	d.StatusPollInterval = time.Duration(statusPoll) * time.Second
	d.TriggerPollInterval = time.Duration(triggerPoll) * time.Second
	return nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func envInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return v, nil
}

func envBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return v, nil
}
