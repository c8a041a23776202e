package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	// Comma separated; empty allows any origin
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// Auth settings. JWTSecretName points at a Secret Manager version and wins over JWTSecret when set.
	JWTSecret     string `envconfig:"JWT_SECRET"`
	JWTSecretName string `envconfig:"JWT_SECRET_NAME"`
	JWTTTLMinutes int    `envconfig:"JWT_TTL_MINUTES" default:"1440"`

	// Supabase storage (S3 protocol)
	S3URL       string `envconfig:"S3_URL" required:"true"`
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"media-files"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY" required:"true"`

	// Catalog cache; an empty REDIS_URL disables caching.
	RedisURL           string `envconfig:"REDIS_URL"`
	CatalogCacheTTLSec int    `envconfig:"CATALOG_CACHE_TTL_SEC" default:"60"`

	// Domain events; an empty GCP_PROJECT_ID logs events instead of publishing them.
	GCPProjectID      string `envconfig:"GCP_PROJECT_ID"`
	PubSubEventsTopic string `envconfig:"PUBSUB_EVENTS_TOPIC" default:"gurukul-events"`

	// Media worker settings
	MediaQueueName         string `envconfig:"MEDIA_QUEUE_NAME" default:"media_queue"`
	MediaPollTimeoutSec    int    `envconfig:"MEDIA_POLL_TIMEOUT_SEC" default:"30"`
	MediaPollMaxMsg        int    `envconfig:"MEDIA_POLL_MAX_MSG" default:"1"`
	MediaMaxRetries        int    `envconfig:"MEDIA_MAX_RETRIES" default:"5"`
	MediaBackoffInitialSec int    `envconfig:"MEDIA_BACKOFF_INITIAL_SEC" default:"1"`
	MediaBackoffMaxSec     int    `envconfig:"MEDIA_BACKOFF_MAX_SEC" default:"60"`
	MediaMaxUploadMB       int    `envconfig:"MEDIA_MAX_UPLOAD_MB" default:"500"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.JWTSecretName == "" {
		return errors.New("one of JWT_SECRET or JWT_SECRET_NAME must be set")
	}
	if c.JWTTTLMinutes <= 0 {
		return errors.New("JWT_TTL_MINUTES must be positive")
	}
	if c.MediaMaxUploadMB <= 0 {
		return errors.New("MEDIA_MAX_UPLOAD_MB must be positive")
	}
	if c.MediaMaxRetries < 1 {
		return errors.New("MEDIA_MAX_RETRIES must be at least 1")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLSec) * time.Second
}

// MaxUploadBytes is the largest media object a client may announce.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MediaMaxUploadMB) * 1024 * 1024
}
