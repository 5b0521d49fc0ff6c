// Package config provides centralized configuration management for the validator.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server       ServerConfig
	Logging      LoggingConfig
	Validation   ValidationConfig
	Directory    DirectoryConfig
	Submission   SubmissionConfig
	Blob         BlobConfig
	Kafka        KafkaConfig
	FeatureFlags FeatureFlagConfig
	Security     SecurityConfig
}

// ServerConfig holds settings of the ops HTTP server.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxBodySize caps the size of a file posted to the validate endpoint (default: 50MB)
	MaxBodySize int64 `env:"SERVER_MAX_BODY_SIZE" default:"52428800"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ValidationConfig holds validation run settings. The *Enabled switches and
// LeaverRules are the defaults used when no flag store overrides them.
type ValidationConfig struct {
	// ErrorLimit caps the column errors reported per file (default: 200)
	ErrorLimit int `env:"VALIDATION_ERROR_LIMIT" default:"200"`

	// MaxConcurrent is the number of files validated at once (default: 4)
	MaxConcurrent int `env:"VALIDATION_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a message waits for a run slot (default: 30s)
	MaxWaitTime time.Duration `env:"VALIDATION_MAX_WAIT_TIME" default:"30s"`

	// LeaverRules is the leaver code scheme: status or leaver (default: status)
	LeaverRules string `env:"VALIDATION_LEAVER_RULES" default:"status"`

	RowRulesEnabled       bool `env:"VALIDATION_ROW_RULES_ENABLED" default:"true"`
	CrossReferenceEnabled bool `env:"VALIDATION_CROSS_REFERENCE_ENABLED" default:"false"`
}

// DirectoryConfig holds the organisation directory client settings.
type DirectoryConfig struct {
	// BaseURL of the directory API. Required when cross-reference is enabled.
	BaseURL string `env:"DIRECTORY_BASE_URL"`

	Timeout         time.Duration `env:"DIRECTORY_TIMEOUT" default:"10s"`
	RetryAttempts   int           `env:"DIRECTORY_RETRY_ATTEMPTS" default:"2"`
	RetryBaseDelay  time.Duration `env:"DIRECTORY_RETRY_BASE_DELAY" default:"200ms"`
	RetryMaxDelay   time.Duration `env:"DIRECTORY_RETRY_MAX_DELAY" default:"2s"`
	RetryMultiplier float64       `env:"DIRECTORY_RETRY_MULTIPLIER" default:"2"`
}

// SubmissionConfig holds the submission API settings.
type SubmissionConfig struct {
	// APIBaseURL is used to look up the organisation file of a submission (required)
	APIBaseURL string        `env:"SUBMISSION_API_BASE_URL" required:"true"`
	Timeout    time.Duration `env:"SUBMISSION_API_TIMEOUT" default:"10s"`
}

// BlobConfig holds object storage settings.
type BlobConfig struct {
	// Container is the bucket uploaded files are stored in (required)
	Container string `env:"BLOB_CONTAINER" envAlt:"BLOB_BUCKET" required:"true"`
	Region    string `env:"BLOB_REGION" envAlt:"AWS_REGION"`

	// Endpoint and PathStyle point the client at a local S3 compatible store.
	Endpoint  string `env:"BLOB_ENDPOINT"`
	PathStyle bool   `env:"BLOB_PATH_STYLE" default:"false"`
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	// Brokers is a comma-separated list of host:port (required)
	Brokers []string `env:"KAFKA_BROKERS" required:"true"`

	Topic       string `env:"KAFKA_TOPIC" default:"registration-submissions"`
	GroupID     string `env:"KAFKA_GROUP_ID" default:"regvalidate"`
	EventsTopic string `env:"KAFKA_EVENTS_TOPIC" default:"submission-events"`
}

// FeatureFlagConfig holds the flag store settings.
type FeatureFlagConfig struct {
	// DatabaseURL of the PostgreSQL flag store. When empty, flags come from
	// ValidationConfig only.
	DatabaseURL string `env:"FEATURE_FLAGS_DATABASE_URL" envAlt:"DATABASE_URL"`

	MaxConns int `env:"FEATURE_FLAGS_DB_MAX_CONNS" default:"4"`
}

// SecurityConfig holds access settings of the validate endpoint.
type SecurityConfig struct {
	// APIKeys is a comma-separated list of accepted X-API-Key values.
	// When empty the endpoint is open.
	APIKeys []string `env:"API_KEYS"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
