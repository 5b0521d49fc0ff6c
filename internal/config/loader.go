package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/regvalidate/internal/rules"
)

// Load fills a Config from the environment and validates it.
//
// Each leaf field is described by its tags: env names the variable, envAlt
// an older name read when env is unset, default the value used when both
// are unset, and required:"true" turns a missing value into an error.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := fill(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// envTag is the parsed tag set of one config field.
type envTag struct {
	name, alt, def string
	required       bool
}

func tagOf(f reflect.StructField) envTag {
	return envTag{
		name:     f.Tag.Get("env"),
		alt:      f.Tag.Get("envAlt"),
		def:      f.Tag.Get("default"),
		required: f.Tag.Get("required") == "true",
	}
}

// value resolves the raw string for the field. ok is false when nothing is
// set and there is no default.
func (t envTag) value() (raw string, ok bool, err error) {
	for _, name := range []string{t.name, t.alt} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			return v, true, nil
		}
	}
	if t.required {
		return "", false, fmt.Errorf("required environment variable %s is not set", t.name)
	}
	return t.def, t.def != "", nil
}

// fill walks the sections of v and sets every tagged field.
func fill(v reflect.Value) error {
	typ := v.Type()
	for i := range typ.NumField() {
		sf, fv := typ.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := fill(fv); err != nil {
				return err
			}
			continue
		}

		tag := tagOf(sf)
		if tag.name == "" {
			continue
		}
		raw, ok, err := tag.value()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := decode(fv, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", tag.name, raw, err)
		}
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// decode parses raw into the field's type. Slices are comma separated with
// blanks dropped.
func decode(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice of %s", fv.Type().Elem())
		}
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		fv.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", fv.Type())
	}
	return nil
}

// Validate reports every invalid setting in one error.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, "SERVER_MAX_BODY_SIZE must be positive")
	}

	// Validation run settings
	if c.Validation.ErrorLimit <= 0 {
		errs = append(errs, "VALIDATION_ERROR_LIMIT must be positive")
	}
	if c.Validation.MaxConcurrent <= 0 {
		errs = append(errs, "VALIDATION_MAX_CONCURRENT must be positive")
	}
	if c.Validation.MaxWaitTime <= 0 {
		errs = append(errs, "VALIDATION_MAX_WAIT_TIME must be positive")
	}
	if _, err := rules.ParseLeaverRuleSet(c.Validation.LeaverRules); err != nil {
		errs = append(errs, fmt.Sprintf("VALIDATION_LEAVER_RULES (%q) must be one of: status, leaver", c.Validation.LeaverRules))
	}

	// Directory validation
	if c.Validation.CrossReferenceEnabled && c.Directory.BaseURL == "" {
		errs = append(errs, "DIRECTORY_BASE_URL is required when VALIDATION_CROSS_REFERENCE_ENABLED is true")
	}
	if c.Directory.BaseURL != "" {
		if err := checkURL(c.Directory.BaseURL); err != nil {
			errs = append(errs, fmt.Sprintf("DIRECTORY_BASE_URL: %v", err))
		}
	}
	if c.Directory.RetryAttempts < 0 {
		errs = append(errs, "DIRECTORY_RETRY_ATTEMPTS must be non-negative")
	}
	if c.Directory.RetryMultiplier < 1 {
		errs = append(errs, "DIRECTORY_RETRY_MULTIPLIER must be >= 1")
	}

	// Submission API validation
	if c.Submission.APIBaseURL == "" {
		errs = append(errs, "SUBMISSION_API_BASE_URL is required")
	} else if err := checkURL(c.Submission.APIBaseURL); err != nil {
		errs = append(errs, fmt.Sprintf("SUBMISSION_API_BASE_URL: %v", err))
	}

	// Blob validation
	if c.Blob.Container == "" {
		errs = append(errs, "BLOB_CONTAINER is required")
	}

	// Kafka validation
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, "KAFKA_BROKERS is required")
	}
	if c.Kafka.Topic == "" || c.Kafka.EventsTopic == "" {
		errs = append(errs, "KAFKA_TOPIC and KAFKA_EVENTS_TOPIC must not be empty")
	}
	if c.Kafka.Topic != "" && c.Kafka.Topic == c.Kafka.EventsTopic {
		errs = append(errs, "KAFKA_TOPIC and KAFKA_EVENTS_TOPIC must differ")
	}

	// Feature flag store validation
	if c.FeatureFlags.DatabaseURL != "" && c.FeatureFlags.MaxConns <= 0 {
		errs = append(errs, "FEATURE_FLAGS_DB_MAX_CONNS must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is empty")
	}
	return nil
}

// LeaverRuleSet returns the configured leaver rule set. Validate has already
// rejected unknown values.
func (c *Config) LeaverRuleSet() rules.LeaverRuleSet {
	set, _ := rules.ParseLeaverRuleSet(c.Validation.LeaverRules)
	return set
}

// String is the config as logged at startup. The flag store URL is masked
// and API keys are only counted.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Validation: {ErrorLimit: %d, MaxConcurrent: %d, LeaverRules: %q, RowRules: %v, CrossReference: %v}, ",
		c.Validation.ErrorLimit, c.Validation.MaxConcurrent, c.Validation.LeaverRules,
		c.Validation.RowRulesEnabled, c.Validation.CrossReferenceEnabled))
	b.WriteString(fmt.Sprintf("Directory: {BaseURL: %q, RetryAttempts: %d}, ", c.Directory.BaseURL, c.Directory.RetryAttempts))
	b.WriteString(fmt.Sprintf("Blob: {Container: %q, Region: %q}, ", c.Blob.Container, c.Blob.Region))
	b.WriteString(fmt.Sprintf("Kafka: {Brokers: %v, Topic: %q, GroupID: %q, EventsTopic: %q}, ",
		c.Kafka.Brokers, c.Kafka.Topic, c.Kafka.GroupID, c.Kafka.EventsTopic))
	if c.FeatureFlags.DatabaseURL != "" {
		b.WriteString("FeatureFlags: {DatabaseURL: [MASKED]}, ")
	} else {
		b.WriteString("FeatureFlags: {static}, ")
	}
	b.WriteString(fmt.Sprintf("Security: {APIKeys: %d configured}, ", len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
