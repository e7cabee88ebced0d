// Package config provides environment-based configuration for the application.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Narrow config interfaces let components depend only on the settings they use.

// DatabaseConfig exposes database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// QueueConfig exposes Redis/asynq queue settings.
type QueueConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetQueueName() string
	GetQueueConcurrency() int
}

// HTTPConfig exposes HTTP server settings.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// ExternalServiceConfig exposes settings shared by all outbound HTTP
// clients.
type ExternalServiceConfig interface {
	GetExternalTimeout() time.Duration
}

// CompanyServiceConfig exposes the company directory client settings.
type CompanyServiceConfig interface {
	ExternalServiceConfig
	GetCompanyServiceURL() string
	GetCompanyServiceKey() string
}

// CRMManagerConfig exposes the CRM manager client settings.
type CRMManagerConfig interface {
	ExternalServiceConfig
	GetCRMManagerURL() string
	GetCRMManagerKey() string
}

// TicketingConfig exposes the ticketing service client settings.
type TicketingConfig interface {
	ExternalServiceConfig
	GetTicketingURL() string
	GetTicketingKey() string
}

// MessagingConfig exposes the outbound message dispatcher settings.
type MessagingConfig interface {
	ExternalServiceConfig
	GetMessagingURL() string
	GetMessagingKey() string
	GetPhoneRegion() string
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env               string
	HTTPAddr          string
	DatabaseURL       string
	RedisURL          string
	RedisTLSInsecure  bool
	QueueName         string
	QueueConcurrency  int
	CORSAllowAll      bool
	CORSOrigins       []string
	CompanyServiceURL string
	CompanyServiceKey string
	CRMManagerURL     string
	CRMManagerKey     string
	TicketingURL      string
	TicketingKey      string
	MessagingURL      string
	MessagingKey      string
	PhoneRegion       string
	ExternalTimeout   time.Duration
}

// Load reads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisTLSInsecure:  strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		QueueName:         getEnv("QUEUE_NAME", "campaign"),
		QueueConcurrency:  mustInt(getEnv("QUEUE_CONCURRENCY", "10")),
		CORSAllowAll:      corsAllowAll,
		CORSOrigins:       corsOrigins,
		CompanyServiceURL: getEnv("COMPANY_SERVICE_URL", ""),
		CompanyServiceKey: getEnv("COMPANY_SERVICE_KEY", ""),
		CRMManagerURL:     getEnv("CRM_MANAGER_URL", ""),
		CRMManagerKey:     getEnv("CRM_MANAGER_KEY", ""),
		TicketingURL:      getEnv("TICKETING_URL", ""),
		TicketingKey:      getEnv("TICKETING_KEY", ""),
		MessagingURL:      getEnv("MESSAGING_URL", ""),
		MessagingKey:      getEnv("MESSAGING_KEY", ""),
		PhoneRegion:       getEnv("PHONE_REGION", "NL"),
		ExternalTimeout:   mustDuration(getEnv("EXTERNAL_TIMEOUT", "10s")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	// The workflow cannot process a single work item without these three;
	// only the messaging dispatcher is optional.
	for name, value := range map[string]string{
		"COMPANY_SERVICE_URL": cfg.CompanyServiceURL,
		"CRM_MANAGER_URL":     cfg.CRMManagerURL,
		"TICKETING_URL":       cfg.TicketingURL,
	} {
		if value == "" {
			return nil, fmt.Errorf("%s is required", name)
		}
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetQueueName() string      { return c.QueueName }
func (c *Config) GetQueueConcurrency() int  { return c.QueueConcurrency }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

func (c *Config) GetCompanyServiceURL() string { return c.CompanyServiceURL }
func (c *Config) GetCompanyServiceKey() string { return c.CompanyServiceKey }

func (c *Config) GetCRMManagerURL() string { return c.CRMManagerURL }
func (c *Config) GetCRMManagerKey() string { return c.CRMManagerKey }

func (c *Config) GetTicketingURL() string { return c.TicketingURL }
func (c *Config) GetTicketingKey() string { return c.TicketingKey }

func (c *Config) GetMessagingURL() string { return c.MessagingURL }
func (c *Config) GetMessagingKey() string { return c.MessagingKey }
func (c *Config) GetPhoneRegion() string  { return c.PhoneRegion }

func (c *Config) GetExternalTimeout() time.Duration { return c.ExternalTimeout }

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
