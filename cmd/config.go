package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"ordering/internal/jobs"
	"ordering/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPPort string
	LogLevel string

	// Storage selects the order store: StoragePostgres or StorageMemory.
	Storage    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// KafkaBrokers is a comma separated list; empty publishes status changes to the log only.
	KafkaBrokers             string
	KafkaOrderStatusTopic    string
	ReadModelRefreshSchedule string
}

// DefaultConfig holds the values used when a variable is not set.
func DefaultConfig() Config {
	return Config{
		HTTPPort:                 "8080",
		LogLevel:                 "info",
		Storage:                  StoragePostgres,
		DBHost:                   "localhost",
		DBPort:                   "5432",
		DBUser:                   "postgres",
		DBName:                   "ordering",
		DBSslMode:                "disable",
		KafkaOrderStatusTopic:    "order.status.changed",
		ReadModelRefreshSchedule: jobs.DefaultReadModelRefreshSchedule,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPPort) == "" {
		return errs.NewValueIsRequiredError("HTTP_PORT")
	}
	switch c.Storage {
	case StoragePostgres:
		if c.DBHost == "" || c.DBName == "" {
			return errs.NewValueIsRequiredError("DB_HOST/DB_NAME")
		}
	case StorageMemory:
	default:
		return errs.NewValueIsInvalidErrorWithCause("STORAGE", fmt.Errorf("unknown storage %q", c.Storage))
	}
	if c.KafkaBrokers != "" && c.KafkaOrderStatusTopic == "" {
		return errs.NewValueIsRequiredError("KAFKA_ORDER_STATUS_TOPIC")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.ReadModelRefreshSchedule); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("READ_MODEL_REFRESH_SCHEDULE", err)
	}
	return nil
}

// DSN builds the postgres connection string from the DB_* parts.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return u.String()
}
