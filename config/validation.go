package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration for the current environment and
// reports every problem at once.
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		add("SERVER_PORT", "must be a number between 1 and 65535")
	}
	if cfg.DefaultNeighbors < 1 {
		add("DEFAULT_NEIGHBORS", "must be positive")
	}
	if cfg.MinFilteredRecipes < 1 {
		add("MIN_FILTERED_RECIPES", "must be positive")
	}
	if cfg.RateLimitPerMinute < 0 {
		add("RATE_LIMIT_PER_MINUTE", "must not be negative")
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		add("LOG_FORMAT", "must be json or console")
	}

	switch cfg.DatasetSource {
	case DatasetSourceFile:
		if strings.TrimSpace(cfg.DatasetPath) == "" {
			add("DATASET_PATH", "is required when DATASET_SOURCE is file")
		}
	case DatasetSourceDB:
		validateDatabase(cfg, add)
	default:
		add("DATASET_SOURCE", "must be file or db")
	}

	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
}

// ValidateDatabase checks only the database settings, for commands that
// always need a database regardless of the dataset source.
func ValidateDatabase(cfg *Config) error {
	var msgs []string
	validateDatabase(cfg, func(field, msg string) {
		msgs = append(msgs, ValidationError{Field: field, Message: msg}.Error())
	})
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
}

func validateDatabase(cfg *Config, add func(field, msg string)) {
	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for the sqlite driver")
		}
	case DriverPostgres:
		required := []struct{ field, value string }{
			{"DB_HOST", cfg.DBHost},
			{"DB_PORT", cfg.DBPort},
			{"DB_USER", cfg.DBUser},
			{"DB_NAME", cfg.DBName},
		}
		for _, r := range required {
			if r.value == "" {
				add(r.field, "is required for the postgres driver")
			}
		}
		if cfg.Environment == Production && cfg.DBPassword == "" {
			add("DB_PASSWORD", "db_password secret is required in production")
		}
	default:
		add("DB_DRIVER", "must be postgres or sqlite")
	}
}
