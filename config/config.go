package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Dataset sources.
const (
	DatasetSourceFile = "file"
	DatasetSourceDB   = "db"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort         string
	ServerHost         string
	CORSAllowedOrigins []string

	// Dataset configuration
	DatasetPath   string
	DatasetSource string

	// Recommendation tuning
	DefaultNeighbors   int
	MinFilteredRecipes int

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string

	// Redis configuration
	RedisURL           string
	RedisPassword      string
	RateLimitPerMinute int

	// Logging
	LogLevel  string
	LogFormat string

	// AWS
	AWSRegion  string
	S3Endpoint string
}

// LoadConfig builds a Config from defaults, an optional config file named by
// CONFIG_FILE, environment variables and secrets, then validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	cfg.Environment = GetEnvironment()
	loadSecrets(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8080")
	v.SetDefault("cors_allowed_origins", "http://localhost:8501")

	v.SetDefault("dataset_path", "../Data/dataset.csv.gz")
	v.SetDefault("dataset_source", DatasetSourceFile)
	v.SetDefault("default_neighbors", 5)
	v.SetDefault("min_filtered_recipes", 5)

	v.SetDefault("db_driver", DriverPostgres)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "recipes")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("sqlite_path", "recipes.db")
	v.SetDefault("migrations_dir", "migrations")

	v.SetDefault("redis_url", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("rate_limit_per_minute", 60)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("s3_endpoint", "")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerHost:         v.GetString("server_host"),
		ServerPort:         v.GetString("server_port"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		DatasetPath:        v.GetString("dataset_path"),
		DatasetSource:      strings.ToLower(v.GetString("dataset_source")),
		DefaultNeighbors:   v.GetInt("default_neighbors"),
		MinFilteredRecipes: v.GetInt("min_filtered_recipes"),
		DBDriver:           strings.ToLower(v.GetString("db_driver")),
		DBHost:             v.GetString("db_host"),
		DBPort:             v.GetString("db_port"),
		DBUser:             v.GetString("db_user"),
		DBPassword:         v.GetString("db_password"),
		DBName:             v.GetString("db_name"),
		DBSSLMode:          v.GetString("db_ssl_mode"),
		SQLitePath:         v.GetString("sqlite_path"),
		MigrationsDir:      v.GetString("migrations_dir"),
		RedisURL:           v.GetString("redis_url"),
		RedisPassword:      v.GetString("redis_password"),
		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		AWSRegion:          v.GetString("aws_region"),
		S3Endpoint:         v.GetString("s3_endpoint"),
	}
}

// loadSecrets fills passwords from Docker secrets when the environment
// does not provide them. CI reads everything from the environment.
func loadSecrets(cfg *Config) {
	if cfg.Environment == CI {
		return
	}
	if cfg.DBPassword == "" {
		cfg.DBPassword = readSecret("db_password")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}
}

// Address returns the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN returns the connection string for the configured PostgreSQL database.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RateLimitEnabled reports whether a Redis URL was configured.
func (c *Config) RateLimitEnabled() bool {
	return c.RedisURL != "" && c.RateLimitPerMinute > 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to read secret %s: %v\n", name, err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}
