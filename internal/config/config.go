package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Extraction ExtractionConfig
	Upload     UploadConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for the source-document archive bucket.
// An empty bucket disables archiving.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractionConfig holds LLM extraction settings.
type ExtractionConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	MaxAttempts    int    `mapstructure:"max_attempts"`
	RetryDelaySecs int    `mapstructure:"retry_delay_secs"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
}

// UploadConfig holds upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// Load reads configuration from environment variables with the OSCEHUB_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OSCEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "oscehub")
	v.SetDefault("db.password", "oscehub_secret")
	v.SetDefault("db.name", "oscehub_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults (archiving off unless a bucket is configured)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extraction defaults
	v.SetDefault("extraction.api_key", "")
	v.SetDefault("extraction.model", "gpt-4o")
	v.SetDefault("extraction.max_attempts", 3)
	v.SetDefault("extraction.retry_delay_secs", 5)
	v.SetDefault("extraction.timeout_secs", 120)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 25)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "OSCEHUB_SERVER_PORT",
		"server.read_timeout":         "OSCEHUB_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "OSCEHUB_SERVER_WRITE_TIMEOUT",
		"server.environment":          "OSCEHUB_SERVER_ENVIRONMENT",
		"db.host":                     "OSCEHUB_DB_HOST",
		"db.port":                     "OSCEHUB_DB_PORT",
		"db.user":                     "OSCEHUB_DB_USER",
		"db.password":                 "OSCEHUB_DB_PASSWORD",
		"db.name":                     "OSCEHUB_DB_NAME",
		"db.sslmode":                  "OSCEHUB_DB_SSLMODE",
		"db.max_open":                 "OSCEHUB_DB_MAX_OPEN",
		"db.max_idle":                 "OSCEHUB_DB_MAX_IDLE",
		"s3.region":                   "OSCEHUB_S3_REGION",
		"s3.bucket":                   "OSCEHUB_S3_BUCKET",
		"s3.endpoint":                 "OSCEHUB_S3_ENDPOINT",
		"s3.access_key":               "OSCEHUB_S3_ACCESS_KEY",
		"s3.secret_key":               "OSCEHUB_S3_SECRET_KEY",
		"log.level":                   "OSCEHUB_LOG_LEVEL",
		"log.format":                  "OSCEHUB_LOG_FORMAT",
		"cors.allowed_origins":        "OSCEHUB_CORS_ALLOWED_ORIGINS",
		"extraction.api_key":          "OSCEHUB_EXTRACTION_API_KEY",
		"extraction.model":            "OSCEHUB_EXTRACTION_MODEL",
		"extraction.max_attempts":     "OSCEHUB_EXTRACTION_MAX_ATTEMPTS",
		"extraction.retry_delay_secs": "OSCEHUB_EXTRACTION_RETRY_DELAY_SECS",
		"extraction.timeout_secs":     "OSCEHUB_EXTRACTION_TIMEOUT_SECS",
		"upload.max_file_size_mb":     "OSCEHUB_UPLOAD_MAX_FILE_SIZE_MB",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Comma-separated origins arrive as a single string through env vars.
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
