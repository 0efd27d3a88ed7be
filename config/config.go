package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	EventTriggers EventTriggersConfig
	ExportStorage ExportStorageConfig
	Cache         CacheConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL           string
	CACertPath    string
	TLSServerName string
	MaxConns      int32
	MinConns      int32
	WorkOffline   bool
}

// AuthConfig carries the two independent listing secrets: the caller-facing
// admin token and the token the store itself requires.
type AuthConfig struct {
	AdminAPIToken     string
	StorageAdminToken string
}

type EventTriggersConfig struct {
	InquiryCreatedTriggerURL string
}

type ExportStorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
}

// Enabled reports whether snapshot export has credentials and a bucket
func (c ExportStorageConfig) Enabled() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

type CacheConfig struct {
	InquiryListTTLSeconds int // 0 disables the listing cache
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://salvex.agency,https://www.salvex.agency")
	v.SetDefault("DATABASE_CA_CERT_PATH", "certs/db-ca.crt")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("DB_WORK_OFFLINE", false)
	v.SetDefault("INQUIRY_CACHE_TTL", 30)
	v.SetDefault("EXPORT_STORAGE_REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "salvex-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "salvex")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "salvex-api")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:           v.GetString("DATABASE_URL"),
			CACertPath:    v.GetString("DATABASE_CA_CERT_PATH"),
			TLSServerName: v.GetString("DATABASE_TLS_SERVER_NAME"),
			MaxConns:      v.GetInt32("DB_MAX_CONNS"),
			MinConns:      v.GetInt32("DB_MIN_CONNS"),
			WorkOffline:   v.GetBool("DB_WORK_OFFLINE"),
		},
		Auth: AuthConfig{
			AdminAPIToken:     strings.TrimSpace(v.GetString("ADMIN_API_TOKEN")),
			StorageAdminToken: strings.TrimSpace(v.GetString("STORAGE_ADMIN_TOKEN")),
		},
		EventTriggers: EventTriggersConfig{
			InquiryCreatedTriggerURL: v.GetString("INQUIRY_CREATED_TRIGGER_URL"),
		},
		ExportStorage: ExportStorageConfig{
			AccessKeyID:     v.GetString("EXPORT_STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("EXPORT_STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("EXPORT_STORAGE_BUCKET_NAME"),
			Endpoint:        v.GetString("EXPORT_STORAGE_ENDPOINT"),
			Region:          v.GetString("EXPORT_STORAGE_REGION"),
		},
		Cache: CacheConfig{
			InquiryListTTLSeconds: v.GetInt("INQUIRY_CACHE_TTL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set.
// Missing admin tokens are allowed: listing then fails closed at request time.
func (c *Config) Validate() error {
	if !c.Database.WorkOffline && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when not in offline mode")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Cache.InquiryListTTLSeconds < 0 {
		return fmt.Errorf("INQUIRY_CACHE_TTL must not be negative")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// splitList parses a comma-separated setting, dropping blanks
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
