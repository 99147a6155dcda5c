package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Storage   StorageConfig
	Ingestion IngestionConfig
	Server    ServerConfig
	Login     LoginConfig
	Export    ExportConfig
	Log       LogConfig
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	Type string // only "memory" is supported
}

// IngestionConfig holds the Apify task settings used by the batch endpoint
type IngestionConfig struct {
	BaseURL  string
	APIToken string
	TaskID   string
	Wait     time.Duration // fixed delay between starting the run and reading its dataset
	Timeout  time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration // must outlast a batch ingestion
	ShutdownTimeout time.Duration
}

// LoginConfig holds the simulated login delays
type LoginConfig struct {
	CredentialsDelay time.Duration
	CookiesDelay     time.Duration
}

// ExportConfig controls archiving of export attachments to S3.
// Archiving is disabled when ArchiveBucket is empty.
type ExportConfig struct {
	ArchiveBucket string
	Region        string
	Endpoint      string // custom endpoint for local testing
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Storage: StorageConfig{
			Type: v.GetString("STORAGE_TYPE"),
		},
		Ingestion: IngestionConfig{
			BaseURL:  v.GetString("APIFY_BASE_URL"),
			APIToken: v.GetString("API_TOKEN"),
			TaskID:   v.GetString("TASK_ID"),
			Wait:     v.GetDuration("INGESTION_WAIT"),
			Timeout:  v.GetDuration("INGESTION_TIMEOUT"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("PORT"),
			ReadTimeout:     v.GetDuration("READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Login: LoginConfig{
			CredentialsDelay: v.GetDuration("LOGIN_CREDENTIALS_DELAY"),
			CookiesDelay:     v.GetDuration("LOGIN_COOKIES_DELAY"),
		},
		Export: ExportConfig{
			ArchiveBucket: v.GetString("EXPORT_ARCHIVE_BUCKET"),
			Region:        v.GetString("AWS_REGION"),
			Endpoint:      v.GetString("S3_ENDPOINT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Ingestion.Wait < 0 {
		return nil, fmt.Errorf("INGESTION_WAIT must not be negative, got %s", cfg.Ingestion.Wait)
	}
	// A batch request is held open for the whole wait. Zero disables the write timeout.
	if cfg.Server.WriteTimeout > 0 && cfg.Ingestion.Wait >= cfg.Server.WriteTimeout {
		return nil, fmt.Errorf("INGESTION_WAIT (%s) must be shorter than WRITE_TIMEOUT (%s)",
			cfg.Ingestion.Wait, cfg.Server.WriteTimeout)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("STORAGE_TYPE", "memory")
	v.SetDefault("APIFY_BASE_URL", "https://api.apify.com")
	v.SetDefault("INGESTION_WAIT", 60*time.Second)
	v.SetDefault("INGESTION_TIMEOUT", 30*time.Second)
	v.SetDefault("PORT", 5000)
	v.SetDefault("READ_TIMEOUT", 15*time.Second)
	v.SetDefault("WRITE_TIMEOUT", 3*time.Minute)
	v.SetDefault("SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("LOGIN_CREDENTIALS_DELAY", 1500*time.Millisecond)
	v.SetDefault("LOGIN_COOKIES_DELAY", time.Second)
	v.SetDefault("AWS_REGION", "us-west-2")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}
