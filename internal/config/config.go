package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete service configuration
// The structure matches the config.yaml file and can be overridden by environment variables

type Config struct {
	Server   ServerConfig   `json:"server" mapstructure:"server"`
	Database DatabaseConfig `json:"database" mapstructure:"database"`
	Session  SessionConfig  `json:"session" mapstructure:"session"`
	Workflow WorkflowConfig `json:"workflow" mapstructure:"workflow"`
	Objects  ObjectsConfig  `json:"objects" mapstructure:"objects"`
	Upload   UploadConfig   `json:"upload" mapstructure:"upload"`
	Admin    AdminConfig    `json:"admin" mapstructure:"admin"`
	Log      LogConfig      `json:"log" mapstructure:"log"`
}

// ServerConfig contains the HTTP server configuration

type ServerConfig struct {
	Addr    string `json:"addr" mapstructure:"addr"`
	BaseURL string `json:"base_url" mapstructure:"base_url"`
}

// DatabaseConfig contains the sqlite database configuration

type DatabaseConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// SessionConfig contains session cookie configuration

type SessionConfig struct {
	CookieName string `json:"cookie_name" mapstructure:"cookie_name"`
	TTLHours   int    `json:"ttl_hours" mapstructure:"ttl_hours"`
}

// WorkflowConfig points at the external analysis workflow engine. Secret is
// shared both ways: it authenticates the outbound relay and signs the
// results webhook the engine posts back.

type WorkflowConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// ObjectsConfig contains the MinIO object storage configuration for
// uploaded contract PDFs

type ObjectsConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Endpoint  string `json:"endpoint" mapstructure:"endpoint"`
	AccessKey string `json:"access_key" mapstructure:"access_key"`
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `json:"use_ssl" mapstructure:"use_ssl"`
	Bucket    string `json:"bucket" mapstructure:"bucket"`
}

// UploadConfig bounds incoming contract uploads

type UploadConfig struct {
	MaxSizeMB int64 `json:"max_size_mb" mapstructure:"max_size_mb"`
}

// AdminConfig seeds the initial user account on first boot

type AdminConfig struct {
	Email    string `json:"email" mapstructure:"email"`
	Name     string `json:"name" mapstructure:"name"`
	Password string `json:"password" mapstructure:"password"`
}

// LogConfig contains logging configuration

type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	// Load .env first (ignore error if not present)
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.ross")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("ROSS")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Database.Path = resolvePath(cfg.Database.Path)
	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("SERVER.ADDR", ":8080")
	viper.SetDefault("SERVER.BASE_URL", "http://localhost:8080")

	viper.SetDefault("DATABASE.PATH", "ross.db")

	viper.SetDefault("SESSION.COOKIE_NAME", "ross_session")
	viper.SetDefault("SESSION.TTL_HOURS", 168)

	// Workflow defaults point at a local n8n-style engine; the secret has
	// no default on purpose, Validate rejects an empty one.
	viper.SetDefault("WORKFLOW.URL", "http://localhost:5678/webhook/contract-analysis")

	// Objects defaults
	viper.SetDefault("OBJECTS.ENABLED", false)
	viper.SetDefault("OBJECTS.ENDPOINT", "127.0.0.1:9000")
	viper.SetDefault("OBJECTS.ACCESS_KEY", "minioadmin")
	viper.SetDefault("OBJECTS.SECRET_KEY", "minioadmin")
	viper.SetDefault("OBJECTS.USE_SSL", false)
	viper.SetDefault("OBJECTS.BUCKET", "ross-contracts")

	viper.SetDefault("UPLOAD.MAX_SIZE_MB", 20)

	viper.SetDefault("LOG.LEVEL", "info")
}

// resolvePath resolves ~ to home directory and cleans the path
func resolvePath(p string) string {
	if p == "" {
		return p
	}
	if p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return filepath.Clean(p)
}
