package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port       string `mapstructure:"port"`
	DBURL      string `mapstructure:"db_url"`
	JWTSecret  string `mapstructure:"jwt_secret"`
	CORSOrigin string `mapstructure:"cors_origin"`
	SiteURL    string `mapstructure:"site_url"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Storage StorageConfig `mapstructure:"storage"`
	MinIO   MinIOConfig   `mapstructure:"minio"`

	// empty RedisAddr disables the submit throttle
	RedisAddr    string        `mapstructure:"redis_addr"`
	SubmitLimit  int64         `mapstructure:"submit_limit"`
	SubmitWindow time.Duration `mapstructure:"submit_window"`

	ToggleRate  float64 `mapstructure:"toggle_rate"`
	ToggleBurst int     `mapstructure:"toggle_burst"`

	Google GoogleConfig `mapstructure:"google"`
	SMTP   SMTPConfig   `mapstructure:"smtp"`
}

type StorageConfig struct {
	Driver   string `mapstructure:"driver"` // local | minio
	MediaDir string `mapstructure:"media_dir"`
	MediaURL string `mapstructure:"media_url"`
}

type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
	PublicURL       string `mapstructure:"public_url"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// Enabled reports whether Google sign-in is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	From     string `mapstructure:"from"`
	Password string `mapstructure:"password"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

var App Config

// LoadEnv reads .env (if present) and the process environment into App.
// Missing required values are fatal.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	cfg, err := Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	App = *cfg
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("cors_origin", "http://localhost:5173")
	v.SetDefault("site_url", "http://localhost:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.media_dir", "media")
	v.SetDefault("storage.media_url", "/media")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "artworks")
	v.SetDefault("submit_limit", 5)
	v.SetDefault("submit_window", "10m")
	v.SetDefault("toggle_rate", 5.0)
	v.SetDefault("toggle_burst", 20)
	v.SetDefault("smtp.port", "587")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"port":                    "PORT",
		"db_url":                  "DB_URL",
		"jwt_secret":              "JWT_SECRET",
		"cors_origin":             "CORS_ORIGIN",
		"site_url":                "SITE_URL",
		"log_level":               "LOG_LEVEL",
		"log_format":              "LOG_FORMAT",
		"storage.driver":          "STORAGE_DRIVER",
		"storage.media_dir":       "MEDIA_DIR",
		"storage.media_url":       "MEDIA_URL",
		"minio.endpoint":          "MINIO_ENDPOINT",
		"minio.access_key_id":     "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key": "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":           "MINIO_USE_SSL",
		"minio.bucket":            "MINIO_BUCKET",
		"minio.public_url":        "MINIO_PUBLIC_URL",
		"redis_addr":              "REDIS_ADDR",
		"submit_limit":            "SUBMIT_LIMIT",
		"submit_window":           "SUBMIT_WINDOW",
		"toggle_rate":             "TOGGLE_RATE",
		"toggle_burst":            "TOGGLE_BURST",
		"google.client_id":        "GOOGLE_CLIENT_ID",
		"google.client_secret":    "GOOGLE_CLIENT_SECRET",
		"google.redirect_url":     "GOOGLE_REDIRECT_URL",
		"smtp.host":               "SMTP_HOST",
		"smtp.port":               "SMTP_PORT",
		"smtp.from":               "SMTP_FROM",
		"smtp.password":           "SMTP_PASSWORD",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.DBURL == "" {
		return errors.New("DB_URL is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch strings.ToLower(cfg.Storage.Driver) {
	case "local":
		if cfg.Storage.MediaDir == "" {
			return errors.New("MEDIA_DIR is required for local storage")
		}
	case "minio":
		if cfg.MinIO.Endpoint == "" || cfg.MinIO.AccessKeyID == "" || cfg.MinIO.SecretAccessKey == "" {
			return errors.New("MINIO_ENDPOINT, MINIO_ACCESS_KEY_ID and MINIO_SECRET_ACCESS_KEY are required for minio storage")
		}
		if cfg.MinIO.Bucket == "" {
			return errors.New("MINIO_BUCKET is required")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	if cfg.ToggleRate <= 0 || cfg.ToggleBurst <= 0 {
		return errors.New("TOGGLE_RATE and TOGGLE_BURST must be positive")
	}
	return nil
}
