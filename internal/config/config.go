package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Session struct {
		Secret     string `yaml:"secret" env:"SESSION_SECRET"`
		CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		MaxAge     int    `yaml:"max_age" env:"SESSION_MAX_AGE"` // seconds
	} `yaml:"session"`

	Upload struct {
		Dir        string `yaml:"dir" env:"UPLOAD_DIR"`
		MaxSize    int64  `yaml:"max_size" env:"UPLOAD_MAX_SIZE"` // bytes
		Extensions string `yaml:"extensions" env:"UPLOAD_EXTENSIONS"`
	} `yaml:"upload"`

	Registration struct {
		TeacherCode string `yaml:"teacher_code" env:"TEACHER_REGISTRATION_CODE"`
	} `yaml:"registration"`

	// Firebase holds the public client-side identity-provider configuration.
	// None of these values are secret; they are handed to the browser as-is.
	Firebase struct {
		APIKey            string `yaml:"api_key" env:"FIREBASE_API_KEY"`
		AuthDomain        string `yaml:"auth_domain" env:"FIREBASE_AUTH_DOMAIN"`
		ProjectID         string `yaml:"project_id" env:"FIREBASE_PROJECT_ID"`
		StorageBucket     string `yaml:"storage_bucket" env:"FIREBASE_STORAGE_BUCKET"`
		MessagingSenderID string `yaml:"messaging_sender_id" env:"FIREBASE_MESSAGING_SENDER_ID"`
		AppID             string `yaml:"app_id" env:"FIREBASE_APP_ID"`
	} `yaml:"firebase"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "meritbook"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.Session.CookieName = "meritbook_session"
	config.Session.MaxAge = 86400

	config.Upload.Dir = "uploads"
	config.Upload.MaxSize = 16 << 20
	config.Upload.Extensions = "pdf,png,jpg,jpeg"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid. Missing secrets are
// fatal in production mode: the process must not start serving traffic.
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.IsProduction() {
		if config.Session.Secret == "" {
			return fmt.Errorf("session secret is required in production mode")
		}
		if config.Registration.TeacherCode == "" {
			return fmt.Errorf("teacher registration code is required in production mode")
		}
	}

	if config.Upload.MaxSize <= 0 {
		return fmt.Errorf("upload max size must be positive")
	}
	if len(config.AllowedExtensions()) == 0 {
		return fmt.Errorf("at least one allowed upload extension is required")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// AllowedExtensions returns the upload extension allow-list
func (c *Config) AllowedExtensions() []string {
	var exts []string
	for _, e := range strings.Split(c.Upload.Extensions, ",") {
		if e = strings.TrimSpace(e); e != "" {
			exts = append(exts, strings.ToLower(e))
		}
	}
	return exts
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
