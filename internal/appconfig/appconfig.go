package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host          string              `yaml:"host"`
	BasePath      string              `yaml:"basePath"`
	DocsPath      string              `yaml:"docsPath"`
	CORS          CORSConfig          `yaml:"cors"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Redis         RedisConfig         `yaml:"redis"`
	Pulsar        PulsarConfig        `yaml:"pulsar"`
	AWS           AWSConfig           `yaml:"aws"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Secrets       Secrets             `yaml:"-"`
}

// CORSConfig lists the portal origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// DatabaseConfig defines the database connection details
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Source string `yaml:"source"`
}

// AuthConfig defines session token settings
type AuthConfig struct {
	Issuer            string        `yaml:"issuer"`
	AccessTokenTTL    time.Duration `yaml:"accessTokenTTL"`
	RefreshTokenTTL   time.Duration `yaml:"refreshTokenTTL"`
	SigningSecretName string        `yaml:"signingSecretName"`
	SigningSecretKey  string        `yaml:"signingSecretKey"`
}

// RedisConfig defines where revoked session tokens are tracked
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// PulsarConfig defines the change feed connection details
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
	TopicConsumer string `yaml:"topicConsumer"`
	Subscription  string `yaml:"subscription"`
}

type ExportsConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type AWSConfig struct {
	Region  string        `yaml:"region"`
	Exports ExportsConfig `yaml:"exports"`
}

// NotificationsConfig defines the email chain for submission notifications
type NotificationsConfig struct {
	ServiceAccountEmail string   `yaml:"serviceAccountEmail"`
	AdminEmails         []string `yaml:"adminEmails"`
}

// Secrets are read from the environment only, never from the config file
type Secrets struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	JWTSecret     string `env:"JWT_SECRET"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

// LoadConfig loads and parses the configuration from a given file path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is required")
	}

	// Parse the template file. Unset variables render empty.
	tmpl, err := template.New(filepath.Base(path)).Option("missingkey=zero").ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file template: %w", err)
	}

	// Execute the template with environment variables
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, loadEnvVars()); err != nil {
		return nil, fmt.Errorf("error executing config file template: %w", err)
	}

	config, err := parse(buf.Bytes())
	if err != nil {
		return nil, err
	}

	if err := env.Parse(&config.Secrets); err != nil {
		return nil, fmt.Errorf("failed to parse secrets from environment: %w", err)
	}

	if config.Database.Source == "" {
		config.Database.Source = config.Secrets.DatabaseURL
	}

	return config, nil
}

func parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	return config, nil
}

// Default returns the configuration used for any field the file leaves out.
func Default() *Config {
	return &Config{
		BasePath: "/api",
		DocsPath: "/api/docs",
		Database: DatabaseConfig{Driver: "postgres"},
		Auth: AuthConfig{
			Issuer:          "creators-services",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 30 * 24 * time.Hour,
		},
		Redis: RedisConfig{KeyPrefix: "creators:revoked:"},
	}
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
