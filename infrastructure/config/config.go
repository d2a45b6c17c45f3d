package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrMissingConnectionString is returned when no database URI is configured
var ErrMissingConnectionString = errors.New("MONGO_URI is required")

// Config holds all application configuration. It is built once at startup
// and passed down explicitly.
type Config struct {
	// Server configuration
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
	ServiceName string `yaml:"service_name"`

	// Database configuration. DatabaseURI selects the backend by scheme:
	// mongodb://, mongodb+srv://, dynamodb:// or memory://
	DatabaseURI  string `yaml:"database_uri"`
	DatabaseName string `yaml:"database_name"`

	// Seed source
	SeedBaseURL string `yaml:"seed_base_url"`

	// Events. Seed notifications go to EventBridge when EventBusName is set.
	EventBusName string `yaml:"event_bus_name"`
	AWSRegion    string `yaml:"aws_region"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Feature flags
	EnableCORS      bool   `yaml:"enable_cors"`
	EnableMetrics   bool   `yaml:"enable_metrics"`
	MetricsAddress  string `yaml:"metrics_address"`
	EnableTracing   bool   `yaml:"enable_tracing"`
	TracingEndpoint string `yaml:"tracing_endpoint"`
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		Port:            3000,
		Environment:     "development",
		ServiceName:     "swift-backend",
		DatabaseName:    "swift-backend-assign",
		SeedBaseURL:     "https://jsonplaceholder.typicode.com",
		LogLevel:        "info",
		EnableCORS:      false,
		EnableMetrics:   false,
		MetricsAddress:  ":9090",
		EnableTracing:   false,
		TracingEndpoint: "localhost:4317",
	}
}

// LoadConfig loads configuration from, in increasing priority, built-in
// defaults, the YAML file named by CONFIG_FILE and environment variables
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile overlays values from a YAML file
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadEnvironment overlays values from environment variables
func (c *Config) loadEnvironment() {
	c.Port = getEnvInt("PORT", c.Port)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ServiceName = getEnv("SERVICE_NAME", c.ServiceName)

	c.DatabaseURI = getEnv("MONGO_URI", getEnv("DATABASE_URI", c.DatabaseURI))
	c.DatabaseName = getEnv("DB_NAME", c.DatabaseName)

	c.SeedBaseURL = getEnv("SEED_API_URL", c.SeedBaseURL)

	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.MetricsAddress = getEnv("METRICS_ADDRESS", c.MetricsAddress)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.TracingEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.TracingEndpoint)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.DatabaseURI == "" {
		return ErrMissingConnectionString
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	u, err := url.Parse(c.SeedBaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("SEED_API_URL must be an absolute URL, got %q", c.SeedBaseURL)
	}
	return nil
}

// ServerAddress is the listen address of the API server
func (c *Config) ServerAddress() string {
	return ":" + strconv.Itoa(c.Port)
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
