package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	domainconfig "kbgraph/domain/config"
	"kbgraph/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address" validate:"required"`
	Environment   string `yaml:"environment" validate:"required,oneof=development test staging production"`
	ServiceName   string `yaml:"service_name" validate:"required"`

	// Corpus locations
	ArticlesDir      string `yaml:"articles_dir" validate:"required"`
	ArtifactPath     string `yaml:"artifact_path" validate:"required"`
	CuratedPairsPath string `yaml:"curated_pairs_path"` // empty uses the built-in list

	// Lambda configuration
	IsLambda bool `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"required,oneof=debug info warn error"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`

	// Rate limiting of the read API, per client IP. Zero disables it.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" validate:"min=0"`

	// Observability
	OTLPEndpoint    string `yaml:"otlp_endpoint" validate:"required_if=EnableTracing true"`
	MetricsTextfile string `yaml:"metrics_textfile"`

	// Watch mode
	WatchDebounceMS int `yaml:"watch_debounce_ms" validate:"min=0,max=60000"`

	// Content rules
	Domain domainconfig.DomainConfig `yaml:"domain"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// LoadConfig loads configuration. The order, lowest priority first, is the
// defaults in code, the YAML file named by CONFIG_FILE, then environment
// variables.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()
	cfg.LoadedFrom = []string{"defaults"}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	cfg.loadEnvironmentVariables()
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress:   ":8080",
		Environment:     "development",
		ServiceName:     "kbgraph",
		ArticlesDir:     "src/pages/articles",
		ArtifactPath:    "src/data/articles.json",
		LogLevel:        "info",
		EnableCORS:      true,
		WatchDebounceMS: 500,
		Domain:          *domainconfig.DefaultDomainConfig(),
	}
}

// loadFile overlays a YAML file. Keys absent from the file keep their values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}

func (c *Config) loadEnvironmentVariables() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ServiceName = getEnv("SERVICE_NAME", c.ServiceName)

	c.ArticlesDir = getEnv("ARTICLES_DIR", c.ArticlesDir)
	c.ArtifactPath = getEnv("ARTIFACT_PATH", c.ArtifactPath)
	c.CuratedPairsPath = getEnv("CURATED_PAIRS_PATH", c.CuratedPairsPath)

	c.IsLambda = getEnv("AWS_LAMBDA_FUNCTION_NAME", "") != ""

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)

	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)

	c.OTLPEndpoint = getEnv("OTLP_ENDPOINT", c.OTLPEndpoint)
	c.MetricsTextfile = getEnv("METRICS_TEXTFILE", c.MetricsTextfile)
	c.WatchDebounceMS = getEnvInt("WATCH_DEBOUNCE_MS", c.WatchDebounceMS)
}

// Validate checks the configuration against its constraints
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	return nil
}

// DomainConfig returns the content rules
func (c *Config) DomainConfig() *domainconfig.DomainConfig {
	d := c.Domain
	return &d
}

// WatchDebounce returns the watch-mode debounce interval
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
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
