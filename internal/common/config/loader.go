// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like SEC_API_USER_AGENT
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// 1️⃣ LOAD BASE CONFIG
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// 2️⃣ LOAD ENV CONFIG
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	// 3️⃣ EXPAND ENV PLACEHOLDERS
	expandEnvVars(viper.GetViper())

	// 4️⃣ Unmarshal final config
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	// 5️⃣ DIRECT OVERRIDE IF STILL EMPTY
	overrideEmptyConfig(&cfg)

	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from multiple possible locations
func loadEnvFile() {
	// Try multiple paths (for running from different directories)
	possiblePaths := []string{
		".env",          // Current directory
		"../.env",       // Parent directory
		"../../.env",    // Two levels up (for tests in test/e2e/)
		"../../../.env", // Three levels up
	}

	// Also try to find project root by looking for go.mod
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				fmt.Printf("✅ Loaded .env from: %s\n", path)
				return
			}
		}
	}

	fmt.Printf("⚠️  .env file not found in any location, using system environment variables\n")
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Walk up directories looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}

// Improved environment variable expansion
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		// Only process string values
		if strVal, ok := val.(string); ok {
			// Check if it contains environment variable pattern
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	// SEC identity
	if cfg.Edgar.UserAgent == "" {
		if val := os.Getenv("SEC_API_USER_AGENT"); val != "" {
			cfg.Edgar.UserAgent = val
		}
	}

	// Deployment platforms inject the listen port via PORT
	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}

	// Database overrides
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Database.Redis.Address = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile() // Load env file first

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Expand environment variables before unmarshal
	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// App defaults
	if cfg.App.Name == "" {
		cfg.App.Name = "edgartools-content"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0.0"
	}

	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8001
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15000
	}

	// EDGAR client defaults
	if cfg.Edgar.UserAgent == "" {
		cfg.Edgar.UserAgent = "EDGAR Content Service/1.0 (dev@localhost)"
	}
	if cfg.Edgar.ArchivesBaseURL == "" {
		cfg.Edgar.ArchivesBaseURL = "https://www.sec.gov"
	}
	if cfg.Edgar.DataBaseURL == "" {
		cfg.Edgar.DataBaseURL = "https://data.sec.gov"
	}
	if cfg.Edgar.FullTextBaseURL == "" {
		cfg.Edgar.FullTextBaseURL = "https://efts.sec.gov"
	}
	if cfg.Edgar.RequestsPerSecond == 0 {
		cfg.Edgar.RequestsPerSecond = 10 // SEC fair access ceiling
	}
	if cfg.Edgar.Timeout == 0 {
		cfg.Edgar.Timeout = 30000
	}
	if cfg.Edgar.MaxRetries == 0 {
		cfg.Edgar.MaxRetries = 3
	}
	if cfg.Edgar.MaxDocumentBytes == 0 {
		cfg.Edgar.MaxDocumentBytes = 25 << 20
	}
	if cfg.Edgar.MaxConcurrentFetch == 0 {
		cfg.Edgar.MaxConcurrentFetch = 4
	}

	// Database defaults
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "filing-sections"
	}

	// Elasticsearch URL fallback
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	// Extraction limits match the public API contract
	if cfg.Extraction.DescriptionMaxChars == 0 {
		cfg.Extraction.DescriptionMaxChars = 5000
	}
	if cfg.Extraction.MDAMaxChars == 0 {
		cfg.Extraction.MDAMaxChars = 10000
	}
	if cfg.Extraction.MaxRiskFactors == 0 {
		cfg.Extraction.MaxRiskFactors = 20
	}
	if cfg.Extraction.MaxHighlights == 0 {
		cfg.Extraction.MaxHighlights = 5
	}

	// Cache TTL defaults
	if cfg.Cache.TickersTTL == 0 {
		cfg.Cache.TickersTTL = 86400 // daily directory refresh
	}
	if cfg.Cache.SubmissionsTTL == 0 {
		cfg.Cache.SubmissionsTTL = 900
	}
	if cfg.Cache.FactsTTL == 0 {
		cfg.Cache.FactsTTL = 21600
	}
	if cfg.Cache.ResolveTTL == 0 {
		cfg.Cache.ResolveTTL = 3600
	}

	// Registry defaults
	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "configs/form-registry.json"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Handler defaults
	for key, handler := range cfg.Handlers {
		if handler.Timeout == 0 {
			handler.Timeout = 30000
		}
		if handler.MaxRetries == 0 {
			handler.MaxRetries = 3
		}
		cfg.Handlers[key] = handler
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port, got %d", cfg.Server.Port)
	}

	if cfg.Edgar.UserAgent == "" {
		return fmt.Errorf("edgar.user_agent is required (set SEC_API_USER_AGENT)")
	}
	if cfg.Edgar.RequestsPerSecond <= 0 {
		return fmt.Errorf("edgar.requests_per_second must be positive")
	}

	if cfg.Database.Postgres.Enabled {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	}

	if cfg.Database.Elasticsearch.Enabled {
		if len(cfg.Database.Elasticsearch.Addresses) == 0 && cfg.Database.Elasticsearch.URL == "" {
			return fmt.Errorf("database.elasticsearch.addresses or url is required")
		}
	}

	if cfg.Database.Redis.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetTTL converts seconds from config to time.Duration
func GetTTL(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// GetHandlerConfig retrieves handler-specific configuration with fallback to defaults
func GetHandlerConfig(cfg *Config, handlerName string) HandlerConfig {
	if handler, exists := cfg.Handlers[handlerName]; exists {
		return handler
	}

	// Return default handler config if not found
	return HandlerConfig{
		Enabled:    true,
		Timeout:    30000,
		MaxRetries: 3,
	}
}

// IsHandlerEnabled checks if a specific endpoint handler is enabled
func IsHandlerEnabled(cfg *Config, handlerName string) bool {
	if handler, exists := cfg.Handlers[handlerName]; exists {
		return handler.Enabled
	}
	return true
}
