// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig                `mapstructure:"app"`
	Server        ServerConfig             `mapstructure:"server"`
	Edgar         EdgarConfig              `mapstructure:"edgar"`
	Database      DatabaseConfig           `mapstructure:"database"`
	Extraction    ExtractionConfig         `mapstructure:"extraction"`
	Cache         CacheConfig              `mapstructure:"cache"`
	Handlers      map[string]HandlerConfig `mapstructure:"handlers"`
	Registry      RegistryConfig           `mapstructure:"registry"`
	Observability ObservabilityConfig      `mapstructure:"observability"`
	Logging       LoggingConfig            `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

// EdgarConfig holds settings for the SEC EDGAR client.
type EdgarConfig struct {
	UserAgent          string  `mapstructure:"user_agent"`
	ArchivesBaseURL    string  `mapstructure:"archives_base_url"`  // www.sec.gov
	DataBaseURL        string  `mapstructure:"data_base_url"`      // data.sec.gov
	FullTextBaseURL    string  `mapstructure:"full_text_base_url"` // efts.sec.gov
	RequestsPerSecond  float64 `mapstructure:"requests_per_second"`
	Timeout            int     `mapstructure:"timeout"` // milliseconds
	MaxRetries         int     `mapstructure:"max_retries"`
	MaxDocumentBytes   int64   `mapstructure:"max_document_bytes"`
	MaxConcurrentFetch int     `mapstructure:"max_concurrent_fetch"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
	Index      string   `mapstructure:"index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ExtractionConfig holds the section extraction response limits.
type ExtractionConfig struct {
	DescriptionMaxChars int `mapstructure:"description_max_chars"`
	MDAMaxChars         int `mapstructure:"mda_max_chars"`
	MaxRiskFactors      int `mapstructure:"max_risk_factors"`
	MaxHighlights       int `mapstructure:"max_highlights"`
}

// CacheConfig holds TTLs for cached upstream payloads.
type CacheConfig struct {
	TickersTTL     int `mapstructure:"tickers_ttl"`     // seconds
	SubmissionsTTL int `mapstructure:"submissions_ttl"` // seconds
	FactsTTL       int `mapstructure:"facts_ttl"`       // seconds
	ResolveTTL     int `mapstructure:"resolve_ttl"`     // seconds
}

// HandlerConfig holds the core settings applicable to every endpoint handler.
type HandlerConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	Timeout    int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries int  `mapstructure:"max_retries"` // For error handling
}

// RegistryConfig holds the form registry location.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// ObservabilityConfig holds metrics and tracing settings.
type ObservabilityConfig struct {
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
