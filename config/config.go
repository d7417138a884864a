package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the fact checker
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Search    SearchConfig    `mapstructure:"search"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	// Debug turns on search page captures. They go to search.debug_dir, or
	// DefaultDebugDir() when that is unset.
	Debug bool `mapstructure:"debug"`
}

// DefaultDebugDir is where debug captures land when search.debug_dir is empty.
func DefaultDebugDir() string { return filepath.Join(os.TempDir(), "factcheck-search") }

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address        string          `mapstructure:"address"`
	RequestTimeout time.Duration   `mapstructure:"request_timeout"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
	// JWTSecret, when set, requires a bearer token on /api routes.
	JWTSecret string `mapstructure:"jwt_secret"`
}

// RateLimitConfig throttles the verify endpoint per client IP.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

func (r RateLimitConfig) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.RequestsPerMinute <= 0 {
		return fmt.Errorf("server.rate_limit.requests_per_minute must be > 0 when rate limiting is enabled")
	}
	if r.Burst < 0 {
		return fmt.Errorf("server.rate_limit.burst must be >= 0")
	}
	return nil
}

// Search providers.
const (
	SearchProviderBraveHTML = "brave_html"
	SearchProviderBrave     = "brave"
	SearchProviderSerper    = "serper"
)

// SearchConfig selects and tunes the web search backend.
type SearchConfig struct {
	Provider        string        `mapstructure:"provider"`
	BraveAPIKey     string        `mapstructure:"brave_api_key"`
	SerperAPIKey    string        `mapstructure:"serper_api_key"`
	MaxResults      int           `mapstructure:"max_results"`
	Timeout         time.Duration `mapstructure:"timeout"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	MaxSnippetChars int           `mapstructure:"max_snippet_chars"`
	DebugDir        string        `mapstructure:"debug_dir"`
}

func (s SearchConfig) Validate() error {
	switch s.Provider {
	case SearchProviderBraveHTML:
	case SearchProviderBrave:
		if strings.TrimSpace(s.BraveAPIKey) == "" {
			return fmt.Errorf("search.brave_api_key required for provider %q", s.Provider)
		}
	case SearchProviderSerper:
		if strings.TrimSpace(s.SerperAPIKey) == "" {
			return fmt.Errorf("search.serper_api_key required for provider %q", s.Provider)
		}
	default:
		return fmt.Errorf("search.provider %q not supported", s.Provider)
	}
	if s.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be > 0")
	}
	return nil
}

// Fetchers.
const (
	FetcherChromedp = "chromedp"
	FetcherHTTP     = "http"
)

// FetchConfig tunes page retrieval.
type FetchConfig struct {
	Fetcher   string        `mapstructure:"fetcher"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxChars  int           `mapstructure:"max_chars"`
	UserAgent string        `mapstructure:"user_agent"`
}

func (f FetchConfig) Validate() error {
	if f.Fetcher != FetcherChromedp && f.Fetcher != FetcherHTTP {
		return fmt.Errorf("fetch.fetcher %q not supported", f.Fetcher)
	}
	if f.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if f.MaxChars <= 0 {
		return fmt.Errorf("fetch.max_chars must be > 0")
	}
	return nil
}

// TelemetryConfig contains tracing settings
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

func (t TelemetryConfig) Validate() error {
	if t.Enabled && strings.TrimSpace(t.OTLPEndpoint) == "" {
		return fmt.Errorf("telemetry.otlp_endpoint required when telemetry is enabled")
	}
	return nil
}

// StorageConfig contains storage and persistence settings. Both backends are
// optional; an empty host disables them.
type StorageConfig struct {
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Host) != "" }

// Addr returns host:port.
func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

func (r RedisConfig) Validate() error {
	if !r.Enabled() {
		return nil
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	// Timeout bounds the connection check made when the store opens.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a database is configured.
func (p PostgresConfig) Enabled() bool {
	return strings.TrimSpace(p.URL) != "" || strings.TrimSpace(p.Host) != ""
}

// DSN returns the URL, or one assembled from the individual fields.
func (p PostgresConfig) DSN() string {
	if strings.TrimSpace(p.URL) != "" {
		return p.URL
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, p.Port, p.DBName, ssl)
}

func (p PostgresConfig) Validate() error {
	if !p.Enabled() || strings.TrimSpace(p.URL) != "" {
		return nil
	}
	if strings.TrimSpace(p.Port) == "" {
		return fmt.Errorf("storage.postgres.port required when url is not provided")
	}
	if strings.TrimSpace(p.DBName) == "" {
		return fmt.Errorf("storage.postgres.dbname required when url is not provided")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.request_timeout", 2*time.Minute)
	v.SetDefault("server.rate_limit.enabled", false)
	v.SetDefault("server.rate_limit.requests_per_minute", 30)
	v.SetDefault("server.rate_limit.burst", 5)
	v.SetDefault("search.provider", SearchProviderBraveHTML)
	v.SetDefault("search.max_results", 3)
	v.SetDefault("search.timeout", 30*time.Second)
	v.SetDefault("search.settle_delay", 3*time.Second)
	v.SetDefault("search.max_snippet_chars", 500)
	v.SetDefault("fetch.fetcher", FetcherChromedp)
	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.max_chars", 10000)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	v.SetDefault("scoring.stance_polarity", PolarityMagnitude)
	v.SetDefault("scoring.confirmation_phrases", DefaultConfirmationPhrases)
	v.SetDefault("scoring.contradiction_phrases", DefaultContradictionPhrases)
	v.SetDefault("scoring.reputable_domains", DefaultReputableDomains)
	v.SetDefault("scoring.less_reputable_domains", DefaultLessReputableDomains)
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.timeout", 2*time.Second)
	v.SetDefault("storage.postgres.port", "5432")
	v.SetDefault("storage.postgres.sslmode", "disable")
	v.SetDefault("storage.postgres.timeout", 5*time.Second)
	v.SetDefault("telemetry.service_name", "factcheck")
}

// LoadConfig loads config from file. A missing config file is not an error:
// defaults and FACTCHECK_* environment variables apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("json")   // REQUIRED if the config file does not have the extension in the name
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./app/config") // path to look for the config file in
		v.AddConfigPath("./config")     // path to look for the config file in
		v.AddConfigPath(".")            // optionally look for config in the working directory
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)                                // bin/
			v.AddConfigPath(filepath.Join(exeDir, ".."))           // repo root
			v.AddConfigPath(filepath.Join(exeDir, "..", "config")) // repo root/config
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("FACTCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match (FACTCHECK_*)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	config.Scoring = config.Scoring.Normalize()
	if config.General.Debug && strings.TrimSpace(config.Search.DebugDir) == "" {
		config.Search.DebugDir = DefaultDebugDir()
	}

	validators := []func() error{
		config.Server.RateLimit.Validate,
		config.Search.Validate,
		config.Fetch.Validate,
		config.Scoring.Validate,
		config.Storage.Redis.Validate,
		config.Storage.Postgres.Validate,
		config.Telemetry.Validate,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}
	return &config, nil
}
