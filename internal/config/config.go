// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	OddsAPI   OddsAPIConfig   `mapstructure:"oddsapi"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Mock      MockConfig      `mapstructure:"mock"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ScannerConfig holds scan loop configuration.
type ScannerConfig struct {
	Bankroll      float64       `mapstructure:"bankroll"`
	Interval      time.Duration `mapstructure:"interval"`
	SourceTimeout time.Duration `mapstructure:"source_timeout"`
	MaxEvents     int           `mapstructure:"max_events"`
	TUIMode       bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// BankrollDecimal returns the bankroll as decimal.Decimal.
func (c *ScannerConfig) BankrollDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Bankroll)
}

// OddsAPIConfig holds The Odds API client configuration.
type OddsAPIConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	APIKey            string   `mapstructure:"api_key"`
	BaseURL           string   `mapstructure:"base_url"`
	Region            string   `mapstructure:"region"` // eu, uk, us, au
	SportKeys         []string `mapstructure:"sport_keys"`
	RequestsPerMinute int      `mapstructure:"requests_per_minute"`
}

// ScraperConfig holds the headless-browser scraper configuration.
type ScraperConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Bookmaker string        `mapstructure:"bookmaker"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Headless  bool          `mapstructure:"headless"`
}

// MockConfig holds the synthetic odds generator configuration.
type MockConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Bookmakers []string `mapstructure:"bookmakers"`
	ArbBias    bool     `mapstructure:"arb_bias"`
}

// GatewayConfig holds the REST/WebSocket façade configuration.
type GatewayConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Scanner
	v.BindEnv("scanner.bankroll", "ARB_BANKROLL")
	v.BindEnv("scanner.interval", "ARB_SCAN_INTERVAL")
	v.BindEnv("scanner.source_timeout", "ARB_SOURCE_TIMEOUT")

	// The Odds API
	v.BindEnv("oddsapi.enabled", "ARB_ODDS_API_ENABLED")
	v.BindEnv("oddsapi.api_key", "ARB_ODDS_API_KEY", "ODDS_API_KEY")
	v.BindEnv("oddsapi.base_url", "ARB_ODDS_API_BASE_URL", "ODDS_API_BASE_URL")
	v.BindEnv("oddsapi.region", "ARB_ODDS_API_REGION")

	// Scraper
	v.BindEnv("scraper.enabled", "ARB_SCRAPER_ENABLED")
	v.BindEnv("scraper.base_url", "ARB_SCRAPER_URL")

	// Gateway
	v.BindEnv("gateway.enabled", "ARB_GATEWAY_ENABLED")
	v.BindEnv("gateway.port", "ARB_GATEWAY_PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "arbstream")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Scanner defaults
	v.SetDefault("scanner.bankroll", 1000.0)
	v.SetDefault("scanner.interval", "60s")
	v.SetDefault("scanner.source_timeout", "10s")
	v.SetDefault("scanner.max_events", 25)

	// The Odds API defaults
	v.SetDefault("oddsapi.enabled", false)
	v.SetDefault("oddsapi.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("oddsapi.region", "eu")
	v.SetDefault("oddsapi.sport_keys", []string{
		"soccer_netherlands_eredivisie",
		"soccer_epl",
		"soccer_germany_bundesliga",
		"soccer_spain_la_liga",
		"soccer_italy_serie_a",
		"soccer_france_ligue_one",
	})
	v.SetDefault("oddsapi.requests_per_minute", 30)

	// Scraper defaults
	v.SetDefault("scraper.enabled", false)
	v.SetDefault("scraper.bookmaker", "TOTO")
	v.SetDefault("scraper.timeout", "30s")
	v.SetDefault("scraper.headless", true)

	// Mock source defaults (on by default so the pipeline runs without keys)
	v.SetDefault("mock.enabled", true)
	v.SetDefault("mock.bookmakers", []string{"TOTO", "Bet365", "Unibet"})
	v.SetDefault("mock.arb_bias", true)

	// Gateway defaults
	v.SetDefault("gateway.enabled", true)
	v.SetDefault("gateway.port", 8080)
	v.SetDefault("gateway.cors_origins", []string{"*"})

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "arbstream")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Scanner.Bankroll <= 0 {
		return fmt.Errorf("scanner.bankroll must be positive, got %v", c.Scanner.Bankroll)
	}
	if c.Scanner.Interval <= 0 {
		return fmt.Errorf("scanner.interval must be positive")
	}
	if c.OddsAPI.Enabled && c.OddsAPI.APIKey == "" {
		return fmt.Errorf("oddsapi.api_key is required when oddsapi.enabled is true")
	}
	if c.Scraper.Enabled && c.Scraper.BaseURL == "" {
		return fmt.Errorf("scraper.base_url is required when scraper.enabled is true")
	}
	if !c.OddsAPI.Enabled && !c.Scraper.Enabled && !c.Mock.Enabled {
		return fmt.Errorf("at least one odds source must be enabled")
	}
	if c.Gateway.Enabled && (c.Gateway.Port <= 0 || c.Gateway.Port > 65535) {
		return fmt.Errorf("invalid gateway.port: %d", c.Gateway.Port)
	}
	return nil
}
