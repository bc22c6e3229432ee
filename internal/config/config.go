package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"bond-rv-analyzer/internal/engine"
	"bond-rv-analyzer/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Logging    logging.Config   `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	MarketData MarketDataConfig `mapstructure:"marketdata"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig governs the HTTP surface.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// AnalysisConfig holds the rich/cheap decision thresholds in basis
// points. Both boundaries are strict; excess yield exactly on a
// threshold stays fair.
type AnalysisConfig struct {
	CheapThresholdBps float64 `mapstructure:"cheap_threshold_bps"`
	RichThresholdBps  float64 `mapstructure:"rich_threshold_bps"`
}

// Thresholds converts the configured bps values for the engine.
func (a AnalysisConfig) Thresholds() engine.Thresholds {
	return engine.ThresholdsFromBps(a.CheapThresholdBps, a.RichThresholdBps)
}

// MarketDataConfig selects where rate tables come from. Priority:
// bundle_file > live_url > packaged defaults.
type MarketDataConfig struct {
	BundleFile      string        `mapstructure:"bundle_file"`
	LiveURL         string        `mapstructure:"live_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	RetryMax        int           `mapstructure:"retry_max"`
	UserAgent       string        `mapstructure:"user_agent"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BONDRV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bondrv")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("analysis.cheap_threshold_bps", 5.0)
	v.SetDefault("analysis.rich_threshold_bps", -5.0)

	v.SetDefault("marketdata.request_timeout", "10s")
	v.SetDefault("marketdata.retry_max", 3)
	v.SetDefault("marketdata.user_agent", "bondrv/1.0")
	v.SetDefault("marketdata.refresh_interval", "15m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Analysis.CheapThresholdBps < c.Analysis.RichThresholdBps {
		return fmt.Errorf("analysis.cheap_threshold_bps 必须不小于 rich_threshold_bps")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be greater than zero")
	}
	if c.MarketData.RetryMax < 0 {
		return fmt.Errorf("marketdata.retry_max cannot be negative")
	}
	if c.MarketData.LiveURL != "" && c.MarketData.RefreshInterval <= 0 {
		return fmt.Errorf("marketdata.refresh_interval must be greater than zero when live_url is set")
	}
	return nil
}
