package config

import (
	"time"

	"github.com/SolTwizzy/chainpulse/internal/alert"
	"github.com/SolTwizzy/chainpulse/internal/core/domain"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Chains  []ChainConfig `yaml:"chains"`
	Price   PriceConfig   `yaml:"price"`
	Alerts  AlertsConfig  `yaml:"alerts"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the health/metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ChainConfig holds RPC settings for one network.
type ChainConfig struct {
	Name         domain.Chain  `yaml:"name"`
	RPCURL       string        `yaml:"rpc_url"`
	WSURL        string        `yaml:"ws_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// PriceConfig holds the upstream price provider settings.
type PriceConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	TTL     time.Duration `yaml:"ttl"`
}

// AlertsConfig holds delivery channels and the built-in gas watch.
type AlertsConfig struct {
	Channels []alert.ChannelConfig `yaml:"channels"`
	Gas      GasAlertConfig        `yaml:"gas"`
}

// GasAlertConfig configures the gas monitor started by the daemon.
type GasAlertConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Chains   []domain.Chain `yaml:"chains"`
	LowGwei  float64        `yaml:"low_gwei"`
	HighGwei float64        `yaml:"high_gwei"`
	Interval time.Duration  `yaml:"interval"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
