package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/SolTwizzy/chainpulse/internal/alert"
)

// Load reads configuration from a YAML file. A .env file in the working
// directory is loaded first so that ${VAR} references in the YAML resolve.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Price.TTL == 0 {
		cfg.Price.TTL = 60 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Alerts.Gas.Interval == 0 {
		cfg.Alerts.Gas.Interval = 60 * time.Second
	}
	for i := range cfg.Chains {
		if cfg.Chains[i].PollInterval == 0 {
			cfg.Chains[i].PollInterval = 12 * time.Second
		}
	}
}

func validate(cfg *AppConfig) error {
	for _, cc := range cfg.Chains {
		if !cc.Name.IsSupported() {
			return fmt.Errorf("unsupported chain in config: %q", cc.Name)
		}
		if cc.RPCURL == "" {
			return fmt.Errorf("chain %s: rpc_url is required", cc.Name)
		}
	}
	for _, ch := range cfg.Alerts.Channels {
		switch ch.Type {
		case alert.ChannelWebhook, alert.ChannelDiscord:
			if ch.WebhookURL == "" {
				return fmt.Errorf("alert channel %s: webhook_url is required", ch.Name)
			}
		case alert.ChannelTelegram:
			if ch.BotToken == "" || ch.ChatID == "" {
				return fmt.Errorf("alert channel %s: bot_token and chat_id are required", ch.Name)
			}
		default:
			return fmt.Errorf("alert channel %s: unknown type %q", ch.Name, ch.Type)
		}
	}
	return nil
}
