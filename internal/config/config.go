// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	RPCURL           string   `mapstructure:"rpc_url"`
	WebSocketURL     string   `mapstructure:"websocket_url"`
	Programs         []string `mapstructure:"programs"`
	Watchlist        []string `mapstructure:"watchlist"`
	WebhookPort      int      `mapstructure:"webhook_port"`
	MaxWatchlistSize int      `mapstructure:"max_watchlist_size"`
	CooldownMinutes  int      `mapstructure:"cooldown_minutes"`
	TelegramToken    string   `mapstructure:"telegram_token"`
	TelegramChatID   int64    `mapstructure:"telegram_chat_id"`
	QuoteAPIURL      string   `mapstructure:"quote_api_url"`
	TokenAPIURL      string   `mapstructure:"token_api_url"`
	DebugLogging     bool     `mapstructure:"debug_logging"`
}

const (
	DefaultRPCURL           = "https://api.mainnet-beta.solana.com"
	DefaultWebSocketURL     = "wss://api.mainnet-beta.solana.com"
	DefaultWebhookPort      = 3000
	DefaultMaxWatchlistSize = 5
	DefaultCooldownMinutes  = 5
)

// Programs monitored when the config leaves the list empty: Raydium AMM,
// Raydium CPMM and Meteora DLMM.
var DefaultPrograms = []string{
	"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
	"CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C",
	"LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo",
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"rpc_url":            DefaultRPCURL,
		"websocket_url":      DefaultWebSocketURL,
		"webhook_port":       DefaultWebhookPort,
		"max_watchlist_size": DefaultMaxWatchlistSize,
		"cooldown_minutes":   DefaultCooldownMinutes,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	if len(cfg.Programs) == 0 {
		cfg.Programs = DefaultPrograms
	}

	return &cfg, validateConfig(&cfg)
}

// Cooldown returns the alert cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownMinutes) * time.Minute
}

func validateConfig(cfg *Config) error {
	if cfg.TelegramToken == "" {
		return errors.New("missing telegram_token in configuration")
	}
	if cfg.TelegramChatID == 0 {
		return errors.New("missing telegram_chat_id in configuration")
	}
	if err := validateURL(cfg.RPCURL, "http"); err != nil {
		return errors.New("invalid RPC URL protocol")
	}
	if err := validateURL(cfg.WebSocketURL, "ws"); err != nil {
		return errors.New("invalid WebSocket URL protocol")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.WebhookPort <= 0 || cfg.WebhookPort > 65535 {
		return errors.New("invalid webhook_port")
	}
	if cfg.MaxWatchlistSize <= 0 {
		return errors.New("invalid max_watchlist_size")
	}
	if cfg.CooldownMinutes <= 0 {
		return errors.New("invalid cooldown_minutes")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("LIQWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := v.GetInt64("TELEGRAM_CHAT_ID"); chatID != 0 {
		cfg.TelegramChatID = chatID
	}
	if rpcURL := v.GetString("RPC_URL"); rpcURL != "" {
		cfg.RPCURL = rpcURL
	}
	if wsURL := v.GetString("WEBSOCKET_URL"); wsURL != "" {
		cfg.WebSocketURL = wsURL
	}
}
