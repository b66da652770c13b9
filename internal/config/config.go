// Package config loads the scanner configuration from a YAML file with
// environment-variable overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"solana-token-sentinel/internal/domain"
)

// Config is the full scanner configuration.
type Config struct {
	Solana    SolanaConfig    `yaml:"solana"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Scan      ScanConfig      `yaml:"scan"`
	AI        AIConfig        `yaml:"ai"`
	Storage   StorageConfig   `yaml:"storage"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// SolanaConfig holds RPC endpoints and external data APIs.
type SolanaConfig struct {
	RPCEndpoint  string `yaml:"rpcEndpoint"`
	AuditAPIURL  string `yaml:"auditApiUrl"`
	QuoteAPIURL  string `yaml:"quoteApiUrl"`
	AssetAPIURL  string `yaml:"assetApiUrl"`
	RPCRateLimit int    `yaml:"rpcRateLimit"` // requests per second for tx-heavy checks
}

// DiscoveryConfig holds candidate source settings.
type DiscoveryConfig struct {
	DexSearchURL    string   `yaml:"dexSearchUrl"`
	SearchQueries   []string `yaml:"searchQueries"`
	LaunchpadWSURL  string   `yaml:"launchpadWsUrl"`
	LaunchpadAPIURL string   `yaml:"launchpadApiUrl"`
}

// ScanConfig holds the cycle interval and validation thresholds.
type ScanConfig struct {
	Interval             time.Duration `yaml:"interval"`
	MinLiquidityUSD      float64       `yaml:"minLiquidityUsd"`
	MaxTopHolderPercent  float64       `yaml:"maxTopHolderPercent"`
	MinVolumeIncreasePct float64       `yaml:"minVolumeIncreasePct"`
}

// AIConfig holds the narrative-analysis provider settings.
type AIConfig struct {
	Mode            string `yaml:"mode"`
	PrimaryURL      string `yaml:"primaryUrl"`
	PrimaryModel    string `yaml:"primaryModel"`
	PrimaryKey      string `yaml:"primaryKey"`
	FallbackURL     string `yaml:"fallbackUrl"`
	FallbackModel   string `yaml:"fallbackModel"`
	FallbackKey     string `yaml:"fallbackKey"`
	Disabled        bool   `yaml:"disabled"`
	TimeoutSeconds  int    `yaml:"timeoutSeconds"`
	PersonalityMode string `yaml:"personalityMode"` // deprecated alias for mode
}

// StorageConfig selects the persistence backends. Empty DSNs fall back
// to in-memory stores.
type StorageConfig struct {
	PostgresDSN   string `yaml:"postgresDsn"`
	ClickHouseDSN string `yaml:"clickhouseDsn"`
	RedisAddr     string `yaml:"redisAddr"`
}

// AlertsConfig holds notifier settings. Empty values disable a channel.
type AlertsConfig struct {
	WebhookURL     string `yaml:"webhookUrl"`
	TelegramToken  string `yaml:"telegramToken"`
	TelegramChatID string `yaml:"telegramChatId"`
}

// MetricsConfig holds the Prometheus listener settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when the file omits a value.
func Default() Config {
	settings := domain.DefaultSettings()
	return Config{
		Solana: SolanaConfig{
			RPCEndpoint:  "https://api.mainnet-beta.solana.com",
			AuditAPIURL:  "https://api.rugcheck.xyz",
			QuoteAPIURL:  "https://quote-api.jup.ag/v6",
			RPCRateLimit: 10,
		},
		Discovery: DiscoveryConfig{
			DexSearchURL:  "https://api.dexscreener.com",
			SearchQueries: []string{"solana"},
		},
		Scan: ScanConfig{
			Interval:             5 * time.Minute,
			MinLiquidityUSD:      settings.MinLiquidityUSD,
			MaxTopHolderPercent:  settings.MaxTopHolderPercent,
			MinVolumeIncreasePct: settings.MinVolumeIncreasePct,
		},
		AI: AIConfig{
			Mode:           string(domain.AIModeBalanced),
			TimeoutSeconds: 30,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. An empty path loads defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// personalityMode is a deprecated alias for mode; an explicit mode
	// wins, the alias applies only when mode was left at its default.
	if cfg.AI.PersonalityMode != "" && cfg.AI.Mode == Default().AI.Mode {
		cfg.AI.Mode = cfg.AI.PersonalityMode
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays deployment secrets and endpoints. Environment
// variables win over the file so one image can serve many environments.
func applyEnv(cfg *Config) {
	setString(&cfg.Solana.RPCEndpoint, "SOLANA_RPC_ENDPOINT")
	setString(&cfg.Storage.PostgresDSN, "POSTGRES_DSN")
	setString(&cfg.Storage.ClickHouseDSN, "CLICKHOUSE_DSN")
	setString(&cfg.Storage.RedisAddr, "REDIS_ADDR")
	setString(&cfg.AI.PrimaryKey, "AI_PRIMARY_KEY")
	setString(&cfg.AI.FallbackKey, "AI_FALLBACK_KEY")
	setString(&cfg.Alerts.WebhookURL, "ALERT_WEBHOOK_URL")
	setString(&cfg.Alerts.TelegramToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Alerts.TelegramChatID, "TELEGRAM_CHAT_ID")
	setString(&cfg.Metrics.Addr, "METRICS_ADDR")

	if v := os.Getenv("SCAN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Scan.Interval = d
		}
	}
	if v := os.Getenv("RPC_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Solana.RPCRateLimit = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the loaded configuration for unusable values.
func (c *Config) Validate() error {
	if c.Solana.RPCEndpoint == "" {
		return fmt.Errorf("solana.rpcEndpoint is required")
	}
	if c.Scan.Interval < 10*time.Second {
		return fmt.Errorf("scan.interval %s is below the 10s minimum", c.Scan.Interval)
	}
	if c.Solana.RPCRateLimit <= 0 {
		return fmt.Errorf("solana.rpcRateLimit must be positive")
	}
	switch domain.AIMode(c.AI.Mode) {
	case domain.AIModeConservative, domain.AIModeBalanced, domain.AIModeAggressive:
	default:
		return fmt.Errorf("ai.mode %q is not one of conservative, balanced, aggressive", c.AI.Mode)
	}
	if (c.Alerts.TelegramToken == "") != (c.Alerts.TelegramChatID == "") {
		return fmt.Errorf("alerts.telegramToken and alerts.telegramChatId must be set together")
	}
	return nil
}

// Settings maps the scan thresholds into the validator's settings type.
func (c *Config) Settings() domain.BotSettings {
	return domain.BotSettings{
		MinLiquidityUSD:      c.Scan.MinLiquidityUSD,
		MaxTopHolderPercent:  c.Scan.MaxTopHolderPercent,
		MinVolumeIncreasePct: c.Scan.MinVolumeIncreasePct,
		AIMode:               domain.AIMode(c.AI.Mode),
	}
}
