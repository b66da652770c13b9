package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solana-token-sentinel/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://api.mainnet-beta.solana.com", cfg.Solana.RPCEndpoint)
	require.Equal(t, 5*time.Minute, cfg.Scan.Interval)
	require.Equal(t, string(domain.AIModeBalanced), cfg.AI.Mode)
	require.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
solana:
  rpcEndpoint: https://rpc.example.com
  rpcRateLimit: 25
scan:
  interval: 90s
  minLiquidityUsd: 25000
ai:
  mode: aggressive
discovery:
  searchQueries: [solana meme, solana ai]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://rpc.example.com", cfg.Solana.RPCEndpoint)
	require.Equal(t, 25, cfg.Solana.RPCRateLimit)
	require.Equal(t, 90*time.Second, cfg.Scan.Interval)
	require.Equal(t, 25000.0, cfg.Scan.MinLiquidityUSD)
	require.Equal(t, []string{"solana meme", "solana ai"}, cfg.Discovery.SearchQueries)

	settings := cfg.Settings()
	require.Equal(t, domain.AIModeAggressive, settings.AIMode)
	require.Equal(t, 25000.0, settings.MinLiquidityUSD)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
solana:
  rpcEndpoint: https://rpc.example.com
`)
	t.Setenv("SOLANA_RPC_ENDPOINT", "https://rpc.override.example.com")
	t.Setenv("SCAN_INTERVAL", "2m")
	t.Setenv("AI_PRIMARY_KEY", "secret-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://rpc.override.example.com", cfg.Solana.RPCEndpoint)
	require.Equal(t, 2*time.Minute, cfg.Scan.Interval)
	require.Equal(t, "secret-key", cfg.AI.PrimaryKey)
}

func TestLoad_PersonalityModeAlias(t *testing.T) {
	path := writeConfig(t, `
ai:
  personalityMode: aggressive
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, string(domain.AIModeAggressive), cfg.AI.Mode)
	require.Equal(t, domain.AIModeAggressive, cfg.Settings().AIMode)
}

func TestLoad_ExplicitModeBeatsAlias(t *testing.T) {
	path := writeConfig(t, `
ai:
  mode: conservative
  personalityMode: aggressive
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, string(domain.AIModeConservative), cfg.AI.Mode)
}

func TestLoad_InvalidAliasRejected(t *testing.T) {
	path := writeConfig(t, `
ai:
  personalityMode: yolo
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty rpc endpoint", func(c *Config) { c.Solana.RPCEndpoint = "" }},
		{"interval too short", func(c *Config) { c.Scan.Interval = time.Second }},
		{"zero rate limit", func(c *Config) { c.Solana.RPCRateLimit = 0 }},
		{"unknown ai mode", func(c *Config) { c.AI.Mode = "yolo" }},
		{"telegram token without chat", func(c *Config) { c.Alerts.TelegramToken = "tok" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
