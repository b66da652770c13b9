// Package main runs the continuous token scanner: discovery sources
// feed the tiered validation funnel, valid alerts are persisted and
// delivered, and Prometheus metrics are served over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"solana-token-sentinel/internal/ai"
	"solana-token-sentinel/internal/alert"
	"solana-token-sentinel/internal/checks"
	"solana-token-sentinel/internal/config"
	"solana-token-sentinel/internal/discovery"
	"solana-token-sentinel/internal/holders"
	"solana-token-sentinel/internal/launch"
	"solana-token-sentinel/internal/narrative"
	"solana-token-sentinel/internal/observability"
	"solana-token-sentinel/internal/safety"
	"solana-token-sentinel/internal/scan"
	"solana-token-sentinel/internal/solana"
	"solana-token-sentinel/internal/storage"
	chstore "solana-token-sentinel/internal/storage/clickhouse"
	"solana-token-sentinel/internal/storage/memory"
	"solana-token-sentinel/internal/storage/migrations"
	pgstore "solana-token-sentinel/internal/storage/postgres"
	redisstore "solana-token-sentinel/internal/storage/redis"
	"solana-token-sentinel/internal/validator"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	pretty := flag.Bool("pretty", false, "Human-readable log output")
	flag.Parse()

	logger := newLogger(*pretty)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()

		select {
		case <-sigCh:
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Error().Msg("graceful shutdown timed out")
			os.Exit(1)
		}
	}()

	stores, cleanup, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("storage init failed")
	}
	defer cleanup()

	rpc := solana.NewHTTPClient(cfg.Solana.RPCEndpoint,
		solana.WithRateLimit(float64(cfg.Solana.RPCRateLimit), cfg.Solana.RPCRateLimit),
	)

	searcher := discovery.NewDexSearcher(cfg.Discovery.DexSearchURL, cfg.Discovery.SearchQueries, logger)
	sources := []discovery.Source{searcher}

	var feed *discovery.LaunchpadFeed
	if cfg.Discovery.LaunchpadWSURL != "" {
		feed, err = discovery.NewLaunchpadFeed(ctx, cfg.Discovery.LaunchpadWSURL, cfg.Discovery.LaunchpadAPIURL, nil, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("launchpad feed connect failed")
		}
		defer feed.Close()
		sources = append(sources, feed)
	}

	var curve validator.CurveSource
	if feed != nil {
		curve = feed
	}
	v := buildValidator(cfg, rpc, stores.state, searcher, curve, logger)

	runner := scan.NewRunner(scan.Options{
		Sources:   sources,
		Validator: v,
		Assembler: alert.NewAssembler(stores.alerts, logger),
		Notifier:  buildNotifier(cfg, logger),
		History:   stores.history,
		Settings:  cfg.Settings(),
		Interval:  cfg.Scan.Interval,
		Logger:    logger,
	})

	go serveMetrics(cfg.Metrics.Addr, logger)

	logger.Info().
		Dur("interval", cfg.Scan.Interval).
		Int("sources", len(sources)).
		Msg("scanner started")

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("scanner stopped")
	}
	logger.Info().Msg("shutdown complete")
}

func newLogger(pretty bool) zerolog.Logger {
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

type scannerStores struct {
	alerts  storage.AlertStore
	state   storage.StateStore
	history storage.HistoryStore
}

// buildStores wires the configured backends, falling back to in-memory
// stores for every DSN left empty.
func buildStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*scannerStores, func(), error) {
	stores := &scannerStores{
		alerts:  memory.NewAlertStore(),
		state:   memory.NewStateStore(),
		history: memory.NewHistoryStore(),
	}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		pool, err := pgstore.NewPool(ctx, dsn)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return nil, cleanup, err
		}
		stores.alerts = pgstore.NewAlertStore(pool)
		logger.Info().Msg("alert store: postgres")
	}

	if dsn := cfg.Storage.ClickHouseDSN; dsn != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { conn.Close() })
		stores.history = chstore.NewHistoryStore(conn)
		logger.Info().Msg("history store: clickhouse")
	}

	if addr := cfg.Storage.RedisAddr; addr != "" {
		client, err := redisstore.NewClient(ctx, addr)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { client.Close() })
		stores.state = redisstore.NewStateStore(client)
		logger.Info().Msg("state store: redis")
	}

	return stores, cleanup, nil
}

func buildValidator(cfg *config.Config, rpc solana.RPCClient, state storage.StateStore, prices checks.PriceSource, curve validator.CurveSource, logger zerolog.Logger) *validator.Validator {
	limiter := rate.NewLimiter(rate.Limit(cfg.Solana.RPCRateLimit), cfg.Solana.RPCRateLimit)

	opts := validator.Options{
		Freshness:    checks.NewFreshnessChecker(rpc, logger),
		Market:       checks.NewMarketChecker(state, prices, logger),
		Authority:    safety.NewAuthorityChecker(rpc, logger),
		Contract:     safety.NewContractChecker(cfg.Solana.AuditAPIURL, logger),
		Sell:         safety.NewSellSimulator(cfg.Solana.QuoteAPIURL, logger),
		Distribution: holders.NewDistributionChecker(rpc, logger),
		Whale:        holders.NewWhaleChecker(rpc, logger),
		Pattern:      checks.NewPatternChecker(rpc, logger),
		Bundle:       launch.NewBundleDetector(rpc, limiter, logger),
		Stability:    checks.NewStabilityChecker(state, logger),
		Social:       narrative.NewSocialScorer(narrative.NewRandomEngagement(nil)),
		Curve:        curve,
		Logger:       logger,
	}

	if cfg.Solana.AssetAPIURL != "" {
		index := launch.NewHTTPAssetIndex(cfg.Solana.AssetAPIURL)
		opts.Reputation = launch.NewReputationChecker(rpc, index, logger)
	}
	if analyst := buildAnalyst(cfg, logger); analyst != nil {
		opts.AI = analyst
	}

	return validator.New(opts)
}

func buildAnalyst(cfg *config.Config, logger zerolog.Logger) *ai.Analyst {
	if cfg.AI.Disabled || cfg.AI.PrimaryKey == "" || cfg.AI.PrimaryURL == "" {
		return nil
	}
	timeout := ai.WithCompletionTimeout(time.Duration(cfg.AI.TimeoutSeconds) * time.Second)
	primary := ai.NewHTTPProvider("primary", cfg.AI.PrimaryURL, cfg.AI.PrimaryKey, cfg.AI.PrimaryModel, timeout)
	var fallback ai.Provider
	if cfg.AI.FallbackURL != "" && cfg.AI.FallbackKey != "" {
		fallback = ai.NewHTTPProvider("fallback", cfg.AI.FallbackURL, cfg.AI.FallbackKey, cfg.AI.FallbackModel, timeout)
	}
	return ai.NewAnalyst(primary, fallback, logger)
}

func buildNotifier(cfg *config.Config, logger zerolog.Logger) alert.Notifier {
	var notifiers []alert.Notifier
	if cfg.Alerts.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewWebhookNotifier(cfg.Alerts.WebhookURL))
	}
	if cfg.Alerts.TelegramToken != "" {
		notifiers = append(notifiers, alert.NewTelegramNotifier(cfg.Alerts.TelegramToken, cfg.Alerts.TelegramChatID))
	}
	switch len(notifiers) {
	case 0:
		return nil
	case 1:
		return notifiers[0]
	default:
		return alert.NewMultiNotifier(logger, notifiers...)
	}
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	logger.Info().Str("addr", addr).Msg("metrics listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
