// Package main validates a single token mint and prints the resulting
// alert as JSON. Useful for spot checks and for debugging the funnel
// against a live token.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
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
	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/holders"
	"solana-token-sentinel/internal/launch"
	"solana-token-sentinel/internal/narrative"
	"solana-token-sentinel/internal/safety"
	"solana-token-sentinel/internal/scoring"
	"solana-token-sentinel/internal/solana"
	"solana-token-sentinel/internal/storage/memory"
	"solana-token-sentinel/internal/validator"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	mint := flag.String("mint", "", "Token mint address to validate")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall validation timeout")
	verbose := flag.Bool("v", false, "Log validation progress to stderr")
	flag.Parse()

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	if *mint == "" {
		fmt.Fprintln(os.Stderr, "usage: validate -mint <address> [-config <file>]")
		os.Exit(2)
	}
	if !domain.ValidMint(*mint) {
		fmt.Fprintf(os.Stderr, "%q is not a valid mint address\n", *mint)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	if err := run(ctx, cfg, *mint, logger); err != nil {
		fmt.Fprintf(os.Stderr, "validation failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, mint string, logger zerolog.Logger) error {
	rpc := solana.NewHTTPClient(cfg.Solana.RPCEndpoint,
		solana.WithRateLimit(float64(cfg.Solana.RPCRateLimit), cfg.Solana.RPCRateLimit),
	)
	searcher := discovery.NewDexSearcher(cfg.Discovery.DexSearchURL, nil, logger)
	state := memory.NewStateStore()
	limiter := rate.NewLimiter(rate.Limit(cfg.Solana.RPCRateLimit), cfg.Solana.RPCRateLimit)

	opts := validator.Options{
		Freshness:    checks.NewFreshnessChecker(rpc, logger),
		Market:       checks.NewMarketChecker(state, searcher, logger),
		Authority:    safety.NewAuthorityChecker(rpc, logger),
		Contract:     safety.NewContractChecker(cfg.Solana.AuditAPIURL, logger),
		Sell:         safety.NewSellSimulator(cfg.Solana.QuoteAPIURL, logger),
		Distribution: holders.NewDistributionChecker(rpc, logger),
		Whale:        holders.NewWhaleChecker(rpc, logger),
		Pattern:      checks.NewPatternChecker(rpc, logger),
		Bundle:       launch.NewBundleDetector(rpc, limiter, logger),
		Stability:    checks.NewStabilityChecker(state, logger),
		Social:       narrative.NewSocialScorer(narrative.NewRandomEngagement(nil)),
		Logger:       logger,
	}
	if cfg.Solana.AssetAPIURL != "" {
		index := launch.NewHTTPAssetIndex(cfg.Solana.AssetAPIURL)
		opts.Reputation = launch.NewReputationChecker(rpc, index, logger)
	}
	if !cfg.AI.Disabled && cfg.AI.PrimaryKey != "" && cfg.AI.PrimaryURL != "" {
		aiTimeout := ai.WithCompletionTimeout(time.Duration(cfg.AI.TimeoutSeconds) * time.Second)
		primary := ai.NewHTTPProvider("primary", cfg.AI.PrimaryURL, cfg.AI.PrimaryKey, cfg.AI.PrimaryModel, aiTimeout)
		var fallback ai.Provider
		if cfg.AI.FallbackURL != "" && cfg.AI.FallbackKey != "" {
			fallback = ai.NewHTTPProvider("fallback", cfg.AI.FallbackURL, cfg.AI.FallbackKey, cfg.AI.FallbackModel, aiTimeout)
		}
		opts.AI = ai.NewAnalyst(primary, fallback, logger)
	}
	v := validator.New(opts)

	token := lookupCandidate(ctx, cfg.Discovery.DexSearchURL, mint, logger)

	out := v.Validate(ctx, token, cfg.Settings())
	result := scoring.Score(out.Checks, out.ContractScore, out.TierReached, &out.Enhancements)

	asm := alert.NewAssembler(memory.NewAlertStore(), logger)
	a, err := asm.Assemble(ctx, token, out, result)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(a)
}

// lookupCandidate enriches the mint with market data from the pair
// search. An unlisted mint validates from a bare candidate; every check
// that needs market data then fails toward its documented default.
func lookupCandidate(ctx context.Context, searchURL, mint string, logger zerolog.Logger) *domain.TokenCandidate {
	found, err := discovery.NewDexSearcher(searchURL, []string{mint}, logger).Discover(ctx)
	if err == nil {
		for i := range found {
			if found[i].Mint == mint {
				return &found[i]
			}
		}
	}
	logger.Warn().Str("mint", mint).Msg("no pair data found, validating bare candidate")
	return &domain.TokenCandidate{Mint: mint, TopHolderPercent: -1}
}
