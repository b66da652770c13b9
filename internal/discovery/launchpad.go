package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
)

// LaunchpadFeedConfig configures the feed's connection behavior.
type LaunchpadFeedConfig struct {
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	PingInterval      time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
}

// DefaultLaunchpadConfig returns the default feed configuration.
func DefaultLaunchpadConfig() LaunchpadFeedConfig {
	return LaunchpadFeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// LaunchpadFeed consumes a launchpad's new-token WebSocket stream and
// buffers announcements between scans. It is a push source behind the
// batch Source interface: Discover drains whatever arrived since the
// previous call.
type LaunchpadFeed struct {
	wsURL  string
	apiURL string
	config LaunchpadFeedConfig
	logger zerolog.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	buffer   []domain.TokenCandidate
	bufferMu sync.Mutex

	httpClient *http.Client
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewLaunchpadFeed creates a feed client and connects.
func NewLaunchpadFeed(ctx context.Context, wsURL, apiURL string, config *LaunchpadFeedConfig, logger zerolog.Logger) (*LaunchpadFeed, error) {
	cfg := DefaultLaunchpadConfig()
	if config != nil {
		cfg = *config
	}

	f := &LaunchpadFeed{
		wsURL:      wsURL,
		apiURL:     apiURL,
		config:     cfg,
		logger:     logger.With().Str("source", "launchpad").Logger(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		done:       make(chan struct{}),
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}

	f.wg.Add(2)
	go f.readLoop()
	go f.pingLoop()

	return f, nil
}

func (f *LaunchpadFeed) Name() string { return "launchpad" }

func (f *LaunchpadFeed) connect(ctx context.Context) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.wsURL, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
	if err := conn.WriteJSON(map[string]string{"method": "subscribeNewToken"}); err != nil {
		conn.Close()
		return fmt.Errorf("subscribe: %w", err)
	}

	f.conn = conn
	return nil
}

// newTokenEvent is one feed announcement.
type newTokenEvent struct {
	Mint         string  `json:"mint"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	LiquidityUSD float64 `json:"liquidityUsd"`
	MarketCapUSD float64 `json:"marketCapUsd"`
	Website      string  `json:"website"`
	Twitter      string  `json:"twitter"`
	Telegram     string  `json:"telegram"`
}

func (f *LaunchpadFeed) readLoop() {
	defer f.wg.Done()

	for {
		select {
		case <-f.done:
			return
		default:
		}

		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() {
				return
			}
			f.logger.Warn().Err(err).Msg("read failed, reconnecting")
			f.reconnect()
			continue
		}

		var event newTokenEvent
		if err := json.Unmarshal(data, &event); err != nil || event.Mint == "" {
			continue
		}
		f.bufferEvent(event)
	}
}

func (f *LaunchpadFeed) bufferEvent(event newTokenEvent) {
	candidate := domain.TokenCandidate{
		Mint:             event.Mint,
		Symbol:           event.Symbol,
		Name:             event.Name,
		Narrative:        event.Description,
		LiquidityUSD:     event.LiquidityUSD,
		MarketCapUSD:     event.MarketCapUSD,
		TopHolderPercent: -1,
	}
	if event.Website != "" || event.Twitter != "" || event.Telegram != "" {
		candidate.Socials = &domain.SocialLinks{
			Website:  event.Website,
			Twitter:  event.Twitter,
			Telegram: event.Telegram,
		}
	}

	f.bufferMu.Lock()
	f.buffer = append(f.buffer, candidate)
	f.bufferMu.Unlock()
}

// reconnect re-dials with exponential backoff until it succeeds or the
// feed is closed.
func (f *LaunchpadFeed) reconnect() {
	delay := f.config.ReconnectDelay
	for {
		select {
		case <-f.done:
			return
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := f.connect(ctx)
		cancel()
		if err == nil {
			f.logger.Info().Msg("reconnected")
			return
		}

		f.logger.Warn().Err(err).Dur("nextDelay", delay).Msg("reconnect failed")
		delay *= 2
		if delay > f.config.MaxReconnectDelay {
			delay = f.config.MaxReconnectDelay
		}
	}
}

func (f *LaunchpadFeed) pingLoop() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.connMu.Lock()
			f.conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
			err := f.conn.WriteMessage(websocket.PingMessage, nil)
			f.connMu.Unlock()
			if err != nil && !f.closed.Load() {
				f.logger.Warn().Err(err).Msg("ping failed")
			}
		}
	}
}

// Discover drains the announcements buffered since the last call.
func (f *LaunchpadFeed) Discover(context.Context) ([]domain.TokenCandidate, error) {
	f.bufferMu.Lock()
	drained := f.buffer
	f.buffer = nil
	f.bufferMu.Unlock()
	return Dedupe(drained), nil
}

// Close shuts the feed down and waits for its goroutines.
func (f *LaunchpadFeed) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(f.done)

	f.connMu.Lock()
	err := f.conn.Close()
	f.connMu.Unlock()

	f.wg.Wait()
	return err
}

// curveResponse is the launchpad's per-coin state.
type curveResponse struct {
	ProgressPct float64 `json:"progressPct"`
	Complete    bool    `json:"complete"`
}

// Progress returns the bonding-curve completion percentage for a mint.
func (f *LaunchpadFeed) Progress(ctx context.Context, mint string) (float64, error) {
	endpoint := fmt.Sprintf("%s/coins/%s", f.apiURL, url.PathEscape(mint))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed curveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Complete {
		return 100, nil
	}
	return parsed.ProgressPct, nil
}
