package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"token-forensics/internal/domain"
	"token-forensics/internal/logger"
	"token-forensics/internal/observability"
)

// WSConfig configures the live trade stream.
type WSConfig struct {
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	PingInterval      time.Duration
	ReadTimeout       time.Duration
}

// DefaultWSConfig returns default stream configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
	}
}

// WSSource streams raw trades from a websocket trade feed. Frames are JSON
// objects matching domain.RawTrade. The source reconnects with exponential
// backoff until the context is cancelled.
type WSSource struct {
	endpoint string
	config   WSConfig
	metrics  *observability.Metrics

	ch     chan domain.RawTrade
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWSSource connects to the endpoint and starts streaming.
func NewWSSource(ctx context.Context, endpoint string, config *WSConfig, metrics *observability.Metrics) (*WSSource, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	if endpoint == "" {
		return nil, fmt.Errorf("empty websocket endpoint")
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &WSSource{
		endpoint: endpoint,
		config:   cfg,
		metrics:  metrics,
		ch:       make(chan domain.RawTrade, 1024),
		cancel:   cancel,
	}

	s.wg.Add(1)
	go s.run(ctx)
	return s, nil
}

// Trades returns the row channel.
func (s *WSSource) Trades() <-chan domain.RawTrade {
	return s.ch
}

// Close stops the stream and waits for the reader to exit.
func (s *WSSource) Close() error {
	s.cancel()
	s.wg.Wait()
	return nil
}

// run dials, reads until failure, then backs off and redials.
func (s *WSSource) run(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.ch)

	delay := s.config.ReconnectDelay

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := s.dial(ctx)
		if err != nil {
			logger.Warn("feed dial %s: %v, retrying in %s", s.endpoint, err, delay)
			s.countError("dial")
			if !sleepCtx(ctx, delay) {
				return
			}
			delay = nextDelay(delay, s.config.MaxReconnectDelay)
			s.countReconnect()
			continue
		}

		delay = s.config.ReconnectDelay
		s.readLoop(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		s.countReconnect()
	}
}

func (s *WSSource) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	return conn, nil
}

func (s *WSSource) readLoop(ctx context.Context, conn *websocket.Conn) {
	// Ping keeps intermediaries from dropping idle connections.
	stopPing := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.config.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			case <-stopPing:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	defer close(stopPing)

	for {
		if s.config.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("feed read: %v, reconnecting", err)
				s.countError("read")
			}
			return
		}

		var row domain.RawTrade
		if err := json.Unmarshal(data, &row); err != nil {
			logger.Debug("feed frame undecodable: %v", err)
			s.countError("decode")
			continue
		}
		if row.Wallet != "" && !IsValidAddress(row.Wallet) {
			logger.Debug("feed frame with malformed wallet %q dropped", row.Wallet)
			s.countError("bad_address")
			continue
		}
		if row.Wallet != "" && !IsOnCurve(row.Wallet) {
			// Program-derived accounts trade through routers and vaults;
			// keep the row but note the counterparty class.
			logger.Debug("feed frame from program-derived account %s", row.Wallet)
		}

		if s.metrics != nil {
			s.metrics.FeedTradesReceived.Inc()
		}

		select {
		case s.ch <- row:
		case <-ctx.Done():
			return
		}
	}
}

func (s *WSSource) countError(kind string) {
	if s.metrics != nil {
		s.metrics.FeedErrors.WithLabelValues(kind).Inc()
	}
}

func (s *WSSource) countReconnect() {
	if s.metrics != nil {
		s.metrics.FeedReconnects.Inc()
	}
}

func nextDelay(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		return max
	}
	return next
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
