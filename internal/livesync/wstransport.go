package livesync

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSConfig holds websocket transport settings.
type WSConfig struct {
	URL string // ws:// or wss:// stream endpoint

	HandshakeTimeout  time.Duration
	ReadTimeout       time.Duration // max silence before the link counts as dead
	ReconnectBaseWait time.Duration
	ReconnectMaxWait  time.Duration
}

// DefaultWSConfig returns sensible defaults for a URL.
func DefaultWSConfig(url string) WSConfig {
	return WSConfig{
		URL:               url,
		HandshakeTimeout:  10 * time.Second,
		ReadTimeout:       45 * time.Second, // origin pings every 15s
		ReconnectBaseWait: time.Second,
		ReconnectMaxWait:  30 * time.Second,
	}
}

// WSTransport maintains a websocket subscription to the origin's change
// stream, reconnecting with exponential backoff. Every received frame becomes
// one notification; the channel holds a single pending event because
// notifications only mean "refresh", never carry state.
type WSTransport struct {
	cfg    WSConfig
	logger *slog.Logger

	events chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWSTransport creates a websocket stream transport.
func NewWSTransport(cfg WSConfig, logger *slog.Logger) *WSTransport {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultWSConfig(cfg.URL)
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaults.HandshakeTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.ReconnectBaseWait <= 0 {
		cfg.ReconnectBaseWait = defaults.ReconnectBaseWait
	}
	if cfg.ReconnectMaxWait <= 0 {
		cfg.ReconnectMaxWait = defaults.ReconnectMaxWait
	}

	return &WSTransport{
		cfg:    cfg,
		logger: logger,
		events: make(chan struct{}, 1),
	}
}

// Start begins maintaining the connection in the background.
func (t *WSTransport) Start(ctx context.Context) error {
	t.ctx, t.cancel = context.WithCancel(ctx)

	t.wg.Add(1)
	go t.run()
	return nil
}

// Stop shuts the transport down.
func (t *WSTransport) Stop() error {
	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
	return nil
}

// Events returns the notification channel.
func (t *WSTransport) Events() <-chan struct{} {
	return t.events
}

// run dials, reads until failure, and retries with exponential backoff.
// The backoff resets after every successful connection.
func (t *WSTransport) run() {
	defer t.wg.Done()

	wait := t.cfg.ReconnectBaseWait

	for {
		conn, err := t.dial()
		if err != nil {
			// Jitter spreads reconnect storms across replicas.
			delay := wait + time.Duration(rand.Int63n(int64(wait)/2+1))
			t.logger.Warn("stream connect failed", "url", t.cfg.URL, "error", err, "retry_in", delay)

			select {
			case <-t.ctx.Done():
				return
			case <-time.After(delay):
			}
			wait *= 2
			if wait > t.cfg.ReconnectMaxWait {
				wait = t.cfg.ReconnectMaxWait
			}
			continue
		}

		wait = t.cfg.ReconnectBaseWait
		t.logger.Info("stream connected", "url", t.cfg.URL)

		t.readLoop(conn)
		conn.Close()

		select {
		case <-t.ctx.Done():
			return
		default:
			t.logger.Info("stream disconnected, reconnecting")
		}
	}
}

func (t *WSTransport) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: t.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(t.ctx, t.cfg.URL, nil)
	return conn, err
}

// readLoop consumes frames until the connection fails. Origin pings extend
// the read deadline; a silent link times out and triggers a reconnect.
func (t *WSTransport) readLoop(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	// Unblock the blocking read on shutdown.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-t.ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			select {
			case <-t.ctx.Done():
			default:
				t.logger.Debug("stream read failed", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
		t.notify()
	}
}

// notify queues one pending notification, dropping if one is already queued.
func (t *WSTransport) notify() {
	select {
	case t.events <- struct{}{}:
	default:
	}
}
