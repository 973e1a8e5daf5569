package history

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
)

const (
	connectTimeout = 5 * time.Second
	writeTimeout   = 5 * time.Second

	// MsgGameResult is the envelope type the history service expects.
	MsgGameResult = "game_result"
)

// Message is the JSON envelope sent over the websocket.
type Message struct {
	Type    string      `json:"type"`
	Payload game.Result `json:"payload"`
}

// ErrReporterClosed is returned by reports made after Close.
var ErrReporterClosed = errors.New("history reporter closed")

// WSReporter sends results to the history service over a websocket. The
// connection is opened on the first report and reopened on the next report
// after a failure. Close does not wait for a report in flight: it aborts the
// dial or closes the connection under it.
type WSReporter struct {
	config *websocket.Config

	sendMu sync.Mutex // one report at a time

	mu     sync.Mutex // guards the fields below
	conn   *websocket.Conn
	closed bool
	stop   chan struct{}
}

// NewWSReporter validates rawURL (ws:// or wss://) and prepares the
// connection settings. It does not connect.
func NewWSReporter(rawURL string) (*WSReporter, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("history url: %w", err)
	}

	origin := &url.URL{Host: u.Host}
	switch u.Scheme {
	case "ws":
		origin.Scheme = "http"
	case "wss":
		origin.Scheme = "https"
	default:
		return nil, fmt.Errorf("history url: unsupported scheme %q", u.Scheme)
	}

	config, err := websocket.NewConfig(u.String(), origin.String())
	if err != nil {
		return nil, fmt.Errorf("history url: %w", err)
	}

	return &WSReporter{config: config, stop: make(chan struct{})}, nil
}

// Report sends r as a game_result message.
func (w *WSReporter) Report(ctx context.Context, r game.Result) error {
	w.sendMu.Lock()
	defer w.sendMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := w.connection(ctx)
	if err != nil {
		return err
	}

	conn.SetWriteDeadline(deadline(ctx, writeTimeout))

	msg := Message{Type: MsgGameResult, Payload: r}
	if err := websocket.JSON.Send(conn, msg); err != nil {
		w.drop(conn)
		return fmt.Errorf("failed to send result: %w", err)
	}
	return nil
}

// connection returns the open connection, dialing one if needed. The dial
// runs without holding mu.
func (w *WSReporter) connection(ctx context.Context) (*websocket.Conn, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrReporterClosed
	}
	if w.conn != nil {
		conn := w.conn
		w.mu.Unlock()
		return conn, nil
	}
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	conn, err := w.dial(ctx)
	if err != nil {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return nil, ErrReporterClosed
		}
		return nil, fmt.Errorf("failed to connect to history service: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		conn.Close()
		return nil, ErrReporterClosed
	}
	w.conn = conn
	return conn, nil
}

// dial opens the TCP connection and runs the websocket handshake, both
// bounded by ctx and connectTimeout.
func (w *WSReporter) dial(ctx context.Context) (*websocket.Conn, error) {
	loc := w.config.Location
	port := loc.Port()
	if port == "" {
		port = "80"
		if loc.Scheme == "wss" {
			port = "443"
		}
	}

	d := net.Dialer{Timeout: connectTimeout}
	raw, err := d.DialContext(ctx, "tcp", net.JoinHostPort(loc.Hostname(), port))
	if err != nil {
		return nil, err
	}
	raw.SetDeadline(deadline(ctx, connectTimeout))

	// Abort the handshake when ctx ends.
	stop := context.AfterFunc(ctx, func() { raw.Close() })

	var rwc net.Conn = raw
	if loc.Scheme == "wss" {
		cfg := w.config.TlsConfig
		if cfg == nil {
			cfg = &tls.Config{ServerName: loc.Hostname()}
		}
		rwc = tls.Client(raw, cfg)
	}

	conn, err := websocket.NewClient(w.config, rwc)
	if !stop() {
		if err == nil {
			conn.Close()
		}
		return nil, ctx.Err()
	}
	if err != nil {
		raw.Close()
		return nil, err
	}
	raw.SetDeadline(time.Time{})
	return conn, nil
}

// drop forgets conn after a failed send.
func (w *WSReporter) drop(conn *websocket.Conn) {
	w.mu.Lock()
	if w.conn == conn {
		w.conn = nil
	}
	w.mu.Unlock()
	conn.Close()
}

// Close closes the connection if one is open. Later reports fail with
// ErrReporterClosed.
func (w *WSReporter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.stop)
	conn := w.conn
	w.conn = nil
	w.mu.Unlock()

	if conn == nil {
		return nil
	}
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// deadline is now+limit, or the ctx deadline when that comes first.
func deadline(ctx context.Context, limit time.Duration) time.Time {
	d := time.Now().Add(limit)
	if cd, ok := ctx.Deadline(); ok && cd.Before(d) {
		return cd
	}
	return d
}
