// Package bridge accepts websocket connections from an embedding page that relays
// the player's postMessage traffic, and exposes them as a gateway.Transport.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lockstep-cli/lockstep/gateway"
	"github.com/lockstep-cli/lockstep/log"
	"github.com/sirupsen/logrus"
)

const (
	inboxSize    = 64
	writeTimeout = 5 * time.Second
)

// Bridge implements gateway.Transport over websocket connections.
type Bridge struct {
	router   chi.Router
	upgrader websocket.Upgrader
	inbox    chan gateway.Envelope
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once

	mu    sync.Mutex
	peers map[gateway.Source]*peer

	logger *logrus.Entry
}

type peer struct {
	conn   *websocket.Conn
	origin string
	mu     sync.Mutex // gorilla allows one concurrent writer
}

// New returns a bridge with its routes mounted.
func New() *Bridge {
	b := &Bridge{
		router: chi.NewRouter(),
		upgrader: websocket.Upgrader{
			// Origins are filtered by the gateway, which must see every message.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		inbox:  make(chan gateway.Envelope, inboxSize),
		done:   make(chan struct{}),
		peers:  make(map[gateway.Source]*peer),
		logger: log.Component("bridge"),
	}

	b.router.Use(middleware.Recoverer)
	b.router.Get("/healthz", b.handleHealth)
	b.router.Get("/bridge", b.handleBridge)
	return b
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Messages implements gateway.Transport.
func (b *Bridge) Messages() <-chan gateway.Envelope {
	return b.inbox
}

// Post implements gateway.Transport by writing a text frame to the source's connection.
func (b *Bridge) Post(ctx context.Context, to gateway.Source, payload []byte) error {
	b.mu.Lock()
	p, ok := b.peers[to]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown destination %q", to)
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.conn.SetWriteDeadline(deadline)
	if err := p.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write to %s: %w", to, err)
	}
	return nil
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (b *Bridge) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bridge: %w", err)
	}
	return b.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes every
// connection and the inbox.
func (b *Bridge) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           b,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	b.logger.WithField("addr", ln.Addr().String()).Info("bridge listening")

	select {
	case err := <-errc:
		b.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("bridge: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		b.Close()
		return nil
	}
}

// Close drops every connection and closes the inbox once all readers finished.
func (b *Bridge) Close() {
	b.once.Do(func() {
		close(b.done)

		b.mu.Lock()
		for _, p := range b.peers {
			_ = p.conn.Close()
		}
		b.mu.Unlock()

		b.wg.Wait()
		close(b.inbox)
	})
}

func (b *Bridge) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (b *Bridge) handleBridge(w http.ResponseWriter, r *http.Request) {
	select {
	case <-b.done:
		http.Error(w, "bridge closed", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.WithError(err).Debug("upgrade failed")
		return
	}

	source := gateway.Source(uuid.NewString())
	p := &peer{conn: conn, origin: r.Header.Get("Origin")}

	b.mu.Lock()
	select {
	case <-b.done:
		b.mu.Unlock()
		_ = conn.Close()
		return
	default:
	}
	b.wg.Add(1)
	b.peers[source] = p
	b.mu.Unlock()

	logger := b.logger.WithFields(logrus.Fields{"source": source, "origin": p.origin})
	logger.Info("connection opened")

	defer func() {
		b.mu.Lock()
		delete(b.peers, source)
		b.mu.Unlock()
		_ = conn.Close()
		logger.Info("connection closed")
		b.wg.Done()
	}()

	b.read(p, source, logger)
}

// read forwards text frames as string payloads until the connection ends.
func (b *Bridge) read(p *peer, source gateway.Source, logger *logrus.Entry) {
	for {
		messageType, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithError(err).Debug("read error")
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		env := gateway.Envelope{Origin: p.origin, Source: source, Payload: string(data)}
		select {
		case b.inbox <- env:
		case <-b.done:
			return
		}
	}
}
