// Package broadcast streams pulse readings to websocket clients
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayoisaiah/serene/pulse"
)

const writeWait = 200 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans readings out to every connected client.
type Hub struct {
	logger *slog.Logger
	conns  map[*websocket.Conn]bool
	last   []byte
	mu     sync.Mutex
}

// NewHub returns a hub with no clients.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		conns:  make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

func (h *Hub) snapshot() []*websocket.Conn {
	h.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(h.conns))

	for c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	return clients
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.conns)
}

// Broadcast sends r as a JSON text message. Clients that cannot keep up are
// dropped.
func (h *Hub) Broadcast(r pulse.Reading) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.last = b
	h.mu.Unlock()

	for _, c := range h.snapshot() {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))

		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			h.logger.Debug("dropping websocket client", slog.Any("error", err))

			_ = c.Close()
			h.remove(c)
		}
	}

	return nil
}

// Run broadcasts every reading from readings until the channel closes or ctx
// is done.
func (h *Hub) Run(ctx context.Context, readings <-chan pulse.Reading) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-readings:
			if !ok {
				return
			}

			if err := h.Broadcast(r); err != nil {
				h.logger.Warn("encoding reading failed", slog.Any("error", err))
			}
		}
	}
}

// Handler serves the websocket endpoint on /ws and the latest reading as
// JSON on /reading.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		h.add(conn)

		defer func() {
			h.remove(conn)
			conn.Close()
		}()

		// clients only listen; reading detects the close
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})

	mux.HandleFunc("/reading", func(w http.ResponseWriter, _ *http.Request) {
		h.mu.Lock()
		last := h.last
		h.mu.Unlock()

		if last == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(last)
	})

	return mux
}

// Serve listens on addr until ctx is done.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	h.logger.Info("broadcasting readings", slog.String("addr", ln.Addr().String()))

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
