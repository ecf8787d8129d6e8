// Package stream broadcasts world snapshots to WebSocket spectators.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeWait = 2 * time.Second

// client is one connected spectator.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to spectators. Broadcast never blocks: a client
// whose queue is full misses the frame.
type Hub struct {
	queue int

	mu      sync.Mutex
	clients map[*client]struct{}
	dropped uint64
}

// NewHub creates a hub buffering up to queue frames per client.
func NewHub(queue int) *Hub {
	if queue < 1 {
		queue = 1
	}
	return &Hub{queue: queue, clients: make(map[*client]struct{})}
}

// Broadcast encodes v as JSON and queues it for every client.
func (h *Hub) Broadcast(v any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped++
		}
	}
	return nil
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many frames were skipped for slow clients.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	slog.Info("spectator connected", "remote", c.conn.RemoteAddr().String(), "clients", n)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	slog.Info("spectator disconnected", "remote", c.conn.RemoteAddr().String(), "clients", n)
}

// ServeHTTP upgrades the request and streams frames until the client goes
// away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan []byte, h.queue)}
	h.add(c)
	defer h.remove(c)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader: spectators send nothing we use, but reading notices closes.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case data := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}

// Serve listens on addr and serves the hub at path until ctx is cancelled.
func Serve(ctx context.Context, addr, path string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle(path, h)
	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	slog.Info("spectator stream listening", "addr", addr, "path", path)

	select {
	case err := <-errc:
		return fmt.Errorf("stream server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("stream shutdown: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("stream server: %w", err)
		}
		return nil
	}
}
