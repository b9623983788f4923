// Package stream broadcasts per-tick population samples to WebSocket clients.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/warren/traits"
)

// Sample is one tick of population data, as sent to plotters.
type Sample struct {
	Type       string `json:"type"` // always "sample"
	Tick       int32  `json:"tick"`
	Season     string `json:"season"`
	Herbivores int    `json:"herbivores"`
	Carnivores int    `json:"carnivores"`
	Omnivores  int    `json:"omnivores"`
	Berries    int    `json:"berries"`
}

// Hello is sent once to each client on connect.
type Hello struct {
	Type    string        `json:"type"` // always "config"
	MapSize int           `json:"map_size"`
	Seasons []string      `json:"seasons"`
	Species []SpeciesInfo `json:"species"`
}

// SpeciesInfo tells a plotter how to label and color one series.
type SpeciesInfo struct {
	Name   string `json:"name"`
	Animal string `json:"animal"`
	Color  string `json:"color"` // #rrggbb
}

// Legend describes every species in tick order.
func Legend() []SpeciesInfo {
	out := make([]SpeciesInfo, 0, traits.SpeciesCount)
	for _, s := range traits.AllSpecies {
		r, g, b := traits.GetSpeciesColor(s)
		out = append(out, SpeciesInfo{
			Name:   s.String(),
			Animal: s.CommonName(),
			Color:  fmt.Sprintf("#%02x%02x%02x", r, g, b),
		})
	}
	return out
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Client is one connected plotter.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes v as JSON. Safe for concurrent use.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub fans samples out to every connected client.
// Publish never blocks the simulation: samples are dropped when the buffer is full.
type Hub struct {
	hello   Hello
	samples chan Sample

	mu      sync.Mutex
	clients map[*Client]struct{}

	dropped int
}

// NewHub creates a hub with room for bufferSize pending samples.
func NewHub(hello Hello, bufferSize int) *Hub {
	if bufferSize < 1 {
		bufferSize = 1
	}
	hello.Type = "config"
	if hello.Species == nil {
		hello.Species = Legend()
	}
	return &Hub{
		hello:   hello,
		samples: make(chan Sample, bufferSize),
		clients: make(map[*Client]struct{}),
	}
}

// Publish queues a sample for broadcast. It reports false if the sample was dropped.
func (h *Hub) Publish(s Sample) bool {
	s.Type = "sample"
	select {
	case h.samples <- s:
		return true
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
		return false
	}
}

// Dropped returns how many samples were discarded because the buffer was full.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run broadcasts queued samples until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case s := <-h.samples:
			h.broadcast(s)
		}
	}
}

func (h *Hub) broadcast(s Sample) {
	h.mu.Lock()
	list := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		if err := c.Send(s); err != nil {
			slog.Debug("stream client send failed", "error", err)
			h.remove(c)
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	list := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()
	for _, c := range list {
		h.remove(c)
	}
}

// ServeHTTP upgrades the connection and keeps the client registered until it disconnects.
// Incoming messages are ignored; reading only detects the close.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("stream upgrade failed", "error", err)
		return
	}
	client := &Client{conn: conn}

	if err := client.Send(h.hello); err != nil {
		conn.Close()
		return
	}
	h.add(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(client)
}

// ListenAndServe serves the hub at path on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("stream server shutdown: %w", err)
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stream server: %w", err)
	}
}
