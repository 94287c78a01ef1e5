package push

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vcrobe/nojs-render/console"
)

// HubSettings bounds the hub's connections.
type HubSettings struct {
	WriteTimeout time.Duration
	PingTimeout  time.Duration
	BufferSize   int
}

// DefaultHubSettings returns the settings used by NewHub.
func DefaultHubSettings() HubSettings {
	return HubSettings{
		WriteTimeout: 5 * time.Second,
		PingTimeout:  30 * time.Second,
		BufferSize:   32,
	}
}

// Hub accepts websocket connections and broadcasts messages to all of them.
// A peer that cannot keep up is dropped.
type Hub struct {
	settings HubSettings
	upgrader websocket.Upgrader

	mu    sync.Mutex
	peers map[*peer]struct{}
}

type peer struct {
	ws   *websocket.Conn
	send chan Message
	done chan struct{}
}

// NewHub creates a hub with DefaultHubSettings.
func NewHub() *Hub {
	return NewHubWithSettings(DefaultHubSettings())
}

// NewHubWithSettings creates a hub.
func NewHubWithSettings(settings HubSettings) *Hub {
	return &Hub{
		settings: settings,
		upgrader: websocket.Upgrader{
			// The dev server is reached from pages on other local ports.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[*peer]struct{}),
	}
}

// ServeHTTP upgrades the request and serves the peer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		console.Warn("[push] upgrade failed:", err)
		return
	}
	p := &peer{ws: ws, send: make(chan Message, h.settings.BufferSize), done: make(chan struct{})}
	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
	console.Debug("[push] peer connected:", ws.RemoteAddr())

	go h.readLoop(p)
	h.writeLoop(p)

	h.remove(p)
	ws.Close()
	console.Debug("[push] peer gone:", ws.RemoteAddr())
}

// readLoop only watches for the peer closing.
func (h *Hub) readLoop(p *peer) {
	defer close(p.done)
	for {
		if _, _, err := p.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(p *peer) {
	ping := time.NewTicker(h.settings.PingTimeout)
	defer ping.Stop()
	for {
		select {
		case <-p.done:
			return
		case m, ok := <-p.send:
			if !ok {
				return
			}
			p.ws.SetWriteDeadline(time.Now().Add(h.settings.WriteTimeout))
			if err := p.ws.WriteJSON(m); err != nil {
				// A write deadline timeout cannot be recovered.
				console.Log("[push] write failed:", err)
				return
			}
		case <-ping.C:
			if err := p.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.settings.WriteTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, p)
}

// Broadcast queues m for every connected peer and returns how many peers
// accepted it.
func (h *Hub) Broadcast(m Message) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for p := range h.peers {
		select {
		case p.send <- m:
			n++
		default:
			console.Warn("[push] dropping slow peer:", p.ws.RemoteAddr())
			delete(h.peers, p)
			close(p.send)
		}
	}
	return n
}

// Publish encodes payload and broadcasts it under event.
func (h *Hub) Publish(event string, payload any) (int, error) {
	m, err := NewMessage(event, payload)
	if err != nil {
		return 0, err
	}
	return h.Broadcast(m), nil
}

// Peers returns the number of connected peers.
func (h *Hub) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// DisconnectAll drops every connected peer. Clients reconnect on their own.
func (h *Hub) DisconnectAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		delete(h.peers, p)
		close(p.send)
	}
}
