package push

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/events"
)

// ClientSettings bounds the push client.
type ClientSettings struct {
	ReconnectTimeout time.Duration
	ReadTimeout      time.Duration
	HandshakeTimeout time.Duration
}

// DefaultClientSettings returns the settings used by NewClient.
func DefaultClientSettings() ClientSettings {
	return ClientSettings{
		ReconnectTimeout: 2 * time.Second,
		ReadTimeout:      90 * time.Second,
		HandshakeTimeout: 5 * time.Second,
	}
}

// Client connects to a Hub and re-emits every received message on the bus.
// It reconnects until its context is done.
type Client struct {
	url      string
	emitter  *events.Emitter
	settings ClientSettings
	dialer   *websocket.Dialer

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	connected chan struct{}
}

// NewClient starts a client for the hub at url ("ws://host/_v/v8/push").
func NewClient(ctx context.Context, url string, emitter *events.Emitter, settings ClientSettings) *Client {
	cancelCtx, cancel := context.WithCancel(ctx)
	c := &Client{
		url:       url,
		emitter:   emitter,
		settings:  settings,
		dialer:    &websocket.Dialer{HandshakeTimeout: settings.HandshakeTimeout},
		ctx:       cancelCtx,
		cancel:    cancel,
		done:      make(chan struct{}),
		connected: make(chan struct{}, 1),
	}
	go c.run()
	return c
}

// Connected receives a value every time a connection is established.
func (c *Client) Connected() <-chan struct{} {
	return c.connected
}

func (c *Client) run() {
	defer close(c.done)
	for {
		ws, _, err := c.dialer.DialContext(c.ctx, c.url, nil)
		if err != nil {
			console.Log("[push] connect", c.url, "failed:", err)
		} else {
			select {
			case c.connected <- struct{}{}:
			default:
			}
			c.serve(ws)
		}
		select {
		case <-c.ctx.Done():
			return
		case <-time.After(c.settings.ReconnectTimeout):
		}
	}
}

func (c *Client) serve(ws *websocket.Conn) {
	defer ws.Close()
	stop := context.AfterFunc(c.ctx, func() { ws.Close() })
	defer stop()

	ws.SetPingHandler(func(data string) error {
		ws.SetReadDeadline(time.Now().Add(c.settings.ReadTimeout))
		return ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	for {
		ws.SetReadDeadline(time.Now().Add(c.settings.ReadTimeout))
		var m Message
		if err := ws.ReadJSON(&m); err != nil {
			if c.ctx.Err() == nil {
				console.Log("[push] read failed:", err)
			}
			return
		}
		payload, err := m.Decode()
		if err != nil {
			console.Warn("[push]", err)
			continue
		}
		console.Debug("[push] received", m.Event)
		c.emitter.Emit(m.Event, payload)
	}
}

// Close stops the client and waits for it to exit.
func (c *Client) Close() {
	c.cancel()
	<-c.done
}
