//go:build js || wasm

package router

import (
	"net/url"
	"sync"
	"syscall/js"

	"github.com/vcrobe/nojs-render/console"
)

// BrowserHistory drives window.history. Locations pushed by the runtime are
// tagged in history state so popstate listeners can tell them apart.
type BrowserHistory struct {
	mu               sync.Mutex
	listeners        map[int]func(Location)
	nextID           int
	popstateListener js.Func
}

// NewBrowserHistory registers the popstate listener.
func NewBrowserHistory() *BrowserHistory {
	h := &BrowserHistory{listeners: make(map[int]func(Location))}
	h.popstateListener = js.FuncOf(func(this js.Value, args []js.Value) any {
		state := js.Null()
		if len(args) > 0 {
			state = args[0].Get("state")
		}
		loc := currentLocation()
		loc.FromRuntime = state.Truthy() && state.Get("renderRouting").Truthy()
		h.notify(loc)
		return nil
	})
	js.Global().Call("addEventListener", "popstate", h.popstateListener)
	return h
}

func currentLocation() Location {
	location := js.Global().Get("location")
	query, err := url.ParseQuery(trimQuery(location.Get("search").String()))
	if err != nil {
		console.Warn("[router] bad query string:", err.Error())
	}
	return Location{Path: location.Get("pathname").String(), Query: query}
}

func trimQuery(search string) string {
	if len(search) > 0 && search[0] == '?' {
		return search[1:]
	}
	return search
}

// Push implements History.
func (h *BrowserHistory) Push(loc Location) error {
	state := js.Global().Get("Object").New()
	state.Set("renderRouting", loc.FromRuntime)
	js.Global().Get("history").Call("pushState", state, "", loc.String())
	h.notify(loc)
	return nil
}

// Reload implements History.
func (h *BrowserHistory) Reload(loc Location) {
	js.Global().Get("location").Set("href", loc.String())
}

// Listen implements History.
func (h *BrowserHistory) Listen(fn func(Location)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

func (h *BrowserHistory) notify(loc Location) {
	h.mu.Lock()
	fns := make([]func(Location), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(loc)
	}
}

// Cleanup releases the popstate listener.
func (h *BrowserHistory) Cleanup() {
	if !h.popstateListener.IsUndefined() {
		js.Global().Call("removeEventListener", "popstate", h.popstateListener)
		h.popstateListener.Release()
	}
}
