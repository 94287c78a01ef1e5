//go:build js || wasm

// Command nojs-runtime is the browser runtime. It hydrates the page the
// render server embedded in window.__RUNTIME__ and keeps it in sync with the
// store.
package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/vcrobe/nojs-render/appcomponents"
	"github.com/vcrobe/nojs-render/client"
	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/dialogs"
	"github.com/vcrobe/nojs-render/editor"
	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/extension"
	"github.com/vcrobe/nojs-render/prefs"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/router"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/vdom"
)

func embeddedRuntime() (*store.RuntimePayload, error) {
	raw := js.Global().Get("JSON").Call("stringify", js.Global().Get("__RUNTIME__")).String()
	var p store.RuntimePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func main() {
	initial, err := embeddedRuntime()
	if err != nil {
		panic("Error reading window.__RUNTIME__: " + err.Error())
	}

	cl, err := client.New(js.Global().Get("location").Get("origin").String(), client.DefaultSettings())
	if err != nil {
		panic("Error creating client: " + err.Error())
	}

	// 1. Components known to the page
	reg := registry.New()
	appcomponents.Register(reg)

	// 2. The store, following browser history
	history := router.NewBrowserHistory()
	s, err := store.New(initial, store.Options{
		Backend:     cl,
		Emitter:     events.NewEmitter(),
		Registry:    reg,
		Preferences: prefs.NewMemory(),
		History:     history,
	})
	if err != nil {
		panic("Error creating store: " + err.Error())
	}
	if err := s.Start(context.Background()); err != nil {
		panic("Error starting store: " + err.Error())
	}

	// 3. The renderer, mounted over the server-rendered markup
	ed := editor.New(s, cl, dialogs.Default)
	env := &extension.Env{Store: s, Registry: reg, Editor: ed, Catalog: cl}
	renderer := runtime.NewRenderer(nil, vdom.NewDOMMount("#app"))
	renderer.SetCurrentComponent(&extension.PageView{Env: env})
	renderer.RenderRoot()
	console.Log("[runtime] hydrated", s.Page())

	// Keep the Go program running
	select {}
}
