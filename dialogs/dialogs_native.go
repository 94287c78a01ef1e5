//go:build !wasm

package dialogs

import "github.com/vcrobe/nojs-render/console"

// Default logs notices; native builds have no one to show them to.
var Default Notifier = NotifierFunc(func(n Notice) {
	if n.Level == Failure {
		console.Error("[notice]", n.Message)
		return
	}
	console.Log("[notice]", n.Message)
})
