//go:build js || wasm

package dialogs

import (
	"syscall/js"
)

func Alert(msg string) {
	js.Global().Call("alert", msg)
}

// Default shows failures with alert and logs the rest to the console.
var Default Notifier = NotifierFunc(func(n Notice) {
	if n.Level == Failure {
		Alert(n.Message)
		return
	}
	js.Global().Get("console").Call("log", n.Message)
})
