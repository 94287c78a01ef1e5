package runtime

import (
	"fmt"

	"github.com/vcrobe/nojs-render/console"
)

// HookPanic is the error logged when a lifecycle hook panics in a build
// that recovers hooks.
type HookPanic struct {
	Hook  string
	Key   string
	Value any
}

func (p *HookPanic) Error() string {
	return fmt.Sprintf("%s panic in component %s: %v", p.Hook, p.Key, p.Value)
}

// callHook runs a lifecycle hook of the instance at key. Unless built with
// the dev tag, a panic is logged and the render continues without the hook's
// effects.
func (r *RendererImpl) callHook(hook, key string, fn func()) {
	if !recoverHooks {
		fn()
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			console.Error(&HookPanic{Hook: hook, Key: key, Value: rec})
			r.hookPanics++
		}
	}()
	fn()
}

// HookPanics returns how many lifecycle hook panics were recovered.
func (r *RendererImpl) HookPanics() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hookPanics
}
