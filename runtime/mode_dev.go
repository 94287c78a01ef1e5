//go:build dev

package runtime

// recoverHooks is off in dev builds so lifecycle panics fail fast.
const recoverHooks = false
