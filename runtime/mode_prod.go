//go:build !dev

package runtime

const recoverHooks = true
