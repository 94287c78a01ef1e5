//go:build js || wasm

package client

import "net/http"

// transport leaves dialing unset so requests go through the browser's fetch.
func transport(Settings) http.RoundTripper {
	return &http.Transport{}
}
