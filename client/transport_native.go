//go:build !wasm

package client

import (
	"net"
	"net/http"
)

func transport(s Settings) http.RoundTripper {
	dialer := &net.Dialer{
		Timeout: s.ConnectTimeout,
	}
	return &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: s.TLSTimeout,
	}
}
