package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-render/config"
)

const siteJSON = `{
  "runtime": {
    "culture": {"locale": "en-US"},
    "page": "store",
    "pages": {"store": {"path": "/", "title": "Home"}, "store/product": {"path": "/p/:slug"}},
    "components": {"render/Text": {"assets": []}},
    "extensions": {
      "store": {"component": "render/Text", "props": {"text": "Welcome"}},
      "store/product": {"component": "render/Text", "props": {"text": "Product"}}
    }
  }
}`

func writeSite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.json")
	require.NoError(t, os.WriteFile(path, []byte(siteJSON), 0o644))
	return path
}

// TestInspect_PrintsMatches verifies one JSON line per JSONPath match.
func TestInspect_PrintsMatches(t *testing.T) {
	// Arrange
	path := writeSite(t)
	var out bytes.Buffer

	// Act
	err := inspect(&out, path, `$.runtime.pages.*.path`)

	// Assert
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.ElementsMatch(t, []string{`"/"`, `"/p/:slug"`}, lines)
}

// TestInspect_RejectsBadSelector verifies selector errors are reported.
func TestInspect_RejectsBadSelector(t *testing.T) {
	err := inspect(&bytes.Buffer{}, writeSite(t), `$.runtime[`)
	assert.ErrorContains(t, err, "invalid jsonpath")
}

// TestRenderPage_ByPageAndPath verifies both ways of selecting the page.
func TestRenderPage_ByPageAndPath(t *testing.T) {
	path := writeSite(t)

	var byPage bytes.Buffer
	require.NoError(t, renderPage(&byPage, path, "store", "", true))
	assert.Contains(t, byPage.String(), "<p>Welcome</p>")

	var byPath bytes.Buffer
	require.NoError(t, renderPage(&byPath, path, "", "/p/shoe", true))
	assert.Contains(t, byPath.String(), "<p>Welcome</p>")
	assert.Contains(t, byPath.String(), "window.__RUNTIME__")
}

// TestRenderPage_UnknownPage verifies pages without an extension fail.
func TestRenderPage_UnknownPage(t *testing.T) {
	err := renderPage(&bytes.Buffer{}, writeSite(t), "checkout", "", true)
	assert.ErrorContains(t, err, "checkout")
}

// TestPushURL_DerivedFromBaseURL verifies the websocket endpoint mapping.
func TestPushURL_DerivedFromBaseURL(t *testing.T) {
	c := config.Default()
	c.BaseURL = "https://shop.example.com/render/"

	got, err := pushURL(c)

	require.NoError(t, err)
	assert.Equal(t, "wss://shop.example.com/render/_v/v8/push", got)
}
