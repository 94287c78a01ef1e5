// Package client implements the store collaborators over HTTP against the
// versioned runtime endpoints of a render server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/store"
)

var (
	_ store.Backend = (*Client)(nil)
	_ store.Saver   = (*Client)(nil)
	_ store.Catalog = (*Client)(nil)
)

// Client talks to a render server.
type Client struct {
	base   *url.URL
	http   *http.Client
	cache  *MessageCache
	prefix string
}

// New creates a client for the server at baseURL.
func New(baseURL string, settings Settings) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	cache, err := NewMessageCache(settings.MessageCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		base:   base,
		http:   httpClient(settings),
		cache:  cache,
		prefix: Prefix(settings.RenderMajor),
	}, nil
}

// Cache returns the message bundle cache.
func (c *Client) Cache() *MessageCache {
	return c.cache
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + c.prefix + path
	u.RawQuery = query.Encode()
	return u.String()
}

// FetchRuntime implements store.Backend.
func (c *Client) FetchRuntime(ctx context.Context, req store.RuntimeRequest) (*store.RuntimePayload, error) {
	q := url.Values{}
	q.Set("page", req.Page)
	q.Set("locale", req.Locale)
	q.Set("production", strconv.FormatBool(req.Production))
	var payload store.RuntimePayload
	if err := c.get(ctx, c.endpoint(RuntimePath, q), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchMessages implements store.Backend. Bundles are served from the cache
// unless req.Refresh is set.
func (c *Client) FetchMessages(ctx context.Context, req store.MessagesRequest) (store.Messages, error) {
	if !req.Refresh {
		if m, ok := c.cache.Get(req); ok {
			return m, nil
		}
	}
	q := url.Values{}
	q.Set("page", req.Page)
	q.Set("locale", req.Locale)
	q.Set("production", strconv.FormatBool(req.Production))
	if req.App != "" {
		q.Set("app", req.App)
	}
	if req.Refresh {
		q.Set("refresh", "true")
	}
	var messages store.Messages
	if err := c.get(ctx, c.endpoint(MessagesPath, q), &messages); err != nil {
		return nil, err
	}
	c.cache.Put(req, messages)
	return messages, nil
}

// FetchAssets implements store.Backend by downloading every asset of the
// component, so a missing asset fails before the component is rendered.
func (c *Client) FetchAssets(ctx context.Context, componentID string, d store.ComponentDescriptor) error {
	for _, asset := range d.Assets {
		target := asset
		if !strings.Contains(asset, "://") {
			target = c.endpoint(AssetsPath+strings.TrimPrefix(asset, "/"), nil)
		}
		if err := c.download(ctx, target); err != nil {
			return fmt.Errorf("asset %s of %s: %w", asset, componentID, err)
		}
	}
	return nil
}

// SaveExtension implements store.Saver.
func (c *Client) SaveExtension(ctx context.Context, treePath, component string, props store.Props) error {
	body := SaveRequest{
		RequestID: uuid.NewString(),
		TreePath:  treePath,
		Component: component,
		Props:     props,
	}
	return c.post(ctx, c.endpoint(ExtensionsPath, nil), body, nil)
}

// AvailableComponents implements store.Catalog.
func (c *Client) AvailableComponents(ctx context.Context, treePath string) ([]store.AvailableComponent, error) {
	q := url.Values{}
	q.Set("treePath", treePath)
	var out []store.AvailableComponent
	if err := c.get(ctx, c.endpoint(AvailablePath, q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, target string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return store.Permanent(err)
	}
	req.Header.Add("Accept", "application/json")
	return c.do(req, result)
}

func (c *Client) post(ctx context.Context, target string, args, result any) error {
	body, err := json.Marshal(args)
	if err != nil {
		return store.Permanent(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return store.Permanent(err)
	}
	req.Header.Add("Content-Type", "application/json")
	return c.do(req, result)
}

func (c *Client) download(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return store.Permanent(err)
	}
	return c.do(req, nil)
}

// do executes req. Client errors are permanent; server and transport errors
// may be retried.
func (c *Client) do(req *http.Request, result any) error {
	r, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if r.StatusCode != http.StatusOK && r.StatusCode != http.StatusNoContent {
		// The response body is the error message.
		err := &StatusError{Method: req.Method, URL: req.URL.Redacted(), Code: r.StatusCode, Message: strings.TrimSpace(string(body))}
		if r.StatusCode >= 400 && r.StatusCode < 500 {
			return store.Permanent(err)
		}
		return err
	}
	console.Debug("[client]", req.Method, req.URL.Path, r.StatusCode)
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return store.Permanent(fmt.Errorf("decode %s: %w", req.URL.Path, err))
	}
	return nil
}

// StatusError is a non-success HTTP response.
type StatusError struct {
	Method  string
	URL     string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, e.Message)
}
