package client

import (
	"maps"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vcrobe/nojs-render/store"
)

type cacheKey struct {
	page, locale, app string
	production        bool
}

// MessageCache keeps recently fetched message bundles per page, locale and
// app. It is safe for concurrent use.
type MessageCache struct {
	lru *lru.Cache[cacheKey, store.Messages]
}

// NewMessageCache creates a cache holding up to size bundles.
func NewMessageCache(size int) (*MessageCache, error) {
	if size <= 0 {
		size = DefaultSettings().MessageCacheSize
	}
	c, err := lru.New[cacheKey, store.Messages](size)
	if err != nil {
		return nil, err
	}
	return &MessageCache{lru: c}, nil
}

func keyOf(req store.MessagesRequest) cacheKey {
	return cacheKey{page: req.Page, locale: req.Locale, app: req.App, production: req.Production}
}

// Get returns a copy of the cached bundle for req.
func (c *MessageCache) Get(req store.MessagesRequest) (store.Messages, bool) {
	m, ok := c.lru.Get(keyOf(req))
	if !ok {
		return nil, false
	}
	return maps.Clone(m), true
}

// Put stores a copy of m for req.
func (c *MessageCache) Put(req store.MessagesRequest, m store.Messages) {
	c.lru.Add(keyOf(req), maps.Clone(m))
}

// PurgeLocale drops every bundle of locale.
func (c *MessageCache) PurgeLocale(locale string) int {
	n := 0
	for _, k := range c.lru.Keys() {
		if k.locale == locale && c.lru.Remove(k) {
			n++
		}
	}
	return n
}

// Len returns the number of cached bundles.
func (c *MessageCache) Len() int {
	return c.lru.Len()
}
