// Package prefs durably records client choices such as the active locale.
package prefs

import (
	"context"
	"errors"
	"sync"
)

// LocaleKey is the preference key holding the active locale.
const LocaleKey = "locale"

// ErrNotFound is returned when a preference was never set.
var ErrNotFound = errors.New("preference not set")

// Memory keeps preferences for the lifetime of the process.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory creates an empty in-memory preference set.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Get returns the value under key or ErrNotFound.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// SaveLocale records the active locale.
func (m *Memory) SaveLocale(ctx context.Context, locale string) error {
	return m.Set(ctx, LocaleKey, locale)
}

// Locale returns the recorded locale or ErrNotFound.
func (m *Memory) Locale(ctx context.Context) (string, error) {
	return m.Get(ctx, LocaleKey)
}
