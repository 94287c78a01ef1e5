// Package config loads the render runtime configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vcrobe/nojs-render/client"
	"github.com/vcrobe/nojs-render/layout"
	"github.com/vcrobe/nojs-render/store"
)

// Duration is a time.Duration written as a string ("5s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the runtime and dev server configuration.
type Config struct {
	BaseURL    string `toml:"base_url"`
	Root       string `toml:"root"`
	Page       string `toml:"page"`
	Production bool   `toml:"production"`

	RenderMajor      int      `toml:"render_major"`
	FetchTimeout     Duration `toml:"fetch_timeout"`
	FetchRetries     int      `toml:"fetch_retries"`
	FetchBackoff     Duration `toml:"fetch_backoff"`
	MessageCacheSize int      `toml:"message_cache_size"`
	MaxLayoutDepth   int      `toml:"max_layout_depth"`

	PrefsPath   string `toml:"prefs_path"`
	PushURL     string `toml:"push_url"`
	Addr        string `toml:"addr"`
	RuntimeFile string `toml:"runtime_file"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	st := store.DefaultSettings()
	cl := client.DefaultSettings()
	return Config{
		Root:             "root",
		RenderMajor:      cl.RenderMajor,
		FetchTimeout:     Duration{st.Timeout},
		FetchRetries:     st.Retries,
		FetchBackoff:     Duration{st.Backoff},
		MessageCacheSize: cl.MessageCacheSize,
		MaxLayoutDepth:   layout.DefaultMaxDepth,
		PrefsPath:        ":memory:",
		Addr:             ":8080",
	}
}

// Load decodes the file at path over Default.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Root == "" {
		errs = append(errs, errors.New("root cannot be empty"))
	}
	if c.RenderMajor <= 0 {
		errs = append(errs, fmt.Errorf("render_major must be positive, got %d", c.RenderMajor))
	}
	if c.FetchRetries < 0 {
		errs = append(errs, fmt.Errorf("fetch_retries cannot be negative, got %d", c.FetchRetries))
	}
	if c.MaxLayoutDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_layout_depth must be positive, got %d", c.MaxLayoutDepth))
	}
	return errors.Join(errs...)
}

// StoreSettings derives the store's collaborator settings.
func (c Config) StoreSettings() store.Settings {
	st := store.DefaultSettings()
	st.Timeout = c.FetchTimeout.Duration
	st.Retries = c.FetchRetries
	st.Backoff = c.FetchBackoff.Duration
	return st
}

// ClientSettings derives the HTTP client settings.
func (c Config) ClientSettings() client.Settings {
	cs := client.DefaultSettings()
	cs.RenderMajor = c.RenderMajor
	cs.MessageCacheSize = c.MessageCacheSize
	return cs
}
