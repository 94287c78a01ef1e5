package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-render/appcomponents"
	"github.com/vcrobe/nojs-render/client"
	"github.com/vcrobe/nojs-render/config"
	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/dialogs"
	"github.com/vcrobe/nojs-render/editor"
	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/extension"
	"github.com/vcrobe/nojs-render/prefs"
	"github.com/vcrobe/nojs-render/push"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/router"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/vdom"
)

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Run a native runtime against a render server and print the page on every change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return follow(ctx, cmd.OutOrStdout(), cfg)
	},
}

func init() {
	followCmd.Flags().StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Render server URL")
	followCmd.Flags().StringVar(&cfg.PushURL, "push-url", cfg.PushURL, "Push channel URL (derived from --base-url when empty)")
	followCmd.Flags().StringVar(&cfg.Page, "page", cfg.Page, "Page to follow")
	followCmd.Flags().StringVar(&cfg.PrefsPath, "prefs", cfg.PrefsPath, "SQLite file recording the chosen locale")
	rootCmd.AddCommand(followCmd)
}

// pushURL derives the websocket URL of the push channel from the base URL.
func pushURL(c config.Config) (string, error) {
	if c.PushURL != "" {
		return c.PushURL, nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + client.Prefix(c.RenderMajor) + client.PushPath
	return u.String(), nil
}

// follow renders the page once, then again every time the runtime pushes a
// change, until ctx is done.
func follow(ctx context.Context, w io.Writer, c config.Config) error {
	if c.BaseURL == "" {
		return errors.New("--base-url is required")
	}
	cl, err := client.New(c.BaseURL, c.ClientSettings())
	if err != nil {
		return err
	}
	p, err := prefs.OpenSQLite(c.PrefsPath)
	if err != nil {
		return err
	}
	defer p.Close()

	locale, err := p.Locale(ctx)
	if err != nil && !errors.Is(err, prefs.ErrNotFound) {
		return err
	}
	initial, err := cl.FetchRuntime(ctx, store.RuntimeRequest{Page: c.Page, Production: c.Production, Locale: locale})
	if err != nil {
		return fmt.Errorf("fetch runtime: %w", err)
	}

	reg := registry.New()
	appcomponents.Register(reg)
	bus := events.NewEmitter()
	s, err := store.New(initial, store.Options{
		Backend:     cl,
		Emitter:     bus,
		Registry:    reg,
		Preferences: p,
		History:     router.NewMemoryHistory(router.Location{Path: "/"}),
		Settings:    c.StoreSettings(),
	})
	if err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer s.Close()

	env := &extension.Env{Store: s, Registry: reg, Editor: editor.New(s, cl, dialogs.Default), Catalog: cl}
	r := runtime.NewRenderer(nil, runtime.MounterFunc(func(tree *vdom.VNode) {
		html, err := vdom.HTMLString(tree)
		if err != nil {
			console.Error("[follow] serialise failed:", err)
			return
		}
		fmt.Fprintln(w, html)
	}))
	r.SetCurrentComponent(&extension.PageView{Env: env})
	r.RenderRoot()
	defer r.Unmount()

	target, err := pushURL(c)
	if err != nil {
		return err
	}
	pc := push.NewClient(ctx, target, bus, push.DefaultClientSettings())
	defer pc.Close()
	console.Log("[follow] following", s.Page(), "on", c.BaseURL)

	<-ctx.Done()
	return nil
}
