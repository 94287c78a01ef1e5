package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-render/appcomponents"
	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/push"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dev server for a site file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RuntimeFile == "" {
			return errors.New("--runtime is required")
		}
		site, err := server.LoadSite(cfg.RuntimeFile)
		if err != nil {
			return err
		}
		reg := registry.New()
		appcomponents.Register(reg)
		hub := push.NewHub()
		srv := &http.Server{
			Addr: cfg.Addr,
			Handler: server.New(site, server.Options{
				Registry:    reg,
				Hub:         hub,
				RenderMajor: cfg.RenderMajor,
				Production:  cfg.Production,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		errs := make(chan error, 1)
		go func() { errs <- srv.ListenAndServe() }()
		console.Log("[serve] listening on", cfg.Addr, "production:", cfg.Production)

		select {
		case err := <-errs:
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}
		hub.DisconnectAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	rootCmd.AddCommand(serveCmd)
}
