package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-render/appcomponents"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/server"
)

var renderPath string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the server-rendered HTML of a page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderPage(cmd.OutOrStdout(), cfg.RuntimeFile, cfg.Page, renderPath, cfg.Production)
	},
}

func init() {
	renderCmd.Flags().StringVar(&cfg.Page, "page", cfg.Page, "Page name to render (defaults to the payload's page)")
	renderCmd.Flags().StringVar(&renderPath, "path", "", "URL path to route instead of --page")
	rootCmd.AddCommand(renderCmd)
}

// renderPage writes the document for page, or for the page routed from
// path when path is set.
func renderPage(w io.Writer, runtimeFile, page, path string, production bool) error {
	if runtimeFile == "" {
		return errors.New("--runtime is required")
	}
	site, err := server.LoadSite(runtimeFile)
	if err != nil {
		return err
	}
	payload, err := site.Runtime()
	if err != nil {
		return err
	}
	payload.Production = production
	switch {
	case path != "":
		u, err := url.Parse(path)
		if err != nil {
			return fmt.Errorf("parse --path: %w", err)
		}
		server.Route(&payload, u.Path, u.Query())
	case page != "":
		payload.Page = page
	}

	reg := registry.New()
	appcomponents.Register(reg)
	out, err := server.RenderPage(payload, reg)
	if err != nil {
		return err
	}
	if !out.Found {
		return fmt.Errorf("page %q has no extension", out.Page)
	}
	_, err = io.WriteString(w, out.Document)
	return err
}
