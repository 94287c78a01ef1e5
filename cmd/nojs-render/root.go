package main

import (
	goflag "flag"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-render/config"
)

var (
	configPath string
	cfg        = config.Default()
)

var rootCmd = &cobra.Command{
	Use:           "nojs-render",
	Short:         "Serve, render and inspect render runtime payloads",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return nil
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		// Flags given on the command line win over the file.
		applyFlags(cmd, &loaded)
		cfg = loaded
		return nil
	},
}

func init() {
	// glog registers on the standard flag set; log to stderr unless told
	// otherwise.
	_ = goflag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&cfg.RuntimeFile, "runtime", cfg.RuntimeFile, "Path to the site or runtime JSON file")
	rootCmd.PersistentFlags().BoolVar(&cfg.Production, "production", cfg.Production, "Serve and render in production mode")
}

// applyFlags copies the explicitly set flags of cmd over loaded.
func applyFlags(cmd *cobra.Command, loaded *config.Config) {
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("runtime", func() { loaded.RuntimeFile = cfg.RuntimeFile })
	set("production", func() { loaded.Production = cfg.Production })
	set("addr", func() { loaded.Addr = cfg.Addr })
	set("page", func() { loaded.Page = cfg.Page })
	set("base-url", func() { loaded.BaseURL = cfg.BaseURL })
	set("push-url", func() { loaded.PushURL = cfg.PushURL })
	set("prefs", func() { loaded.PrefsPath = cfg.PrefsPath })
}
