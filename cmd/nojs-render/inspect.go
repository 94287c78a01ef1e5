package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <jsonpath>",
	Short: "Print the values of a runtime file matching a JSONPath",
	Example: `  nojs-render inspect --runtime site.json '$.runtime.extensions["store/home"].component'
  nojs-render inspect --runtime runtime.json '$.pages.*.path'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(cmd.OutOrStdout(), cfg.RuntimeFile, args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// inspect prints one JSON line per match of selector.
func inspect(w io.Writer, runtimeFile, selector string) error {
	if runtimeFile == "" {
		return errors.New("--runtime is required")
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	b, err := os.ReadFile(runtimeFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", runtimeFile, err)
	}
	root, err := oj.Parse(b)
	if err != nil {
		return fmt.Errorf("parse %s: %w", runtimeFile, err)
	}
	for _, v := range x.Get(root) {
		line, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(line)); err != nil {
			return err
		}
	}
	return nil
}
