// Package main is the pdftools CLI. It runs the same document tools as the
// HTTP server against local files.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// settings bound to flags, the config file and PDFTOOLS_* variables.
var persistentSettings = []string{
	"log-level",
	"log-format",
	"text-extractor",
	"chrome-path",
	"browser-auto-download",
	"convert-timeout",
	"disabled-tools",
	"max-files",
}

type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:     "pdftools",
		Short:   "Merge, split, compress, watermark, protect and convert PDF files",
		Version: version,
		Long: `pdftools runs the PDF tool suite on local files. Every tool reads its
input from disk and writes the result next to the working directory unless
--output is given. Use --output - to write the result to stdout.

Settings come from flags, then PDFTOOLS_* environment variables, then
pdftools.yaml in the working directory or ~/.config/pdftools/.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: ./pdftools.yaml or ~/.config/pdftools/pdftools.yaml)")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("text-extractor", "pure", "text extractor for conversions: pure or fitz")
	pf.String("chrome-path", "", "Chrome or Chromium binary used for HTML conversion")
	pf.Bool("browser-auto-download", false, "download a browser when none is found")
	pf.Duration("convert-timeout", 60*time.Second, "timeout for one HTML conversion")
	pf.StringSlice("disabled-tools", nil, "tool ids to switch off")
	pf.Int("max-files", 20, "maximum number of files in one merge")
	for _, name := range persistentSettings {
		_ = a.v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(
		a.mergeCmd(),
		a.splitCmd(),
		a.compressCmd(),
		a.watermarkCmd(),
		a.protectCmd(),
		a.convertCmd(),
		a.htmlCmd(),
		a.infoCmd(),
		a.toolsCmd(),
	)
	return root
}

func (a *app) initConfig(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName("pdftools")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "pdftools"))
		}
	}

	a.v.SetEnvPrefix("PDFTOOLS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", a.v.ConfigFileUsed())
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
