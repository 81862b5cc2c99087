// Package main is the entry point for the propsheet command, which loads a
// property catalog and lets you search, edit and reconfigure its properties.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/propsheet/internal/catalog"
	"github.com/dshills/propsheet/internal/property"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const appName = "propsheet"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the global flags.
type options struct {
	catalogPath string
	logLevel    string
	logOutput   io.Writer
}

func rootCmd() *cobra.Command {
	opts := &options{logOutput: os.Stderr}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Inspect and edit configurable property catalogs",
		Long: `Propsheet loads a property catalog (TOML or YAML) describing pages of
configurable properties, the conditions that show or hide them and the
configuration dimensions they can vary by.

Without --catalog the embedded default catalog is used.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.catalogPath, "catalog", "c", "", "Catalog file (.toml, .yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		listCmd(opts),
		searchCmd(opts),
		varyCmd(opts),
		singleCmd(opts),
		commandsCmd(opts),
		profilesCmd(opts),
		watchCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (commit: %s, built: %s)\n", appName, version, commit, date)
			},
		},
	)

	return cmd
}

// logger builds the slog logger selected by --log-level.
func (o *options) logger() *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(o.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(o.logOutput, &slog.HandlerOptions{Level: level}))
}

// source returns the catalog source for the global flags.
func (o *options) source(logger *slog.Logger) *catalog.Source {
	return catalog.NewSource(o.catalogPath, nil, property.WithLogger(logger))
}

// load builds the catalog's property context.
func (o *options) load(ctx context.Context) (*property.Context, error) {
	pctx, err := o.source(o.logger()).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return pctx, nil
}
