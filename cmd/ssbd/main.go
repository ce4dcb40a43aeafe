// Package main contains the cli implementation of the tool. It uses
// cobra for cli tool implementation.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ssb/internal/column"
	"ssb/internal/config"
	"ssb/internal/engine"
	"ssb/internal/load/mysql"
	"ssb/internal/query"
	"ssb/internal/telemetry"
)

type runFlags struct {
	configPath string
	queries    string
	format     string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "ssbd",
		Short: "In-memory Star Schema Benchmark query engine",
	}

	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <data-source>",
		Short: "Load a dataset and run the SSB queries against it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRun(args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to a ssbd.toml configuration file")
	cmd.Flags().StringVar(&flags.queries, "queries", "", "Comma-separated subset of queries to run (default: all)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: human or json")

	return cmd
}

func runRun(dataSource string, flags *runFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if dataSource != "" {
		cfg.DSN = dataSource
	}
	if flags.format != "" {
		cfg.Format = flags.format
	}
	if flags.queries != "" {
		cfg.Queries = strings.Split(flags.queries, ",")
	}
	if cfg.DSN == "" {
		return fmt.Errorf("a data source is required")
	}

	names := cfg.Queries
	if len(names) == 0 {
		names = query.Names()
	}

	ctx := context.Background()

	loader, err := mysql.Open(ctx, cfg.DSN)
	if err != nil {
		return fmt.Errorf("connecting to data source: %w", err)
	}
	defer func() {
		if err := loader.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close data source: %v\n", err)
		}
	}()

	store, err := loadStore(ctx, loader)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	emit, err := telemetry.NewEmitter(cfg.Format, os.Stderr, os.Stdout)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	e := engine.New(store, cfg.Workers, emit)
	return e.RunAll(ctx, names)
}

func loadStore(ctx context.Context, loader *mysql.Loader) (*column.Store, error) {
	store := &column.Store{}
	if err := mysql.LoadStore(ctx, loader, store); err != nil {
		return nil, err
	}
	return store, nil
}
