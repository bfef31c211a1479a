package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/johndauphine/datanorm/internal/config"
	"github.com/johndauphine/datanorm/internal/history"
	"github.com/johndauphine/datanorm/internal/loader"
	"github.com/johndauphine/datanorm/internal/logging"
	"github.com/johndauphine/datanorm/internal/pipeline"
	"github.com/johndauphine/datanorm/internal/util"
	"github.com/johndauphine/datanorm/internal/version"
	"github.com/johndauphine/datanorm/internal/writer"
)

func main() {
	app := &cli.App{
		Name:    version.Name,
		Usage:   version.Description,
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Normalize the input dataset and write the result",
				Action: runNormalization,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "input",
						Usage: "Input CSV path (overrides config)",
					},
					&cli.StringFlag{
						Name:  "table",
						Usage: "Base table name (overrides config)",
					},
					&cli.StringFlag{
						Name:  "engine",
						Usage: "Output engine: sqlite, postgres, mssql, csv (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Abort when validation errors are found",
					},
					&cli.StringFlag{
						Name:  "null-strategy",
						Usage: "Per-column null strategies, e.g. qty=median,city=mode (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Disable the discovery progress bar",
					},
				},
			},
			{
				Name:   "inspect",
				Usage:  "Load the input and report inferred column types",
				Action: inspectInput,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "input",
						Usage: "Input CSV path (overrides config)",
					},
				},
			},
			{
				Name:  "history",
				Usage: "List recorded runs, or view details of a specific run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "run",
						Usage: "Show details for a specific run ID",
					},
				},
				Action: showHistory,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if c.IsSet("input") {
		cfg.Input.Path = c.String("input")
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logging.SetLevel(level)
	logging.SetFormat(cfg.Log.Format)
	return cfg, nil
}

func runNormalization(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	if c.IsSet("table") {
		cfg.Input.Table = c.String("table")
	}
	if c.IsSet("engine") {
		cfg.Output.Engine = c.String("engine")
	}
	if c.IsSet("strict") {
		cfg.Validation.Strict = c.Bool("strict")
	}
	if c.IsSet("null-strategy") {
		overrides, err := parseNullStrategies(c.String("null-strategy"))
		if err != nil {
			return err
		}
		if cfg.NullStrategy == nil {
			cfg.NullStrategy = make(map[string]string, len(overrides))
		}
		for col, strategy := range overrides {
			cfg.NullStrategy[col] = strategy
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted.")
		cancel()
	}()

	ds, err := loader.CSV(cfg.Input.Path)
	if err != nil {
		return err
	}

	res, err := pipeline.Process(ds, cfg.Input.Table, pipeline.Options{
		ExpectedTypes: cfg.Validation.ExpectedTypes,
		Constraints:   cfg.Validation.Constraints,
		NullStrategy:  cfg.NullStrategy,
		Strict:        cfg.Validation.Strict,
		ShowProgress:  !c.Bool("no-progress"),
	})
	if err != nil {
		return err
	}

	w, err := writer.New(ctx, cfg.Output.Engine, cfg.Output.DSN, cfg.Output.Dir)
	if err != nil {
		return err
	}
	defer w.Close()

	indexes, err := w.Write(ctx, res.Tables, res.Relationships)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	res.Metrics.IndexesCreated = indexes

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveRun(cfg.Input.Table, res.Metrics); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Print(res.Metrics)
	return nil
}

// parseNullStrategies parses a comma-separated list of column=strategy
// pairs from the command line.
func parseNullStrategies(s string) (map[string]string, error) {
	pairs := util.SplitCSV(s)
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		col, strategy, ok := strings.Cut(pair, "=")
		col = strings.TrimSpace(col)
		strategy = strings.TrimSpace(strategy)
		if !ok || col == "" || strategy == "" {
			return nil, fmt.Errorf("invalid null-strategy entry %q, want column=strategy", pair)
		}
		out[col] = strategy
	}
	return out, nil
}

func showHistory(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("history.path is not configured")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if runID := c.String("run"); runID != "" {
		r, err := store.GetRun(runID)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s\n", r.ID)
		fmt.Printf("  Table:                %s\n", r.Table)
		fmt.Printf("  Started:              %s\n", r.StartedAt.Format(time.RFC3339))
		fmt.Printf("  Normalized tables:    %d\n", r.NormalizedTables)
		fmt.Printf("  Columns:              %d -> %d\n", r.OriginalColumns, r.NormalizedColumns)
		fmt.Printf("  Nulls handled:        %d\n", r.NullsHandled)
		fmt.Printf("  Relationships:        %d\n", r.Relationships)
		fmt.Printf("  Indexes created:      %d\n", r.IndexesCreated)
		fmt.Printf("  Redundancy reduction: %.2f%%\n", r.RedundancyReduction)
		fmt.Printf("  Processing time:      %s\n", r.ProcessingTime)
		for _, e := range r.ValidationErrors {
			fmt.Printf("  Validation error:     %s\n", e)
		}
		return nil
	}

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	fmt.Printf("%-36s %-20s %-16s %6s %9s\n", "RUN", "STARTED", "TABLE", "TABLES", "REDUCTION")
	for _, r := range runs {
		fmt.Printf("%-36s %-20s %-16s %6d %8.2f%%\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Table,
			r.NormalizedTables, r.RedundancyReduction)
	}
	return nil
}

func inspectInput(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	ds, err := loader.CSV(cfg.Input.Path)
	if err != nil {
		return err
	}

	fmt.Printf("%-24s %-10s %8s %8s %8s\n", "COLUMN", "TYPE", "ROWS", "NULLS", "DISTINCT")
	for _, col := range ds.Columns() {
		fmt.Printf("%-24s %-10s %8d %8d %8d\n",
			col.Name, col.Kind, col.Len(), col.NullCount(), col.DistinctCount())
	}
	return nil
}
