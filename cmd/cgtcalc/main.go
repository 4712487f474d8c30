package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/taxtools/cgtcalc/internal/calculate"
	"github.com/taxtools/cgtcalc/internal/config"
	"github.com/taxtools/cgtcalc/internal/ledger"
	"github.com/taxtools/cgtcalc/internal/report"
	"github.com/taxtools/cgtcalc/internal/worker"
)

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:  "cgtcalc",
		Usage: "compute UK capital gains tax figures from a typed event ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ledger",
				Aliases:  []string{"l"},
				Usage:    "path to the JSON ledger file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "base-currency",
				Usage: "reporting currency",
				Value: cfg.BaseCurrency,
			},
			&cli.BoolFlag{Name: "equities", Usage: "include equity trades", Value: cfg.IncludeEquities},
			&cli.BoolFlag{Name: "options", Usage: "include option trades", Value: cfg.IncludeOptions},
			&cli.BoolFlag{Name: "futures", Usage: "include futures trades", Value: cfg.IncludeFutures},
			&cli.BoolFlag{Name: "fx", Usage: "include currency trades", Value: cfg.IncludeFX},
			&cli.BoolFlag{Name: "watch", Usage: "re-run whenever the ledger file changes"},
			&cli.DurationFlag{Name: "interval", Usage: "watch poll interval", Value: cfg.WatchInterval},
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	r := &runner{
		path: c.String("ledger"),
		base: c.String("base-currency"),
		filter: ledger.TypeFilter{
			ledger.Equity:   c.Bool("equities"),
			ledger.Option:   c.Bool("options"),
			ledger.Future:   c.Bool("futures"),
			ledger.Currency: c.Bool("fx"),
		},
	}

	if !c.Bool("watch") {
		return r.Recalculate(c.Context)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	worker.NewRecalcWorker(r, c.Duration("interval")).Run(ctx)
	return nil
}

// runner loads the ledger file, runs the pipeline and renders the report. In
// watch mode it skips passes where the file has not changed since the last
// successful run.
type runner struct {
	path    string
	base    string
	filter  ledger.TypeFilter
	lastMod time.Time
}

func (r *runner) Recalculate(_ context.Context) error {
	info, err := os.Stat(r.path)
	if err != nil {
		return fmt.Errorf("checking ledger: %w", err)
	}
	if !r.lastMod.IsZero() && !info.ModTime().After(r.lastMod) {
		slog.Debug("ledger unchanged, skipping", "path", r.path)
		return nil
	}

	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	l, base, err := ledger.DecodeLedger(f, r.base)
	if err != nil {
		return err
	}
	slog.Info("ledger loaded", "path", r.path, "events", l.Len(), "baseCurrency", base)

	res, err := calculate.NewPipeline(base).Run(l, r.filter)
	if err != nil {
		return err
	}
	if err := report.Render(os.Stdout, res); err != nil {
		return err
	}

	r.lastMod = info.ModTime()
	return nil
}
