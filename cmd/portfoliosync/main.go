package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/portfoliosync/internal/benchmark"
	"github.com/mtlprog/portfoliosync/internal/config"
	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/export"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := newApp(&cfg, stop).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(cfg *config.Config, stop context.CancelFunc) *cli.App {
	return &cli.App{
		Name:  "portfoliosync",
		Usage: "portfolio analytics for stocks, ETFs and property",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Usage: "data mode: mock or live", Value: string(cfg.DataMode)},
			&cli.StringFlag{Name: "scenario", Usage: "mock scenario", Value: cfg.Scenario},
			&cli.StringFlag{Name: "portfolio", Aliases: []string{"p"}, Usage: "portfolio id", Value: cfg.PortfolioID},
		},
		Before: func(c *cli.Context) error {
			switch m := config.DataMode(c.String("mode")); m {
			case config.DataModeMock, config.DataModeLive:
				cfg.DataMode = m
			default:
				return fmt.Errorf("unknown mode %q", c.String("mode"))
			}
			cfg.Scenario = c.String("scenario")
			cfg.PortfolioID = c.String("portfolio")
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API and background workers",
				Action: func(c *cli.Context) error {
					return serve(c.Context, *cfg, stop)
				},
			},
			{
				Name:  "report",
				Usage: "print the portfolio report as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "benchmark", Aliases: []string{"b"}, Usage: "benchmark symbol, suggested when empty"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c.Context, *cfg, func(a *application) error {
						rep, err := a.reports.Build(c.Context, cfg.PortfolioID, c.String("benchmark"))
						if err != nil {
							return err
						}
						return printJSON(c.App.Writer, rep)
					})
				},
			},
			{
				Name:  "export",
				Usage: "export holdings to a file or stdout",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Value: string(export.KindAll), Usage: "stocks, etfs, properties or all"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(export.FormatJSON), Usage: "csv, json, xlsx or txt"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path; defaults to the generated filename, - for stdout"},
					&cli.BoolFlag{Name: "bom", Usage: "prefix CSV output with a UTF-8 byte order mark"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c.Context, *cfg, func(a *application) error {
						return runExport(c, a, cfg.PortfolioID)
					})
				},
			},
			{
				Name:  "benchmarks",
				Usage: "list benchmark indices and their key period returns",
				Action: func(c *cli.Context) error {
					return withApp(c.Context, *cfg, func(a *application) error {
						if a.feed != nil {
							a.feed.Refresh(c.Context)
						}
						return printBenchmarks(c.App.Writer, a.comparator.Registry(), a.source)
					})
				},
			},
			{
				Name:  "quotes",
				Usage: "refresh stock and ETF quotes from the market feed (live mode)",
				Action: func(c *cli.Context) error {
					return withApp(c.Context, *cfg, func(a *application) error {
						if a.quotes == nil {
							return errors.New("quotes require live mode")
						}
						if err := a.quotes.FetchAndStoreQuotes(c.Context); err != nil {
							return err
						}
						quotes, err := a.quotes.Quotes(c.Context)
						if err != nil {
							return err
						}
						for _, q := range quotes {
							fmt.Fprintf(c.App.Writer, "%-10s %-12s %12s %s\n", q.Symbol, q.Ticker, q.Price.StringFixed(2), q.AsOf.Format(time.DateOnly))
						}
						return nil
					})
				},
			},
			{
				Name:  "tags",
				Usage: "list active tags",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "filter by category"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c.Context, *cfg, func(a *application) error {
						var (
							tags []domain.Tag
							err  error
						)
						if cat := c.String("category"); cat != "" {
							tags, err = a.tags.ListByCategory(c.Context, domain.TagCategory(cat))
						} else {
							tags, err = a.tags.List(c.Context)
						}
						if err != nil {
							return err
						}
						for _, t := range tags {
							fmt.Fprintf(c.App.Writer, "%-20s %-10s %s\n", t.ID, t.Category, t.Name)
						}
						return nil
					})
				},
			},
		},
	}
}

func withApp(ctx context.Context, cfg config.Config, fn func(*application) error) error {
	a, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func runExport(c *cli.Context, a *application, portfolioID string) error {
	kind, err := export.ParseKind(c.String("kind"))
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	if err := export.Check(format, kind); err != nil {
		return err
	}
	h, warnings, err := a.reports.Holdings(c.Context, portfolioID)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(c.App.ErrWriter, "warning:", w)
	}

	now := time.Now()
	out := c.String("out")
	if out == "" {
		out = export.Filename(kind, format, now)
	}
	var w io.Writer = c.App.Writer
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Render(w, format, kind, h, now, export.Options{BOM: c.Bool("bom")}); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintln(c.App.ErrWriter, "wrote", out)
	}
	return nil
}

func printBenchmarks(w io.Writer, registry *benchmark.Registry, source benchmark.ReturnSource) error {
	for _, idx := range registry.Indices() {
		fmt.Fprintf(w, "%-8s %-28s %s\n", idx.Symbol, idx.Name, idx.Country)
		for _, p := range benchmark.KeyPeriods {
			if r, ok := source.BenchmarkReturn(idx.Symbol, p); ok {
				fmt.Fprintf(w, "    %-10s %8s%%\n", p.Label(), r.StringFixed(2))
			} else {
				fmt.Fprintf(w, "    %-10s %9s\n", p.Label(), "n/a")
			}
		}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func migrations() (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations")
}
