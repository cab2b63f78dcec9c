package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/komsit37/finstat/pkg/finstat/columns"
	"github.com/komsit37/finstat/pkg/finstat/config"
	"github.com/komsit37/finstat/pkg/finstat/filter"
	"github.com/komsit37/finstat/pkg/finstat/render"
	"github.com/komsit37/finstat/pkg/finstat/shape"
	"github.com/komsit37/finstat/pkg/finstat/source"
	"github.com/komsit37/finstat/pkg/finstat/stats"
	"github.com/komsit37/finstat/pkg/finstat/types"
)

// Runner wires the fetch, shape, analytics and render stages.
type Runner struct {
	Source   source.Source
	Renderer render.Renderer
	Writer   io.Writer
	Logger   zerolog.Logger
	Now      func() time.Time
}

// ExecuteOptions carry presentation settings that are not part of Config.
type ExecuteOptions struct {
	Color    bool
	MaxWidth int
}

// fetched is everything retrieved for one ticker.
type fetched struct {
	rows      []types.PriceRow
	statement types.Statement
}

// Execute runs one report for cfg. A fetch failure for any ticker aborts the
// run; metric failures are reported in the output.
func (r *Runner) Execute(ctx context.Context, cfg config.Config, opts ExecuteOptions) error {
	cols, err := columns.Resolve(cfg.Metrics)
	if err != nil {
		return err
	}
	rep, err := r.Build(ctx, cfg)
	if err != nil {
		return err
	}
	return r.Renderer.Render(r.Writer, rep, render.RenderOptions{
		Columns:   cols,
		Prices:    cfg.Section(config.SectionPrices),
		Income:    cfg.Section(config.SectionIncome),
		Metrics:   cfg.Section(config.SectionMetrics),
		PriceTail: cfg.PriceTail,
		Pretty:    cfg.Pretty,
		Color:     opts.Color,
		MaxWidth:  opts.MaxWidth,
	})
}

// Build fetches every ticker and assembles the report without rendering it.
func (r *Runner) Build(ctx context.Context, cfg config.Config) (types.Report, error) {
	items, err := filter.Parse(cfg.Items)
	if err != nil {
		return types.Report{}, err
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	from, to := cfg.Window(now())
	rep := types.Report{
		Tickers:      cfg.Tickers,
		Window:       types.Window{From: from, To: to},
		RiskFreeRate: cfg.RiskFreeRate,
	}

	results, err := r.fetchAll(ctx, cfg, from, to)
	if err != nil {
		return types.Report{}, err
	}

	sts := make([]types.Statement, 0, len(results))
	for _, res := range results {
		rep.Prices = append(rep.Prices, res.rows...)
		sts = append(sts, res.statement)
	}
	byTicker := shape.RowsByTicker(rep.Prices)

	facts, err := shape.Facts(shape.Merge(sts...))
	if err != nil {
		return types.Report{}, fmt.Errorf("shape income statements: %w", err)
	}
	for _, f := range facts {
		if items.Match(f.Item) {
			rep.Statements = append(rep.Statements, f)
		}
	}

	for _, t := range cfg.ReportTickers() {
		m := stats.Compute(t, byTicker[t], cfg.RiskFreeRate)
		for key, merr := range m.Errors {
			r.Logger.Warn().Str("ticker", t).Str("metric", key).Err(merr).Msg("metric undefined")
		}
		rep.Metrics = append(rep.Metrics, m)
	}
	return rep, nil
}

// fetchAll fetches prices and the income statement of every ticker, at most
// cfg.Concurrency (at least one) at a time. Results are indexed like
// cfg.Tickers. The first failure cancels the remaining fetches.
func (r *Runner) fetchAll(ctx context.Context, cfg config.Config, from, to time.Time) ([]fetched, error) {
	results := make([]fetched, len(cfg.Tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Concurrency, 1))
	for i, t := range cfg.Tickers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			chart, err := r.Source.Prices(gctx, t, from, to)
			if err != nil {
				return err
			}
			rows := shape.PriceRows(t, chart)
			if len(rows) == 0 {
				return &source.FetchError{Ticker: t, Op: source.OpPrices, Err: source.ErrNoAdjClose}
			}
			st, err := r.Source.IncomeStatement(gctx, t)
			if err != nil {
				return err
			}
			results[i] = fetched{rows: rows, statement: st}
			r.Logger.Info().
				Str("ticker", t).
				Int("prices", len(rows)).
				Str("first", rows[0].Date).
				Str("last", rows[len(rows)-1].Date).
				Dur("elapsed", time.Since(start)).
				Msg("fetched")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
