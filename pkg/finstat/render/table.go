package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/finstat/pkg/finstat/types"
)

// TableRenderer prints each section as a go-pretty table.
type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, rep types.Report, opts RenderOptions) error {
	var blocks []func()
	if opts.Prices {
		blocks = append(blocks, func() { r.prices(w, rep, opts) })
	}
	if opts.Income {
		blocks = append(blocks, func() { r.income(w, rep, opts) })
	}
	if opts.Metrics {
		blocks = append(blocks, func() { r.metrics(w, rep, opts) })
	}
	for i, b := range blocks {
		b()
		if i < len(blocks)-1 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func (r *TableRenderer) newWriter(w io.Writer, title string, opts RenderOptions) table.Writer {
	if opts.Color {
		fmt.Fprintln(w, text.Bold.Sprint(title))
	} else {
		fmt.Fprintln(w, title)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	if opts.MaxWidth > 0 {
		tw.SetAllowedRowLength(opts.MaxWidth)
	}
	return tw
}

func (r *TableRenderer) prices(w io.Writer, rep types.Report, opts RenderOptions) {
	tw := r.newWriter(w, "PRICES", opts)
	tw.AppendHeader(table.Row{"Ticker", "Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"})
	tw.SetColumnConfigs(rightAligned("Open", "High", "Low", "Close", "Adj Close", "Volume"))
	for _, p := range tail(rep.Prices, opts.PriceTail) {
		tw.AppendRow(table.Row{
			p.Ticker, p.Date,
			price(p.Open), price(p.High), price(p.Low), price(p.Close), price(p.AdjClose),
			humanize.Comma(p.Volume),
		})
	}
	tw.Render()
}

func (r *TableRenderer) income(w io.Writer, rep types.Report, opts RenderOptions) {
	tw := r.newWriter(w, "INCOME STATEMENT (QUARTERLY)", opts)
	tw.AppendHeader(table.Row{"Ticker", "Period", "Item", "Value"})
	tw.SetColumnConfigs(rightAligned("Value"))
	for _, f := range rep.Statements {
		tw.AppendRow(table.Row{f.Ticker, f.Period, f.Item, amount(f.Value)})
	}
	tw.Render()
}

func (r *TableRenderer) metrics(w io.Writer, rep types.Report, opts RenderOptions) {
	title := fmt.Sprintf("METRICS (risk-free %s, %s to %s)",
		strings.TrimSuffix(fmt.Sprintf("%.2f", rep.RiskFreeRate*100), ".00")+"%",
		rep.Window.From.Format("2006-01-02"), rep.Window.To.Format("2006-01-02"))
	tw := r.newWriter(w, title, opts)

	hdr := table.Row{"Ticker", "Obs"}
	names := []string{"Obs"}
	for _, c := range opts.Columns {
		hdr = append(hdr, c.Name)
		names = append(names, c.Name)
	}
	tw.AppendHeader(hdr)
	tw.SetColumnConfigs(rightAligned(names...))

	for _, m := range rep.Metrics {
		row := table.Row{m.Ticker, m.Observations}
		for _, c := range opts.Columns {
			v, err := c.Render(m)
			if err != nil {
				v = "n/a"
				if opts.Color {
					v = text.FgRed.Sprint(v)
				}
			} else if opts.Color && strings.HasPrefix(v, "-") {
				v = text.FgRed.Sprint(v)
			}
			row = append(row, v)
		}
		tw.AppendRow(row)
	}
	tw.Render()

	// undefined metrics are explained below the table
	for _, m := range rep.Metrics {
		for _, c := range opts.Columns {
			if m.Err(c.Key) != nil {
				fmt.Fprintln(w, MetricLine(c, m))
			}
		}
	}
}

func rightAligned(names ...string) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, 0, len(names))
	for _, n := range names {
		cfgs = append(cfgs, table.ColumnConfig{Name: n, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	return cfgs
}

func price(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

// amount renders statement values with thousands separators and no decimals.
func amount(v float64) string {
	return humanize.Commaf(float64(int64(v)))
}
