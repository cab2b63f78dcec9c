package render

import (
	"fmt"
	"io"

	"github.com/komsit37/finstat/pkg/finstat/columns"
	"github.com/komsit37/finstat/pkg/finstat/types"
)

// Renderer writes a report to an output writer.
type Renderer interface {
	Render(w io.Writer, rep types.Report, opts RenderOptions) error
}

// RenderOptions control what is shown. Sections that are not listed are
// skipped.
type RenderOptions struct {
	Columns   []columns.Column
	Prices    bool
	Income    bool
	Metrics   bool
	PriceTail int // rows per ticker in table/text output; 0 shows all
	Pretty    bool
	Color     bool
	MaxWidth  int // terminal width hint for tables; 0 means unbounded
}

// New returns the renderer for a format name.
func New(format string) (Renderer, error) {
	switch format {
	case "table":
		return NewTableRenderer(), nil
	case "text":
		return NewTextRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "yaml":
		return NewYAMLRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (allowed: table, text, json, yaml)", format)
	}
}

// tail keeps the last n rows of each ticker, preserving order.
func tail(rows []types.PriceRow, n int) []types.PriceRow {
	if n <= 0 {
		return rows
	}
	count := map[types.Ticker]int{}
	for _, r := range rows {
		count[r.Ticker]++
	}
	seen := map[types.Ticker]int{}
	out := make([]types.PriceRow, 0, len(rows))
	for _, r := range rows {
		seen[r.Ticker]++
		if count[r.Ticker]-seen[r.Ticker] < n {
			out = append(out, r)
		}
	}
	return out
}

// MetricLine is the sentence form "<Metric> for <TICKER> is <value>".
func MetricLine(c columns.Column, m types.Metrics) string {
	v, err := c.Render(m)
	if err != nil {
		return fmt.Sprintf("%s for %s is undefined: %v", c.Name, m.Ticker, err)
	}
	return fmt.Sprintf("%s for %s is %s", c.Name, m.Ticker, v)
}
