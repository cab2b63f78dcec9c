package columns

import (
	"fmt"
	"strconv"

	"github.com/komsit37/finstat/pkg/finstat/stats"
	"github.com/komsit37/finstat/pkg/finstat/types"
)

// Column describes one metric as rendered in reports.
type Column struct {
	Key    string
	Name   string // human name used in headers and "<Name> for <TICKER>" lines
	Value  func(types.Metrics) float64
	Format func(float64) string
}

// Registry maps metric keys to columns.
var Registry = map[string]Column{
	stats.KeyCAGR: {
		Key:    stats.KeyCAGR,
		Name:   "CAGR",
		Value:  func(m types.Metrics) float64 { return m.CAGR },
		Format: Percent,
	},
	stats.KeyVolatility: {
		Key:    stats.KeyVolatility,
		Name:   "Annualized Volatility",
		Value:  func(m types.Metrics) float64 { return m.Volatility },
		Format: Percent,
	},
	stats.KeyDownsideVolatility: {
		Key:    stats.KeyDownsideVolatility,
		Name:   "Downside Volatility",
		Value:  func(m types.Metrics) float64 { return m.DownsideVolatility },
		Format: Percent,
	},
	stats.KeySharpe: {
		Key:    stats.KeySharpe,
		Name:   "Sharpe",
		Value:  func(m types.Metrics) float64 { return m.Sharpe },
		Format: Significant,
	},
	stats.KeySortino: {
		Key:    stats.KeySortino,
		Name:   "Sortino",
		Value:  func(m types.Metrics) float64 { return m.Sortino },
		Format: Significant,
	},
}

// Render formats the metric for m, or returns the reason it is undefined.
func (c Column) Render(m types.Metrics) (string, error) {
	if err := m.Err(c.Key); err != nil {
		return "", err
	}
	return c.Format(c.Value(m)), nil
}

// Percent renders a fraction as a percentage with three decimals: 0.1234 -> "12.340%".
func Percent(v float64) string {
	return fmt.Sprintf("%.3f%%", v*100)
}

// Significant renders three significant digits: 1.23456 -> "1.23".
func Significant(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}

// Resolve expands set names and metric keys into columns, in order and
// without duplicates.
func Resolve(names []string) ([]Column, error) {
	keys, err := ExpandSets(names)
	if err != nil {
		return nil, err
	}
	out := make([]Column, 0, len(keys))
	for _, k := range keys {
		out = append(out, Registry[k])
	}
	return out, nil
}
