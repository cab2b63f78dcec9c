package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/komsit37/finstat/pkg/finstat/columns"
	"github.com/komsit37/finstat/pkg/finstat/stats"
	"github.com/komsit37/finstat/pkg/finstat/types"
)

func sampleReport() types.Report {
	return types.Report{
		Tickers:      []string{"AAPL", "FLAT"},
		Window:       types.Window{From: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		RiskFreeRate: 0.03,
		Prices: []types.PriceRow{
			{Ticker: "AAPL", Date: "2024-12-30", AdjClose: 252.2, Close: 252.2, Volume: 35557500},
			{Ticker: "AAPL", Date: "2024-12-31", AdjClose: 250.42, Close: 250.42, Volume: 39480700},
			{Ticker: "FLAT", Date: "2024-12-31", AdjClose: 10, Close: 10, Volume: 1},
		},
		Statements: []types.IncomeStatementFact{
			{Ticker: "AAPL", Period: "2024-09-28", Item: "Total Revenue", Value: 94930000000},
		},
		Metrics: []types.Metrics{
			{Ticker: "AAPL", Observations: 1257, CAGR: 0.2512, Volatility: 0.28, Sharpe: 0.79, Errors: map[string]error{}},
			{Ticker: "FLAT", Observations: 3, Errors: map[string]error{
				stats.KeySharpe: &stats.DivisionByZeroError{Metric: stats.KeySharpe, Reason: "zero volatility"},
			}},
		},
	}
}

func allOpts(t *testing.T, metrics ...string) RenderOptions {
	t.Helper()
	cols, err := columns.Resolve(metrics)
	require.NoError(t, err)
	return RenderOptions{Columns: cols, Prices: true, Income: true, Metrics: true}
}

func TestTail(t *testing.T) {
	rows := sampleReport().Prices
	got := tail(rows, 1)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-12-31", got[0].Date)
	assert.Equal(t, "FLAT", got[1].Ticker)
	assert.Len(t, tail(rows, 0), 3)
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer().Render(&buf, sampleReport(), allOpts(t, "cagr", "sharpe")))
	out := buf.String()

	assert.Contains(t, out, "CAGR for AAPL is 25.120%\n")
	assert.Contains(t, out, "Sharpe for AAPL is 0.79\n")
	assert.Contains(t, out, "Sharpe for FLAT is undefined: sharpe: division by zero: zero volatility\n")
	assert.Contains(t, out, "Total Revenue")
	assert.Contains(t, out, "94930000000")
	assert.Contains(t, out, "250.42")
}

func TestTextRendererPlainTables(t *testing.T) {
	var buf bytes.Buffer
	opts := allOpts(t, "cagr")
	opts.Metrics = false
	require.NoError(t, NewTextRenderer().Render(&buf, sampleReport(), opts))
	out := buf.String()

	assert.Contains(t, out, "AdjClose")
	assert.Contains(t, out, "Period")
	assert.NotContains(t, out, "|")
	assert.NotContains(t, out, "\t")
	assert.NotContains(t, out, "+-")
	assert.True(t, strings.HasSuffix(out, "\n\n"))
}

func TestTextRendererMetricsOnly(t *testing.T) {
	var buf bytes.Buffer
	opts := allOpts(t, "cagr")
	opts.Prices, opts.Income = false, false
	require.NoError(t, NewTextRenderer().Render(&buf, sampleReport(), opts))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"CAGR for AAPL is 25.120%", "CAGR for FLAT is 0.000%"}, lines)
}

func TestTableRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableRenderer().Render(&buf, sampleReport(), allOpts(t, "all")))
	out := buf.String()

	assert.Contains(t, out, "PRICES")
	assert.Contains(t, out, "INCOME STATEMENT (QUARTERLY)")
	assert.Contains(t, out, "94,930,000,000")
	assert.Contains(t, out, "39,480,700")
	assert.Contains(t, out, "METRICS (risk-free 3%, 2020-01-01 to 2025-01-01)")
	assert.Contains(t, out, "25.120%")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "Sharpe for FLAT is undefined")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	opts := allOpts(t, "cagr", "sharpe")
	opts.Pretty = true
	require.NoError(t, NewJSONRenderer().Render(&buf, sampleReport(), opts))

	var got reportModel
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got.Prices, 3)
	require.Len(t, got.Metrics, 2)
	assert.InDelta(t, 0.2512, got.Metrics[0].Values["cagr"], 1e-12)
	assert.Empty(t, got.Metrics[0].Errors)
	assert.Contains(t, got.Metrics[1].Errors["sharpe"], "zero volatility")
	_, has := got.Metrics[1].Values["sharpe"]
	assert.False(t, has)
}

func TestYAMLRenderer(t *testing.T) {
	var buf bytes.Buffer
	opts := allOpts(t, "returns")
	opts.Prices = false
	require.NoError(t, NewYAMLRenderer().Render(&buf, sampleReport(), opts))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.NotContains(t, got, "prices")
	assert.Contains(t, got, "income_statement")
	assert.Contains(t, got, "metrics")
}

func TestNew(t *testing.T) {
	for _, f := range []string{"table", "text", "json", "yaml"} {
		r, err := New(f)
		require.NoError(t, err)
		assert.NotNil(t, r)
	}
	_, err := New("csv")
	assert.Error(t, err)
}
