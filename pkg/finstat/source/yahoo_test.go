package source

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	yfgo "github.com/komsit37/yf-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/finstat/pkg/finstat/types"
)

// fakeAPI implements yfgo.API from canned values.
type fakeAPI struct {
	chart     yfgo.ChartResult
	chartErr  error
	summary   any
	sumErr    error
	gotOpts   yfgo.ChartOptions
	gotMods   []yfgo.QuoteSummaryModule
	gotSymbol string
}

func (f *fakeAPI) QuoteSummary(_ context.Context, symbol string, modules []yfgo.QuoteSummaryModule) (any, error) {
	f.gotSymbol, f.gotMods = symbol, modules
	return f.summary, f.sumErr
}

func (f *fakeAPI) QuoteSummaryTyped(context.Context, string, []yfgo.QuoteSummaryModule) (yfgo.QuoteSummaryTyped, error) {
	return yfgo.QuoteSummaryTyped{}, errors.New("not used")
}

func (f *fakeAPI) Quote(context.Context, []string) ([]yfgo.Quote, error) {
	return nil, errors.New("not used")
}

func (f *fakeAPI) Chart(context.Context, string, yfgo.ChartOptions) (any, error) {
	return nil, errors.New("not used")
}

func (f *fakeAPI) ChartTyped(_ context.Context, symbol string, opts yfgo.ChartOptions) (yfgo.ChartResult, error) {
	f.gotSymbol, f.gotOpts = symbol, opts
	return f.chart, f.chartErr
}

const summaryJSON = `{
  "incomeStatementHistoryQuarterly": {
    "maxAge": 86400,
    "incomeStatementHistory": [
      {
        "maxAge": 1,
        "endDate": {"raw": 1703980800, "fmt": "2023-12-31"},
        "totalRevenue": {"raw": 119575000000, "fmt": "119.58B"},
        "netIncome": {"raw": 33916000000, "fmt": "33.92B"},
        "minorityInterest": {}
      },
      {
        "maxAge": 1,
        "endDate": {"raw": 1696032000},
        "totalRevenue": {"raw": 89498000000, "fmt": "89.5B"}
      }
    ]
  }
}`

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestIncomeStatement(t *testing.T) {
	api := &fakeAPI{summary: decode(t, summaryJSON)}
	src := NewYahooSource(api, time.Second, zerolog.Nop())

	st, err := src.IncomeStatement(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, []yfgo.QuoteSummaryModule{yfgo.ModuleIncomeStatementHistoryQtr}, api.gotMods)

	want := types.Statement{"AAPL": []any{
		map[string]any{"2023-12-31": map[string]any{"totalRevenue": 119575000000.0, "netIncome": 33916000000.0}},
		map[string]any{"2023-09-30": map[string]any{"totalRevenue": 89498000000.0}},
	}}
	assert.Equal(t, want, st)
}

func TestIncomeStatementEmpty(t *testing.T) {
	api := &fakeAPI{summary: decode(t, `{"incomeStatementHistoryQuarterly": {"incomeStatementHistory": []}}`)}
	src := NewYahooSource(api, time.Second, zerolog.Nop())

	_, err := src.IncomeStatement(context.Background(), "NOPE")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "NOPE", fe.Ticker)
	assert.Equal(t, OpIncomeStatement, fe.Op)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestIncomeStatementProviderError(t *testing.T) {
	boom := errors.New("yahoo finance error: 404 Not Found")
	src := NewYahooSource(&fakeAPI{sumErr: boom}, 0, zerolog.Nop())

	_, err := src.IncomeStatement(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, boom)
}

func TestPrices(t *testing.T) {
	v := 1.0
	api := &fakeAPI{chart: yfgo.ChartResult{
		Timestamp: []int64{1704205800},
		Indicators: yfgo.ChartIndicators{
			AdjClose: []yfgo.ChartAdjCloseSeries{{AdjClose: []*float64{&v}}},
		},
	}}
	src := NewYahooSource(api, time.Second, zerolog.Nop())
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	res, err := src.Prices(context.Background(), "MSFT", from, to)
	require.NoError(t, err)
	assert.Len(t, res.Timestamp, 1)
	assert.Equal(t, "MSFT", api.gotSymbol)
	assert.Equal(t, "1d", api.gotOpts.Interval)
	require.NotNil(t, api.gotOpts.Period1)
	require.NotNil(t, api.gotOpts.Period2)
	assert.Equal(t, from.Unix(), *api.gotOpts.Period1)
	assert.Equal(t, to.Unix(), *api.gotOpts.Period2)
	assert.Empty(t, api.gotOpts.Range)
}

func TestPricesFailures(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		api  *fakeAPI
		want error
	}{
		{"empty history", &fakeAPI{}, ErrNoData},
		{"no adjclose", &fakeAPI{chart: yfgo.ChartResult{Timestamp: []int64{1}}}, ErrNoAdjClose},
		{"provider", &fakeAPI{chartErr: errors.New("chart error: No data found, symbol may be delisted")}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := NewYahooSource(tc.api, time.Second, zerolog.Nop())
			_, err := src.Prices(context.Background(), "GONE", now.AddDate(0, 0, -5), now)
			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, OpPrices, fe.Op)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}
