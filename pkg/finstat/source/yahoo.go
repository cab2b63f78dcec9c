package source

import (
	"context"
	"encoding/json"
	"time"

	yfgo "github.com/komsit37/yf-go"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/komsit37/finstat/pkg/finstat/types"
)

// StatementModule is the quoteSummary module holding quarterly income
// statements, and the top-level key of its payload.
const StatementModule = yfgo.ModuleIncomeStatementHistoryQtr

// YahooSource implements Source using yf-go.
type YahooSource struct {
	api     yfgo.API
	timeout time.Duration
	log     zerolog.Logger
}

// NewYahooSource returns a source backed by a yf-go client with its response
// cache disabled. A nil api builds a fresh client.
func NewYahooSource(api yfgo.API, timeout time.Duration, log zerolog.Logger) *YahooSource {
	if api == nil {
		api = yfgo.NewClient(yfgo.WithCacheDisabled())
	}
	return &YahooSource{api: api, timeout: timeout, log: log}
}

// Prices requests daily bars with dividend/split adjusted closes for
// [from, to].
func (s *YahooSource) Prices(ctx context.Context, ticker types.Ticker, from, to time.Time) (yfgo.ChartResult, error) {
	p1, p2 := from.Unix(), to.Unix()
	prePost := false
	opts := yfgo.ChartOptions{
		Interval:       "1d",
		Period1:        &p1,
		Period2:        &p2,
		IncludePrePost: &prePost,
		Events:         "div|split",
		ReturnType:     "object",
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	res, err := s.api.ChartTyped(ctx, ticker, opts)
	if err != nil {
		return yfgo.ChartResult{}, &FetchError{Ticker: ticker, Op: OpPrices, Err: err}
	}
	if len(res.Timestamp) == 0 {
		return yfgo.ChartResult{}, &FetchError{Ticker: ticker, Op: OpPrices, Err: ErrNoData}
	}
	if len(res.Indicators.AdjClose) == 0 {
		return yfgo.ChartResult{}, &FetchError{Ticker: ticker, Op: OpPrices, Err: ErrNoAdjClose}
	}
	s.log.Debug().
		Str("ticker", ticker).
		Int("bars", len(res.Timestamp)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched price history")
	return res, nil
}

// IncomeStatement requests the quarterly income statement and reformats it
// into {ticker: [{period: {item: value}}, ...]}.
func (s *YahooSource) IncomeStatement(ctx context.Context, ticker types.Ticker) (types.Statement, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	raw, err := s.api.QuoteSummary(ctx, ticker, []yfgo.QuoteSummaryModule{StatementModule})
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Op: OpIncomeStatement, Err: err}
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Op: OpIncomeStatement, Err: err}
	}
	st, n := Reformat(ticker, b)
	if n == 0 {
		return nil, &FetchError{Ticker: ticker, Op: OpIncomeStatement, Err: ErrNoData}
	}
	s.log.Debug().
		Str("ticker", ticker).
		Int("statements", n).
		Dur("elapsed", time.Since(start)).
		Msg("fetched income statement")
	return st, nil
}

// Reformat converts a raw quoteSummary payload into the nested statement
// shape keyed by ticker. It returns the number of statements found.
// Period keys come from endDate.fmt; leaf values are the "raw" numbers.
func Reformat(ticker types.Ticker, payload []byte) (types.Statement, int) {
	hist := gjson.GetBytes(payload, string(StatementModule)+".incomeStatementHistory")
	periods := make([]any, 0)
	hist.ForEach(func(_, stmt gjson.Result) bool {
		period := stmt.Get("endDate.fmt").String()
		if period == "" {
			if ts := stmt.Get("endDate.raw"); ts.Exists() {
				period = time.Unix(ts.Int(), 0).UTC().Format("2006-01-02")
			}
		}
		if period == "" {
			return true
		}
		items := map[string]any{}
		stmt.ForEach(func(k, v gjson.Result) bool {
			name := k.String()
			if name == "endDate" || name == "maxAge" {
				return true
			}
			switch {
			case v.Type == gjson.Number:
				items[name] = v.Float()
			case v.Get("raw").Type == gjson.Number:
				items[name] = v.Get("raw").Float()
			}
			return true
		})
		periods = append(periods, map[string]any{period: items})
		return true
	})
	return types.Statement{ticker: periods}, len(periods)
}

func (s *YahooSource) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
