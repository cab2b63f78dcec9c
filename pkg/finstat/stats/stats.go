// Package stats computes return and risk statistics over a daily
// adjusted-close series.
package stats

import (
	"fmt"
	"math"

	"github.com/komsit37/finstat/pkg/finstat/types"
)

// TradingDays is the annualization factor for daily data.
const TradingDays = 252

// Metric keys shared with the column registry.
const (
	KeyCAGR               = "cagr"
	KeyVolatility         = "volatility"
	KeyDownsideVolatility = "downside_volatility"
	KeySharpe             = "sharpe"
	KeySortino            = "sortino"
)

// InsufficientDataError reports a series too short for a metric.
type InsufficientDataError struct {
	Metric string
	Need   int
	Got    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need at least %d observations, got %d", e.Metric, e.Need, e.Got)
}

// DivisionByZeroError reports a metric whose denominator is zero.
type DivisionByZeroError struct {
	Metric string
	Reason string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s: division by zero: %s", e.Metric, e.Reason)
}

// DailyReturns returns p[t]/p[t-1] - 1 for t >= 1.
func DailyReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, &InsufficientDataError{Metric: "daily return", Need: 2, Got: len(prices)}
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			return nil, &DivisionByZeroError{Metric: "daily return", Reason: fmt.Sprintf("zero price at index %d", i-1)}
		}
		out = append(out, prices[i]/prev-1)
	}
	return out, nil
}

// CAGR compounds the daily returns and annualizes over len(prices)
// observations.
func CAGR(prices []float64) (float64, error) {
	returns, err := DailyReturns(prices)
	if err != nil {
		return 0, relabel(err, KeyCAGR)
	}
	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}
	if growth <= 0 {
		return 0, &DivisionByZeroError{Metric: KeyCAGR, Reason: "non-positive cumulative growth"}
	}
	n := float64(len(prices))
	return math.Pow(growth, TradingDays/n) - 1, nil
}

// Volatility is the sample standard deviation of returns scaled by √252.
func Volatility(returns []float64) (float64, error) {
	sd, err := sampleStdDev(returns)
	if err != nil {
		return 0, relabel(err, KeyVolatility)
	}
	return sd * math.Sqrt(TradingDays), nil
}

// DownsideVolatility is Volatility over the strictly negative returns only.
// A series with no negative returns has zero downside volatility.
func DownsideVolatility(returns []float64) (float64, error) {
	neg := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < 0 {
			neg = append(neg, r)
		}
	}
	if len(neg) == 0 {
		return 0, nil
	}
	sd, err := sampleStdDev(neg)
	if err != nil {
		return 0, relabel(err, KeyDownsideVolatility)
	}
	return sd * math.Sqrt(TradingDays), nil
}

// Sharpe is (cagr - riskFree) / volatility.
func Sharpe(cagr, riskFree, volatility float64) (float64, error) {
	if volatility == 0 {
		return 0, &DivisionByZeroError{Metric: KeySharpe, Reason: "zero volatility"}
	}
	return (cagr - riskFree) / volatility, nil
}

// Sortino is (cagr - riskFree) / downside volatility.
func Sortino(cagr, riskFree, downside float64) (float64, error) {
	if downside == 0 {
		return 0, &DivisionByZeroError{Metric: KeySortino, Reason: "zero downside volatility"}
	}
	return (cagr - riskFree) / downside, nil
}

// Compute derives every metric for one ticker's rows. Rows must be ascending
// by date. Failures are recorded per metric; a metric that depends on a failed
// one inherits its error.
func Compute(ticker types.Ticker, rows []types.PriceRow, riskFree float64) types.Metrics {
	m := types.Metrics{Ticker: ticker, Observations: len(rows), Errors: map[string]error{}}
	prices := make([]float64, len(rows))
	for i, r := range rows {
		prices[i] = r.AdjClose
	}

	var err error
	if m.CAGR, err = CAGR(prices); err != nil {
		m.Errors[KeyCAGR] = err
	}

	returns, rerr := DailyReturns(prices)
	if rerr != nil {
		m.Errors[KeyVolatility] = relabel(rerr, KeyVolatility)
		m.Errors[KeyDownsideVolatility] = relabel(rerr, KeyDownsideVolatility)
	} else {
		if m.Volatility, err = Volatility(returns); err != nil {
			m.Errors[KeyVolatility] = err
		}
		if m.DownsideVolatility, err = DownsideVolatility(returns); err != nil {
			m.Errors[KeyDownsideVolatility] = err
		}
	}

	m.Sharpe, m.Errors[KeySharpe] = ratio(m, KeySharpe, KeyVolatility, riskFree, m.Volatility, Sharpe)
	m.Sortino, m.Errors[KeySortino] = ratio(m, KeySortino, KeyDownsideVolatility, riskFree, m.DownsideVolatility, Sortino)

	for k, e := range m.Errors {
		if e == nil {
			delete(m.Errors, k)
		}
	}
	return m
}

func ratio(m types.Metrics, key, denomKey string, riskFree, denom float64, fn func(float64, float64, float64) (float64, error)) (float64, error) {
	if err := m.Errors[KeyCAGR]; err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if err := m.Errors[denomKey]; err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return fn(m.CAGR, riskFree, denom)
}

func sampleStdDev(xs []float64) (float64, error) {
	if len(xs) < 2 {
		return 0, &InsufficientDataError{Metric: "standard deviation", Need: 2, Got: len(xs)}
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1)), nil
}

// relabel keeps the typed error but names the metric the caller asked for.
func relabel(err error, metric string) error {
	switch e := err.(type) {
	case *InsufficientDataError:
		c := *e
		c.Metric = metric
		return &c
	case *DivisionByZeroError:
		c := *e
		c.Metric = metric
		return &c
	}
	return err
}
