package types

import "time"

// Ticker is a stock symbol, e.g. "AAPL".
type Ticker = string

// PriceRow is one daily bar for a ticker. Rows without an adjusted close are
// never constructed.
type PriceRow struct {
	Ticker   Ticker  `json:"ticker" yaml:"ticker"`
	Date     string  `json:"date" yaml:"date"` // YYYY-MM-DD in the exchange timezone
	Open     float64 `json:"open" yaml:"open"`
	High     float64 `json:"high" yaml:"high"`
	Low      float64 `json:"low" yaml:"low"`
	Close    float64 `json:"close" yaml:"close"`
	AdjClose float64 `json:"adjclose" yaml:"adjclose"`
	Volume   int64   `json:"volume" yaml:"volume"`
}

// IncomeStatementFact is a single line item of a quarterly income statement.
type IncomeStatementFact struct {
	Ticker Ticker  `json:"ticker" yaml:"ticker"`
	Period string  `json:"period" yaml:"period"`
	Item   string  `json:"item" yaml:"item"`
	Value  float64 `json:"value" yaml:"value"`
}

// Statement is the provider's nested income statement shape:
// ticker -> list of {period -> {lineItem -> value}}.
type Statement map[string]any

// Metrics holds the derived statistics for one ticker. A metric that could
// not be computed has its error set in Errors keyed by metric key and a zero
// value.
type Metrics struct {
	Ticker             Ticker           `json:"ticker" yaml:"ticker"`
	Observations       int              `json:"observations" yaml:"observations"`
	CAGR               float64          `json:"cagr" yaml:"cagr"`
	Volatility         float64          `json:"volatility" yaml:"volatility"`
	DownsideVolatility float64          `json:"downside_volatility" yaml:"downside_volatility"`
	Sharpe             float64          `json:"sharpe" yaml:"sharpe"`
	Sortino            float64          `json:"sortino" yaml:"sortino"`
	Errors             map[string]error `json:"-" yaml:"-"`
}

// Err returns the error recorded for the metric key, if any.
func (m Metrics) Err(key string) error {
	if m.Errors == nil {
		return nil
	}
	return m.Errors[key]
}

// Window is the trailing fetch range.
type Window struct {
	From time.Time `json:"from" yaml:"from"`
	To   time.Time `json:"to" yaml:"to"`
}

// Report is everything a renderer needs for one run.
type Report struct {
	Tickers      []Ticker              `json:"tickers" yaml:"tickers"`
	Window       Window                `json:"window" yaml:"window"`
	RiskFreeRate float64               `json:"risk_free_rate" yaml:"risk_free_rate"`
	Prices       []PriceRow            `json:"prices,omitempty" yaml:"prices,omitempty"`
	Statements   []IncomeStatementFact `json:"income_statement,omitempty" yaml:"income_statement,omitempty"`
	Metrics      []Metrics             `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}
