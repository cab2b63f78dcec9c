package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/finstat/pkg/finstat/types"
)

// Source fetches provider-native price history and income statements.
type Source interface {
	Prices(ctx context.Context, ticker types.Ticker, from, to time.Time) (yfgo.ChartResult, error)
	IncomeStatement(ctx context.Context, ticker types.Ticker) (types.Statement, error)
}

// Fetch operations named in FetchError.
const (
	OpPrices          = "prices"
	OpIncomeStatement = "income statement"
)

var (
	// ErrNoData is returned when the provider answers with an empty history or
	// statement.
	ErrNoData = errors.New("no data returned")
	// ErrNoAdjClose is returned when a price history lacks adjusted closes.
	ErrNoAdjClose = errors.New("no adjusted close series")
)

// FetchError wraps any failure fetching one ticker. It aborts the run.
type FetchError struct {
	Ticker types.Ticker
	Op     string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s for %s: %v", e.Op, e.Ticker, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
