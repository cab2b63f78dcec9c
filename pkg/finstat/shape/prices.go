package shape

import (
	"sort"
	"time"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/finstat/pkg/finstat/types"
)

// DateLayout is the format of PriceRow.Date and statement periods.
const DateLayout = "2006-01-02"

// PriceRows flattens a chart result into one row per trading day, ascending
// by date. Bars without an adjusted close are dropped.
func PriceRows(ticker types.Ticker, res yfgo.ChartResult) []types.PriceRow {
	var q yfgo.ChartQuoteSeries
	if len(res.Indicators.Quote) > 0 {
		q = res.Indicators.Quote[0]
	}
	var adj []*float64
	if len(res.Indicators.AdjClose) > 0 {
		adj = res.Indicators.AdjClose[0].AdjClose
	}
	loc := exchangeLocation(res.Meta)

	type stamped struct {
		ts  int64
		row types.PriceRow
	}
	bars := make([]stamped, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		ac := floatAt(adj, i)
		if ac == nil {
			continue
		}
		bars = append(bars, stamped{ts: ts, row: types.PriceRow{
			Ticker:   ticker,
			Date:     time.Unix(ts, 0).In(loc).Format(DateLayout),
			Open:     deref(floatAt(q.Open, i)),
			High:     deref(floatAt(q.High, i)),
			Low:      deref(floatAt(q.Low, i)),
			Close:    deref(floatAt(q.Close, i)),
			AdjClose: *ac,
			Volume:   derefInt(intAt(q.Volume, i)),
		}})
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].ts < bars[j].ts })

	rows := make([]types.PriceRow, len(bars))
	for i, b := range bars {
		rows[i] = b.row
	}
	return rows
}

// RowsByTicker groups rows, preserving their order.
func RowsByTicker(rows []types.PriceRow) map[types.Ticker][]types.PriceRow {
	out := make(map[types.Ticker][]types.PriceRow)
	for _, r := range rows {
		out[r.Ticker] = append(out[r.Ticker], r)
	}
	return out
}

func exchangeLocation(meta yfgo.ChartMeta) *time.Location {
	if meta.ExchangeTimezoneName != "" {
		if loc, err := time.LoadLocation(meta.ExchangeTimezoneName); err == nil {
			return loc
		}
	}
	if meta.Timezone != "" && meta.GmtOffset != 0 {
		return time.FixedZone(meta.Timezone, int(meta.GmtOffset))
	}
	return time.UTC
}

func floatAt(values []*float64, idx int) *float64 {
	if idx >= len(values) {
		return nil
	}
	return values[idx]
}

func intAt(values []*int64, idx int) *int64 {
	if idx >= len(values) {
		return nil
	}
	return values[idx]
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
