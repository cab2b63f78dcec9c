package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/finstat/pkg/finstat/types"
)

// TextRenderer prints plain column-aligned dumps followed by one sentence per
// metric, e.g. "CAGR for AAPL is 12.345%".
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer { return &TextRenderer{} }

func (r *TextRenderer) Render(w io.Writer, rep types.Report, opts RenderOptions) error {
	if opts.Prices {
		tw := plainWriter()
		tw.AppendHeader(table.Row{"Ticker", "Date", "Open", "High", "Low", "Close", "AdjClose", "Volume"})
		tw.SetColumnConfigs(rightAligned("Open", "High", "Low", "Close", "AdjClose", "Volume"))
		for _, p := range tail(rep.Prices, opts.PriceTail) {
			tw.AppendRow(table.Row{
				p.Ticker, p.Date,
				num(p.Open), num(p.High), num(p.Low), num(p.Close), num(p.AdjClose),
				strconv.FormatInt(p.Volume, 10),
			})
		}
		if err := writeBlock(w, tw); err != nil {
			return err
		}
	}
	if opts.Income {
		tw := plainWriter()
		tw.AppendHeader(table.Row{"id", "Ticker", "Period", "Item", "Value"})
		tw.SetColumnConfigs(rightAligned("Value"))
		for i, f := range rep.Statements {
			tw.AppendRow(table.Row{i, f.Ticker, f.Period, f.Item, num(f.Value)})
		}
		if err := writeBlock(w, tw); err != nil {
			return err
		}
	}
	if opts.Metrics {
		for _, m := range rep.Metrics {
			for _, c := range opts.Columns {
				if _, err := fmt.Fprintln(w, MetricLine(c, m)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// plainWriter is a go-pretty table without borders, separators or header
// casing.
func plainWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleDefault)
	s := tw.Style()
	s.Options.DrawBorder = false
	s.Options.SeparateColumns = false
	s.Options.SeparateHeader = false
	s.Options.SeparateRows = false
	s.Options.SeparateFooter = false
	s.Format.Header = text.FormatDefault
	s.Box.PaddingLeft = ""
	s.Box.PaddingRight = "  "
	return tw
}

// writeBlock renders tw followed by a blank line.
func writeBlock(w io.Writer, tw table.Writer) error {
	_, err := io.WriteString(w, tw.Render()+"\n\n")
	return err
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
