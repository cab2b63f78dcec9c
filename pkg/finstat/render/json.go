package render

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/komsit37/finstat/pkg/finstat/types"
)

// reportModel is the output shape for JSONRenderer and YAMLRenderer.
type reportModel struct {
	Tickers      []string                    `json:"tickers" yaml:"tickers"`
	Window       types.Window                `json:"window" yaml:"window"`
	RiskFreeRate float64                     `json:"risk_free_rate" yaml:"risk_free_rate"`
	Prices       []types.PriceRow            `json:"prices,omitempty" yaml:"prices,omitempty"`
	Statements   []types.IncomeStatementFact `json:"income_statement,omitempty" yaml:"income_statement,omitempty"`
	Metrics      []metricsModel              `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

type metricsModel struct {
	Ticker       string             `json:"ticker" yaml:"ticker"`
	Observations int                `json:"observations" yaml:"observations"`
	Values       map[string]float64 `json:"values" yaml:"values"`
	Errors       map[string]string  `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// model keeps every price row; PriceTail only applies to human output.
func model(rep types.Report, opts RenderOptions) reportModel {
	out := reportModel{
		Tickers:      rep.Tickers,
		Window:       rep.Window,
		RiskFreeRate: rep.RiskFreeRate,
	}
	if opts.Prices {
		out.Prices = rep.Prices
	}
	if opts.Income {
		out.Statements = rep.Statements
	}
	if opts.Metrics {
		for _, m := range rep.Metrics {
			mm := metricsModel{Ticker: m.Ticker, Observations: m.Observations, Values: map[string]float64{}}
			for _, c := range opts.Columns {
				if err := m.Err(c.Key); err != nil {
					if mm.Errors == nil {
						mm.Errors = map[string]string{}
					}
					mm.Errors[c.Key] = err.Error()
					continue
				}
				mm.Values[c.Key] = c.Value(m)
			}
			out.Metrics = append(out.Metrics, mm)
		}
	}
	return out
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, rep types.Report, opts RenderOptions) error {
	enc := json.NewEncoder(w)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(model(rep, opts))
}

type YAMLRenderer struct{}

func NewYAMLRenderer() *YAMLRenderer { return &YAMLRenderer{} }

func (r *YAMLRenderer) Render(w io.Writer, rep types.Report, opts RenderOptions) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(model(rep, opts)); err != nil {
		return err
	}
	return enc.Close()
}
