package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{"AAPL", "MSFT"}, c.Tickers)
	assert.Equal(t, 0.03, c.RiskFreeRate)
	assert.Equal(t, 1825, c.LookbackDays)
	assert.Equal(t, "", c.BaseTicker)
	assert.Equal(t, 1, c.Concurrency)
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.Equal(t, "table", c.Format)
	assert.Equal(t, []string{"returns", "risk"}, c.Metrics)
	assert.Equal(t, 10, c.PriceTail)
	assert.Equal(t, []string{SectionPrices, SectionIncome, SectionMetrics}, c.Sections)
	require.NoError(t, c.Validate())
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	v.Set("tickers", []string{" tsla", "nvda", "TSLA"})
	v.Set("risk_free_rate", 0)
	v.Set("base_ticker", "nvda")
	v.Set("timeout", "5s")
	v.Set("format", "JSON")

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"TSLA", "NVDA"}, c.Tickers)
	assert.Equal(t, 0.0, c.RiskFreeRate)
	assert.Equal(t, "NVDA", c.BaseTicker)
	assert.Equal(t, 5*time.Second, c.Timeout)
	assert.Equal(t, "json", c.Format)
	assert.Equal(t, []string{"NVDA"}, c.ReportTickers())
	assert.Equal(t, 1825, c.LookbackDays)
}

func TestLoadFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
tickers: [IBM]
lookback_days: 365
sections: [metrics]
metrics: [sharpe]
`)))

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"IBM"}, c.Tickers)
	assert.Equal(t, 365, c.LookbackDays)
	assert.Equal(t, []string{"metrics"}, c.Sections)
	assert.Equal(t, []string{"sharpe"}, c.Metrics)
	assert.True(t, c.Section(SectionMetrics))
	assert.False(t, c.Section(SectionPrices))
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]func(v *viper.Viper){
		"empty tickers":    func(v *viper.Viper) { v.Set("tickers", []string{}) },
		"bad format":       func(v *viper.Viper) { v.Set("format", "csv") },
		"bad section":      func(v *viper.Viper) { v.Set("sections", []string{"cash"}) },
		"short lookback":   func(v *viper.Viper) { v.Set("lookback_days", 1) },
		"unknown base":     func(v *viper.Viper) { v.Set("base_ticker", "GOOG") },
		"zero concurrency": func(v *viper.Viper) { v.Set("concurrency", 0) },
	}
	for name, set := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			set(v)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}

func TestWindow(t *testing.T) {
	c := Default()
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	from, to := c.Window(now)
	assert.Equal(t, now, to)
	assert.Equal(t, time.Date(2020, 7, 1, 12, 0, 0, 0, time.UTC), from)
}
