package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Output sections.
const (
	SectionPrices  = "prices"
	SectionIncome  = "income"
	SectionMetrics = "metrics"
)

// Config holds all run options.
type Config struct {
	Tickers      []string      `mapstructure:"tickers" default:"[\"AAPL\",\"MSFT\"]" validate:"required,min=1,dive,required"`
	RiskFreeRate float64       `mapstructure:"risk_free_rate" default:"0.03" validate:"gte=-1,lte=1"`
	LookbackDays int           `mapstructure:"lookback_days" default:"1825" validate:"gte=2"`
	BaseTicker   string        `mapstructure:"base_ticker"`
	Concurrency  int           `mapstructure:"concurrency" default:"1" validate:"gte=1,lte=32"`
	Timeout      time.Duration `mapstructure:"timeout" default:"30s" validate:"gt=0"`
	Format       string        `mapstructure:"format" default:"table" validate:"oneof=table text json yaml"`
	Pretty       bool          `mapstructure:"pretty"`
	Metrics      []string      `mapstructure:"metrics" default:"[\"returns\",\"risk\"]" validate:"required,min=1"`
	Items        string        `mapstructure:"items"`
	PriceTail    int           `mapstructure:"price_tail" default:"10" validate:"gte=0"`
	Sections     []string      `mapstructure:"sections" default:"[\"prices\",\"income\",\"metrics\"]" validate:"required,min=1,dive,oneof=prices income metrics"`
	LogLevel     string        `mapstructure:"log_level" default:"info" validate:"oneof=trace debug info warn error disabled"`
	LogFormat    string        `mapstructure:"log_format" default:"console" validate:"oneof=console json"`
}

var validate = validator.New()

// Default returns a Config populated from struct defaults.
func Default() Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		// defaults are compile-time constants; a failure is a programming error
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return c
}

// Load overlays values known to v onto the defaults, normalizes and validates.
func Load(v *viper.Viper) (Config, error) {
	c := Default()
	// mapstructure decodes into existing slices element-wise; clear the
	// defaults the caller overrides.
	for key, field := range map[string]*[]string{
		"tickers":  &c.Tickers,
		"metrics":  &c.Metrics,
		"sections": &c.Sections,
	} {
		if v.IsSet(key) {
			*field = nil
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Normalize upper-cases and de-duplicates tickers and lower-cases enums.
func (c *Config) Normalize() {
	c.Tickers = uniqueUpper(c.Tickers)
	c.BaseTicker = strings.ToUpper(strings.TrimSpace(c.BaseTicker))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	for i, s := range c.Sections {
		c.Sections[i] = strings.ToLower(strings.TrimSpace(s))
	}
}

// Validate checks field constraints and that base_ticker is a configured
// ticker.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if c.BaseTicker != "" && !c.HasTicker(c.BaseTicker) {
		return fmt.Errorf("validate config: base_ticker %s is not in tickers %v", c.BaseTicker, c.Tickers)
	}
	return nil
}

// HasTicker reports whether t is configured.
func (c *Config) HasTicker(t string) bool {
	for _, x := range c.Tickers {
		if x == t {
			return true
		}
	}
	return false
}

// ReportTickers lists the tickers metrics are computed for.
func (c *Config) ReportTickers() []string {
	if c.BaseTicker != "" {
		return []string{c.BaseTicker}
	}
	return c.Tickers
}

// Section reports whether the named output section is enabled.
func (c *Config) Section(name string) bool {
	for _, s := range c.Sections {
		if s == name {
			return true
		}
	}
	return false
}

// Window returns the trailing fetch range ending at now.
func (c *Config) Window(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -c.LookbackDays), now
}

func uniqueUpper(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
