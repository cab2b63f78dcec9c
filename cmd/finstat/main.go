package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/komsit37/finstat/pkg/finstat/config"
	"github.com/komsit37/finstat/pkg/finstat/logging"
	"github.com/komsit37/finstat/pkg/finstat/pipeline"
	"github.com/komsit37/finstat/pkg/finstat/render"
	"github.com/komsit37/finstat/pkg/finstat/source"

	_ "time/tzdata"
)

const envPrefix = "FINSTAT"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var (
		cfgFile string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "finstat [TICKER...]",
		Short: "Fetch daily prices and quarterly income statements and report return and risk metrics",
		Example: `  finstat AAPL MSFT
  finstat --base-ticker AAPL --risk-free-rate 0.045 AAPL MSFT GOOG
  finstat --format json --sections metrics NVDA`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				v.Set("tickers", args)
			}
			if err := readConfig(v, cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			r, err := render.New(cfg.Format)
			if err != nil {
				return err
			}

			width, tty := terminalSize()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			log.Debug().Strs("tickers", cfg.Tickers).Float64("risk_free_rate", cfg.RiskFreeRate).
				Int("lookback_days", cfg.LookbackDays).Str("base_ticker", cfg.BaseTicker).Msg("config loaded")

			runner := &pipeline.Runner{
				Source:   source.NewYahooSource(nil, cfg.Timeout, log),
				Renderer: r,
				Writer:   cmd.OutOrStdout(),
				Logger:   log,
			}
			err = runner.Execute(ctx, cfg, pipeline.ExecuteOptions{
				Color:    tty && !noColor && os.Getenv("NO_COLOR") == "",
				MaxWidth: width,
			})
			if err != nil {
				log.Error().Err(err).Msg("report failed")
			}
			return err
		},
	}

	def := config.Default()
	f := cmd.Flags()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./finstat.yaml or $FINSTAT_CONFIG)")
	f.StringSlice("tickers", def.Tickers, "tickers to fetch; positional arguments take precedence")
	f.Float64("risk-free-rate", def.RiskFreeRate, "annual risk-free rate as a fraction")
	f.Int("lookback-days", def.LookbackDays, "calendar days of price history ending today")
	f.String("base-ticker", def.BaseTicker, "compute metrics for this ticker only (default all)")
	f.Int("concurrency", def.Concurrency, "tickers fetched in parallel")
	f.Duration("timeout", def.Timeout, "per-request timeout")
	f.StringP("format", "f", def.Format, "output format: table, text, json or yaml")
	f.Bool("pretty", def.Pretty, "indent JSON output")
	f.StringSliceP("metrics", "m", def.Metrics, "metric sets or keys: returns, risk, all, cagr, volatility, downside_volatility, sharpe, sortino")
	f.String("items", def.Items, "income statement item filter: substring, glob, comma list or /regex/")
	f.Int("price-tail", def.PriceTail, "price rows shown per ticker in human output (0 = all)")
	f.StringSlice("sections", def.Sections, "output sections: prices, income, metrics")
	f.String("log-level", def.LogLevel, "log level: trace, debug, info, warn, error, disabled")
	f.String("log-format", def.LogFormat, "log format: console or json")
	f.BoolVar(&noColor, "no-color", false, "disable colored output")

	bindFlags(v, f)
	return cmd
}

// bindFlags maps every dashed flag to its snake_case config key and enables
// FINSTAT_* environment overrides.
func bindFlags(v *viper.Viper, f *pflag.FlagSet) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	f.VisitAll(func(fl *pflag.Flag) {
		if fl.Name == "no-color" {
			return
		}
		key := strings.ReplaceAll(fl.Name, "-", "_")
		_ = v.BindPFlag(key, fl)
		_ = v.BindEnv(key)
	})
}

// readConfig loads .env into the environment and then the YAML config file.
// A missing default config file is not an error; a missing explicit one is.
func readConfig(v *viper.Viper, explicit string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if explicit == "" {
		explicit = os.Getenv(envPrefix + "_CONFIG")
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", explicit, err)
		}
		return nil
	}
	v.SetConfigName("finstat")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// run is a test seam for executing the root command with explicit args.
func run(ctx context.Context, args []string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
