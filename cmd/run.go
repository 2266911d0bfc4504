package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/kest"
	"github.com/etnz/kest/config"
	"github.com/etnz/kest/schwab"
	"github.com/shopspring/decimal"
)

// runFlags are the flags describing a run, shared by the commands reading
// broker exports.
type runFlags struct {
	configFile   string
	year         int
	symbol       string
	awards       string
	brokerage    string
	qty          string
	avg          string
	ratesFile    string
	lookback     int
	lenient      bool
	symbolPolicy string
	timeout      time.Duration
}

func (c *runFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configFile, "config", "", "YAML configuration file listing the securities to declare")
	f.IntVar(&c.year, "year", time.Now().Year()-1, "Tax year")
	f.StringVar(&c.symbol, "symbol", "", "Symbol of the security")
	f.StringVar(&c.awards, "awards", "", "Equity Award Center transactions export (CSV)")
	f.StringVar(&c.brokerage, "brokerage", "", "Brokerage account transactions export (CSV)")
	f.StringVar(&c.qty, "qty", "", "Quantity held at the start of the year")
	f.StringVar(&c.avg, "avg", "", "Average cost in EUR at the start of the year")
	f.StringVar(&c.ratesFile, "rates-file", "", "Read rates from a file in the Frankfurter format instead of the service")
	f.IntVar(&c.lookback, "lookback", config.DefaultLookback, "Days of rates fetched before the start of the year")
	f.BoolVar(&c.lenient, "lenient", false, "Skip unknown broker actions with a warning instead of failing")
	f.StringVar(&c.symbolPolicy, "symbol-policy", schwab.SkipForeign.String(), "What to do with rows about another symbol: skip or reject")
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "Timeout of the rate service requests")
}

// config loads the configuration file, if any, then applies the flags set
// on the command line, then the environment.
func (c *runFlags) config(f *flag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if c.configFile != "" {
		var err error
		if cfg, err = config.Load(c.configFile); err != nil {
			return nil, err
		}
	}

	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["year"] || cfg.Year == 0 {
		cfg.Year = c.year
	}
	if set["rates-file"] {
		cfg.RatesFile = c.ratesFile
	}
	if set["lookback"] {
		cfg.Lookback = c.lookback
	}
	if set["lenient"] {
		cfg.Lenient = c.lenient
	}
	if set["symbol-policy"] {
		cfg.SymbolPolicy = c.symbolPolicy
	}

	if set["awards"] || set["brokerage"] || set["qty"] || set["avg"] {
		var sec *config.Security
		switch {
		case c.symbol != "":
			sec = cfg.Security(c.symbol)
		case len(cfg.Securities) == 1:
			sec = &cfg.Securities[0]
		default:
			return nil, fmt.Errorf("-symbol is required")
		}
		if set["awards"] {
			sec.Awards = c.awards
		}
		if set["brokerage"] {
			sec.Brokerage = c.brokerage
		}
		if set["qty"] {
			q, err := kest.ParseQuantity(c.qty)
			if err != nil {
				return nil, fmt.Errorf("invalid -qty %q: %w", c.qty, err)
			}
			sec.Quantity = q
		}
		if set["avg"] {
			avg, err := decimal.NewFromString(c.avg)
			if err != nil {
				return nil, fmt.Errorf("invalid -avg %q: %w", c.avg, err)
			}
			sec.Average = avg
		}
	} else if c.symbol != "" {
		// Only that security from the configuration file.
		sec := *cfg.Security(c.symbol)
		cfg.Securities = []config.Security{sec}
	}

	cfg.LoadEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEvents reads the broker exports of a security, normalized and sorted
// by date.
func loadEvents(cfg *config.Config, sec config.Security, norm schwab.Normalizer) ([]kest.Event, error) {
	policy, err := cfg.ForeignPolicy()
	if err != nil {
		return nil, err
	}
	opts := schwab.Options{
		Symbol:       sec.Symbol,
		Year:         cfg.Year,
		Strict:       !cfg.Lenient,
		Ignore:       cfg.Ignore,
		SymbolPolicy: policy,
	}

	var events []kest.Event
	if sec.Awards != "" {
		data, err := os.ReadFile(sec.Awards)
		if err != nil {
			return nil, err
		}
		lapses, err := schwab.ParseEquityAwards(bytes.NewReader(data), opts, norm)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sec.Awards, err)
		}
		events = append(events, lapses...)
	}
	if sec.Brokerage != "" {
		data, err := os.ReadFile(sec.Brokerage)
		if err != nil {
			return nil, err
		}
		sells, err := schwab.ParseBrokerage(bytes.NewReader(data), opts, norm)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sec.Brokerage, err)
		}
		events = append(events, sells...)
	}
	return kest.SortEvents(events), nil
}
