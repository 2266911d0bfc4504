// Package config loads the run configuration of the e1kv command from a
// YAML file and from the environment.
//
// A configuration file lists the securities to declare for a tax year:
//
//	year: 2024
//	securities:
//	  - symbol: ACME
//	    awards: EquityAwardsCenter_Transactions.csv
//	    brokerage: Individual_Transactions.csv
//	    quantity: 120    # carried forward from the previous year
//	    average: 8.4213  # EUR
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/etnz/kest"
	"github.com/etnz/kest/date"
	"github.com/etnz/kest/schwab"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// EnvRatesURL is the environment variable overriding the rate service address.
const EnvRatesURL = "KEST_RATES_URL"

// DefaultLookback is the number of days of rates fetched before the first of
// January, so that a transaction on the first business days of the year
// finds the last rate of the previous year.
const DefaultLookback = 10

// Config is the complete run configuration.
type Config struct {
	Year         int        `yaml:"year"`
	RatesURL     string     `yaml:"rates_url,omitempty"`
	RatesFile    string     `yaml:"rates_file,omitempty"` // rates in the Frankfurter format, instead of the service
	Lookback     int        `yaml:"lookback,omitempty"`
	Lenient      bool       `yaml:"lenient,omitempty"`       // unknown actions are skipped instead of fatal
	SymbolPolicy string     `yaml:"symbol_policy,omitempty"` // "skip" or "reject" rows about another symbol
	Ignore       []string   `yaml:"ignore,omitempty"`        // extra broker actions to ignore
	Securities   []Security `yaml:"securities"`
}

// Security is the configuration of a single security.
type Security struct {
	Symbol    string          `yaml:"symbol"`
	Awards    string          `yaml:"awards,omitempty"`    // Equity Award Center export
	Brokerage string          `yaml:"brokerage,omitempty"` // brokerage account export
	Quantity  kest.Quantity   `yaml:"quantity,omitempty"`
	Average   decimal.Decimal `yaml:"average,omitempty"` // average cost in EUR
}

// Start returns the position carried forward from the previous year.
func (s Security) Start() kest.Position {
	return kest.Position{Quantity: s.Quantity, Average: kest.M(s.Average, "EUR")}
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{Lookback: DefaultLookback}
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a YAML configuration, unknown keys are errors.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads the .env file of the current directory, if any, into the
// environment, then applies the environment to the configuration.
func (c *Config) LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, cannot load .env file: %v", err)
	}
	if url := os.Getenv(EnvRatesURL); url != "" && c.RatesURL == "" {
		c.RatesURL = url
	}
}

// Span returns the range of days the rates are needed for.
func (c *Config) Span() date.Range {
	return date.Year(c.Year).Extend(c.Lookback)
}

// Security returns the security configuration of a symbol, it is added if
// missing.
func (c *Config) Security(symbol string) *Security {
	for i := range c.Securities {
		if strings.EqualFold(c.Securities[i].Symbol, symbol) {
			return &c.Securities[i]
		}
	}
	c.Securities = append(c.Securities, Security{Symbol: symbol})
	return &c.Securities[len(c.Securities)-1]
}

// ForeignPolicy returns what to do with rows about another symbol.
func (c *Config) ForeignPolicy() (schwab.SymbolPolicy, error) {
	return schwab.ParseSymbolPolicy(c.SymbolPolicy)
}

// Validate checks that the configuration describes a run.
func (c *Config) Validate() error {
	if c.Year < 1999 || c.Year > 9999 {
		return fmt.Errorf("year %d is not a valid tax year", c.Year)
	}
	if c.Lookback < 0 {
		return fmt.Errorf("lookback must not be negative")
	}
	if c.RatesURL != "" && c.RatesFile != "" {
		return fmt.Errorf("rates_url and rates_file are exclusive")
	}
	if _, err := c.ForeignPolicy(); err != nil {
		return err
	}
	if len(c.Securities) == 0 {
		return fmt.Errorf("at least one security is required")
	}
	seen := make(map[string]bool)
	for i, s := range c.Securities {
		symbol := strings.ToUpper(s.Symbol)
		switch {
		case symbol == "":
			return fmt.Errorf("securities[%d].symbol is required", i)
		case seen[symbol]:
			return fmt.Errorf("security %q is declared twice", s.Symbol)
		case s.Awards == "" && s.Brokerage == "":
			return fmt.Errorf("security %q: awards or brokerage is required", s.Symbol)
		case s.Quantity.IsNegative():
			return fmt.Errorf("security %q: %w: quantity %s", s.Symbol, kest.ErrInvalidPosition, s.Quantity)
		case s.Average.IsNegative():
			return fmt.Errorf("security %q: %w: average %s", s.Symbol, kest.ErrInvalidPosition, s.Average)
		}
		seen[symbol] = true
	}
	return nil
}
