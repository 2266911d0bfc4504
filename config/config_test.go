package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/kest"
	"github.com/etnz/kest/date"
	"github.com/etnz/kest/schwab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultLookback, cfg.Lookback)
	assert.Empty(t, cfg.Securities)
	assert.Error(t, cfg.Validate(), "a default config has no year nor security")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e1kv.yaml")
	content := `
year: 2024
lenient: true
ignore: [Quick Sale]
securities:
  - symbol: ACME
    awards: awards.csv
    brokerage: brokerage.csv
    quantity: 120
    average: "8.4213"
  - symbol: OTHR
    brokerage: other.csv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2024, cfg.Year)
	assert.Equal(t, DefaultLookback, cfg.Lookback)
	assert.True(t, cfg.Lenient)
	assert.Equal(t, []string{"Quick Sale"}, cfg.Ignore)
	require.Len(t, cfg.Securities, 2)

	acme := cfg.Securities[0]
	assert.Equal(t, "awards.csv", acme.Awards)
	start := acme.Start()
	assert.True(t, start.Quantity.Equal(kest.Q(120)), "quantity = %s", start.Quantity)
	assert.True(t, start.Average.Equal(kest.M(8.4213, "EUR")), "average = %s", start.Average)

	other := cfg.Securities[1].Start()
	assert.True(t, other.Quantity.IsZero())
	assert.True(t, other.Average.IsZero())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Decode(strings.NewReader("year: 2024\nsymbol: ACME\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Decode(strings.NewReader("securities:\n  - symbol: ACME\n    quantity: many\n"))
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultLookback, cfg.Lookback)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Year: 2024, Lookback: 10, Securities: []Security{{Symbol: "ACME", Brokerage: "b.csv"}}}
	}
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"no year", func(c *Config) { c.Year = 0 }, "not a valid tax year"},
		{"negative lookback", func(c *Config) { c.Lookback = -1 }, "lookback"},
		{"both rate sources", func(c *Config) { c.RatesURL, c.RatesFile = "http://x", "r.json" }, "exclusive"},
		{"symbol policy", func(c *Config) { c.SymbolPolicy = "maybe" }, "symbol policy"},
		{"no security", func(c *Config) { c.Securities = nil }, "at least one security"},
		{"no symbol", func(c *Config) { c.Securities[0].Symbol = "" }, "symbol is required"},
		{"twice", func(c *Config) {
			c.Securities = append(c.Securities, Security{Symbol: "acme", Awards: "a.csv"})
		}, "declared twice"},
		{"no file", func(c *Config) { c.Securities[0].Brokerage = "" }, "awards or brokerage"},
		{"negative quantity", func(c *Config) { c.Securities[0].Quantity = kest.Q(-1) }, "quantity"},
		{"negative average", func(c *Config) { c.Securities[0].Average = kest.M(-1, "EUR").Decimal() }, "average"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestForeignPolicy(t *testing.T) {
	cfg, err := Decode(strings.NewReader("year: 2024\nsymbol_policy: reject\n"))
	require.NoError(t, err)
	policy, err := cfg.ForeignPolicy()
	require.NoError(t, err)
	assert.Equal(t, schwab.RejectForeign, policy)

	policy, err = Default().ForeignPolicy()
	require.NoError(t, err)
	assert.Equal(t, schwab.SkipForeign, policy)
}

func TestSecurity(t *testing.T) {
	cfg := &Config{Securities: []Security{{Symbol: "ACME"}}}

	cfg.Security("acme").Awards = "a.csv"
	assert.Equal(t, "a.csv", cfg.Securities[0].Awards)

	cfg.Security("OTHR").Brokerage = "b.csv"
	require.Len(t, cfg.Securities, 2)
	assert.Equal(t, "OTHR", cfg.Securities[1].Symbol)
}

func TestSpan(t *testing.T) {
	cfg := &Config{Year: 2024, Lookback: 10}
	span := cfg.Span()
	assert.Equal(t, date.New(2023, time.December, 22), span.From)
	assert.Equal(t, date.New(2024, time.December, 31), span.To)
}

func TestLoadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvRatesURL, "http://localhost:8080/v1")

	cfg := Default()
	cfg.LoadEnv()
	assert.Equal(t, "http://localhost:8080/v1", cfg.RatesURL)

	cfg = &Config{RatesURL: "http://configured"}
	cfg.LoadEnv()
	assert.Equal(t, "http://configured", cfg.RatesURL, "the file wins over the environment")
}

func TestLoadEnv_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvRatesURL+"=http://dotenv/v1\n"), 0o644))
	t.Chdir(dir)
	t.Setenv(EnvRatesURL, "")
	os.Unsetenv(EnvRatesURL)

	cfg := Default()
	cfg.LoadEnv()
	assert.Equal(t, "http://dotenv/v1", cfg.RatesURL)
}
