package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/kest/config"
	"github.com/etnz/kest/date"
	"github.com/etnz/kest/renderer"
	"github.com/google/subcommands"
)

// ratesCmd holds the flags for the 'rates' subcommand.
type ratesCmd struct {
	from      string
	to        string
	on        string
	ratesFile string
	timeout   time.Duration
	raw       bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "print the EUR per USD reference rates" }
func (*ratesCmd) Usage() string {
	return `e1kv rates [-from <date>] [-to <date>] [-on <date>]

  Prints the reference rates published between two dates, or the rate used
  for a transaction on a given day.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	last := time.Now().Year() - 1
	f.StringVar(&c.from, "from", date.StartOfYear(last).String(), "First day")
	f.StringVar(&c.to, "to", date.EndOfYear(last).String(), "Last day")
	f.StringVar(&c.on, "on", "", "Only print the rate used on that day")
	f.StringVar(&c.ratesFile, "rates-file", "", "Read rates from a file in the Frankfurter format instead of the service")
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "Timeout of the rate service requests")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it for the terminal")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := date.Parse(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := date.Parse(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -to: %v\n", err)
		return subcommands.ExitUsageError
	}
	if to.Before(from) {
		fmt.Fprintf(os.Stderr, "-to %s is before -from %s\n", to, from)
		return subcommands.ExitUsageError
	}
	var on date.Date
	if c.on != "" {
		if on, err = date.Parse(c.on); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -on: %v\n", err)
			return subcommands.ExitUsageError
		}
		// Enough days to find the rate of a long weekend.
		from, to = on.Add(-config.DefaultLookback), on
	}

	cfg := config.Default()
	cfg.RatesFile = c.ratesFile
	cfg.LoadEnv()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	table, err := loadRates(ctx, cfg, date.Range{From: from, To: to})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.on != "" {
		published, rate, err := table.RateAsOf(on)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%s: %s EUR per USD, published on %s\n", on, rate, published)
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RatesMarkdown(table), c.raw)
	return subcommands.ExitSuccess
}
