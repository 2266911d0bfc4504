package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/kest"
	"github.com/etnz/kest/renderer"
	"github.com/google/subcommands"
)

// eventsCmd holds the flags for the 'events' subcommand.
type eventsCmd struct {
	runFlags
	raw bool
}

func (*eventsCmd) Name() string     { return "events" }
func (*eventsCmd) Synopsis() string { return "list the normalized events of a tax year" }
func (*eventsCmd) Usage() string {
	return `e1kv events -year <year> -symbol <symbol> -awards <csv> -brokerage <csv>
e1kv events -config <yaml>

  Prints the lapses and sells read from the broker exports, converted to EUR,
  without computing the gains. Use it to check what the exports contain.
`
}

func (c *eventsCmd) SetFlags(f *flag.FlagSet) {
	c.runFlags.SetFlags(f)
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it for the terminal")
}

func (c *eventsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.config(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in configuration: %v\n", err)
		return subcommands.ExitUsageError
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	rates, err := loadRates(ctx, cfg, cfg.Span())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates: %v\n", err)
		return subcommands.ExitFailure
	}
	norm := kest.Normalizer{Rates: rates}

	var b strings.Builder
	for _, sec := range cfg.Securities {
		events, err := loadEvents(cfg, sec, norm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading events of %s: %v\n", sec.Symbol, err)
			return subcommands.ExitFailure
		}
		b.WriteString(renderer.EventsMarkdown(sec.Symbol, events))
		b.WriteString("\n")
	}
	printMarkdown(b.String(), c.raw)
	return subcommands.ExitSuccess
}
