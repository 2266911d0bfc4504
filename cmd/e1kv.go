package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/kest"
	"github.com/etnz/kest/renderer"
	"github.com/google/subcommands"
)

// e1kvCmd holds the flags for the 'e1kv' subcommand.
type e1kvCmd struct {
	runFlags
	audit  string
	output string
	raw    bool
}

func (*e1kvCmd) Name() string     { return "e1kv" }
func (*e1kvCmd) Synopsis() string { return "compute the E1kv capital gains of a tax year" }
func (*e1kvCmd) Usage() string {
	return `e1kv e1kv -year <year> -symbol <symbol> -awards <csv> -brokerage <csv> [-qty <qty>] [-avg <eur>] [-audit text|csv|xlsx|json] [-o <file>]
e1kv e1kv -config <yaml> [-audit text|csv|xlsx|json] [-o <file>]

  Reads the vested awards and the sales of the tax year, converts them to
  EUR with the ECB reference rates, and computes the realized gains and
  losses with the moving average cost.

  The position at the start of the year is the one reported at the end of
  the previous year, see -qty and -avg.

  Nothing is printed unless all the securities could be processed.
`
}

func (c *e1kvCmd) SetFlags(f *flag.FlagSet) {
	c.runFlags.SetFlags(f)
	f.StringVar(&c.audit, "audit", "text", "Audit format (text, csv, xlsx, json)")
	f.StringVar(&c.output, "o", "", "Write the audit to this file instead of the standard output")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it for the terminal")
}

func (c *e1kvCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch c.audit {
	case "text", "csv", "xlsx", "json":
	default:
		fmt.Fprintf(os.Stderr, "Unknown audit format %q\n", c.audit)
		return subcommands.ExitUsageError
	}

	cfg, err := c.config(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.audit != "text" && c.output == "" && len(cfg.Securities) > 1 {
		fmt.Fprintln(os.Stderr, "-o is required to export the audit of several securities")
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

	var reports []*kest.Report
	for _, sec := range cfg.Securities {
		events, err := loadEvents(cfg, sec, norm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading events of %s: %v\n", sec.Symbol, err)
			return subcommands.ExitFailure
		}
		result, err := kest.Process(events, sec.Start())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing events of %s: %v\n", sec.Symbol, err)
			return subcommands.ExitFailure
		}
		reports = append(reports, kest.NewReport(sec.Symbol, cfg.Year, result))
	}

	if c.audit == "text" {
		md := auditMarkdown(reports)
		if c.output != "" {
			if err := writeOutput(c.output, []byte(md)); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing audit: %v\n", err)
				return subcommands.ExitFailure
			}
			return subcommands.ExitSuccess
		}
		printMarkdown(md, c.raw)
		return subcommands.ExitSuccess
	}

	// Render everything before writing anything.
	var files []output
	for _, r := range reports {
		var buf bytes.Buffer
		if err := exportAudit(&buf, c.audit, r.Result.Records); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting audit of %s: %v\n", r.Symbol, err)
			return subcommands.ExitFailure
		}
		name := c.output
		if len(reports) > 1 {
			name = outputName(c.output, r.Symbol)
		}
		files = append(files, output{name: name, content: buf.Bytes()})
	}
	if c.output == "" {
		if err := writeOutput("", files[0].content); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing audit: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	if err := writeOutputs(files); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing audit: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SummaryMarkdown(total(reports)), c.raw)
	return subcommands.ExitSuccess
}

// auditMarkdown renders the reports, followed by the sum of their E1kv
// figures when there are several.
func auditMarkdown(reports []*kest.Report) string {
	var b strings.Builder
	for _, r := range reports {
		b.WriteString(renderer.AuditMarkdown(r))
		b.WriteString("\n")
	}
	if len(reports) > 1 {
		b.WriteString("# Total\n\n")
		b.WriteString(renderer.SummaryMarkdown(total(reports)))
	}
	return b.String()
}

// total summarizes the records of all the reports.
func total(reports []*kest.Report) kest.Summary {
	var records []kest.AuditRecord
	for _, r := range reports {
		records = append(records, r.Result.Records...)
	}
	return kest.Summarize(records)
}

func exportAudit(buf *bytes.Buffer, format string, records []kest.AuditRecord) error {
	switch format {
	case "csv":
		return renderer.WriteAuditCSV(buf, records)
	case "xlsx":
		return renderer.WriteAuditXLSX(buf, records)
	case "json":
		return renderer.WriteAuditJSON(buf, records)
	default:
		return fmt.Errorf("unknown audit format %q", format)
	}
}

// outputName inserts the symbol before the extension: audit.csv becomes audit_ACME.csv.
func outputName(file, symbol string) string {
	ext := filepath.Ext(file)
	return strings.TrimSuffix(file, ext) + "_" + symbol + ext
}
