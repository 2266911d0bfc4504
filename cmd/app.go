// Package cmd implements the CLI application to compute the E1kv figures.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/kest"
	"github.com/etnz/kest/config"
	"github.com/etnz/kest/date"
	"github.com/etnz/kest/frankfurter"
	"github.com/google/subcommands"
)

// Commands are all the subcommands of the application.
var Commands = []subcommands.Command{
	&e1kvCmd{},
	&eventsCmd{},
	&ratesCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// printMarkdown prints markdown to the terminal, or as is if raw.
func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Print(md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Printf("warning, cannot render markdown: %v", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// loadRates builds the rate table of a span, from the configured rates file
// if any, or from the rate service.
func loadRates(ctx context.Context, cfg *config.Config, span date.Range) (*kest.RateTable, error) {
	if cfg.RatesFile == "" {
		return kest.NewRateTable(ctx, frankfurter.New(cfg.RatesURL), span)
	}
	data, err := os.ReadFile(cfg.RatesFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kest.ErrRateSource, err)
	}
	rates, err := frankfurter.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", kest.ErrRateSource, cfg.RatesFile, err)
	}
	return kest.NewRateTableFrom(rates, span)
}

// writeOutput writes content to file, or to the standard output if file is empty.
func writeOutput(file string, content []byte) error {
	if file == "" {
		_, err := os.Stdout.Write(content)
		return err
	}
	return os.WriteFile(file, content, 0o644)
}

// output is the content of a file to write.
type output struct {
	name    string
	content []byte
}

// writeOutputs writes all the files, in order, or none of them.
//
// Each content goes to a temporary file next to its target, the temporary
// files are renamed once all of them are written.
func writeOutputs(outputs []output) error {
	for _, o := range outputs {
		if fi, err := os.Stat(o.name); err == nil && fi.IsDir() {
			return fmt.Errorf("cannot write %s: is a directory", o.name)
		}
	}

	var temps []string
	defer func() {
		for _, t := range temps {
			os.Remove(t) // already renamed on success
		}
	}()
	for _, o := range outputs {
		f, err := os.CreateTemp(filepath.Dir(o.name), "."+filepath.Base(o.name)+".*")
		if err != nil {
			return fmt.Errorf("cannot write %s: %w", o.name, err)
		}
		temps = append(temps, f.Name())
		_, err = f.Write(o.content)
		if err == nil {
			err = f.Chmod(0o644)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("cannot write %s: %w", o.name, err)
		}
	}

	var written []string
	for i, o := range outputs {
		if err := os.Rename(temps[i], o.name); err != nil {
			if len(written) > 0 {
				return fmt.Errorf("%w (already written: %s)", err, strings.Join(written, ", "))
			}
			return err
		}
		written = append(written, o.name)
	}
	return nil
}
