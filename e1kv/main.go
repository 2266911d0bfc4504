// Command e1kv computes the Austrian E1kv capital gains figures of equity
// awards held at Charles Schwab.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/kest/cmd"
	"github.com/etnz/kest/schwab"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// fileFlags are the flags naming a file, completed with matching files.
var fileFlags = map[string]string{
	"awards":     "*.csv",
	"brokerage":  "*.csv",
	"config":     "*.yaml",
	"rates-file": "*.json",
	"o":          "*",
}

// completion describes the commands and their flags for shell completion.
func completion() *complete.Command {
	root := &complete.Command{Sub: make(map[string]*complete.Command)}
	for _, c := range cmd.Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: make(map[string]complete.Predictor)}
		fs.VisitAll(func(f *flag.Flag) {
			switch {
			case fileFlags[f.Name] != "":
				sub.Flags[f.Name] = predict.Files(fileFlags[f.Name])
			case f.Name == "audit":
				sub.Flags[f.Name] = predict.Set{"text", "csv", "xlsx", "json"}
			case f.Name == "symbol-policy":
				sub.Flags[f.Name] = predict.Set{schwab.SkipForeign.String(), schwab.RejectForeign.String()}
			case isBool(f):
				sub.Flags[f.Name] = nil // takes no value
			default:
				sub.Flags[f.Name] = predict.Set{f.DefValue}
			}
		})
		root.Sub[c.Name()] = sub
	}
	return root
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func main() {
	completion().Complete("e1kv")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
