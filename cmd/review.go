package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tripsplit/renderer"
	"github.com/google/subcommands"
)

type reviewCmd struct {
	json bool
}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "full trip report: expenses, balances and settlement" }
func (*reviewCmd) Usage() string {
	return `tsp review [-json]

  Reconciles the trip tables and prints the full statement: the expense list
  with converted amounts, per-participant balances, and the payment plan.
  With -json the statement is printed as JSON instead of markdown, for
  scripts and other tools.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the statement as JSON instead of markdown.")
}

func (c *reviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, err := Reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	view := renderer.NewStatement(st)
	if c.json {
		out, err := view.JSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(out)
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderStatement(view))
	return subcommands.ExitSuccess
}
