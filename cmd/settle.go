package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tripsplit/renderer"
	"github.com/google/subcommands"
)

type settleCmd struct{}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "compute the payment plan that settles the trip" }
func (*settleCmd) Usage() string {
	return `tsp settle

  Reconciles the trip tables and prints who pays whom, in the base currency.
`
}

func (*settleCmd) SetFlags(f *flag.FlagSet) {}

func (c *settleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, err := Reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderSettlement(renderer.NewStatement(st)))
	return subcommands.ExitSuccess
}
