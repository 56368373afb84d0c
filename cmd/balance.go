package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tripsplit/renderer"
	"github.com/google/subcommands"
)

type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show each participant's paid, owed and net amounts" }
func (*balanceCmd) Usage() string {
	return `tsp balance

  Reconciles the trip tables and prints one balance row per participant.
  A positive net means the group owes the participant money.
`
}

func (*balanceCmd) SetFlags(f *flag.FlagSet) {}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, err := Reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderBalances(renderer.NewStatement(st)))
	return subcommands.ExitSuccess
}
