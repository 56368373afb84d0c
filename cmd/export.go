package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/tripsplit"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the derived tables as CSV files" }
func (*exportCmd) Usage() string {
	return `tsp export [-o <dir>]

  Reconciles the trip tables and writes allocations.csv, balances.csv and
  settlement.csv into the output directory (the data directory by default).
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output directory. Defaults to the data directory.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, err := Reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	dir := c.output
	if dir == "" {
		dir = *dataDir
	}

	tables := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"allocations.csv", func(f *os.File) error { return tripsplit.ExportAllocations(f, st.Allocations) }},
		{"balances.csv", func(f *os.File) error { return tripsplit.ExportBalances(f, st.Balances) }},
		{"settlement.csv", func(f *os.File) error { return tripsplit.ExportPayments(f, st.Payments) }},
	}
	for _, table := range tables {
		path := filepath.Join(dir, table.name)
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot create %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		err = table.write(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot write %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return subcommands.ExitSuccess
}
