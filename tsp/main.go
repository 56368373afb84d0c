package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tripsplit/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, before flag parsing.
	sub := make(map[string]*complete.Command)
	for _, c := range cmd.Commands() {
		sub[c.Name()] = &complete.Command{}
	}
	completion := &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"data": predict.Dirs("*"),
			"base": predict.Set{"VND", "EUR", "USD", "CNY"},
		},
	}
	completion.Complete("tsp")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
