package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	lib "github.com/uhppoted/uhppoted-lib/command"

	"github.com/uhppoted/trello-sheets/commands"
)

var cli = []lib.Command{
	&commands.ImportCmd,
	&commands.ExportCmd,
	&commands.DaemonCmd,
	&commands.GetCmd,
	&commands.PutCmd,
	&commands.VersionCmd,
}

var options = commands.Options{
	Config: commands.DEFAULT_CONFIG,
	Debug:  false,
}

var help = lib.NewHelp(commands.APP, cli, nil)

func main() {
	flag.StringVar(&options.Config, "config", options.Config, "Configuration file (YAML, TOML or JSON)")
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.Parse()

	cmd, err := lib.Parse(cli, nil, help)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	if cmd == nil {
		help.Execute()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err = cmd.Execute(ctx, &options); err != nil {
		cancel()
		log.Fatalf("%-5s %v", "ERROR", err)
	}
}
