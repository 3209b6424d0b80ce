package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/uhppoted/trello-sheets/pipeline"
	"github.com/uhppoted/trello-sheets/sink"
	"github.com/uhppoted/trello-sheets/trello"
)

var ImportCmd = Import{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		url:         "",
		debug:       false,
	},

	logRange:     "",
	logRetention: 0,
}

type Import struct {
	command
	importer

	logRange     string
	logRetention uint
}

func (cmd *Import) Name() string {
	return "import"
}

func (cmd *Import) Description() string {
	return "Imports the lists, cards and actions from a Trello board into a Google Sheets spreadsheet"
}

func (cmd *Import) Usage() string {
	return "--credentials <file> --url <url> [--board <board>]"
}

func (cmd *Import) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] import [options] --url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Retrieves the lists, cards and card actions from a Trello board, flattens them into tables")
	fmt.Println("  and replaces the contents of the configured worksheet ranges with the tables.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    trello-sheets --debug import --credentials "credentials.json" \`)
	fmt.Println(`                                 --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                 --board "5f2b7c1e9d3a4b0012345678"`)
	fmt.Println()
	fmt.Println(`    trello-sheets --config trello-sheets.yaml import --source board --actions board --merge-custom-fields`)
	fmt.Println()
}

func (cmd *Import) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("import")

	cmd.importer.flags(flagset)

	flagset.StringVar(&cmd.logRange, "log-range", cmd.logRange, "Spreadsheet range for the import log e.g. 'Log!A1:D'. Defaults to log.range")
	flagset.UintVar(&cmd.logRetention, "log-retention", cmd.logRetention, "Log sheet records older than 'log-retention' days are pruned. Defaults to log.retention")

	return flagset
}

func (cmd *Import) Execute(args ...any) error {
	ctx := args[0].(context.Context)
	options := args[1].(*Options)

	cmd.debug = options.Debug

	v, tconfig, pconfig, err := cmd.configure(options)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.url) == "" {
		cmd.url = v.GetString("google.url")
	}

	if cmd.logRange == "" {
		cmd.logRange = v.GetString("log.range")
	}

	if cmd.logRetention == 0 {
		cmd.logRetention = v.GetUint("log.retention")
	}

	google, spreadsheet, err := cmd.google(ctx)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("spreadsheet - ID:%s  board:%s", spreadsheet, pconfig.BoardID)
	}

	s := sink.Google{
		Service:       google,
		SpreadsheetID: spreadsheet,
	}

	report, err := run(ctx, tconfig, pconfig, &s)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.logRange) != "" {
		l := importLog{
			area:      cmd.logRange,
			retention: cmd.logRetention,
		}

		if err := l.update(ctx, google, spreadsheet, report); err != nil {
			return err
		}

		if err := l.prune(ctx, google, spreadsheet); err != nil {
			return err
		}
	}

	return nil
}

// run executes a single import with a new Trello client.
func run(ctx context.Context, tconfig trello.Config, pconfig pipeline.Config, s sink.Sink) (*pipeline.Report, error) {
	client := trello.NewClient(tconfig)

	report, err := pipeline.Run(ctx, pconfig, client, s)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range report.Records {
		total += n
	}

	infof("%v  imported %v records from board %v in %v", report.RunID, total, pconfig.BoardID, report.Finished.Sub(report.Started).Round(time.Millisecond))

	return report, nil
}
