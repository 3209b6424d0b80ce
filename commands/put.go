package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/uhppoted/trello-sheets/sink"
)

var PutCmd = Put{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		url:         "",
		debug:       false,
	},

	area: "",
	file: "",
}

// Put uploads a TSV file, e.g. one written by 'export', to a worksheet range. The range is
// cleared first, as for an import.
type Put struct {
	command
	area string
	file string
}

func (cmd *Put) Name() string {
	return "put"
}

func (cmd *Put) Description() string {
	return "Uploads a TSV file to a Google Sheets worksheet range"
}

func (cmd *Put) Usage() string {
	return "--credentials <file> --url <url> --range <range> --file <file>"
}

func (cmd *Put) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] put [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Replaces the contents of a Google Sheets worksheet range with a TSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    trello-sheets put --credentials "credentials.json" \`)
	fmt.Println(`                      --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                      --range "Cards" \`)
	fmt.Println(`                      --file "trello/Cards.tsv"`)
	fmt.Println()
}

func (cmd *Put) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("put")

	flagset.StringVar(&cmd.area, "range", cmd.area, "Spreadsheet range e.g. 'Cards'")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file")

	return flagset
}

func (cmd *Put) Execute(args ...any) error {
	ctx := args[0].(context.Context)
	options := args[1].(*Options)

	cmd.debug = options.Debug

	if strings.TrimSpace(cmd.area) == "" {
		return fmt.Errorf("--range is a required option")
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	f, err := os.Open(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	values, err := readTSV(f)
	if err != nil {
		return fmt.Errorf("invalid TSV file %v (%v)", cmd.file, err)
	}

	google, spreadsheet, err := cmd.google(ctx)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("spreadsheet - ID:%s  range:%s", spreadsheet, cmd.area)
	}

	s := sink.Google{
		Service:       google,
		SpreadsheetID: spreadsheet,
	}

	if err := s.Clear(ctx, []string{cmd.area}); err != nil {
		return &sink.SinkError{Op: "clear", Err: err}
	}

	if len(values) > 0 {
		if err := s.Write(ctx, []sink.Range{{Name: cmd.area, Values: values}}); err != nil {
			return &sink.SinkError{Op: "write", Err: err}
		}
	}

	infof("uploaded TSV file %v to Google Sheets %v", cmd.file, cmd.area)

	return nil
}
