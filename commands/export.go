package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/uhppoted/trello-sheets/sink"
)

var ExportCmd = Export{
	dir: time.Now().Format("trello-2006-01-02T150405"),
}

// Export runs an import into a directory of TSV files (one per destination range) rather than
// into a spreadsheet.
type Export struct {
	importer
	dir string
}

func (cmd *Export) Name() string {
	return "export"
}

func (cmd *Export) Description() string {
	return "Exports the lists, cards and actions from a Trello board to TSV files"
}

func (cmd *Export) Usage() string {
	return "--dir <directory> [--board <board>]"
}

func (cmd *Export) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] export [options] --dir <directory>\n", APP)
	fmt.Println()
	fmt.Println("  Retrieves the lists, cards and card actions from a Trello board, flattens them into tables")
	fmt.Println("  and writes each table to a TSV file named for the worksheet of the destination range.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    trello-sheets export --board "5f2b7c1e9d3a4b0012345678" --dir "./trello"`)
	fmt.Println()
}

func (cmd *Export) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("export", flag.ExitOnError)

	cmd.importer.flags(flagset)

	flagset.StringVar(&cmd.dir, "dir", cmd.dir, "Directory for the TSV files. Defaults to 'trello-<yyyy-mm-ddTHHmmss>'")

	return flagset
}

func (cmd *Export) Execute(args ...any) error {
	ctx := args[0].(context.Context)
	options := args[1].(*Options)

	if strings.TrimSpace(cmd.dir) == "" {
		return fmt.Errorf("--dir is a required option")
	}

	_, tconfig, pconfig, err := cmd.configure(options)
	if err != nil {
		return err
	}

	if _, err := run(ctx, tconfig, pconfig, &sink.TSV{Dir: cmd.dir}); err != nil {
		return err
	}

	infof("exported board %v to %v", pconfig.BoardID, cmd.dir)

	return nil
}
