package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/uhppoted/trello-sheets/sink"
)

var DaemonCmd = Daemon{
	Import:    ImportCmd,
	schedule:  "",
	immediate: false,
}

// Daemon runs an import on a cron schedule until interrupted. Each run uses a new Trello client
// and sink, so nothing is carried over from one run to the next.
type Daemon struct {
	Import
	schedule  string
	immediate bool
}

func (cmd *Daemon) Name() string {
	return "daemon"
}

func (cmd *Daemon) Description() string {
	return "Periodically imports a Trello board into a Google Sheets spreadsheet"
}

func (cmd *Daemon) Usage() string {
	return "--credentials <file> --url <url> [--schedule <cron>]"
}

func (cmd *Daemon) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] daemon [options] --url <URL> --schedule <cron>\n", APP)
	fmt.Println()
	fmt.Println("  Runs an import on a schedule (standard 5 field cron format) until interrupted with CTRL-C.")
	fmt.Println("  A failed import is logged and the daemon waits for the next scheduled run.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    trello-sheets daemon --credentials "credentials.json" \`)
	fmt.Println(`                         --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                         --schedule "*/15 * * * *" --immediate`)
	fmt.Println()
}

func (cmd *Daemon) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("daemon")

	cmd.importer.flags(flagset)

	flagset.StringVar(&cmd.logRange, "log-range", cmd.logRange, "Spreadsheet range for the import log e.g. 'Log!A1:D'. Defaults to log.range")
	flagset.UintVar(&cmd.logRetention, "log-retention", cmd.logRetention, "Log sheet records older than 'log-retention' days are pruned. Defaults to log.retention")
	flagset.StringVar(&cmd.schedule, "schedule", cmd.schedule, "Import schedule in cron format e.g. '0 * * * *'. Defaults to daemon.schedule")
	flagset.BoolVar(&cmd.immediate, "immediate", cmd.immediate, "Runs an import immediately on startup, before the first scheduled run")

	return flagset
}

func (cmd *Daemon) Execute(args ...any) error {
	ctx := args[0].(context.Context)
	options := args[1].(*Options)

	cmd.debug = options.Debug

	// ... validate configuration before starting
	v, _, _, err := cmd.configure(options)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.schedule) == "" {
		cmd.schedule = v.GetString("daemon.schedule")
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

	// ... authorise up front, the token exchange may be interactive
	if _, _, err := cmd.google(ctx); err != nil {
		return err
	}

	job := func() {
		if err := cmd.tick(ctx, options); err != nil {
			errorf("%v", err)
		}
	}

	c := cron.New(
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	if _, err := c.AddFunc(cmd.schedule, job); err != nil {
		return fmt.Errorf("invalid schedule '%v' (%w)", cmd.schedule, err)
	}

	if cmd.immediate {
		job()
	}

	c.Start()

	infof("daemon started with schedule '%v'", cmd.schedule)

	<-ctx.Done()

	infof("daemon stopping")

	<-c.Stop().Done()

	return nil
}

// tick is a single scheduled import. The configuration is reloaded for every run.
func (cmd *Daemon) tick(ctx context.Context, options *Options) error {
	if ctx.Err() != nil {
		return nil
	}

	_, tconfig, pconfig, err := cmd.configure(options)
	if err != nil {
		return err
	}

	google, spreadsheet, err := cmd.google(ctx)
	if err != nil {
		return err
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
