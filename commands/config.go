package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/uhppoted/trello-sheets/pipeline"
	"github.com/uhppoted/trello-sheets/trello"
)

var ranges = map[pipeline.Collection]string{
	pipeline.Lists:        "ranges.lists",
	pipeline.Cards:        "ranges.cards",
	pipeline.Actions:      "ranges.actions",
	pipeline.Members:      "ranges.members",
	pipeline.Labels:       "ranges.labels",
	pipeline.CustomFields: "ranges.custom-fields",
}

// newViper returns a viper instance with the defaults set and the environment bound, so that
// e.g. 'trello.key' can be set with TRELLO_KEY and 'ranges.custom-fields' with RANGES_CUSTOM_FIELDS.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("trello.url", trello.DefaultBaseURL)
	v.SetDefault("trello.timeout", "0s")
	v.SetDefault("trello.rate-limit", 10.0)
	v.SetDefault("trello.rate-burst", 10)

	v.SetDefault("import.separator", "_")
	v.SetDefault("import.source", string(pipeline.SourceCollections))
	v.SetDefault("import.actions", string(pipeline.ActionsCardUpdates))
	v.SetDefault("import.concurrency", 1)
	v.SetDefault("import.merge-custom-fields", false)

	v.SetDefault("ranges.lists", "Lists")
	v.SetDefault("ranges.cards", "Cards")
	v.SetDefault("ranges.actions", "Card Actions")

	v.SetDefault("log.range", "")
	v.SetDefault("log.retention", 30)

	v.SetDefault("daemon.schedule", "0 * * * *")

	return v
}

// loadConfig reads the configuration file (any format supported by viper) over the defaults. A
// missing default configuration file is not an error.
func loadConfig(file string) (*viper.Viper, error) {
	v := newViper()

	if strings.TrimSpace(file) == "" {
		return v, nil
	}

	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		if file == DEFAULT_CONFIG && errors.Is(err, os.ErrNotExist) {
			return v, nil
		}

		return nil, fmt.Errorf("could not load configuration from %v (%v)", file, err)
	}

	return v, nil
}

// importer holds the command line overrides shared by the import, export and daemon commands.
type importer struct {
	board       string
	source      string
	actions     string
	separator   string
	spawnList   string
	merge       bool
	concurrency int
}

func (i *importer) flags(flagset *flag.FlagSet) {
	flagset.StringVar(&i.board, "board", i.board, "Trello board ID (overrides TRELLO_BOARD and trello.board)")
	flagset.StringVar(&i.source, "source", i.source, "Retrieves lists and cards as separate 'collections' or as a single nested 'board'")
	flagset.StringVar(&i.actions, "actions", i.actions, "Actions to import: 'card-updates', 'card-moves', 'board' or 'none'")
	flagset.StringVar(&i.separator, "separator", i.separator, "Separator for flattened column names. Defaults to '_'")
	flagset.StringVar(&i.spawnList, "spawn-list", i.spawnList, "ID of a list whose cards are skipped when retrieving card actions")
	flagset.BoolVar(&i.merge, "merge-custom-fields", i.merge, "Merges the card custom field values into the card rows (requires --source board)")
	flagset.IntVar(&i.concurrency, "concurrency", i.concurrency, "Maximum number of concurrent card action requests. Defaults to 1")
}

func (i *importer) apply(v *viper.Viper) {
	set := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			v.Set(key, value)
		}
	}

	set("trello.board", i.board)
	set("import.source", i.source)
	set("import.actions", i.actions)
	set("import.separator", i.separator)
	set("import.spawn-list", i.spawnList)

	if i.merge {
		v.Set("import.merge-custom-fields", true)
	}

	if i.concurrency > 0 {
		v.Set("import.concurrency", i.concurrency)
	}
}

// configure loads the configuration file, applies the command line overrides and returns the
// Trello client and pipeline configuration for a run.
func (i *importer) configure(options *Options) (*viper.Viper, trello.Config, pipeline.Config, error) {
	v, err := loadConfig(options.Config)
	if err != nil {
		return nil, trello.Config{}, pipeline.Config{}, err
	}

	i.apply(v)

	t := trelloConfig(v, options.Debug)
	p := pipelineConfig(v, options.Debug)

	if strings.TrimSpace(t.Key) == "" || strings.TrimSpace(t.Token) == "" {
		return nil, t, p, fmt.Errorf("missing Trello API key/token (set TRELLO_KEY and TRELLO_TOKEN or trello.key and trello.token)")
	}

	if err := p.Validate(); err != nil {
		return nil, t, p, err
	}

	return v, t, p, nil
}

func trelloConfig(v *viper.Viper, debug bool) trello.Config {
	return trello.Config{
		BaseURL:   v.GetString("trello.url"),
		Key:       v.GetString("trello.key"),
		Token:     v.GetString("trello.token"),
		Timeout:   v.GetDuration("trello.timeout"),
		RateLimit: v.GetFloat64("trello.rate-limit"),
		RateBurst: v.GetInt("trello.rate-burst"),
		Debug:     debug,
	}
}

func pipelineConfig(v *viper.Viper, debug bool) pipeline.Config {
	config := pipeline.Config{
		BoardID:           strings.TrimSpace(v.GetString("trello.board")),
		Separator:         v.GetString("import.separator"),
		Source:            pipeline.Source(v.GetString("import.source")),
		Actions:           pipeline.ActionMode(v.GetString("import.actions")),
		ActionFilter:      v.GetString("import.action-filter"),
		SpawnList:         v.GetString("import.spawn-list"),
		MergeCustomFields: v.GetBool("import.merge-custom-fields"),
		Ranges:            map[pipeline.Collection]string{},
		Concurrency:       v.GetInt("import.concurrency"),
		Debug:             debug,
	}

	for _, c := range pipeline.Collections {
		if r := strings.TrimSpace(v.GetString(ranges[c])); r != "" {
			config.Ranges[c] = r
		}
	}

	return config
}
