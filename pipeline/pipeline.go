package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/uhppoted/trello-sheets/records"
	"github.com/uhppoted/trello-sheets/sink"
	"github.com/uhppoted/trello-sheets/trello"
)

// Trello is the subset of the Trello API used by an import run.
type Trello interface {
	Lists(ctx context.Context, board string) ([]records.Value, error)
	Cards(ctx context.Context, board string) ([]records.Value, error)
	CardActions(ctx context.Context, card string, filter string) ([]records.Value, error)
	BoardActions(ctx context.Context, board string, filter string) ([]records.Value, error)
	Board(ctx context.Context, board string) (records.Value, error)
}

// Report summarises a completed import run.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Records  map[string]int
}

// Run executes one import: fetch every collection, flatten, tabulate and sync all the tables
// to the sink in one clear+write. Any error aborts the run.
func Run(ctx context.Context, config Config, api Trello, s sink.Sink) (*Report, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	report := Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Records: map[string]int{},
	}

	if config.Debug {
		debugf("%v  import board:%v source:%v actions:%v", report.RunID, config.BoardID, config.Source, config.Actions)
	}

	collections, err := fetch(ctx, config, api)
	if err != nil {
		return nil, err
	}

	tables := map[string]records.Table{}
	for _, c := range Collections {
		r, ok := config.rangeFor(c)
		if !ok {
			continue
		}

		flats, ok := collections[c]
		if !ok {
			if config.Debug {
				debugf("%v  %v not retrieved for this configuration, skipping range '%v'", report.RunID, c, r)
			}
			continue
		}

		tables[r] = records.BuildTable(flats)
		report.Records[r] = len(flats)

		infof("%v  %-12v %v records", report.RunID, c, len(flats))
	}

	if err := sink.Sync(ctx, s, tables); err != nil {
		return nil, err
	}

	report.Finished = time.Now()

	return &report, nil
}

func fetch(ctx context.Context, config Config, api Trello) (map[Collection][]*records.Flat, error) {
	sep := config.Separator
	collections := map[Collection][]*records.Flat{}

	var cards []records.Value

	switch config.Source {
	case SourceBoard:
		board, err := api.Board(ctx, config.BoardID)
		if err != nil {
			return nil, fmt.Errorf("error retrieving board %v (%w)", config.BoardID, err)
		}

		raw := map[Collection][]records.Value{}
		for _, c := range []Collection{Lists, Cards, Members, Labels, CustomFields} {
			list, err := trello.Collection(board, string(c))
			if err != nil {
				return nil, err
			}

			raw[c] = list
		}

		cards = raw[Cards]

		for _, c := range []Collection{Lists, Members, Labels, CustomFields} {
			collections[c] = records.FlattenAll(raw[c], sep)
		}

		if config.MergeCustomFields {
			collections[Cards] = mergeCustomFields(cards, raw[CustomFields], sep)
		} else {
			collections[Cards] = records.FlattenAll(cards, sep)
		}

	default:
		lists, err := api.Lists(ctx, config.BoardID)
		if err != nil {
			return nil, fmt.Errorf("error retrieving lists (%w)", err)
		}

		cards, err = api.Cards(ctx, config.BoardID)
		if err != nil {
			return nil, fmt.Errorf("error retrieving cards (%w)", err)
		}

		collections[Lists] = records.FlattenAll(lists, sep)
		collections[Cards] = records.FlattenAll(cards, sep)
	}

	switch config.Actions {
	case ActionsCardUpdates, ActionsCardMoves:
		actions, err := cardActions(ctx, config, api, cards)
		if err != nil {
			return nil, err
		}

		collections[Actions] = records.FlattenAll(actions, sep)

	case ActionsBoard:
		actions, err := api.BoardActions(ctx, config.BoardID, config.actionFilter())
		if err != nil {
			return nil, fmt.Errorf("error retrieving board actions (%w)", err)
		}

		collections[Actions] = records.FlattenAll(actions, sep)
	}

	return collections, nil
}

// mergeCustomFields flattens each card without its raw customFieldItems and then adds the
// resolved custom field values as customFields<sep><field name>.
func mergeCustomFields(cards []records.Value, definitions []records.Value, sep string) []*records.Flat {
	fields := trello.NewCustomFields(definitions)
	flats := make([]*records.Flat, 0, len(cards))

	for _, card := range cards {
		flat := records.Flatten(card.Without("customFieldItems"), "", sep)
		for _, f := range fields.Resolve(card) {
			flat.Set(string(CustomFields)+sep+f.Key, f.Value)
		}

		flats = append(flats, flat)
	}

	return flats
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}
