package pipeline

import (
	"fmt"
	"strings"

	"github.com/uhppoted/trello-sheets/trello"
)

// Source selects how lists and cards are retrieved.
type Source string

const (
	SourceCollections Source = "collections"
	SourceBoard       Source = "board"
)

// ActionMode selects which actions are imported.
type ActionMode string

const (
	ActionsCardUpdates ActionMode = "card-updates"
	ActionsCardMoves   ActionMode = "card-moves"
	ActionsBoard       ActionMode = "board"
	ActionsNone        ActionMode = "none"
)

// Collection names a table produced by an import run.
type Collection string

const (
	Lists        Collection = "lists"
	Cards        Collection = "cards"
	Actions      Collection = "actions"
	Members      Collection = "members"
	Labels       Collection = "labels"
	CustomFields Collection = "customFields"
)

// Collections is the order in which tables are built.
var Collections = []Collection{Lists, Cards, Actions, Members, Labels, CustomFields}

// Config is the configuration for a single import run. It is constructed once and not
// modified while the run is in progress.
type Config struct {
	BoardID           string
	Separator         string
	Source            Source
	Actions           ActionMode
	ActionFilter      string
	SpawnList         string
	MergeCustomFields bool
	Ranges            map[Collection]string
	Concurrency       int
	Debug             bool
}

func DefaultConfig() Config {
	return Config{
		Separator: "_",
		Source:    SourceCollections,
		Actions:   ActionsCardUpdates,
		Ranges: map[Collection]string{
			Lists:   "Lists",
			Cards:   "Cards",
			Actions: "Card Actions",
		},
		Concurrency: 1,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BoardID) == "" {
		return fmt.Errorf("missing board ID")
	}

	switch c.Source {
	case SourceCollections, SourceBoard:
	default:
		return fmt.Errorf("invalid source '%v' - expected '%v' or '%v'", c.Source, SourceCollections, SourceBoard)
	}

	switch c.Actions {
	case ActionsCardUpdates, ActionsCardMoves, ActionsBoard, ActionsNone:
	default:
		return fmt.Errorf("invalid actions mode '%v' - expected one of %v, %v, %v or %v", c.Actions, ActionsCardUpdates, ActionsCardMoves, ActionsBoard, ActionsNone)
	}

	if c.MergeCustomFields && c.Source != SourceBoard {
		return fmt.Errorf("merging custom fields requires source '%v'", SourceBoard)
	}

	if len(c.Ranges) == 0 {
		return fmt.Errorf("no destination ranges configured")
	}

	ranges := map[string]Collection{}
	for k, r := range c.Ranges {
		name := strings.TrimSpace(r)
		if name == "" {
			continue
		}

		if other, ok := ranges[name]; ok {
			return fmt.Errorf("range '%v' configured for both %v and %v", name, other, k)
		}

		ranges[name] = k
	}

	return nil
}

func (c Config) rangeFor(collection Collection) (string, bool) {
	r := strings.TrimSpace(c.Ranges[collection])

	return r, r != ""
}

func (c Config) actionFilter() string {
	if c.ActionFilter != "" {
		return c.ActionFilter
	}

	switch c.Actions {
	case ActionsCardUpdates:
		return trello.FilterCardUpdates
	case ActionsCardMoves:
		return trello.FilterCardMoves
	default:
		return ""
	}
}
