package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/uhppoted/trello-sheets/records"
	"github.com/uhppoted/trello-sheets/trello"
)

// cardActions fetches the actions for every card not in the spawn list. With Concurrency > 1
// the per-card requests run on a bounded pool, but the result is always assembled in card
// order so that it matches a sequential run.
func cardActions(ctx context.Context, config Config, api Trello, cards []records.Value) ([]records.Value, error) {
	filter := config.actionFilter()
	ids := []string{}

	for _, card := range cards {
		if config.SpawnList != "" && field(card, "idList") == config.SpawnList {
			continue
		}

		id := field(card, "id")
		if id == "" {
			return nil, &trello.ParseError{Endpoint: "cards", Err: fmt.Errorf("card without an 'id'")}
		}

		ids = append(ids, id)
	}

	workers := config.Concurrency
	if workers < 1 {
		workers = 1
	}

	if config.Debug {
		debugf("fetching actions for %v cards (filter:%q workers:%v)", len(ids), filter, workers)
	}

	results := make([][]records.Value, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			actions, err := api.CardActions(ctx, id, filter)
			if err != nil {
				return fmt.Errorf("error retrieving actions for card %v (%w)", id, err)
			}

			results[i] = actions

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	actions := []records.Value{}
	for _, list := range results {
		actions = append(actions, list...)
	}

	return actions, nil
}

func field(v records.Value, key string) string {
	if s, ok := v.Get(key); ok {
		return s.Text()
	}

	return ""
}
