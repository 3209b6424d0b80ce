package trello

import (
	"context"
	"fmt"
	"net/url"

	"github.com/uhppoted/trello-sheets/records"
)

const (
	FilterCardUpdates = "updateCard,createCard"
	FilterCardMoves   = "updateCard:idList"
)

func (c *Client) Lists(ctx context.Context, board string) ([]records.Value, error) {
	return c.FetchAll(ctx, fmt.Sprintf("boards/%v/lists", url.PathEscape(board)), nil, Single{})
}

func (c *Client) Cards(ctx context.Context, board string) ([]records.Value, error) {
	return c.FetchAll(ctx, fmt.Sprintf("boards/%v/cards", url.PathEscape(board)), nil, Single{})
}

// CardActions retrieves the actions for a single card, newest first, paged 50 at a time up to
// the API limit of 1000.
func (c *Client) CardActions(ctx context.Context, card string, filter string) ([]records.Value, error) {
	params := url.Values{}
	if filter != "" {
		params.Set("filter", filter)
	}

	endpoint := fmt.Sprintf("cards/%v/actions", url.PathEscape(card))
	strategy := Pages{Size: DefaultPageSize, Max: DefaultMaxPages}

	return c.FetchAll(ctx, endpoint, params, strategy)
}

// BoardActions retrieves every action on a board using the 'before' cursor. Ordering is
// whatever the API returns.
func (c *Client) BoardActions(ctx context.Context, board string, filter string) ([]records.Value, error) {
	params := url.Values{}
	if filter != "" {
		params.Set("filter", filter)
	}

	endpoint := fmt.Sprintf("boards/%v/actions", url.PathEscape(board))
	strategy := Cursor{Limit: DefaultCursorLimit}

	return c.FetchAll(ctx, endpoint, params, strategy)
}

// Board retrieves a board with its lists, cards (including custom field items), members,
// labels and custom field definitions inlined.
func (c *Client) Board(ctx context.Context, board string) (records.Value, error) {
	endpoint := fmt.Sprintf("boards/%v", url.PathEscape(board))
	params := url.Values{
		"lists":                 []string{"all"},
		"cards":                 []string{"all"},
		"members":               []string{"all"},
		"labels":                []string{"all"},
		"customFields":          []string{"true"},
		"card_customFieldItems": []string{"true"},
	}

	v, err := c.get(ctx, endpoint, params)
	if err != nil {
		return records.Value{}, err
	}

	if v.Kind() != records.Object {
		return records.Value{}, &ParseError{Endpoint: endpoint, Err: fmt.Errorf("expected JSON object, got %v", v.Kind())}
	}

	return v, nil
}

// Collection returns the named array field of a nested board, or an empty list if the field
// is missing or null.
func Collection(board records.Value, name string) ([]records.Value, error) {
	v, ok := board.Get(name)
	if !ok || v.IsNull() {
		return []records.Value{}, nil
	}

	if v.Kind() != records.Array {
		return nil, &ParseError{Endpoint: "boards", Err: fmt.Errorf("expected '%v' to be an array, got %v", name, v.Kind())}
	}

	return v.Items(), nil
}
