package trello

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/uhppoted/trello-sheets/records"
)

const (
	DefaultPageSize    = 50
	DefaultMaxPages    = 20
	DefaultCursorLimit = 1000
)

// Strategy selects how a collection endpoint is paged. Strategies are immutable values,
// each FetchAll creates its own pager.
type Strategy interface {
	pager() pager
}

type pager interface {
	params() url.Values
	next(batch []records.Value) (bool, error)
}

// Single fetches a collection with one request.
type Single struct{}

// Pages requests page=0,1,2,... until a batch is empty or shorter than Size, or Max pages have
// been fetched. Hitting Max is not an error, a warning is logged and the remaining records are
// not fetched.
type Pages struct {
	Size int
	Max  int
}

// Cursor requests limit=Limit and, after the first page, before=<id of the last record>, until
// a batch is empty or shorter than Limit. Records are returned in server order.
type Cursor struct {
	Limit int
}

func (s Single) pager() pager {
	return &single{}
}

func (s Pages) pager() pager {
	p := pages{
		size: s.Size,
		max:  s.Max,
	}

	if p.size <= 0 {
		p.size = DefaultPageSize
	}

	if p.max <= 0 {
		p.max = DefaultMaxPages
	}

	return &p
}

func (s Cursor) pager() pager {
	p := cursor{
		limit: s.Limit,
	}

	if p.limit <= 0 {
		p.limit = DefaultCursorLimit
	}

	return &p
}

// FetchAll retrieves every page of a collection endpoint and concatenates the batches in the
// order received. Any failed page aborts the fetch. params is not modified.
func (c *Client) FetchAll(ctx context.Context, endpoint string, params url.Values, strategy Strategy) ([]records.Value, error) {
	if strategy == nil {
		strategy = Single{}
	}

	p := strategy.pager()
	list := []records.Value{}

	for {
		query := url.Values{}
		for k, v := range params {
			query[k] = v
		}

		for k, v := range p.params() {
			query[k] = v
		}

		v, err := c.get(ctx, endpoint, query)
		if err != nil {
			return nil, err
		}

		if v.Kind() != records.Array {
			return nil, &ParseError{Endpoint: endpoint, Err: fmt.Errorf("expected JSON array, got %v", v.Kind())}
		}

		batch := v.Items()
		list = append(list, batch...)

		more, err := p.next(batch)
		if err != nil {
			return nil, &ParseError{Endpoint: endpoint, Err: err}
		} else if !more {
			break
		}
	}

	if c.config.Debug {
		debugf("%v: fetched %v records", endpoint, len(list))
	}

	return list, nil
}

type single struct{}

func (p *single) params() url.Values {
	return nil
}

func (p *single) next([]records.Value) (bool, error) {
	return false, nil
}

type pages struct {
	size int
	max  int
	page int
}

func (p *pages) params() url.Values {
	return url.Values{
		"page": []string{strconv.Itoa(p.page)},
	}
}

func (p *pages) next(batch []records.Value) (bool, error) {
	p.page++

	if len(batch) == 0 || len(batch) < p.size {
		return false, nil
	}

	if p.page >= p.max {
		warnf("page limit (%v) reached, any remaining records were not fetched", p.max)
		return false, nil
	}

	return true, nil
}

type cursor struct {
	limit  int
	before string
}

func (p *cursor) params() url.Values {
	params := url.Values{
		"limit": []string{strconv.Itoa(p.limit)},
	}

	if p.before != "" {
		params.Set("before", p.before)
	}

	return params
}

func (p *cursor) next(batch []records.Value) (bool, error) {
	if len(batch) == 0 || len(batch) < p.limit {
		return false, nil
	}

	last := batch[len(batch)-1]
	if id, ok := last.Get("id"); !ok || id.Kind() != records.String || id.Text() == "" {
		return false, fmt.Errorf("missing 'id' in last record of page - unable to continue from cursor")
	} else {
		p.before = id.Text()
	}

	return true, nil
}
