package sink

import (
	"context"
	"fmt"
	"sort"

	"github.com/uhppoted/trello-sheets/records"
)

// Sink is a set of named destinations that can be bulk cleared and bulk written.
type Sink interface {
	Clear(ctx context.Context, ranges []string) error
	Write(ctx context.Context, data []Range) error
}

// Range is the cell data for a single destination, header row first.
type Range struct {
	Name   string
	Values [][]any
}

// SinkError is a failed clear or write. After a failed write the destinations have already been
// cleared, i.e. the sink is left empty rather than rolled back.
type SinkError struct {
	Op  string
	Err error
}

func (e *SinkError) Error() string {
	if e.Op == "write" {
		return fmt.Sprintf("sink write failed, destinations have been cleared and need a re-run (%v)", e.Err)
	}

	return fmt.Sprintf("sink %v failed (%v)", e.Op, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// Sync clears every named destination and then writes all the non-empty tables in a single
// bulk write. The two steps are not transactional.
func Sync(ctx context.Context, s Sink, tables map[string]records.Table) error {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}

	sort.Strings(names)

	if len(names) == 0 {
		return nil
	}

	// ... clear
	if err := s.Clear(ctx, names); err != nil {
		return &SinkError{Op: "clear", Err: err}
	}

	// ... write
	data := []Range{}
	for _, name := range names {
		if table := tables[name]; !table.IsEmpty() {
			data = append(data, Range{
				Name:   name,
				Values: table.Values(),
			})
		}
	}

	if len(data) == 0 {
		return nil
	}

	if err := s.Write(ctx, data); err != nil {
		return &SinkError{Op: "write", Err: err}
	}

	return nil
}
