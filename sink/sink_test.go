package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhppoted/trello-sheets/records"
)

type mock struct {
	cleared  [][]string
	written  [][]Range
	clearErr error
	writeErr error
}

func (m *mock) Clear(ctx context.Context, ranges []string) error {
	m.cleared = append(m.cleared, ranges)

	return m.clearErr
}

func (m *mock) Write(ctx context.Context, data []Range) error {
	m.written = append(m.written, data)

	return m.writeErr
}

func table(fields ...records.Field) records.Table {
	return records.BuildTable([]*records.Flat{records.NewFlat(fields...)})
}

func TestSync(t *testing.T) {
	m := mock{}
	tables := map[string]records.Table{
		"X": {},
		"Y": table(records.Field{Key: "id", Value: records.StringValue("c1")}),
	}

	err := Sync(context.Background(), &m, tables)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"X", "Y"}}, m.cleared)
	require.Len(t, m.written, 1, "expected exactly one bulk write")
	assert.Equal(t, []Range{{Name: "Y", Values: [][]any{{"id"}, {"c1"}}}}, m.written[0])
}

func TestSyncWritesAllTablesInOneRequest(t *testing.T) {
	m := mock{}
	tables := map[string]records.Table{
		"Lists":        table(records.Field{Key: "id", Value: records.StringValue("l1")}),
		"Cards":        table(records.Field{Key: "id", Value: records.StringValue("c1")}),
		"Card Actions": table(records.Field{Key: "id", Value: records.StringValue("a1")}),
	}

	err := Sync(context.Background(), &m, tables)

	require.NoError(t, err)
	require.Len(t, m.written, 1)
	assert.Len(t, m.written[0], 3)
	assert.Equal(t, [][]string{{"Card Actions", "Cards", "Lists"}}, m.cleared)
}

func TestSyncWithOnlyEmptyTables(t *testing.T) {
	m := mock{}
	tables := map[string]records.Table{
		"X": {},
		"Y": records.BuildTable(nil),
	}

	err := Sync(context.Background(), &m, tables)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"X", "Y"}}, m.cleared)
	assert.Empty(t, m.written)
}

func TestSyncWithNoTables(t *testing.T) {
	m := mock{}

	err := Sync(context.Background(), &m, map[string]records.Table{})

	require.NoError(t, err)
	assert.Empty(t, m.cleared)
	assert.Empty(t, m.written)
}

func TestSyncWithClearError(t *testing.T) {
	m := mock{clearErr: errors.New("quota exceeded")}
	tables := map[string]records.Table{
		"Y": table(records.Field{Key: "id", Value: records.StringValue("c1")}),
	}

	err := Sync(context.Background(), &m, tables)

	var serr *SinkError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "clear", serr.Op)
	assert.Empty(t, m.written, "should not write after a failed clear")
}

func TestSyncWithWriteError(t *testing.T) {
	m := mock{writeErr: errors.New("quota exceeded")}
	tables := map[string]records.Table{
		"Y": table(records.Field{Key: "id", Value: records.StringValue("c1")}),
	}

	err := Sync(context.Background(), &m, tables)

	var serr *SinkError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "write", serr.Op)
	assert.Len(t, m.cleared, 1, "destinations are cleared before the failed write")
	assert.ErrorIs(t, err, m.writeErr)
}
