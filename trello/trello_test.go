package trello

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhppoted/trello-sheets/records"
)

func TestCardActions(t *testing.T) {
	s := stub{}
	server := serve(t, &s, 50, 3)
	client := newTestClient(server)

	list, err := client.CardActions(context.Background(), "c1", FilterCardMoves)

	require.NoError(t, err)
	assert.Len(t, list, 53)
	require.Len(t, s.requests, 2)
	assert.Equal(t, "/cards/c1/actions", s.paths[0])
	assert.Equal(t, "updateCard:idList", s.requests[0].Get("filter"))
	assert.Equal(t, "1", s.requests[1].Get("page"))
}

func TestBoardActions(t *testing.T) {
	s := stub{}
	server := serve(t, &s, 12)
	client := newTestClient(server)

	list, err := client.BoardActions(context.Background(), "b1", "")

	require.NoError(t, err)
	assert.Len(t, list, 12)
	require.Len(t, s.requests, 1)
	assert.Equal(t, "/boards/b1/actions", s.paths[0])
	assert.Equal(t, "1000", s.requests[0].Get("limit"))
	assert.False(t, s.requests[0].Has("filter"))
}

func TestBoard(t *testing.T) {
	s := stub{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		fmt.Fprint(w, `{"id":"b1","lists":[{"id":"l1"}],"cards":[{"id":"c1"},{"id":"c2"}],"labels":null}`)
	}))
	defer server.Close()

	client := newTestClient(server)

	board, err := client.Board(context.Background(), "b1")
	require.NoError(t, err)

	assert.Equal(t, "/boards/b1", s.paths[0])
	assert.Equal(t, "all", s.requests[0].Get("cards"))
	assert.Equal(t, "true", s.requests[0].Get("card_customFieldItems"))

	cards, err := Collection(board, "cards")
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	labels, err := Collection(board, "labels")
	require.NoError(t, err)
	assert.Empty(t, labels)

	members, err := Collection(board, "members")
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = Collection(board, "id")
	assert.Error(t, err)
}

func TestBoardWithArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.Board(context.Background(), "b1")

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestCustomFieldsResolve(t *testing.T) {
	definitions, err := records.Decode([]byte(`[
	  {"id":"cf1","name":"Priority","type":"list","options":[{"id":"o1","value":{"text":"High"}},{"id":"o2","value":{"text":"Low"}}]},
	  {"id":"cf2","name":"Estimate","type":"number"},
	  {"id":"cf3","name":"Approved","type":"checkbox"},
	  {"id":"cf4","name":"Deadline","type":"date"},
	  {"id":"cf5","name":"Notes","type":"text"}
	]`))
	require.NoError(t, err)

	card, err := records.Decode([]byte(`{
	  "id":"c1",
	  "customFieldItems":[
	    {"id":"i1","idCustomField":"cf1","idValue":"o2"},
	    {"id":"i2","idCustomField":"cf2","value":{"number":"13"}},
	    {"id":"i3","idCustomField":"cf3","value":{"checked":"true"}},
	    {"id":"i4","idCustomField":"cf4","value":{"date":"2024-05-01T10:00:00.000Z"}},
	    {"id":"i5","idCustomField":"cf5","value":{"text":"call back"}},
	    {"id":"i6","idCustomField":"cf9","value":{"text":"orphan"}}
	  ]
	}`))
	require.NoError(t, err)

	expected := []records.Field{
		{Key: "Priority", Value: records.StringValue("Low")},
		{Key: "Estimate", Value: records.StringValue("13")},
		{Key: "Approved", Value: records.StringValue("true")},
		{Key: "Deadline", Value: records.StringValue("2024-05-01T10:00:00.000Z")},
		{Key: "Notes", Value: records.StringValue("call back")},
		{Key: "cf9", Value: records.StringValue("orphan")},
	}

	fields := NewCustomFields(definitions.Items()).Resolve(card)

	assert.Equal(t, expected, fields)
}

func TestCustomFieldsResolveWithoutItems(t *testing.T) {
	card := records.ObjectValue(records.Field{Key: "id", Value: records.StringValue("c1")})

	fields := NewCustomFields(nil).Resolve(card)

	assert.Empty(t, fields)
}
