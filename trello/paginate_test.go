package trello

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	sync.Mutex
	requests []url.Values
	paths    []string
}

func (s *stub) record(r *http.Request) int {
	s.Lock()
	defer s.Unlock()

	s.requests = append(s.requests, r.URL.Query())
	s.paths = append(s.paths, r.URL.Path)

	return len(s.requests) - 1
}

func batch(offset, n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id":"a%d","data":{"n":%d}}`, offset+i, offset+i)
	}

	return "[" + strings.Join(items, ",") + "]"
}

// serve returns batches of the given sizes, then empty batches.
func serve(t *testing.T, s *stub, sizes ...int) *httptest.Server {
	return serveWith(t, s, func(ix int) (int, int) {
		offset := 0
		for i := 0; i < ix && i < len(sizes); i++ {
			offset += sizes[i]
		}

		if ix < len(sizes) {
			return offset, sizes[ix]
		}

		return offset, 0
	})
}

// serveForever always returns a full batch.
func serveForever(t *testing.T, s *stub, size int) *httptest.Server {
	return serveWith(t, s, func(ix int) (int, int) {
		return ix * size, size
	})
}

func serveWith(t *testing.T, s *stub, f func(ix int) (int, int)) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, size := f(s.record(r))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, batch(offset, size))
	}))

	t.Cleanup(server.Close)

	return server
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(Config{
		BaseURL: server.URL,
		Key:     "test-key",
		Token:   "test-token",
	})
}

func TestFetchAllPagesStopsAtMaxPages(t *testing.T) {
	s := stub{}

	server := serveForever(t, &s, 50)
	client := newTestClient(server)

	list, err := client.FetchAll(context.Background(), "cards/c1/actions", nil, Pages{Size: 50, Max: 20})

	require.NoError(t, err)
	assert.Len(t, list, 20*50)
	assert.Len(t, s.requests, 20)

	for i, q := range s.requests {
		assert.Equal(t, strconv.Itoa(i), q.Get("page"))
	}
}

func TestFetchAllPagesStopsOnShortPage(t *testing.T) {
	s := stub{}
	server := serve(t, &s, 50, 50, 10, 50)
	client := newTestClient(server)

	list, err := client.FetchAll(context.Background(), "cards/c1/actions", nil, Pages{Size: 50, Max: 20})

	require.NoError(t, err)
	assert.Len(t, list, 110)
	assert.Len(t, s.requests, 3)
}

func TestFetchAllPagesStopsOnEmptyPage(t *testing.T) {
	s := stub{}
	server := serve(t, &s, 50, 0, 50)
	client := newTestClient(server)

	list, err := client.FetchAll(context.Background(), "cards/c1/actions", nil, Pages{Size: 50, Max: 20})

	require.NoError(t, err)
	assert.Len(t, list, 50)
	assert.Len(t, s.requests, 2)
}

func TestFetchAllCursor(t *testing.T) {
	s := stub{}
	server := serve(t, &s, 50, 50, 30)
	client := newTestClient(server)

	list, err := client.FetchAll(context.Background(), "boards/b1/actions", url.Values{"filter": []string{"updateCard"}}, Cursor{Limit: 50})

	require.NoError(t, err)
	assert.Len(t, list, 130)
	require.Len(t, s.requests, 3)

	assert.False(t, s.requests[0].Has("before"), "first request should not include a cursor")
	assert.Equal(t, "a49", s.requests[1].Get("before"))
	assert.Equal(t, "a99", s.requests[2].Get("before"))

	for _, q := range s.requests {
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, "updateCard", q.Get("filter"))
	}

	// server order is preserved
	for i, v := range list {
		id, _ := v.Get("id")
		assert.Equal(t, fmt.Sprintf("a%d", i), id.Text())
	}
}

func TestFetchAllCursorWithoutRecordID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"one"},{"name":"two"}]`)
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.FetchAll(context.Background(), "boards/b1/actions", nil, Cursor{Limit: 2})

	var perr *ParseError
	require.Error(t, err)
	assert.True(t, errors.As(err, &perr), "expected ParseError, got %T", err)
}

func TestFetchAllSingle(t *testing.T) {
	s := stub{}
	server := serve(t, &s, 7)
	client := newTestClient(server)

	list, err := client.FetchAll(context.Background(), "boards/b1/lists", nil, Single{})

	require.NoError(t, err)
	assert.Len(t, list, 7)
	assert.Len(t, s.requests, 1)
	assert.Equal(t, "/boards/b1/lists", s.paths[0])
}

func TestFetchAllAddsCredentials(t *testing.T) {
	s := stub{}
	server := serve(t, &s, 1)
	client := newTestClient(server)

	params := url.Values{"filter": []string{"createCard"}}
	_, err := client.FetchAll(context.Background(), "cards/c1/actions", params, Pages{})

	require.NoError(t, err)
	assert.Equal(t, "test-key", s.requests[0].Get("key"))
	assert.Equal(t, "test-token", s.requests[0].Get("token"))
	assert.Equal(t, "0", s.requests[0].Get("page"))
	assert.Equal(t, url.Values{"filter": []string{"createCard"}}, params, "caller's params were modified")
}

func TestFetchAllWithHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.FetchAll(context.Background(), "boards/b1/cards", nil, Single{})

	var terr *TransportError
	require.Error(t, err)
	require.True(t, errors.As(err, &terr), "expected TransportError, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, terr.StatusCode)
	assert.NotContains(t, err.Error(), "test-token")
}

func TestFetchAllAbortsOnFailedPage(t *testing.T) {
	var count int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&count, 1) == 2 {
			http.Error(w, "oops", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, batch(0, 50))
	}))
	defer server.Close()

	client := newTestClient(server)

	list, err := client.FetchAll(context.Background(), "cards/c1/actions", nil, Pages{Size: 50, Max: 20})

	var terr *TransportError
	require.True(t, errors.As(err, &terr), "expected TransportError, got %T", err)
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
	assert.Nil(t, list)
	assert.Equal(t, int32(2), atomic.LoadInt32(&count), "failed page should not be retried")
}

func TestFetchAllWithNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(server)
	server.Close()

	_, err := client.FetchAll(context.Background(), "boards/b1/cards", nil, Single{})

	var terr *TransportError
	require.True(t, errors.As(err, &terr), "expected TransportError, got %T", err)
	assert.Equal(t, 0, terr.StatusCode)
	assert.NotContains(t, err.Error(), "test-token")
}

func TestFetchAllWithMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"a1"},`)
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.FetchAll(context.Background(), "boards/b1/cards", nil, Single{})

	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected ParseError, got %T", err)
}

func TestFetchAllWithObjectResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":"not a list"}`)
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.FetchAll(context.Background(), "boards/b1/cards", nil, Single{})

	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected ParseError, got %T", err)
}

func TestFetchAllWithCancelledContext(t *testing.T) {
	s := stub{}
	server := serve(t, &s, 1)
	client := newTestClient(server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchAll(ctx, "boards/b1/cards", nil, Single{})

	var terr *TransportError
	require.True(t, errors.As(err, &terr), "expected TransportError, got %T", err)
	assert.ErrorIs(t, err, context.Canceled)
}
