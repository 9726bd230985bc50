package similar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookshelf/internal/models"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/go%20in%20action", r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total":"2","books":[
			{"title":"Go in Practice","isbn13":"9781633430075","price":"$39.99","image":"https://img/1.png","url":"https://store/1"},
			{"title":"Go Web Programming","isbn13":"9781617292569","price":"$31.19","image":"https://img/2.png","url":"https://store/2"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	books, err := client.Search(context.Background(), "go in action")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Go in Practice", books[0].Title)
	assert.Equal(t, "$39.99", books[0].Price)
	assert.Equal(t, "https://store/2", books[1].URL)
}

func TestClient_SearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":"0"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	books, err := client.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestClient_SearchFailures(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"books": "not-a-list"`))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client := NewClient(server.URL, zap.NewNop())

			_, err := client.Search(context.Background(), "go")
			assert.ErrorIs(t, err, ErrFetchFailed)
		})
	}
}

func TestClient_SearchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, zap.NewNop())

	_, err := client.Search(context.Background(), "go")
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestQueryFor(t *testing.T) {
	testCases := []struct {
		name     string
		book     models.Book
		expected string
	}{
		{
			name:     "first three title words",
			book:     models.Book{Title: "The Go Programming Language", Author: "Donovan"},
			expected: "The Go Programming",
		},
		{
			name:     "short title used as is",
			book:     models.Book{Title: "Clean Code"},
			expected: "Clean Code",
		},
		{
			name:     "falls back to author",
			book:     models.Book{Title: "   ", Author: "R. Martin"},
			expected: "R. Martin",
		},
		{
			name:     "falls back to publisher",
			book:     models.Book{Publisher: "Manning"},
			expected: "Manning",
		},
		{
			name:     "default query",
			book:     models.Book{},
			expected: "javascript",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, QueryFor(tc.book))
		})
	}
}
