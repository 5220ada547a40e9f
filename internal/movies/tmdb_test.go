package movies

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *TMDBClient {
	return NewTMDBClient(TMDBConfig{
		BaseURL:  serverURL,
		APIToken: "test-token",
		MinVotes: 100,
		Timeout:  5 * time.Second,
	})
}

func TestDiscoverMoviesBuildsQuery(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":2,"results":[{"id":603,"title":"The Matrix"},{"id":604,"title":"The Matrix Reloaded"}],"total_pages":10,"total_results":200}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	results, err := client.DiscoverMovies(context.Background(), DiscoverQuery{
		GenreCodes: []int{28, 878},
		YearFrom:   1990,
		YearTo:     1999,
		Page:       2,
	})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, int64(603), results[0].ID)

	require.NotNil(t, captured)
	query := captured.URL.Query()
	assert.Equal(t, "en-US", query.Get("language"))
	assert.Equal(t, "popularity.desc", query.Get("sort_by"))
	assert.Equal(t, "100", query.Get("vote_count.gte"))
	assert.Equal(t, "28|878", query.Get("with_genres"))
	assert.Equal(t, "1990-01-01", query.Get("primary_release_date.gte"))
	assert.Equal(t, "1999-12-31", query.Get("primary_release_date.lte"))
	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "Bearer test-token", captured.Header.Get("Authorization"))
}

func TestDiscoverMoviesOmitsEmptyFilters(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	results, err := client.DiscoverMovies(context.Background(), DiscoverQuery{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, results)

	query := captured.URL.Query()
	assert.Empty(t, query.Get("with_genres"))
	assert.Empty(t, query.Get("primary_release_date.gte"))
	assert.Empty(t, query.Get("primary_release_date.lte"))
}

func TestDiscoverMoviesNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.DiscoverMovies(context.Background(), DiscoverQuery{Page: 1})
	assert.Error(t, err)
}

func TestDiscoverMoviesBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.DiscoverMovies(context.Background(), DiscoverQuery{Page: 1})
	assert.Error(t, err)
}
