package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TMDBClient queries the TMDB discover endpoint for candidate movies.
// Responses are matched back against the local catalog by tmdb id, so the
// client only surfaces ids, not full metadata.
type TMDBClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	minVotes   int
}

// TMDBConfig holds the settings the client needs
type TMDBConfig struct {
	BaseURL  string
	APIToken string
	MinVotes int
	Timeout  time.Duration
}

func NewTMDBClient(cfg TMDBConfig) *TMDBClient {
	return &TMDBClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.APIToken,
		minVotes:   cfg.MinVotes,
	}
}

// DiscoverQuery describes one page of a discover request
type DiscoverQuery struct {
	GenreCodes []int
	YearFrom   int
	YearTo     int
	Page       int
}

// TMDBMovie is the slice of a discover result we care about
type TMDBMovie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type discoverResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// DiscoverMovies fetches one page of popular movies matching the query.
// Results are ordered by descending popularity and filtered to titles with
// enough votes to be broadly recognizable.
func (c *TMDBClient) DiscoverMovies(ctx context.Context, query DiscoverQuery) ([]TMDBMovie, error) {
	params := url.Values{}
	params.Set("language", "en-US")
	params.Set("sort_by", "popularity.desc")
	params.Set("vote_count.gte", strconv.Itoa(c.minVotes))
	params.Set("page", strconv.Itoa(query.Page))

	if len(query.GenreCodes) > 0 {
		codes := make([]string, len(query.GenreCodes))
		for i, code := range query.GenreCodes {
			codes[i] = strconv.Itoa(code)
		}
		params.Set("with_genres", strings.Join(codes, "|"))
	}
	if query.YearFrom > 0 {
		params.Set("primary_release_date.gte", fmt.Sprintf("%d-01-01", query.YearFrom))
	}
	if query.YearTo > 0 {
		params.Set("primary_release_date.lte", fmt.Sprintf("%d-12-31", query.YearTo))
	}

	endpoint := fmt.Sprintf("%s/discover/movie?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build discover request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discover request returned status %d", resp.StatusCode)
	}

	var page discoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode discover response: %w", err)
	}
	return page.Results, nil
}
