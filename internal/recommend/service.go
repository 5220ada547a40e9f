package recommend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/movieduel/movieduel-backend/internal/feedback"
	"github.com/movieduel/movieduel-backend/internal/movies"
	"github.com/movieduel/movieduel-backend/internal/preferences"
)

const unknownTitle = "Unknown Movie"

// PreferenceSource resolves a user's stated taste for the scorer input
type PreferenceSource interface {
	GetPreferences(ctx context.Context, userID int64) (*preferences.UserPreferences, error)
}

// MovieStore provides the catalog metadata recommendations are enriched with
type MovieStore interface {
	GetMoviesByIDs(ctx context.Context, movieIDs []int64) ([]*movies.Movie, error)
	GetLikedMovieIDs(ctx context.Context, userID int64, movieIDs []int64) (map[int64]bool, error)
}

// WatchRatingSource supplies the user's watch-likelihood ratings so they can
// be joined onto the lists they belong to
type WatchRatingSource interface {
	GetMovieRatings(ctx context.Context, userID int64) (*feedback.MovieRatings, error)
}

// Service runs the scorer and enriches its output
type Service interface {
	GetRecommendations(ctx context.Context, userID int64) (*Recommendations, error)
}

type service struct {
	repo   Repository
	scorer Scorer
	prefs  PreferenceSource
	store  MovieStore
	votes  WatchRatingSource
}

// NewService creates a new recommend service
func NewService(repo Repository, scorer Scorer, prefs PreferenceSource, store MovieStore, votes WatchRatingSource) Service {
	return &service{repo: repo, scorer: scorer, prefs: prefs, store: store, votes: votes}
}

// GetRecommendations feeds the user's ratings and preferences to the scorer
// and enriches both prediction lists with catalog metadata. Items the
// catalog cannot resolve still come back, titled "Unknown Movie", so list
// length and ordering always mirror the scorer output.
func (s *service) GetRecommendations(ctx context.Context, userID int64) (*Recommendations, error) {
	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	ratings, err := s.repo.GetSurveyRatings(ctx, userID)
	if err != nil {
		return nil, err
	}

	output, err := s.scorer.Score(ctx, &ScorerInput{
		UserID:  userID,
		Ratings: ratings,
		Genres:  prefs.Genres,
		Years:   prefs.Years,
	})
	if err != nil {
		return nil, err
	}

	itemIDs := unionItemIDs(output.NCF, output.CF)

	catalog, err := s.store.GetMoviesByIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation metadata: %w", err)
	}
	byID := make(map[int64]*movies.Movie, len(catalog))
	for _, m := range catalog {
		byID[m.MovieID] = m
	}

	liked, err := s.store.GetLikedMovieIDs(ctx, userID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load liked movies: %w", err)
	}

	watchRatings, err := s.votes.GetMovieRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load watch ratings: %w", err)
	}

	return &Recommendations{
		NCF: enrich(output.NCF, SourceNeuralCF, byID, liked, watchRatings.NCF),
		CF:  enrich(output.CF, SourceUserCF, byID, liked, watchRatings.CF),
	}, nil
}

func enrich(items []ScoredItem, source string, byID map[int64]*movies.Movie, liked map[int64]bool, watchRatings map[string]int) []*RecommendationItem {
	out := make([]*RecommendationItem, len(items))
	for i, item := range items {
		rec := &RecommendationItem{
			ItemID:     item.ItemID,
			Prediction: item.Prediction,
			Title:      unknownTitle,
			Source:     source,
			IsLiked:    liked[item.ItemID],
		}
		if m, ok := byID[item.ItemID]; ok {
			rec.Title = m.Title
			rec.Genres = m.Genres
		}
		if likelihood, ok := watchRatings[strconv.FormatInt(item.ItemID, 10)]; ok {
			rec.WatchLikelihood = &likelihood
		}
		out[i] = rec
	}
	return out
}

func unionItemIDs(lists ...[]ScoredItem) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, list := range lists {
		for _, item := range list {
			if !seen[item.ItemID] {
				seen[item.ItemID] = true
				ids = append(ids, item.ItemID)
			}
		}
	}
	return ids
}
