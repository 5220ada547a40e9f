package movies

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/movieduel/movieduel-backend/internal/preferences"
)

var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrCatalogExhausted = errors.New("no unseen movies left in catalog")
	ErrInvalidMovieID   = errors.New("invalid movie id")
)

const searchResultLimit = 10

// PreferenceSource resolves a user's stated taste
type PreferenceSource interface {
	GetPreferences(ctx context.Context, userID int64) (*preferences.UserPreferences, error)
}

// Service handles candidate selection and movie business logic
type Service interface {
	BuildCandidateSet(ctx context.Context, userID int64) ([]*CandidateMovie, error)
	ReplaceCandidate(ctx context.Context, userID, movieID int64, source string) (*CandidateMovie, error)
	ClearShownMovies(ctx context.Context, userID int64) error
	RateMovies(ctx context.Context, userID int64, req *RateMoviesRequest) error
	LikeMovie(ctx context.Context, userID, movieID int64) error
	UnlikeMovie(ctx context.Context, userID, movieID int64) error
	GetLikedMovies(ctx context.Context, userID int64) ([]*LikedMovie, error)
	SearchMovies(ctx context.Context, userID int64, search string) ([]*CandidateMovie, error)
	GetTMDBID(ctx context.Context, movieID int64) (int64, error)
}

type service struct {
	repo     Repository
	selector *Selector
	prefs    PreferenceSource
}

// NewService creates a new movies service
func NewService(repo Repository, selector *Selector, prefs PreferenceSource) Service {
	return &service{repo: repo, selector: selector, prefs: prefs}
}

// BuildCandidateSet assembles a fresh set of preference and diversity
// candidates and replaces the user's exclusion set with it. A partial set is
// served as-is when the catalog cannot fill the targets.
func (s *service) BuildCandidateSet(ctx context.Context, userID int64) ([]*CandidateMovie, error) {
	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	preferred, err := s.selector.BuildPreferenceSet(ctx, userID, prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to build preference candidates: %w", err)
	}

	diverse, err := s.selector.BuildDiversitySet(ctx, userID, prefs, preferred)
	if err != nil {
		return nil, fmt.Errorf("failed to build diversity candidates: %w", err)
	}

	candidates := append(preferred, diverse...)
	if len(candidates) == 0 {
		return nil, ErrCatalogExhausted
	}

	if err := s.repo.ReplaceShownMovies(ctx, userID, uuid.New(), candidates); err != nil {
		return nil, err
	}

	recordCandidateSet(len(candidates))
	return candidates, nil
}

// ReplaceCandidate swaps one rejected candidate for a fresh unseen one from
// the same selection path. Unlike the initial build, running out of catalog
// here is a hard failure.
func (s *service) ReplaceCandidate(ctx context.Context, userID, movieID int64, source string) (*CandidateMovie, error) {
	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if source != SourcePreference {
		source = SourceRandom
	}

	replacement, err := s.selector.FindReplacement(ctx, userID, prefs, source, []int64{movieID})
	if err != nil {
		return nil, err
	}

	if err := s.repo.AppendShownMovie(ctx, userID, replacement); err != nil {
		return nil, err
	}

	recordReplacement(source)
	return replacement, nil
}

func (s *service) ClearShownMovies(ctx context.Context, userID int64) error {
	return s.repo.ClearShownMovies(ctx, userID)
}

func (s *service) RateMovies(ctx context.Context, userID int64, req *RateMoviesRequest) error {
	ratings := make(map[int64]int, len(req.Ratings))
	for key, rating := range req.Ratings {
		movieID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidMovieID, key)
		}
		ratings[movieID] = rating
	}
	return s.repo.SaveRatings(ctx, userID, ratings)
}

func (s *service) LikeMovie(ctx context.Context, userID, movieID int64) error {
	exists, err := s.repo.MovieExists(ctx, movieID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMovieNotFound
	}
	return s.repo.LikeMovie(ctx, userID, movieID)
}

func (s *service) UnlikeMovie(ctx context.Context, userID, movieID int64) error {
	return s.repo.UnlikeMovie(ctx, userID, movieID)
}

func (s *service) GetLikedMovies(ctx context.Context, userID int64) ([]*LikedMovie, error) {
	movies, err := s.repo.GetLikedMovies(ctx, userID)
	if err != nil {
		return nil, err
	}

	liked := make([]*LikedMovie, len(movies))
	for i, m := range movies {
		lm := &LikedMovie{MovieID: m.MovieID, Title: m.Title}
		if year := ExtractYear(m.Title); year > 0 {
			lm.Year = &year
		}
		liked[i] = lm
	}
	return liked, nil
}

// SearchMovies returns ranked catalog matches, each tagged with the
// selection path it would have come from. A hit counts as a preference
// match only when its genres overlap the user's and its title year falls in
// the preferred span; users without stored preferences get everything
// tagged random.
func (s *service) SearchMovies(ctx context.Context, userID int64, search string) ([]*CandidateMovie, error) {
	found, err := s.repo.SearchMovies(ctx, search, searchResultLimit)
	if err != nil {
		return nil, err
	}

	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil && !errors.Is(err, preferences.ErrPreferencesMissing) {
		return nil, err
	}

	yearSet := make(map[int]bool)
	if prefs != nil {
		for _, y := range prefs.Years {
			yearSet[y] = true
		}
	}

	results := make([]*CandidateMovie, len(found))
	for i, m := range found {
		source := SourceRandom
		if prefs != nil && genresOverlap(m, prefs.Genres) && yearSet[ExtractYear(m.Title)] {
			source = SourcePreference
		}
		results[i] = &CandidateMovie{Movie: *m, Source: source}
	}
	return results, nil
}

func (s *service) GetTMDBID(ctx context.Context, movieID int64) (int64, error) {
	return s.repo.GetTMDBID(ctx, movieID)
}
