package feedback

import (
	"context"
	"errors"
	"strconv"
)

var ErrMovieNotFound = errors.New("movie not found")

// MovieStore checks that rated movies exist in the catalog
type MovieStore interface {
	MovieExists(ctx context.Context, movieID int64) (bool, error)
}

// Service handles feedback business logic
type Service interface {
	SubmitAlgorithmVote(ctx context.Context, userID int64, req *AlgorithmPreferenceRequest) error
	HasVoted(ctx context.Context, userID int64) (bool, error)
	RateMovie(ctx context.Context, userID int64, req *RateMovieRequest) error
	GetMovieRatings(ctx context.Context, userID int64) (*MovieRatings, error)
}

type service struct {
	repo  Repository
	store MovieStore
}

// NewService creates a new feedback service
func NewService(repo Repository, store MovieStore) Service {
	return &service{repo: repo, store: store}
}

func (s *service) SubmitAlgorithmVote(ctx context.Context, userID int64, req *AlgorithmPreferenceRequest) error {
	return s.repo.UpsertAlgorithmVote(ctx, &AlgorithmVote{
		UserID:     userID,
		NCFMovieID: req.NCFMovieID,
		CFMovieID:  req.CFMovieID,
		Preferred:  req.Preferred,
		NCFRating:  req.NCFRating,
		CFRating:   req.CFRating,
	})
}

func (s *service) HasVoted(ctx context.Context, userID int64) (bool, error) {
	return s.repo.HasVoted(ctx, userID)
}

func (s *service) RateMovie(ctx context.Context, userID int64, req *RateMovieRequest) error {
	exists, err := s.store.MovieExists(ctx, req.MovieID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMovieNotFound
	}
	return s.repo.UpsertWatchRating(ctx, userID, req.MovieID, req.Algorithm, req.WatchLikelihood)
}

func (s *service) GetMovieRatings(ctx context.Context, userID int64) (*MovieRatings, error) {
	ratings, err := s.repo.GetWatchRatings(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &MovieRatings{
		NCF: make(map[string]int),
		CF:  make(map[string]int),
	}
	for _, r := range ratings {
		key := strconv.FormatInt(r.MovieID, 10)
		switch r.Algorithm {
		case AlgorithmNCF:
			out.NCF[key] = r.Likelihood
		case AlgorithmCF:
			out.CF[key] = r.Likelihood
		}
	}
	return out, nil
}
