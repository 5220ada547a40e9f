package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movieduel/movieduel-backend/internal/feedback"
	"github.com/movieduel/movieduel-backend/internal/movies"
	"github.com/movieduel/movieduel-backend/internal/preferences"
)

type fakeRepository struct {
	ratings map[string]int
}

func (f *fakeRepository) GetSurveyRatings(ctx context.Context, userID int64) (map[string]int, error) {
	return f.ratings, nil
}

type fakePrefs struct {
	prefs *preferences.UserPreferences
	err   error
}

func (f *fakePrefs) GetPreferences(ctx context.Context, userID int64) (*preferences.UserPreferences, error) {
	return f.prefs, f.err
}

type fakeScorer struct {
	output *ScorerOutput
	err    error
	input  *ScorerInput
}

func (f *fakeScorer) Score(ctx context.Context, input *ScorerInput) (*ScorerOutput, error) {
	f.input = input
	return f.output, f.err
}

type fakeStore struct {
	movies map[int64]*movies.Movie
	liked  map[int64]bool
}

func (f *fakeStore) GetMoviesByIDs(ctx context.Context, movieIDs []int64) ([]*movies.Movie, error) {
	var out []*movies.Movie
	for _, id := range movieIDs {
		if m, ok := f.movies[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) GetLikedMovieIDs(ctx context.Context, userID int64, movieIDs []int64) (map[int64]bool, error) {
	return f.liked, nil
}

type fakeVotes struct {
	ratings *feedback.MovieRatings
	err     error
}

func (f *fakeVotes) GetMovieRatings(ctx context.Context, userID int64) (*feedback.MovieRatings, error) {
	if f.ratings == nil && f.err == nil {
		return &feedback.MovieRatings{NCF: map[string]int{}, CF: map[string]int{}}, nil
	}
	return f.ratings, f.err
}

func somePrefs() *preferences.UserPreferences {
	return &preferences.UserPreferences{
		Genres: []string{"Action", "Comedy"},
		Decade: "1990s",
		Years:  []int{1990, 1991},
	}
}

func TestGetRecommendationsEnrichesBothLists(t *testing.T) {
	scorer := &fakeScorer{output: &ScorerOutput{
		NCF: []ScoredItem{{ItemID: 1, Prediction: 4.8}, {ItemID: 2, Prediction: 4.1}},
		CF:  []ScoredItem{{ItemID: 2, Prediction: 3.7}},
	}}
	store := &fakeStore{
		movies: map[int64]*movies.Movie{
			1: {MovieID: 1, Title: "Heat (1995)", Genres: "Action|Crime"},
			2: {MovieID: 2, Title: "Clue (1985)", Genres: "Comedy|Mystery"},
		},
		liked: map[int64]bool{2: true},
	}
	svc := NewService(&fakeRepository{ratings: map[string]int{"1": 5}}, scorer,
		&fakePrefs{prefs: somePrefs()}, store, &fakeVotes{})

	recs, err := svc.GetRecommendations(context.Background(), 9)
	require.NoError(t, err)

	require.Len(t, recs.NCF, 2)
	assert.Equal(t, "Heat (1995)", recs.NCF[0].Title)
	assert.Equal(t, SourceNeuralCF, recs.NCF[0].Source)
	assert.False(t, recs.NCF[0].IsLiked)
	assert.True(t, recs.NCF[1].IsLiked)

	require.Len(t, recs.CF, 1)
	assert.Equal(t, SourceUserCF, recs.CF[0].Source)
	assert.InDelta(t, 3.7, recs.CF[0].Prediction, 0.001)
}

func TestGetRecommendationsUnknownMovieFallback(t *testing.T) {
	scorer := &fakeScorer{output: &ScorerOutput{
		NCF: []ScoredItem{{ItemID: 1, Prediction: 4.0}, {ItemID: 999, Prediction: 3.5}},
	}}
	store := &fakeStore{movies: map[int64]*movies.Movie{
		1: {MovieID: 1, Title: "Known (1999)", Genres: "Drama"},
	}}
	svc := NewService(&fakeRepository{}, scorer, &fakePrefs{prefs: somePrefs()}, store, &fakeVotes{})

	recs, err := svc.GetRecommendations(context.Background(), 9)
	require.NoError(t, err)

	// Length and order mirror the scorer output even when metadata is missing
	require.Len(t, recs.NCF, 2)
	assert.Equal(t, int64(999), recs.NCF[1].ItemID)
	assert.Equal(t, "Unknown Movie", recs.NCF[1].Title)
	assert.Empty(t, recs.NCF[1].Genres)
}

func TestGetRecommendationsPassesScorerInput(t *testing.T) {
	scorer := &fakeScorer{output: &ScorerOutput{}}
	ratings := map[string]int{"10": 4, "20": 2}
	svc := NewService(&fakeRepository{ratings: ratings}, scorer,
		&fakePrefs{prefs: somePrefs()}, &fakeStore{}, &fakeVotes{})

	_, err := svc.GetRecommendations(context.Background(), 42)
	require.NoError(t, err)

	require.NotNil(t, scorer.input)
	assert.Equal(t, int64(42), scorer.input.UserID)
	assert.Equal(t, ratings, scorer.input.Ratings)
	assert.Equal(t, []string{"Action", "Comedy"}, scorer.input.Genres)
	assert.Equal(t, []int{1990, 1991}, scorer.input.Years)
}

func TestGetRecommendationsJoinsWatchRatings(t *testing.T) {
	scorer := &fakeScorer{output: &ScorerOutput{
		NCF: []ScoredItem{{ItemID: 1, Prediction: 4.5}, {ItemID: 2, Prediction: 4.0}},
		CF:  []ScoredItem{{ItemID: 1, Prediction: 3.9}},
	}}
	store := &fakeStore{movies: map[int64]*movies.Movie{
		1: {MovieID: 1, Title: "Fargo (1996)", Genres: "Crime|Drama"},
		2: {MovieID: 2, Title: "Big (1988)", Genres: "Comedy"},
	}}
	votes := &fakeVotes{ratings: &feedback.MovieRatings{
		NCF: map[string]int{"1": 5},
		CF:  map[string]int{"1": 2},
	}}
	svc := NewService(&fakeRepository{}, scorer,
		&fakePrefs{prefs: somePrefs()}, store, votes)

	recs, err := svc.GetRecommendations(context.Background(), 9)
	require.NoError(t, err)

	// The same movie carries the rating given under each algorithm
	require.NotNil(t, recs.NCF[0].WatchLikelihood)
	assert.Equal(t, 5, *recs.NCF[0].WatchLikelihood)
	assert.Nil(t, recs.NCF[1].WatchLikelihood)
	require.NotNil(t, recs.CF[0].WatchLikelihood)
	assert.Equal(t, 2, *recs.CF[0].WatchLikelihood)
}

func TestGetRecommendationsScorerFailure(t *testing.T) {
	scorer := &fakeScorer{err: ErrScorerFailed}
	svc := NewService(&fakeRepository{}, scorer, &fakePrefs{prefs: somePrefs()}, &fakeStore{}, &fakeVotes{})

	_, err := svc.GetRecommendations(context.Background(), 9)
	assert.ErrorIs(t, err, ErrScorerFailed)
}

func TestGetRecommendationsMissingPreferences(t *testing.T) {
	svc := NewService(&fakeRepository{}, &fakeScorer{},
		&fakePrefs{err: preferences.ErrPreferencesMissing}, &fakeStore{}, &fakeVotes{})

	_, err := svc.GetRecommendations(context.Background(), 9)
	assert.ErrorIs(t, err, preferences.ErrPreferencesMissing)
}
