package preferences

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	answers map[int]string
	saved   map[int]string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{answers: map[int]string{}, saved: map[int]string{}}
}

func (f *fakeRepository) GetAnswers(ctx context.Context, userID int64) ([]*Answer, error) {
	var out []*Answer
	for id, answer := range f.answers {
		out = append(out, &Answer{UserID: userID, QuestionID: id, Answer: answer})
	}
	return out, nil
}

func (f *fakeRepository) UpsertAnswer(ctx context.Context, userID int64, questionID int, answer string) error {
	f.saved[questionID] = answer
	return nil
}

func (f *fakeRepository) HasAnswers(ctx context.Context, userID int64) (bool, error) {
	return len(f.answers) > 0, nil
}

func TestGetPreferences(t *testing.T) {
	repo := newFakeRepository()
	repo.answers[QuestionGenres] = "Action | Comedy | Sci-Fi"
	repo.answers[QuestionDecade] = "1990s"
	svc := NewService(repo)

	prefs, err := svc.GetPreferences(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"Action", "Comedy", "Sci-Fi"}, prefs.Genres)
	assert.Equal(t, "1990s", prefs.Decade)
	require.Len(t, prefs.Years, 10)
	assert.Equal(t, 1990, prefs.Years[0])
}

func TestGetPreferencesSingleGenre(t *testing.T) {
	repo := newFakeRepository()
	repo.answers[QuestionGenres] = "Horror"
	repo.answers[QuestionDecade] = "2000s"
	svc := NewService(repo)

	prefs, err := svc.GetPreferences(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Horror"}, prefs.Genres)
}

func TestGetPreferencesMissingAnswers(t *testing.T) {
	cases := map[string]map[int]string{
		"no answers":  {},
		"only genres": {QuestionGenres: "Action"},
		"only decade": {QuestionDecade: "1990s"},
		"blank genre": {QuestionGenres: "  ", QuestionDecade: "1990s"},
	}

	for name, answers := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newFakeRepository()
			repo.answers = answers
			svc := NewService(repo)

			_, err := svc.GetPreferences(context.Background(), 1)
			assert.ErrorIs(t, err, ErrPreferencesMissing)
		})
	}
}

func TestGetPreferencesUnknownDecade(t *testing.T) {
	repo := newFakeRepository()
	repo.answers[QuestionGenres] = "Action"
	repo.answers[QuestionDecade] = "the olden days"
	svc := NewService(repo)

	_, err := svc.GetPreferences(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnknownDecade)
}

func TestSubmitAnswersFlattensArrays(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	req := &SubmitAnswersRequest{Answers: map[string]interface{}{
		"1": []interface{}{"Action", "Comedy"},
		"2": "1990s",
	}}
	require.NoError(t, svc.SubmitAnswers(context.Background(), 7, req))

	assert.Equal(t, "Action | Comedy", repo.saved[QuestionGenres])
	assert.Equal(t, "1990s", repo.saved[QuestionDecade])
}

func TestSubmitAnswersRejectsBadQuestionID(t *testing.T) {
	svc := NewService(newFakeRepository())

	req := &SubmitAnswersRequest{Answers: map[string]interface{}{"genres": "Action"}}
	assert.Error(t, svc.SubmitAnswers(context.Background(), 7, req))
}

func TestStatus(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	status, err := svc.Status(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, status.Completed)

	repo.answers[QuestionGenres] = "Action"
	status, err = svc.Status(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, status.Completed)
}
