package preferences

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrPreferencesMissing means the user has not answered the genre or decade
// question yet. Surfaced as "not found", never as a server error.
var ErrPreferencesMissing = errors.New("user preferences not found")

// Service resolves raw survey answers into structured preferences
type Service interface {
	// GetPreferences returns the user's genre set and expanded year list.
	// Fails with ErrPreferencesMissing when either answer is absent and
	// with ErrUnknownDecade when the stored decade label is unparseable.
	GetPreferences(ctx context.Context, userID int64) (*UserPreferences, error)

	SubmitAnswers(ctx context.Context, userID int64, req *SubmitAnswersRequest) error
	Status(ctx context.Context, userID int64) (*AnswersStatus, error)
}

type service struct {
	repo Repository
}

// NewService creates a new preferences service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetPreferences resolves the stored answers for the pipeline
func (s *service) GetPreferences(ctx context.Context, userID int64) (*UserPreferences, error) {
	answers, err := s.repo.GetAnswers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	prefs := &UserPreferences{}
	for _, answer := range answers {
		switch answer.QuestionID {
		case QuestionGenres:
			prefs.Genres = splitAnswer(answer.Answer)
		case QuestionDecade:
			prefs.Decade = strings.TrimSpace(answer.Answer)
		}
	}

	if len(prefs.Genres) == 0 || prefs.Decade == "" {
		return nil, ErrPreferencesMissing
	}

	years, err := ExpandDecade(prefs.Decade)
	if err != nil {
		return nil, err
	}
	prefs.Years = years

	return prefs, nil
}

// SubmitAnswers persists the questionnaire payload. Multi-select answers
// are pipe-joined the same way the survey UI stores them.
func (s *service) SubmitAnswers(ctx context.Context, userID int64, req *SubmitAnswersRequest) error {
	// Deterministic write order keeps upsert behavior predictable
	questionIDs := make([]string, 0, len(req.Answers))
	for questionID := range req.Answers {
		questionIDs = append(questionIDs, questionID)
	}
	sort.Strings(questionIDs)

	for _, rawID := range questionIDs {
		questionID, err := strconv.Atoi(rawID)
		if err != nil {
			return fmt.Errorf("invalid question id %q", rawID)
		}

		answer, err := flattenAnswer(req.Answers[rawID])
		if err != nil {
			return fmt.Errorf("question %d: %w", questionID, err)
		}

		if err := s.repo.UpsertAnswer(ctx, userID, questionID, answer); err != nil {
			return fmt.Errorf("failed to save answer %d: %w", questionID, err)
		}
	}

	return nil
}

// Status reports whether the user has completed the survey
func (s *service) Status(ctx context.Context, userID int64) (*AnswersStatus, error) {
	completed, err := s.repo.HasAnswers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AnswersStatus{Completed: completed}, nil
}

// splitAnswer turns a stored pipe-joined answer back into its parts
func splitAnswer(answer string) []string {
	if !strings.Contains(answer, "|") {
		trimmed := strings.TrimSpace(answer)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	parts := strings.Split(answer, "|")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// flattenAnswer converts a JSON answer (string or array of strings) into
// the stored pipe-joined form
func flattenAnswer(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return "", fmt.Errorf("unexpected answer element type %T", item)
			}
			parts = append(parts, strings.TrimSpace(str))
		}
		return strings.Join(parts, " | "), nil
	default:
		return "", fmt.Errorf("unexpected answer type %T", value)
	}
}
