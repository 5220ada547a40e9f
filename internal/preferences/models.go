package preferences

import (
	"time"
)

// Survey question ids. The questionnaire collaborator writes answers keyed by
// these; this pipeline only ever reads questions 1 and 2.
const (
	QuestionGenres = 1 // multi-select, answers joined with " | "
	QuestionDecade = 2 // single-select decade label
)

// Answer represents one stored survey answer
type Answer struct {
	UserID     int64     `json:"user_id" db:"userid"`
	QuestionID int       `json:"question_id" db:"questionid"`
	Answer     string    `json:"answer" db:"answer"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// UserPreferences is the resolved view of a user's survey answers:
// the raw genre set plus the decade label expanded into individual years
type UserPreferences struct {
	Genres []string `json:"genres"`
	Decade string   `json:"decade"`
	Years  []int    `json:"years"`
}

// SubmitAnswersRequest carries the raw questionnaire payload.
// Answers are keyed by question id; multi-select answers arrive as arrays.
type SubmitAnswersRequest struct {
	Answers map[string]interface{} `json:"answers" validate:"required,min=1"`
}

// AnswersStatus reports whether the user has completed the survey
type AnswersStatus struct {
	Completed bool `json:"completed"`
}
