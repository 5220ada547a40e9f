package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var (
	ErrScorerFailed        = errors.New("scorer run failed")
	ErrScorerOutputInvalid = errors.New("scorer produced invalid output")
)

// Scorer produces raw model predictions for a user
type Scorer interface {
	Score(ctx context.Context, input *ScorerInput) (*ScorerOutput, error)
}

// PythonScorer shells out to the model script and reads one JSON document
// back from stdout
type PythonScorer struct {
	python  string
	script  string
	timeout time.Duration
}

func NewPythonScorer(python, script string, timeout time.Duration) *PythonScorer {
	return &PythonScorer{python: python, script: script, timeout: timeout}
}

// scorerError is the error document the script emits instead of
// recommendations when it cannot score the user
type scorerError struct {
	Error string `json:"error"`
}

func (s *PythonScorer) Score(ctx context.Context, input *ScorerInput) (*ScorerOutput, error) {
	args, err := scorerArgs(s.script, input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, s.python, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		recordScorerRun("failed", time.Since(start))
		log.Printf("scorer exited with error for user %d: %v (stderr: %s)",
			input.UserID, err, strings.TrimSpace(stderr.String()))
		return nil, ErrScorerFailed
	}

	output, err := parseScorerOutput(stdout.Bytes())
	if err != nil {
		recordScorerRun("invalid_output", time.Since(start))
		log.Printf("scorer output unusable for user %d: %v", input.UserID, err)
		return nil, err
	}

	recordScorerRun("ok", time.Since(start))
	return output, nil
}

// scorerArgs builds the script's CLI arguments. All list and map values are
// JSON-encoded, and ratings and user id are mutually exclusive: the script
// scores against fresh ratings when it has them, otherwise against the
// user's stored history.
func scorerArgs(script string, input *ScorerInput) ([]string, error) {
	args := []string{script}

	if len(input.Ratings) > 0 {
		ratings, err := json.Marshal(input.Ratings)
		if err != nil {
			return nil, fmt.Errorf("failed to encode ratings: %w", err)
		}
		args = append(args, "--ratings", string(ratings))
	} else {
		args = append(args, "--user_id", strconv.FormatInt(input.UserID, 10))
	}

	if len(input.Genres) > 0 {
		genres, err := json.Marshal(input.Genres)
		if err != nil {
			return nil, fmt.Errorf("failed to encode genres: %w", err)
		}
		args = append(args, "--genres", string(genres))
	}

	if len(input.Years) > 0 {
		years, err := json.Marshal(input.Years)
		if err != nil {
			return nil, fmt.Errorf("failed to encode years: %w", err)
		}
		args = append(args, "--decade", string(years))
	}

	return args, nil
}

// parseScorerOutput decodes the final JSON document on stdout. The script
// may print progress noise before it, so scan for the last line that parses.
func parseScorerOutput(raw []byte) (*ScorerOutput, error) {
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}

		var failure scorerError
		if err := json.Unmarshal([]byte(line), &failure); err == nil && failure.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrScorerFailed, failure.Error)
		}

		var output ScorerOutput
		if err := json.Unmarshal([]byte(line), &output); err == nil {
			return &output, nil
		}
	}
	return nil, ErrScorerOutputInvalid
}
