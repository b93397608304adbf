// Package grader adapts an external chat-completion model into the scoring
// engine's input shape. Grading is best-effort: a malformed model response
// degrades to a neutral default rather than failing the interview, so the
// engine always receives a usable tuple per question.
package grader

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/hirelane/hirelane-ats/internal/interview"
)

// ErrNotConfigured means no grading credentials are available. Nothing can
// be scored without a model, so this aborts the flow (HTTP 500 upstream).
var ErrNotConfigured = errors.New("grader: no API key configured")

// ChatClient issues a single JSON-mode chat completion.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AnswerRequest grades one free-text answer against one authored question.
type AnswerRequest struct {
	QuestionNumber int
	Question       string
	Answer         string
	Criterion      string
	Difficulty     string
	MaxMarks       float64
}

// Grader grades either individual answers or a whole transcript.
type Grader interface {
	GradeAnswer(ctx context.Context, req AnswerRequest) interview.Evaluation
	GradeAnswers(ctx context.Context, reqs []AnswerRequest) []interview.Evaluation
	GradeTranscript(ctx context.Context, in TranscriptRequest) TranscriptResult
}

// completeWithRetry retries exactly once on a transient failure. Parse
// failures are handled by the callers and never retried: the same input
// would reparse the same way.
func completeWithRetry(ctx context.Context, c ChatClient, system, user string) (string, error) {
	out, err := c.Complete(ctx, system, user)
	if err != nil && isTransient(err) {
		out, err = c.Complete(ctx, system, user)
	}
	return out, err
}

// extractJSON trims markdown code fences and any chatter around the
// outermost JSON object.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func unmarshalLoose(raw string, v interface{}) error {
	body := extractJSON(raw)
	if body == "" {
		return errors.New("no JSON object in response")
	}
	return json.Unmarshal([]byte(body), v)
}
