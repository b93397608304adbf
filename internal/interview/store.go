package interview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrAttemptNotFound = errors.New("attempt not found")
)

type Store interface {
	PutJob(ctx context.Context, j Job) error
	GetJob(ctx context.Context, id string) (Job, error)
	NewAttempt(ctx context.Context, jobID, candidateID, candidateName string) (Attempt, error)
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	// SaveResult writes the scoring snapshot for an attempt: the full result
	// JSON plus the promoted score/recommendation/feedback scalars. A new
	// snapshot replaces any prior one; concurrent completions of the same
	// attempt are not coordinated, last writer wins.
	SaveResult(ctx context.Context, attemptID string, result ScoringResult, feedback string) (Attempt, error)
}

type memoryStore struct {
	mu       sync.RWMutex
	jobs     map[string]Job
	attempts map[string]Attempt
}

func NewInMemoryStore() Store {
	return &memoryStore{
		jobs:     map[string]Job{},
		attempts: map[string]Attempt{},
	}
}

func (m *memoryStore) PutJob(_ context.Context, j Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j.CreatedAt == 0 {
		j.CreatedAt = time.Now().Unix()
	}
	m.jobs[j.ID] = j
	return nil
}

func (m *memoryStore) GetJob(_ context.Context, id string) (Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return j, nil
}

func (m *memoryStore) NewAttempt(_ context.Context, jobID, candidateID, candidateName string) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[jobID]; !ok {
		return Attempt{}, ErrJobNotFound
	}
	a := Attempt{
		ID:            uuid.NewString(),
		JobID:         jobID,
		CandidateID:   candidateID,
		CandidateName: candidateName,
		Status:        "in_progress",
		StartedAt:     time.Now().Unix(),
	}
	m.attempts[a.ID] = a
	return a, nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, nil
}

func (m *memoryStore) SaveResult(_ context.Context, attemptID string, result ScoringResult, feedback string) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	r := result
	a.Result = &r
	a.Evaluations = result.Evaluations
	a.Score = result.FinalScorePercent
	a.Recommendation = result.Recommendation
	a.Feedback = feedback
	a.Status = "scored"
	a.ScoredAt = time.Now().Unix()
	m.attempts[attemptID] = a
	return a, nil
}
