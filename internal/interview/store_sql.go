package interview

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutJob(ctx context.Context, j Job) error {
	qj, err := json.Marshal(j.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO jobs (id,title,company,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, company=EXCLUDED.company, questions_json=EXCLUDED.questions_json`,
		j.ID, j.Title, j.Company, string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetJob(ctx context.Context, id string) (Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,company,questions_json,created_at FROM jobs WHERE id=$1`, id)
	var j Job
	var qjson string
	if err := row.Scan(&j.ID, &j.Title, &j.Company, &qjson, &j.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrJobNotFound
		}
		return Job{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &j.Questions); err != nil {
		return Job{}, err
	}
	return j, nil
}

func (s *SQLStore) NewAttempt(ctx context.Context, jobID, candidateID, candidateName string) (Attempt, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM jobs WHERE id=$1`, jobID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrJobNotFound
		}
		return Attempt{}, err
	}
	a := Attempt{
		ID:            uuid.NewString(),
		JobID:         jobID,
		CandidateID:   candidateID,
		CandidateName: candidateName,
		Status:        "in_progress",
		StartedAt:     time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO attempts (id,job_id,candidate_id,candidate_name,status,interview_score,started_at)
		VALUES ($1,$2,$3,$4,'in_progress',0,$5)`,
		a.ID, a.JobID, a.CandidateID, a.CandidateName, a.StartedAt)
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,job_id,candidate_id,candidate_name,status,result_json,
		interview_score,interview_recommendation,interview_feedback,started_at,scored_at
		FROM attempts WHERE id=$1`, id)
	var a Attempt
	var resultJSON, rec, feedback sql.NullString
	var scoredAt sql.NullInt64
	if err := row.Scan(&a.ID, &a.JobID, &a.CandidateID, &a.CandidateName, &a.Status,
		&resultJSON, &a.Score, &rec, &feedback, &a.StartedAt, &scoredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	a.Recommendation = rec.String
	a.Feedback = feedback.String
	a.ScoredAt = scoredAt.Int64
	if resultJSON.Valid && resultJSON.String != "" {
		var r ScoringResult
		if err := json.Unmarshal([]byte(resultJSON.String), &r); err == nil {
			a.Result = &r
			a.Evaluations = r.Evaluations
		}
	}
	return a, nil
}

func (s *SQLStore) SaveResult(ctx context.Context, attemptID string, result ScoringResult, feedback string) (Attempt, error) {
	buf, err := json.Marshal(result)
	if err != nil {
		return Attempt{}, err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE attempts SET status='scored', result_json=$1,
		interview_score=$2, interview_recommendation=$3, interview_feedback=$4, scored_at=$5
		WHERE id=$6`,
		string(buf), result.FinalScorePercent, result.Recommendation, feedback, time.Now().Unix(), attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Attempt{}, ErrAttemptNotFound
	}
	return s.GetAttempt(ctx, attemptID)
}
