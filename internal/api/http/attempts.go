package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hirelane/hirelane-ats/internal/audit"
	"github.com/hirelane/hirelane-ats/internal/grader"
	"github.com/hirelane/hirelane-ats/internal/interview"
	"github.com/hirelane/hirelane-ats/internal/scoring"
)

// Attempts holds the collaborators of the interview-attempt surface. The
// two engines differ only in recommendation policy and rounding: the
// evaluate path uses the threshold taxonomy, the complete path the banded
// one. Grader may be nil when no grading credentials are configured.
type Attempts struct {
	Store          interview.Store
	Grader         grader.Grader
	EvaluateEngine *scoring.Engine
	CompleteEngine *scoring.Engine
	Events         *audit.EventRepo // optional
}

// POST /attempts  { "job_id": "...", "candidate_id": "...", "candidate_name": "..." }
func (h *Attempts) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID         string `json:"job_id"`
		CandidateID   string `json:"candidate_id"`
		CandidateName string `json:"candidate_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.JobID == "" || req.CandidateID == "" {
		http.Error(w, "job_id and candidate_id required", http.StatusBadRequest)
		return
	}
	a, err := h.Store.NewAttempt(r.Context(), req.JobID, req.CandidateID, req.CandidateName)
	if err != nil {
		if errors.Is(err, interview.ErrJobNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(a)
}

// GET /attempts/{attemptID}
func (h *Attempts) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Store.GetAttempt(r.Context(), chi.URLParam(r, "attemptID"))
	if err != nil {
		if errors.Is(err, interview.ErrAttemptNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(a)
}

type evaluateReq struct {
	Answers []struct {
		QuestionNumber int    `json:"question_number"`
		Answer         string `json:"answer"`
	} `json:"answers"`
}

// POST /attempts/{attemptID}/evaluate
// Grades the supplied answers one model call per question, fans the calls
// out concurrently, and scores whatever set was actually evaluated.
func (h *Attempts) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h.Grader == nil {
		http.Error(w, "grading not configured", http.StatusInternalServerError)
		return
	}
	attemptID := chi.URLParam(r, "attemptID")
	var req evaluateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	a, job, err := h.loadAttemptJob(r, attemptID)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	byNumber := make(map[int]interview.Question, len(job.Questions))
	for _, q := range job.Questions {
		byNumber[q.Number] = q
	}

	var questions []interview.Question
	var reqs []grader.AnswerRequest
	for _, ans := range req.Answers {
		q, ok := byNumber[ans.QuestionNumber]
		if !ok {
			continue
		}
		questions = append(questions, q)
		reqs = append(reqs, grader.AnswerRequest{
			QuestionNumber: q.Number,
			Question:       q.Text,
			Answer:         ans.Answer,
			Criterion:      q.Criterion,
			Difficulty:     q.Difficulty,
			MaxMarks:       float64(h.EvaluateEngine.MarksFor(q)),
		})
	}

	evals := h.Grader.GradeAnswers(r.Context(), reqs)
	result := h.EvaluateEngine.ComputeEvaluations(questions, evals)
	h.persist(w, r, a.ID, result)
}

type completeReq struct {
	Transcript string `json:"transcript"`
}

// POST /attempts/{attemptID}/complete
// Grades the whole interview from one transcript in a single model call,
// then scores the job's full question set (unanswered questions count 0).
func (h *Attempts) Complete(w http.ResponseWriter, r *http.Request) {
	if h.Grader == nil {
		http.Error(w, "grading not configured", http.StatusInternalServerError)
		return
	}
	attemptID := chi.URLParam(r, "attemptID")
	var req completeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Transcript == "" {
		http.Error(w, "transcript required", http.StatusBadRequest)
		return
	}

	a, job, err := h.loadAttemptJob(r, attemptID)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	tr := h.Grader.GradeTranscript(r.Context(), grader.TranscriptRequest{
		Questions:     job.Questions,
		Transcript:    req.Transcript,
		JobTitle:      job.Title,
		Company:       job.Company,
		CandidateName: a.CandidateName,
	})

	result := h.CompleteEngine.ComputeEvaluations(job.Questions, tr.Evaluations)
	result.Summary = tr.Summary
	if len(tr.KeyStrengths) > 0 {
		result.KeyStrengths = tr.KeyStrengths
	}
	if len(tr.AreasForImprovement) > 0 {
		result.AreasForImprovement = tr.AreasForImprovement
	}
	h.persist(w, r, a.ID, result)
}

// GET /attempts/{attemptID}/audit
func (h *Attempts) Audit(w http.ResponseWriter, r *http.Request) {
	if h.Events == nil {
		http.Error(w, "audit log not enabled", http.StatusNotFound)
		return
	}
	events, err := h.Events.ForKey(r.Context(), chi.URLParam(r, "attemptID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(events)
}

func (h *Attempts) loadAttemptJob(r *http.Request, attemptID string) (interview.Attempt, interview.Job, error) {
	a, err := h.Store.GetAttempt(r.Context(), attemptID)
	if err != nil {
		return interview.Attempt{}, interview.Job{}, err
	}
	job, err := h.Store.GetJob(r.Context(), a.JobID)
	if err != nil {
		return interview.Attempt{}, interview.Job{}, err
	}
	return a, job, nil
}

// persist writes the snapshot plus promoted scalars, appends the audit
// event, and returns the refreshed attempt.
func (h *Attempts) persist(w http.ResponseWriter, r *http.Request, attemptID string, result interview.ScoringResult) {
	feedback := scoring.FeedbackSummary(result)
	a, err := h.Store.SaveResult(r.Context(), attemptID, result, feedback)
	if err != nil {
		http.Error(w, "save result: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if h.Events != nil {
		buf, _ := json.Marshal(result)
		if err := h.Events.Append(r.Context(), audit.Event{
			Type:     audit.EventScoreComputed,
			Key:      attemptID,
			DataJSON: string(buf),
		}); err != nil {
			log.Printf("audit append for attempt %s: %v", attemptID, err)
		}
	}
	_ = json.NewEncoder(w).Encode(a)
}

func writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, interview.ErrAttemptNotFound) || errors.Is(err, interview.ErrJobNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
