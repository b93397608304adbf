package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hirelane/hirelane-ats/internal/grader"
	"github.com/hirelane/hirelane-ats/internal/interview"
	"github.com/hirelane/hirelane-ats/internal/scoring"
)

// fakeGrader returns canned scores keyed by question number and a fixed
// transcript evaluation, so handler tests stay deterministic.
type fakeGrader struct {
	answerScores     map[int]float64
	transcriptResult grader.TranscriptResult
}

func (f *fakeGrader) GradeAnswer(_ context.Context, req grader.AnswerRequest) interview.Evaluation {
	score := f.answerScores[req.QuestionNumber]
	return interview.Evaluation{
		QuestionNumber:    req.QuestionNumber,
		Score:             score,
		MarksObtained:     score / 100 * req.MaxMarks,
		CandidateResponse: req.Answer,
	}
}

func (f *fakeGrader) GradeAnswers(ctx context.Context, reqs []grader.AnswerRequest) []interview.Evaluation {
	out := make([]interview.Evaluation, len(reqs))
	for i, r := range reqs {
		out[i] = f.GradeAnswer(ctx, r)
	}
	return out
}

func (f *fakeGrader) GradeTranscript(_ context.Context, _ grader.TranscriptRequest) grader.TranscriptResult {
	return f.transcriptResult
}

func newTestRouter(g grader.Grader) (chi.Router, interview.Store) {
	store := interview.NewInMemoryStore()
	h := &Attempts{
		Store:          store,
		Grader:         g,
		EvaluateEngine: scoring.NewEngine(),
		CompleteEngine: scoring.NewEngine(
			scoring.WithEmptyTotalFallback(0),
			scoring.WithPolicy(scoring.BandedPolicy{}),
			scoring.WithCriterionRounding(scoring.RoundTwoDecimals),
		),
	}
	r := chi.NewRouter()
	r.Post("/jobs", CreateJobHandler(store, scoring.NewEngine()))
	r.Get("/jobs/{jobID}", GetJobHandler(store))
	r.Post("/attempts", h.Create)
	r.Get("/attempts/{attemptID}", h.Get)
	r.Post("/attempts/{attemptID}/evaluate", h.Evaluate)
	r.Post("/attempts/{attemptID}/complete", h.Complete)
	return r, store
}

func seed(t *testing.T, store interview.Store) (jobID, attemptID string) {
	t.Helper()
	ctx := context.Background()
	job := interview.Job{
		ID:      "job-1",
		Title:   "Platform Engineer",
		Company: "Hirelane",
		Questions: []interview.Question{
			{Number: 1, Text: "Explain TCP backpressure", Criterion: "Technical Skills", Difficulty: interview.DifficultyHigh, Marks: 15},
			{Number: 2, Text: "Tell me about a disagreement", Criterion: "Communication", Difficulty: interview.DifficultyMedium, Marks: 10},
		},
	}
	if err := store.PutJob(ctx, job); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	a, err := store.NewAttempt(ctx, job.ID, "cand-1", "Ada")
	if err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
	return job.ID, a.ID
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateJobDerivesMarks(t *testing.T) {
	r, _ := newTestRouter(&fakeGrader{})
	w := doJSON(t, r, "POST", "/jobs", `{
		"title": "SRE", "company": "Hirelane",
		"questions": [
			{"question_number": 1, "text": "Q1", "criterion": "Technical Skills", "difficulty": "High"},
			{"question_number": 2, "text": "Q2", "criterion": "Communication", "difficulty": "Low"},
			{"question_number": 3, "text": "Q3", "criterion": "Technical Skills", "difficulty": "Medium", "marks": 25}
		]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var job interview.Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []int{15, 5, 25} // High, Low, explicit override
	for i, q := range job.Questions {
		if q.Marks != want[i] {
			t.Errorf("question %d marks = %d, want %d", q.Number, q.Marks, want[i])
		}
	}
}

func TestCreateJobRejectsDuplicateNumbers(t *testing.T) {
	r, _ := newTestRouter(&fakeGrader{})
	w := doJSON(t, r, "POST", "/jobs", `{
		"title": "SRE",
		"questions": [
			{"question_number": 1, "text": "Q1"},
			{"question_number": 1, "text": "Q1 again"}
		]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEvaluateAttemptPersistsThresholdResult(t *testing.T) {
	g := &fakeGrader{answerScores: map[int]float64{1: 100, 2: 100}}
	r, store := newTestRouter(g)
	_, attemptID := seed(t, store)

	w := doJSON(t, r, "POST", "/attempts/"+attemptID+"/evaluate", `{
		"answers": [
			{"question_number": 1, "answer": "backpressure is ..."},
			{"question_number": 2, "answer": "we disagreed about ..."}
		]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var a interview.Attempt
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Status != "scored" || a.Score != 100 {
		t.Errorf("attempt = %+v, want scored at 100", a)
	}
	if a.Recommendation != "Hire" {
		t.Errorf("recommendation = %q, want Hire", a.Recommendation)
	}
	if a.Result == nil || a.Result.TotalMarks != 25 {
		t.Errorf("result snapshot wrong: %+v", a.Result)
	}
	if !strings.Contains(a.Feedback, "Overall 100%") {
		t.Errorf("feedback = %q", a.Feedback)
	}
}

func TestEvaluateIgnoresUnknownQuestionNumbers(t *testing.T) {
	g := &fakeGrader{answerScores: map[int]float64{1: 80}}
	r, store := newTestRouter(g)
	_, attemptID := seed(t, store)

	w := doJSON(t, r, "POST", "/attempts/"+attemptID+"/evaluate", `{
		"answers": [
			{"question_number": 1, "answer": "a"},
			{"question_number": 42, "answer": "not a real question"}
		]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var a interview.Attempt
	_ = json.Unmarshal(w.Body.Bytes(), &a)
	if a.Result == nil || a.Result.TotalMarks != 15 {
		t.Errorf("total marks = %v, want 15 (only the known question scored)", a.Result)
	}
}

func TestCompleteAttemptUsesBandedPolicy(t *testing.T) {
	g := &fakeGrader{transcriptResult: grader.TranscriptResult{
		Evaluations: []interview.Evaluation{
			{QuestionNumber: 1, Score: 90, Strengths: []string{"strong fundamentals"}},
			// question 2 unanswered: engine defaults it to 0
		},
		Summary:             "Strong technically, quiet on communication.",
		KeyStrengths:        []string{"fundamentals"},
		AreasForImprovement: []string{"storytelling"},
	}}
	r, store := newTestRouter(g)
	_, attemptID := seed(t, store)

	w := doJSON(t, r, "POST", "/attempts/"+attemptID+"/complete", `{"transcript": "interviewer: ... candidate: ..."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var a interview.Attempt
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// weighted = 90/100*15 = 13.5 of 25 -> 54%
	if a.Score != 54 {
		t.Errorf("score = %d, want 54", a.Score)
	}
	if a.Recommendation != "On Hold" {
		t.Errorf("recommendation = %q, want On Hold", a.Recommendation)
	}
	if a.Result.Summary != "Strong technically, quiet on communication." {
		t.Errorf("summary = %q", a.Result.Summary)
	}
	if got := a.Result.CriterionAverages["Technical Skills"]; got != 90 {
		t.Errorf("technical avg = %v, want 90", got)
	}
	if len(a.Result.Evaluations) != 2 {
		t.Errorf("want 2 evaluations (one defaulted), got %d", len(a.Result.Evaluations))
	}
}

func TestCompleteWithEmptyGradingDegrades(t *testing.T) {
	// Parse-failure path upstream: the grader hands back an empty set.
	g := &fakeGrader{transcriptResult: grader.TranscriptResult{}}
	r, store := newTestRouter(g)
	_, attemptID := seed(t, store)

	w := doJSON(t, r, "POST", "/attempts/"+attemptID+"/complete", `{"transcript": "t"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var a interview.Attempt
	_ = json.Unmarshal(w.Body.Bytes(), &a)
	if a.Score != 0 || a.Recommendation != "Reject" {
		t.Errorf("degraded result = score %d, rec %q; want 0/Reject", a.Score, a.Recommendation)
	}
}

func TestEvaluateWithoutGraderIs500(t *testing.T) {
	r, store := newTestRouter(nil)
	_, attemptID := seed(t, store)
	w := doJSON(t, r, "POST", "/attempts/"+attemptID+"/evaluate", `{"answers": []}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 when grading is not configured", w.Code)
	}
}

func TestAttemptNotFound(t *testing.T) {
	r, _ := newTestRouter(&fakeGrader{})
	w := doJSON(t, r, "POST", "/attempts/missing/evaluate", `{"answers": []}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	w = doJSON(t, r, "GET", "/attempts/missing", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestReEvaluationReplacesSnapshot(t *testing.T) {
	g := &fakeGrader{answerScores: map[int]float64{1: 40, 2: 40}}
	r, store := newTestRouter(g)
	_, attemptID := seed(t, store)

	body := `{"answers": [{"question_number": 1, "answer": "a"}, {"question_number": 2, "answer": "b"}]}`
	if w := doJSON(t, r, "POST", fmt.Sprintf("/attempts/%s/evaluate", attemptID), body); w.Code != http.StatusOK {
		t.Fatalf("first evaluate: %d", w.Code)
	}
	g.answerScores = map[int]float64{1: 90, 2: 90}
	w := doJSON(t, r, "POST", fmt.Sprintf("/attempts/%s/evaluate", attemptID), body)
	if w.Code != http.StatusOK {
		t.Fatalf("second evaluate: %d", w.Code)
	}
	var a interview.Attempt
	_ = json.Unmarshal(w.Body.Bytes(), &a)
	if a.Score != 90 {
		t.Errorf("score = %d, want 90 (second snapshot wins)", a.Score)
	}
}
