package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hirelane/hirelane-ats/internal/interview"
	"github.com/hirelane/hirelane-ats/internal/scoring"
)

type createJobReq struct {
	Title     string               `json:"title"`
	Company   string               `json:"company"`
	Questions []interview.Question `json:"questions"`
}

// POST /jobs
// Authors a job's interview question set. Marks are derived from difficulty
// unless explicitly overridden; the set is immutable once attempts exist.
func CreateJobHandler(store interview.Store, engine *scoring.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createJobReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Title == "" || len(req.Questions) == 0 {
			http.Error(w, "title and questions required", http.StatusBadRequest)
			return
		}
		if err := validateQuestions(req.Questions); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for i := range req.Questions {
			req.Questions[i].Marks = engine.MarksFor(req.Questions[i])
		}
		job := interview.Job{
			ID:        uuid.NewString(),
			Title:     req.Title,
			Company:   req.Company,
			Questions: req.Questions,
		}
		if err := store.PutJob(r.Context(), job); err != nil {
			http.Error(w, "save job: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(job)
	}
}

// GET /jobs/{jobID}
func GetJobHandler(store interview.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := store.GetJob(r.Context(), chi.URLParam(r, "jobID"))
		if err != nil {
			if errors.Is(err, interview.ErrJobNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(job)
	}
}

func validateQuestions(qs []interview.Question) error {
	seen := map[int]struct{}{}
	for _, q := range qs {
		if q.Number <= 0 {
			return fmt.Errorf("question number must be positive, got %d", q.Number)
		}
		if _, dup := seen[q.Number]; dup {
			return fmt.Errorf("duplicate question number %d", q.Number)
		}
		seen[q.Number] = struct{}{}
		if q.Text == "" {
			return fmt.Errorf("question %d has no text", q.Number)
		}
	}
	return nil
}
