package interview

// Difficulty levels for authored questions.
const (
	DifficultyHigh   = "High"
	DifficultyMedium = "Medium"
	DifficultyLow    = "Low"
)

type Question struct {
	Number     int    `json:"question_number"`
	Text       string `json:"text"`
	Criterion  string `json:"criterion"`  // e.g. "Technical Skills", "Communication"
	Difficulty string `json:"difficulty"` // High | Medium | Low
	Marks      int    `json:"marks"`      // weight; derived from difficulty when 0
}

// Evaluation is the grading of one candidate answer to one question.
type Evaluation struct {
	QuestionNumber    int      `json:"question_number"`
	Score             float64  `json:"score"` // 0..100
	MarksObtained     float64  `json:"marks_obtained"`
	CandidateResponse string   `json:"candidate_response,omitempty"`
	Strengths         []string `json:"strengths,omitempty"`
	Gaps              []string `json:"gaps,omitempty"`
	Reasoning         string   `json:"reasoning,omitempty"`
}

type TechnicalCutoff struct {
	Threshold    float64  `json:"threshold"`
	TechnicalAvg *float64 `json:"technical_avg"` // nil when no question carries the technical criterion
	Failed       bool     `json:"failed"`
}

// ScoringResult is the authoritative outcome of one interview attempt.
// Computed once per completion and persisted as an immutable snapshot.
type ScoringResult struct {
	TotalMarks          float64            `json:"total_marks"`
	WeightedScore       float64            `json:"weighted_score"`
	FinalScorePercent   int                `json:"final_score_percent"`
	CriterionAverages   map[string]float64 `json:"criterion_averages"`
	TechnicalCutoff     TechnicalCutoff    `json:"technical_cutoff"`
	Recommendation      string             `json:"recommendation"`
	Summary             string             `json:"summary,omitempty"`
	KeyStrengths        []string           `json:"key_strengths,omitempty"`
	AreasForImprovement []string           `json:"areas_for_improvement,omitempty"`
	Evaluations         []Evaluation       `json:"evaluations,omitempty"`
}

type Job struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Company   string     `json:"company"`
	Questions []Question `json:"questions"`
	CreatedAt int64      `json:"created_at,omitempty"`
}

type Attempt struct {
	ID             string         `json:"id"`
	JobID          string         `json:"job_id"`
	CandidateID    string         `json:"candidate_id"`
	CandidateName  string         `json:"candidate_name,omitempty"`
	Status         string         `json:"status"` // in_progress|scored
	Evaluations    []Evaluation   `json:"evaluations,omitempty"`
	Result         *ScoringResult `json:"result,omitempty"`
	Score          int            `json:"score"` // promoted finalScorePercent
	Recommendation string         `json:"recommendation,omitempty"`
	Feedback       string         `json:"feedback,omitempty"`
	StartedAt      int64          `json:"started_at,omitempty"`
	ScoredAt       int64          `json:"scored_at,omitempty"`
}
