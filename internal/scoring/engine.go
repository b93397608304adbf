// Package scoring converts per-question evaluations into a weighted score,
// criterion breakdown, technical cutoff check, and hire recommendation.
// The engine is pure: same inputs always produce the same result, and it
// never errors — degenerate inputs degrade to a well-formed zero result.
package scoring

import (
	"math"
	"sort"

	"github.com/hirelane/hirelane-ats/internal/interview"
)

// Input is one graded question fed into the engine.
type Input struct {
	QuestionNumber int
	Criterion      string
	Marks          float64 // weight; <=0 falls back to the default marks
	Score          float64 // 0..100; NaN treated as 0
}

type config struct {
	CutoffThreshold    float64
	TechnicalCriterion string
	DifficultyMarks    map[string]int
	DefaultMarks       int
	EmptyTotalFallback float64
	Policy             Policy
	CriterionRounding  Rounding
}

type Option func(*config)

// Rounding selects how criterion averages are reported.
type Rounding int

const (
	RoundInteger Rounding = iota
	RoundTwoDecimals
)

func WithCutoffThreshold(v float64) Option   { return func(c *config) { c.CutoffThreshold = v } }
func WithTechnicalCriterion(s string) Option { return func(c *config) { c.TechnicalCriterion = s } }
func WithEmptyTotalFallback(v float64) Option {
	return func(c *config) { c.EmptyTotalFallback = v }
}
func WithPolicy(p Policy) Option              { return func(c *config) { c.Policy = p } }
func WithCriterionRounding(r Rounding) Option { return func(c *config) { c.CriterionRounding = r } }

// Engine computes scoring results. Construct once, share freely: it holds
// no mutable state.
type Engine struct {
	cfg config
}

// NewEngine installs defaults matching the ad hoc evaluate path: threshold
// policy, integer criterion averages, empty-set total of 100.
func NewEngine(opts ...Option) *Engine {
	cfg := config{
		CutoffThreshold:    50,
		TechnicalCriterion: "Technical Skills",
		DifficultyMarks: map[string]int{
			interview.DifficultyHigh:   15,
			interview.DifficultyMedium: 10,
			interview.DifficultyLow:    5,
		},
		DefaultMarks:       10,
		EmptyTotalFallback: 100,
		Policy:             ThresholdPolicy{},
		CriterionRounding:  RoundInteger,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &Engine{cfg: cfg}
}

// MarksFor returns the weight for an authored question, deriving it from
// difficulty when no explicit override is set.
func (e *Engine) MarksFor(q interview.Question) int {
	if q.Marks > 0 {
		return q.Marks
	}
	if m, ok := e.cfg.DifficultyMarks[q.Difficulty]; ok {
		return m
	}
	return e.cfg.DefaultMarks
}

// Compute aggregates graded questions into a ScoringResult. It never
// returns an error: NaN scores count as 0, non-positive marks fall back to
// the default, and an empty input yields the configured fallback total with
// a zero percent.
func (e *Engine) Compute(inputs []Input) interview.ScoringResult {
	totalMarks := 0.0
	weighted := 0.0
	bySums := map[string]float64{}
	byCounts := map[string]int{}

	for _, in := range inputs {
		score := clamp(in.Score, 0, 100)
		marks := in.Marks
		if marks <= 0 || math.IsNaN(marks) {
			marks = float64(e.cfg.DefaultMarks)
		}
		weighted += round2(score / 100 * marks)
		totalMarks += marks
		bySums[in.Criterion] += score
		byCounts[in.Criterion]++
	}
	weighted = round2(weighted)

	percent := 0
	if totalMarks > 0 {
		percent = int(math.Round(weighted / totalMarks * 100))
	} else {
		totalMarks = e.cfg.EmptyTotalFallback
	}

	averages := make(map[string]float64, len(bySums))
	for crit, sum := range bySums {
		avg := sum / float64(byCounts[crit])
		if e.cfg.CriterionRounding == RoundTwoDecimals {
			averages[crit] = round2(avg)
		} else {
			averages[crit] = math.Round(avg)
		}
	}

	cutoff := interview.TechnicalCutoff{Threshold: e.cfg.CutoffThreshold}
	if avg, ok := averages[e.cfg.TechnicalCriterion]; ok {
		v := avg
		cutoff.TechnicalAvg = &v
		cutoff.Failed = v < e.cfg.CutoffThreshold
	}

	return interview.ScoringResult{
		TotalMarks:        totalMarks,
		WeightedScore:     weighted,
		FinalScorePercent: percent,
		CriterionAverages: averages,
		TechnicalCutoff:   cutoff,
		Recommendation:    e.cfg.Policy.Recommend(percent, cutoff.Failed),
	}
}

// ComputeEvaluations is Compute over full evaluations: it carries the
// per-question audit records and derived strengths/gaps onto the result.
func (e *Engine) ComputeEvaluations(questions []interview.Question, evals []interview.Evaluation) interview.ScoringResult {
	byNumber := make(map[int]interview.Evaluation, len(evals))
	for _, ev := range evals {
		byNumber[ev.QuestionNumber] = ev
	}

	inputs := make([]Input, 0, len(questions))
	var strengths, gaps []string
	kept := make([]interview.Evaluation, 0, len(questions))
	for _, q := range questions {
		ev, ok := byNumber[q.Number]
		if !ok {
			ev = interview.Evaluation{QuestionNumber: q.Number, Score: 0}
		}
		marks := float64(e.MarksFor(q))
		if ev.MarksObtained == 0 && ev.Score > 0 {
			ev.MarksObtained = round2(ev.Score / 100 * marks)
		}
		ev.MarksObtained = clamp(ev.MarksObtained, 0, marks)
		kept = append(kept, ev)
		inputs = append(inputs, Input{
			QuestionNumber: q.Number,
			Criterion:      q.Criterion,
			Marks:          marks,
			Score:          ev.Score,
		})
		strengths = append(strengths, ev.Strengths...)
		gaps = append(gaps, ev.Gaps...)
	}

	res := e.Compute(inputs)
	res.Evaluations = kept
	res.KeyStrengths = topUnique(strengths, 5)
	res.AreasForImprovement = topUnique(gaps, 5)
	return res
}

// round2 rounds half-up to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// topUnique keeps the first occurrence of each string, capped at n, in a
// stable order so repeated runs produce identical results.
func topUnique(items []string, n int) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, n)
	for _, s := range items {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	return out
}

// SortedCriteria returns criterion labels in a deterministic order, for
// rendering breakdowns.
func SortedCriteria(averages map[string]float64) []string {
	keys := make([]string, 0, len(averages))
	for k := range averages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
