package scoring

import (
	"math"
	"reflect"
	"testing"

	"github.com/hirelane/hirelane-ats/internal/interview"
)

func TestComputePerfectScore(t *testing.T) {
	e := NewEngine()
	res := e.Compute([]Input{
		{QuestionNumber: 1, Criterion: "Technical Skills", Marks: 15, Score: 100},
		{QuestionNumber: 2, Criterion: "Technical Skills", Marks: 10, Score: 100},
	})

	if res.TotalMarks != 25 {
		t.Errorf("total marks = %v, want 25", res.TotalMarks)
	}
	if res.WeightedScore != 25.00 {
		t.Errorf("weighted score = %v, want 25.00", res.WeightedScore)
	}
	if res.FinalScorePercent != 100 {
		t.Errorf("final percent = %d, want 100", res.FinalScorePercent)
	}
	if got := res.CriterionAverages["Technical Skills"]; got != 100 {
		t.Errorf("technical average = %v, want 100", got)
	}
	if res.TechnicalCutoff.Failed {
		t.Error("cutoff should not fail on a perfect score")
	}
	if res.Recommendation != "Hire" {
		t.Errorf("recommendation = %q, want Hire", res.Recommendation)
	}
}

func TestComputeCutoffOverridesHighScore(t *testing.T) {
	e := NewEngine()
	res := e.Compute([]Input{
		{QuestionNumber: 1, Criterion: "Technical Skills", Marks: 10, Score: 30},
		{QuestionNumber: 2, Criterion: "Communication", Marks: 10, Score: 100},
	})

	if got := res.CriterionAverages["Technical Skills"]; got != 30 {
		t.Errorf("technical average = %v, want 30", got)
	}
	if got := res.CriterionAverages["Communication"]; got != 100 {
		t.Errorf("communication average = %v, want 100", got)
	}
	if res.FinalScorePercent != 65 {
		t.Errorf("final percent = %d, want 65", res.FinalScorePercent)
	}
	if !res.TechnicalCutoff.Failed {
		t.Error("cutoff should fail with technical average 30")
	}
	if res.Recommendation != "No Hire" {
		t.Errorf("recommendation = %q, want No Hire despite percent >= 50", res.Recommendation)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	e := NewEngine() // evaluate path falls back to total 100
	res := e.Compute(nil)
	if res.TotalMarks != 100 {
		t.Errorf("fallback total = %v, want 100", res.TotalMarks)
	}
	if res.FinalScorePercent != 0 {
		t.Errorf("final percent = %d, want 0", res.FinalScorePercent)
	}
	if res.Recommendation != "No Hire" {
		t.Errorf("recommendation = %q, want No Hire", res.Recommendation)
	}

	e = NewEngine(WithEmptyTotalFallback(0), WithPolicy(BandedPolicy{}))
	res = e.Compute(nil)
	if res.TotalMarks != 0 {
		t.Errorf("fallback total = %v, want 0", res.TotalMarks)
	}
	if res.Recommendation != "Reject" {
		t.Errorf("recommendation = %q, want Reject", res.Recommendation)
	}
}

func TestComputeWeightedSumInvariant(t *testing.T) {
	cases := [][]Input{
		{{1, "Technical Skills", 15, 73.5}, {2, "Communication", 10, 41.2}},
		{{1, "Technical Skills", 5, 0}, {2, "Technical Skills", 5, 100}, {3, "Culture", 10, 50}},
		{{1, "Problem Solving", 15, 99.99}},
	}
	e := NewEngine()
	for i, inputs := range cases {
		want := 0.0
		for _, in := range inputs {
			want += round2(in.Score / 100 * in.Marks)
		}
		res := e.Compute(inputs)
		if math.Abs(res.WeightedScore-round2(want)) > 1e-9 {
			t.Errorf("case %d: weighted = %v, want %v", i, res.WeightedScore, round2(want))
		}
		if res.WeightedScore > res.TotalMarks+1e-9 {
			t.Errorf("case %d: weighted %v exceeds total %v", i, res.WeightedScore, res.TotalMarks)
		}
		if res.FinalScorePercent < 0 || res.FinalScorePercent > 100 {
			t.Errorf("case %d: percent %d out of bounds", i, res.FinalScorePercent)
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	inputs := []Input{
		{1, "Technical Skills", 15, 82.4},
		{2, "Communication", 10, 61},
		{3, "Technical Skills", 5, 47.7},
	}
	e := NewEngine()
	a := e.Compute(inputs)
	b := e.Compute(inputs)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("engine is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestCutoffMonotonicity(t *testing.T) {
	e := NewEngine()
	rank := map[string]int{"No Hire": 0, "Maybe": 1, "Hire": 2}

	prev := 3
	for score := 100.0; score >= 0; score -= 10 {
		res := e.Compute([]Input{
			{1, "Technical Skills", 10, score},
			{2, "Communication", 10, 100},
		})
		if score < 50 && !res.TechnicalCutoff.Failed {
			t.Errorf("technical avg %v below threshold but cutoff not failed", score)
		}
		if r := rank[res.Recommendation]; r > prev {
			t.Errorf("recommendation improved (%q) as technical score fell to %v", res.Recommendation, score)
		} else {
			prev = r
		}
	}
}

func TestComputeClampsOutOfRangeScores(t *testing.T) {
	e := NewEngine()
	res := e.Compute([]Input{
		{1, "Technical Skills", 10, 150},
		{2, "Technical Skills", 10, -30},
	})
	if res.FinalScorePercent != 50 {
		t.Errorf("final percent = %d, want 50 after clamping", res.FinalScorePercent)
	}
	if res.WeightedScore != 10 {
		t.Errorf("weighted = %v, want 10", res.WeightedScore)
	}
}

func TestComputeNaNAndMissingMarks(t *testing.T) {
	e := NewEngine()
	res := e.Compute([]Input{
		{1, "Technical Skills", 0, math.NaN()}, // marks default to 10, score to 0
		{2, "Technical Skills", 10, 100},
	})
	if res.TotalMarks != 20 {
		t.Errorf("total marks = %v, want 20 (defaulted)", res.TotalMarks)
	}
	if res.WeightedScore != 10 {
		t.Errorf("weighted = %v, want 10", res.WeightedScore)
	}
}

func TestBandedPolicyBoundaries(t *testing.T) {
	cases := []struct {
		percent int
		want    string
	}{
		{100, "Strongly Recommend"},
		{80, "Strongly Recommend"},
		{79, "Recommend"},
		{60, "Recommend"},
		{59, "On Hold"},
		{40, "On Hold"},
		{39, "Reject"},
		{0, "Reject"},
	}
	p := BandedPolicy{}
	for _, c := range cases {
		if got := p.Recommend(c.percent, true); got != c.want {
			t.Errorf("Recommend(%d) = %q, want %q (cutoff must not move the band)", c.percent, got, c.want)
		}
	}
}

func TestCriterionRoundingModes(t *testing.T) {
	inputs := []Input{
		{1, "Technical Skills", 10, 70},
		{2, "Technical Skills", 10, 71},
	}
	intEngine := NewEngine()
	if got := intEngine.Compute(inputs).CriterionAverages["Technical Skills"]; got != 71 { // 70.5 rounds half-up
		t.Errorf("integer rounding: got %v, want 71", got)
	}
	decEngine := NewEngine(WithCriterionRounding(RoundTwoDecimals))
	if got := decEngine.Compute(inputs).CriterionAverages["Technical Skills"]; got != 70.5 {
		t.Errorf("two-decimal rounding: got %v, want 70.5", got)
	}
}

func TestComputeEvaluationsMergesByNumber(t *testing.T) {
	questions := []interview.Question{
		{Number: 1, Criterion: "Technical Skills", Difficulty: interview.DifficultyHigh},
		{Number: 2, Criterion: "Communication", Difficulty: interview.DifficultyMedium},
		{Number: 3, Criterion: "Technical Skills", Difficulty: interview.DifficultyLow},
	}
	evals := []interview.Evaluation{
		// out of order, question 3 unanswered
		{QuestionNumber: 2, Score: 80, MarksObtained: 8, Strengths: []string{"clear"}},
		{QuestionNumber: 1, Score: 90, MarksObtained: 99, Gaps: []string{"depth"}}, // clamped to 15
	}
	e := NewEngine()
	res := e.ComputeEvaluations(questions, evals)

	if res.TotalMarks != 30 { // 15+10+5 from difficulty
		t.Errorf("total marks = %v, want 30", res.TotalMarks)
	}
	if len(res.Evaluations) != 3 {
		t.Fatalf("expected 3 evaluations, got %d", len(res.Evaluations))
	}
	if res.Evaluations[0].QuestionNumber != 1 || res.Evaluations[0].MarksObtained != 15 {
		t.Errorf("question 1 not clamped to max marks: %+v", res.Evaluations[0])
	}
	if res.Evaluations[2].Score != 0 {
		t.Errorf("unanswered question should score 0, got %v", res.Evaluations[2].Score)
	}
	if got := res.CriterionAverages["Technical Skills"]; got != 45 { // (90+0)/2
		t.Errorf("technical average = %v, want 45", got)
	}
	if !reflect.DeepEqual(res.KeyStrengths, []string{"clear"}) {
		t.Errorf("key strengths = %v", res.KeyStrengths)
	}
	if !reflect.DeepEqual(res.AreasForImprovement, []string{"depth"}) {
		t.Errorf("areas = %v", res.AreasForImprovement)
	}
}

func TestTopUnique(t *testing.T) {
	got := topUnique([]string{"a", "b", "a", "", "c", "d", "e", "f"}, 5)
	want := []string{"a", "b", "c", "d", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("topUnique = %v, want %v", got, want)
	}
}
