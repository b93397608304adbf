package scoring

import (
	"fmt"
	"strings"

	"github.com/hirelane/hirelane-ats/internal/interview"
)

// FeedbackSummary renders the denormalized feedback string promoted onto
// the attempt record next to the score and recommendation scalars.
func FeedbackSummary(res interview.ScoringResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall %d%% (%s).", res.FinalScorePercent, res.Recommendation))
	if len(res.CriterionAverages) > 0 {
		parts := make([]string, 0, len(res.CriterionAverages))
		for _, crit := range SortedCriteria(res.CriterionAverages) {
			parts = append(parts, fmt.Sprintf("%s %s", crit, trimFloat(res.CriterionAverages[crit])))
		}
		sb.WriteString(" Criteria: ")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString(".")
	}
	if res.TechnicalCutoff.Failed {
		sb.WriteString(fmt.Sprintf(" Technical average below the %s cutoff.", trimFloat(res.TechnicalCutoff.Threshold)))
	}
	if res.Summary != "" {
		sb.WriteString(" ")
		sb.WriteString(res.Summary)
	}
	return sb.String()
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
