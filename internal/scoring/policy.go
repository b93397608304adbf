package scoring

// Policy maps a final percentage (and the technical cutoff outcome) to a
// hire recommendation. Two call sites grew two taxonomies; both are kept
// as named policies selected by the caller.
type Policy interface {
	Recommend(finalPercent int, cutoffFailed bool) string
}

// ThresholdPolicy is the ad hoc evaluate taxonomy. A failed technical
// cutoff forces No Hire regardless of the overall percentage.
type ThresholdPolicy struct {
	HireAt  int // default 70
	MaybeAt int // default 50
}

func (p ThresholdPolicy) Recommend(finalPercent int, cutoffFailed bool) string {
	hireAt, maybeAt := p.HireAt, p.MaybeAt
	if hireAt == 0 {
		hireAt = 70
	}
	if maybeAt == 0 {
		maybeAt = 50
	}
	switch {
	case cutoffFailed:
		return "No Hire"
	case finalPercent >= hireAt:
		return "Hire"
	case finalPercent >= maybeAt:
		return "Maybe"
	default:
		return "No Hire"
	}
}

// BandedPolicy is the full-interview completion taxonomy. The technical
// cutoff is reported alongside but does not move the band.
type BandedPolicy struct{}

func (BandedPolicy) Recommend(finalPercent int, _ bool) string {
	switch {
	case finalPercent >= 80:
		return "Strongly Recommend"
	case finalPercent >= 60:
		return "Recommend"
	case finalPercent >= 40:
		return "On Hold"
	default:
		return "Reject"
	}
}
