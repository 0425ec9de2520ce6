package model

// MatchType indicates how the backend arrived at a candidate.
type MatchType string

// Known match types. The backend may introduce new ones; unknown values are
// displayed verbatim rather than rejected.
const (
	MatchSemantic   MatchType = "semantic"
	MatchKeyword    MatchType = "keyword"
	MatchAIAnalysis MatchType = "ai_analysis"
)

// DutySource indicates which tariff column the effective duty was read from.
type DutySource string

// Known duty sources.
const (
	DutyGeneral DutySource = "general"
	DutySpecial DutySource = "special"
	DutyOther   DutySource = "other"
)

// ClassificationResult is one ranked tariff-code candidate returned by the
// backend. Results are immutable after creation and keep the backend's order;
// ConfidenceScore drives badge display only, never sorting.
type ClassificationResult struct {
	HTSCode         string
	Description     string
	EffectiveDuty   string
	SpecialDuty     string
	Unit            string
	Chapter         string
	MatchType       MatchType
	DutySource      DutySource
	ConfidenceScore int
}

// ConfidenceTier buckets a confidence score for badge coloring.
type ConfidenceTier int

// Confidence tiers, highest first.
const (
	TierHigh ConfidenceTier = iota
	TierMedium
	TierLow
)

// TierForScore maps a 0-100 confidence score to its display tier:
// >=90 high, 70-89 medium, below 70 low.
func TierForScore(score int) ConfidenceTier {
	switch {
	case score >= 90:
		return TierHigh
	case score >= 70:
		return TierMedium
	default:
		return TierLow
	}
}

// String returns the tier's display label.
func (t ConfidenceTier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "low"
	}
}
