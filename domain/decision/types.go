package decision

import (
	"time"

	"benchgate/domain/core"
	"benchgate/domain/quality"
)

// Descriptive is a pure summary of a numeric sequence.
type Descriptive struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	IQR    float64 `json:"iqr"`
	CV     float64 `json:"cv"`
}

// TTestResult holds a Welch unequal-variance t-test outcome.
type TTestResult struct {
	TStatistic       float64 `json:"t_statistic"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	MeanDifference   float64 `json:"mean_difference"`
	CILow            float64 `json:"ci_low"`
	CIHigh           float64 `json:"ci_high"`
	IsSignificant    bool    `json:"is_significant"`
	Identical        bool    `json:"identical"`
}

// EffectMagnitude classifies |d| into a total, non-overlapping partition.
type EffectMagnitude string

const (
	EffectNegligible EffectMagnitude = "negligible"
	EffectSmall      EffectMagnitude = "small"
	EffectMedium     EffectMagnitude = "medium"
	EffectLarge      EffectMagnitude = "large"
)

// AtLeastMedium reports whether the magnitude is medium or larger.
func (m EffectMagnitude) AtLeastMedium() bool {
	return m == EffectMedium || m == EffectLarge
}

// EffectSizeResult holds a standardized mean-difference estimate.
// Sign convention: d = (meanA - meanB) / pooledSD. Both metrics measure
// cost (time, memory), so a negative d means implementation A is
// cheaper on that metric.
type EffectSizeResult struct {
	CohensD        float64         `json:"cohens_d"`
	Magnitude      EffectMagnitude `json:"magnitude"`
	MeetsMDE       bool            `json:"meets_minimum_detectable_effect"`
	Interpretation string          `json:"interpretation"`
}

// MetricComparison is the evidence for one metric of one (task, scale)
// pair. A comparison that could not be computed carries Skipped=true
// and a reason; it is never omitted from the report.
type MetricComparison struct {
	Metric     core.Metric      `json:"metric"`
	GroupA     Descriptive      `json:"group_a"`
	GroupB     Descriptive      `json:"group_b"`
	TTest      TTestResult      `json:"t_test"`
	EffectSize EffectSizeResult `json:"effect_size"`
	Skipped    bool             `json:"skipped"`
	SkipReason string           `json:"skip_reason,omitempty"`
}

// Favors returns which implementation this metric's evidence points at,
// or an empty string when the comparison is skipped or the effect is
// negligible.
func (m MetricComparison) Favors() core.Implementation {
	if m.Skipped || m.EffectSize.Magnitude == EffectNegligible {
		return ""
	}
	if m.EffectSize.CohensD < 0 {
		return core.ImplementationA
	}
	return core.ImplementationB
}

// ConfidenceLabel grades how much the two metrics of one comparison
// agree with each other.
type ConfidenceLabel string

const (
	ConfidenceHigh         ConfidenceLabel = "high"
	ConfidenceModerate     ConfidenceLabel = "moderate"
	ConfidenceLow          ConfidenceLabel = "low"
	ConfidenceInsufficient ConfidenceLabel = "insufficient"
)

// ComparisonResult is the full evidence for one (task, scale) pair,
// the unit consumed by the decision synthesizer and external reporting.
type ComparisonResult struct {
	Task              string           `json:"task"`
	Scale             string           `json:"scale"`
	ExecutionTime     MetricComparison `json:"execution_time"`
	Memory            MetricComparison `json:"memory"`
	OverallConfidence ConfidenceLabel  `json:"overall_confidence"`
}

// Pair returns the (task, scale) pair identifying this comparison.
func (c ComparisonResult) Pair() core.PairKey {
	return core.PairKey{Task: c.Task, Scale: c.Scale}
}

// Report is the final decision artifact. Built once per analysis run,
// written out, never mutated after creation.
type Report struct {
	RunID                 string             `json:"run_id"`
	GeneratedAt           time.Time          `json:"generated_at"`
	OverallRecommendation string             `json:"overall_recommendation"`
	ConfidenceScore       float64            `json:"confidence_score"`
	SupportingComparisons []ComparisonResult `json:"supporting_comparisons"`
	Quality               quality.Assessment `json:"quality"`
}
