package quality

import (
	"sort"

	"benchgate/domain/core"
	"benchgate/domain/sample"
)

// IssueKind is the closed set of data-quality issues a group can be
// flagged with. Reporting code switches exhaustively on these instead of
// pattern-matching strings.
type IssueKind string

const (
	IssueHighCV                          IssueKind = "high-cv"
	IssueLowSampleCount                  IssueKind = "low-sample-count"
	IssueLowSuccessRate                  IssueKind = "low-success-rate"
	IssueInsufficientForOutlierDetection IssueKind = "insufficient-for-outlier-detection"
	IssueUndefinedCV                     IssueKind = "undefined-cv"
)

// IssueSet is a structured set of quality issues.
type IssueSet map[IssueKind]bool

// Add flags an issue.
func (s IssueSet) Add(k IssueKind) { s[k] = true }

// Has reports whether an issue is flagged.
func (s IssueSet) Has(k IssueKind) bool { return s[k] }

// Sorted returns the flagged issues in a stable order.
func (s IssueSet) Sorted() []IssueKind {
	out := make([]IssueKind, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Rating is the aggregate quality verdict for a group or dataset.
type Rating string

const (
	RatingValid   Rating = "valid"
	RatingWarning Rating = "warning"
	RatingInvalid Rating = "invalid"
)

// Worse reports whether r is a worse rating than other.
func (r Rating) Worse(other Rating) bool {
	return r.rank() > other.rank()
}

func (r Rating) rank() int {
	switch r {
	case RatingInvalid:
		return 2
	case RatingWarning:
		return 1
	default:
		return 0
	}
}

// Metrics summarizes the health of one cleaned sample group. Derived
// values, recomputed whenever the group's sample set changes; replaced
// wholesale, never mutated in place.
type Metrics struct {
	Count         int         `json:"count"`
	Mean          float64     `json:"mean"`
	StdDev        float64     `json:"std_dev"`
	CV            float64     `json:"coefficient_of_variation"`
	CVDefined     bool        `json:"cv_defined"`
	SuccessRate   float64     `json:"success_rate"`
	OutlierCount  int         `json:"outlier_count"`
	Issues        IssueSet    `json:"-"`
	FlaggedIssues []IssueKind `json:"flagged_issues"`
}

// TaskResult holds both implementations' cleaned groups and quality
// metrics for one (task, scale) pair. Built once per group pair,
// immutable thereafter.
type TaskResult struct {
	Task   string                               `json:"task"`
	Scale  string                               `json:"scale"`
	Groups map[core.Implementation]sample.Group `json:"groups"`
	Health map[core.Implementation]Metrics      `json:"health"`
}

// Pair returns the (task, scale) pair identifying this result.
func (t TaskResult) Pair() core.PairKey {
	return core.PairKey{Task: t.Task, Scale: t.Scale}
}

// CleanedDataset is the output of quality control. Every successful raw
// sample appears in exactly one of TaskResults or RemovedOutliers - no
// sample is silently dropped.
type CleanedDataset struct {
	TaskResults     []TaskResult    `json:"task_results"`
	RemovedOutliers []sample.Sample `json:"removed_outliers"`
	FailedCount     int             `json:"failed_count"`
	MalformedCount  int             `json:"malformed_count"`
}

// Assessment is the aggregate quality verdict over all groups.
type Assessment struct {
	OverallRating  Rating                    `json:"overall_rating"`
	PerGroup       map[core.GroupKey]Metrics `json:"-"`
	GroupRatings   []GroupRating             `json:"per_group"`
	BlockingIssues []string                  `json:"blocking_issues"`
}

// GroupRating is the serializable per-group entry of an Assessment.
type GroupRating struct {
	Key     core.GroupKey `json:"key"`
	Metrics Metrics       `json:"metrics"`
}
