package quality

import (
	"fmt"
	"math"
	"sort"

	montana "github.com/montanaflynn/stats"

	"benchgate/adapters/stats"
	"benchgate/domain/core"
	"benchgate/domain/quality"
	"benchgate/domain/sample"
	"benchgate/internal"
	"benchgate/internal/config"
)

// minSamplesForOutlierDetection: quartiles over fewer points are not
// meaningful, so smaller groups pass through unfiltered and get flagged.
const minSamplesForOutlierDetection = 4

// Controller converts raw, possibly-contaminated samples into a dataset
// safe for statistical comparison, and reports on data health.
// Thresholds are injected at construction and never mutated.
type Controller struct {
	cfg config.QualityConfig
	log *internal.Logger
}

// NewController creates a quality controller with the given thresholds.
func NewController(cfg config.QualityConfig) *Controller {
	return &Controller{cfg: cfg, log: internal.DefaultLogger}
}

// DetectOutliers partitions a group's samples into clean samples and
// IQR outliers on the given metric. Fences are Q1-k*IQR and Q3+k*IQR
// with the configured multiplier. flagged is true when the group was
// too small for quartiles and passed through unfiltered.
func (c *Controller) DetectOutliers(samples []sample.Sample, metric core.Metric) (clean, outliers []sample.Sample, flagged bool) {
	if len(samples) < minSamplesForOutlierDetection {
		return samples, nil, true
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value(metric)
	}

	q, err := montana.Quartile(montana.Float64Data(values))
	if err != nil {
		return samples, nil, true
	}

	iqr := q.Q3 - q.Q1
	k := c.cfg.OutlierIQRMultiplier
	low := q.Q1 - k*iqr
	high := q.Q3 + k*iqr

	clean = make([]sample.Sample, 0, len(samples))
	for i, s := range samples {
		if values[i] < low || values[i] > high {
			outliers = append(outliers, s)
		} else {
			clean = append(clean, s)
		}
	}
	return clean, outliers, false
}

// ValidateAndClean flattens raw samples into a cleaned dataset.
//
// Malformed samples are rejected up front and counted; failed runs are
// counted per group for the success rate but never enter the cleaned
// pools. Outlier detection runs per metric; a sample flagged on either
// metric is removed from the group for both metrics, keeping the
// dataset partition exact and the per-metric sample counts equal.
func (c *Controller) ValidateAndClean(raw []sample.Sample) quality.CleanedDataset {
	ds := quality.CleanedDataset{}

	grouped := make(map[core.GroupKey][]sample.Sample)
	failures := make(map[core.GroupKey]int)

	for _, s := range raw {
		if err := s.Validate(); err != nil {
			ds.MalformedCount++
			c.log.Warn("rejected sample for %s: %v", s.Task, err)
			continue
		}
		if !s.Succeeded {
			ds.FailedCount++
			failures[s.Key()]++
			continue
		}
		grouped[s.Key()] = append(grouped[s.Key()], s)
	}

	results := make(map[core.PairKey]*quality.TaskResult)

	keys := make([]core.GroupKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	for _, key := range keys {
		group := grouped[key]

		surviving := group
		insufficient := false

		outlierCount := 0
		for _, metric := range core.Metrics() {
			clean, outliers, flagged := c.DetectOutliers(surviving, metric)
			if flagged {
				insufficient = true
				break
			}
			surviving = clean
			outlierCount += len(outliers)
			ds.RemovedOutliers = append(ds.RemovedOutliers, outliers...)
		}

		cleaned := sample.Group{Key: key, Samples: surviving}
		metrics := c.CalculateQualityMetrics(cleaned, failures[key], outlierCount, insufficient)

		pair := key.Pair()
		tr, ok := results[pair]
		if !ok {
			tr = &quality.TaskResult{
				Task:   key.Task,
				Scale:  key.Scale,
				Groups: make(map[core.Implementation]sample.Group),
				Health: make(map[core.Implementation]quality.Metrics),
			}
			results[pair] = tr
		}
		tr.Groups[key.Implementation] = cleaned
		tr.Health[key.Implementation] = metrics
	}

	pairs := make([]core.PairKey, 0, len(results))
	for p := range results {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].String() < pairs[j].String() })
	for _, p := range pairs {
		ds.TaskResults = append(ds.TaskResults, *results[p])
	}

	return ds
}

// CalculateQualityMetrics summarizes the health of one cleaned group.
// The CV is computed on execution time, the primary metric; it is
// reported as undefined rather than divided by a near-zero mean.
func (c *Controller) CalculateQualityMetrics(g sample.Group, failureCount, outlierCount int, insufficientForOutliers bool) quality.Metrics {
	issues := quality.IssueSet{}

	n, mean, variance := stats.Moments(g.Values(core.MetricExecutionTime))
	stdDev := math.Sqrt(variance)

	cv, cvDefined := stats.CoefficientOfVariation(mean, stdDev)
	if !cvDefined && n > 0 {
		issues.Add(quality.IssueUndefinedCV)
	}

	total := n + failureCount
	successRate := 1.0
	if total > 0 {
		successRate = float64(n) / float64(total)
	}

	thresholds := c.cfg.CVFor(g.Key.Implementation)
	if cvDefined && cv > thresholds.MaxFlag {
		issues.Add(quality.IssueHighCV)
	}
	if n < c.cfg.MinValidSamples {
		issues.Add(quality.IssueLowSampleCount)
	}
	if successRate < c.cfg.MinSuccessRate {
		issues.Add(quality.IssueLowSuccessRate)
	}
	if insufficientForOutliers {
		issues.Add(quality.IssueInsufficientForOutlierDetection)
	}

	return quality.Metrics{
		Count:         n,
		Mean:          mean,
		StdDev:        stdDev,
		CV:            cv,
		CVDefined:     cvDefined,
		SuccessRate:   successRate,
		OutlierCount:  outlierCount,
		Issues:        issues,
		FlaggedIssues: issues.Sorted(),
	}
}

// CalculateOverallQuality reduces all groups to a single verdict with a
// worst-case reduction: a single broken group invalidates task-level
// comparison, so there is no averaging.
func (c *Controller) CalculateOverallQuality(taskResults []quality.TaskResult) quality.Assessment {
	assessment := quality.Assessment{
		OverallRating: quality.RatingValid,
		PerGroup:      make(map[core.GroupKey]quality.Metrics),
	}

	for _, tr := range taskResults {
		for _, impl := range core.Implementations() {
			g, ok := tr.Groups[impl]
			if !ok {
				continue
			}
			m := tr.Health[impl]
			assessment.PerGroup[g.Key] = m
			assessment.GroupRatings = append(assessment.GroupRatings, quality.GroupRating{Key: g.Key, Metrics: m})

			rating, issue := c.rateGroup(g.Key, m)
			if rating.Worse(assessment.OverallRating) {
				assessment.OverallRating = rating
			}
			if issue != "" {
				assessment.BlockingIssues = append(assessment.BlockingIssues, issue)
			}
		}
	}

	sort.Strings(assessment.BlockingIssues)
	sort.Slice(assessment.GroupRatings, func(i, j int) bool {
		return assessment.GroupRatings[i].Key.String() < assessment.GroupRatings[j].Key.String()
	})
	return assessment
}

// rateGroup applies the hard and soft thresholds for one group. The
// returned issue string is non-empty only for hard breaches.
func (c *Controller) rateGroup(key core.GroupKey, m quality.Metrics) (quality.Rating, string) {
	thresholds := c.cfg.CVFor(key.Implementation)

	if m.Count < c.cfg.MinValidSamples {
		return quality.RatingInvalid, fmt.Sprintf("group %s: %d samples below hard minimum %d", key, m.Count, c.cfg.MinValidSamples)
	}
	if m.CVDefined && m.CV > thresholds.Invalid {
		return quality.RatingInvalid, fmt.Sprintf("group %s: CV %.3f exceeds invalid threshold %.3f", key, m.CV, thresholds.Invalid)
	}
	if m.CVDefined && m.CV > thresholds.Warning {
		return quality.RatingWarning, ""
	}
	return quality.RatingValid, ""
}
