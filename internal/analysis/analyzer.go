package analysis

import (
	"fmt"

	"benchgate/adapters/stats"
	"benchgate/domain/core"
	"benchgate/domain/decision"
	"benchgate/domain/quality"
	"benchgate/internal/config"
)

// Analyzer answers, per metric per (task, scale) pair, whether the
// difference between the two implementations is real and how big it is.
// Thresholds are injected at construction and shared read-only.
type Analyzer struct {
	cfg        config.StatsConfig
	thresholds stats.EffectThresholds
	minSamples int
}

// NewAnalyzer creates an analyzer with the given statistics thresholds.
// minSamples is the hard minimum group size below which a comparison is
// reported as skipped instead of computing a misleading test.
func NewAnalyzer(cfg config.StatsConfig, minSamples int) *Analyzer {
	return &Analyzer{
		cfg:        cfg,
		thresholds: cfg.EffectThresholds(),
		minSamples: minSamples,
	}
}

// GenerateTaskComparison compares both implementations' cleaned groups
// for one (task, scale) pair, metric by metric. A metric that cannot be
// tested is reported as skipped with a reason, never dropped.
func (a *Analyzer) GenerateTaskComparison(tr quality.TaskResult) decision.ComparisonResult {
	result := decision.ComparisonResult{Task: tr.Task, Scale: tr.Scale}

	groupA, okA := tr.Groups[core.ImplementationA]
	groupB, okB := tr.Groups[core.ImplementationB]

	for _, metric := range core.Metrics() {
		var mc decision.MetricComparison
		switch {
		case !okA:
			mc = skipped(metric, "no samples for implementation A")
		case !okB:
			mc = skipped(metric, "no samples for implementation B")
		default:
			mc = a.compareMetric(metric, groupA.Values(metric), groupB.Values(metric))
		}
		if metric == core.MetricMemoryUsage {
			result.Memory = mc
		} else {
			result.ExecutionTime = mc
		}
	}

	result.OverallConfidence = a.overallConfidence(result.ExecutionTime, result.Memory)
	return result
}

// compareMetric runs the t-test and effect size for one metric.
func (a *Analyzer) compareMetric(metric core.Metric, valuesA, valuesB []float64) decision.MetricComparison {
	mc := decision.MetricComparison{Metric: metric}

	if len(valuesA) < a.minSamples {
		return skipped(metric, fmt.Sprintf("implementation A has %d samples, need %d", len(valuesA), a.minSamples))
	}
	if len(valuesB) < a.minSamples {
		return skipped(metric, fmt.Sprintf("implementation B has %d samples, need %d", len(valuesB), a.minSamples))
	}

	descA, err := stats.Describe(valuesA)
	if err != nil {
		return skipped(metric, err.Error())
	}
	descB, err := stats.Describe(valuesB)
	if err != nil {
		return skipped(metric, err.Error())
	}
	mc.GroupA = descA
	mc.GroupB = descB

	tt, err := stats.WelchTTest(valuesA, valuesB, a.cfg.SignificanceAlpha)
	if err != nil {
		return skipped(metric, err.Error())
	}
	mc.TTest = tt

	if tt.Identical {
		mc.EffectSize = decision.EffectSizeResult{
			Magnitude:      decision.EffectNegligible,
			Interpretation: "groups have no variance; reported as identical",
		}
		if tt.IsSignificant {
			mc.EffectSize.Magnitude = decision.EffectLarge
			mc.EffectSize.MeetsMDE = true
			mc.EffectSize.CohensD = signOf(tt.MeanDifference) * a.thresholds.Large
			mc.EffectSize.Interpretation = "groups have no variance but different means; exact difference"
		}
		return mc
	}

	es, err := stats.CohensD(valuesA, valuesB, tt.IsSignificant, a.thresholds)
	if err != nil {
		return skipped(metric, err.Error())
	}
	mc.EffectSize = es
	return mc
}

// overallConfidence maps every combination of significance, magnitude
// and direction agreement onto exactly one label:
//
//	any metric skipped                                     -> insufficient
//	metrics point at different implementations             -> low
//	agreement and >=1 significant medium-or-larger effect  -> high
//	agreement and >=1 significant effect                   -> moderate
//	nothing significant                                    -> low
//
// A negligible effect does not count as a direction for agreement.
func (a *Analyzer) overallConfidence(exec, mem decision.MetricComparison) decision.ConfidenceLabel {
	if exec.Skipped || mem.Skipped {
		return decision.ConfidenceInsufficient
	}

	favorExec, favorMem := exec.Favors(), mem.Favors()
	if favorExec != "" && favorMem != "" && favorExec != favorMem {
		return decision.ConfidenceLow
	}

	strong := (exec.TTest.IsSignificant && exec.EffectSize.Magnitude.AtLeastMedium()) ||
		(mem.TTest.IsSignificant && mem.EffectSize.Magnitude.AtLeastMedium())
	if strong {
		return decision.ConfidenceHigh
	}

	if exec.TTest.IsSignificant || mem.TTest.IsSignificant {
		return decision.ConfidenceModerate
	}
	return decision.ConfidenceLow
}

func skipped(metric core.Metric, reason string) decision.MetricComparison {
	return decision.MetricComparison{Metric: metric, Skipped: true, SkipReason: reason}
}

func signOf(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
