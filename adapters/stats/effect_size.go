package stats

import (
	"fmt"
	"math"

	"benchgate/domain/core"
	"benchgate/domain/decision"
)

// EffectThresholds holds the cut points for classifying |d| and the
// minimum effect the analysis treats as practically meaningful.
type EffectThresholds struct {
	Small                   float64
	Medium                  float64
	Large                   float64
	MinimumDetectableEffect float64
}

// DefaultEffectThresholds returns the conventional Cohen cut points.
func DefaultEffectThresholds() EffectThresholds {
	return EffectThresholds{
		Small:                   0.2,
		Medium:                  0.5,
		Large:                   0.8,
		MinimumDetectableEffect: 0.5,
	}
}

// ClassifyMagnitude maps |d| onto the closed magnitude partition. Every
// non-negative value lands in exactly one bucket.
func (t EffectThresholds) ClassifyMagnitude(absD float64) decision.EffectMagnitude {
	switch {
	case absD < t.Small:
		return decision.EffectNegligible
	case absD < t.Medium:
		return decision.EffectSmall
	case absD < t.Large:
		return decision.EffectMedium
	default:
		return decision.EffectLarge
	}
}

// CohensD computes the standardized mean difference between two groups
// using the pooled standard deviation.
//
// Sign convention: d = (mean1 - mean2) / pooledSD, so with group1 =
// implementation A and cost metrics (time, memory), negative d favors A.
// Swapping arguments flips the sign and preserves the magnitude.
func CohensD(group1, group2 []float64, significant bool, t EffectThresholds) (decision.EffectSizeResult, error) {
	n1, n2 := len(group1), len(group2)
	if n1 < 2 {
		return decision.EffectSizeResult{}, core.NewInsufficientSampleSizeError("group1", n1, 2)
	}
	if n2 < 2 {
		return decision.EffectSizeResult{}, core.NewInsufficientSampleSizeError("group2", n2, 2)
	}

	_, mean1, var1 := Moments(group1)
	_, mean2, var2 := Moments(group2)
	fn1, fn2 := float64(n1), float64(n2)

	pooledVar := ((fn1-1)*var1 + (fn2-1)*var2) / (fn1 + fn2 - 2)
	if pooledVar < varianceEpsilon {
		if math.Abs(mean1-mean2) < meanEpsilon {
			return decision.EffectSizeResult{
				Magnitude:      decision.EffectNegligible,
				Interpretation: "groups are identical, no measurable effect",
			}, nil
		}
		return decision.EffectSizeResult{}, core.NewDegenerateVarianceError("cohens_d")
	}

	d := (mean1 - mean2) / math.Sqrt(pooledVar)
	absD := math.Abs(d)
	magnitude := t.ClassifyMagnitude(absD)
	meetsMDE := absD >= t.MinimumDetectableEffect

	return decision.EffectSizeResult{
		CohensD:        d,
		Magnitude:      magnitude,
		MeetsMDE:       meetsMDE,
		Interpretation: interpretEffect(d, magnitude, meetsMDE, significant),
	}, nil
}

func interpretEffect(d float64, magnitude decision.EffectMagnitude, meetsMDE, significant bool) string {
	side := "implementation A"
	if d > 0 {
		side = "implementation B"
	}

	base := fmt.Sprintf("%s effect (d=%.3f) favoring %s", magnitude, d, side)
	if magnitude == decision.EffectNegligible {
		base = fmt.Sprintf("negligible effect (d=%.3f)", d)
	}

	if significant && !meetsMDE {
		return base + "; statistically significant but below the minimum detectable effect, so not practically meaningful"
	}
	if !significant && meetsMDE {
		return base + "; sizable but not statistically significant"
	}
	if significant && meetsMDE {
		return base + "; statistically significant and practically meaningful"
	}
	return base
}
