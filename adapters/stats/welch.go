package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"benchgate/domain/core"
	"benchgate/domain/decision"
)

// varianceEpsilon: below this, a group's variance is treated as zero for
// the degenerate-variance check.
const varianceEpsilon = 1e-12

// WelchTTest runs an unequal-variance two-sample t-test. Two-tailed by
// design: the direction of the difference is not assumed a priori.
//
// Both groups need at least two samples. When both groups have ~zero
// variance the t statistic is undefined; the result reports the groups
// as identical (p=1) or, if the means still differ, as trivially
// distinct (p=0) instead of dividing by zero.
func WelchTTest(group1, group2 []float64, alpha float64) (decision.TTestResult, error) {
	n1, n2 := len(group1), len(group2)
	if n1 < 2 {
		return decision.TTestResult{}, core.NewInsufficientSampleSizeError("group1", n1, 2)
	}
	if n2 < 2 {
		return decision.TTestResult{}, core.NewInsufficientSampleSizeError("group2", n2, 2)
	}

	_, mean1, var1 := Moments(group1)
	_, mean2, var2 := Moments(group2)
	fn1, fn2 := float64(n1), float64(n2)

	diff := mean1 - mean2

	if var1 < varianceEpsilon && var2 < varianceEpsilon {
		res := decision.TTestResult{
			MeanDifference: diff,
			CILow:          diff,
			CIHigh:         diff,
			Identical:      true,
			PValue:         1.0,
		}
		if math.Abs(diff) >= meanEpsilon {
			// Zero spread but different means: the difference is exact.
			res.PValue = 0.0
			res.IsSignificant = true
		}
		return res, nil
	}

	se := math.Sqrt(var1/fn1 + var2/fn2)
	tStat := diff / se

	// Welch-Satterthwaite degrees of freedom (generally non-integer).
	num := math.Pow(var1/fn1+var2/fn2, 2)
	den := math.Pow(var1/fn1, 2)/(fn1-1) + math.Pow(var2/fn2, 2)/(fn2-1)
	df := num / den

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := 2 * tDist.Survival(math.Abs(tStat))
	if pValue > 1 {
		pValue = 1
	}

	tCrit := tDist.Quantile(1 - alpha/2)

	return decision.TTestResult{
		TStatistic:       tStat,
		DegreesOfFreedom: df,
		PValue:           pValue,
		MeanDifference:   diff,
		CILow:            diff - tCrit*se,
		CIHigh:           diff + tCrit*se,
		IsSignificant:    pValue < alpha,
	}, nil
}
