package stats

import (
	"math"

	montana "github.com/montanaflynn/stats"

	"benchgate/domain/core"
	"benchgate/domain/decision"
)

// meanEpsilon guards the CV division: a mean closer to zero than this is
// treated as zero and the CV reported as undefined.
const meanEpsilon = 1e-9

// Welford accumulates mean and variance incrementally. The update is
// order-independent in result and avoids the catastrophic cancellation
// of naive sum-of-squares accumulation on large-magnitude data.
type Welford struct {
	n    int
	mean float64
	m2   float64
}

// Push adds one observation.
func (w *Welford) Push(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

// N returns the number of observations seen.
func (w *Welford) N() int { return w.n }

// Mean returns the running mean.
func (w *Welford) Mean() float64 { return w.mean }

// Variance returns the sample variance (n-1 denominator).
func (w *Welford) Variance() float64 {
	if w.n < 2 {
		return 0
	}
	return w.m2 / float64(w.n-1)
}

// StdDev returns the sample standard deviation.
func (w *Welford) StdDev() float64 {
	return math.Sqrt(w.Variance())
}

// Moments computes n, mean and sample variance of values in one pass.
func Moments(values []float64) (n int, mean, variance float64) {
	var w Welford
	for _, v := range values {
		w.Push(v)
	}
	return w.N(), w.Mean(), w.Variance()
}

// CoefficientOfVariation returns std/mean and whether the ratio is
// defined. A mean within meanEpsilon of zero makes the CV undefined
// rather than dividing by near-zero.
func CoefficientOfVariation(mean, stdDev float64) (float64, bool) {
	if math.Abs(mean) < meanEpsilon {
		return 0, false
	}
	return stdDev / math.Abs(mean), true
}

// Describe summarizes a numeric sequence. Mean and standard deviation
// come from the incremental accumulator; quantiles from the sorted data.
func Describe(values []float64) (decision.Descriptive, error) {
	if len(values) == 0 {
		return decision.Descriptive{}, core.NewInsufficientSampleSizeError("describe", 0, 1)
	}

	n, mean, variance := Moments(values)
	stdDev := math.Sqrt(variance)

	median, err := montana.Median(montana.Float64Data(values))
	if err != nil {
		return decision.Descriptive{}, err
	}

	d := decision.Descriptive{
		N:      n,
		Mean:   mean,
		StdDev: stdDev,
		Median: median,
	}

	// Quartiles need at least a handful of points to mean anything.
	if n >= 4 {
		q, err := montana.Quartile(montana.Float64Data(values))
		if err != nil {
			return decision.Descriptive{}, err
		}
		d.Q1 = q.Q1
		d.Q3 = q.Q3
		d.IQR = q.Q3 - q.Q1
	} else {
		d.Q1 = median
		d.Q3 = median
	}

	if cv, ok := CoefficientOfVariation(mean, stdDev); ok {
		d.CV = cv
	}

	return d, nil
}
