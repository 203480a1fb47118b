// Package testkit generates deterministic synthetic benchmark samples
// for tests. Every generator is seeded, so a failing test reproduces
// byte for byte.
package testkit

import (
	"fmt"
	"math/rand"

	"benchgate/domain/core"
	"benchgate/domain/sample"
)

// GroupSpec describes one group of synthetic samples. Jitter is the
// relative standard deviation applied to both centers.
type GroupSpec struct {
	Task           string
	Scale          string
	Implementation core.Implementation
	Count          int
	TimeCenterMs   float64
	MemCenterMb    float64
	Jitter         float64
	FailureRate    float64
	OutlierCount   int // samples pushed to ~100x the time center
}

// Generator produces benchmark sample fixtures from a fixed seed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with a fixed seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Group generates the samples one spec describes. Outliers come last so
// callers can reason about which indices were contaminated.
func (g *Generator) Group(spec GroupSpec) []sample.Sample {
	jitter := spec.Jitter
	if jitter == 0 {
		jitter = 0.02
	}

	out := make([]sample.Sample, 0, spec.Count+spec.OutlierCount)
	for i := 0; i < spec.Count; i++ {
		out = append(out, sample.Sample{
			Task:            spec.Task,
			Implementation:  spec.Implementation,
			Scale:           spec.Scale,
			ExecutionTimeMs: spec.TimeCenterMs * (1 + jitter*g.rng.NormFloat64()),
			MemoryUsedMb:    spec.MemCenterMb * (1 + jitter*g.rng.NormFloat64()),
			Succeeded:       g.rng.Float64() >= spec.FailureRate,
			Metadata:        map[string]string{"host": fmt.Sprintf("bench-%02d", i%4)},
		})
	}
	for i := 0; i < spec.OutlierCount; i++ {
		out = append(out, sample.Sample{
			Task:            spec.Task,
			Implementation:  spec.Implementation,
			Scale:           spec.Scale,
			ExecutionTimeMs: spec.TimeCenterMs * 100 * (1 + jitter*g.rng.NormFloat64()),
			MemoryUsedMb:    spec.MemCenterMb,
			Succeeded:       true,
			Metadata:        map[string]string{"host": "bench-sick"},
		})
	}
	return out
}

// MatchedPair generates both implementations' groups for one
// (task, scale) pair, with A scaled relative to B by advantage:
// 0.7 means A runs at 70% of B's cost on both metrics.
func (g *Generator) MatchedPair(task, scale string, count int, timeB, memB, advantage float64) []sample.Sample {
	a := g.Group(GroupSpec{
		Task: task, Scale: scale, Implementation: core.ImplementationA,
		Count: count, TimeCenterMs: timeB * advantage, MemCenterMb: memB * advantage,
	})
	b := g.Group(GroupSpec{
		Task: task, Scale: scale, Implementation: core.ImplementationB,
		Count: count, TimeCenterMs: timeB, MemCenterMb: memB,
	})
	return append(a, b...)
}
