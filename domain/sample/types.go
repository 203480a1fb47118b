package sample

import (
	"math"
	"strings"

	"benchgate/domain/core"
)

// Sample is the immutable record of one measured benchmark run.
// It is created once per executed run and never mutated; ownership of a
// sample collection moves stage to stage (quality control, then analysis).
type Sample struct {
	Task            string              `json:"task"`
	Implementation  core.Implementation `json:"implementation"`
	Scale           string              `json:"scale"`
	ExecutionTimeMs float64             `json:"execution_time_ms"`
	MemoryUsedMb    float64             `json:"memory_used_mb"`
	Succeeded       bool                `json:"succeeded"`
	Metadata        map[string]string   `json:"metadata,omitempty"`
}

// Key returns the composite group key identifying the population this
// sample belongs to.
func (s Sample) Key() core.GroupKey {
	return core.GroupKey{Task: s.Task, Implementation: s.Implementation, Scale: s.Scale}
}

// Value returns the sample's measurement for the given metric.
func (s Sample) Value(m core.Metric) float64 {
	if m == core.MetricMemoryUsage {
		return s.MemoryUsedMb
	}
	return s.ExecutionTimeMs
}

// Validate rejects malformed samples before they can enter grouping.
// A rejected sample is counted as a failure by the caller, never
// silently included as zero.
func (s Sample) Validate() error {
	if strings.TrimSpace(s.Task) == "" {
		return core.NewMalformedSampleError("empty task name")
	}
	if strings.TrimSpace(s.Scale) == "" {
		return core.NewMalformedSampleError("empty scale")
	}
	if !s.Implementation.Valid() {
		return core.NewMalformedSampleError("unknown implementation " + string(s.Implementation))
	}
	if math.IsNaN(s.ExecutionTimeMs) || math.IsInf(s.ExecutionTimeMs, 0) {
		return core.NewMalformedSampleError("non-finite execution time")
	}
	if math.IsNaN(s.MemoryUsedMb) || math.IsInf(s.MemoryUsedMb, 0) {
		return core.NewMalformedSampleError("non-finite memory usage")
	}
	if s.ExecutionTimeMs <= 0 {
		return core.NewMalformedSampleError("execution time must be positive")
	}
	if s.MemoryUsedMb < 0 {
		return core.NewMalformedSampleError("memory usage must be non-negative")
	}
	return nil
}

// Group is an unordered multiset of samples sharing one GroupKey.
type Group struct {
	Key     core.GroupKey `json:"key"`
	Samples []Sample      `json:"samples"`
}

// Values extracts the metric values of all samples in the group.
func (g Group) Values(m core.Metric) []float64 {
	out := make([]float64, len(g.Samples))
	for i, s := range g.Samples {
		out[i] = s.Value(m)
	}
	return out
}

// Len returns the number of samples in the group.
func (g Group) Len() int { return len(g.Samples) }
