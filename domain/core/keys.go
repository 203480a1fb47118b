package core

import "fmt"

// Implementation identifies one of the two competing implementations
// under comparison.
type Implementation string

const (
	ImplementationA Implementation = "A"
	ImplementationB Implementation = "B"
)

// Implementations lists both sides in a fixed order.
func Implementations() []Implementation {
	return []Implementation{ImplementationA, ImplementationB}
}

// Valid reports whether the implementation is one of the two known sides.
func (i Implementation) Valid() bool {
	return i == ImplementationA || i == ImplementationB
}

// Other returns the opposing implementation.
func (i Implementation) Other() Implementation {
	if i == ImplementationA {
		return ImplementationB
	}
	return ImplementationA
}

// Metric identifies a measured dimension of a benchmark run.
type Metric string

const (
	MetricExecutionTime Metric = "execution_time"
	MetricMemoryUsage   Metric = "memory_usage"
)

// Metrics lists the measured dimensions in a fixed order.
func Metrics() []Metric {
	return []Metric{MetricExecutionTime, MetricMemoryUsage}
}

// GroupKey uniquely identifies a comparable population of samples.
// Value equality on the struct replaces string-concatenation keys so
// differently-ordered field joins can never collide.
type GroupKey struct {
	Task           string         `json:"task"`
	Implementation Implementation `json:"implementation"`
	Scale          string         `json:"scale"`
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Task, k.Implementation, k.Scale)
}

// PairKey identifies a (task, scale) pair, the unit of comparison
// between the two implementations.
type PairKey struct {
	Task  string `json:"task"`
	Scale string `json:"scale"`
}

func (k PairKey) String() string {
	return fmt.Sprintf("%s/%s", k.Task, k.Scale)
}

// Pair returns the (task, scale) pair this group belongs to.
func (k GroupKey) Pair() PairKey {
	return PairKey{Task: k.Task, Scale: k.Scale}
}
