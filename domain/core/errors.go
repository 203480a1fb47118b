package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Ingestion errors
	ErrMalformedSample = errors.New("malformed sample")

	// Analysis errors
	ErrInsufficientSampleSize = errors.New("insufficient sample size")
	ErrDegenerateVariance     = errors.New("degenerate variance")

	// Configuration errors - fatal at startup
	ErrConfigInvalid = errors.New("invalid configuration")
)

// Error constructors with context
func NewMalformedSampleError(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedSample, reason)
}

func NewInsufficientSampleSizeError(group string, n, min int) error {
	return fmt.Errorf("%w: group %s has %d samples, need %d", ErrInsufficientSampleSize, group, n, min)
}

func NewDegenerateVarianceError(group string) error {
	return fmt.Errorf("%w: both groups near-zero variance for %s", ErrDegenerateVariance, group)
}

func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfigInvalid, field, reason)
}

// Error checking helpers
func IsMalformedSample(err error) bool {
	return errors.Is(err, ErrMalformedSample)
}

func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInsufficientSampleSize) ||
		errors.Is(err, ErrDegenerateVariance)
}

func IsFatal(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}
