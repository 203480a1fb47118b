package stats

import (
	"math"
	"testing"

	"benchgate/domain/core"
)

func TestWelchTTest_SelfComparison(t *testing.T) {
	group := []float64{45.2, 46.1, 44.8, 45.5, 46.0}

	res, err := WelchTTest(group, group, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(res.TStatistic) > 1e-9 {
		t.Errorf("t = %v, want ~0 for self comparison", res.TStatistic)
	}
	if math.Abs(res.PValue-1.0) > 1e-9 {
		t.Errorf("p = %v, want ~1 for self comparison", res.PValue)
	}
	if res.IsSignificant {
		t.Error("self comparison must not be significant")
	}
}

func TestWelchTTest_KnownScenario(t *testing.T) {
	// Two implementations on the same task: A is consistently ~1.5ms
	// faster with slightly higher spread.
	groupA := []float64{45.2, 46.1, 44.8, 45.5, 46.0}
	groupB := []float64{47.1, 46.8, 47.3, 46.9, 47.2}

	res, err := WelchTTest(groupA, groupB, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(res.MeanDifference-(-1.54)) > 1e-9 {
		t.Errorf("mean difference = %v, want -1.54", res.MeanDifference)
	}
	if !res.IsSignificant {
		t.Errorf("expected significance at alpha=0.05, got p=%v", res.PValue)
	}
	if res.TStatistic >= 0 {
		t.Errorf("t = %v, expected negative (A faster)", res.TStatistic)
	}
	if res.DegreesOfFreedom <= 4 || res.DegreesOfFreedom >= 8 {
		t.Errorf("welch df = %v, expected between 4 and 8", res.DegreesOfFreedom)
	}
	if res.CILow >= res.CIHigh {
		t.Errorf("confidence interval inverted: (%v, %v)", res.CILow, res.CIHigh)
	}
	if res.CIHigh >= 0 {
		t.Errorf("CI upper bound = %v, expected entirely below zero", res.CIHigh)
	}
}

func TestWelchTTest_InsufficientSamples(t *testing.T) {
	tests := []struct {
		name   string
		group1 []float64
		group2 []float64
	}{
		{"empty first group", nil, []float64{1, 2, 3}},
		{"single sample first group", []float64{1}, []float64{1, 2, 3}},
		{"single sample second group", []float64{1, 2, 3}, []float64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WelchTTest(tt.group1, tt.group2, 0.05)
			if err == nil {
				t.Fatal("expected error")
			}
			if !core.IsRecoverable(err) {
				t.Errorf("expected recoverable insufficient-sample error, got %v", err)
			}
		})
	}
}

func TestWelchTTest_DegenerateVariance(t *testing.T) {
	t.Run("identical constant groups", func(t *testing.T) {
		res, err := WelchTTest([]float64{5, 5, 5}, []float64{5, 5, 5}, 0.05)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Identical {
			t.Error("expected identical verdict for zero-variance equal groups")
		}
		if res.PValue != 1.0 {
			t.Errorf("p = %v, want 1.0", res.PValue)
		}
	})

	t.Run("constant groups with different means", func(t *testing.T) {
		res, err := WelchTTest([]float64{5, 5, 5}, []float64{9, 9, 9}, 0.05)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Identical {
			t.Error("expected degenerate-variance path")
		}
		if !res.IsSignificant {
			t.Error("exact difference between constants should be significant")
		}
		if res.MeanDifference != -4 {
			t.Errorf("mean difference = %v, want -4", res.MeanDifference)
		}
	})
}

func TestWelchTTest_PValueShrinksWithSeparation(t *testing.T) {
	base := []float64{10.0, 10.2, 9.8, 10.1, 9.9}
	near := []float64{10.3, 10.5, 10.1, 10.4, 10.2}
	far := []float64{14.0, 14.2, 13.8, 14.1, 13.9}

	resNear, err := WelchTTest(base, near, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resFar, err := WelchTTest(base, far, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resFar.PValue >= resNear.PValue {
		t.Errorf("p-value should shrink as groups separate: near=%v far=%v", resNear.PValue, resFar.PValue)
	}
}
