package synthesis

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"benchgate/domain/core"
	"benchgate/domain/decision"
	"benchgate/domain/quality"
	"benchgate/internal/config"
)

func testSynthesizer() *Synthesizer {
	cfg := config.Default()
	return NewSynthesizer(cfg.Decision, cfg.Stats.EffectLarge)
}

// decisiveFor builds a comparison that decisively favors one side on
// both metrics. Negative d favors A, positive favors B.
func decisiveFor(task string, impl core.Implementation) decision.ComparisonResult {
	d := -1.2
	if impl == core.ImplementationB {
		d = 1.2
	}
	mc := func(m core.Metric) decision.MetricComparison {
		return decision.MetricComparison{
			Metric: m,
			TTest:  decision.TTestResult{IsSignificant: true, PValue: 0.001},
			EffectSize: decision.EffectSizeResult{
				CohensD:   d,
				Magnitude: decision.EffectLarge,
				MeetsMDE:  true,
			},
		}
	}
	return decision.ComparisonResult{
		Task:              task,
		Scale:             "large",
		ExecutionTime:     mc(core.MetricExecutionTime),
		Memory:            mc(core.MetricMemoryUsage),
		OverallConfidence: decision.ConfidenceHigh,
	}
}

func indecisive(task string) decision.ComparisonResult {
	mc := func(m core.Metric) decision.MetricComparison {
		return decision.MetricComparison{
			Metric: m,
			TTest:  decision.TTestResult{IsSignificant: false, PValue: 0.4},
			EffectSize: decision.EffectSizeResult{
				CohensD:   0.05,
				Magnitude: decision.EffectNegligible,
			},
		}
	}
	return decision.ComparisonResult{
		Task:              task,
		Scale:             "large",
		ExecutionTime:     mc(core.MetricExecutionTime),
		Memory:            mc(core.MetricMemoryUsage),
		OverallConfidence: decision.ConfidenceLow,
	}
}

func TestDetermineOverallRecommendation_ClearWinner(t *testing.T) {
	comparisons := []decision.ComparisonResult{
		decisiveFor("sort", core.ImplementationA),
		decisiveFor("hash", core.ImplementationA),
		decisiveFor("parse", core.ImplementationA),
		indecisive("noop"),
	}

	rec := testSynthesizer().DetermineOverallRecommendation(comparisons)

	if !strings.Contains(rec, "implementation A recommended") {
		t.Errorf("recommendation = %q, want A recommended", rec)
	}
	if !strings.Contains(rec, "3 of 3") {
		t.Errorf("recommendation = %q, want 3 of 3 decisive", rec)
	}
}

func TestDetermineOverallRecommendation_TieIsNeutral(t *testing.T) {
	comparisons := []decision.ComparisonResult{
		decisiveFor("sort", core.ImplementationA),
		decisiveFor("hash", core.ImplementationB),
	}

	rec := testSynthesizer().DetermineOverallRecommendation(comparisons)

	if rec != NeutralRecommendation {
		t.Errorf("recommendation = %q, want neutral on a tie", rec)
	}
}

func TestDetermineOverallRecommendation_NarrowMajorityIsNeutral(t *testing.T) {
	// 5 of 9 is a majority but under the default 0.6 decisive share.
	var comparisons []decision.ComparisonResult
	for i := 0; i < 5; i++ {
		comparisons = append(comparisons, decisiveFor("a-task", core.ImplementationA))
	}
	for i := 0; i < 4; i++ {
		comparisons = append(comparisons, decisiveFor("b-task", core.ImplementationB))
	}

	rec := testSynthesizer().DetermineOverallRecommendation(comparisons)

	if rec != NeutralRecommendation {
		t.Errorf("recommendation = %q, want neutral below decisive share", rec)
	}
}

func TestDetermineOverallRecommendation_NoDecisiveVotes(t *testing.T) {
	comparisons := []decision.ComparisonResult{indecisive("sort"), indecisive("hash")}

	rec := testSynthesizer().DetermineOverallRecommendation(comparisons)

	if rec != NeutralRecommendation {
		t.Errorf("recommendation = %q, want neutral with no votes", rec)
	}
}

func TestVoteOf_ConflictingMetricsCancel(t *testing.T) {
	c := decisiveFor("sort", core.ImplementationA)
	c.Memory.EffectSize.CohensD = 1.2 // memory now favors B

	if got := testSynthesizer().voteOf(c); got != "" {
		t.Errorf("conflicting decisive metrics must cancel, got vote for %q", got)
	}
}

func TestCalculateConfidenceScore_Bounds(t *testing.T) {
	s := testSynthesizer()

	best := s.CalculateConfidenceScore(
		[]decision.ComparisonResult{decisiveFor("sort", core.ImplementationA)},
		quality.Assessment{OverallRating: quality.RatingValid},
	)
	if best < 0 || best > 1 {
		t.Fatalf("score out of bounds: %v", best)
	}
	if best != 1.0 {
		t.Errorf("all-significant large effects on valid data should score 1.0, got %v", best)
	}

	worst := s.CalculateConfidenceScore(nil, quality.Assessment{OverallRating: quality.RatingInvalid})
	if worst < 0 || worst > 1 {
		t.Fatalf("score out of bounds: %v", worst)
	}
	if best <= worst {
		t.Errorf("best evidence (%v) should outscore no evidence (%v)", best, worst)
	}
}

func TestCalculateConfidenceScore_Monotonic(t *testing.T) {
	s := testSynthesizer()
	assessment := quality.Assessment{OverallRating: quality.RatingValid}

	mixed := []decision.ComparisonResult{
		decisiveFor("sort", core.ImplementationA),
		indecisive("hash"),
	}
	strong := []decision.ComparisonResult{
		decisiveFor("sort", core.ImplementationA),
		decisiveFor("hash", core.ImplementationA),
	}

	if s.CalculateConfidenceScore(strong, assessment) <= s.CalculateConfidenceScore(mixed, assessment) {
		t.Error("replacing an indecisive comparison with a decisive one must raise the score")
	}

	degraded := quality.Assessment{OverallRating: quality.RatingWarning}
	if s.CalculateConfidenceScore(strong, degraded) >= s.CalculateConfidenceScore(strong, assessment) {
		t.Error("degrading data quality must lower the score")
	}
}

func TestGenerateDecisionReport_WritesFile(t *testing.T) {
	s := testSynthesizer()
	dir := t.TempDir()

	comparisons := []decision.ComparisonResult{decisiveFor("sort", core.ImplementationA)}
	assessment := quality.Assessment{OverallRating: quality.RatingValid}

	report, path, err := s.GenerateDecisionReport(comparisons, assessment, dir)
	if err != nil {
		t.Fatalf("GenerateDecisionReport: %v", err)
	}
	if report.RunID == "" {
		t.Error("report must carry a run id")
	}
	if !strings.Contains(path, report.RunID) {
		t.Errorf("path %q should embed run id %q", path, report.RunID)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var roundTrip decision.Report
	if err := json.Unmarshal(data, &roundTrip); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if roundTrip.OverallRecommendation != report.OverallRecommendation {
		t.Errorf("written recommendation %q != %q", roundTrip.OverallRecommendation, report.OverallRecommendation)
	}
	if len(roundTrip.SupportingComparisons) != 1 {
		t.Errorf("expected 1 supporting comparison, got %d", len(roundTrip.SupportingComparisons))
	}
}
