package synthesis

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"benchgate/domain/core"
	"benchgate/domain/decision"
	"benchgate/domain/quality"
	"benchgate/internal/config"
	"benchgate/internal/errors"
)

// NeutralRecommendation is returned when the evidence does not
// decisively favor either implementation. The tie-break policy never
// silently picks a side.
const NeutralRecommendation = "no clear winner - choose by other criteria"

// Synthesizer compresses many per-task comparisons into one
// recommendation and a single confidence score.
type Synthesizer struct {
	cfg       config.DecisionConfig
	largeEdge float64
}

// NewSynthesizer creates a synthesizer. largeEffect is the cut point at
// which a normalized effect size saturates to 1.
func NewSynthesizer(cfg config.DecisionConfig, largeEffect float64) *Synthesizer {
	return &Synthesizer{cfg: cfg, largeEdge: largeEffect}
}

// DetermineOverallRecommendation counts, across all tasks, how many
// comparisons decisively favor each implementation: a metric is a vote
// when it is significant at medium-or-larger effect; a comparison whose
// metrics vote for opposite sides casts no vote. A near-even split
// yields the neutral recommendation.
func (s *Synthesizer) DetermineOverallRecommendation(comparisons []decision.ComparisonResult) string {
	votesA, votesB := 0, 0

	for _, c := range comparisons {
		switch s.voteOf(c) {
		case core.ImplementationA:
			votesA++
		case core.ImplementationB:
			votesB++
		}
	}

	decisive := votesA + votesB
	if decisive == 0 {
		return NeutralRecommendation
	}

	winner, winnerVotes := core.ImplementationA, votesA
	if votesB > votesA {
		winner, winnerVotes = core.ImplementationB, votesB
	}
	share := float64(winnerVotes) / float64(decisive)
	if votesA == votesB || share < s.cfg.DecisiveShare {
		return NeutralRecommendation
	}

	return fmt.Sprintf("implementation %s recommended: decisive advantage in %d of %d decisive task comparisons (%d tasks total)",
		winner, winnerVotes, decisive, len(comparisons))
}

// voteOf returns the implementation a comparison decisively favors, or
// "" when it favors neither or its metrics conflict.
func (s *Synthesizer) voteOf(c decision.ComparisonResult) core.Implementation {
	var vote core.Implementation
	for _, mc := range []decision.MetricComparison{c.ExecutionTime, c.Memory} {
		if mc.Skipped || !mc.TTest.IsSignificant || !mc.EffectSize.Magnitude.AtLeastMedium() {
			continue
		}
		favored := mc.Favors()
		if favored == "" {
			continue
		}
		if vote != "" && vote != favored {
			return "" // conflicting decisive metrics cancel out
		}
		vote = favored
	}
	return vote
}

// CalculateConfidenceScore blends three signals into [0,1]: the
// fraction of computed metric comparisons that are significant, the
// mean normalized effect magnitude, and the quality rating. The blend
// is monotonic: more significance, larger effects and cleaner data can
// only raise the score.
func (s *Synthesizer) CalculateConfidenceScore(comparisons []decision.ComparisonResult, assessment quality.Assessment) float64 {
	computed, significant := 0, 0
	effectSum := 0.0

	for _, c := range comparisons {
		for _, mc := range []decision.MetricComparison{c.ExecutionTime, c.Memory} {
			if mc.Skipped {
				continue
			}
			computed++
			if mc.TTest.IsSignificant {
				significant++
			}
			normalized := math.Abs(mc.EffectSize.CohensD) / s.largeEdge
			if normalized > 1 {
				normalized = 1
			}
			effectSum += normalized
		}
	}

	sigFraction, avgEffect := 0.0, 0.0
	if computed > 0 {
		sigFraction = float64(significant) / float64(computed)
		avgEffect = effectSum / float64(computed)
	}

	qualityFactor := 1.0
	switch assessment.OverallRating {
	case quality.RatingWarning:
		qualityFactor = 0.6
	case quality.RatingInvalid:
		qualityFactor = 0.2
	}

	w := s.cfg
	total := w.SignificanceWeight + w.EffectSizeWeight + w.QualityWeight
	score := (w.SignificanceWeight*sigFraction + w.EffectSizeWeight*avgEffect + w.QualityWeight*qualityFactor) / total

	return math.Min(math.Max(score, 0), 1)
}

// BuildReport assembles the final decision report. It narrates the
// evidence without altering it; skipped comparisons stay in the report
// as insufficient evidence.
func (s *Synthesizer) BuildReport(comparisons []decision.ComparisonResult, assessment quality.Assessment) decision.Report {
	return decision.Report{
		RunID:                 uuid.NewString(),
		GeneratedAt:           time.Now().UTC(),
		OverallRecommendation: s.DetermineOverallRecommendation(comparisons),
		ConfidenceScore:       s.CalculateConfidenceScore(comparisons, assessment),
		SupportingComparisons: comparisons,
		Quality:               assessment,
	}
}

// GenerateDecisionReport builds the report and writes it as JSON under
// outputDir, returning the written path.
func (s *Synthesizer) GenerateDecisionReport(comparisons []decision.ComparisonResult, assessment quality.Assessment, outputDir string) (decision.Report, string, error) {
	report := s.BuildReport(comparisons, assessment)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return report, "", errors.Wrap(err, "failed to create output directory")
	}

	path := filepath.Join(outputDir, fmt.Sprintf("decision_report_%s.json", report.RunID))
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return report, "", errors.Wrap(err, "failed to encode decision report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return report, "", errors.Wrap(err, "failed to write decision report")
	}
	return report, path, nil
}
