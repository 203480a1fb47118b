package app

import (
	"context"

	"benchgate/domain/decision"
	domainquality "benchgate/domain/quality"
	"benchgate/domain/sample"
	"benchgate/internal"
	"benchgate/internal/analysis"
	"benchgate/internal/config"
	"benchgate/internal/quality"
	"benchgate/internal/synthesis"
)

// AnalysisService runs the full decision pipeline: quality control,
// per-task statistical comparison, and decision synthesis.
type AnalysisService struct {
	cfg      *config.Config
	qc       *quality.Controller
	analyzer *analysis.Analyzer
	synth    *synthesis.Synthesizer
	log      *internal.Logger
}

// NewAnalysisService wires the pipeline from one validated config.
func NewAnalysisService(cfg *config.Config) *AnalysisService {
	return &AnalysisService{
		cfg:      cfg,
		qc:       quality.NewController(cfg.Quality),
		analyzer: analysis.NewAnalyzer(cfg.Stats, cfg.Quality.MinValidSamples),
		synth:    synthesis.NewSynthesizer(cfg.Decision, cfg.Stats.EffectLarge),
		log:      internal.DefaultLogger,
	}
}

// Run cleans the raw samples, compares every (task, scale) pair in
// parallel, and writes the decision report. It returns the report and
// the path it was written to.
func (s *AnalysisService) Run(ctx context.Context, raw []sample.Sample) (*decision.Report, string, error) {
	ds := s.qc.ValidateAndClean(raw)
	s.log.Info("cleaned dataset: %d task results, %d outliers removed, %d failed, %d malformed",
		len(ds.TaskResults), len(ds.RemovedOutliers), ds.FailedCount, ds.MalformedCount)

	assessment := s.qc.CalculateOverallQuality(ds.TaskResults)
	if assessment.OverallRating != domainquality.RatingValid {
		s.log.Warn("data quality rating: %s (%d blocking issues)", assessment.OverallRating, len(assessment.BlockingIssues))
	}

	comparisons, err := analysis.RunComparisons(ctx, s.analyzer, ds, s.cfg.Workers)
	if err != nil {
		return nil, "", err
	}

	report, path, err := s.synth.GenerateDecisionReport(comparisons, assessment, s.cfg.Paths.OutputDir)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("decision: %s (confidence %.2f), report written to %s",
		report.OverallRecommendation, report.ConfidenceScore, path)
	return &report, path, nil
}
