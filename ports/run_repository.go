package ports

import (
	"context"
	"time"

	"benchgate/domain/decision"
	"benchgate/domain/quality"
)

// RunSummary is the lightweight listing view of a stored analysis run.
type RunSummary struct {
	RunID           string         `json:"run_id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Recommendation  string         `json:"recommendation"`
	ConfidenceScore float64        `json:"confidence_score"`
	QualityRating   quality.Rating `json:"quality_rating"`
}

// RunRepository persists completed analysis runs for the external
// reporting layer.
type RunRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, report *decision.Report) error
	GetRun(ctx context.Context, runID string) (*decision.Report, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}
