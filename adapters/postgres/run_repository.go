package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"benchgate/domain/decision"
	"benchgate/domain/quality"
	"benchgate/internal/errors"
	"benchgate/ports"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

func dbError(err error, message string) error {
	return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, message))
}

// EnsureSchema creates the analysis_runs table if it does not exist
func (r *RunRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id TEXT PRIMARY KEY,
			generated_at TIMESTAMPTZ NOT NULL,
			recommendation TEXT NOT NULL,
			confidence_score DOUBLE PRECISION NOT NULL,
			quality_rating TEXT NOT NULL,
			report JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return dbError(err, "failed to ensure analysis_runs schema")
	}
	return nil
}

// SaveRun persists a decision report for later retrieval
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, report *decision.Report) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, generated_at, recommendation, confidence_score, quality_rating, report)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			recommendation = EXCLUDED.recommendation,
			confidence_score = EXCLUDED.confidence_score,
			quality_rating = EXCLUDED.quality_rating,
			report = EXCLUDED.report`,
		report.RunID, report.GeneratedAt, report.OverallRecommendation,
		report.ConfidenceScore, string(report.Quality.OverallRating), reportJSON)
	if err != nil {
		return dbError(err, "failed to save analysis run")
	}
	return nil
}

// GetRun retrieves a stored decision report by run ID
func (r *RunRepositoryImpl) GetRun(ctx context.Context, runID string) (*decision.Report, error) {
	var reportJSON []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT report FROM analysis_runs WHERE id = $1`, runID).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(err, "failed to load analysis run "+runID)
	}

	var report decision.Report
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		return nil, errors.Wrapf(err, "failed to decode analysis run %s", runID)
	}
	return &report, nil
}

// ListRuns returns summaries of the most recent runs, newest first
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, generated_at, recommendation, confidence_score, quality_rating
		FROM analysis_runs
		ORDER BY generated_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, dbError(err, "failed to list analysis runs")
	}
	defer rows.Close()

	var summaries []ports.RunSummary
	for rows.Next() {
		var s ports.RunSummary
		var generatedAt time.Time
		var rating string
		if err := rows.Scan(&s.RunID, &generatedAt, &s.Recommendation, &s.ConfidenceScore, &rating); err != nil {
			return nil, dbError(err, "failed to scan analysis run row")
		}
		s.GeneratedAt = generatedAt
		s.QualityRating = quality.Rating(rating)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
