package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/pkg/errcodes"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save upserts: a retried task overwrites the previous result of the run.
func (r *ReportRepository) Save(ctx context.Context, report entity.Report) error {
	schema, err := fromReport(report)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode report")
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			INSERT INTO reports (run_id, goal, outcome, started_at, finished_at, body)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (run_id) DO UPDATE SET
				outcome = excluded.outcome,
				finished_at = excluded.finished_at,
				body = excluded.body`)

		_, err := tx.ExecContext(ctx, query,
			schema.RunID, schema.Goal, schema.Outcome, schema.StartedAt, schema.FinishedAt, schema.Body)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to save report")
		}

		return nil
	})
}

func (r *ReportRepository) GetByRunID(ctx context.Context, runID string) (entity.Report, error) {
	query := r.db.Rebind(`SELECT run_id, goal, outcome, started_at, finished_at, body FROM reports WHERE run_id = ?`)

	var schema reportSchema
	if err := r.db.GetContext(ctx, &schema, query, runID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Report{}, domain.NewError(errcodes.RunNotFound, "run not found")
		}

		return entity.Report{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get report")
	}

	report, err := schema.toDomain()
	if err != nil {
		return entity.Report{}, domain.WrapError(err, errcodes.InternalServerError, "failed to decode report")
	}

	return report, nil
}

func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]ReportSummary, error) {
	query := r.db.Rebind(`
		SELECT run_id, goal, outcome, started_at, finished_at
		FROM reports ORDER BY started_at DESC LIMIT ?`)

	var schemas []reportSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list reports")
	}

	result := make([]ReportSummary, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.summary())
	}

	return result, nil
}
