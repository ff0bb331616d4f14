package persistence

import (
	"time"

	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
)

// storeSchema это строка таблицы stores.
type storeSchema struct {
	Name           string    `db:"name"`
	Domain         string    `db:"domain"`
	TrialExpiresAt time.Time `db:"trial_expires_at"`
	CreatedAt      time.Time `db:"created_at"`
}

func fromStore(r entity.StoreRecord) storeSchema {
	return storeSchema{
		Name:           r.Name,
		Domain:         r.Domain,
		TrialExpiresAt: r.TrialExpiresAt.UTC(),
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

func (s storeSchema) toDomain() entity.StoreRecord {
	return entity.StoreRecord{
		Name:           s.Name,
		Domain:         s.Domain,
		TrialExpiresAt: s.TrialExpiresAt.UTC(),
		CreatedAt:      s.CreatedAt.UTC(),
	}
}

// reportSchema хранит отчёт целиком в body, остальные колонки для выборок.
type reportSchema struct {
	RunID      string    `db:"run_id"`
	Goal       string    `db:"goal"`
	Outcome    string    `db:"outcome"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Body       string    `db:"body"`
}

func fromReport(r entity.Report) (reportSchema, error) {
	body, err := json.MarshalToString(r)
	if err != nil {
		return reportSchema{}, err //nolint:wrapcheck
	}

	return reportSchema{
		RunID:      r.RunID,
		Goal:       r.Goal,
		Outcome:    string(r.Outcome),
		StartedAt:  r.StartedAt.UTC(),
		FinishedAt: r.FinishedAt.UTC(),
		Body:       body,
	}, nil
}

func (s reportSchema) toDomain() (entity.Report, error) {
	var r entity.Report
	if err := json.UnmarshalFromString(s.Body, &r); err != nil {
		return entity.Report{}, err //nolint:wrapcheck
	}

	return r, nil
}

// ReportSummary это строка списка последних прогонов.
type ReportSummary struct {
	RunID      string
	Goal       string
	Outcome    value.Outcome
	StartedAt  time.Time
	FinishedAt time.Time
}

func (s reportSchema) summary() ReportSummary {
	return ReportSummary{
		RunID:      s.RunID,
		Goal:       s.Goal,
		Outcome:    value.Outcome(s.Outcome),
		StartedAt:  s.StartedAt.UTC(),
		FinishedAt: s.FinishedAt.UTC(),
	}
}
