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

type StoreRepository struct {
	db *sqlx.DB
}

func NewStoreRepository(db *sqlx.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) GetByName(ctx context.Context, name string) (entity.StoreRecord, error) {
	query := r.db.Rebind(`SELECT name, domain, trial_expires_at, created_at FROM stores WHERE name = ?`)

	var schema storeSchema
	if err := r.db.GetContext(ctx, &schema, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.StoreRecord{}, domain.NewError(errcodes.StoreNotFound, "store not found")
		}

		return entity.StoreRecord{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get store")
	}

	return schema.toDomain(), nil
}

// Save ignores a second insert of the same name: the first record wins.
func (r *StoreRepository) Save(ctx context.Context, record entity.StoreRecord) error {
	schema := fromStore(record)

	query := r.db.Rebind(`
		INSERT INTO stores (name, domain, trial_expires_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO NOTHING`)

	_, err := r.db.ExecContext(ctx, query, schema.Name, schema.Domain, schema.TrialExpiresAt, schema.CreatedAt)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save store")
	}

	return nil
}

func (r *StoreRepository) List(ctx context.Context, limit int) ([]entity.StoreRecord, error) {
	query := r.db.Rebind(`SELECT name, domain, trial_expires_at, created_at FROM stores ORDER BY created_at DESC LIMIT ?`)

	var schemas []storeSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list stores")
	}

	result := make([]entity.StoreRecord, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.toDomain())
	}

	return result, nil
}
