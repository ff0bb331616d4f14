package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/pkg/contextx"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/logx"
	"storepilot/pkg/retry"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Host это платформа, на которой живёт магазин.
type Host interface {
	FindStore(ctx context.Context, name string) (entity.StoreRecord, bool, error)
	CreateStore(ctx context.Context, name string, products []entity.Product) (entity.StoreRecord, error)
}

type Repository interface {
	GetByName(ctx context.Context, name string) (entity.StoreRecord, error)
	Save(ctx context.Context, record entity.StoreRecord) error
	List(ctx context.Context, limit int) ([]entity.StoreRecord, error)
}

type Provisioner struct {
	host        Host
	repo        Repository
	group       singleflight.Group
	retryPolicy retry.Policy
}

func NewProvisioner(host Host, repo Repository) *Provisioner {
	return &Provisioner{
		host:        host,
		repo:        repo,
		retryPolicy: retry.DefaultPolicy(),
	}
}

func (p *Provisioner) WithRetryPolicy(policy retry.Policy) *Provisioner {
	p.retryPolicy = policy
	return p
}

// Provision creates the store once. Repeated calls, sequential or concurrent,
// return the same record with Existing set.
func (p *Provisioner) Provision(ctx context.Context, name string, products []entity.Product) (entity.StoreRecord, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return entity.StoreRecord{}, err
	}

	v, err, shared := p.group.Do(normalized, func() (any, error) {
		return p.provision(ctx, normalized, products)
	})
	if err != nil {
		return entity.StoreRecord{}, fmt.Errorf("store.Provision(%s): %w", normalized, err)
	}

	record := v.(entity.StoreRecord) //nolint:forcetypeassert
	if shared {
		// второй конкурентный вызов видит магазин как уже существующий
		record.Existing = true
	}

	return record, nil
}

func (p *Provisioner) provision(ctx context.Context, name string, products []entity.Product) (entity.StoreRecord, error) {
	record, err := p.repo.GetByName(ctx, name)
	if err == nil {
		record.Existing = true
		return record, nil
	}

	if !isNotFound(err) {
		return entity.StoreRecord{}, fmt.Errorf("repo.GetByName: %w", err)
	}

	// поиск по имени перед созданием: повтор не заведёт второй магазин
	err = retry.Do(ctx, "storehost.provision", p.retryPolicy, domain.IsNetwork, func(ctx context.Context) error {
		existing, found, err := p.host.FindStore(ctx, name)
		if err != nil {
			return fmt.Errorf("host.FindStore: %w", err)
		}

		if found {
			existing.Existing = true
			record = existing

			return nil
		}

		created, err := p.host.CreateStore(ctx, name, products)
		if err != nil {
			return fmt.Errorf("host.CreateStore: %w", err)
		}

		record = created

		logger(ctx).Info("store created", slog.String(logx.FieldStore, name), slog.Int("products", len(products)))

		return nil
	})
	if err != nil {
		return entity.StoreRecord{}, err //nolint:wrapcheck
	}

	if err := p.repo.Save(ctx, record); err != nil {
		return entity.StoreRecord{}, fmt.Errorf("repo.Save: %w", err)
	}

	return record, nil
}

func (p *Provisioner) Get(ctx context.Context, name string) (entity.StoreRecord, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return entity.StoreRecord{}, err
	}

	record, err := p.repo.GetByName(ctx, normalized)
	if err != nil {
		return entity.StoreRecord{}, fmt.Errorf("repo.GetByName: %w", err)
	}

	record.Existing = true

	return record, nil
}

// List returns the newest stores first.
func (p *Provisioner) List(ctx context.Context, limit int) ([]entity.StoreRecord, error) {
	records, err := p.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("repo.List: %w", err)
	}

	for i := range records {
		records[i].Existing = true
	}

	return records, nil
}

func isNotFound(err error) bool {
	var appErr *domain.AppError

	return errors.As(err, &appErr) && (appErr.Code == errcodes.StoreNotFound || appErr.Code == errcodes.NotFound)
}
