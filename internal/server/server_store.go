package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/httpx/reply"
	"storepilot/pkg/rest"
)

const (
	defaultStoreListLimit = 20
	maxStoreListLimit     = 100
)

type storeReader interface {
	Get(ctx context.Context, name string) (entity.StoreRecord, error)
	List(ctx context.Context, limit int) ([]entity.StoreRecord, error)
}

type StoreServer struct {
	stores storeReader
}

func NewStoreServer(stores storeReader) StoreServer {
	return StoreServer{stores: stores}
}

func (s StoreServer) getV1Store(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	record, err := s.stores.Get(ctx, r.PathValue("name"))
	if err != nil {
		return fmt.Errorf("stores.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTStore(record))

	return nil
}

func (s StoreServer) getV1Stores(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit := defaultStoreListLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxStoreListLimit {
			return domain.NewValidationError(errcodes.ValidationError,
				fmt.Sprintf("limit must be between 1 and %d", maxStoreListLimit))
		}

		limit = n
	}

	records, err := s.stores.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("stores.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.StoreList{Stores: lo.Map(records, func(r entity.StoreRecord, _ int) rest.Store {
		return newRESTStore(r)
	})})

	return nil
}
