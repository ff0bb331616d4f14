package pipeline

import (
	"math"
	"regexp"
	"strings"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/service/store"
	"storepilot/pkg/errcodes"
)

const maxDerivedNameLen = 40

//nolint:gochecknoglobals
var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Validate проверяет запрос до любых сетевых вызовов.
func Validate(req entity.RunRequest) error {
	if strings.TrimSpace(req.Goal) == "" {
		return domain.NewValidationError(errcodes.ValidationError, "goal is required")
	}

	if math.IsNaN(req.Budget) || math.IsInf(req.Budget, 0) || req.Budget <= 0 {
		return domain.NewValidationError(errcodes.InvalidBudget, "budget must be greater than zero")
	}

	if math.IsNaN(req.MinMargin) || req.MinMargin < 0 || req.MinMargin >= 1 {
		return domain.NewValidationError(errcodes.InvalidMargin, "minimum margin must be in [0, 1)")
	}

	if req.Quantity < 0 {
		return domain.NewValidationError(errcodes.ValidationError, "quantity must not be negative")
	}

	if req.StoreName != "" {
		if _, err := store.NormalizeName(req.StoreName); err != nil {
			return err
		}
	}

	return nil
}

// Filter keeps products with margin ≥ minMargin and price ≤ budget, in the
// incoming order.
func Filter(products []entity.Product, minMargin, budget float64) []entity.Product {
	out := make([]entity.Product, 0, len(products))

	for _, p := range products {
		if p.Margin >= minMargin && p.Price <= budget {
			out = append(out, p)
		}
	}

	return out
}

// categories берёт категории из запроса, иначе саму цель.
func categories(req entity.RunRequest) []string {
	if len(req.Categories) > 0 {
		return req.Categories
	}

	return []string{req.Goal}
}

func storeName(req entity.RunRequest) (string, error) {
	if req.StoreName != "" {
		return store.NormalizeName(req.StoreName)
	}

	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(req.Goal), "-"), "-")
	if len(slug) > maxDerivedNameLen {
		slug = strings.TrimRight(slug[:maxDerivedNameLen], "-")
	}

	return store.NormalizeName(slug + "-store")
}
