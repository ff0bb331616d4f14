// Package catalog читает локальный YAML-каталог товаров. Он служит и
// источником кандидатов, и офлайн-провайдером интереса.
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
)

const (
	ProviderName = "catalog"

	// mentionsPerPoint переводит упоминания в шкалу 0..100.
	mentionsPerPoint = 50
	maxInterest      = 100
)

type file struct {
	Products []entity.Candidate `yaml:"products"`
}

type Catalog struct {
	products []entity.Candidate
}

func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

func Decode(r io.Reader) (*Catalog, error) {
	var doc file

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("yaml.Decode: %w", err)
	}

	for i, p := range doc.Products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("catalog: product #%d has no name", i+1)
		}

		if p.Price <= 0 || p.Cost < 0 {
			return nil, fmt.Errorf("catalog: product %q has invalid cost/price", p.Name)
		}
	}

	return &Catalog{products: doc.Products}, nil
}

func (c *Catalog) Len() int { return len(c.products) }

// Candidates matches the category against the product category and keywords.
func (c *Catalog) Candidates(_ context.Context, category string) ([]entity.Candidate, error) {
	category = strings.ToLower(strings.TrimSpace(category))

	var out []entity.Candidate

	for _, p := range c.products {
		if matches(p, category) {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return nil, domain.NewNoResultsError("catalog has no products for " + category)
	}

	return out, nil
}

func matches(p entity.Candidate, category string) bool {
	if strings.EqualFold(p.Category, category) {
		return true
	}

	if slices.ContainsFunc(p.Keywords, func(k string) bool { return strings.EqualFold(k, category) }) {
		return true
	}

	return strings.Contains(strings.ToLower(p.Name), category)
}

func (c *Catalog) Name() string { return ProviderName }

// Interest returns the stored series. Without one a flat series is derived
// from the mention count.
func (c *Catalog) Interest(_ context.Context, candidate entity.Candidate) ([]float64, error) {
	if len(candidate.Interest) > 0 {
		return candidate.Interest, nil
	}

	if candidate.Mentions <= 0 {
		return nil, domain.NewNoResultsError("catalog: no interest data for " + candidate.Name)
	}

	v := min(float64(candidate.Mentions)/mentionsPerPoint, maxInterest)

	return []float64{v, v, v}, nil
}
