package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/catalog"
)

const sample = `
products:
  - name: Silicone Lick Mat
    category: pets
    keywords: [dog, enrichment]
    cost: 2.1
    price: 14.99
    interest: [40, 55, 72, 80]
  - name: Self-Cleaning Slicker Brush
    category: pets
    cost: 4.5
    price: 19.99
    mentions: 2500
  - name: Bamboo Cutting Board
    category: kitchen
    cost: 3
    price: 12
`

func TestCatalogCandidates(t *testing.T) {
	rq := require.New(t)

	c, err := catalog.Decode(strings.NewReader(sample))
	rq.NoError(err)
	rq.Equal(3, c.Len())

	testCases := []struct {
		name     string
		category string
		want     []string
	}{
		{name: "By category", category: "Pets", want: []string{"Silicone Lick Mat", "Self-Cleaning Slicker Brush"}},
		{name: "By keyword", category: "dog", want: []string{"Silicone Lick Mat"}},
		{name: "By name", category: "bamboo", want: []string{"Bamboo Cutting Board"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, err := c.Candidates(context.Background(), tc.category)
			rq.NoError(err)

			names := make([]string, 0, len(got))
			for _, p := range got {
				names = append(names, p.Name)
			}

			rq.Equal(tc.want, names)
		})
	}

	_, err = c.Candidates(context.Background(), "garden")
	rq.True(domain.IsNoResults(err))
}

func TestCatalogInterest(t *testing.T) {
	rq := require.New(t)

	c, err := catalog.Decode(strings.NewReader(sample))
	rq.NoError(err)

	got, err := c.Interest(context.Background(), entity.Candidate{Interest: []float64{1, 2}})
	rq.NoError(err)
	rq.Equal([]float64{1, 2}, got)

	got, err = c.Interest(context.Background(), entity.Candidate{Mentions: 2500})
	rq.NoError(err)
	rq.Equal([]float64{50, 50, 50}, got)

	got, err = c.Interest(context.Background(), entity.Candidate{Mentions: 1_000_000})
	rq.NoError(err)
	rq.Equal([]float64{100, 100, 100}, got)

	_, err = c.Interest(context.Background(), entity.Candidate{Name: "x"})
	rq.True(domain.IsNoResults(err))
}

func TestDecodeRejectsInvalid(t *testing.T) {
	rq := require.New(t)

	_, err := catalog.Decode(strings.NewReader("products:\n  - name: Free\n    price: 0\n"))
	rq.Error(err)

	_, err = catalog.Decode(strings.NewReader("items: []\n"))
	rq.Error(err)
}
