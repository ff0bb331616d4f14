package export_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
	"storepilot/internal/infrastructure/export"
)

func sampleReport() entity.Report {
	started := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	r := entity.NewReport("run-1", entity.RunRequest{Goal: "pet toys", Budget: 500, MinMargin: 0.3}, value.Steps(), started)
	r.FinishedAt = started.Add(90 * time.Second)

	p := entity.NewProduct("Lick Mat", "pets", 2, 10)
	p.TrendScore = 77.5
	p.Trending = true
	r.Products = []entity.Product{p}
	r.Selected = []entity.Product{p}
	r.Suppliers = []entity.Supplier{{ID: "s1", Name: "Acme", ProductName: "Lick Mat", MinOrderQuantity: 50, LeadTime: 7 * 24 * time.Hour, TrustScore: 0.91}}
	r.Ads = []entity.AdPrediction{{ProductName: "Lick Mat", Headline: "New Lick Mat", CTR: 0.012, CPC: 0.8, ROAS: 2.5}}

	r.Mark(value.StepScanTrends, value.SectionOK, nil, "")
	r.Mark(value.StepFindSuppliers, value.SectionOK, nil, "")
	r.Mark(value.StepProvisionStore, value.SectionFailed, errors.New("storehost: request rejected"), "UpstreamRejected")

	return r
}

func TestRenderText(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	rq.NoError(export.Render(&buf, "text", sampleReport(), false))

	out := buf.String()
	rq.Contains(out, "StorePilot run run-1")
	rq.Contains(out, "Duration: 1m30s")
	rq.Contains(out, "✓ ok")
	rq.Contains(out, "✗ failed  storehost: request rejected")
	rq.Contains(out, "- skipped")
	rq.Contains(out, "trending")
	rq.Contains(out, "CTR 1.20%")
	rq.NotContains(out, "\x1b[")
}

func TestRenderJSON(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	rq.NoError(export.Render(&buf, "JSON", sampleReport(), true))

	rq.Contains(buf.String(), `"run_id": "run-1"`)
	rq.Contains(buf.String(), `"provision_store": {`)
}

func TestRenderXLSX(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	rq.NoError(export.Render(&buf, "xlsx", sampleReport(), false))

	f, err := excelize.OpenReader(&buf)
	rq.NoError(err)
	defer f.Close()

	rq.Equal([]string{
		export.SheetSummary, export.SheetProducts, export.SheetSuppliers, export.SheetNegotiations, export.SheetAds,
	}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetProducts)
	rq.NoError(err)
	rq.Len(rows, 2)
	rq.Equal("Lick Mat", rows[1][0])

	rows, err = f.GetRows(export.SheetSuppliers)
	rq.NoError(err)
	rq.Equal("7", rows[1][5])

	summary, err := f.GetRows(export.SheetSummary)
	rq.NoError(err)

	var found bool

	for _, row := range summary {
		if len(row) == 2 && row[0] == "Step provision_store" {
			found = strings.HasPrefix(row[1], "failed: ")
		}
	}

	rq.True(found)
}

func TestRenderUnknownFormat(t *testing.T) {
	rq := require.New(t)

	err := export.Render(&bytes.Buffer{}, "pdf", sampleReport(), false)
	rq.True(domain.IsValidation(err))
}
