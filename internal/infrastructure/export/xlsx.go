package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
)

const (
	SheetSummary      = "Summary"
	SheetProducts     = "Products"
	SheetSuppliers    = "Suppliers"
	SheetNegotiations = "Negotiations"
	SheetAds          = "Ads"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
}

// RenderXLSX writes one sheet per report section.
func RenderXLSX(w io.Writer, r entity.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("f.NewStyle: %w", err)
	}

	for i, s := range sheets(r) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("f.SetSheetName: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("f.NewSheet: %w", err)
		}

		if err := writeSheet(f, s, bold); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("f.Write: %w", err)
	}

	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return fmt.Errorf("f.SetSheetRow: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(s.header), 1)
	if err != nil {
		return fmt.Errorf("excelize.CoordinatesToCellName: %w", err)
	}

	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("f.SetCellStyle: %w", err)
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName: %w", err)
		}

		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("f.SetSheetRow: %w", err)
		}
	}

	return nil
}

func sheets(r entity.Report) []sheet {
	summary := sheet{
		name:   SheetSummary,
		header: []any{"Field", "Value"},
		rows: [][]any{
			{"Run", r.RunID},
			{"Goal", r.Goal},
			{"Budget", r.Budget},
			{"Min margin", r.MinMargin},
			{"Outcome", string(r.Outcome)},
			{"Started", r.StartedAt.Format("2006-01-02 15:04:05")},
			{"Finished", r.FinishedAt.Format("2006-01-02 15:04:05")},
		},
	}

	if r.Store != nil {
		summary.rows = append(summary.rows,
			[]any{"Store", r.Store.Domain},
			[]any{"Trial until", r.Store.TrialExpiresAt.Format("2006-01-02")},
		)
	}

	for _, step := range value.Steps() {
		s := r.Sections[step]
		summary.rows = append(summary.rows, []any{"Step " + string(step), string(s.Status) + suffix(s.Error)})
	}

	products := sheet{name: SheetProducts, header: []any{"Name", "Category", "Cost", "Price", "Margin", "Trend score", "Trending"}}
	for _, p := range r.Selected {
		products.rows = append(products.rows, []any{p.Name, p.Category, p.Cost, p.Price, p.Margin, p.TrendScore, p.Trending})
	}

	suppliers := sheet{name: SheetSuppliers, header: []any{"ID", "Name", "Product", "Email", "MOQ", "Lead days", "Trust"}}
	for _, s := range r.Suppliers {
		suppliers.rows = append(suppliers.rows, []any{
			s.ID, s.Name, s.ProductName, s.ContactEmail, s.MinOrderQuantity, int(s.LeadTime.Hours() / 24), s.TrustScore,
		})
	}

	negotiations := sheet{name: SheetNegotiations, header: []any{"Supplier", "Product", "Quantity", "Unit price", "Discount", "Sent", "Subject"}}
	for _, n := range r.Negotiations {
		negotiations.rows = append(negotiations.rows, []any{
			n.SupplierName, n.ProductName, n.Quantity, n.OfferedPrice, n.Discount, n.Sent, n.Subject,
		})
	}

	ads := sheet{name: SheetAds, header: []any{"Product", "Headline", "CTR", "CPC", "ROAS"}}
	for _, a := range r.Ads {
		ads.rows = append(ads.rows, []any{a.ProductName, a.Headline, a.CTR, a.CPC, a.ROAS})
	}

	return []sheet{summary, products, suppliers, negotiations, ads}
}

func suffix(errText string) string {
	if errText == "" {
		return ""
	}

	return ": " + errText
}
