package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
)

type Text struct {
	title *color.Color
	ok    *color.Color
	warn  *color.Color
	fail  *color.Color
	dim   *color.Color
}

func NewText(colored bool) *Text {
	t := &Text{
		title: color.New(color.Bold, color.FgCyan),
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed),
		dim:   color.New(color.Faint),
	}

	for _, c := range []*color.Color{t.title, t.ok, t.warn, t.fail, t.dim} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return t
}

func (t *Text) status(s value.SectionStatus) string {
	switch s {
	case value.SectionOK:
		return t.ok.Sprint("✓ ok")
	case value.SectionEmpty:
		return t.warn.Sprint("∅ empty")
	case value.SectionFailed:
		return t.fail.Sprint("✗ failed")
	default:
		return t.dim.Sprint("- skipped")
	}
}

func (t *Text) Render(w io.Writer, r entity.Report) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s\n", t.title.Sprint("StorePilot run"), r.RunID)
	fmt.Fprintf(&sb, "Goal: %s  Budget: $%.2f  Min margin: %.0f%%\n", r.Goal, r.Budget, r.MinMargin*100)
	fmt.Fprintf(&sb, "Outcome: %s  Duration: %s\n\n", r.Outcome, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))

	if r.Failure != nil {
		fmt.Fprintf(&sb, "%s %s\n\n", t.fail.Sprint("✗ "+r.Failure.Code), r.Failure.Error)
	}

	sb.WriteString(t.title.Sprint("Steps") + "\n")

	for _, step := range value.Steps() {
		s := r.Sections[step]

		line := fmt.Sprintf("  %-22s %s", step, t.status(s.Status))
		if s.Error != "" {
			line += "  " + t.dim.Sprint(s.Error)
		}

		sb.WriteString(line + "\n")
	}

	if len(r.Selected) > 0 {
		sb.WriteString("\n" + t.title.Sprint("Products") + "\n")

		for _, p := range r.Selected {
			trend := ""
			if p.Trending {
				trend = t.ok.Sprint(" trending")
			}

			fmt.Fprintf(&sb, "  %-32s score %5.1f  $%7.2f  margin %3.0f%%%s\n", p.Name, p.TrendScore, p.Price, p.Margin*100, trend)
		}
	}

	if len(r.Suppliers) > 0 {
		sb.WriteString("\n" + t.title.Sprint("Suppliers") + "\n")

		for _, s := range r.Suppliers {
			fmt.Fprintf(&sb, "  %-24s %-24s trust %.2f  MOQ %d\n", s.Name, s.ProductName, s.TrustScore, s.MinOrderQuantity)
		}

		for _, f := range r.SupplierFailures {
			fmt.Fprintf(&sb, "  %s\n", t.fail.Sprintf("%s (%s): %s", f.SupplierID, f.Kind, f.Message))
		}
	}

	if len(r.Negotiations) > 0 {
		sb.WriteString("\n" + t.title.Sprint("Negotiations") + "\n")

		for _, n := range r.Negotiations {
			state := t.dim.Sprint("draft")
			if n.Sent {
				state = t.ok.Sprint("sent")
			}

			fmt.Fprintf(&sb, "  %-24s %d × $%.2f (-%.0f%%)  %s\n", n.SupplierName, n.Quantity, n.OfferedPrice, n.Discount*100, state)
		}
	}

	if r.Store != nil {
		sb.WriteString("\n" + t.title.Sprint("Store") + "\n")

		existing := ""
		if r.Store.Existing {
			existing = t.warn.Sprint(" (existing)")
		}

		fmt.Fprintf(&sb, "  %s%s  trial until %s\n", r.Store.Domain, existing, r.Store.TrialExpiresAt.Format("2006-01-02"))
	}

	if len(r.Policies) > 0 {
		sb.WriteString("\n" + t.title.Sprint("Policies") + "\n")

		for _, p := range r.Policies {
			fmt.Fprintf(&sb, "  %s\n", p.Title)
		}
	}

	if len(r.Ads) > 0 {
		sb.WriteString("\n" + t.title.Sprint("Ads") + "\n")

		for _, a := range r.Ads {
			fmt.Fprintf(&sb, "  %-32s CTR %.2f%%  CPC $%.2f  ROAS %.2f\n", a.ProductName, a.CTR*100, a.CPC, a.ROAS)
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}

	return nil
}
