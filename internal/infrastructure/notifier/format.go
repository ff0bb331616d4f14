package notifier

import (
	"fmt"
	"html"
	"strings"

	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
)

func FormatAlert(alert entity.TrendAlert) string {
	p := alert.Product

	trending := ""
	if p.Trending {
		trending = " 🔥"
	}

	return fmt.Sprintf(
		"📈 <b>New trend in %s</b>%s\n\n"+
			"🛍 <b>Product:</b> %s\n"+
			"📊 <b>Score:</b> %.1f\n"+
			"💰 <b>Price:</b> $%.2f (cost $%.2f)\n"+
			"📉 <b>Margin:</b> %.0f%%",
		html.EscapeString(alert.Category),
		trending,
		html.EscapeString(p.Name),
		p.TrendScore,
		p.Price,
		p.Cost,
		p.Margin*100,
	)
}

func outcomeIcon(o value.Outcome) string {
	switch o {
	case value.OutcomeCompleted:
		return "✅"
	case value.OutcomeNoResults:
		return "🤷"
	default:
		return "❌"
	}
}

func FormatReport(r entity.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s <b>Run %s</b>: %s\n", outcomeIcon(r.Outcome), html.EscapeString(r.RunID), r.Outcome)
	fmt.Fprintf(&sb, "🎯 %s · budget $%.2f · min margin %.0f%%\n\n", html.EscapeString(r.Goal), r.Budget, r.MinMargin*100)

	if len(r.Selected) > 0 {
		sb.WriteString("<b>Products</b>\n")

		for _, p := range r.Selected {
			fmt.Fprintf(&sb, "• %s (score %.1f, margin %.0f%%)\n", html.EscapeString(p.Name), p.TrendScore, p.Margin*100)
		}
	}

	if len(r.Suppliers) > 0 {
		fmt.Fprintf(&sb, "🏭 Suppliers: %d", len(r.Suppliers))

		if len(r.SupplierFailures) > 0 {
			fmt.Fprintf(&sb, " (%d failed)", len(r.SupplierFailures))
		}

		sb.WriteString("\n")
	}

	if len(r.Negotiations) > 0 {
		sent := 0

		for _, n := range r.Negotiations {
			if n.Sent {
				sent++
			}
		}

		fmt.Fprintf(&sb, "✉️ Drafts: %d, sent: %d\n", len(r.Negotiations), sent)
	}

	if r.Store != nil {
		fmt.Fprintf(&sb, "🏪 Store: %s (trial until %s)\n", html.EscapeString(r.Store.Domain), r.Store.TrialExpiresAt.Format("2006-01-02"))
	}

	var failed []string

	for _, step := range value.Steps() {
		if s, ok := r.Sections[step]; ok && s.Status == value.SectionFailed {
			failed = append(failed, fmt.Sprintf("%s: %s", step, html.EscapeString(s.Error)))
		}
	}

	if len(failed) > 0 {
		sb.WriteString("\n⚠️ <b>Failed steps</b>\n")
		sb.WriteString(strings.Join(failed, "\n"))
	}

	return strings.TrimRight(sb.String(), "\n")
}
