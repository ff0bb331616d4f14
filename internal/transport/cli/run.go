package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"storepilot/internal/application"
	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/export"
	"storepilot/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type runFlags struct {
	goal         string
	categories   []string
	budget       float64
	margin       float64
	store        string
	quantity     int
	maxSuppliers int
	adCopy       string
	sendEmails   bool
	dryRun       bool
	format       string
	out          string
	noColor      bool
}

func (f runFlags) request() entity.RunRequest {
	return entity.RunRequest{
		Goal:         strings.TrimSpace(f.goal),
		Categories:   f.categories,
		Budget:       f.budget,
		MinMargin:    f.margin,
		StoreName:    f.store,
		Quantity:     f.quantity,
		MaxSuppliers: f.maxSuppliers,
		SendEmails:   f.sendEmails,
		DryRun:       f.dryRun,
		AdCopy:       f.adCopy,
	}
}

func (f runFlags) validate() error {
	if !slices.Contains(export.Formats(), strings.ToLower(f.format)) {
		return fmt.Errorf("--format %q: want one of %s", f.format, strings.Join(export.Formats(), ", "))
	}

	if strings.EqualFold(f.format, export.FormatXLSX) && f.out == "" {
		return fmt.Errorf("--format %s needs --out", export.FormatXLSX)
	}

	return nil
}

func newRunCommand(st *state) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once and print the report",
		Example: `  storepilot run --goal "pet products" --budget 30 --margin 0.35 --dry-run
  storepilot run --goal "home office" --budget 500 --format xlsx --out report.xlsx`,
		Args: cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return flags.validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, st, func(ctx context.Context, app *application.App) error {
				report, err := app.Run(ctx, flags.request())
				if err != nil {
					return err //nolint:wrapcheck
				}

				return writeReport(cmd.OutOrStdout(), flags, report)
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.goal, "goal", "", "what to sell, e.g. \"pet products\"")
	fs.StringSliceVar(&flags.categories, "category", nil, "category to scan, repeatable (default: the goal)")
	fs.Float64Var(&flags.budget, "budget", 0, "maximum retail price per product, USD")
	fs.Float64Var(&flags.margin, "margin", 0.3, "minimum margin as a fraction of price")
	fs.StringVar(&flags.store, "store", "", "store name (default: derived from the goal)")
	fs.IntVar(&flags.quantity, "quantity", entity.DefaultQuantity, "units to negotiate for")
	fs.IntVar(&flags.maxSuppliers, "max-suppliers", entity.DefaultMaxSuppliers, "suppliers to contact per product")
	fs.StringVar(&flags.adCopy, "ad-copy", "", "ad headline to score (default: generated from the product)")
	fs.BoolVar(&flags.sendEmails, "send-emails", false, "send negotiation emails instead of only drafting them")
	fs.BoolVar(&flags.dryRun, "dry-run", false, "skip store provisioning and email sending")
	fs.StringVar(&flags.format, "format", export.FormatText, "report format: "+strings.Join(export.Formats(), ", "))
	fs.StringVarP(&flags.out, "out", "o", "", "write the report to a file instead of stdout")
	fs.BoolVar(&flags.noColor, "no-color", false, "disable coloured text output")

	_ = cmd.MarkFlagRequired("goal")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func writeReport(stdout io.Writer, flags runFlags, report entity.Report) error {
	if flags.out == "" {
		return export.Render(stdout, flags.format, report, !flags.noColor && !color.NoColor) //nolint:wrapcheck
	}

	f, err := os.Create(flags.out)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}
	defer f.Close()

	if err := export.Render(f, flags.format, report, false); err != nil {
		return fmt.Errorf("export.Render: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("f.Close: %w", err)
	}

	fmt.Fprintf(stdout, "report %s written to %s\n", report.RunID, flags.out)

	return nil
}
