// Package export выводит отчёт прогона в текст, JSON или XLSX.
package export

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

func Formats() []string {
	return []string{FormatText, FormatJSON, FormatXLSX}
}

// Render writes the report in the given format. Colour applies to text only.
func Render(w io.Writer, format string, report entity.Report, colored bool) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewText(colored).Render(w, report)
	case FormatJSON:
		return RenderJSON(w, report)
	case FormatXLSX:
		return RenderXLSX(w, report)
	default:
		return domain.NewValidationError(errcodes.ValidationError,
			fmt.Sprintf("unknown format %q, want one of %s", format, strings.Join(Formats(), ", ")))
	}
}

func RenderJSON(w io.Writer, report entity.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("enc.Encode: %w", err)
	}

	return nil
}
