package store

import (
	"regexp"
	"strings"

	"storepilot/internal/domain"
	"storepilot/pkg/errcodes"
)

//nolint:gochecknoglobals
var (
	namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{2,62}$`)
	separators  = regexp.MustCompile(`[\s_]+`)
	dashes      = regexp.MustCompile(`-{2,}`)
)

// NormalizeName: нижний регистр, пробелы и подчёркивания в дефис.
func NormalizeName(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = separators.ReplaceAllString(normalized, "-")
	normalized = dashes.ReplaceAllString(normalized, "-")
	normalized = strings.Trim(normalized, "-")

	if !namePattern.MatchString(normalized) {
		return "", domain.NewValidationError(errcodes.InvalidStoreName,
			"store name must be 3-63 characters of a-z, 0-9 and '-': "+name)
	}

	return normalized, nil
}
