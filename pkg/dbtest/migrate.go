// Package dbtest prepares throwaway databases for repository tests.
package dbtest

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"
)

// MigrateFromFS runs every file matching pattern in lexical order.
func MigrateFromFS(db *sqlx.DB, fsys fs.FS, pattern string) error {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}

	sort.Strings(names)

	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("fs.ReadFile: %w", err)
		}

		if _, err = db.Exec(string(b)); err != nil {
			return fmt.Errorf("db.Exec(%s): %w", name, err)
		}
	}

	return nil
}
