package payhooks

import (
	"io/fs"

	"github.com/goliatone/go-payhooks/migrations"
)

// GetMigrationsFS returns the embedded SQL migration tree, including the
// sqlite alternatives under data/sql/migrations/sqlite.
func GetMigrationsFS() fs.FS {
	return migrations.FS()
}
