// Package migrations embeds the SQL schema into the binary so the service can
// migrate a fresh database without shipping .sql files alongside it.
package migrations

import (
	"embed"

	"github.com/nerrad567/birchhill-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
