// Package database provides SQLite connectivity and schema migrations.
//
// This package manages:
//   - Database connection with WAL mode and enforced foreign keys
//   - Versioned up/down migrations read from an fs.FS (embedded at build time)
//   - Connection lifecycle and health checks
//
// All queries elsewhere in the module use parameterised statements.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migrations are additive: new columns must be nullable or carry a DEFAULT,
// and every .up.sql has a matching .down.sql.
package database
