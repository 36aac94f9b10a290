package database

import (
	"database/sql"

	migrate "github.com/rubenv/sql-migrate"
)

// The store is a handful of whole-collection documents, so the schema is one
// table. Kept as sql-migrate migrations so later schema changes stay ordered.
var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "001_create_collections",
			Up: []string{`
				CREATE TABLE IF NOT EXISTS collections (
					name       VARCHAR(64) PRIMARY KEY,
					data       TEXT NOT NULL,
					updated_at DATETIME
				);
			`},
			Down: []string{`DROP TABLE IF EXISTS collections;`},
		},
	},
}

func runMigrations(db *sql.DB) (int, error) {
	return migrate.Exec(db, "sqlite3", migrations, migrate.Up)
}
