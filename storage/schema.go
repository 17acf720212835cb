package storage

import (
	"database/sql"
)

const storageSchema = `
CREATE TABLE IF NOT EXISTS sig_storage (
    path TEXT PRIMARY KEY,
    digest TEXT NOT NULL,
    size INTEGER NOT NULL,
    content BLOB
);
`

// EnsureSchema creates the sig_storage table in the provided database if it
// does not already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(storageSchema)
	return err
}
