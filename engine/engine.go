package engine

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// BusyTimeout is the busy_timeout pragma, in milliseconds, applied to file
// databases opened without explicit query parameters.
const BusyTimeout = 5000

// Open opens the signature database at dsn and registers the sig_* scalar
// functions first, so every connection of the returned pool can score the
// payloads kept in sig_storage.
//
// dsn is a file path such as "./sigs.sqlite" or ":memory:". A file path with
// no query string gets a busy timeout so that concurrent CLI runs against
// one file wait for each other instead of failing with SQLITE_BUSY.
func Open(dsn string) (*sql.DB, error) {
	if err := RegisterSignatureFunctions(nil); err != nil {
		return nil, err
	}
	return sql.Open("sqlite", withPragmas(dsn))
}

func withPragmas(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "?") {
		return dsn
	}
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", dsn, BusyTimeout)
}
