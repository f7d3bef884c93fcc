package appdatabase

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// connectionSetup is applied to every fresh database. busy_timeout keeps a
// briefly locked database from surfacing as an error to callers.
var connectionSetup = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// InitializeDB opens the application database at the given path, creating it
// when missing, and applies the connection settings the swap service relies
// on. The path ":memory:" yields a private in-memory database.
func InitializeDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	// The driver serializes writers anyway. A single connection also keeps
	// an in-memory database from fragmenting across pool connections.
	db.SetMaxOpenConns(1)

	for _, pragma := range connectionSetup {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "applying %q", pragma)
		}
	}
	return db, nil
}
