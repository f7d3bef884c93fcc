package appdatabase

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializeDBInMemory(t *testing.T) {
	db, err := InitializeDB(":memory:")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()

	_, err = db.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY, label TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO probe (label) VALUES (?)", "one")
	require.NoError(t, err)

	var label string
	require.NoError(t, db.QueryRow("SELECT label FROM probe WHERE id = 1").Scan(&label))
	require.Equal(t, "one", label)
}

func TestInitializeDBPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swap.db")

	db, err := InitializeDB(path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY, label TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO probe (label) VALUES (?)", "kept")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitializeDB(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()

	var label string
	require.NoError(t, db.QueryRow("SELECT label FROM probe WHERE id = 1").Scan(&label))
	require.Equal(t, "kept", label)
}
