package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"scriptvoice/migrations"
)

func TestRunMigrationsAppliesSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS script_enhancements").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), db, migrations.Files))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsSkipsBlankFiles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("CREATE TABLE a (id INT);")},
		"002_b.sql": {Data: []byte("  \n")},
		"README.md": {Data: []byte("ignored")},
	}
	mock.ExpectExec("CREATE TABLE a").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), db, fsys))
	require.NoError(t, mock.ExpectationsWereMet())
}
