package sqlite_test

import (
	"context"
	"github.com/myrjola/studyassistant/internal/sqlite"
	"github.com/myrjola/studyassistant/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDatabase(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	_, err = db.ReadWrite.ExecContext(ctx,
		`INSERT INTO study_materials (subject, topic, document) VALUES (?, ?, ?)`, "Biology", "Mitosis", `{}`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.ReadOnly.GetContext(ctx, &count, `SELECT COUNT(*) FROM study_materials`))
	require.Equal(t, 1, count, "read pool sees the writes")

	_, err = db.ReadWrite.ExecContext(ctx,
		`INSERT INTO study_materials (subject, topic, document) VALUES (?, ?, ?)`, "Biology", "Mitosis", `not json`)
	require.Error(t, err, "document must be JSON")
}

func TestNewDatabase_InMemoryDatabasesAreIsolated(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	a, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })
	b, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, b.Close()) })

	_, err = a.ReadWrite.ExecContext(ctx,
		`INSERT INTO study_materials (subject, topic, document) VALUES (?, ?, ?)`, "Biology", "Mitosis", `{}`)
	require.NoError(t, err)

	var count int
	require.NoError(t, b.ReadOnly.GetContext(ctx, &count, `SELECT COUNT(*) FROM study_materials`))
	require.Zero(t, count)
}

func TestNewDatabase_Reopen(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	path := filepath.Join(t.TempDir(), "study.sqlite")

	db, err := sqlite.NewDatabase(ctx, path, logger)
	require.NoError(t, err)
	_, err = db.ReadWrite.ExecContext(ctx,
		`INSERT INTO study_materials (subject, topic, document) VALUES (?, ?, ?)`, "Biology", "Mitosis", `{}`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.NewDatabase(ctx, path, logger)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	var version, count int
	require.NoError(t, db.ReadOnly.GetContext(ctx, &version, `PRAGMA user_version`))
	require.Equal(t, 1, version)
	require.NoError(t, db.ReadOnly.GetContext(ctx, &count, `SELECT COUNT(*) FROM study_materials`))
	require.Equal(t, 1, count, "data survives reopening")

	_, err = db.ReadOnly.ExecContext(ctx, `DELETE FROM study_materials`)
	require.Error(t, err, "read pool is read-only")
}

func TestDatabase_StartOptimizer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	db, err := sqlite.NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	done := make(chan struct{})
	go func() {
		db.StartOptimizer(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("optimizer did not stop")
	}
}
