package main

import (
	"context"
	"github.com/myrjola/studyassistant/internal/repositories"
	"github.com/myrjola/studyassistant/internal/sqlite"
	"github.com/myrjola/studyassistant/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"path/filepath"
	"testing"
)

func Test_run(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	path := filepath.Join(t.TempDir(), "study.sqlite")

	require.Error(t, run(ctx, logger, path), "empty history")

	db, err := sqlite.NewDatabase(ctx, path, logger)
	require.NoError(t, err)
	history := repositories.NewStudyRepository(db, logger)
	require.NoError(t, history.Record(ctx, "Biology", "Mitosis", testhelpers.SampleStudyMaterials(1)))
	require.NoError(t, db.Close())

	require.NoError(t, run(ctx, logger, path))
}
