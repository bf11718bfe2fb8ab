package main

import (
	"context"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/logging"
	"github.com/myrjola/studyassistant/internal/repositories"
	"github.com/myrjola/studyassistant/internal/sqlite"
	"log/slog"
	"os"
	"time"
)

// run opens the database at sqliteURL, which applies pending migrations, and checks that the study history is
// still readable.
func run(ctx context.Context, logger *slog.Logger, sqliteURL string) error {
	db, err := sqlite.NewDatabase(ctx, sqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", sqliteURL))
	}
	defer func() {
		_ = db.Close()
	}()

	history := repositories.NewStudyRepository(db, logger)
	count, err := history.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "count study history")
	}
	if count == 0 {
		return errors.New("no study history found, something is likely wrong")
	}
	entries, err := history.ListRecent(ctx, 1)
	if err != nil {
		return errors.Wrap(err, "list study history")
	}
	if _, err = history.Get(ctx, entries[0].ID); err != nil {
		return errors.Wrap(err, "read newest study materials")
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "study history count", slog.Int("count", count))
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug, false)
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd // 5 seconds

	sqliteURL, ok := os.LookupEnv("STUDYASSISTANT_SQLITE_URL")
	if !ok {
		logger.LogAttrs(ctx, slog.LevelError, "STUDYASSISTANT_SQLITE_URL not set")
		cancel()
		os.Exit(1)
	}

	if err := run(ctx, logger, sqliteURL); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "migration test failed", errors.SlogError(err))
		cancel()
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
}
