package sqlite

import (
	"context"
	"fmt"
	"github.com/jmoiron/sqlx"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/random"
	"log/slog"
	"strings"
	"time"

	_ "embed"
	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 driver
)

//go:embed schema.sql
var schemaDefinition string

// schemaVersion is stored in PRAGMA user_version once schema.sql has been applied.
const schemaVersion = 1

type Database struct {
	ReadWrite *sqlx.DB
	ReadOnly  *sqlx.DB
	logger    *slog.Logger
}

// NewDatabase opens the database at url and applies the schema.
//
// Writes go through a single connection and reads through a separate read-only pool, which is the recommended setup
// for SQLite, see https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995.
//
// The url is a path to the database file or ":memory:" for a private in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	var (
		err         error
		readWriteDB *sqlx.DB
		readDB      *sqlx.DB
	)

	// Both pools must share the in-memory database, so it gets a random name and shared cache.
	memoryParams := ""
	if strings.Contains(url, ":memory:") {
		var name string
		if name, err = random.Letters(20); err != nil { //nolint:mnd // long enough to avoid collisions
			return nil, errors.Wrap(err, "generate in-memory database name")
		}
		url = name
		memoryParams = "&mode=memory&cache=shared"
	}

	// Underscore-prefixed options are pragmas, https://www.sqlite.org/pragma.html.
	pragmas := strings.Join([]string{
		"_journal_mode=wal",
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
		"_temp_store=memory",
		"_optimize=0x10002",
	}, "&")
	readWriteDSN := fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s%s", url, pragmas, memoryParams)
	readDSN := fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s%s", url, pragmas, memoryParams)

	if readWriteDB, err = sqlx.Open("sqlite3", readWriteDSN); err != nil {
		return nil, errors.Wrap(err, "open read-write database")
	}
	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(time.Hour)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	// The schema must exist before the read-only pool can open an in-memory database.
	db := Database{
		ReadWrite: readWriteDB,
		ReadOnly:  nil,
		logger:    logger.With("source", "sqlite.Database"),
	}
	if err = db.migrate(ctx); err != nil {
		_ = readWriteDB.Close()
		return nil, errors.Wrap(err, "migrate schema", slog.String("url", url))
	}

	if readDB, err = sqlx.Open("sqlite3", readDSN); err != nil {
		_ = readWriteDB.Close()
		return nil, errors.Wrap(err, "open read database")
	}
	maxReadConns := 10
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(time.Hour)
	readDB.SetConnMaxIdleTime(time.Hour)
	db.ReadOnly = readDB

	return &db, nil
}

// migrate applies schema.sql when the database is older than schemaVersion.
func (db *Database) migrate(ctx context.Context) error {
	var version int
	if err := db.ReadWrite.GetContext(ctx, &version, "PRAGMA user_version"); err != nil {
		return errors.Wrap(err, "read schema version")
	}
	if version >= schemaVersion {
		return nil
	}

	tx, err := db.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin migration")
	}
	if _, err = tx.ExecContext(ctx, schemaDefinition); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "apply schema")
	}
	// PRAGMA does not accept bound parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "set schema version")
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit migration")
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated schema",
		slog.Int("from", version), slog.Int("to", schemaVersion))
	return nil
}

// Close closes both connection pools.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
