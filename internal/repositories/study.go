package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/models"
	"github.com/myrjola/studyassistant/internal/sqlite"
	"log/slog"
	"time"
)

var ErrNotFound = errors.NewSentinel("study materials not found")

// createdAtLayout matches the created_at default in schema.sql.
const createdAtLayout = "2006-01-02T15:04:05.000Z"

type StudyRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewStudyRepository(db *sqlite.Database, logger *slog.Logger) *StudyRepository {
	return &StudyRepository{
		db:     db,
		logger: logger.With("source", "StudyRepository"),
	}
}

type studyMaterialsRow struct {
	ID        int64  `db:"id"`
	Subject   string `db:"subject"`
	Topic     string `db:"topic"`
	Document  string `db:"document"`
	CreatedAt string `db:"created_at"`
}

func (row studyMaterialsRow) toModel(withDocument bool) (models.StoredStudyMaterials, error) {
	stored := models.StoredStudyMaterials{
		ID:        row.ID,
		Subject:   row.Subject,
		Topic:     row.Topic,
		Materials: models.StudyMaterials{}, //nolint:exhaustruct // filled below when requested
		CreatedAt: time.Time{},
	}
	var err error
	if stored.CreatedAt, err = time.Parse(createdAtLayout, row.CreatedAt); err != nil {
		return stored, errors.Wrap(err, "parse created_at", slog.Int64("id", row.ID))
	}
	if withDocument {
		if err = json.Unmarshal([]byte(row.Document), &stored.Materials); err != nil {
			return stored, errors.Wrap(err, "unmarshal document", slog.Int64("id", row.ID))
		}
	}
	return stored, nil
}

// Record stores successfully generated study materials in the history.
func (r *StudyRepository) Record(
	ctx context.Context,
	subject, topic string,
	materials models.StudyMaterials,
) error {
	document, err := json.Marshal(materials)
	if err != nil {
		return errors.Wrap(err, "marshal study materials")
	}
	stmt := `INSERT INTO study_materials (subject, topic, document) VALUES (?, ?, ?)`
	result, err := r.db.ReadWrite.ExecContext(ctx, stmt, subject, topic, string(document))
	if err != nil {
		return errors.Wrap(err, "insert study materials",
			slog.String("subject", subject), slog.String("topic", topic))
	}
	if id, idErr := result.LastInsertId(); idErr == nil {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "recorded study materials", slog.Int64("id", id))
	}
	return nil
}

// ListRecent returns the newest history entries first, without the study materials themselves.
func (r *StudyRepository) ListRecent(ctx context.Context, limit int) ([]models.StoredStudyMaterials, error) {
	var rows []studyMaterialsRow
	stmt := `SELECT id, subject, topic, '' AS document, created_at
	FROM study_materials
	ORDER BY created_at DESC, id DESC
	LIMIT ?`
	if err := r.db.ReadOnly.SelectContext(ctx, &rows, stmt, limit); err != nil {
		return nil, errors.Wrap(err, "select recent study materials", slog.Int("limit", limit))
	}

	entries := make([]models.StoredStudyMaterials, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toModel(false)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Get returns a history entry including its study materials. A missing entry returns [ErrNotFound].
func (r *StudyRepository) Get(ctx context.Context, id int64) (models.StoredStudyMaterials, error) {
	var row studyMaterialsRow
	stmt := `SELECT id, subject, topic, document, created_at FROM study_materials WHERE id = ?`
	if err := r.db.ReadOnly.GetContext(ctx, &row, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StoredStudyMaterials{}, errors.Wrap(ErrNotFound, "get study materials", slog.Int64("id", id))
		}
		return models.StoredStudyMaterials{}, errors.Wrap(err, "get study materials", slog.Int64("id", id))
	}
	return row.toModel(true)
}

// Count returns the number of history entries.
func (r *StudyRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.ReadOnly.GetContext(ctx, &count, `SELECT COUNT(*) FROM study_materials`); err != nil {
		return 0, errors.Wrap(err, "count study materials")
	}
	return count, nil
}
