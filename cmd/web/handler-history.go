package main

import (
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/models"
	"github.com/myrjola/studyassistant/internal/repositories"
	"log/slog"
	"net/http"
	"strconv"
)

type historyTemplateData struct {
	BaseTemplateData

	Entry models.StoredStudyMaterials
}

// historyEntryFromPath reads the entry identified by the {id} path value. It has written the response when ok is
// false.
func (app *application) historyEntryFromPath(
	w http.ResponseWriter,
	r *http.Request,
) (models.StoredStudyMaterials, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		app.notFound(w, r)
		return models.StoredStudyMaterials{}, false //nolint:exhaustruct // not found
	}
	entry, err := app.history.Get(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		app.notFound(w, r)
		return models.StoredStudyMaterials{}, false //nolint:exhaustruct // not found
	}
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "get history entry", slog.Int64("id", id)))
		return models.StoredStudyMaterials{}, false //nolint:exhaustruct // failed
	}
	return entry, true
}

func (app *application) historyEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := app.historyEntryFromPath(w, r)
	if !ok {
		return
	}
	data := historyTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Entry:            entry,
	}
	app.render(w, r, http.StatusOK, "history", data)
}

// openHistoryEntry shows the stored study materials with the study tools without generating them again.
func (app *application) openHistoryEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := app.historyEntryFromPath(w, r)
	if !ok {
		return
	}
	app.controller(r).Load(entry.Subject, entry.Topic, entry.Materials)
	app.redirectHome(w, r)
}
