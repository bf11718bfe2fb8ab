package main

import (
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/models"
	"net/http"
)

const recentHistoryLimit = 10

type toolTab struct {
	Tool     models.StudyTool
	Label    string
	Selected bool
}

type studyForm struct {
	Subject     string
	Topic       string
	FieldErrors map[string]string
	// Error is a problem with the submission as a whole.
	Error string
	// Disabled is set when study materials cannot be generated at all.
	Disabled bool
}

type homeTemplateData struct {
	BaseTemplateData

	Study   models.Snapshot
	Tools   []toolTab
	Form    studyForm
	History []models.StoredStudyMaterials
}

func newToolTabs(selected models.StudyTool) []toolTab {
	tabs := make([]toolTab, 0, len(models.StudyTools))
	for _, tool := range models.StudyTools {
		tabs = append(tabs, toolTab{Tool: tool, Label: tool.Label(), Selected: tool == selected})
	}
	return tabs
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	app.renderHome(w, r, http.StatusOK, studyForm{}) //nolint:exhaustruct // empty form
}

// renderHome renders the page for the current study state. form is only shown while idle or after a failure.
func (app *application) renderHome(w http.ResponseWriter, r *http.Request, status int, form studyForm) {
	snap := app.controller(r).Snapshot()
	form.Disabled = snap.Banner != ""
	if form.FieldErrors == nil {
		form.FieldErrors = map[string]string{}
	}

	data := homeTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Study:            snap,
		Tools:            newToolTabs(snap.Tool),
		Form:             form,
		History:          nil,
	}

	if snap.IsIdle() || snap.IsFailure() {
		var err error
		if data.History, err = app.history.ListRecent(r.Context(), recentHistoryLimit); err != nil {
			app.serverError(w, r, errors.Wrap(err, "list recent history"))
			return
		}
	}

	app.render(w, r, status, "home", data)
}
