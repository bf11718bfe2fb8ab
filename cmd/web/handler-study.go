package main

import (
	"github.com/myrjola/studyassistant/internal/contexthelpers"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/models"
	"github.com/myrjola/studyassistant/internal/study"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"
)

const maxInputLength = 200

func (app *application) submitStudy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	form := studyForm{
		Subject:     strings.TrimSpace(r.PostForm.Get("subject")),
		Topic:       strings.TrimSpace(r.PostForm.Get("topic")),
		FieldErrors: map[string]string{},
		Error:       "",
		Disabled:    false,
	}
	for field, value := range map[string]string{"subject": form.Subject, "topic": form.Topic} {
		switch {
		case value == "":
			form.FieldErrors[field] = "This field cannot be blank."
		case utf8.RuneCountInString(value) > maxInputLength:
			form.FieldErrors[field] = "This field is too long."
		}
	}
	if len(form.FieldErrors) > 0 {
		app.renderHome(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	_, err := app.controller(r).Submit(r.Context(), form.Subject, form.Topic)
	switch {
	case errors.Is(err, study.ErrMissingCredential):
		form.Error = err.Error() + "."
		app.renderHome(w, r, http.StatusServiceUnavailable, form)
		return
	case errors.Is(err, study.ErrEmptyInput):
		form.Error = err.Error()
		app.renderHome(w, r, http.StatusUnprocessableEntity, form)
		return
	case err != nil:
		app.serverError(w, r, errors.Wrap(err, "submit study request"))
		return
	}

	app.redirectHome(w, r)
}

// selectTool switches the displayed study tool. htmx requests get the tools fragment, other requests a redirect.
func (app *application) selectTool(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	tool, ok := models.ParseStudyTool(r.PostForm.Get("tool"))
	if !ok {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	c := app.controller(r)
	if err := c.SelectTool(tool); err != nil {
		if errors.Is(err, study.ErrNotReady) {
			// The page is out of date, e.g., the request was reset in another tab.
			app.redirectHome(w, r)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "select tool", slog.String("tool", tool.String())))
		return
	}

	if !app.htmx.NewHandler(w, r).IsHxRequest() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	snap := c.Snapshot()
	data := homeTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Study:            snap,
		Tools:            newToolTabs(snap.Tool),
		Form:             studyForm{}, //nolint:exhaustruct // not rendered
		History:          nil,
	}
	app.renderFragment(w, r, http.StatusOK, "home", "tools", data)
}

// resetStudy drops the session's controller, abandoning any in-flight request, so that the next page starts Idle.
func (app *application) resetStudy(w http.ResponseWriter, r *http.Request) {
	app.registry.Remove(contexthelpers.StudySessionID(r.Context()))
	app.redirectHome(w, r)
}
