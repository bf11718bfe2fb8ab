package main

import (
	"github.com/myrjola/studyassistant/internal/contexthelpers"
	"net/http"
)

type BaseTemplateData struct {
	Theme       string
	CurrentPath string
	// Banner is a persistent configuration problem shown on every page.
	Banner string
}

func (app *application) newBaseTemplateData(r *http.Request) BaseTemplateData {
	ctx := r.Context()
	return BaseTemplateData{
		Theme:       contexthelpers.Theme(ctx),
		CurrentPath: contexthelpers.CurrentPath(ctx),
		Banner:      app.controller(r).Snapshot().Banner,
	}
}
