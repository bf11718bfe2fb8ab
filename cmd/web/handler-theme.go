package main

import (
	"github.com/myrjola/studyassistant/internal/contexthelpers"
	"net/http"
	"strings"
)

// toggleTheme stores the chosen theme in the session and returns to the page the form was submitted from.
func (app *application) toggleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	theme := r.PostForm.Get("theme")
	if theme != contexthelpers.ThemeDark && theme != contexthelpers.ThemeLight {
		// Without a choice the theme flips.
		theme = contexthelpers.ThemeDark
		if contexthelpers.Theme(r.Context()) == contexthelpers.ThemeDark {
			theme = contexthelpers.ThemeLight
		}
	}
	app.sessionManager.Put(r.Context(), themeKey, theme)

	// Only local paths to avoid an open redirect.
	target := r.PostForm.Get("return")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
