package main

import (
	"bytes"
	"fmt"
	"github.com/myrjola/studyassistant/internal/contexthelpers"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/ssr"
	"github.com/myrjola/studyassistant/ui"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
)

// templateCache maps page names, the directories inside ui/templates/pages, to their parsed templates.
type templateCache map[string]*template.Template

var templateFuncs = template.FuncMap{ //nolint:gochecknoglobals // read-only
	// nonce and csrf are replaced per request in render.
	"nonce": func() template.HTMLAttr {
		panic("not implemented")
	},
	"csrf": func() template.HTML {
		panic("not implemented")
	},
	"paragraphs": paragraphs,
	"formatTime": func(t time.Time) string {
		return t.Local().Format("2 Jan 2006 15:04")
	},
	"isoTime": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
}

// newTemplateCache parses every page in ui/templates/pages together with the base template and the partials.
//
// Each page has to define the templates "title" and "page".
func newTemplateCache() (templateCache, error) {
	cache := templateCache{}

	pageDirs, err := fs.Glob(ui.Files, "templates/pages/*")
	if err != nil {
		return nil, errors.Wrap(err, "glob pages")
	}
	for _, dir := range pageDirs {
		name := path.Base(dir)
		patterns := []string{
			"templates/base.gohtml",
			"templates/partials/*.gohtml",
			dir + "/*.gohtml",
		}
		var t *template.Template
		if t, err = template.New(name).Funcs(templateFuncs).ParseFS(ui.Files, patterns...); err != nil {
			return nil, errors.Wrap(err, "parse page template", slog.String("page", name))
		}
		cache[name] = t
	}
	return cache, nil
}

// render writes the full page.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	app.renderTemplate(w, r, status, page, "base", data)
}

// renderFragment writes the named template of page without the surrounding layout, e.g., for htmx swaps.
func (app *application) renderFragment(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	page string,
	name string,
	data any,
) {
	app.renderTemplate(w, r, status, page, name, data)
}

func (app *application) renderTemplate(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	page string,
	name string,
	data any,
) {
	cached, ok := app.templates[page]
	if !ok {
		app.serverError(w, r, errors.New("page template not found", slog.String("page", page)))
		return
	}

	// The cached template is never executed so that it can be cloned for every request.
	t, err := cached.Clone()
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "clone template", slog.String("page", page)))
		return
	}
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // generated by us
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // generated by us
		},
	})

	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template",
			slog.String("page", page), slog.String("template", name)))
		return
	}

	out := new(bytes.Buffer)
	if err = ssr.PostProcess(out, buf, contexthelpers.CurrentPath(ctx)); err != nil {
		app.serverError(w, r, errors.Wrap(err, "post-process html", slog.String("page", page)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = out.WriteTo(w)
}

// paragraphs splits text on blank lines.
func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
