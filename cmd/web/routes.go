package main

import (
	"github.com/justinas/alice"
	"github.com/myrjola/studyassistant/ui"
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.FileServerFS(ui.Files))
	mux.HandleFunc("GET /api/healthy", app.healthy)

	session := alice.New(app.sessionManager.LoadAndSave, app.studySession, noSurf, commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("POST /study", session.ThenFunc(app.submitStudy))
	mux.Handle("POST /study/tool", session.ThenFunc(app.selectTool))
	mux.Handle("POST /study/reset", session.ThenFunc(app.resetStudy))
	mux.Handle("GET /history/{id}", session.ThenFunc(app.historyEntry))
	mux.Handle("POST /history/{id}/open", session.ThenFunc(app.openHistoryEntry))
	mux.Handle("POST /theme", session.ThenFunc(app.toggleTheme))

	// The event stream outlives the default timeouts and must be able to flush, so it stays out of timeoutHandler.
	root := http.NewServeMux()
	root.Handle("GET /study/events", alice.New(app.serverSentEventMiddleware).ThenFunc(app.studyEvents))
	root.Handle("/", timeoutHandler(mux, defaultTimeout))

	return alice.New(app.recoverPanic, app.logRequest, secureHeaders).Then(root)
}
