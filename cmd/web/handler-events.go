package main

import (
	"context"
	"fmt"
	"github.com/myrjola/studyassistant/internal/contexthelpers"
	"github.com/myrjola/studyassistant/internal/errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// eventsGracePeriod is added to the generation timeout so that the stream outlives the request it waits for.
const eventsGracePeriod = 10 * time.Second

// studyEvents streams a single "settled" server-sent event once study request seq is no longer loading.
//
// The loading page listens to it and reloads itself to show the outcome.
func (app *application) studyEvents(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.ParseUint(r.URL.Query().Get("seq"), 10, 64)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	if contexthelpers.StudySessionID(r.Context()) == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	c := app.controller(r)

	timeout := app.generationTimeout + eventsGracePeriod
	rc := http.NewResponseController(w)
	deadline := time.Now().Add(timeout + time.Second)
	if err = rc.SetReadDeadline(deadline); err != nil {
		app.serverError(w, r, errors.Wrap(err, "extend read deadline"))
		return
	}
	if err = rc.SetWriteDeadline(deadline); err != nil {
		app.serverError(w, r, errors.Wrap(err, "extend write deadline"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err = rc.Flush(); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "could not flush event stream", errors.SlogError(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()
	go func() {
		select {
		case <-app.closing:
			cancel()
		case <-ctx.Done():
		}
	}()

	snap, err := c.Wait(ctx, seq)
	if err != nil {
		// The browser went away, the server is shutting down or the request is stuck. The loading page retries.
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "study event stream ended without event",
			slog.Uint64("seq", seq), errors.SlogError(err))
		return
	}

	if _, err = fmt.Fprintf(w, "event: settled\ndata: %s\n\n", snap.Status); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "could not write event", errors.SlogError(err))
		return
	}
	_ = rc.Flush()
}
