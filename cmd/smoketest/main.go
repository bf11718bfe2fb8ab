package main

import (
	"context"
	"github.com/myrjola/studyassistant/internal/e2etest"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/logging"
	"log/slog"
	"net/url"
	"os"
	"time"
)

// smokeTest checks that the site is up, renders the study form and keeps a session across form posts.
func smokeTest(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return errors.Wrap(err, "wait for ready")
	}

	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return errors.Wrap(err, "get home page")
	}
	if doc.Find("form[action='/study']").Length() != 1 {
		return errors.New("study form not found")
	}

	theme := doc.Find("html").AttrOr("data-theme", "")
	if doc, err = client.SubmitForm(ctx, "/", "/theme", url.Values{"return": {"/"}}); err != nil {
		return errors.Wrap(err, "toggle theme")
	}
	if toggled := doc.Find("html").AttrOr("data-theme", ""); toggled == theme {
		return errors.New("theme did not change", slog.String("theme", theme))
	}
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug, false)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		siteURL  = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("url", siteURL))

	if client, err = e2etest.NewClient(siteURL); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = smokeTest(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke test failed", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
}
