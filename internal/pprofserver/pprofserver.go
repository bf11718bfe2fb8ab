package pprofserver

import (
	"context"
	"github.com/myrjola/studyassistant/internal/errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"
)

func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	return mux
}

// ListenAndServe serves pprof on the IPv6 loopback address at port until ctx is done.
func ListenAndServe(ctx context.Context, port string, logger *slog.Logger) error {
	srv := &http.Server{ //nolint:exhaustruct // defaults are fine for a loopback debug server
		Addr:              net.JoinHostPort("::1", port),
		Handler:           newServeMux(),
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd // generous for local use
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownErr <- srv.Shutdown(context.WithoutCancel(ctx))
	}()

	logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "pprof server", slog.String("addr", srv.Addr))
	}
	return errors.Wrap(<-shutdownErr, "shutdown pprof server")
}
