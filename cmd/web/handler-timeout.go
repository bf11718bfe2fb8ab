package main

import (
	"net/http"
	"time"
)

const timeoutBody = `<!DOCTYPE html>
<html lang="en">
<head><title>Timeout · Study Assistant</title></head>
<body>
<h1>Timeout</h1>
<p>The page took too long to load.</p>
<p><a href="/">Try again</a></p>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func timeoutHandler(h http.Handler, defaultTimeout time.Duration) http.Handler {
	// A little shorter than the server's write timeout so that the timeout page gets written before the server
	// closes the connection.
	httpHandlerTimeout := defaultTimeout - 500*time.Millisecond //nolint:mnd // 500ms
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
