package main

import (
	"github.com/myrjola/studyassistant/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/url"
	"testing"
)

func Test_application_home(t *testing.T) {
	fake := testhelpers.NewFakeOpenAI(t)
	server := startTestServer(t, fake)
	ctx := t.Context()

	doc, err := server.Client().GetDoc(ctx, "/")
	require.NoError(t, err)

	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))
	require.Equal(t, 1, doc.Find("form[action='/study']").Length())
	require.Equal(t, 0, doc.Find("#credential-banner").Length())
	require.Equal(t, 0, doc.Find("#history").Length(), "no history yet")
	_, disabled := doc.Find("form[action='/study'] button").Attr("disabled")
	require.False(t, disabled)
	require.Equal(t, "page", doc.Find("a.brand").AttrOr("aria-current", ""))
}

func Test_application_home_missingAPIKey(t *testing.T) {
	server := startTestServer(t, nil)
	ctx := t.Context()
	client := server.Client()

	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Contains(t, doc.Find("#credential-banner").Text(), "API key is not set")
	_, disabled := doc.Find("form[action='/study'] button").Attr("disabled")
	require.True(t, disabled)

	resp, err := client.PostForm(ctx, "/", "/study", url.Values{"subject": {"Biology"}, "topic": {"Mitosis"}}, nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// Still idle.
	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/study']").Length())
	require.Equal(t, 0, doc.Find("#loading").Length())
}

func Test_application_healthy(t *testing.T) {
	server := startTestServer(t, nil)

	resp, err := server.Client().Get(t.Context(), "/api/healthy")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func Test_secureHeaders(t *testing.T) {
	server := startTestServer(t, nil)

	resp, err := server.Client().Get(t.Context(), "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	csp := resp.Header.Get("Content-Security-Policy")
	require.Contains(t, csp, "'nonce-")
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Equal(t, "deny", resp.Header.Get("X-Frame-Options"))
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func Test_application_toggleTheme(t *testing.T) {
	server := startTestServer(t, nil)
	ctx := t.Context()
	client := server.Client()

	doc, err := client.SubmitForm(ctx, "/", "/theme", url.Values{"theme": {"dark"}, "return": {"/"}})
	require.NoError(t, err)
	require.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))

	// The theme sticks to the session.
	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))

	// Open redirects are ignored.
	doc, err = client.SubmitForm(ctx, "/", "/theme", url.Values{"theme": {"light"}, "return": {"//evil.example"}})
	require.NoError(t, err)
	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))
}
