package contexthelpers_test

import (
	"github.com/myrjola/studyassistant/internal/contexthelpers"
	"github.com/stretchr/testify/require"
	"net/http/httptest"
	"testing"
)

func TestContextHelpers(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	ctx := r.Context()
	require.Empty(t, contexthelpers.CurrentPath(ctx))
	require.Empty(t, contexthelpers.CSRFToken(ctx))
	require.Empty(t, contexthelpers.CSPNonce(ctx))
	require.Empty(t, contexthelpers.StudySessionID(ctx))
	require.Equal(t, contexthelpers.ThemeLight, contexthelpers.Theme(ctx))

	r = contexthelpers.SetCurrentPath(r, "/history/1")
	r = contexthelpers.SetCSRFToken(r, "token")
	r = contexthelpers.SetCSPNonce(r, "nonce")
	r = contexthelpers.SetStudySession(r, "session", contexthelpers.ThemeDark)
	ctx = r.Context()
	require.Equal(t, "/history/1", contexthelpers.CurrentPath(ctx))
	require.Equal(t, "token", contexthelpers.CSRFToken(ctx))
	require.Equal(t, "nonce", contexthelpers.CSPNonce(ctx))
	require.Equal(t, "session", contexthelpers.StudySessionID(ctx))
	require.Equal(t, contexthelpers.ThemeDark, contexthelpers.Theme(ctx))

	r = contexthelpers.SetStudySession(r, "session", "sepia")
	require.Equal(t, contexthelpers.ThemeLight, contexthelpers.Theme(r.Context()), "unknown theme falls back")
}
