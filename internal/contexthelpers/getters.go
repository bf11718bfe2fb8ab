package contexthelpers

import (
	"context"
)

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

func CSPNonce(ctx context.Context) string {
	nonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return nonce
}

// StudySessionID identifies the browser session owning a study controller. Empty outside the session middleware.
func StudySessionID(ctx context.Context) string {
	id, ok := ctx.Value(studySessionIDContextKey).(string)
	if !ok {
		return ""
	}

	return id
}

// Theme is either ThemeLight or ThemeDark. Defaults to ThemeLight.
func Theme(ctx context.Context) string {
	theme, ok := ctx.Value(themeContextKey).(string)
	if !ok || theme != ThemeDark {
		return ThemeLight
	}

	return theme
}
