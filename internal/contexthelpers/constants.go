package contexthelpers

type contextKey string

const (
	currentPathContextKey    = contextKey("currentPath")
	csrfTokenContextKey      = contextKey("csrfToken")
	cspNonceContextKey       = contextKey("cspNonce")
	studySessionIDContextKey = contextKey("studySessionID")
	themeContextKey          = contextKey("theme")
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)
