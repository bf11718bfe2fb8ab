package ui

import "embed"

// Files holds the HTML templates under templates/ and the assets served from /static/.
//
//go:embed static templates
var Files embed.FS
