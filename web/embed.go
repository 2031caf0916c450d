// Package web embeds the page templates and static assets so the server
// binary is self-contained.
package web

import "embed"

// FS holds templates/*.html and static/**.
//
//go:embed templates static
var FS embed.FS
