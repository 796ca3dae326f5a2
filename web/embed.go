// Package web provides the embedded page templates and static assets.
package web

import "embed"

// FS contains the page templates (index.html, notfound.html) and static/.
//
//go:embed *.html static
var FS embed.FS
