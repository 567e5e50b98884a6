// Package web embeds the browser front end served at the site root.
package web

import "embed"

// Assets holds templates/index.html and the files under static/.
//
//go:embed templates static
var Assets embed.FS
