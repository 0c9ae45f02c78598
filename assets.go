// Package paddock provides embedded assets for production builds.
package paddock

import "embed"

// In dev mode (DEV=true) templates and static files are read from disk so edits
// show up without a rebuild; otherwise they are served from these copies.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
