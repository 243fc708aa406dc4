// Package help provides embedded help documentation for the dashboard.
package help

import "embed"

//go:embed *.md
var Files embed.FS
