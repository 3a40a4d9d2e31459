package briefing

import (
	"io/fs"

	"github.com/goliatone/go-briefing/internal/view"
)

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// and override them through the templates directory setting.
func EmbeddedTemplates() fs.FS {
	return view.Templates()
}
