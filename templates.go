package tempo

import (
	"io/fs"

	"github.com/goliatone/go-tempo/pkg/templateset"
)

// EmbeddedTemplateSets exposes the built-in starter template sets so callers
// can reuse or extend them without importing the templateset package directly.
func EmbeddedTemplateSets() fs.FS {
	return templateset.EmbeddedFS()
}
