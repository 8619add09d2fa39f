package templateset

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.yaml
var embeddedSets embed.FS

// EmbeddedFS returns the bundled starter template sets. Callers may pass this
// filesystem to LoadFS to seed a registry with the default templates.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSets, "templates")
	if err != nil {
		// The embed directive pins the subpath.
		panic(err)
	}
	return sub
}
