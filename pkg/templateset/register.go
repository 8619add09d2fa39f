package templateset

import (
	"fmt"

	"github.com/goliatone/go-tempo/pkg/contenttype"
	"github.com/goliatone/go-tempo/pkg/registry"
)

// Registrar receives the templates a document declares. *registry.Registry
// satisfies it.
type Registrar interface {
	Register(tag string, owners []contenttype.Type, body, label string) (registry.Definition, error)
}

// Apply registers every template of every document, in document order. Later
// documents overwrite earlier registrations of the same tag for the same
// owner set.
func Apply(registrar Registrar, documents []Document) error {
	if registrar == nil {
		return fmt.Errorf("templateset: registrar is required")
	}
	for _, doc := range documents {
		for _, entry := range doc.Templates {
			if _, err := registrar.Register(entry.Tag, doc.Owners, entry.Body, entry.Label); err != nil {
				return fmt.Errorf("templateset: apply %s: %w", doc.Source, err)
			}
		}
	}
	return nil
}
