// Package templateset loads template-set documents from JSON/YAML files and
// applies them to a registry. A document declares its owning content types
// once; every template it carries is registered under those owners.
package templateset

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-tempo/pkg/contenttype"
)

// Entry is one template declaration inside a document.
type Entry struct {
	Tag   string `json:"tag" yaml:"tag"`
	Label string `json:"label" yaml:"label"`
	Body  string `json:"body" yaml:"body"`
}

// Document is a parsed template-set file.
type Document struct {
	Name      string             `json:"name" yaml:"name"`
	Owners    []contenttype.Type `json:"owners" yaml:"owners"`
	Templates []Entry            `json:"templates" yaml:"templates"`

	// Source records the file path the document came from; informational.
	Source string `json:"-" yaml:"-"`
}

func (d Document) validate() error {
	if len(d.Owners) == 0 {
		return fmt.Errorf("templateset: file %s declares no owners", d.Source)
	}
	for _, owner := range d.Owners {
		if strings.TrimSpace(string(owner)) == "" {
			return fmt.Errorf("templateset: file %s declares an empty owner", d.Source)
		}
	}
	if len(d.Templates) == 0 {
		return fmt.Errorf("templateset: file %s declares no templates", d.Source)
	}

	seen := make(map[string]struct{}, len(d.Templates))
	for idx, entry := range d.Templates {
		tag := strings.TrimSpace(entry.Tag)
		if tag == "" {
			return fmt.Errorf("templateset: file %s template %d has an empty tag", d.Source, idx)
		}
		if entry.Body == "" {
			return fmt.Errorf("templateset: file %s template %q has an empty body", d.Source, tag)
		}
		if _, dup := seen[tag]; dup {
			return fmt.Errorf("templateset: file %s declares tag %q twice", d.Source, tag)
		}
		seen[tag] = struct{}{}
	}
	return nil
}
