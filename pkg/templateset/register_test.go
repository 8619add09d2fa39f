package templateset

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-tempo/pkg/contenttype"
	"github.com/goliatone/go-tempo/pkg/registry"
)

func TestApply_RegistersEveryTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"c.yaml": &fstest.MapFile{Data: []byte(`
owners: [c, c++]
templates:
  - tag: if
    body: "if ({{ region }}) {\n}"
  - tag: for
    body: "for ({{ region }}) {\n}"
`)},
	}
	documents, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	reg := registry.New(nil)
	if err := Apply(reg, documents); err != nil {
		t.Fatalf("apply: %v", err)
	}

	for _, owner := range []contenttype.Type{"c", "c++"} {
		bindings := reg.Bindings(owner)
		if len(bindings) != 2 {
			t.Fatalf("owner %q: want 2 bindings, got %d", owner, len(bindings))
		}
		if bindings[0].Tag != "if" || bindings[1].Tag != "for" {
			t.Fatalf("owner %q: unexpected order %+v", owner, bindings)
		}
	}
}

func TestApply_LaterDocumentWins(t *testing.T) {
	reg := registry.New(nil)
	documents := []Document{
		{Source: "a.yaml", Owners: []contenttype.Type{"c"}, Templates: []Entry{{Tag: "if", Body: "old"}}},
		{Source: "b.yaml", Owners: []contenttype.Type{"c"}, Templates: []Entry{{Tag: "if", Body: "new"}}},
	}
	if err := Apply(reg, documents); err != nil {
		t.Fatalf("apply: %v", err)
	}

	qualifiedName, ok := reg.Lookup("c", "if")
	if !ok {
		t.Fatal("if not registered")
	}
	def, ok := reg.Definition(qualifiedName)
	if !ok || def.Body != "new" {
		t.Fatalf("unexpected definition: %+v", def)
	}
}

type failingRegistrar struct{}

func (failingRegistrar) Register(tag string, owners []contenttype.Type, body, label string) (registry.Definition, error) {
	return registry.Definition{}, errors.New("boom")
}

func TestApply_RegistrarFailureSurfaces(t *testing.T) {
	documents := []Document{
		{Source: "a.yaml", Owners: []contenttype.Type{"c"}, Templates: []Entry{{Tag: "if", Body: "x"}}},
	}
	if err := Apply(failingRegistrar{}, documents); err == nil {
		t.Fatal("expected registrar error to surface")
	}
	if err := Apply(nil, documents); err == nil {
		t.Fatal("expected error for nil registrar")
	}
}
