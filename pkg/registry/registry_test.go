package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-tempo/pkg/contenttype"
)

type definitionCall struct {
	qualifiedName string
	body          string
	label         string
}

type recordingDefiner struct {
	calls []definitionCall
	err   error
}

func (d *recordingDefiner) DefineTemplate(qualifiedName, body, label string) error {
	d.calls = append(d.calls, definitionCall{qualifiedName, body, label})
	return d.err
}

func TestQualifiedName_SortedOwnersAndTag(t *testing.T) {
	got := QualifiedName([]contenttype.Type{"c++", "c"}, "if")
	if got != "c/c++!if" {
		t.Fatalf("qualified name: want %q, got %q", "c/c++!if", got)
	}

	// Owner order in the call must not matter.
	other := QualifiedName([]contenttype.Type{"c", "c++"}, "if")
	if other != got {
		t.Fatalf("qualified name depends on owner order: %q vs %q", got, other)
	}
}

func TestQualifiedName_DistinctOwnerSetsNeverCollide(t *testing.T) {
	identifier := rapid.StringMatching(`[a-z][a-z0-9+-]{0,8}`)

	rapid.Check(t, func(rt *rapid.T) {
		tag := rapid.StringMatching(`[a-z]{1,6}`).Draw(rt, "tag")
		ownersA := rapid.SliceOfNDistinct(identifier, 1, 4, rapid.ID).Draw(rt, "ownersA")
		ownersB := rapid.SliceOfNDistinct(identifier, 1, 4, rapid.ID).Draw(rt, "ownersB")

		a := toTypes(ownersA)
		b := toTypes(ownersB)

		sameSet := len(ownersA) == len(ownersB) && func() bool {
			seen := make(map[string]struct{}, len(ownersA))
			for _, o := range ownersA {
				seen[o] = struct{}{}
			}
			for _, o := range ownersB {
				if _, ok := seen[o]; !ok {
					return false
				}
			}
			return true
		}()

		qa := QualifiedName(a, tag)
		qb := QualifiedName(b, tag)
		if sameSet && qa != qb {
			rt.Fatalf("equal owner sets produced distinct names: %q vs %q", qa, qb)
		}
		if !sameSet && qa == qb {
			rt.Fatalf("distinct owner sets collided on %q", qa)
		}
	})
}

func toTypes(names []string) []contenttype.Type {
	out := make([]contenttype.Type, 0, len(names))
	for _, name := range names {
		out = append(out, contenttype.Type(name))
	}
	return out
}

func TestRegister_Validation(t *testing.T) {
	reg := New(nil)

	if _, err := reg.Register("", []contenttype.Type{"c"}, "body", ""); err == nil {
		t.Fatal("expected error for empty tag")
	}
	if _, err := reg.Register("if", nil, "body", ""); err == nil {
		t.Fatal("expected error for empty owner set")
	}
	if _, err := reg.Register("if", []contenttype.Type{""}, "body", ""); err == nil {
		t.Fatal("expected error for empty owner type")
	}
}

func TestRegister_BindsEveryOwnerInOrder(t *testing.T) {
	reg := New(nil)

	mustRegister(t, reg, "if", []contenttype.Type{"c", "c++"}, "if-body")
	mustRegister(t, reg, "for", []contenttype.Type{"c"}, "for-body")

	want := []Binding{
		{Tag: "if", QualifiedName: "c/c++!if"},
		{Tag: "for", QualifiedName: "c!for"},
	}
	if diff := cmp.Diff(want, reg.Bindings("c")); diff != "" {
		t.Fatalf("c bindings mismatch (-want +got):\n%s", diff)
	}

	wantShared := []Binding{{Tag: "if", QualifiedName: "c/c++!if"}}
	if diff := cmp.Diff(wantShared, reg.Bindings("c++")); diff != "" {
		t.Fatalf("c++ bindings mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_LastWriterWins(t *testing.T) {
	reg := New(nil)

	mustRegister(t, reg, "if", []contenttype.Type{"c"}, "old")
	mustRegister(t, reg, "for", []contenttype.Type{"c"}, "for-body")
	mustRegister(t, reg, "if", []contenttype.Type{"c"}, "new")

	qualified, ok := reg.Lookup("c", "if")
	if !ok {
		t.Fatal("binding missing after overwrite")
	}
	def, ok := reg.Definition(qualified)
	if !ok || def.Body != "new" {
		t.Fatalf("definition not replaced: %+v (ok=%v)", def, ok)
	}

	// Overwrite keeps the binding's original position.
	want := []Binding{
		{Tag: "if", QualifiedName: "c!if"},
		{Tag: "for", QualifiedName: "c!for"},
	}
	if diff := cmp.Diff(want, reg.Bindings("c")); diff != "" {
		t.Fatalf("order changed on overwrite (-want +got):\n%s", diff)
	}
}

func TestRegister_SameTagDifferentOwnersKeepsBothDefinitions(t *testing.T) {
	reg := New(nil)

	mustRegister(t, reg, "x", []contenttype.Type{"a"}, "a-body")
	mustRegister(t, reg, "x", []contenttype.Type{"a", "b"}, "ab-body")

	// The second registration overwrites a's binding but the first
	// definition survives under its own qualified name.
	qualified, _ := reg.Lookup("a", "x")
	if qualified != "a/b!x" {
		t.Fatalf("a binding: want %q, got %q", "a/b!x", qualified)
	}
	if _, ok := reg.Definition("a!x"); !ok {
		t.Fatal("original definition dropped")
	}
}

func TestRegister_ForwardsOncePerDistinctBody(t *testing.T) {
	definer := &recordingDefiner{}
	reg := New(definer)

	mustRegister(t, reg, "if", []contenttype.Type{"c"}, "body-1")
	mustRegister(t, reg, "if", []contenttype.Type{"c"}, "body-1") // identical: no re-forward
	mustRegister(t, reg, "if", []contenttype.Type{"c"}, "body-2")

	want := []definitionCall{
		{"c!if", "body-1", "if"},
		{"c!if", "body-2", "if"},
	}
	if diff := cmp.Diff(want, definer.calls, cmp.AllowUnexported(definitionCall{})); diff != "" {
		t.Fatalf("forwarded definitions mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_DefinerFailureSurfaces(t *testing.T) {
	definer := &recordingDefiner{err: errors.New("boom")}
	reg := New(definer)

	_, err := reg.Register("if", []contenttype.Type{"c"}, "body", "")
	if err == nil || !strings.Contains(err.Error(), "define template") {
		t.Fatalf("expected define error, got %v", err)
	}
}

func TestRegister_DefinerFailureLeavesNoState(t *testing.T) {
	definer := &recordingDefiner{err: errors.New("boom")}
	reg := New(definer)

	if _, err := reg.Register("if", []contenttype.Type{"c"}, "broken", ""); err == nil {
		t.Fatal("expected define error")
	}
	if _, ok := reg.Lookup("c", "if"); ok {
		t.Fatal("binding installed despite engine failure")
	}
	if _, ok := reg.Definition("c!if"); ok {
		t.Fatal("definition recorded despite engine failure")
	}

	// A corrected re-register must reach the engine again instead of hitting
	// the already-known guard.
	definer.err = nil
	mustRegister(t, reg, "if", []contenttype.Type{"c"}, "broken")

	want := []definitionCall{
		{"c!if", "broken", "if"},
		{"c!if", "broken", "if"},
	}
	if diff := cmp.Diff(want, definer.calls, cmp.AllowUnexported(definitionCall{})); diff != "" {
		t.Fatalf("forwarded definitions mismatch (-want +got):\n%s", diff)
	}
	if qualified, ok := reg.Lookup("c", "if"); !ok || qualified != "c!if" {
		t.Fatalf("binding missing after corrected register: %q (ok=%v)", qualified, ok)
	}
}

func TestQualifiedName_DuplicateOwnersCollapse(t *testing.T) {
	got := QualifiedName([]contenttype.Type{"c", "c"}, "if")
	if want := QualifiedName([]contenttype.Type{"c"}, "if"); got != want {
		t.Fatalf("duplicate owners changed the derivation: %q vs %q", got, want)
	}

	reg := New(nil)
	mustRegister(t, reg, "if", []contenttype.Type{"c", "c"}, "if-body")

	want := []Binding{{Tag: "if", QualifiedName: "c!if"}}
	if diff := cmp.Diff(want, reg.Bindings("c")); diff != "" {
		t.Fatalf("c bindings mismatch (-want +got):\n%s", diff)
	}
	def, ok := reg.Definition("c!if")
	if !ok {
		t.Fatal("definition missing")
	}
	if diff := cmp.Diff([]contenttype.Type{"c"}, def.Owners); diff != "" {
		t.Fatalf("owners not collapsed (-want +got):\n%s", diff)
	}
}

func mustRegister(t *testing.T, reg *Registry, tag string, owners []contenttype.Type, body string) {
	t.Helper()
	if _, err := reg.Register(tag, owners, body, ""); err != nil {
		t.Fatalf("register %q: %v", tag, err)
	}
}
