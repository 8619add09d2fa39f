package activation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-tempo/pkg/contenttype"
	"github.com/goliatone/go-tempo/pkg/registry"
)

type fakeTarget struct {
	set      *ActiveSet
	installs int
}

func (f *fakeTarget) InstallActiveSet(set *ActiveSet) {
	f.set = set
	f.installs++
}

func newManager(t *testing.T, hierarchy contenttype.MapHierarchy) (*Manager, *registry.Registry) {
	t.Helper()
	reg := registry.New(nil)
	return NewManager(contenttype.NewResolver(hierarchy), reg), reg
}

func register(t *testing.T, reg *registry.Registry, tag string, owners []contenttype.Type, body string) {
	t.Helper()
	if _, err := reg.Register(tag, owners, body, ""); err != nil {
		t.Fatalf("register %q: %v", tag, err)
	}
}

func TestActivate_DescendantOverridesAncestor(t *testing.T) {
	manager, reg := newManager(t, contenttype.MapHierarchy{"c": "text"})
	register(t, reg, "x", []contenttype.Type{"text"}, "generic")
	register(t, reg, "x", []contenttype.Type{"c"}, "specific")

	target := &fakeTarget{}
	if err := manager.Activate(target, "c"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	qualifiedName, ok := target.set.Lookup("x")
	if !ok || qualifiedName != "c!x" {
		t.Fatalf("want descendant binding %q, got %q (ok=%v)", "c!x", qualifiedName, ok)
	}
}

func TestActivate_MergeOrderRootToLeaf(t *testing.T) {
	manager, reg := newManager(t, contenttype.MapHierarchy{"c": "text"})
	register(t, reg, "sig", []contenttype.Type{"text"}, "sig-body")
	register(t, reg, "if", []contenttype.Type{"c"}, "if-body")
	register(t, reg, "for", []contenttype.Type{"c"}, "for-body")

	target := &fakeTarget{}
	if err := manager.Activate(target, "c"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	want := []string{"sig", "if", "for"}
	if diff := cmp.Diff(want, target.set.Tags()); diff != "" {
		t.Fatalf("tag order mismatch (-want +got):\n%s", diff)
	}
}

func TestActivate_EmptyChainYieldsEmptySet(t *testing.T) {
	manager, _ := newManager(t, nil)

	target := &fakeTarget{}
	if err := manager.Activate(target, "orphan"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if target.set.Len() != 0 {
		t.Fatalf("want empty set, got %v", target.set.Tags())
	}
}

func TestActivate_Idempotent(t *testing.T) {
	manager, reg := newManager(t, contenttype.MapHierarchy{"c": "text"})
	register(t, reg, "if", []contenttype.Type{"c"}, "if-body")

	target := &fakeTarget{}
	if err := manager.Activate(target, "c"); err != nil {
		t.Fatalf("first activate: %v", err)
	}
	first := target.set.Bindings()

	if err := manager.Activate(target, "c"); err != nil {
		t.Fatalf("second activate: %v", err)
	}
	if diff := cmp.Diff(first, target.set.Bindings()); diff != "" {
		t.Fatalf("reactivation changed the set (-want +got):\n%s", diff)
	}
	if target.installs != 2 {
		t.Fatalf("want a full install per activation, got %d", target.installs)
	}
}

func TestActivate_RegistrationAfterActivationNotVisibleUntilReactivation(t *testing.T) {
	manager, reg := newManager(t, nil)
	register(t, reg, "if", []contenttype.Type{"c"}, "if-body")

	target := &fakeTarget{}
	if err := manager.Activate(target, "c"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	register(t, reg, "for", []contenttype.Type{"c"}, "for-body")
	if _, ok := target.set.Lookup("for"); ok {
		t.Fatal("late registration leaked into an installed set")
	}

	if err := manager.Activate(target, "c"); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if _, ok := target.set.Lookup("for"); !ok {
		t.Fatal("late registration missing after reactivation")
	}
}

// New defensive behavior: a malformed parent relation fails the activation
// and leaves the previously installed set alone.
func TestActivate_CyclicHierarchyFailsWithoutInstall(t *testing.T) {
	manager, reg := newManager(t, contenttype.MapHierarchy{"a": "b", "b": "a"})
	register(t, reg, "if", []contenttype.Type{"a"}, "if-body")

	target := &fakeTarget{}
	err := manager.Activate(target, "a")

	var cycleErr *contenttype.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *contenttype.CycleError, got %v", err)
	}
	if target.installs != 0 {
		t.Fatal("failed activation must not install a set")
	}
}

func TestActivate_RepeatedActivationIsStable(t *testing.T) {
	tag := rapid.StringMatching(`[a-z]{1,5}`)

	rapid.Check(t, func(rt *rapid.T) {
		hierarchy := contenttype.MapHierarchy{"mid": "root", "leaf": "mid"}
		reg := registry.New(nil)
		manager := NewManager(contenttype.NewResolver(hierarchy), reg)

		owners := [][]contenttype.Type{{"root"}, {"mid"}, {"leaf"}, {"root", "leaf"}}
		count := rapid.IntRange(1, 12).Draw(rt, "count")
		for i := 0; i < count; i++ {
			owner := owners[rapid.IntRange(0, len(owners)-1).Draw(rt, "owner")]
			if _, err := reg.Register(tag.Draw(rt, "tag"), owner, "body", ""); err != nil {
				rt.Fatalf("register: %v", err)
			}
		}

		target := &fakeTarget{}
		if err := manager.Activate(target, "leaf"); err != nil {
			rt.Fatalf("activate: %v", err)
		}
		first := target.set.Bindings()

		if err := manager.Activate(target, "leaf"); err != nil {
			rt.Fatalf("reactivate: %v", err)
		}
		if diff := cmp.Diff(first, target.set.Bindings()); diff != "" {
			rt.Fatalf("activation not idempotent (-want +got):\n%s", diff)
		}
	})
}
