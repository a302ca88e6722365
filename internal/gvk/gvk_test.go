package gvk

import "testing"

func TestNew(t *testing.T) {
	got := New("apps", "v1", "Deployment")
	want := GroupVersionKind{Group: "apps", Version: "v1", Kind: "Deployment"}
	if got != want {
		t.Errorf("New() = %+v, want %+v", got, want)
	}
}

func TestNewCoreGroup(t *testing.T) {
	got := New("", "v1", "Pod")
	if got.Group != "" || got.Version != "v1" || got.Kind != "Pod" {
		t.Errorf("New(core) = %+v", got)
	}
}

func TestNewResource(t *testing.T) {
	got := NewResource("batch", "v1", "jobs")
	want := GroupVersionResource{Group: "batch", Version: "v1", Resource: "jobs"}
	if got != want {
		t.Errorf("NewResource() = %+v, want %+v", got, want)
	}
}

func TestGroupVersion(t *testing.T) {
	g := New("apps", "v1", "Deployment")
	gv := GroupVersion(g)
	if gv.Group != "apps" || gv.Version != "v1" {
		t.Errorf("GroupVersion() = %+v", gv)
	}
}

func TestGVKAsMapKey(t *testing.T) {
	m := map[GroupVersionKind]string{
		New("", "v1", "Pod"):          "pod",
		New("apps", "v1", "Deployment"): "deploy",
	}
	if m[New("", "v1", "Pod")] != "pod" {
		t.Error("GVK does not compare equal as a map key")
	}
}
