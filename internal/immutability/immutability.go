// Package immutability enforces immutable-field checks: a generated-shape
// per-kind table plus the fixed ObjectMeta floor, diffed at three scopes
// on every non-create write.
package immutability

import (
	"reflect"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/otterscale/fakecluster/internal/apierrors"
	"github.com/otterscale/fakecluster/internal/gvk"
)

// objectMetaFloor is the fixed set of ObjectMeta fields that are always
// immutable, regardless of any generated table. resourceVersion,
// generation, uid, and creationTimestamp are server-managed and
// intentionally excluded from this user-facing check.
var objectMetaFloor = []string{"name", "namespace", "uid", "creationTimestamp", "generateName", "generation"}

// serverManagedMetadata is excluded from the ObjectMeta check even though
// "uid", "creationTimestamp", and "generation" also appear in
// objectMetaFloor: objectMetaSet drops every field listed here before the
// diff runs, since the server sets these fields itself.
var serverManagedMetadata = map[string]struct{}{
	"resourceVersion":   {},
	"generation":        {},
	"uid":               {},
	"creationTimestamp": {},
}

// Table maps a GVK to the set of immutable top-level and spec fields
// (derived, in a real generator, from OpenAPI descriptions containing
// "immutable").
type Table struct {
	topLevel map[gvk.GroupVersionKind]map[string]struct{}
	spec     map[gvk.GroupVersionKind]map[string]struct{}
}

// NewTable returns an empty immutable-field table.
func NewTable() *Table {
	return &Table{
		topLevel: make(map[gvk.GroupVersionKind]map[string]struct{}),
		spec:     make(map[gvk.GroupVersionKind]map[string]struct{}),
	}
}

// RegisterTopLevel marks field as immutable at the top level of objects
// of kind g (in addition to the always-immutable apiVersion/kind).
func (t *Table) RegisterTopLevel(g gvk.GroupVersionKind, field string) {
	if t.topLevel[g] == nil {
		t.topLevel[g] = make(map[string]struct{})
	}
	t.topLevel[g][field] = struct{}{}
}

// RegisterSpecField marks field as immutable under spec for kind g.
func (t *Table) RegisterSpecField(g gvk.GroupVersionKind, field string) {
	if t.spec[g] == nil {
		t.spec[g] = make(map[string]struct{})
	}
	t.spec[g][field] = struct{}{}
}

// Check diffs old and new at three scopes (top-level, ObjectMeta, spec)
// and rejects the first immutable-field change it finds. old is the
// currently-stored object; newObj is the caller's proposed write.
func (t *Table) Check(g gvk.GroupVersionKind, old, newObj *unstructured.Unstructured) error {
	if err := checkAlwaysImmutableTopLevel(old, newObj); err != nil {
		return err
	}
	if err := checkFields(old.Object, newObj.Object, t.topLevel[g], ""); err != nil {
		return err
	}
	oldMeta, _, _ := unstructured.NestedMap(old.Object, "metadata")
	newMeta, _, _ := unstructured.NestedMap(newObj.Object, "metadata")
	if err := checkFields(oldMeta, newMeta, objectMetaSet(), "metadata."); err != nil {
		return err
	}
	oldSpec, _, _ := unstructured.NestedMap(old.Object, "spec")
	newSpec, _, _ := unstructured.NestedMap(newObj.Object, "spec")
	if err := checkFields(oldSpec, newSpec, t.spec[g], "spec."); err != nil {
		return err
	}
	return nil
}

func objectMetaSet() map[string]struct{} {
	set := make(map[string]struct{}, len(objectMetaFloor))
	for _, f := range objectMetaFloor {
		if _, excluded := serverManagedMetadata[f]; excluded {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

// checkAlwaysImmutableTopLevel enforces that apiVersion and kind never
// change.
func checkAlwaysImmutableTopLevel(old, newObj *unstructured.Unstructured) error {
	if old.GetAPIVersion() != newObj.GetAPIVersion() {
		return apierrors.ImmutableField("apiVersion")
	}
	if old.GetKind() != newObj.GetKind() {
		return apierrors.ImmutableField("kind")
	}
	return nil
}

func checkFields(oldMap, newMap map[string]interface{}, fields map[string]struct{}, prefix string) error {
	for field := range fields {
		oldVal, oldOK := oldMap[field]
		newVal, newOK := newMap[field]
		if oldOK != newOK || !reflect.DeepEqual(oldVal, newVal) {
			return apierrors.ImmutableField(prefix + field)
		}
	}
	return nil
}
