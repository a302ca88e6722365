package selectors

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/fields"
	"k8s.io/apimachinery/pkg/selection"

	"github.com/otterscale/fakecluster/internal/apierrors"
	"github.com/otterscale/fakecluster/internal/gvk"
)

// Extractor returns the zero or more string values a field path takes on
// for obj. Most fields are single-valued (zero or one result); Event's
// involvedObject.* and similar are modeled the same way for uniformity.
type Extractor func(obj *unstructured.Unstructured) []string

// FieldIndex holds, per GVK, the pre-registered set of fields eligible
// for field-selector filtering. metadata.name and metadata.namespace are
// implicitly registered for every kind.
type FieldIndex struct {
	byGVK map[gvk.GroupVersionKind]map[string]Extractor
}

// NewFieldIndex returns a FieldIndex pre-populated with the fixed table
// of kind-specific fields real Kubernetes indexes (Pod, Event, Node, …).
func NewFieldIndex() *FieldIndex {
	idx := &FieldIndex{byGVK: make(map[gvk.GroupVersionKind]map[string]Extractor)}
	registerDefaults(idx)
	return idx
}

func universalExtractors() map[string]Extractor {
	return map[string]Extractor{
		"metadata.name":      func(obj *unstructured.Unstructured) []string { return []string{obj.GetName()} },
		"metadata.namespace": func(obj *unstructured.Unstructured) []string { return []string{obj.GetNamespace()} },
	}
}

func stringField(path ...string) Extractor {
	return func(obj *unstructured.Unstructured) []string {
		v, found, _ := unstructured.NestedString(obj.Object, path...)
		if !found {
			return nil
		}
		return []string{v}
	}
}

func boolField(path ...string) Extractor {
	return func(obj *unstructured.Unstructured) []string {
		v, found, _ := unstructured.NestedBool(obj.Object, path...)
		if !found {
			return nil
		}
		if v {
			return []string{"true"}
		}
		return []string{"false"}
	}
}

// Register adds (or overrides) a field extractor for gvk/field, allowing
// callers to register additional indexes per GVK.
func (idx *FieldIndex) Register(g gvk.GroupVersionKind, field string, extractor Extractor) {
	if idx.byGVK[g] == nil {
		idx.byGVK[g] = make(map[string]Extractor)
	}
	idx.byGVK[g][field] = extractor
}

func (idx *FieldIndex) extractor(g gvk.GroupVersionKind, field string) (Extractor, bool) {
	if e, ok := universalExtractors()[field]; ok {
		return e, true
	}
	fields := idx.byGVK[g]
	if fields == nil {
		return nil, false
	}
	e, ok := fields[field]
	return e, ok
}

// MatchesFieldSelector parses expr and reports whether obj matches every
// requirement. It returns FieldSelectorNotSupported if expr references a
// field not registered for g.
func (idx *FieldIndex) MatchesFieldSelector(g gvk.GroupVersionKind, kind, expr string, obj *unstructured.Unstructured) (bool, error) {
	if expr == "" {
		return true, nil
	}
	sel, err := fields.ParseSelector(expr)
	if err != nil {
		return false, apierrors.Invalid("invalid field selector: " + err.Error())
	}
	for _, req := range sel.Requirements() {
		extractor, ok := idx.extractor(g, req.Field)
		if !ok {
			return false, apierrors.FieldSelectorNotSupported(req.Field, kind)
		}
		values := extractor(obj)
		if !requirementMatches(req, values) {
			return false, nil
		}
	}
	return true, nil
}

func requirementMatches(req fields.Requirement, values []string) bool {
	switch req.Operator {
	case selection.Equals, selection.DoubleEquals:
		return containsValue(values, req.Value)
	case selection.NotEquals:
		return !containsValue(values, req.Value)
	default:
		return false
	}
}

func containsValue(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
