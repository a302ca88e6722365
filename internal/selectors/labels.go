// Package selectors implements label-selector parsing (delegated to
// k8s.io/apimachinery/pkg/labels) and a pre-registered field-selector
// index.
package selectors

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/otterscale/fakecluster/internal/apierrors"
)

// ParseLabelSelector parses a Kubernetes label selector expression. An
// empty string parses to the everything selector, matching all labels.
func ParseLabelSelector(expr string) (labels.Selector, error) {
	sel, err := labels.Parse(expr)
	if err != nil {
		return nil, apierrors.Invalid("invalid label selector: " + err.Error())
	}
	return sel, nil
}

// MatchesLabels reports whether sel matches obj's labels. Absent labels
// count as non-existent, which labels.Selector already implements.
func MatchesLabels(sel labels.Selector, obj *unstructured.Unstructured) bool {
	if sel == nil || sel.Empty() {
		return true
	}
	return sel.Matches(labels.Set(obj.GetLabels()))
}
