// Package discovery resolves plural<->kind, scope, verbs, and subresources
// for both built-in Kubernetes kinds (a generated-shape static table) and
// runtime-registered custom resources (delegated to the registry package).
package discovery

import "github.com/otterscale/fakecluster/internal/gvk"

// Descriptor holds everything the dispatcher and tracker need to know
// about a GVK/GVR pair beyond the stored objects themselves.
type Descriptor struct {
	GVK           gvk.GroupVersionKind
	GVR           gvk.GroupVersionResource
	Namespaced    bool
	Subresources  map[string]struct{}
	ShortNames    []string
	SupportedVerbs map[string]struct{}
}

// HasSubresource reports whether the descriptor declares the named
// subresource (e.g. "status", "scale").
func (d Descriptor) HasSubresource(name string) bool {
	_, ok := d.Subresources[name]
	return ok
}

// SupportsVerb reports whether the descriptor's verb set includes verb.
func (d Descriptor) SupportsVerb(verb string) bool {
	_, ok := d.SupportedVerbs[verb]
	return ok
}

// standardVerbs is the verb set assumed for CRDs registered without an
// explicit override.
var standardVerbs = []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"}

func verbSet(verbs []string) map[string]struct{} {
	m := make(map[string]struct{}, len(verbs))
	for _, v := range verbs {
		m[v] = struct{}{}
	}
	return m
}

// StandardVerbSet returns the default verb set assumed for a CRD
// registered without an explicit verb override.
func StandardVerbSet() map[string]struct{} {
	return verbSet(standardVerbs)
}

func subresourceSet(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}
