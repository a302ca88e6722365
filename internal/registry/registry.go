// Package registry holds runtime-registered custom resource descriptors,
// the dynamic half of discovery.
package registry

import (
	"fmt"
	"sync"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/otterscale/fakecluster/internal/discovery"
	"github.com/otterscale/fakecluster/internal/gvk"
)

// Registry is a concurrency-safe, dynamic store of resource descriptors
// for custom resource types registered at runtime.
type Registry struct {
	mu       sync.RWMutex
	byGVK    map[gvk.GroupVersionKind]discovery.Descriptor
	byGVR    map[gvk.GroupVersionResource]gvk.GroupVersionKind
	byPlural map[string]map[string]gvk.GroupVersionKind // group/version -> plural -> gvk
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		byGVK:    make(map[gvk.GroupVersionKind]discovery.Descriptor),
		byGVR:    make(map[gvk.GroupVersionResource]gvk.GroupVersionKind),
		byPlural: make(map[string]map[string]gvk.GroupVersionKind),
	}
}

// Register adds a custom resource descriptor directly. It overwrites any
// prior registration for the same GVK.
func (r *Registry) Register(d discovery.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(d)
}

func (r *Registry) register(d discovery.Descriptor) {
	if d.SupportedVerbs == nil {
		d.SupportedVerbs = discovery.StandardVerbSet()
	}
	r.byGVK[d.GVK] = d
	r.byGVR[d.GVR] = d.GVK
	key := gvPluralKey(d.GVK.Group, d.GVK.Version)
	if r.byPlural[key] == nil {
		r.byPlural[key] = make(map[string]gvk.GroupVersionKind)
	}
	r.byPlural[key][d.GVR.Resource] = d.GVK
}

// RegisterCRD derives a Descriptor from a CustomResourceDefinition and
// registers every served version. The standard verb set applies unless
// the caller later calls Register with an explicit override.
func (r *Registry) RegisterCRD(crd *apiextensionsv1.CustomResourceDefinition) error {
	if crd == nil {
		return fmt.Errorf("registry: nil CustomResourceDefinition")
	}
	namespaced := crd.Spec.Scope == apiextensionsv1.NamespaceScoped
	plural := crd.Spec.Names.Plural
	kind := crd.Spec.Names.Kind
	shortNames := append([]string(nil), crd.Spec.Names.ShortNames...)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range crd.Spec.Versions {
		if !v.Served {
			continue
		}
		d := discovery.Descriptor{
			GVK:           gvk.New(crd.Spec.Group, v.Name, kind),
			GVR:           gvk.NewResource(crd.Spec.Group, v.Name, plural),
			Namespaced:    namespaced,
			Subresources:  subresourcesFromCRD(v),
			ShortNames:    shortNames,
			SupportedVerbs: discovery.StandardVerbSet(),
		}
		r.register(d)
	}
	return nil
}

func subresourcesFromCRD(v apiextensionsv1.CustomResourceDefinitionVersion) map[string]struct{} {
	subs := make(map[string]struct{})
	if v.Subresources == nil {
		return subs
	}
	if v.Subresources.Status != nil {
		subs["status"] = struct{}{}
	}
	if v.Subresources.Scale != nil {
		subs["scale"] = struct{}{}
	}
	return subs
}

// Lookup returns the descriptor for gvk, if registered.
func (r *Registry) Lookup(g gvk.GroupVersionKind) (discovery.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byGVK[g]
	return d, ok
}

// LookupByGVR returns the descriptor registered under resource, if any.
func (r *Registry) LookupByGVR(resource gvk.GroupVersionResource) (discovery.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byGVR[resource]
	if !ok {
		return discovery.Descriptor{}, false
	}
	return r.byGVK[g], true
}

// LookupByPlural resolves (group, version, plural) to a descriptor.
func (r *Registry) LookupByPlural(group, version, plural string) (discovery.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions, ok := r.byPlural[gvPluralKey(group, version)]
	if !ok {
		return discovery.Descriptor{}, false
	}
	g, ok := versions[plural]
	if !ok {
		return discovery.Descriptor{}, false
	}
	return r.byGVK[g], true
}

// All returns every registered descriptor, for discovery listing.
func (r *Registry) All() []discovery.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]discovery.Descriptor, 0, len(r.byGVK))
	for _, d := range r.byGVK {
		out = append(out, d)
	}
	return out
}

func gvPluralKey(group, version string) string {
	return group + "/" + version
}
