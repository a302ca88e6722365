package discovery

import (
	"github.com/Masterminds/semver/v3"

	"github.com/otterscale/fakecluster/internal/apierrors"
	"github.com/otterscale/fakecluster/internal/gvk"
)

// pinnedServerVersion is the synthetic Kubernetes version this facade
// reports through APIVersion. It is parsed once at package init so a
// malformed literal fails at load time, not on first request.
var pinnedServerVersion = semver.MustParse("1.31.0")

// APIVersion returns the synthetic server version string a real discovery
// client would read from /version (GitVersion). Kept parseable through
// semver rather than a bare string literal so a malformed pin fails at
// load time.
func (f *Facade) APIVersion() string {
	return "v" + pinnedServerVersion.String()
}

// dynamicLookup is satisfied by *registry.Registry. Declaring it locally
// rather than importing the registry package keeps discovery free of a
// dependency the registry package itself needs on discovery.Descriptor.
type dynamicLookup interface {
	Lookup(gvk.GroupVersionKind) (Descriptor, bool)
	LookupByGVR(gvk.GroupVersionResource) (Descriptor, bool)
	LookupByPlural(group, version, plural string) (Descriptor, bool)
	All() []Descriptor
}

// Facade is the unified lookup over the static builtin table and the
// dynamic registry. It checks the static table first, then falls through
// to the registry.
type Facade struct {
	builtinByGVK map[gvk.GroupVersionKind]Descriptor
	builtinByGVR map[gvk.GroupVersionResource]Descriptor
	registry     dynamicLookup
}

// NewFacade returns a Facade backed by the built-in table and reg. reg may
// be nil, in which case only built-in kinds resolve.
func NewFacade(reg dynamicLookup) *Facade {
	byGVK, byGVR := builtinTable()
	return &Facade{builtinByGVK: byGVK, builtinByGVR: byGVR, registry: reg}
}

// GVKToGVR resolves a GVK to its GVR.
func (f *Facade) GVKToGVR(g gvk.GroupVersionKind) (gvk.GroupVersionResource, error) {
	d, err := f.descriptor(g)
	if err != nil {
		return gvk.GroupVersionResource{}, err
	}
	return d.GVR, nil
}

// GVRToGVK resolves a GVR to its GVK.
func (f *Facade) GVRToGVK(r gvk.GroupVersionResource) (gvk.GroupVersionKind, error) {
	d, err := f.descriptorByGVR(r)
	if err != nil {
		return gvk.GroupVersionKind{}, err
	}
	return d.GVK, nil
}

// PluralToKind resolves (group, version, plural) to a kind name.
func (f *Facade) PluralToKind(group, version, plural string) (string, error) {
	d, err := f.descriptorByPlural(group, version, plural)
	if err != nil {
		return "", err
	}
	return d.GVK.Kind, nil
}

// KindToPlural resolves a GVK to its plural resource name.
func (f *Facade) KindToPlural(g gvk.GroupVersionKind) (string, error) {
	d, err := f.descriptor(g)
	if err != nil {
		return "", err
	}
	return d.GVR.Resource, nil
}

// IsNamespaced reports whether the GVK is namespace-scoped.
func (f *Facade) IsNamespaced(g gvk.GroupVersionKind) (bool, error) {
	d, err := f.descriptor(g)
	if err != nil {
		return false, err
	}
	return d.Namespaced, nil
}

// SupportsVerb reports whether the GVK's descriptor declares verb.
func (f *Facade) SupportsVerb(g gvk.GroupVersionKind, verb string) (bool, error) {
	d, err := f.descriptor(g)
	if err != nil {
		return false, err
	}
	return d.SupportsVerb(verb), nil
}

// GetSubresources returns the set of subresources declared for the GVK.
func (f *Facade) GetSubresources(g gvk.GroupVersionKind) (map[string]struct{}, error) {
	d, err := f.descriptor(g)
	if err != nil {
		return nil, err
	}
	return d.Subresources, nil
}

// Descriptor resolves the full descriptor for a GVR, checking the static
// table before the registry.
func (f *Facade) Descriptor(r gvk.GroupVersionResource) (Descriptor, error) {
	return f.descriptorByGVR(r)
}

// DescriptorForGVK resolves the full descriptor for a GVK.
func (f *Facade) DescriptorForGVK(g gvk.GroupVersionKind) (Descriptor, error) {
	return f.descriptor(g)
}

// All returns every descriptor known to the facade, builtins first.
func (f *Facade) All() []Descriptor {
	out := make([]Descriptor, 0, len(f.builtinByGVK))
	for _, d := range f.builtinByGVK {
		out = append(out, d)
	}
	if f.registry != nil {
		out = append(out, f.registry.All()...)
	}
	return out
}

func (f *Facade) descriptor(g gvk.GroupVersionKind) (Descriptor, error) {
	if d, ok := f.builtinByGVK[g]; ok {
		return d, nil
	}
	if f.registry != nil {
		if d, ok := f.registry.Lookup(g); ok {
			return d, nil
		}
	}
	return Descriptor{}, apierrors.ResourceNotRegistered(g.Group, g.Kind)
}

func (f *Facade) descriptorByGVR(r gvk.GroupVersionResource) (Descriptor, error) {
	if d, ok := f.builtinByGVR[r]; ok {
		return d, nil
	}
	if f.registry != nil {
		if d, ok := f.registry.LookupByGVR(r); ok {
			return d, nil
		}
	}
	return Descriptor{}, apierrors.ResourceNotRegistered(r.Group, r.Resource)
}

func (f *Facade) descriptorByPlural(group, version, plural string) (Descriptor, error) {
	r := gvk.NewResource(group, version, plural)
	return f.descriptorByGVR(r)
}
