// Package gvk defines the Group/Version/Kind and Group/Version/Resource
// value types used throughout fakecluster to identify API types and their
// URL-facing resource forms.
package gvk

import "k8s.io/apimachinery/pkg/runtime/schema"

// GroupVersionKind identifies an API type. The zero value is the core
// group's empty GVK and is never a valid lookup key.
type GroupVersionKind = schema.GroupVersionKind

// GroupVersionResource identifies the URL-facing plural form of an API
// type. Every registered GVK has exactly one GVR.
type GroupVersionResource = schema.GroupVersionResource

// New returns the GVK for (group, version, kind). group is "" for the core
// API group.
func New(group, version, kind string) GroupVersionKind {
	return GroupVersionKind{Group: group, Version: version, Kind: kind}
}

// NewResource returns the GVR for (group, version, plural).
func NewResource(group, version, resource string) GroupVersionResource {
	return GroupVersionResource{Group: group, Version: version, Resource: resource}
}

// GroupVersion returns the (group, version) pair shared by a GVK and its
// corresponding GVR.
func GroupVersion(g GroupVersionKind) schema.GroupVersion {
	return g.GroupVersion()
}
