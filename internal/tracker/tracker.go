// Package tracker implements the in-memory, versioned, multi-tenant object
// store that is the storage core of fakecluster. It is deliberately
// modeled on the method set of k8s.io/client-go/testing.ObjectTracker so
// that test helpers written against the real fake clientset's tracker
// port over with little change.
package tracker

import (
	"sync"
	"sync/atomic"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/otterscale/fakecluster/internal/apierrors"
	"github.com/otterscale/fakecluster/internal/gvk"
	"github.com/otterscale/fakecluster/internal/metrics"
)

// nowFunc is overridable in tests; defaults to time.Now.
var nowFunc = time.Now

// Tracker is the versioned, namespace- and kind-aware in-memory store.
// The zero value is not usable; construct with New.
type Tracker struct {
	mu    sync.RWMutex
	store map[gvk.GroupVersionResource]map[string]map[string]*unstructured.Unstructured

	statusMu      sync.RWMutex
	statusEnabled map[gvk.GroupVersionKind]bool

	rv atomic.Uint64

	metrics *metrics.Metrics
}

// SetMetrics opts the tracker into the optional counter/gauge set, per
// builder.WithMetrics. Safe to call before any write; never required.
func (t *Tracker) SetMetrics(m *metrics.Metrics) {
	t.metrics = m
}

// recordWrite reports op/kind to the metrics set, if any, and refreshes
// the objects-stored gauge for r's bucket. Must be called with t.mu held.
func (t *Tracker) recordWrite(op string, r gvk.GroupVersionResource, kind string) {
	if t.metrics == nil {
		return
	}
	t.metrics.ObserveWrite(op, kind)
	count := 0
	for _, bucket := range t.store[r] {
		count += len(bucket)
	}
	t.metrics.SetObjectsStored(kind, count)
}

// New returns an empty Tracker. rv starts at 0; the first assigned
// resourceVersion is "1".
func New() *Tracker {
	return &Tracker{
		store:         make(map[gvk.GroupVersionResource]map[string]map[string]*unstructured.Unstructured),
		statusEnabled: make(map[gvk.GroupVersionKind]bool),
	}
}

func (t *Tracker) nextRV() string {
	return rvString(t.rv.Add(1))
}

// EnableStatusSubresource opts a GVK into status-subresource isolation
// ahead of any write.
func (t *Tracker) EnableStatusSubresource(g gvk.GroupVersionKind) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()
	t.statusEnabled[g] = true
}

func (t *Tracker) hasStatusSubresource(g gvk.GroupVersionKind) bool {
	t.statusMu.RLock()
	defer t.statusMu.RUnlock()
	return t.statusEnabled[g]
}

// autoEnableStatusSubresource marks g as status-enabled if it is not
// already known one way or the other. Real opt-ins (EnableStatusSubresource)
// always take priority and are never downgraded by this call.
func (t *Tracker) autoEnableStatusSubresource(g gvk.GroupVersionKind) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()
	if _, known := t.statusEnabled[g]; !known {
		t.statusEnabled[g] = true
	}
}

func (t *Tracker) bucket(r gvk.GroupVersionResource, create bool) map[string]map[string]*unstructured.Unstructured {
	ns, ok := t.store[r]
	if !ok {
		if !create {
			return nil
		}
		ns = make(map[string]map[string]*unstructured.Unstructured)
		t.store[r] = ns
	}
	return ns
}

func namespaceKey(namespace string) string {
	return namespace
}

// Add is the seed path. It preserves the caller's resourceVersion if
// present and non-empty, otherwise assigns the next one. It fills uid,
// creationTimestamp, and generation:=1 if absent, and auto-registers the
// status subresource if the object carries a top-level status field.
func (t *Tracker) Add(r gvk.GroupVersionResource, g gvk.GroupVersionKind, obj *unstructured.Unstructured, namespace string) error {
	name := obj.GetName()
	if name == "" {
		return apierrors.Invalid("add: metadata.name is required")
	}
	if err := checkFinalizerInvariant(obj); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	clone := obj.DeepCopy()
	clone.SetNamespace(namespace)

	if clone.GetResourceVersion() == "" {
		clone.SetResourceVersion(t.nextRV())
	}
	if clone.GetUID() == "" {
		clone.SetUID(newUID())
	}
	if clone.GetCreationTimestamp().IsZero() {
		clone.SetCreationTimestamp(metav1.NewTime(nowFunc()))
	}
	if getGeneration(clone) == 0 {
		setGeneration(clone, 1)
	}

	ns := t.bucket(r, true)
	if ns[namespaceKey(namespace)] == nil {
		ns[namespaceKey(namespace)] = make(map[string]*unstructured.Unstructured)
	}
	ns[namespaceKey(namespace)][name] = clone

	if hasTopLevelField(clone, "status") {
		t.autoEnableStatusSubresourceLocked(g)
	}

	t.recordWrite("add", r, g.Kind)

	return nil
}

func (t *Tracker) autoEnableStatusSubresourceLocked(g gvk.GroupVersionKind) {
	// autoEnableStatusSubresource takes its own lock; Add holds t.mu, a
	// different mutex, so this is safe to call while t.mu is held.
	t.autoEnableStatusSubresource(g)
}

// Create rejects a caller-supplied non-empty resourceVersion and an
// existing (namespace, name), then stores a fresh object with server-set
// identity fields.
func (t *Tracker) Create(r gvk.GroupVersionResource, g gvk.GroupVersionKind, obj *unstructured.Unstructured, namespace string) (*unstructured.Unstructured, error) {
	name := obj.GetName()
	if name == "" {
		return nil, apierrors.Invalid("create: metadata.name is required")
	}
	if obj.GetResourceVersion() != "" {
		return nil, apierrors.Invalid("create: resourceVersion must not be set")
	}
	if err := checkFinalizerInvariant(obj); err != nil {
		return nil, err
	}

	plural := r.Resource

	t.mu.Lock()
	defer t.mu.Unlock()

	ns := t.bucket(r, true)
	bucket := ns[namespaceKey(namespace)]
	if bucket == nil {
		bucket = make(map[string]*unstructured.Unstructured)
		ns[namespaceKey(namespace)] = bucket
	}
	if _, exists := bucket[name]; exists {
		return nil, apierrors.AlreadyExists(plural, name)
	}

	clone := obj.DeepCopy()
	clone.SetNamespace(namespace)
	clone.SetResourceVersion(t.nextRV())
	clone.SetUID(newUID())
	clone.SetCreationTimestamp(metav1.NewTime(nowFunc()))
	setGeneration(clone, 1)
	clearDeletionTimestamp(clone)

	bucket[name] = clone

	if hasTopLevelField(clone, "status") {
		t.autoEnableStatusSubresourceLocked(g)
	}

	t.recordWrite("create", r, g.Kind)

	return clone.DeepCopy(), nil
}

// Get returns a clone of the stored object, or NotFound.
func (t *Tracker) Get(r gvk.GroupVersionResource, namespace, name string) (*unstructured.Unstructured, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ns := t.bucket(r, false)
	if ns == nil {
		return nil, apierrors.NotFound(r.Resource, name)
	}
	bucket := ns[namespaceKey(namespace)]
	if bucket == nil {
		return nil, apierrors.NotFound(r.Resource, name)
	}
	obj, ok := bucket[name]
	if !ok {
		return nil, apierrors.NotFound(r.Resource, name)
	}
	return obj.DeepCopy(), nil
}

// Update looks up the existing object by name, checks optimistic
// concurrency, enforces subresource isolation, assigns the next
// resourceVersion, and performs the finalizer-drained implicit delete
// when applicable. isStatus selects the /status subresource path.
func (t *Tracker) Update(r gvk.GroupVersionResource, g gvk.GroupVersionKind, obj *unstructured.Unstructured, namespace string, isStatus bool) (*unstructured.Unstructured, error) {
	name := obj.GetName()

	t.mu.Lock()
	defer t.mu.Unlock()

	ns := t.bucket(r, false)
	var bucket map[string]*unstructured.Unstructured
	if ns != nil {
		bucket = ns[namespaceKey(namespace)]
	}
	var existing *unstructured.Unstructured
	if bucket != nil {
		existing = bucket[name]
	}
	if existing == nil {
		return nil, apierrors.NotFound(r.Resource, name)
	}

	if callerRV := obj.GetResourceVersion(); callerRV != "" && callerRV != existing.GetResourceVersion() {
		return nil, apierrors.Conflict(
			"Operation cannot be fulfilled: the object has been modified; please apply your changes to the latest version and try again")
	}

	if err := checkDeletionTimestampUnchanged(existing, obj); err != nil {
		return nil, err
	}

	clone := obj.DeepCopy()
	clone.SetNamespace(namespace)
	clone.SetUID(existing.GetUID())
	clone.SetCreationTimestamp(existing.GetCreationTimestamp())

	statusEnabled := t.hasStatusSubresource(g)
	if statusEnabled && !isStatus {
		copySubtree(existing, clone, "status")
	} else if statusEnabled && isStatus {
		copySubtree(existing, clone, "spec")
	}

	if isStatus {
		setGeneration(clone, getGeneration(existing))
	} else {
		setGeneration(clone, getGeneration(existing)+1)
	}

	clone.SetResourceVersion(t.nextRV())
	bucket[name] = clone

	if hasTopLevelField(clone, "status") {
		t.autoEnableStatusSubresourceLocked(g)
	}

	if deletionEligible(clone) {
		delete(bucket, name)
		t.recordWrite("delete", r, g.Kind)
		return clone.DeepCopy(), nil
	}

	op := "update"
	if isStatus {
		op = "update-status"
	}
	t.recordWrite(op, r, g.Kind)

	return clone.DeepCopy(), nil
}

// Delete removes the object, returning its prior value, or NotFound.
func (t *Tracker) Delete(r gvk.GroupVersionResource, namespace, name string) (*unstructured.Unstructured, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ns := t.bucket(r, false)
	var bucket map[string]*unstructured.Unstructured
	if ns != nil {
		bucket = ns[namespaceKey(namespace)]
	}
	if bucket == nil {
		return nil, apierrors.NotFound(r.Resource, name)
	}
	obj, ok := bucket[name]
	if !ok {
		return nil, apierrors.NotFound(r.Resource, name)
	}
	delete(bucket, name)
	t.recordWrite("delete", r, obj.GetKind())
	return obj.DeepCopy(), nil
}

// List returns every object in (gvr, namespace). An empty namespace
// argument together with allNamespaces=true flattens across namespaces.
// An empty bucket returns an empty list, never NotFound.
func (t *Tracker) List(r gvk.GroupVersionResource, namespace string, allNamespaces bool) []*unstructured.Unstructured {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ns := t.bucket(r, false)
	if ns == nil {
		return nil
	}

	var out []*unstructured.Unstructured
	if allNamespaces {
		for _, bucket := range ns {
			for _, obj := range bucket {
				out = append(out, obj.DeepCopy())
			}
		}
		return out
	}

	for _, obj := range ns[namespaceKey(namespace)] {
		out = append(out, obj.DeepCopy())
	}
	return out
}

