// Package fakecluster assembles the object tracker, discovery facade,
// selectors, patch engine, immutability enforcer, optional OpenAPI
// validator, and interceptor pipeline into a single in-process HTTP
// handler. Construct one with New, configure it with the fluent With*
// methods, and call Build to get a http.Handler ready to back a typed
// client's transport.
package fakecluster

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/kube-openapi/pkg/validation/spec"

	"github.com/otterscale/fakecluster/internal/discovery"
	"github.com/otterscale/fakecluster/internal/fixtures"
	"github.com/otterscale/fakecluster/internal/gvk"
	"github.com/otterscale/fakecluster/internal/httpapi"
	"github.com/otterscale/fakecluster/internal/immutability"
	"github.com/otterscale/fakecluster/internal/interceptor"
	"github.com/otterscale/fakecluster/internal/metrics"
	"github.com/otterscale/fakecluster/internal/registry"
	"github.com/otterscale/fakecluster/internal/selectors"
	"github.com/otterscale/fakecluster/internal/tracker"
	"github.com/otterscale/fakecluster/internal/validator"
)

// Builder assembles a Cluster. The zero value is not usable; construct
// with New.
type Builder struct {
	tracker   *tracker.Tracker
	registry  *registry.Registry
	facade    *discovery.Facade
	fields    *selectors.FieldIndex
	immutable *immutability.Table
	validator *validator.Validator
	hooks     *interceptor.Hooks
	logger    *slog.Logger
	metrics   *metrics.Metrics

	stripManagedFields bool
	errs               []error
}

// New returns an empty Builder with no seeded objects, no interceptors,
// and validation disabled for every kind.
func New() *Builder {
	reg := registry.New()
	return &Builder{
		tracker:   tracker.New(),
		registry:  reg,
		facade:    discovery.NewFacade(reg),
		fields:    selectors.NewFieldIndex(),
		immutable: immutability.NewTable(),
		validator: validator.New(),
		hooks:     interceptor.NewHooks(),
	}
}

// WithLogger sets the structured logger the dispatcher uses for request
// tracing. Defaults to slog.Default() if never called.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithObjects seeds each object via the tracker's add path: the caller's
// resourceVersion is preserved if set, namespace defaults to "default" if
// absent (unless the GVK is cluster-scoped, in which case it is always
// cleared), and creationTimestamp is stamped if missing. The GVK is read
// from the object's own apiVersion/kind.
func (b *Builder) WithObjects(objs ...*unstructured.Unstructured) *Builder {
	for _, obj := range objs {
		b.seed(obj)
	}
	return b
}

// WithTypedObjects seeds objects supplied as typed API structs (e.g.
// k8s.io/api/core/v1.Pod) rather than unstructured.Unstructured. Each
// object is converted via runtime.DefaultUnstructuredConverter and must
// carry an explicit TypeMeta (apiVersion/kind): unlike a real clientset,
// this builder has no scheme to derive one from. Seeding then proceeds
// exactly as WithObjects does.
func (b *Builder) WithTypedObjects(objs ...runtime.Object) *Builder {
	for _, obj := range objs {
		m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
		if err != nil {
			b.errs = append(b.errs, err)
			continue
		}
		u := &unstructured.Unstructured{Object: m}
		if u.GetKind() == "" || u.GetAPIVersion() == "" {
			b.errs = append(b.errs, errors.New("WithTypedObjects: object is missing apiVersion/kind"))
			continue
		}
		b.seed(u)
	}
	return b
}

func (b *Builder) seed(obj *unstructured.Unstructured) {
	g := obj.GroupVersionKind()
	namespaced, err := b.facade.IsNamespaced(g)
	if err != nil {
		b.errs = append(b.errs, err)
		return
	}
	if namespaced {
		fixtures.Default(obj)
	} else {
		obj.SetNamespace("")
		fixtures.DefaultTimestamp(obj)
	}

	gvr, err := b.facade.GVKToGVR(g)
	if err != nil {
		b.errs = append(b.errs, err)
		return
	}
	namespace := obj.GetNamespace()
	if err := b.tracker.Add(gvr, g, obj, namespace); err != nil {
		b.errs = append(b.errs, err)
	}
}

// WithStatusSubresource opts g into status-subresource isolation ahead of
// any write. Always takes priority over the tracker's own
// auto-enable-on-first-write behavior.
func (b *Builder) WithStatusSubresource(g gvk.GroupVersionKind) *Builder {
	b.tracker.EnableStatusSubresource(g)
	return b
}

// WithCRD registers a CustomResourceDefinition's served versions with the
// resource registry.
func (b *Builder) WithCRD(crd *apiextensionsv1.CustomResourceDefinition) *Builder {
	if err := b.registry.RegisterCRD(crd); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// WithFieldIndex registers an additional field-selector extractor for g,
// alongside whatever indexes are already registered for that GVK.
func (b *Builder) WithFieldIndex(g gvk.GroupVersionKind, field string, extractor selectors.Extractor) *Builder {
	b.fields.Register(g, field, extractor)
	return b
}

// WithImmutableTopLevelField marks field as immutable at the top level of
// objects of kind g, in addition to the fixed ObjectMeta floor and the
// always-immutable apiVersion/kind.
func (b *Builder) WithImmutableTopLevelField(g gvk.GroupVersionKind, field string) *Builder {
	b.immutable.RegisterTopLevel(g, field)
	return b
}

// WithImmutableSpecField marks field as immutable under spec for kind g.
func (b *Builder) WithImmutableSpecField(g gvk.GroupVersionKind, field string) *Builder {
	b.immutable.RegisterSpecField(g, field)
	return b
}

// WithManagedFieldsStripping toggles read-time removal of
// metadata.managedFields from every response.
func (b *Builder) WithManagedFieldsStripping(strip bool) *Builder {
	b.stripManagedFields = strip
	return b
}

// WithInterceptor registers a per-verb hook.
func (b *Builder) WithInterceptor(verb interceptor.Verb, hook interceptor.Hook) *Builder {
	b.hooks.Register(verb, hook)
	return b
}

// WithOpenAPISchema opts g into OpenAPI validation against schema.
// Compilation is deferred to the first write of this GVK.
func (b *Builder) WithOpenAPISchema(g gvk.GroupVersionKind, schema *spec.Schema) *Builder {
	b.validator.RegisterSchema(g, schema)
	return b
}

// WithMetrics opts the tracker into the optional prometheus counter/gauge
// set, registering it against reg. Purely ambient observability; nothing
// else depends on it being called.
func (b *Builder) WithMetrics(reg prometheus.Registerer) *Builder {
	b.metrics = metrics.New(reg)
	b.tracker.SetMetrics(b.metrics)
	return b
}

// LoadFixtures loads every .yaml/.yml file directly under dir in dirFS and
// seeds the decoded documents via the same path WithObjects uses.
func (b *Builder) LoadFixtures(dirFS fs.FS, dir string) *Builder {
	docs, err := fixtures.LoadDir(dirFS, dir)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	for _, doc := range docs {
		b.seed(doc.Object)
	}
	return b
}

// Build assembles the configured components into a Cluster. It returns
// every accumulated configuration/seed error joined together; a non-nil
// error means the returned Cluster (if any) should not be used.
func (b *Builder) Build() (*Cluster, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	dispatcher := &httpapi.Dispatcher{
		Tracker:            b.tracker,
		Discovery:          b.facade,
		Fields:             b.fields,
		Immutable:          b.immutable,
		Validator:          b.validator,
		Hooks:              b.hooks,
		StripManagedFields: b.stripManagedFields,
		Logger:             b.logger,
	}

	return &Cluster{
		Handler:   dispatcher,
		Tracker:   b.tracker,
		Discovery: b.facade,
	}, nil
}
