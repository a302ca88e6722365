// Package httpapi is the HTTP dispatch layer: it parses Kubernetes REST
// URLs, maps HTTP methods to tracker operations while honoring selectors,
// patch semantics, and verb support, and renders wire responses
// byte-compatible with a real API server's error taxonomy.
package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/otterscale/fakecluster/internal/apierrors"
	"github.com/otterscale/fakecluster/internal/discovery"
	"github.com/otterscale/fakecluster/internal/gvk"
	"github.com/otterscale/fakecluster/internal/immutability"
	"github.com/otterscale/fakecluster/internal/interceptor"
	"github.com/otterscale/fakecluster/internal/selectors"
	"github.com/otterscale/fakecluster/internal/tracker"
	"github.com/otterscale/fakecluster/internal/validator"
)

// Dispatcher is the http.Handler implementing the full wire contract.
// Construct one via fakecluster.Builder.Build(), not directly.
type Dispatcher struct {
	Tracker            *tracker.Tracker
	Discovery          *discovery.Facade
	Fields             *selectors.FieldIndex
	Immutable          *immutability.Table
	Validator          *validator.Validator
	Hooks              *interceptor.Hooks
	StripManagedFields bool
	Logger             *slog.Logger
}

var _ http.Handler = (*Dispatcher)(nil)

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// ServeHTTP implements http.Handler. It never panics on malformed input:
// every rejection path renders a Kubernetes Status error body.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, err := parsePath(r.URL.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	gvr := gvk.NewResource(p.group, p.version, p.plural)
	desc, err := d.Discovery.Descriptor(gvr)
	if err != nil {
		writeError(w, err)
		return
	}

	o, err := classify(r.Method, p.hasName, p.hasSub, p.sub)
	if err != nil {
		writeError(w, err)
		return
	}

	if !desc.SupportsVerb(o.discoveryVerb) {
		writeError(w, apierrors.VerbNotSupported(desc.GVK.Kind, o.discoveryVerb))
		return
	}

	ctx := request{
		desc:      desc,
		namespace: p.namespace,
		name:      p.name,
		query:     r.URL.Query(),
	}

	if d.runHook(w, r, o, ctx) {
		return
	}

	d.logger().Debug("dispatch", "verb", string(o.hookVerb), "gvr", gvr.String(), "namespace", p.namespace, "name", p.name)

	switch o.hookVerb {
	case interceptor.VerbList:
		d.handleList(w, ctx)
	case interceptor.VerbGet:
		d.handleGet(w, ctx, false)
	case interceptor.VerbGetStatus:
		d.handleGet(w, ctx, true)
	case interceptor.VerbCreate:
		d.handleCreate(w, r, ctx)
	case interceptor.VerbReplace:
		d.handleReplace(w, r, ctx, false)
	case interceptor.VerbReplaceStatus:
		d.handleReplace(w, r, ctx, true)
	case interceptor.VerbPatch:
		d.handlePatch(w, r, ctx, false)
	case interceptor.VerbPatchStatus:
		d.handlePatch(w, r, ctx, true)
	case interceptor.VerbDelete:
		d.handleDelete(w, ctx)
	case interceptor.VerbDeleteColl:
		d.handleDeleteCollection(w, ctx)
	default:
		writeError(w, apierrors.Internal("unhandled verb"))
	}
}

// request bundles the per-request coordinates every handler needs.
type request struct {
	desc      discovery.Descriptor
	namespace string
	name      string
	query     map[string][]string
}

func (req request) queryGet(key string) string {
	vals := req.query[key]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// op is the resolved (discovery-gate verb, hook verb) pair for a request.
type op struct {
	discoveryVerb string
	hookVerb      interceptor.Verb
}

// classify maps (method, hasName, sub) to the discovery-gate verb and the
// interceptor hook verb.
func classify(method string, hasName, hasSub bool, sub string) (op, error) {
	isStatus := hasSub && sub == "status"
	if hasSub && !isStatus {
		return op{}, apierrors.Invalid("unsupported subresource: " + sub)
	}

	switch method {
	case http.MethodGet:
		if !hasName {
			return op{discoveryVerb: "list", hookVerb: interceptor.VerbList}, nil
		}
		if isStatus {
			return op{discoveryVerb: "get", hookVerb: interceptor.VerbGetStatus}, nil
		}
		return op{discoveryVerb: "get", hookVerb: interceptor.VerbGet}, nil
	case http.MethodPost:
		if hasName {
			return op{}, apierrors.Invalid("POST does not take a resource name")
		}
		return op{discoveryVerb: "create", hookVerb: interceptor.VerbCreate}, nil
	case http.MethodPut:
		if !hasName {
			return op{}, apierrors.Invalid("PUT requires a resource name")
		}
		if isStatus {
			return op{discoveryVerb: "update", hookVerb: interceptor.VerbReplaceStatus}, nil
		}
		return op{discoveryVerb: "update", hookVerb: interceptor.VerbReplace}, nil
	case http.MethodPatch:
		if !hasName {
			return op{}, apierrors.Invalid("PATCH requires a resource name")
		}
		if isStatus {
			return op{discoveryVerb: "patch", hookVerb: interceptor.VerbPatchStatus}, nil
		}
		return op{discoveryVerb: "patch", hookVerb: interceptor.VerbPatch}, nil
	case http.MethodDelete:
		if hasName {
			return op{discoveryVerb: "delete", hookVerb: interceptor.VerbDelete}, nil
		}
		return op{discoveryVerb: "deletecollection", hookVerb: interceptor.VerbDeleteColl}, nil
	default:
		return op{}, apierrors.Invalid("unsupported method: " + method)
	}
}

// runHook invokes the registered interceptor, if any, and renders its
// result directly. It returns true if the request was fully handled by
// the hook (override or error), false if the dispatcher should continue
// with the default path (fallthrough or no hook registered).
func (d *Dispatcher) runHook(w http.ResponseWriter, r *http.Request, o op, ctx request) bool {
	if d.Hooks == nil {
		return false
	}
	if _, ok := d.Hooks.Get(o.hookVerb); !ok {
		return false
	}

	var body map[string]interface{}
	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		data, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(data))
		_ = json.Unmarshal(data, &body)
	}
	params := make(map[string]string, len(ctx.query))
	for k, v := range ctx.query {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	result := d.Hooks.Invoke(r.Context(), o.hookVerb, interceptor.Request{
		Namespace: ctx.namespace,
		Name:      ctx.name,
		Object:    body,
		Params:    params,
	})

	switch result.Outcome {
	case interceptor.Override:
		if result.List != nil {
			writeList(w, ctx.desc.GVK.GroupVersion().String(), ctx.desc.GVK.Kind, "", listToPointers(result.List))
			return true
		}
		status := http.StatusOK
		if o.hookVerb == interceptor.VerbCreate {
			status = http.StatusCreated
		}
		writeObject(w, status, result.Value)
		return true
	case interceptor.Error:
		writeError(w, result.Err)
		return true
	default: // Fallthrough
		return false
	}
}

func listToPointers(list *unstructured.UnstructuredList) []*unstructured.Unstructured {
	out := make([]*unstructured.Unstructured, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, &list.Items[i])
	}
	return out
}

func parseLimit(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
