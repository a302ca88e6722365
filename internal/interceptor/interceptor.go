// Package interceptor implements the per-verb hook pipeline: a small
// closed set of hooks modeled as a record of optional function values
// rather than an inheritance hierarchy, with each hook's outcome expressed
// as a three-valued Result.
package interceptor

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Verb enumerates the dispatcher operations a hook may intercept.
type Verb string

const (
	VerbCreate        Verb = "create"
	VerbGet           Verb = "get"
	VerbList          Verb = "list"
	VerbUpdate        Verb = "update"
	VerbReplace       Verb = "replace"
	VerbPatch         Verb = "patch"
	VerbDelete        Verb = "delete"
	VerbDeleteColl    Verb = "delete-collection"
	VerbWatch         Verb = "watch"
	VerbGetStatus     Verb = "get-status"
	VerbPatchStatus   Verb = "patch-status"
	VerbReplaceStatus Verb = "replace-status"
)

// Request carries everything a hook needs to decide an override,
// fallthrough, or error outcome.
type Request struct {
	Cluster   string
	Namespace string
	Name      string
	// Object is the incoming object body for create/update/replace, or
	// the patch body for patch when that body is a JSON object (a JSON
	// Patch array or a YAML body leaves it nil). Nil for
	// get/list/delete/watch.
	Object map[string]interface{}
	// Params carries query parameters (labelSelector, fieldSelector,
	// limit, continue, …) for list/delete-collection/watch.
	Params map[string]string
}

// Outcome is the three-valued result a hook returns.
type Outcome int

const (
	// Fallthrough tells the dispatcher to run its default path.
	Fallthrough Outcome = iota
	// Override tells the dispatcher to return Value instead of running
	// the default path.
	Override
	// Error tells the dispatcher to translate Err into the appropriate
	// HTTP error response.
	Error
)

// Result is what a Hook function returns.
type Result struct {
	Outcome Outcome
	Value   *unstructured.Unstructured
	List    *unstructured.UnstructuredList
	Err     error
}

// Forward is the Fallthrough result, the common case.
func Forward() Result { return Result{Outcome: Fallthrough} }

// With returns an Override result carrying a single object.
func With(obj *unstructured.Unstructured) Result {
	return Result{Outcome: Override, Value: obj}
}

// WithList returns an Override result carrying a list.
func WithList(list *unstructured.UnstructuredList) Result {
	return Result{Outcome: Override, List: list}
}

// Fail returns an Error result.
func Fail(err error) Result {
	return Result{Outcome: Error, Err: err}
}

// Hook is a single verb's interceptor function. Hooks are synchronous,
// may call back into the client for nested operations, and must be safe
// for concurrent use.
type Hook func(ctx context.Context, req Request) Result

// Hooks is the per-verb record the builder assembles. A nil entry means
// no interceptor is registered for that verb and the dispatcher runs the
// default path directly without calling into this package.
type Hooks struct {
	byVerb map[Verb]Hook
}

// NewHooks returns an empty Hooks record.
func NewHooks() *Hooks {
	return &Hooks{byVerb: make(map[Verb]Hook)}
}

// Register sets the hook for verb, replacing any previous registration.
func (h *Hooks) Register(verb Verb, hook Hook) {
	h.byVerb[verb] = hook
}

// Get returns the hook registered for verb, if any.
func (h *Hooks) Get(verb Verb) (Hook, bool) {
	hook, ok := h.byVerb[verb]
	return hook, ok
}

// Invoke runs the hook for verb if one is registered, otherwise returns
// Forward(). This is the single call site the dispatcher uses so verb
// lookup and the no-hook-registered default live in one place.
func (h *Hooks) Invoke(ctx context.Context, verb Verb, req Request) Result {
	hook, ok := h.byVerb[verb]
	if !ok {
		return Forward()
	}
	return hook(ctx, req)
}

// Watch invokes the registered watch hook, if any, and returns the
// snapshot list it produces. There is no streaming channel: watch is a
// seam for test authors to hand back a point-in-time list, not a
// long-lived subscription. ok is false if no watch hook is registered or
// the hook did not return an Override list.
func (h *Hooks) Watch(ctx context.Context, req Request) (list *unstructured.UnstructuredList, ok bool) {
	hook, registered := h.byVerb[VerbWatch]
	if !registered {
		return nil, false
	}
	result := hook(ctx, req)
	if result.Outcome != Override || result.List == nil {
		return nil, false
	}
	return result.List, true
}
