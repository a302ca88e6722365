// Package validator implements optional OpenAPI schema validation: schemas
// are compiled lazily on first validation of a GVK and cached, using
// k8s.io/kube-openapi's validation package.
package validator

import (
	"strings"
	"sync"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/kube-openapi/pkg/validation/spec"
	"k8s.io/kube-openapi/pkg/validation/strfmt"
	"k8s.io/kube-openapi/pkg/validation/validate"

	"github.com/otterscale/fakecluster/internal/apierrors"
	"github.com/otterscale/fakecluster/internal/gvk"
)

// Validator lazily compiles and caches a validate.SchemaValidator per GVK.
// Validation is opt-in: a GVK with no registered schema is never checked.
type Validator struct {
	mu       sync.Mutex
	schemas  map[gvk.GroupVersionKind]*spec.Schema
	compiled map[gvk.GroupVersionKind]*validate.SchemaValidator
}

// New returns an empty Validator. Use RegisterSchema to opt a GVK in.
func New() *Validator {
	return &Validator{
		schemas:  make(map[gvk.GroupVersionKind]*spec.Schema),
		compiled: make(map[gvk.GroupVersionKind]*validate.SchemaValidator),
	}
}

// RegisterSchema opts g into validation against schema. Compilation is
// deferred to the first call to Validate for this GVK.
func (v *Validator) RegisterSchema(g gvk.GroupVersionKind, schema *spec.Schema) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.schemas[g] = schema
	delete(v.compiled, g)
}

// Enabled reports whether g has a registered schema.
func (v *Validator) Enabled(g gvk.GroupVersionKind) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.schemas[g]
	return ok
}

// Validate checks obj against g's registered schema, compiling and
// caching the validator on first use. It is a no-op (nil error) if g has
// no registered schema. Unknown fields are tolerated, matching Kubernetes'
// forward-compatibility behavior.
func (v *Validator) Validate(g gvk.GroupVersionKind, obj *unstructured.Unstructured) error {
	validator, ok := v.compiledValidator(g)
	if !ok {
		return nil
	}

	result := validator.Validate(obj.Object)
	if result == nil || result.IsValid() {
		return nil
	}

	var messages []string
	for _, e := range result.Errors {
		messages = append(messages, e.Error())
	}
	return apierrors.ValidationFailed(g.Kind, strings.Join(messages, "; "))
}

func (v *Validator) compiledValidator(g gvk.GroupVersionKind) (*validate.SchemaValidator, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if sv, ok := v.compiled[g]; ok {
		return sv, true
	}
	schema, ok := v.schemas[g]
	if !ok {
		return nil, false
	}
	sv := validate.NewSchemaValidator(schema, nil, "", strfmt.Default)
	v.compiled[g] = sv
	return sv, true
}
