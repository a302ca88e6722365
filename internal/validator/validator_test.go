package validator

import (
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/kube-openapi/pkg/validation/spec"

	"github.com/otterscale/fakecluster/internal/gvk"
)

func widgetSchema() *spec.Schema {
	return &spec.Schema{
		SchemaProps: spec.SchemaProps{
			Type: spec.StringOrArray{"object"},
			Properties: map[string]spec.Schema{
				"spec": {
					SchemaProps: spec.SchemaProps{
						Type: spec.StringOrArray{"object"},
						Properties: map[string]spec.Schema{
							"size": {
								SchemaProps: spec.SchemaProps{
									Type: spec.StringOrArray{"integer"},
								},
							},
						},
						Required: []string{"size"},
					},
				},
			},
		},
	}
}

func TestValidatorNoSchemaIsNoOp(t *testing.T) {
	v := New()
	g := gvk.New("example.com", "v1", "Widget")
	obj := &unstructured.Unstructured{Object: map[string]interface{}{}}

	if v.Enabled(g) {
		t.Fatal("Enabled should be false before RegisterSchema")
	}
	if err := v.Validate(g, obj); err != nil {
		t.Errorf("Validate with no registered schema should be a no-op: %v", err)
	}
}

func TestValidatorRejectsMissingRequiredField(t *testing.T) {
	v := New()
	g := gvk.New("example.com", "v1", "Widget")
	v.RegisterSchema(g, widgetSchema())

	if !v.Enabled(g) {
		t.Fatal("Enabled should be true after RegisterSchema")
	}

	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"spec": map[string]interface{}{},
	}}
	if err := v.Validate(g, obj); err == nil {
		t.Fatal("expected validation error for missing required spec.size")
	}
}

func TestValidatorAcceptsValidObject(t *testing.T) {
	v := New()
	g := gvk.New("example.com", "v1", "Widget")
	v.RegisterSchema(g, widgetSchema())

	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"spec": map[string]interface{}{"size": int64(3)},
	}}
	if err := v.Validate(g, obj); err != nil {
		t.Errorf("expected valid object to pass: %v", err)
	}
}

func TestValidatorToleratesUnknownFields(t *testing.T) {
	v := New()
	g := gvk.New("example.com", "v1", "Widget")
	v.RegisterSchema(g, widgetSchema())

	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"spec":  map[string]interface{}{"size": int64(3)},
		"extra": "forward-compat field",
	}}
	if err := v.Validate(g, obj); err != nil {
		t.Errorf("unknown top-level fields should be tolerated: %v", err)
	}
}

func TestValidatorReRegisterInvalidatesCache(t *testing.T) {
	v := New()
	g := gvk.New("example.com", "v1", "Widget")
	v.RegisterSchema(g, widgetSchema())

	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"spec": map[string]interface{}{},
	}}
	if err := v.Validate(g, obj); err == nil {
		t.Fatal("expected initial validation failure")
	}

	// Re-register with a permissive schema; cached validator must not stick.
	permissive := &spec.Schema{SchemaProps: spec.SchemaProps{Type: spec.StringOrArray{"object"}}}
	v.RegisterSchema(g, permissive)

	if err := v.Validate(g, obj); err != nil {
		t.Errorf("re-registered schema should replace the cached validator: %v", err)
	}
}
