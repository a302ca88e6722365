package fakecluster

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	corev1 "k8s.io/api/core/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/otterscale/fakecluster/internal/gvk"
	"github.com/otterscale/fakecluster/internal/interceptor"
)

func pod(name string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata":   map[string]interface{}{"name": name},
	}}
}

func jsonReader(obj *unstructured.Unstructured) *bytes.Reader {
	data, err := json.Marshal(obj.Object)
	if err != nil {
		panic(err)
	}
	return bytes.NewReader(data)
}

func jsonBody(s string) *bytes.Reader {
	return bytes.NewReader([]byte(s))
}

func decodeResponse(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode response %s: %v", data, err)
	}
	return m
}

func getResourceVersion(t *testing.T, c *Cluster, path string) string {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	c.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: status = %d, body %s", path, w.Code, w.Body.String())
	}
	body := decodeResponse(t, w.Body.Bytes())
	return body["metadata"].(map[string]interface{})["resourceVersion"].(string)
}

func TestBuildWithNoConfigurationSucceeds(t *testing.T) {
	c, err := New().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Handler == nil || c.Tracker == nil || c.Discovery == nil {
		t.Fatal("Build returned a Cluster with a nil component")
	}
}

func TestWithObjectsSeedsTracker(t *testing.T) {
	c, err := New().WithObjects(pod("a")).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/namespaces/default/pods/a", nil)
	w := httptest.NewRecorder()
	c.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestWithObjectsUnresolvableGVKAccumulatesError(t *testing.T) {
	bogus := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "bogus.io/v1",
		"kind":       "Widget",
		"metadata":   map[string]interface{}{"name": "w"},
	}}
	_, err := New().WithObjects(bogus).Build()
	if err == nil {
		t.Fatal("expected Build to report the unresolvable GVK")
	}
}

func TestWithObjectsClusterScopedObjectReachableWithoutNamespace(t *testing.T) {
	node := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Node",
		"metadata":   map[string]interface{}{"name": "n1"},
	}}
	c, err := New().WithObjects(node).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/nodes/n1", nil)
	w := httptest.NewRecorder()
	c.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/nodes/n1: status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeResponse(t, w.Body.Bytes())
	if ns, ok := body["metadata"].(map[string]interface{})["namespace"]; ok {
		t.Errorf("a cluster-scoped object should not carry a namespace, got %v", ns)
	}
}

func TestWithTypedObjectsSeedsTracker(t *testing.T) {
	typedPod := &corev1.Pod{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Pod"},
		ObjectMeta: metav1.ObjectMeta{Name: "a", Namespace: "kube-system"},
		Spec:       corev1.PodSpec{NodeName: "n1"},
	}
	c, err := New().WithTypedObjects(typedPod).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/namespaces/kube-system/pods/a", nil)
	w := httptest.NewRecorder()
	c.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeResponse(t, w.Body.Bytes())
	spec := body["spec"].(map[string]interface{})
	if spec["nodeName"] != "n1" {
		t.Errorf("spec.nodeName = %v, want n1", spec["nodeName"])
	}
}

func TestWithTypedObjectsMissingTypeMetaAccumulatesError(t *testing.T) {
	typedPod := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "a"}}
	_, err := New().WithTypedObjects(typedPod).Build()
	if err == nil {
		t.Fatal("expected Build to report the missing apiVersion/kind")
	}
}

func TestWithCRDRegistersCustomResource(t *testing.T) {
	crd := &apiextensionsv1.CustomResourceDefinition{
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: "example.io",
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Plural: "widgets",
				Kind:   "Widget",
			},
			Scope: apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{
				{Name: "v1", Served: true, Storage: true},
			},
		},
	}

	widget := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "example.io/v1",
		"kind":       "Widget",
		"metadata":   map[string]interface{}{"name": "w", "namespace": "default"},
	}}

	c, err := New().WithCRD(crd).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/apis/example.io/v1/namespaces/default/widgets", jsonReader(widget))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.ServeHTTP(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("create widget status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestWithCRDNilAccumulatesError(t *testing.T) {
	_, err := New().WithCRD(nil).Build()
	if err == nil {
		t.Fatal("expected Build to report the nil CRD")
	}
}

func TestWithStatusSubresourceTakesPriority(t *testing.T) {
	podGVK := gvk.New("", "v1", "Pod")
	c, err := New().WithStatusSubresource(podGVK).WithObjects(pod("a")).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rv := getResourceVersion(t, c, "/api/v1/namespaces/default/pods/a")
	body := `{"apiVersion":"v1","kind":"Pod","metadata":{"name":"a","resourceVersion":"` + rv + `"},"status":{"phase":"Running"}}`
	r := httptest.NewRequest(http.MethodPut, "/api/v1/namespaces/default/pods/a", jsonBody(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	updated := decodeResponse(t, w.Body.Bytes())
	if status, ok := updated["status"].(map[string]interface{}); ok && status["phase"] == "Running" {
		t.Errorf("status.phase should not be written through the spec-path PUT when the isolation was pre-enabled, got %+v", updated["status"])
	}
}

func TestWithImmutableSpecFieldRejectsChange(t *testing.T) {
	podGVK := gvk.New("", "v1", "Pod")
	seed := pod("a")
	seed.Object["spec"] = map[string]interface{}{"nodeName": "n1"}

	c, err := New().WithImmutableSpecField(podGVK, "nodeName").WithObjects(seed).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rv := getResourceVersion(t, c, "/api/v1/namespaces/default/pods/a")
	body := `{"apiVersion":"v1","kind":"Pod","metadata":{"name":"a","resourceVersion":"` + rv + `"},"spec":{"nodeName":"n2"}}`
	r := httptest.NewRequest(http.MethodPut, "/api/v1/namespaces/default/pods/a", jsonBody(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.ServeHTTP(w, r)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", w.Code, w.Body.String())
	}
}

func TestWithInterceptorOverridesCreate(t *testing.T) {
	called := false
	hook := func(ctx context.Context, req interceptor.Request) interceptor.Result {
		called = true
		return interceptor.With(pod(req.Name))
	}
	c, err := New().WithInterceptor(interceptor.VerbCreate, hook).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/namespaces/default/pods", jsonReader(pod("a")))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.ServeHTTP(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !called {
		t.Error("registered create hook was never invoked")
	}
}

func TestWithManagedFieldsStrippingRemovesField(t *testing.T) {
	seed := pod("a")
	seed.Object["metadata"].(map[string]interface{})["managedFields"] = []interface{}{map[string]interface{}{"manager": "kubectl"}}

	c, err := New().WithManagedFieldsStripping(true).WithObjects(seed).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/namespaces/default/pods/a", nil)
	w := httptest.NewRecorder()
	c.ServeHTTP(w, r)
	body := decodeResponse(t, w.Body.Bytes())
	if _, ok := body["metadata"].(map[string]interface{})["managedFields"]; ok {
		t.Error("managedFields should have been stripped from the response")
	}
}

func TestClusterSatisfiesHTTPHandler(t *testing.T) {
	var _ http.Handler = (*Cluster)(nil)
}
