package fixtures

import (
	"testing"
	"testing/fstest"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func TestLoadDirParsesMultiDocAndSingleDoc(t *testing.T) {
	fsys := fstest.MapFS{
		"pods.yaml": &fstest.MapFile{Data: []byte(`
apiVersion: v1
kind: Pod
metadata:
  name: a
---
apiVersion: v1
kind: Pod
metadata:
  name: b
  namespace: kube-system
`)},
		"configmap.yml": &fstest.MapFile{Data: []byte(`
apiVersion: v1
kind: ConfigMap
metadata:
  name: cfg
`)},
		"README.md": &fstest.MapFile{Data: []byte("not a fixture")},
	}

	docs, err := LoadDir(fsys, ".")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}

	// deterministic (filename, in-file-order): configmap.yml < pods.yaml
	if docs[0].Object.GetKind() != "ConfigMap" {
		t.Errorf("docs[0].Kind = %s, want ConfigMap (configmap.yml sorts before pods.yaml)", docs[0].Object.GetKind())
	}
	if docs[1].Object.GetName() != "a" || docs[2].Object.GetName() != "b" {
		t.Errorf("pod order = %s, %s, want a, b", docs[1].Object.GetName(), docs[2].Object.GetName())
	}
}

func TestLoadDirLeavesNamespaceAndTimestampUndefaulted(t *testing.T) {
	fsys := fstest.MapFS{
		"pod.yaml": &fstest.MapFile{Data: []byte(`
apiVersion: v1
kind: Pod
metadata:
  name: a
`)},
	}
	docs, err := LoadDir(fsys, ".")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if docs[0].Object.GetNamespace() != "" {
		t.Errorf("namespace = %q, want empty (LoadDir leaves defaulting to the caller)", docs[0].Object.GetNamespace())
	}
	if !docs[0].Object.GetCreationTimestamp().IsZero() {
		t.Error("creationTimestamp should not be stamped by LoadDir")
	}
}

func TestLoadDirPreservesExplicitNamespace(t *testing.T) {
	fsys := fstest.MapFS{
		"pod.yaml": &fstest.MapFile{Data: []byte(`
apiVersion: v1
kind: Pod
metadata:
  name: a
  namespace: kube-system
`)},
	}
	docs, err := LoadDir(fsys, ".")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if docs[0].Object.GetNamespace() != "kube-system" {
		t.Errorf("namespace = %q, want kube-system", docs[0].Object.GetNamespace())
	}
}

func TestDefaultSetsNamespaceAndTimestamp(t *testing.T) {
	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata":   map[string]interface{}{"name": "a"},
	}}
	Default(obj)
	if obj.GetNamespace() != "default" {
		t.Errorf("namespace = %q, want default", obj.GetNamespace())
	}
	if obj.GetCreationTimestamp().IsZero() {
		t.Error("creationTimestamp should be stamped")
	}
}

func TestDefaultPreservesExplicitNamespace(t *testing.T) {
	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata":   map[string]interface{}{"name": "a", "namespace": "kube-system"},
	}}
	Default(obj)
	if obj.GetNamespace() != "kube-system" {
		t.Errorf("namespace = %q, want kube-system", obj.GetNamespace())
	}
}

func TestDefaultTimestampLeavesNamespaceUntouched(t *testing.T) {
	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Node",
		"metadata":   map[string]interface{}{"name": "n1"},
	}}
	DefaultTimestamp(obj)
	if obj.GetNamespace() != "" {
		t.Errorf("namespace = %q, want empty for a cluster-scoped object", obj.GetNamespace())
	}
	if obj.GetCreationTimestamp().IsZero() {
		t.Error("creationTimestamp should be stamped")
	}
}

func TestLoadDirSkipsSubdirectoriesAndNonYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"pod.yaml":         &fstest.MapFile{Data: []byte("apiVersion: v1\nkind: Pod\nmetadata:\n  name: a\n")},
		"notes.txt":        &fstest.MapFile{Data: []byte("ignore me")},
		"nested/pod2.yaml": &fstest.MapFile{Data: []byte("apiVersion: v1\nkind: Pod\nmetadata:\n  name: nested\n")},
	}
	docs, err := LoadDir(fsys, ".")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1 (non-recursive, yaml-only)", len(docs))
	}
}

func TestLoadDirMissingDirectory(t *testing.T) {
	fsys := fstest.MapFS{}
	if _, err := LoadDir(fsys, "missing"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoadDirMalformedYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": &fstest.MapFile{Data: []byte("not: [valid")},
	}
	if _, err := LoadDir(fsys, "."); err == nil {
		t.Fatal("expected parse error for malformed YAML")
	}
}
