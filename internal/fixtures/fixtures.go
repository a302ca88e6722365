// Package fixtures loads YAML fixture directories: single- or
// multi-document files, each document a Kubernetes object, ready for the
// builder's seed path to default and stamp before storing.
package fixtures

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
)

// Document is one fixture object plus the file it came from, for error
// reporting.
type Document struct {
	Source string
	Object *unstructured.Unstructured
}

// LoadDir reads every .yaml/.yml file directly under dir (non-recursive)
// and returns the decoded documents in deterministic (filename,
// in-file-order) order. Namespace/timestamp defaulting is left to the
// caller, which knows whether each document's kind is cluster-scoped.
func LoadDir(dirFS fs.FS, dir string) ([]Document, error) {
	entries, err := fs.ReadDir(dirFS, dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []Document
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := fs.ReadFile(dirFS, path)
		if err != nil {
			return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
		}
		objs, err := parseMultiDoc(data)
		if err != nil {
			return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
		}
		for _, obj := range objs {
			docs = append(docs, Document{Source: path, Object: obj})
		}
	}
	return docs, nil
}

// Default fills the two server-side fields a namespaced fixture object
// gets if absent: a missing namespace defaults to "default", and a
// missing creationTimestamp is stamped with now. Cluster-scoped objects
// must not go through this path; use DefaultTimestamp for those instead.
func Default(obj *unstructured.Unstructured) {
	if obj.GetNamespace() == "" {
		obj.SetNamespace("default")
	}
	DefaultTimestamp(obj)
}

// DefaultTimestamp stamps a missing creationTimestamp with now, without
// touching namespace. Used for cluster-scoped objects, where namespace
// must stay empty.
func DefaultTimestamp(obj *unstructured.Unstructured) {
	if obj.GetCreationTimestamp().IsZero() {
		obj.SetCreationTimestamp(metav1.Now())
	}
}

// parseMultiDoc splits a possibly multi-document ("---"-separated) YAML
// byte slice into individual unstructured objects, skipping empty
// documents.
func parseMultiDoc(data []byte) ([]*unstructured.Unstructured, error) {
	var objects []*unstructured.Unstructured

	decoder := utilyaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), 4096)
	for {
		obj := &unstructured.Unstructured{}
		if err := decoder.Decode(obj); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if len(obj.Object) == 0 {
			continue
		}
		objects = append(objects, obj)
	}
	return objects, nil
}
