package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/otterscale/fakecluster/internal/apierrors"
	"github.com/otterscale/fakecluster/internal/patch"
	"github.com/otterscale/fakecluster/internal/selectors"
)

func decodeBody(r *http.Request) (*unstructured.Unstructured, []byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, apierrors.SerializationFailed(err.Error())
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, apierrors.SerializationFailed(err.Error())
	}
	return &unstructured.Unstructured{Object: m}, data, nil
}

func (d *Dispatcher) stripManagedFields(obj *unstructured.Unstructured) {
	if !d.StripManagedFields {
		return
	}
	meta, found, _ := unstructured.NestedMap(obj.Object, "metadata")
	if !found {
		return
	}
	delete(meta, "managedFields")
	_ = unstructured.SetNestedMap(obj.Object, meta, "metadata")
}

func (d *Dispatcher) handleList(w http.ResponseWriter, ctx request) {
	sel := ctx.queryGet("labelSelector")
	labelSel, err := selectors.ParseLabelSelector(sel)
	if err != nil {
		writeError(w, err)
		return
	}

	fieldSel := ctx.queryGet("fieldSelector")

	allNamespaces := ctx.namespace == ""
	items := d.Tracker.List(ctx.desc.GVR, ctx.namespace, allNamespaces)

	var limit int64
	var hasLimit bool
	if l, ok := parseLimit(ctx.queryGet("limit")); ok {
		limit, hasLimit = l, true
	}

	out := make([]*unstructured.Unstructured, 0, len(items))
	for _, obj := range items {
		if !selectors.MatchesLabels(labelSel, obj) {
			continue
		}
		if fieldSel != "" {
			matched, err := d.Fields.MatchesFieldSelector(ctx.desc.GVK, ctx.desc.GVK.Kind, fieldSel, obj)
			if err != nil {
				writeError(w, err)
				return
			}
			if !matched {
				continue
			}
		}
		d.stripManagedFields(obj)
		out = append(out, obj)
		if hasLimit && int64(len(out)) >= limit {
			break
		}
	}

	writeList(w, ctx.desc.GVK.GroupVersion().String(), ctx.desc.GVK.Kind, "1", out)
}

func (d *Dispatcher) handleGet(w http.ResponseWriter, ctx request, isStatus bool) {
	obj, err := d.Tracker.Get(ctx.desc.GVR, ctx.namespace, ctx.name)
	if err != nil {
		writeError(w, err)
		return
	}
	d.stripManagedFields(obj)
	writeObject(w, http.StatusOK, obj)
	_ = isStatus // GET /status returns the same document; isolation is enforced on writes.
}

func (d *Dispatcher) handleCreate(w http.ResponseWriter, r *http.Request, ctx request) {
	obj, _, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := d.Validator.Validate(ctx.desc.GVK, obj); err != nil {
		writeError(w, err)
		return
	}

	created, err := d.Tracker.Create(ctx.desc.GVR, ctx.desc.GVK, obj, ctx.namespace)
	if err != nil {
		writeError(w, err)
		return
	}
	d.stripManagedFields(created)
	writeObject(w, http.StatusCreated, created)
}

func (d *Dispatcher) handleReplace(w http.ResponseWriter, r *http.Request, ctx request, isStatus bool) {
	obj, _, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if obj.GetNamespace() == "" {
		obj.SetNamespace(ctx.namespace)
	}

	existing, err := d.Tracker.Get(ctx.desc.GVR, ctx.namespace, ctx.name)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := d.Immutable.Check(ctx.desc.GVK, existing, obj); err != nil {
		writeError(w, err)
		return
	}
	if err := d.Validator.Validate(ctx.desc.GVK, obj); err != nil {
		writeError(w, err)
		return
	}

	updated, err := d.Tracker.Update(ctx.desc.GVR, ctx.desc.GVK, obj, ctx.namespace, isStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	d.stripManagedFields(updated)
	writeObject(w, http.StatusOK, updated)
}

func (d *Dispatcher) handlePatch(w http.ResponseWriter, r *http.Request, ctx request, isStatus bool) {
	existing, err := d.Tracker.Get(ctx.desc.GVR, ctx.namespace, ctx.name)
	if err != nil {
		writeError(w, err)
		return
	}

	patchData, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apierrors.SerializationFailed(err.Error()))
		return
	}

	currentJSON, err := json.Marshal(existing.Object)
	if err != nil {
		writeError(w, apierrors.Internal(err.Error()))
		return
	}

	mergedJSON, err := patch.Apply(r.Header.Get("Content-Type"), currentJSON, patchData)
	if err != nil {
		writeError(w, err)
		return
	}

	var mergedMap map[string]interface{}
	if err := json.Unmarshal(mergedJSON, &mergedMap); err != nil {
		writeError(w, apierrors.SerializationFailed(err.Error()))
		return
	}
	merged := &unstructured.Unstructured{Object: mergedMap}

	if err := d.Immutable.Check(ctx.desc.GVK, existing, merged); err != nil {
		writeError(w, err)
		return
	}
	if err := d.Validator.Validate(ctx.desc.GVK, merged); err != nil {
		writeError(w, err)
		return
	}

	updated, err := d.Tracker.Update(ctx.desc.GVR, ctx.desc.GVK, merged, ctx.namespace, isStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	d.stripManagedFields(updated)
	writeObject(w, http.StatusOK, updated)
}

func (d *Dispatcher) handleDelete(w http.ResponseWriter, ctx request) {
	deleted, err := d.Tracker.Delete(ctx.desc.GVR, ctx.namespace, ctx.name)
	if err != nil {
		writeError(w, err)
		return
	}
	d.stripManagedFields(deleted)
	writeObject(w, http.StatusOK, deleted)
}

func (d *Dispatcher) handleDeleteCollection(w http.ResponseWriter, ctx request) {
	sel := ctx.queryGet("labelSelector")
	labelSel, err := selectors.ParseLabelSelector(sel)
	if err != nil {
		writeError(w, err)
		return
	}
	fieldSel := ctx.queryGet("fieldSelector")

	allNamespaces := ctx.namespace == ""
	items := d.Tracker.List(ctx.desc.GVR, ctx.namespace, allNamespaces)

	deleted := 0
	for _, obj := range items {
		if !selectors.MatchesLabels(labelSel, obj) {
			continue
		}
		if fieldSel != "" {
			matched, err := d.Fields.MatchesFieldSelector(ctx.desc.GVK, ctx.desc.GVK.Kind, fieldSel, obj)
			if err != nil {
				writeError(w, err)
				return
			}
			if !matched {
				continue
			}
		}
		if _, err := d.Tracker.Delete(ctx.desc.GVR, obj.GetNamespace(), obj.GetName()); err == nil {
			deleted++
		}
	}

	writeStatusSummary(w, deleted)
}
