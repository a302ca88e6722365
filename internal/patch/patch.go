// Package patch implements Content-Type-dispatched patch semantics: RFC
// 6902 JSON Patch, RFC 7386 JSON Merge Patch, and the degradation of
// strategic-merge and apply-patch content types to a plain JSON merge.
package patch

import (
	"encoding/json"

	jsonpatch "gopkg.in/evanphx/json-patch.v4"
	"sigs.k8s.io/yaml"

	"github.com/otterscale/fakecluster/internal/apierrors"
)

// ContentType is one of the four patch wire formats this package handles.
type ContentType string

const (
	JSONPatch      ContentType = "application/json-patch+json"
	MergePatch     ContentType = "application/merge-patch+json"
	StrategicMerge ContentType = "application/strategic-merge-patch+json"
	ApplyPatchYAML ContentType = "application/apply-patch+yaml"
)

// Apply applies patchData (in the shape implied by contentType) to the
// JSON document current, returning the merged document. Unknown or
// missing content types degrade to a plain merge.
func Apply(contentType string, current, patchData []byte) ([]byte, error) {
	switch ContentType(contentType) {
	case JSONPatch:
		return applyJSONPatch(current, patchData)
	case MergePatch:
		return applyMergePatch(current, patchData)
	case StrategicMerge:
		return applyMergePatch(current, patchData)
	case ApplyPatchYAML:
		// No field-manager bookkeeping: degrade to a plain JSON merge once
		// the YAML body is converted to JSON.
		jsonData, err := yaml.YAMLToJSON(patchData)
		if err != nil {
			return nil, apierrors.PatchFailed(err.Error())
		}
		return applyMergePatch(current, jsonData)
	default:
		return applyMergePatch(current, patchData)
	}
}

func applyJSONPatch(current, patchData []byte) ([]byte, error) {
	ops, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return nil, apierrors.PatchFailed(err.Error())
	}
	result, err := ops.Apply(current)
	if err != nil {
		return nil, apierrors.PatchFailed(err.Error())
	}
	return result, nil
}

func applyMergePatch(current, patchData []byte) ([]byte, error) {
	result, err := jsonpatch.MergePatch(current, patchData)
	if err != nil {
		return nil, apierrors.PatchFailed(err.Error())
	}
	return result, nil
}

// Merge performs a single RFC 7386 merge of base and overlay, for callers
// that need a merge without going through the Content-Type dispatch.
func Merge(base, overlay map[string]interface{}) (map[string]interface{}, error) {
	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, apierrors.Internal("marshal base: " + err.Error())
	}
	overlayJSON, err := json.Marshal(overlay)
	if err != nil {
		return nil, apierrors.Internal("marshal overlay: " + err.Error())
	}
	merged, err := applyMergePatch(baseJSON, overlayJSON)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, apierrors.Internal("unmarshal merged: " + err.Error())
	}
	return out, nil
}
