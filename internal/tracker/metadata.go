package tracker

import (
	"strconv"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"

	"github.com/otterscale/fakecluster/internal/apierrors"
)

func rvString(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func newUID() types.UID {
	return types.UID(uuid.NewString())
}

func getGeneration(obj *unstructured.Unstructured) int64 {
	v, found, err := unstructured.NestedInt64(obj.Object, "metadata", "generation")
	if err != nil || !found {
		return 0
	}
	return v
}

func setGeneration(obj *unstructured.Unstructured, gen int64) {
	_ = unstructured.SetNestedField(obj.Object, gen, "metadata", "generation")
}

func hasTopLevelField(obj *unstructured.Unstructured, field string) bool {
	_, ok := obj.Object[field]
	return ok
}

// copySubtree copies the named top-level field (e.g. "status" or "spec")
// from src into dst, preserving subresource isolation.
func copySubtree(src, dst *unstructured.Unstructured, field string) {
	v, found, _ := unstructured.NestedFieldNoCopy(src.Object, field)
	if !found {
		delete(dst.Object, field)
		return
	}
	dst.Object[field] = deepCopyJSON(v)
}

func deepCopyJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = deepCopyJSON(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = deepCopyJSON(vv)
		}
		return out
	default:
		return v
	}
}

func getFinalizers(obj *unstructured.Unstructured) []string {
	fins, _, _ := unstructured.NestedStringSlice(obj.Object, "metadata", "finalizers")
	return fins
}

func hasDeletionTimestamp(obj *unstructured.Unstructured) bool {
	v, found, _ := unstructured.NestedString(obj.Object, "metadata", "deletionTimestamp")
	return found && v != ""
}

func clearDeletionTimestamp(obj *unstructured.Unstructured) {
	meta, found, _ := unstructured.NestedMap(obj.Object, "metadata")
	if !found {
		return
	}
	delete(meta, "deletionTimestamp")
	_ = unstructured.SetNestedMap(obj.Object, meta, "metadata")
}

// checkFinalizerInvariant rejects an incoming object whose
// deletionTimestamp is set but whose finalizers list is empty: such an
// object may not be added/created in the first place.
func checkFinalizerInvariant(obj *unstructured.Unstructured) error {
	if hasDeletionTimestamp(obj) && len(getFinalizers(obj)) == 0 {
		return apierrors.Invalid("metadata.deletionTimestamp set without finalizers")
	}
	return nil
}

// deletionEligible reports whether obj has a deletionTimestamp set and no
// remaining finalizers, i.e. is due for implicit deletion on its next
// write.
func deletionEligible(obj *unstructured.Unstructured) bool {
	return hasDeletionTimestamp(obj) && len(getFinalizers(obj)) == 0
}

// checkDeletionTimestampUnchanged rejects an update that tries to mutate
// an already-set deletionTimestamp (other than clearing it is also
// disallowed here, mirroring real Kubernetes: once set it is immutable
// except via the implicit-delete path).
func checkDeletionTimestampUnchanged(existing, incoming *unstructured.Unstructured) error {
	existingTS, _, _ := unstructured.NestedString(existing.Object, "metadata", "deletionTimestamp")
	incomingTS, _, _ := unstructured.NestedString(incoming.Object, "metadata", "deletionTimestamp")
	if existingTS != "" && incomingTS != existingTS {
		return apierrors.ImmutableField("metadata.deletionTimestamp")
	}
	return nil
}
