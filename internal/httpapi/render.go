package httpapi

import (
	"encoding/json"
	"net/http"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/otterscale/fakecluster/internal/apierrors"
)

// statusBody is the Kubernetes Status wire object.
type statusBody struct {
	Kind       string `json:"kind"`
	APIVersion string `json:"apiVersion"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Code       int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders err as a Kubernetes Status failure body. Any error
// not already in the apierrors taxonomy is rendered as an Internal error;
// there is no retry, no partial-failure recovery, no silent fallback.
func writeError(w http.ResponseWriter, err error) {
	apiErr, ok := apierrors.As(err)
	if !ok {
		apiErr = apierrors.Internal(err.Error())
	}
	writeJSON(w, apiErr.Code, statusBody{
		Kind:       "Status",
		APIVersion: "v1",
		Status:     "Failure",
		Message:    apiErr.Message,
		Reason:     string(apiErr.Reason),
		Code:       apiErr.Code,
	})
}

func writeObject(w http.ResponseWriter, status int, obj *unstructured.Unstructured) {
	writeJSON(w, status, obj.Object)
}

// writeList renders a list response in the standard Kubernetes shape:
// {kind:"{Kind}List", apiVersion, metadata:{resourceVersion}, items:[…]}.
func writeList(w http.ResponseWriter, apiVersion, kind, resourceVersion string, items []*unstructured.Unstructured) {
	out := map[string]interface{}{
		"kind":       kind + "List",
		"apiVersion": apiVersion,
		"metadata": map[string]interface{}{
			"resourceVersion": resourceVersion,
		},
		"items": renderItems(items),
	}
	writeJSON(w, http.StatusOK, out)
}

func renderItems(items []*unstructured.Unstructured) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, it := range items {
		out = append(out, it.Object)
	}
	return out
}

// writeStatusSummary renders the Status summary a delete-collection
// returns on success.
func writeStatusSummary(w http.ResponseWriter, deleted int) {
	writeJSON(w, http.StatusOK, statusBody{
		Kind:       "Status",
		APIVersion: "v1",
		Status:     "Success",
		Message:    "",
		Code:       http.StatusOK,
	})
	_ = deleted
}
