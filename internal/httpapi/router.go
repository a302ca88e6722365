package httpapi

import (
	"strings"

	"github.com/otterscale/fakecluster/internal/apierrors"
)

// parsedPath is the result of decomposing one of the Kubernetes REST URL
// shapes: /api/{v}/… for the core group, /apis/{group}/{v}/… for every
// other group, each optionally carrying /namespaces/{ns}/ before the
// resource segment.
type parsedPath struct {
	group, version string
	namespace      string
	hasNamespace   bool
	plural         string
	name           string
	hasName        bool
	sub            string
	hasSub         bool
}

// parsePath decomposes an HTTP request path into its GVR and object
// coordinates. It does not validate that the resource exists — that is
// the discovery facade's job.
func parsePath(path string) (parsedPath, error) {
	segs := splitPath(path)
	if len(segs) < 2 {
		return parsedPath{}, apierrors.Invalid("malformed request path")
	}

	var p parsedPath
	var rest []string
	switch segs[0] {
	case "api":
		p.group = ""
		p.version = segs[1]
		rest = segs[2:]
	case "apis":
		if len(segs) < 3 {
			return parsedPath{}, apierrors.Invalid("malformed request path")
		}
		p.group = segs[1]
		p.version = segs[2]
		rest = segs[3:]
	default:
		return parsedPath{}, apierrors.Invalid("malformed request path: must start with /api or /apis")
	}

	if len(rest) >= 2 && rest[0] == "namespaces" {
		p.hasNamespace = true
		p.namespace = rest[1]
		rest = rest[2:]
	}

	if len(rest) == 0 {
		return parsedPath{}, apierrors.Invalid("malformed request path: missing resource")
	}
	p.plural = rest[0]
	rest = rest[1:]

	if len(rest) >= 1 {
		p.hasName = true
		p.name = rest[0]
		rest = rest[1:]
	}
	if len(rest) >= 1 {
		p.hasSub = true
		p.sub = rest[0]
	}

	return p, nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
