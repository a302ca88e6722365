package fakecluster

import (
	"net/http"

	"github.com/otterscale/fakecluster/internal/discovery"
	"github.com/otterscale/fakecluster/internal/tracker"
)

// Cluster is the assembled fake API server: an http.Handler backed by an
// in-memory object tracker, ready to sit behind a typed client's
// transport (e.g. as the handler of an httptest.Server).
type Cluster struct {
	Handler   http.Handler
	Tracker   *tracker.Tracker
	Discovery *discovery.Facade
}

// ServeHTTP implements http.Handler by delegating to the assembled
// dispatcher. Cluster itself, not just its Handler field, satisfies
// http.Handler so it can be passed directly to httptest.NewServer.
func (c *Cluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.Handler.ServeHTTP(w, r)
}

var _ http.Handler = (*Cluster)(nil)
