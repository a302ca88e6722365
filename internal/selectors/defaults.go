package selectors

import "github.com/otterscale/fakecluster/internal/gvk"

// registerDefaults seeds the fixed field-selector table, mirroring the
// indexes real Kubernetes registers for these kinds.
func registerDefaults(idx *FieldIndex) {
	pod := gvk.New("", "v1", "Pod")
	idx.Register(pod, "spec.nodeName", stringField("spec", "nodeName"))
	idx.Register(pod, "spec.restartPolicy", stringField("spec", "restartPolicy"))
	idx.Register(pod, "spec.schedulerName", stringField("spec", "schedulerName"))
	idx.Register(pod, "spec.serviceAccountName", stringField("spec", "serviceAccountName"))
	idx.Register(pod, "status.phase", stringField("status", "phase"))
	idx.Register(pod, "status.podIP", stringField("status", "podIP"))
	idx.Register(pod, "status.nominatedNodeName", stringField("status", "nominatedNodeName"))

	event := gvk.New("", "v1", "Event")
	idx.Register(event, "involvedObject.kind", stringField("involvedObject", "kind"))
	idx.Register(event, "involvedObject.namespace", stringField("involvedObject", "namespace"))
	idx.Register(event, "involvedObject.name", stringField("involvedObject", "name"))
	idx.Register(event, "involvedObject.uid", stringField("involvedObject", "uid"))
	idx.Register(event, "involvedObject.apiVersion", stringField("involvedObject", "apiVersion"))
	idx.Register(event, "involvedObject.resourceVersion", stringField("involvedObject", "resourceVersion"))
	idx.Register(event, "involvedObject.fieldPath", stringField("involvedObject", "fieldPath"))
	idx.Register(event, "reason", stringField("reason"))
	idx.Register(event, "type", stringField("type"))
	idx.Register(event, "source.component", stringField("source", "component"))
	idx.Register(event, "source.host", stringField("source", "host"))

	node := gvk.New("", "v1", "Node")
	idx.Register(node, "spec.unschedulable", boolField("spec", "unschedulable"))

	secret := gvk.New("", "v1", "Secret")
	idx.Register(secret, "type", stringField("type"))

	namespace := gvk.New("", "v1", "Namespace")
	idx.Register(namespace, "status.phase", stringField("status", "phase"))
}
