package discovery

import "github.com/otterscale/fakecluster/internal/gvk"

// builtin is a static discovery-table entry, the shape a generator would
// produce by scraping discovery JSON at a pinned Kubernetes version.
type builtin struct {
	group, version, kind, plural, singular string
	namespaced                             bool
	verbs                                  []string
	subresources                           []string
	shortNames                             []string
}

// builtins is a representative slice of core/v1, apps/v1, batch/v1,
// networking.k8s.io/v1, rbac.authorization.k8s.io/v1, and
// apiextensions.k8s.io/v1 kinds at a pinned v1.31.0 discovery snapshot.
var builtins = []builtin{
	{group: "", version: "v1", kind: "Pod", plural: "pods", singular: "pod", namespaced: true,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status"}, shortNames: []string{"po"}},
	{group: "", version: "v1", kind: "Service", plural: "services", singular: "service", namespaced: true,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status"}, shortNames: []string{"svc"}},
	{group: "", version: "v1", kind: "ConfigMap", plural: "configmaps", singular: "configmap", namespaced: true,
		verbs: []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"}, shortNames: []string{"cm"}},
	{group: "", version: "v1", kind: "Secret", plural: "secrets", singular: "secret", namespaced: true,
		verbs: []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"}},
	{group: "", version: "v1", kind: "Namespace", plural: "namespaces", singular: "namespace", namespaced: false,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status"}, shortNames: []string{"ns"}},
	{group: "", version: "v1", kind: "Node", plural: "nodes", singular: "node", namespaced: false,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status"}, shortNames: []string{"no"}},
	{group: "", version: "v1", kind: "Event", plural: "events", singular: "event", namespaced: true,
		verbs: []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"}, shortNames: []string{"ev"}},
	{group: "", version: "v1", kind: "Endpoints", plural: "endpoints", singular: "endpoints", namespaced: true,
		verbs: []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"}, shortNames: []string{"ep"}},
	{group: "", version: "v1", kind: "ServiceAccount", plural: "serviceaccounts", singular: "serviceaccount", namespaced: true,
		verbs: []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"}, shortNames: []string{"sa"}},
	{group: "", version: "v1", kind: "PersistentVolumeClaim", plural: "persistentvolumeclaims", singular: "persistentvolumeclaim", namespaced: true,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status"}, shortNames: []string{"pvc"}},
	{group: "", version: "v1", kind: "ComponentStatus", plural: "componentstatuses", singular: "componentstatus", namespaced: false,
		verbs: []string{"get", "list"}, shortNames: []string{"cs"}},
	{group: "apps", version: "v1", kind: "Deployment", plural: "deployments", singular: "deployment", namespaced: true,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status", "scale"}, shortNames: []string{"deploy"}},
	{group: "apps", version: "v1", kind: "ReplicaSet", plural: "replicasets", singular: "replicaset", namespaced: true,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status", "scale"}, shortNames: []string{"rs"}},
	{group: "apps", version: "v1", kind: "StatefulSet", plural: "statefulsets", singular: "statefulset", namespaced: true,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status", "scale"}, shortNames: []string{"sts"}},
	{group: "apps", version: "v1", kind: "DaemonSet", plural: "daemonsets", singular: "daemonset", namespaced: true,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status"}, shortNames: []string{"ds"}},
	{group: "batch", version: "v1", kind: "Job", plural: "jobs", singular: "job", namespaced: true,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status"}},
	{group: "batch", version: "v1", kind: "CronJob", plural: "cronjobs", singular: "cronjob", namespaced: true,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status"}, shortNames: []string{"cj"}},
	{group: "networking.k8s.io", version: "v1", kind: "Ingress", plural: "ingresses", singular: "ingress", namespaced: true,
		verbs:        []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status"}, shortNames: []string{"ing"}},
	{group: "rbac.authorization.k8s.io", version: "v1", kind: "Role", plural: "roles", singular: "role", namespaced: true,
		verbs: []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"}},
	{group: "rbac.authorization.k8s.io", version: "v1", kind: "RoleBinding", plural: "rolebindings", singular: "rolebinding", namespaced: true,
		verbs: []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"}},
	{group: "rbac.authorization.k8s.io", version: "v1", kind: "ClusterRole", plural: "clusterroles", singular: "clusterrole", namespaced: false,
		verbs: []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"}},
	{group: "rbac.authorization.k8s.io", version: "v1", kind: "ClusterRoleBinding", plural: "clusterrolebindings", singular: "clusterrolebinding", namespaced: false,
		verbs: []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"}},
	{group: "apiextensions.k8s.io", version: "v1", kind: "CustomResourceDefinition", plural: "customresourcedefinitions", singular: "customresourcedefinition", namespaced: false,
		verbs: []string{"create", "get", "list", "update", "patch", "delete", "deletecollection", "watch"},
		subresources: []string{"status"}, shortNames: []string{"crd", "crds"}},
}

func (b builtin) descriptor() Descriptor {
	return Descriptor{
		GVK:            gvk.New(b.group, b.version, b.kind),
		GVR:            gvk.NewResource(b.group, b.version, b.plural),
		Namespaced:     b.namespaced,
		Subresources:   subresourceSet(b.subresources),
		ShortNames:     b.shortNames,
		SupportedVerbs: verbSet(b.verbs),
	}
}

func builtinTable() (byGVK map[gvk.GroupVersionKind]Descriptor, byGVR map[gvk.GroupVersionResource]Descriptor) {
	byGVK = make(map[gvk.GroupVersionKind]Descriptor, len(builtins))
	byGVR = make(map[gvk.GroupVersionResource]Descriptor, len(builtins))
	for _, b := range builtins {
		d := b.descriptor()
		byGVK[d.GVK] = d
		byGVR[d.GVR] = d
	}
	return byGVK, byGVR
}
