package kube

import (
	"context"
	"fmt"
	"sort"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"

	"go-kubeagent/pkg/models"
)

// OperationFunc is one registered read operation on the cluster API.
type OperationFunc func(ctx context.Context, params models.Params) (runtime.Object, error)

// UnknownCapabilityError reports a (surface, operation) pair with no
// registered handler.
type UnknownCapabilityError struct {
	Surface   string
	Operation string
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("UnknownCapability: %s.%s", e.Surface, e.Operation)
}

// Registry maps (surface, operation) names to handlers. It is populated with
// read-only operations at construction, so the oracle cannot name a mutating
// call: anything outside the registry is an UnknownCapabilityError.
type Registry struct {
	surfaces map[string]map[string]OperationFunc
}

// Resolve looks a capability up by name at call time.
func (r *Registry) Resolve(surface, operation string) (OperationFunc, error) {
	ops, ok := r.surfaces[surface]
	if !ok {
		return nil, &UnknownCapabilityError{Surface: surface, Operation: operation}
	}
	op, ok := ops[operation]
	if !ok {
		return nil, &UnknownCapabilityError{Surface: surface, Operation: operation}
	}
	return op, nil
}

// Capabilities returns every registered operation as "surface.operation",
// sorted. Used to describe the registry to the oracle.
func (r *Registry) Capabilities() []string {
	var names []string
	for surface, ops := range r.surfaces {
		for operation := range ops {
			names = append(names, surface+"."+operation)
		}
	}
	sort.Strings(names)
	return names
}

// NewRegistry builds the read-only capability registry over a clientset.
func NewRegistry(cs kubernetes.Interface) *Registry {
	core := map[string]OperationFunc{
		"listNodes": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Nodes().List(ctx, opts)
		},
		"readNode": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			name, err := requireString(p, "name")
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
		},
		"listNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Namespaces().List(ctx, opts)
		},
		"listPodForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Pods(metav1.NamespaceAll).List(ctx, opts)
		},
		"listNamespacedPod": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			namespace, err := requireString(p, "namespace")
			if err != nil {
				return nil, err
			}
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Pods(namespace).List(ctx, opts)
		},
		"readNamespacedPod": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			name, namespace, err := requireNamespacedName(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
		},
		"listServiceForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Services(metav1.NamespaceAll).List(ctx, opts)
		},
		"listNamespacedService": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			namespace, err := requireString(p, "namespace")
			if err != nil {
				return nil, err
			}
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Services(namespace).List(ctx, opts)
		},
		"readNamespacedService": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			name, namespace, err := requireNamespacedName(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
		},
		"listEventForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Events(metav1.NamespaceAll).List(ctx, opts)
		},
		"listNamespacedEvent": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			namespace, err := requireString(p, "namespace")
			if err != nil {
				return nil, err
			}
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().Events(namespace).List(ctx, opts)
		},
		"listConfigMapForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().ConfigMaps(metav1.NamespaceAll).List(ctx, opts)
		},
		"listNamespacedConfigMap": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			namespace, err := requireString(p, "namespace")
			if err != nil {
				return nil, err
			}
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().ConfigMaps(namespace).List(ctx, opts)
		},
		"listPersistentVolumeClaimForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.CoreV1().PersistentVolumeClaims(metav1.NamespaceAll).List(ctx, opts)
		},
	}

	apps := map[string]OperationFunc{
		"listDeploymentForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.AppsV1().Deployments(metav1.NamespaceAll).List(ctx, opts)
		},
		"listNamespacedDeployment": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			namespace, err := requireString(p, "namespace")
			if err != nil {
				return nil, err
			}
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.AppsV1().Deployments(namespace).List(ctx, opts)
		},
		"readNamespacedDeployment": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			name, namespace, err := requireNamespacedName(p)
			if err != nil {
				return nil, err
			}
			return cs.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		},
		"listStatefulSetForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.AppsV1().StatefulSets(metav1.NamespaceAll).List(ctx, opts)
		},
		"listNamespacedStatefulSet": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			namespace, err := requireString(p, "namespace")
			if err != nil {
				return nil, err
			}
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.AppsV1().StatefulSets(namespace).List(ctx, opts)
		},
		"readNamespacedStatefulSet": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			name, namespace, err := requireNamespacedName(p)
			if err != nil {
				return nil, err
			}
			return cs.AppsV1().StatefulSets(namespace).Get(ctx, name, metav1.GetOptions{})
		},
		"listDaemonSetForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.AppsV1().DaemonSets(metav1.NamespaceAll).List(ctx, opts)
		},
		"listReplicaSetForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.AppsV1().ReplicaSets(metav1.NamespaceAll).List(ctx, opts)
		},
	}

	batch := map[string]OperationFunc{
		"listJobForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.BatchV1().Jobs(metav1.NamespaceAll).List(ctx, opts)
		},
		"listNamespacedJob": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			namespace, err := requireString(p, "namespace")
			if err != nil {
				return nil, err
			}
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.BatchV1().Jobs(namespace).List(ctx, opts)
		},
		"readNamespacedJob": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			name, namespace, err := requireNamespacedName(p)
			if err != nil {
				return nil, err
			}
			return cs.BatchV1().Jobs(namespace).Get(ctx, name, metav1.GetOptions{})
		},
		"listCronJobForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.BatchV1().CronJobs(metav1.NamespaceAll).List(ctx, opts)
		},
		"listNamespacedCronJob": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			namespace, err := requireString(p, "namespace")
			if err != nil {
				return nil, err
			}
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.BatchV1().CronJobs(namespace).List(ctx, opts)
		},
	}

	networking := map[string]OperationFunc{
		"listIngressForAllNamespaces": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.NetworkingV1().Ingresses(metav1.NamespaceAll).List(ctx, opts)
		},
		"listNamespacedIngress": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			namespace, err := requireString(p, "namespace")
			if err != nil {
				return nil, err
			}
			opts, err := listOptions(p)
			if err != nil {
				return nil, err
			}
			return cs.NetworkingV1().Ingresses(namespace).List(ctx, opts)
		},
		"readNamespacedIngress": func(ctx context.Context, p models.Params) (runtime.Object, error) {
			name, namespace, err := requireNamespacedName(p)
			if err != nil {
				return nil, err
			}
			return cs.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
		},
	}

	return &Registry{surfaces: map[string]map[string]OperationFunc{
		"core":       core,
		"apps":       apps,
		"batch":      batch,
		"networking": networking,
	}}
}

func requireNamespacedName(p models.Params) (name, namespace string, err error) {
	if name, err = requireString(p, "name"); err != nil {
		return "", "", err
	}
	if namespace, err = requireString(p, "namespace"); err != nil {
		return "", "", err
	}
	return name, namespace, nil
}
