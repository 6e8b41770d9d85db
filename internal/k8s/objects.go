package k8s

import (
	"context"
	"encoding/json"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/Taishi66/kube-tree/internal/domain"
)

const listPageSize = 500

var (
	podGVK         = corev1.SchemeGroupVersion.WithKind("Pod")
	deploymentGVK  = appsv1.SchemeGroupVersion.WithKind("Deployment")
	statefulSetGVK = appsv1.SchemeGroupVersion.WithKind("StatefulSet")
)

// listedObject is satisfied by the pointer types of list items (*corev1.Pod, ...).
type listedObject[T any] interface {
	*T
	runtime.Object
	metav1.Object
}

func (c *Client) ListPods(ctx context.Context, namespace string) ([]domain.Manifest, error) {
	cs, serverURL := c.conn()
	manifests := []domain.Manifest{}
	opts := metav1.ListOptions{Limit: listPageSize}
	for {
		podList, err := cs.CoreV1().Pods(namespace).List(ctx, opts)
		if err != nil {
			return nil, classifyError(err, serverURL)
		}
		page, err := toManifests(podList.Items, podGVK, c.stripManagedFields)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, page...)
		if podList.Continue == "" {
			return manifests, nil
		}
		opts.Continue = podList.Continue
	}
}

func (c *Client) ListDeployments(ctx context.Context, namespace string) ([]domain.Manifest, error) {
	cs, serverURL := c.conn()
	manifests := []domain.Manifest{}
	opts := metav1.ListOptions{Limit: listPageSize}
	for {
		depList, err := cs.AppsV1().Deployments(namespace).List(ctx, opts)
		if err != nil {
			return nil, classifyError(err, serverURL)
		}
		page, err := toManifests(depList.Items, deploymentGVK, c.stripManagedFields)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, page...)
		if depList.Continue == "" {
			return manifests, nil
		}
		opts.Continue = depList.Continue
	}
}

func (c *Client) ListStatefulSets(ctx context.Context, namespace string) ([]domain.Manifest, error) {
	cs, serverURL := c.conn()
	manifests := []domain.Manifest{}
	opts := metav1.ListOptions{Limit: listPageSize}
	for {
		stsList, err := cs.AppsV1().StatefulSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, classifyError(err, serverURL)
		}
		page, err := toManifests(stsList.Items, statefulSetGVK, c.stripManagedFields)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, page...)
		if stsList.Continue == "" {
			return manifests, nil
		}
		opts.Continue = stsList.Continue
	}
}

// toManifests serializes list items. Items of a typed list carry no TypeMeta,
// so apiVersion and kind are set from gvk before encoding.
func toManifests[T any, PT listedObject[T]](items []T, gvk schema.GroupVersionKind, stripManagedFields bool) ([]domain.Manifest, error) {
	manifests := make([]domain.Manifest, 0, len(items))
	for i := range items {
		obj := PT(&items[i])
		obj.GetObjectKind().SetGroupVersionKind(gvk)
		if stripManagedFields {
			obj.SetManagedFields(nil)
		}
		data, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s/%s: %w", gvk.Kind, obj.GetNamespace(), obj.GetName(), err)
		}
		manifests = append(manifests, domain.Manifest{
			Name:      obj.GetName(),
			Namespace: obj.GetNamespace(),
			Kind:      gvk.Kind,
			JSON:      data,
		})
	}
	return manifests, nil
}
