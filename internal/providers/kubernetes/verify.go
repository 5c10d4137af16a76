package kubernetes

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// VerifyContext checks that the API server behind contextName answers with
// the credentials stored in the kubeconfig. When the context has a default
// namespace, that namespace must exist; otherwise a single namespace list
// call must succeed.
func VerifyContext(ctx context.Context, provider KubeClientProvider, contextName string) (ClusterInfo, error) {
	clientset, info, err := provider.ClientsetForContext(contextName)
	if err != nil {
		return ClusterInfo{}, err
	}

	if info.Namespace != "" {
		if _, err := clientset.CoreV1().Namespaces().Get(ctx, info.Namespace, metav1.GetOptions{}); err != nil {
			return info, fmt.Errorf("get namespace %q via context %q: %w", info.Namespace, contextName, err)
		}
		return info, nil
	}

	if _, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{Limit: 1}); err != nil {
		return info, fmt.Errorf("list namespaces via context %q: %w", contextName, err)
	}
	return info, nil
}
