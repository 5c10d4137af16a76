package kubernetes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	k8sclient "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// loadingRules returns the standard kubectl loading rules. A non-empty
// explicit path replaces the $KUBECONFIG / ~/.kube/config precedence list.
func loadingRules(explicit string) *clientcmd.ClientConfigLoadingRules {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	rules.ExplicitPath = explicit
	return rules
}

// KubeconfigFiles returns the kubeconfig files consulted for explicit: the
// explicit path alone, otherwise every entry of $KUBECONFIG, otherwise
// ~/.kube/config.
func KubeconfigFiles(explicit string) []string {
	return loadingRules(explicit).GetLoadingPrecedence()
}

// LoadRawConfig loads the kubeconfig without building any client. With an
// empty explicit path all files in $KUBECONFIG are merged the way kubectl
// merges them. Missing files yield an empty config.
func LoadRawConfig(explicit string) (*clientcmdapi.Config, error) {
	cfg, err := loadingRules(explicit).Load()
	if err != nil {
		if os.IsNotExist(err) {
			return clientcmdapi.NewConfig(), nil
		}
		return nil, fmt.Errorf("load kubeconfig %s: %w", strings.Join(KubeconfigFiles(explicit), string(filepath.ListSeparator)), err)
	}
	return cfg, nil
}

// LoadClientset builds a kubernetes clientset from the kubeconfig at
// kubeconfigPath (empty = standard merge), targeting the given context
// (empty = current context).
//
// Returns the clientset and the resolved ClusterInfo (context name, server URL
// and namespace). The clientset is ready for immediate use.
func LoadClientset(kubeconfigPath, contextName string) (k8sclient.Interface, ClusterInfo, error) {
	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}

	cfg := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules(kubeconfigPath), overrides)

	// Resolve the effective context name and server URL from the raw config.
	rawCfg, err := cfg.RawConfig()
	if err != nil {
		return nil, ClusterInfo{}, fmt.Errorf("load kubeconfig for context %q: %w", contextName, err)
	}

	effectiveContext := rawCfg.CurrentContext
	if contextName != "" {
		effectiveContext = contextName
	}

	info := ClusterInfo{ContextName: effectiveContext}
	if ctx, ok := rawCfg.Contexts[effectiveContext]; ok {
		info.Namespace = ctx.Namespace
		if cluster, ok := rawCfg.Clusters[ctx.Cluster]; ok {
			info.Server = cluster.Server
		}
	}

	restCfg, err := cfg.ClientConfig()
	if err != nil {
		return nil, ClusterInfo{}, fmt.Errorf("build REST config for context %q: %w", effectiveContext, err)
	}

	clientset, err := k8sclient.NewForConfig(restCfg)
	if err != nil {
		return nil, ClusterInfo{}, fmt.Errorf("build clientset for context %q: %w", effectiveContext, err)
	}

	return clientset, info, nil
}
