package kubernetes

import (
	"context"
	"fmt"

	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
)

// ContextStore is the persisted kubeconfig the provisioning engine writes
// into. Existence checks and creation primitives are addressed by entry name.
//
// Implementations return models.ErrStore errors. The store gives no
// atomicity across a check and a subsequent create.
type ContextStore interface {
	ContextExists(ctx context.Context, name string) (bool, error)
	AuthExists(ctx context.Context, name string) (bool, error)
	ClusterExists(ctx context.Context, name string) (bool, error)

	// CreateContext writes a context entry. The referenced user and cluster
	// entries must already exist.
	CreateContext(ctx context.Context, entry models.ContextEntry) error

	// CreateAuth writes a user entry registering an exec credential plugin.
	CreateAuth(ctx context.Context, name string, cred models.ExecCredential) error

	// CreateCluster writes a cluster entry. The certificate authority file
	// named by entry is only read during the call.
	CreateCluster(ctx context.Context, name string, entry models.ClusterEntry) error
}

// Store backends accepted by NewStore.
const (
	StoreFile    = "file"
	StoreKubectl = "kubectl"
)

// NewStore returns the ContextStore backend called kind operating on the
// kubeconfig at kubeconfigPath (empty = standard resolution).
func NewStore(kind, kubeconfigPath string) (ContextStore, error) {
	switch kind {
	case StoreFile, "":
		return NewFileStore(kubeconfigPath), nil
	case StoreKubectl:
		return NewKubectlStore(kubeconfigPath), nil
	default:
		return nil, fmt.Errorf("unknown context store %q (want %q or %q)", kind, StoreFile, StoreKubectl)
	}
}
