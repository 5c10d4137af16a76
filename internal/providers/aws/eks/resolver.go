// Package eks resolves live connection details of AWS EKS clusters.
package eks

import (
	"context"

	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
)

// Resolver fetches the endpoint and certificate authority of a managed
// cluster from the cloud control plane.
//
// Implementations perform exactly one control-plane query per call and never
// retry; failures are returned as models.ErrCloudQuery errors.
type Resolver interface {
	// GetManagedCluster queries cluster clusterName in region using the
	// credentials of the named profile.
	GetManagedCluster(ctx context.Context, profile, region, clusterName string) (*models.ManagedCluster, error)
}
