package engine

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/pankaj-dahiya-devops/flightctl/internal/config"
	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
)

// ensureCluster creates the cluster entry referenced by kctx unless it
// already exists. Cluster entries are shared by every context naming them.
func (e *DefaultEngine) ensureCluster(ctx context.Context, log logr.Logger, kctx config.Context) error {
	exists, err := e.store.ClusterExists(ctx, kctx.Cluster)
	if err != nil {
		return err
	}
	if exists {
		log.V(1).Info("cluster entry already present", "cluster", kctx.Cluster)
		return nil
	}

	cluster, err := e.config.FindCluster(kctx)
	if err != nil {
		return err
	}
	auth, err := e.config.FindAuth(kctx)
	if err != nil {
		return err
	}
	return e.createCluster(ctx, log, cluster, auth)
}

// createCluster fetches live connection data for cluster and writes it to
// the store. The CA bundle is handed over through a temporary file that is
// removed on every return path.
func (e *DefaultEngine) createCluster(ctx context.Context, log logr.Logger, cluster config.Cluster, auth config.Auth) (err error) {
	target, err := eksTarget(cluster, auth)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "Fetching Kubernetes cluster details for EKS cluster: %s as %s in %s\n", target.Name, auth.Name, target.Region)
	mc, err := e.resolver.GetManagedCluster(ctx, auth.Name, target.Region, target.Name)
	if err != nil {
		return err
	}

	caPEM, err := base64.StdEncoding.DecodeString(mc.CertificateAuthority)
	if err != nil {
		return models.NewDecodeError(cluster.Name, err)
	}

	ca, err := newTempCA(e.tempDir, caPEM)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := ca.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	fmt.Fprintf(e.out, "Setting Kubernetes cluster details for cluster: %s\n", cluster.Name)
	log.V(1).Info("writing cluster entry", "cluster", cluster.Name, "server", mc.Endpoint)
	return e.store.CreateCluster(ctx, cluster.Name, models.ClusterEntry{
		Server:               mc.Endpoint,
		CertificateAuthority: ca.Path(),
		EmbedCerts:           true,
	})
}

// eksTarget returns the EKS coordinates of cluster. EKS clusters are
// resolved with the AWS profile of an AwsSso auth; any other variant or
// pairing is unsupported.
func eksTarget(cluster config.Cluster, auth config.Auth) (config.Eks, error) {
	cc, ok := cluster.Config.(config.Eks)
	if !ok {
		return config.Eks{}, models.NewUnsupportedCluster(cluster.Name, typeOf(cluster.Config))
	}
	if _, ok := auth.Config.(config.AwsSso); !ok {
		return config.Eks{}, models.NewUnsupportedCombination("create", "cluster", cluster.Name, typeOf(auth.Config), cc.Type())
	}
	return cc, nil
}
