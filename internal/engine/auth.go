package engine

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/pankaj-dahiya-devops/flightctl/internal/config"
	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
)

// ensureAuth creates the exec credential user entry for kctx unless one
// with the context's name already exists.
func (e *DefaultEngine) ensureAuth(ctx context.Context, log logr.Logger, kctx config.Context) error {
	exists, err := e.store.AuthExists(ctx, kctx.Name)
	if err != nil {
		return err
	}
	if exists {
		log.V(1).Info("user entry already present", "auth", kctx.Name)
		return nil
	}

	auth, err := e.config.FindAuth(kctx)
	if err != nil {
		return err
	}
	cluster, err := e.config.FindCluster(kctx)
	if err != nil {
		return err
	}

	cred, err := e.execCredential(kctx, auth, cluster)
	if err != nil {
		return err
	}
	if eksCfg, ok := cluster.Config.(config.Eks); ok {
		fmt.Fprintf(e.out, "Setting Kubernetes credentials for EKS cluster: %s as %s in %s\n", eksCfg.Name, kctx.Name, eksCfg.Region)
	}
	log.V(1).Info("writing user entry", "auth", kctx.Name, "command", cred.Command, "args", cred.Args)
	return e.store.CreateAuth(ctx, kctx.Name, cred)
}

// execCredential maps an auth/cluster pairing to the exec plugin that
// produces tokens for it.
func (e *DefaultEngine) execCredential(kctx config.Context, auth config.Auth, cluster config.Cluster) (models.ExecCredential, error) {
	switch auth.Config.(type) {
	case config.AwsSso:
		switch cc := cluster.Config.(type) {
		case config.Eks:
			return models.ExecCredential{
				APIVersion: e.execAPIVersion,
				Command:    "aws",
				Args:       []string{"--region", cc.Region, "eks", "get-token", "--cluster-name", cc.Name},
				Env:        []models.EnvVar{{Name: "AWS_PROFILE", Value: auth.Name}},
			}, nil
		}
	}
	return models.ExecCredential{}, models.NewUnsupportedCombination("create", "auth", kctx.Name, typeOf(auth.Config), typeOf(cluster.Config))
}

// typeOf returns the configuration tag of a variant, tolerating nil.
func typeOf(v interface{ Type() string }) string {
	if v == nil {
		return "<none>"
	}
	return v.Type()
}
