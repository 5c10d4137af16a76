package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/pankaj-dahiya-devops/flightctl/internal/config"
	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
	"github.com/pankaj-dahiya-devops/flightctl/internal/providers/aws/eks"
	kube "github.com/pankaj-dahiya-devops/flightctl/internal/providers/kubernetes"
)

// DefaultEngine is the production implementation of Engine. It holds no
// mutable state of its own; all writes go to the context store.
type DefaultEngine struct {
	config   *config.Config
	store    kube.ContextStore
	resolver eks.Resolver

	execAPIVersion string
	out            io.Writer
	log            logr.Logger
	tempDir        string
}

// NewDefaultEngine constructs a DefaultEngine wired to the supplied
// configuration, context store and cloud resolver.
func NewDefaultEngine(
	cfg *config.Config,
	store kube.ContextStore,
	resolver eks.Resolver,
	opts Options,
) *DefaultEngine {
	e := &DefaultEngine{
		config:         cfg,
		store:          store,
		resolver:       resolver,
		execAPIVersion: opts.ExecAPIVersion,
		out:            opts.Out,
		log:            opts.Logger,
		tempDir:        opts.TempDir,
	}
	if e.execAPIVersion == "" {
		e.execAPIVersion = DefaultExecAPIVersion
	}
	if e.out == nil {
		e.out = io.Discard
	}
	if e.log.GetSink() == nil {
		e.log = logr.Discard()
	}
	return e
}

// Prepare implements Engine.
func (e *DefaultEngine) Prepare(ctx context.Context, releaseName string) error {
	release, err := e.config.FindRelease(releaseName)
	if err != nil {
		return err
	}
	log := e.log.WithValues("release", release.Name, "context", release.Context)

	exists, err := e.store.ContextExists(ctx, release.Context)
	if err != nil {
		return err
	}
	if exists {
		log.V(1).Info("context already present")
		return nil
	}

	kctx, err := e.config.FindContext(release)
	if err != nil {
		return err
	}
	return e.createContext(ctx, log, kctx)
}

// PrepareAll implements Engine.
func (e *DefaultEngine) PrepareAll(ctx context.Context, releases []string) error {
	for _, r := range releases {
		if err := e.Prepare(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Plan implements Engine. It runs the same existence checks as Prepare and
// validates that the auth/cluster pairing is supported.
func (e *DefaultEngine) Plan(ctx context.Context, releaseName string) (*Plan, error) {
	release, err := e.config.FindRelease(releaseName)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Release: release.Name, Context: release.Context}

	exists, err := e.store.ContextExists(ctx, release.Context)
	if err != nil {
		return nil, err
	}
	if exists {
		return plan, nil
	}

	kctx, err := e.config.FindContext(release)
	if err != nil {
		return nil, err
	}
	auth, err := e.config.FindAuth(kctx)
	if err != nil {
		return nil, err
	}
	cluster, err := e.config.FindCluster(kctx)
	if err != nil {
		return nil, err
	}

	authExists, err := e.store.AuthExists(ctx, kctx.Name)
	if err != nil {
		return nil, err
	}
	if !authExists {
		if _, err := e.execCredential(kctx, auth, cluster); err != nil {
			return nil, err
		}
		plan.Actions = append(plan.Actions, Action{Kind: "auth", Name: kctx.Name})
	}

	clusterExists, err := e.store.ClusterExists(ctx, kctx.Cluster)
	if err != nil {
		return nil, err
	}
	if !clusterExists {
		if _, err := eksTarget(cluster, auth); err != nil {
			return nil, err
		}
		plan.Actions = append(plan.Actions, Action{Kind: "cluster", Name: kctx.Cluster})
	}

	plan.Actions = append(plan.Actions, Action{Kind: "context", Name: kctx.Name})
	return plan, nil
}

// createContext ensures the user and cluster entries exist, then writes the
// context binding them. The user entry is named after the context.
func (e *DefaultEngine) createContext(ctx context.Context, log logr.Logger, kctx config.Context) error {
	if err := e.ensureAuth(ctx, log, kctx); err != nil {
		return err
	}
	if err := e.ensureCluster(ctx, log, kctx); err != nil {
		return err
	}

	fmt.Fprintf(e.out, "Creating Kubernetes context: %s\n", kctx.Name)
	return e.store.CreateContext(ctx, models.ContextEntry{
		Name:      kctx.Name,
		AuthInfo:  kctx.Name,
		Cluster:   kctx.Cluster,
		Namespace: kctx.Namespace,
	})
}
