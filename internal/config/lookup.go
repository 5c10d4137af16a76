package config

import (
	"sort"

	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
)

// FindRelease returns the release called name.
func (c *Config) FindRelease(name string) (Release, error) {
	r, ok := c.Releases[name]
	if !ok {
		return Release{}, models.NewNotFound("release", name, "", "")
	}
	return r, nil
}

// FindContext returns the context release maps to.
func (c *Config) FindContext(release Release) (Context, error) {
	ctx, ok := c.Contexts[release.Context]
	if !ok {
		return Context{}, models.NewNotFound("context", release.Context, "release", release.Name)
	}
	return ctx, nil
}

// FindAuth returns the auth profile referenced by ctx.
func (c *Config) FindAuth(ctx Context) (Auth, error) {
	a, ok := c.Auths[ctx.Auth]
	if !ok {
		return Auth{}, models.NewNotFound("auth", ctx.Auth, "context", ctx.Name)
	}
	return a, nil
}

// FindCluster returns the cluster referenced by ctx.
func (c *Config) FindCluster(ctx Context) (Cluster, error) {
	cl, ok := c.Clusters[ctx.Cluster]
	if !ok {
		return Cluster{}, models.NewNotFound("cluster", ctx.Cluster, "context", ctx.Name)
	}
	return cl, nil
}

// ReleaseNames returns all release names in lexical order.
func (c *Config) ReleaseNames() []string {
	names := make([]string, 0, len(c.Releases))
	for name := range c.Releases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
