package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
)

func fixture() *Config {
	return &Config{
		Releases: map[string]Release{
			"prod":   {Name: "prod", Context: "prod-ctx"},
			"broken": {Name: "broken", Context: "missing-ctx"},
		},
		Contexts: map[string]Context{
			"prod-ctx":     {Name: "prod-ctx", Auth: "admin", Cluster: "prod-eks", Namespace: "default"},
			"dangling-ctx": {Name: "dangling-ctx", Auth: "nobody", Cluster: "nowhere"},
		},
		Auths: map[string]Auth{
			"admin": {Name: "admin", Config: AwsSso{}},
		},
		Clusters: map[string]Cluster{
			"prod-eks": {Name: "prod-eks", Config: Eks{Name: "prod", Region: "us-east-1"}},
		},
	}
}

func TestFindRelease(t *testing.T) {
	cfg := fixture()

	r, err := cfg.FindRelease("prod")
	require.NoError(t, err)
	assert.Equal(t, "prod-ctx", r.Context)

	_, err = cfg.FindRelease("ghost-release")
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "ghost-release")
}

func TestFindContext_NotFoundNamesRelease(t *testing.T) {
	cfg := fixture()

	_, err := cfg.FindContext(cfg.Releases["broken"])
	require.ErrorIs(t, err, models.ErrNotFound)

	var pe *models.ProvisionError
	require.True(t, errors.As(err, &pe), "expected *models.ProvisionError, got %T", err)
	assert.Equal(t, "missing-ctx", pe.Name)
	assert.Equal(t, "release", pe.RefEntity)
	assert.Equal(t, "broken", pe.RefName)
}

func TestFindAuthAndCluster(t *testing.T) {
	cfg := fixture()
	ctx := cfg.Contexts["prod-ctx"]

	auth, err := cfg.FindAuth(ctx)
	require.NoError(t, err)
	assert.IsType(t, AwsSso{}, auth.Config)

	cluster, err := cfg.FindCluster(ctx)
	require.NoError(t, err)
	require.IsType(t, Eks{}, cluster.Config)
	assert.Equal(t, Eks{Name: "prod", Region: "us-east-1"}, cluster.Config)
}

func TestFindAuthAndCluster_Dangling(t *testing.T) {
	cfg := fixture()
	ctx := cfg.Contexts["dangling-ctx"]

	_, err := cfg.FindAuth(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `auth "nobody" referenced by context "dangling-ctx"`)

	_, err = cfg.FindCluster(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cluster "nowhere" referenced by context "dangling-ctx"`)
}

func TestReleaseNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"broken", "prod"}, fixture().ReleaseNames())
}
