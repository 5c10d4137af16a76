package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runDoctorWith points env's app at its config and kubeconfig and runs the
// doctor checks, returning the rendered output and result.
func runDoctorWith(t *testing.T, env *testEnv, format string) (string, DoctorResult) {
	t.Helper()
	env.app.v.Set(keyConfig, env.configPath)
	env.app.v.Set(keyKubeconfig, env.kubeconfig)

	var buf bytes.Buffer
	result, err := runDoctor(context.Background(), env.app, &buf, format)
	require.NoError(t, err, "render error")
	return buf.String(), result
}

func TestDoctorAllOK(t *testing.T) {
	env := newTestEnv(t)

	out, result := runDoctorWith(t, env, "table")
	assert.True(t, result.OverallHealthy, out)
	assert.Contains(t, out, "Config file: OK")
	assert.Contains(t, out, "Config valid: OK (2 releases)")
	assert.Contains(t, out, "Loadable: OK (0 contexts)")
	assert.Contains(t, out, "admin: OK (Account: 123456789012)")
	assert.Equal(t, []string{"admin"}, env.aws.profiles)
}

func TestDoctorProfileFailure(t *testing.T) {
	env := newTestEnv(t)
	env.aws.profileResult = nil
	env.aws.profileErr = errors.New("token has expired")

	out, result := runDoctorWith(t, env, "table")
	assert.False(t, result.OverallHealthy, "a failing profile is unhealthy")
	assert.Contains(t, out, "admin: FAIL (token has expired)")
}

func TestDoctorUnknownProfileFlagged(t *testing.T) {
	env := newTestEnv(t)
	env.app.discoverProfiles = func() ([]string, error) { return []string{"default"}, nil }

	out, result := runDoctorWith(t, env, "table")
	require.Len(t, result.Profiles, 1)
	assert.False(t, result.Profiles[0].Configured)
	assert.Contains(t, out, "admin (not in shared config): OK")
}

func TestDoctorProfileDiscoveryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.app.discoverProfiles = func() ([]string, error) {
		return nil, errors.New("open /home/dev/.aws/config: permission denied")
	}

	out, result := runDoctorWith(t, env, "table")
	assert.False(t, result.OverallHealthy)
	assert.Equal(t, "open /home/dev/.aws/config: permission denied", result.ProfileDiscoveryError)
	assert.Contains(t, out, "Shared config: FAIL (open /home/dev/.aws/config: permission denied)")
	assert.Contains(t, out, "admin: OK (Account: 123456789012)")
	assert.NotContains(t, out, "not in shared config", "membership is unknown when discovery fails")
}

func TestDoctorMissingConfigFile(t *testing.T) {
	env := newTestEnv(t)
	env.configPath = filepath.Join(t.TempDir(), "absent.yaml")

	out, result := runDoctorWith(t, env, "table")
	assert.False(t, result.Config.Present)
	assert.False(t, result.OverallHealthy)
	assert.Contains(t, out, "Config file: FAIL (not found: "+env.configPath+")")
}

func TestDoctorInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.configPath, []byte("releases:\n  prod:\n    context: nowhere\n"), 0o644))

	out, result := runDoctorWith(t, env, "table")
	assert.True(t, result.Config.Present)
	assert.False(t, result.Config.Valid)
	assert.False(t, result.OverallHealthy)
	assert.Contains(t, out, "Config file: OK")
	assert.Contains(t, out, "Config valid: FAIL")
	assert.Contains(t, out, "Profiles: FAIL (skipped)")
	assert.Empty(t, env.aws.profiles, "profiles must not be checked without a valid config")
}

func TestDoctorBrokenKubeconfig(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(env.kubeconfig), 0o755))
	require.NoError(t, os.WriteFile(env.kubeconfig, []byte("clusters: [: not yaml"), 0o600))

	out, result := runDoctorWith(t, env, "table")
	assert.False(t, result.Kubeconfig.OK)
	assert.False(t, result.OverallHealthy)
	assert.Contains(t, out, "Loadable: FAIL")
}

func TestDoctorMergedKubeconfigList(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run("prepare", "prod")
	require.NoError(t, err)

	other := filepath.Join(t.TempDir(), "other")
	t.Setenv("KUBECONFIG", other+string(filepath.ListSeparator)+env.kubeconfig)
	env.app.v.Set(keyConfig, env.configPath)
	env.app.v.Set(keyKubeconfig, "")

	var buf bytes.Buffer
	result, err := runDoctor(context.Background(), env.app, &buf, "table")
	require.NoError(t, err)
	assert.Equal(t, []string{other, env.kubeconfig}, result.Kubeconfig.Files)
	assert.Equal(t, 1, result.Kubeconfig.Contexts, "contexts from every listed file are counted")
}

func TestDoctorJSON(t *testing.T) {
	env := newTestEnv(t)

	out, _ := runDoctorWith(t, env, "json")
	var decoded DoctorResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.True(t, decoded.OverallHealthy)
	assert.True(t, decoded.Config.Valid)
	assert.Equal(t, []string{env.kubeconfig}, decoded.Kubeconfig.Files)
	require.Len(t, decoded.Profiles, 1)
	assert.Equal(t, "123456789012", decoded.Profiles[0].AccountID)
}
