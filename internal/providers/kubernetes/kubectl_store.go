package kubernetes

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
)

// CommandRunner runs an external command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// KubectlStore provisions entries by invoking `kubectl config`. It is useful
// when kubectl plugins or wrappers manage the kubeconfig layout.
type KubectlStore struct {
	binary         string
	kubeconfigPath string
	run            CommandRunner
}

// NewKubectlStore returns a KubectlStore that runs the kubectl found on PATH.
func NewKubectlStore(kubeconfigPath string) *KubectlStore {
	return NewKubectlStoreWithRunner(kubeconfigPath, execRunner)
}

// NewKubectlStoreWithRunner returns a KubectlStore that uses run to execute
// kubectl. Pass a fake runner in tests.
func NewKubectlStoreWithRunner(kubeconfigPath string, run CommandRunner) *KubectlStore {
	return &KubectlStore{binary: "kubectl", kubeconfigPath: kubeconfigPath, run: run}
}

// ContextExists implements ContextStore.
func (s *KubectlStore) ContextExists(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, "contexts", "context", name)
}

// AuthExists implements ContextStore.
func (s *KubectlStore) AuthExists(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, "users", "auth", name)
}

// ClusterExists implements ContextStore.
func (s *KubectlStore) ClusterExists(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, "clusters", "cluster", name)
}

// CreateContext implements ContextStore.
func (s *KubectlStore) CreateContext(ctx context.Context, entry models.ContextEntry) error {
	args := append([]string{"set-context", entry.Name}, entry.KubectlArgs()...)
	if _, err := s.kubectl(ctx, args...); err != nil {
		return models.NewStoreError("create", "context", entry.Name, err)
	}
	return nil
}

// CreateAuth implements ContextStore.
func (s *KubectlStore) CreateAuth(ctx context.Context, name string, cred models.ExecCredential) error {
	args := append([]string{"set-credentials", name}, cred.KubectlArgs()...)
	if _, err := s.kubectl(ctx, args...); err != nil {
		return models.NewStoreError("create", "auth", name, err)
	}
	return nil
}

// CreateCluster implements ContextStore.
func (s *KubectlStore) CreateCluster(ctx context.Context, name string, entry models.ClusterEntry) error {
	args := append([]string{"set-cluster", name}, entry.KubectlArgs()...)
	if _, err := s.kubectl(ctx, args...); err != nil {
		return models.NewStoreError("create", "cluster", name, err)
	}
	return nil
}

// exists lists the names under field of the merged kubeconfig and reports
// whether name is among them.
func (s *KubectlStore) exists(ctx context.Context, field, entity, name string) (bool, error) {
	out, err := s.kubectl(ctx, "view", "-o", "jsonpath={."+field+"[*].name}")
	if err != nil {
		return false, models.NewStoreError("check", entity, name, err)
	}
	for _, n := range strings.Fields(string(out)) {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *KubectlStore) kubectl(ctx context.Context, args ...string) ([]byte, error) {
	full := []string{"config"}
	if s.kubeconfigPath != "" {
		full = append(full, "--kubeconfig", s.kubeconfigPath)
	}
	full = append(full, args...)
	return s.run(ctx, s.binary, full...)
}

// execRunner is the production CommandRunner. Stderr is folded into the
// returned error so kubectl's own diagnostics reach the user.
func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
