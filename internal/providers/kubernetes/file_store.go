package kubernetes

import (
	"context"
	"fmt"
	"os"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
)

// FileStore edits kubeconfig files directly through client-go, with the same
// file selection and merge rules as `kubectl config`.
type FileStore struct {
	pathOptions *clientcmd.PathOptions
}

// NewFileStore returns a FileStore for the kubeconfig at kubeconfigPath.
// When the path is empty, $KUBECONFIG and ~/.kube/config are used.
func NewFileStore(kubeconfigPath string) *FileStore {
	po := clientcmd.NewDefaultPathOptions()
	if kubeconfigPath != "" {
		po.LoadingRules.ExplicitPath = kubeconfigPath
	}
	return &FileStore{pathOptions: po}
}

func (s *FileStore) load(op, entity, name string) (*clientcmdapi.Config, error) {
	cfg, err := s.pathOptions.GetStartingConfig()
	if err != nil {
		return nil, models.NewStoreError(op, entity, name, err)
	}
	return cfg, nil
}

// ContextExists implements ContextStore.
func (s *FileStore) ContextExists(_ context.Context, name string) (bool, error) {
	cfg, err := s.load("check", "context", name)
	if err != nil {
		return false, err
	}
	_, ok := cfg.Contexts[name]
	return ok, nil
}

// AuthExists implements ContextStore.
func (s *FileStore) AuthExists(_ context.Context, name string) (bool, error) {
	cfg, err := s.load("check", "auth", name)
	if err != nil {
		return false, err
	}
	_, ok := cfg.AuthInfos[name]
	return ok, nil
}

// ClusterExists implements ContextStore.
func (s *FileStore) ClusterExists(_ context.Context, name string) (bool, error) {
	cfg, err := s.load("check", "cluster", name)
	if err != nil {
		return false, err
	}
	_, ok := cfg.Clusters[name]
	return ok, nil
}

// CreateContext implements ContextStore.
func (s *FileStore) CreateContext(_ context.Context, entry models.ContextEntry) error {
	return s.modify("create", "context", entry.Name, func(cfg *clientcmdapi.Config) error {
		if _, ok := cfg.AuthInfos[entry.AuthInfo]; !ok {
			return fmt.Errorf("user %q does not exist", entry.AuthInfo)
		}
		if _, ok := cfg.Clusters[entry.Cluster]; !ok {
			return fmt.Errorf("cluster %q does not exist", entry.Cluster)
		}

		c := clientcmdapi.NewContext()
		c.AuthInfo = entry.AuthInfo
		c.Cluster = entry.Cluster
		c.Namespace = entry.Namespace
		cfg.Contexts[entry.Name] = c
		return nil
	})
}

// CreateAuth implements ContextStore.
func (s *FileStore) CreateAuth(_ context.Context, name string, cred models.ExecCredential) error {
	return s.modify("create", "auth", name, func(cfg *clientcmdapi.Config) error {
		env := make([]clientcmdapi.ExecEnvVar, 0, len(cred.Env))
		for _, e := range cred.Env {
			env = append(env, clientcmdapi.ExecEnvVar{Name: e.Name, Value: e.Value})
		}

		a := clientcmdapi.NewAuthInfo()
		a.Exec = &clientcmdapi.ExecConfig{
			APIVersion:      cred.APIVersion,
			Command:         cred.Command,
			Args:            append([]string(nil), cred.Args...),
			Env:             env,
			InteractiveMode: clientcmdapi.IfAvailableExecInteractiveMode,
		}
		cfg.AuthInfos[name] = a
		return nil
	})
}

// CreateCluster implements ContextStore.
func (s *FileStore) CreateCluster(_ context.Context, name string, entry models.ClusterEntry) error {
	return s.modify("create", "cluster", name, func(cfg *clientcmdapi.Config) error {
		c := clientcmdapi.NewCluster()
		c.Server = entry.Server

		switch {
		case entry.CertificateAuthority == "":
		case entry.EmbedCerts:
			data, err := os.ReadFile(entry.CertificateAuthority)
			if err != nil {
				return fmt.Errorf("read certificate authority: %w", err)
			}
			c.CertificateAuthorityData = data
		default:
			c.CertificateAuthority = entry.CertificateAuthority
		}

		cfg.Clusters[name] = c
		return nil
	})
}

// modify loads the starting config, applies fn and writes the result back
// to the file each entry originated from.
func (s *FileStore) modify(op, entity, name string, fn func(*clientcmdapi.Config) error) error {
	cfg, err := s.load(op, entity, name)
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return models.NewStoreError(op, entity, name, err)
	}
	if err := clientcmd.ModifyConfig(s.pathOptions, *cfg, true); err != nil {
		return models.NewStoreError(op, entity, name, err)
	}
	return nil
}
