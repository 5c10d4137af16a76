package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "flightctl.yaml"

// fileConfig mirrors the on-disk layout. Entity names are map keys.
type fileConfig struct {
	Releases map[string]fileRelease `yaml:"releases"`
	Contexts map[string]fileContext `yaml:"contexts"`
	Auths    map[string]fileAuth    `yaml:"auths"`
	Clusters map[string]fileCluster `yaml:"clusters"`
}

type fileRelease struct {
	Context string `yaml:"context"`
}

type fileContext struct {
	Auth      string `yaml:"auth"`
	Cluster   string `yaml:"cluster"`
	Namespace string `yaml:"namespace"`
}

type fileAuth struct {
	Type string `yaml:"type"`
}

type fileCluster struct {
	Type   string `yaml:"type"`
	Name   string `yaml:"name"`
	Region string `yaml:"region"`
}

// Load reads, parses and validates the configuration file at path. An empty
// path selects the first existing file from DefaultPaths.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindDefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document. Unknown keys and
// unknown variant types are rejected.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := fc.toConfig()
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (fc fileConfig) toConfig() (*Config, error) {
	cfg := &Config{
		Releases: make(map[string]Release, len(fc.Releases)),
		Contexts: make(map[string]Context, len(fc.Contexts)),
		Auths:    make(map[string]Auth, len(fc.Auths)),
		Clusters: make(map[string]Cluster, len(fc.Clusters)),
	}

	for name, r := range fc.Releases {
		cfg.Releases[name] = Release{Name: name, Context: r.Context}
	}
	for name, c := range fc.Contexts {
		cfg.Contexts[name] = Context{Name: name, Auth: c.Auth, Cluster: c.Cluster, Namespace: c.Namespace}
	}

	var errs []error
	for _, name := range sortedKeys(fc.Auths) {
		ac, err := fc.Auths[name].toAuthConfig()
		if err != nil {
			errs = append(errs, fmt.Errorf("auth %q: %w", name, err))
			continue
		}
		cfg.Auths[name] = Auth{Name: name, Config: ac}
	}
	for _, name := range sortedKeys(fc.Clusters) {
		cc, err := fc.Clusters[name].toClusterConfig()
		if err != nil {
			errs = append(errs, fmt.Errorf("cluster %q: %w", name, err))
			continue
		}
		cfg.Clusters[name] = Cluster{Name: name, Config: cc}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (a fileAuth) toAuthConfig() (AuthConfig, error) {
	switch a.Type {
	case AuthTypeAwsSso:
		return AwsSso{}, nil
	case "":
		return nil, errors.New("missing type")
	default:
		return nil, fmt.Errorf("unknown auth type %q", a.Type)
	}
}

func (c fileCluster) toClusterConfig() (ClusterConfig, error) {
	switch c.Type {
	case ClusterTypeEks:
		return Eks{Name: c.Name, Region: c.Region}, nil
	case "":
		return nil, errors.New("missing type")
	default:
		return nil, fmt.Errorf("unknown cluster type %q", c.Type)
	}
}

// Validate checks that every reference in cfg resolves and that variant
// fields are populated. All problems are reported together.
func Validate(cfg *Config) error {
	var errs []error

	if len(cfg.Releases) == 0 {
		errs = append(errs, errors.New("no releases defined"))
	}

	for _, name := range sortedKeys(cfg.Releases) {
		r := cfg.Releases[name]
		if r.Context == "" {
			errs = append(errs, fmt.Errorf("release %q has no context", name))
			continue
		}
		if _, err := cfg.FindContext(r); err != nil {
			errs = append(errs, err)
		}
	}

	for _, name := range sortedKeys(cfg.Contexts) {
		c := cfg.Contexts[name]
		if c.Auth == "" {
			errs = append(errs, fmt.Errorf("context %q has no auth", name))
		} else if _, err := cfg.FindAuth(c); err != nil {
			errs = append(errs, err)
		}
		if c.Cluster == "" {
			errs = append(errs, fmt.Errorf("context %q has no cluster", name))
		} else if _, err := cfg.FindCluster(c); err != nil {
			errs = append(errs, err)
		}
	}

	for _, name := range sortedKeys(cfg.Clusters) {
		if eks, ok := cfg.Clusters[name].Config.(Eks); ok {
			if eks.Name == "" {
				errs = append(errs, fmt.Errorf("cluster %q: eks name is required", name))
			}
			if eks.Region == "" {
				errs = append(errs, fmt.Errorf("cluster %q: eks region is required", name))
			}
		}
	}

	return errors.Join(errs...)
}

// DefaultPaths returns the candidate configuration file locations in lookup
// order: the working directory, $XDG_CONFIG_HOME/flightctl and
// ~/.config/flightctl.
func DefaultPaths() []string {
	paths := []string{filepath.Join(".", DefaultFileName)}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "flightctl", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "flightctl", "config.yaml"))
	}
	return paths
}

// FindDefaultPath returns the first existing file from DefaultPaths, or the
// working directory candidate when none exists.
func FindDefaultPath() string {
	paths := DefaultPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return paths[0]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
