// Package config holds the declarative model of releases, contexts, auth
// profiles and clusters, and the loader that builds it from YAML.
//
// A Config is loaded once at process start and never mutated afterwards;
// provisioning only reads from it.
package config

// Variant tags used in the configuration file.
const (
	AuthTypeAwsSso = "aws-sso"
	ClusterTypeEks = "eks"
)

// Release identifies a target environment and the kubeconfig context it maps to.
type Release struct {
	Name    string
	Context string
}

// Context binds an auth profile and a cluster, optionally scoped to a namespace.
type Context struct {
	Name      string
	Auth      string
	Cluster   string
	Namespace string
}

// Auth is a named credential profile.
type Auth struct {
	Name   string
	Config AuthConfig
}

// AuthConfig is the provider-specific part of an Auth. The set of
// implementations is closed to this package.
type AuthConfig interface {
	// Type returns the configuration file tag of the variant.
	Type() string
	authConfig()
}

// AwsSso authenticates through an AWS SSO backed profile. The owning Auth's
// name is used as the AWS profile name.
type AwsSso struct{}

func (AwsSso) Type() string { return AuthTypeAwsSso }
func (AwsSso) authConfig()  {}

// Cluster is a named kubeconfig cluster entry.
type Cluster struct {
	Name   string
	Config ClusterConfig
}

// ClusterConfig is the provider-specific part of a Cluster. The set of
// implementations is closed to this package.
type ClusterConfig interface {
	// Type returns the configuration file tag of the variant.
	Type() string
	clusterConfig()
}

// Eks is an AWS EKS managed cluster.
type Eks struct {
	// Name is the EKS cluster name.
	Name string

	// Region is the AWS region hosting the cluster.
	Region string
}

func (Eks) Type() string   { return ClusterTypeEks }
func (Eks) clusterConfig() {}

// Config is the aggregate root of the model. Map keys are entity names and
// always equal the Name field of the stored value.
type Config struct {
	Releases map[string]Release
	Contexts map[string]Context
	Auths    map[string]Auth
	Clusters map[string]Cluster
}
