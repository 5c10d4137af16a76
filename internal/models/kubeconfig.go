package models

// EnvVar is a single environment override passed to an exec credential plugin.
type EnvVar struct {
	Name  string
	Value string
}

// ExecCredential describes an exec-based credential plugin registration for
// a kubeconfig user entry.
type ExecCredential struct {
	// APIVersion is the client.authentication.k8s.io version the plugin speaks.
	APIVersion string

	// Command is the executable invoked to obtain a token.
	Command string

	// Args are passed to Command in order.
	Args []string

	// Env holds environment overrides for the plugin process.
	Env []EnvVar
}

// KubectlArgs renders the credential as `kubectl config set-credentials`
// flags.
func (c ExecCredential) KubectlArgs() []string {
	args := []string{"--exec-api-version", c.APIVersion}
	for _, a := range c.Args {
		args = append(args, "--exec-arg", a)
	}
	args = append(args, "--exec-command", c.Command)
	for _, e := range c.Env {
		args = append(args, "--exec-env", e.Name+"="+e.Value)
	}
	return args
}

// ClusterEntry describes a kubeconfig cluster entry.
type ClusterEntry struct {
	// Server is the API server URL.
	Server string

	// CertificateAuthority is a filesystem path to the PEM encoded CA bundle.
	CertificateAuthority string

	// EmbedCerts stores the CA bundle contents inline instead of the path.
	EmbedCerts bool
}

// KubectlArgs renders the entry as `kubectl config set-cluster` flags.
func (c ClusterEntry) KubectlArgs() []string {
	var args []string
	if c.EmbedCerts {
		args = append(args, "--embed-certs")
	}
	args = append(args, "--server", c.Server)
	if c.CertificateAuthority != "" {
		args = append(args, "--certificate-authority", c.CertificateAuthority)
	}
	return args
}

// ContextEntry describes a kubeconfig context entry binding a user and a
// cluster entry by name.
type ContextEntry struct {
	Name      string
	AuthInfo  string
	Cluster   string
	Namespace string
}

// KubectlArgs renders the entry as `kubectl config set-context` flags. The
// context name itself is passed positionally and is not included.
func (c ContextEntry) KubectlArgs() []string {
	args := []string{"--user", c.AuthInfo, "--cluster", c.Cluster}
	if c.Namespace != "" {
		args = append(args, "--namespace", c.Namespace)
	}
	return args
}
