package models

// ManagedCluster is the live connection data of a cloud-managed Kubernetes
// cluster as reported by the provider's control plane.
type ManagedCluster struct {
	// Name is the provider-side cluster name.
	Name string

	// Region is the provider region hosting the cluster.
	Region string

	// Endpoint is the API server URL.
	Endpoint string

	// CertificateAuthority is the base64-encoded PEM bundle of the cluster CA,
	// exactly as returned by the provider.
	CertificateAuthority string
}
