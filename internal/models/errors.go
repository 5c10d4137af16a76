package models

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a provisioning failure so callers can branch on the
// category with errors.Is without parsing messages.
type ErrorKind string

const (
	// KindNotFound indicates an unknown release, context, auth or cluster name.
	KindNotFound ErrorKind = "not_found"
	// KindUnsupportedCombination indicates an auth/cluster pairing or a
	// cluster variant that has no materialization strategy.
	KindUnsupportedCombination ErrorKind = "unsupported_combination"
	// KindCloudQuery indicates a cloud provider API, network or response failure.
	KindCloudQuery ErrorKind = "cloud_query"
	// KindDecode indicates malformed certificate authority data.
	KindDecode ErrorKind = "decode"
	// KindStore indicates a context store existence check or write failure.
	KindStore ErrorKind = "store"
	// KindResource indicates a temporary file create, write or cleanup failure.
	KindResource ErrorKind = "resource"
)

// Sentinels for errors.Is. A ProvisionError matches a sentinel when the
// kinds are equal.
var (
	ErrNotFound               = &ProvisionError{Kind: KindNotFound}
	ErrUnsupportedCombination = &ProvisionError{Kind: KindUnsupportedCombination}
	ErrCloudQuery             = &ProvisionError{Kind: KindCloudQuery}
	ErrDecode                 = &ProvisionError{Kind: KindDecode}
	ErrStore                  = &ProvisionError{Kind: KindStore}
	ErrResource               = &ProvisionError{Kind: KindResource}
)

// ProvisionError is the single error type returned by the provisioning
// core. It names the entity involved and, for lookups, the entity that
// referenced it.
type ProvisionError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Op is the operation that failed, e.g. "create cluster".
	Op string

	// Entity is the type of the entity involved ("release", "context",
	// "auth", "cluster", "file").
	Entity string

	// Name is the name of the entity involved.
	Name string

	// RefEntity and RefName identify the entity holding the reference that
	// could not be resolved. Empty for top-level lookups.
	RefEntity string
	RefName   string

	// Detail is an extra human-readable explanation.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ProvisionError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	if e.Entity != "" {
		fmt.Fprintf(&b, "%s %q", e.Entity, e.Name)
	}
	if e.RefEntity != "" {
		fmt.Fprintf(&b, " referenced by %s %q", e.RefEntity, e.RefName)
	}

	switch e.Kind {
	case KindNotFound:
		b.WriteString(": not found")
	case KindUnsupportedCombination:
		b.WriteString(": unsupported combination")
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if b.Len() == 0 {
		return string(e.Kind)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ProvisionError of the same kind.
func (e *ProvisionError) Is(target error) bool {
	t, ok := target.(*ProvisionError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewNotFound reports that entity name could not be resolved. refEntity and
// refName may be empty when the lookup was not made through a reference.
func NewNotFound(entity, name, refEntity, refName string) *ProvisionError {
	return &ProvisionError{
		Kind:      KindNotFound,
		Entity:    entity,
		Name:      name,
		RefEntity: refEntity,
		RefName:   refName,
	}
}

// NewUnsupportedCombination reports that an auth/cluster pairing has no
// materialization strategy for entity name.
func NewUnsupportedCombination(op, entity, name, authType, clusterType string) *ProvisionError {
	return &ProvisionError{
		Kind:   KindUnsupportedCombination,
		Op:     op,
		Entity: entity,
		Name:   name,
		Detail: fmt.Sprintf("auth type %s with cluster type %s", authType, clusterType),
	}
}

// NewUnsupportedCluster reports that a cluster variant has no resolution
// strategy.
func NewUnsupportedCluster(clusterName, clusterType string) *ProvisionError {
	return &ProvisionError{
		Kind:   KindUnsupportedCombination,
		Op:     "create",
		Entity: "cluster",
		Name:   clusterName,
		Detail: fmt.Sprintf("cluster type %s", clusterType),
	}
}

// NewCloudQueryError wraps a failure while querying the cloud control plane
// for cluster name.
func NewCloudQueryError(op, clusterName string, err error) *ProvisionError {
	return &ProvisionError{
		Kind:   KindCloudQuery,
		Op:     op,
		Entity: "cluster",
		Name:   clusterName,
		Err:    err,
	}
}

// NewDecodeError wraps a failure to decode the certificate authority of
// cluster name.
func NewDecodeError(clusterName string, err error) *ProvisionError {
	return &ProvisionError{
		Kind:   KindDecode,
		Op:     "decode certificate authority for",
		Entity: "cluster",
		Name:   clusterName,
		Err:    err,
	}
}

// NewStoreError wraps a context store failure.
func NewStoreError(op, entity, name string, err error) *ProvisionError {
	return &ProvisionError{
		Kind:   KindStore,
		Op:     op,
		Entity: entity,
		Name:   name,
		Err:    err,
	}
}

// NewResourceError wraps a temporary file failure at path.
func NewResourceError(op, path string, err error) *ProvisionError {
	return &ProvisionError{
		Kind:   KindResource,
		Op:     op,
		Entity: "file",
		Name:   path,
		Err:    err,
	}
}
