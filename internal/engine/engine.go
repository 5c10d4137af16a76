// Package engine provisions kubeconfig contexts for configured releases.
//
// Given a release, the engine checks whether its context already exists in
// the context store. If not, it ensures the user entry (keyed by the context
// name) and the cluster entry (keyed by the cluster name) exist, fetching
// live cluster data from the cloud provider when needed, and finally writes
// the context that binds them.
//
// Every step checks existence before writing, so repeated runs are cheap and
// a run that failed halfway resumes from the first missing entry. Nothing
// that was written is rolled back on failure.
package engine

import (
	"context"
	"io"

	"github.com/go-logr/logr"
)

// DefaultExecAPIVersion is the client.authentication.k8s.io version written
// into exec credential entries. `aws eks get-token` emits v1beta1 tokens.
const DefaultExecAPIVersion = "client.authentication.k8s.io/v1beta1"

// Engine is the provisioning interface consumed by the CLI.
type Engine interface {
	// Prepare ensures a usable kubeconfig context exists for release.
	Prepare(ctx context.Context, release string) error

	// PrepareAll runs Prepare for each release in order and stops at the
	// first failure.
	PrepareAll(ctx context.Context, releases []string) error

	// Plan reports what Prepare would write for release without writing
	// anything or querying the cloud provider.
	Plan(ctx context.Context, release string) (*Plan, error)
}

// Options configures a DefaultEngine.
type Options struct {
	// ExecAPIVersion overrides DefaultExecAPIVersion.
	ExecAPIVersion string

	// Out receives human-readable progress notices. Defaults to io.Discard.
	Out io.Writer

	// Logger receives structured diagnostics. Defaults to a discard logger.
	Logger logr.Logger

	// TempDir is where temporary certificate authority files are created.
	// Empty selects os.TempDir.
	TempDir string
}

// Action is a single kubeconfig entry that Prepare would create.
type Action struct {
	// Kind is "auth", "cluster" or "context".
	Kind string

	// Name is the kubeconfig entry name.
	Name string
}

// Plan is the dry-run result for one release.
type Plan struct {
	Release string
	Context string

	// Actions lists pending writes in execution order. Empty when the
	// context is already present.
	Actions []Action
}

// UpToDate reports whether Prepare would do nothing.
func (p *Plan) UpToDate() bool {
	return len(p.Actions) == 0
}
