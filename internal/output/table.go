package output

import (
	"fmt"
	"io"
	"strings"
)

// ANSI color codes for status output (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[0;32m"
	ansiYellow = "\033[0;33m"
	ansiRed    = "\033[0;31m"
)

// Release provisioning states shown in the STATUS column.
const (
	StatusReady   = "ready"
	StatusMissing = "missing"
	StatusUnknown = "unknown"
)

// ReleaseRow is one line of the releases table.
type ReleaseRow struct {
	Release   string `json:"release"`
	Context   string `json:"context"`
	Auth      string `json:"auth"`
	Cluster   string `json:"cluster"`
	Namespace string `json:"namespace,omitempty"`

	// Status is one of the Status* constants. Empty when not checked.
	Status string `json:"status,omitempty"`
}

// TableOptions controls which columns RenderReleases renders and how status
// is coloured.
type TableOptions struct {
	// Colored wraps status labels with ANSI codes. Default false (CI-safe).
	Colored bool

	// IncludeStatus adds a STATUS column reporting whether the release's
	// context is present in the kubeconfig.
	IncludeStatus bool
}

// statusCell returns the status padded to width characters.
// When colored, ANSI codes wrap only the text; trailing padding spaces are
// plain so subsequent columns stay aligned.
func statusCell(status string, width int, colored bool) string {
	if !colored {
		return fmt.Sprintf("%-*s", width, status)
	}
	var code string
	switch status {
	case StatusReady:
		code = ansiGreen
	case StatusMissing:
		code = ansiYellow
	case StatusUnknown:
		code = ansiRed
	default:
		return fmt.Sprintf("%-*s", width, status)
	}
	spaces := width - len(status)
	if spaces < 0 {
		spaces = 0
	}
	return code + status + ansiReset + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max runes for name columns.
// A single-char ellipsis replaces the last rune when truncation occurs.
func truncateField(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// RenderReleases writes a formatted releases table to w.
//
// Column order:
//
//	RELEASE  CONTEXT  AUTH  CLUSTER  NAMESPACE  [STATUS]
func RenderReleases(w io.Writer, rows []ReleaseRow, opts TableOptions) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No releases.")
		return
	}

	// Fixed column display widths.
	const (
		wRelease   = 24
		wContext   = 24
		wAuth      = 18
		wCluster   = 24
		wNamespace = 16
		wStatus    = 8
	)

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wRelease, "RELEASE"))
	hb.WriteString(fmt.Sprintf("  %-*s", wContext, "CONTEXT"))
	hb.WriteString(fmt.Sprintf("  %-*s", wAuth, "AUTH"))
	hb.WriteString(fmt.Sprintf("  %-*s", wCluster, "CLUSTER"))
	hb.WriteString(fmt.Sprintf("  %-*s", wNamespace, "NAMESPACE"))
	if opts.IncludeStatus {
		hb.WriteString(fmt.Sprintf("  %-*s", wStatus, "STATUS"))
	}
	header := strings.TrimRight(hb.String(), " ")

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range rows {
		ns := r.Namespace
		if ns == "" {
			ns = "-"
		}
		var rb strings.Builder
		rb.WriteString(fmt.Sprintf("%-*s", wRelease, truncateField(r.Release, wRelease)))
		rb.WriteString(fmt.Sprintf("  %-*s", wContext, truncateField(r.Context, wContext)))
		rb.WriteString(fmt.Sprintf("  %-*s", wAuth, truncateField(r.Auth, wAuth)))
		rb.WriteString(fmt.Sprintf("  %-*s", wCluster, truncateField(r.Cluster, wCluster)))
		rb.WriteString(fmt.Sprintf("  %-*s", wNamespace, truncateField(ns, wNamespace)))
		if opts.IncludeStatus {
			rb.WriteString("  " + statusCell(r.Status, wStatus, opts.Colored))
		}
		fmt.Fprintln(w, strings.TrimRight(rb.String(), " "))
	}
}
