package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/flightctl/internal/config"
	kube "github.com/pankaj-dahiya-devops/flightctl/internal/providers/kubernetes"
)

// ProfileCheck is the diagnostic result for one AwsSso auth profile.
type ProfileCheck struct {
	Auth        string `json:"auth"`
	Configured  bool   `json:"configured"`
	Credentials bool   `json:"credentials_ok"`
	AccountID   string `json:"account_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// DoctorResult is the structured output of flightctl doctor. It can be
// serialised to JSON via --format=json or rendered as a human-readable table
// (default).
type DoctorResult struct {
	Config struct {
		Path     string   `json:"path,omitempty"`
		Present  bool     `json:"present"`
		Valid    bool     `json:"valid"`
		Releases int      `json:"releases"`
		Errors   []string `json:"errors,omitempty"`
	} `json:"config"`

	Kubeconfig struct {
		Files          []string `json:"files"`
		OK             bool     `json:"ok"`
		Contexts       int      `json:"contexts"`
		CurrentContext string   `json:"current_context,omitempty"`
		Error          string   `json:"error,omitempty"`
	} `json:"kubeconfig"`

	// ProfileDiscoveryError is set when the AWS shared config files could
	// not be read; Configured is then meaningless for every profile.
	ProfileDiscoveryError string         `json:"profile_discovery_error,omitempty"`
	Profiles              []ProfileCheck `json:"profiles"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, kubeconfig and AWS profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			result, err := runDoctor(cmd.Context(), a, cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result. The returned error covers only
// rendering failures; callers inspect result.OverallHealthy.
func runDoctor(ctx context.Context, a *app, w io.Writer, format string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, a)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks and populates a
// DoctorResult. It performs no rendering.
func collectDoctorResult(ctx context.Context, a *app) DoctorResult {
	var result DoctorResult

	// Config: locate → parse → validate.
	result.Config.Path = a.v.GetString(keyConfig)
	if result.Config.Path == "" {
		result.Config.Path = config.FindDefaultPath()
	}
	if _, err := os.Stat(result.Config.Path); err == nil {
		result.Config.Present = true
	}
	cfg, err := a.loadConfig()
	if err != nil {
		result.Config.Errors = []string{err.Error()}
	} else {
		result.Config.Valid = true
		result.Config.Releases = len(cfg.Releases)
	}

	// Kubeconfig: missing files are fine, prepare creates them.
	result.Kubeconfig.Files = kube.KubeconfigFiles(a.kubeconfig())
	raw, err := kube.LoadRawConfig(a.kubeconfig())
	if err != nil {
		result.Kubeconfig.Error = err.Error()
	} else {
		result.Kubeconfig.OK = true
		result.Kubeconfig.Contexts = len(raw.Contexts)
		result.Kubeconfig.CurrentContext = raw.CurrentContext
	}

	// AWS: every AwsSso auth must name a profile that yields credentials.
	profilesHealthy := true
	if cfg != nil {
		known, err := a.discoverProfiles()
		if err != nil {
			result.ProfileDiscoveryError = err.Error()
			profilesHealthy = false
		}
		provider := a.awsProvider()
		for _, name := range awsSsoAuths(cfg) {
			check := ProfileCheck{Auth: name, Configured: slices.Contains(known, name)}
			profile, err := provider.LoadProfile(ctx, name)
			if err != nil {
				check.Error = err.Error()
				profilesHealthy = false
			} else {
				check.Credentials = true
				check.AccountID = profile.AccountID
			}
			result.Profiles = append(result.Profiles, check)
		}
	}

	result.OverallHealthy = result.Config.Valid &&
		result.Kubeconfig.OK &&
		profilesHealthy

	return result
}

// awsSsoAuths returns the names of all AwsSso auths in cfg, sorted.
func awsSsoAuths(cfg *config.Config) []string {
	var names []string
	for name, auth := range cfg.Auths {
		if _, ok := auth.Config.(config.AwsSso); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	fmt.Fprintln(w, "\nConfiguration:")
	if !result.Config.Present {
		doctorPrint(w, "Config file", "FAIL", "not found: "+result.Config.Path)
	} else {
		doctorPrint(w, "Config file", "OK", result.Config.Path)
	}
	if result.Config.Valid {
		doctorPrint(w, "Config valid", "OK", fmt.Sprintf("%d releases", result.Config.Releases))
	} else {
		for _, e := range result.Config.Errors {
			doctorPrint(w, "Config valid", "FAIL", e)
		}
	}

	fmt.Fprintf(w, "\nKubeconfig (%s):\n", strings.Join(result.Kubeconfig.Files, string(filepath.ListSeparator)))
	if !result.Kubeconfig.OK {
		doctorPrint(w, "Loadable", "FAIL", result.Kubeconfig.Error)
	} else {
		doctorPrint(w, "Loadable", "OK", fmt.Sprintf("%d contexts", result.Kubeconfig.Contexts))
		if result.Kubeconfig.CurrentContext != "" {
			doctorPrint(w, "Current Context", "OK", result.Kubeconfig.CurrentContext)
		}
	}

	fmt.Fprintln(w, "\nAWS profiles:")
	if !result.Config.Valid {
		doctorPrint(w, "Profiles", "FAIL", "skipped")
		return
	}
	if result.ProfileDiscoveryError != "" {
		doctorPrint(w, "Shared config", "FAIL", result.ProfileDiscoveryError)
	}
	if len(result.Profiles) == 0 {
		doctorPrint(w, "Profiles", "OK", "no aws-sso auths")
		return
	}
	for _, p := range result.Profiles {
		label := p.Auth
		if !p.Configured && result.ProfileDiscoveryError == "" {
			label += " (not in shared config)"
		}
		if p.Credentials {
			doctorPrint(w, label, "OK", "Account: "+p.AccountID)
		} else {
			doctorPrint(w, label, "FAIL", p.Error)
		}
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
