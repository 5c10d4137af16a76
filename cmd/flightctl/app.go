package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pankaj-dahiya-devops/flightctl/internal/config"
	"github.com/pankaj-dahiya-devops/flightctl/internal/engine"
	"github.com/pankaj-dahiya-devops/flightctl/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/flightctl/internal/providers/aws/eks"
	kube "github.com/pankaj-dahiya-devops/flightctl/internal/providers/kubernetes"
)

// Setting keys shared by flags, environment variables and viper lookups.
const (
	keyConfig         = "config"
	keyKubeconfig     = "kubeconfig"
	keyStore          = "store"
	keyExecAPIVersion = "exec-api-version"
	keyVerbose        = "verbose"
)

// app carries process-wide settings and the constructors for external
// collaborators. Tests replace the constructors with fakes.
type app struct {
	v *viper.Viper

	awsProvider      func() common.AWSClientProvider
	newResolver      func(common.AWSClientProvider) eks.Resolver
	newKubeProvider  func(kubeconfigPath string) kube.KubeClientProvider
	discoverProfiles func() ([]string, error)
}

func newApp() *app {
	return &app{
		v: viper.New(),
		awsProvider: func() common.AWSClientProvider {
			return common.NewDefaultAWSClientProvider()
		},
		newResolver: func(p common.AWSClientProvider) eks.Resolver {
			return eks.NewDefaultResolver(p)
		},
		newKubeProvider: func(path string) kube.KubeClientProvider {
			return kube.NewDefaultKubeClientProvider(path)
		},
		discoverProfiles: common.DiscoverProfileNames,
	}
}

// bindFlags registers the persistent flags on root and binds them to
// FLIGHTCTL_* environment variables.
func (a *app) bindFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.String(keyConfig, "", "release configuration file (default: auto-detect)")
	pf.String(keyKubeconfig, "", "kubeconfig file to provision (default: $KUBECONFIG or ~/.kube/config)")
	pf.String(keyStore, kube.StoreFile, `context store backend: "file" or "kubectl"`)
	pf.String(keyExecAPIVersion, engine.DefaultExecAPIVersion, "apiVersion written into exec credential entries")
	pf.BoolP(keyVerbose, "v", false, "enable diagnostic logging on stderr")

	for _, name := range []string{keyConfig, keyKubeconfig, keyStore, keyExecAPIVersion, keyVerbose} {
		if err := a.v.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", name, err))
		}
	}

	a.v.SetEnvPrefix("FLIGHTCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
}

// loadConfig loads the release configuration selected by --config.
func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(a.v.GetString(keyConfig))
}

// kubeconfig returns --kubeconfig as given. Empty selects the merged
// $KUBECONFIG list or ~/.kube/config, as kubectl does.
func (a *app) kubeconfig() string {
	return a.v.GetString(keyKubeconfig)
}

// store returns the context store selected by --store.
func (a *app) store() (kube.ContextStore, error) {
	return kube.NewStore(a.v.GetString(keyStore), a.kubeconfig())
}

// logger returns a logr.Logger writing to w when --verbose is set and a
// discard logger otherwise.
func (a *app) logger(w io.Writer) logr.Logger {
	if !a.v.GetBool(keyVerbose) {
		return logr.Discard()
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: 1}).WithName("flightctl")
}

// newEngine wires a provisioning engine for cfg. Progress notices go to
// progress.
func (a *app) newEngine(cfg *config.Config, progress io.Writer) (*engine.DefaultEngine, error) {
	store, err := a.store()
	if err != nil {
		return nil, err
	}
	return engine.NewDefaultEngine(cfg, store, a.newResolver(a.awsProvider()), engine.Options{
		ExecAPIVersion: a.v.GetString(keyExecAPIVersion),
		Out:            progress,
		Logger:         a.logger(progress),
	}), nil
}
