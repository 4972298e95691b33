// Package cli wires the oscript cobra command tree: run, repl, and
// trace inspect (spec.md §6 "CLI").
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/oscript-lang/oscript/internal/config"
)

var (
	tracePath  string
	configPath string
)

// Execute builds the root command, runs it, and returns the process exit
// code (spec.md §6: 0 success, 65 scan/parse/runtime error, 70 internal).
func Execute() int {
	root := newRootCmd()

	goFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(goFlags)
	root.PersistentFlags().AddGoFlagSet(goFlags)
	pflag.CommandLine.AddGoFlagSet(goFlags)

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		if ce, ok := err.(*cliError); ok {
			return ce.code
		}
		fmt.Fprintln(os.Stderr, err)
		return 70
	}
	return exitCode
}

// exitCode is set by a subcommand's RunE before returning, since cobra
// itself only distinguishes error/no-error.
var exitCode int

// cliError carries an explicit process exit code through cobra's error
// path.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "oscript",
		Short: "O-script: a small dynamically-typed language with per-object time travel",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	root.AddCommand(newRunCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newTraceCmd())
	return root
}

func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		klog.ErrorS(err, "failed to load config, using defaults")
		return config.Default()
	}
	return cfg
}
