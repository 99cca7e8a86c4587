package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/branchmap/internal/config"
	"github.com/matzehuels/branchmap/pkg/buildinfo"
)

// rootOpts holds the persistent flags shared by every command.
type rootOpts struct {
	repoDir    string // repository to operate on (git -C semantics)
	configPath string // explicit config file, empty for the default location
}

// loadConfig reads the configuration file honoring the --config flag.
func (o *rootOpts) loadConfig() (config.Config, error) {
	return config.Load(o.configPath)
}

// Execute runs the branchmap CLI and returns an error if any command fails.
//
// The root command wires up all subcommands (build, render, show, serve,
// cache, completion), configures logging based on --verbose, and attaches
// the logger to the command context where every command retrieves it via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:          appName,
		Short:        "branchmap explains how your branches relate",
		Long:         `branchmap discovers the common ancestors of a set of branches, tags, or commits and draws the resulting ancestry graph, reduced to the edges that matter.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.repoDir, "repo", "C", "", "path to the git repository (default: current directory)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ~/.config/branchmap/config.toml)")

	root.AddCommand(newBuildCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newShowCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
