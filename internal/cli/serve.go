package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/branchmap/internal/server"
	"github.com/matzehuels/branchmap/pkg/gitquery"
	"github.com/matzehuels/branchmap/pkg/graph"
	"github.com/matzehuels/branchmap/pkg/render"
)

// newServeCmd creates the serve command: a local preview server that
// rebuilds and pushes the graph whenever the repository's refs change.
func newServeCmd(root *rootOpts) *cobra.Command {
	opts := &buildOpts{quiet: true}
	var addr string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "serve [refs...]",
		Short: "Serve a live preview of the ancestry graph",
		Long: `Serve builds the ancestry graph, serves it as SVG on a local port, and
rebuilds it whenever the repository's references change. Without explicit
references all local branches are graphed, so branches created while the
server runs appear automatically.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, opts, addr, detailed, args)
		},
	}

	registerBuildFlags(cmd, opts)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include commit ids in node labels")

	return cmd
}

func runServe(ctx context.Context, root *rootOpts, opts *buildOpts, addr string, detailed bool, refNames []string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	client := gitquery.NewClient(root.repoDir)
	gitDir, err := client.GitDir(ctx)
	if err != nil {
		return err
	}

	build := func(ctx context.Context) (*graph.Graph, error) {
		names := refNames
		if len(names) == 0 {
			var err error
			names, err = client.ListRefs(ctx, "refs/heads")
			if err != nil {
				return nil, err
			}
		}
		return buildForRefs(ctx, root, opts, names)
	}

	renderSVG := func(ctx context.Context, g *graph.Graph) ([]byte, error) {
		dot := render.ToDOT(g, render.Options{
			Cluster:  opts.cluster || g.Clustered,
			Detailed: detailed,
		})
		return render.SVG(ctx, dot)
	}

	srv := server.New(server.Config{
		Addr:   addr,
		GitDir: gitDir,
		Build:  build,
		Render: renderSVG,
		Logger: loggerFromContext(ctx),
	})
	return srv.Run(ctx)
}
