package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/branchmap/pkg/errors"
	"github.com/matzehuels/branchmap/pkg/graph"
	"github.com/matzehuels/branchmap/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path, "-" for stdout
	format   string // output format: dot, svg, png, json
	cluster  bool   // group all names sharing a commit into DOT clusters
	detailed bool   // include commit ids in node labels
	reduce   bool   // apply transitive reduction before rendering
}

// newRenderCmd creates the render command, which loads a serialized graph
// and emits it in the requested format.
func newRenderCmd(root *rootOpts) *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a stored ancestry graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: derived from input)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, png, json (default from config)")
	cmd.Flags().BoolVar(&opts.cluster, "cluster", false, "group all names sharing a commit")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include commit ids in node labels")
	cmd.Flags().BoolVar(&opts.reduce, "reduce", false, "remove redundant transitive edges before rendering")

	return cmd
}

func runRender(ctx context.Context, root *rootOpts, opts *renderOpts, input string) error {
	logger := loggerFromContext(ctx)

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	format := opts.format
	if format == "" {
		format = cfg.Format
	}
	if !render.ValidFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be dot, svg, png, or json)", format)
	}

	g, err := graph.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded graph: %d vertices, %d edges", len(g.Vertices), len(g.Edges))

	if opts.reduce {
		before := len(g.Edges)
		g.Edges = graph.Reduce(g.Edges)
		logger.Debugf("Reduced edges: %d → %d", before, len(g.Edges))
	}

	data, err := renderGraph(ctx, g, format, opts.cluster, opts.detailed)
	if err != nil {
		return err
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := writeOutput(outputPath, data); err != nil {
		return err
	}
	if outputPath != "-" {
		printSuccess("Rendered %s", format)
		printFile(outputPath)
	}
	return nil
}

// renderGraph emits g in the requested format.
// Cluster rendering is used when asked for explicitly or when the graph was
// built in cluster mode.
func renderGraph(ctx context.Context, g *graph.Graph, format string, cluster, detailed bool) ([]byte, error) {
	dotOpts := render.Options{Cluster: cluster || g.Clustered, Detailed: detailed}

	switch format {
	case "dot":
		return []byte(render.ToDOT(g, dotOpts)), nil
	case "svg":
		return render.SVG(ctx, render.ToDOT(g, dotOpts))
	case "png":
		return render.PNG(ctx, render.ToDOT(g, dotOpts))
	case "json":
		return graph.Marshal(g)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
}

// writeOutput writes data to path, or stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
