package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/branchmap/pkg/errors"
	"github.com/matzehuels/branchmap/pkg/render"
)

// newShowCmd creates the show command: build and render in one step.
func newShowCmd(root *rootOpts) *cobra.Command {
	opts := &buildOpts{}
	var format string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "show [refs...]",
		Short: "Build and render the ancestry graph in one step",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), root, opts, format, detailed, args)
		},
	}

	registerBuildFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: branches.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot, svg, png, json (default from config)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include commit ids in node labels")

	return cmd
}

func runShow(ctx context.Context, root *rootOpts, opts *buildOpts, format string, detailed bool, refNames []string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if format == "" {
		format = cfg.Format
	}
	if !render.ValidFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be dot, svg, png, or json)", format)
	}

	g, err := buildForRefs(ctx, root, opts, refNames)
	if err != nil {
		return err
	}

	data, err := renderGraph(ctx, g, format, opts.cluster, detailed)
	if err != nil {
		return err
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = "branches." + format
	}
	if err := writeOutput(outputPath, data); err != nil {
		return err
	}
	if outputPath != "-" {
		printSuccess("Rendered ancestry graph")
		printFile(outputPath)
		printStats(len(g.Vertices), len(g.Edges), 0)
	}
	return nil
}
