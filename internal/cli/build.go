package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/branchmap/pkg/ancestry"
	"github.com/matzehuels/branchmap/pkg/errors"
	"github.com/matzehuels/branchmap/pkg/gitquery"
	"github.com/matzehuels/branchmap/pkg/graph"
	"github.com/matzehuels/branchmap/pkg/refs"
)

// buildOpts holds the command-line flags shared by the graph-building
// commands (build, show, serve).
type buildOpts struct {
	output        string // output file path, empty or "-" for stdout
	noReduce      bool   // keep redundant transitive edges
	cluster       bool   // preserve all names per commit for cluster rendering
	ignoreMissing bool   // skip references that don't resolve instead of failing
	interactive   bool   // pick references from a list when none are given
	noCache       bool   // bypass the merge-base cache
	concurrency   int    // merge-base worker pool size, 0 = from config
	quiet         bool   // no spinner, progress goes to the debug log (serve)
}

// registerBuildFlags wires the shared graph-building flags onto cmd.
func registerBuildFlags(cmd *cobra.Command, opts *buildOpts) {
	cmd.Flags().BoolVar(&opts.noReduce, "no-reduce", false, "keep redundant transitive edges")
	cmd.Flags().BoolVar(&opts.cluster, "cluster", false, "group all names sharing a commit")
	cmd.Flags().BoolVar(&opts.ignoreMissing, "ignore-missing", false, "skip references that don't exist")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick references interactively when none are given")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the merge-base cache")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "merge-base worker pool size (default from config)")
}

// newBuildCmd creates the build command, which discovers the ancestry graph
// for the given references and writes it as JSON.
func newBuildCmd(root *rootOpts) *cobra.Command {
	opts := &buildOpts{}

	cmd := &cobra.Command{
		Use:   "build [refs...]",
		Short: "Build the branch ancestry graph and write it as JSON",
		Long: `Build resolves the given branch, tag, or commit names, discovers every
merge-base commit needed to relate them, and writes the resulting ancestry
graph as JSON. Redundant transitive edges are removed unless --no-reduce
is given.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), root, opts, args)
		},
	}

	registerBuildFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runBuild(ctx context.Context, root *rootOpts, opts *buildOpts, refNames []string) error {
	g, err := buildForRefs(ctx, root, opts, refNames)
	if err != nil {
		return err
	}

	if opts.output == "" || opts.output == "-" {
		return graph.Write(g, os.Stdout)
	}
	if err := graph.WriteFile(g, opts.output); err != nil {
		return err
	}

	printSuccess("Built ancestry graph")
	printFile(opts.output)
	printStats(len(g.Vertices), len(g.Edges), 0)
	return nil
}

// buildForRefs resolves the reference names and runs ancestor discovery,
// returning the labeled (and, unless disabled, reduced) graph.
func buildForRefs(ctx context.Context, root *rootOpts, opts *buildOpts, refNames []string) (*graph.Graph, error) {
	logger := loggerFromContext(ctx)

	cfg, err := root.loadConfig()
	if err != nil {
		return nil, err
	}

	client := gitquery.NewClient(root.repoDir)

	if len(refNames) == 0 && opts.interactive {
		refNames, err = pickRefs(ctx, client)
		if err != nil {
			return nil, err
		}
	}
	if len(refNames) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no references given")
	}

	c, err := newCache(ctx, cfg, opts.noCache)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	q := gitquery.WithCache(client, c)

	prog := newProgress(logger)
	tips, namesByTip, err := resolveTips(ctx, logger, q, refNames, opts.ignoreMissing)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Resolved %d references to %d commits", len(refNames), len(tips)))

	concurrency := opts.concurrency
	if concurrency == 0 {
		concurrency = cfg.Concurrency
	}

	onProgress := func(round, done, total int) {
		logger.Debugf("Discovery round %d: %d/%d queries", round, done, total)
	}
	var sp *Spinner
	if !opts.quiet {
		sp = newSpinnerWithContext(ctx, "Discovering ancestors")
		sp.Start()
		onProgress = func(round, done, total int) {
			sp.SetMessage(fmt.Sprintf("Discovering ancestors (round %d: %d/%d queries)", round, done, total))
		}
	}

	g, err := ancestry.BuildGraph(ctx, q, tips, namesByTip, ancestry.Options{
		Concurrency:       concurrency,
		FallbackAbbrevLen: cfg.AbbrevLen,
		ClusterMode:       opts.cluster,
		Progress:          onProgress,
	})
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return nil, err
	}
	logger.Infof("Discovered %d vertices, %d raw edges", len(g.Vertices), len(g.Edges))

	if !opts.noReduce {
		before := len(g.Edges)
		g.Edges = graph.Reduce(g.Edges)
		logger.Debugf("Reduced edges: %d → %d", before, len(g.Edges))
	}
	return g, nil
}

// resolveTips maps each reference name to a commit id, deduplicating
// commits shared by several names while preserving input order.
func resolveTips(ctx context.Context, logger *log.Logger, q gitquery.Querier, refNames []string, ignoreMissing bool) ([]string, map[string][]string, error) {
	resolver := refs.NewResolver(q)

	var tips []string
	namesByTip := make(map[string][]string)

	for _, name := range refNames {
		if ignoreMissing {
			ok, err := resolver.Exists(ctx, name)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				logger.Warnf("Skipping unknown reference %q", name)
				continue
			}
		}

		id, err := resolver.Resolve(ctx, name)
		if err != nil {
			return nil, nil, err
		}

		if _, seen := namesByTip[id]; !seen {
			tips = append(tips, id)
		}
		if !slices.Contains(namesByTip[id], name) {
			namesByTip[id] = append(namesByTip[id], name)
		}
	}

	return tips, namesByTip, nil
}
