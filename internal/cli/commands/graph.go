package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/output"
	"github.com/leapstack-labs/bzl2cmake/internal/dag"
)

// GraphOptions holds options for the graph command.
type GraphOptions struct {
	Target     string
	Upstream   bool
	Downstream bool
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	opts := &GraphOptions{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the local dependency graph",
		Long: `Display the dependency graph between the targets of a BUILD file.

Targets are grouped by level: level 0 targets have no local dependencies,
and every other target sits one level above its deepest dependency.
Only references to targets declared in the same file are edges. The command
fails when the dependencies form a cycle.`,
		Example: `  # Show the whole graph
  bzl2cmake graph

  # Show one target with its dependencies and dependents
  bzl2cmake graph --target utils

  # Only what utils depends on, as JSON
  bzl2cmake graph --target utils --downstream=false --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, opts)
		},
	}

	addDescriptorFlags(cmd)
	cmd.Flags().StringVar(&opts.Target, "target", "", "Limit the graph to one target and its neighborhood")
	cmd.Flags().BoolVar(&opts.Upstream, "upstream", true, "With --target, include its dependencies")
	cmd.Flags().BoolVar(&opts.Downstream, "downstream", true, "With --target, include its dependents")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *GraphOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	res, err := cmdCtx.NewConverter().Load(cmdCtx.Cfg.BuildFile)
	if err != nil {
		return err
	}

	graph, missing := dag.FromTargets(res.Targets)
	if opts.Target != "" {
		if _, ok := graph.GetNode(opts.Target); !ok {
			return fmt.Errorf("target %q is not declared in %s", opts.Target, res.BuildFile)
		}
		graph = graph.Subgraph(neighborhood(graph, opts))
	}

	levels, err := graph.GetExecutionLevels()
	if err != nil {
		return fmt.Errorf("failed to get dependency levels: %w", err)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		_, err := r.Structured(graphOutput(graph, levels, missing))
		return err
	case output.ModeMarkdown:
		graphMarkdown(r, graph, levels)
	default:
		graphText(r, graph, levels)
	}
	return nil
}

// neighborhood returns the focus target plus the requested directions.
func neighborhood(graph *dag.Graph, opts *GraphOptions) []string {
	ids := []string{opts.Target}
	if opts.Upstream {
		ids = append(ids, graph.GetUpstreamNodes(opts.Target)...)
	}
	if opts.Downstream {
		ids = append(ids, graph.GetAffectedNodes([]string{opts.Target})...)
	}
	return ids
}

func ruleOf(graph *dag.Graph, id string) string {
	if n, ok := graph.GetNode(id); ok && n.Target != nil {
		return n.Target.Kind.RuleName()
	}
	return ""
}

// graphText outputs the graph in styled text format.
func graphText(r *output.Renderer, graph *dag.Graph, levels [][]string) {
	styles := r.Styles()

	r.Header(1, "Dependency Graph")

	for i, level := range levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, id := range level {
			r.Printf("  %s %s\n", styles.Target.Render(id), styles.Kind.Render("("+ruleOf(graph, id)+")"))
			if deps := graph.GetParents(id); len(deps) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("depends on:"), strings.Join(deps, ", "))
			}
			if children := graph.GetChildren(id); len(children) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("used by:"), strings.Join(children, ", "))
			}
		}
		r.Println("")
	}

	r.Muted(fmt.Sprintf("Total: %d targets, %d dependencies", graph.NodeCount(), graph.EdgeCount()))
}

// graphMarkdown outputs the graph in markdown format.
func graphMarkdown(r *output.Renderer, graph *dag.Graph, levels [][]string) {
	r.Println(output.FormatHeader(1, "Dependency Graph"))
	r.Println("")

	for i, level := range levels {
		name := fmt.Sprintf("Level %d", i)
		if i == 0 {
			name = "Level 0 (No local dependencies)"
		}
		r.Println(output.FormatHeader(2, name))

		for _, id := range level {
			r.Printf("- %s (%s)\n", id, ruleOf(graph, id))
			if deps := graph.GetParents(id); len(deps) > 0 {
				r.Printf("  - depends on: %s\n", strings.Join(deps, ", "))
			}
			if children := graph.GetChildren(id); len(children) > 0 {
				r.Printf("  - used by: %s\n", strings.Join(children, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Targets", fmt.Sprintf("%d", graph.NodeCount())))
	r.Println(output.FormatKeyValue("Total Dependencies", fmt.Sprintf("%d", graph.EdgeCount())))
}

func graphOutput(graph *dag.Graph, levels [][]string, missing []dag.MissingRef) output.GraphOutput {
	out := output.GraphOutput{
		Levels:       make([]output.GraphLevel, 0, len(levels)),
		TotalTargets: graph.NodeCount(),
		TotalEdges:   graph.EdgeCount(),
	}

	for i, level := range levels {
		gl := output.GraphLevel{Level: i, Targets: make([]output.GraphNode, 0, len(level))}
		for _, id := range level {
			gl.Targets = append(gl.Targets, output.GraphNode{
				Name:      id,
				Rule:      ruleOf(graph, id),
				DependsOn: graph.GetParents(id),
				UsedBy:    graph.GetChildren(id),
			})
		}
		out.Levels = append(out.Levels, gl)
	}

	for _, ref := range missing {
		out.Missing = append(out.Missing, output.Reference{Target: ref.Target, Label: ref.Label})
	}
	return out
}
