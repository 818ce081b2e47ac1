package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/output"
	"github.com/leapstack-labs/bzl2cmake/internal/converter"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the targets a BUILD file declares",
		Long: `Parse a BUILD file and show the targets the converter would see,
with their sources, headers and dependencies.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format
Use --format json or --format yaml for machine-readable output.`,
		Example: `  # Inspect ./BUILD.bazel
  bzl2cmake inspect

  # Inspect another file as YAML
  bzl2cmake inspect --build-file src/BUILD --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd)
		},
	}

	addDescriptorFlags(cmd)
	return cmd
}

func runInspect(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	res, err := cmdCtx.NewConverter().Load(cmdCtx.Cfg.BuildFile)
	if err != nil {
		return err
	}

	unresolved, missing := references(res)
	if ok, err := r.Structured(output.InspectOutput{
		File:       res.BuildFile,
		Targets:    targetInfos(res.Targets),
		Unresolved: unresolved,
		Missing:    missing,
	}); ok {
		return err
	}

	r.Header(1, fmt.Sprintf("Targets in %s (%d total)", res.BuildFile, len(res.Targets)))
	if len(res.Targets) == 0 {
		r.Muted(converter.ErrNoTargets.Error())
		return nil
	}

	rows := make([][]string, 0, len(res.Targets))
	for _, info := range targetInfos(res.Targets) {
		rows = append(rows, []string{
			info.Rule,
			info.Name,
			strconv.Itoa(info.Line),
			joinOrDash(info.Sources),
			joinOrDash(info.Headers),
			joinOrDash(info.Deps),
		})
	}
	r.Table([]string{"Rule", "Name", "Line", "Srcs", "Hdrs", "Deps"}, rows)

	if len(unresolved)+len(missing) > 0 {
		r.Println("")
		r.Header(2, "Reference warnings")
		for _, ref := range unresolved {
			r.Println(output.FormatKeyValue(ref.Target, ref.Label+" (dropped: unsupported external)"))
		}
		for _, ref := range missing {
			r.Println(output.FormatKeyValue(ref.Target, ref.Label+" (not declared in this file)"))
		}
	}
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
