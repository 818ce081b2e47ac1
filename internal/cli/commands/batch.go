package commands

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/config"
	"github.com/leapstack-labs/bzl2cmake/internal/cli/output"
	"github.com/leapstack-labs/bzl2cmake/internal/converter"
)

// BatchOptions holds options for the batch command.
type BatchOptions struct {
	Jobs   int
	DryRun bool
}

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	opts := &BatchOptions{}

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Convert every BUILD file under a directory",
		Long: `Find every package under a directory and write a CMakeLists.txt next
to each BUILD.bazel (or BUILD) file. Packages are converted in parallel.

Hidden directories and bazel-* output trees are skipped. Packages without
cc_library, cc_test or cc_binary rules are reported and left alone. Below
the root, each project is named after the configured project name and the
package path.`,
		Example: `  # Convert the current workspace
  bzl2cmake batch

  # Preview a subtree as JSON
  bzl2cmake batch src --dry-run --format json

  # Limit parallelism
  bzl2cmake batch --jobs 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runBatch(cmd, root, opts)
		},
	}

	addParserFlag(cmd)
	cmd.Flags().String("project-name", config.DefaultProjectName, "Base CMake project name")
	cmd.Flags().String("cmake-minimum-version", "", "cmake_minimum_required version (default 3.20)")
	cmd.Flags().String("cxx-standard", "", "CMAKE_CXX_STANDARD value (default 20)")
	cmd.Flags().String("googletest-tag", "", "GoogleTest git tag fetched by FetchContent (default v1.14.0)")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", runtime.NumCPU(), "Packages converted in parallel")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would be generated without writing")

	return cmd
}

func runBatch(cmd *cobra.Command, root string, opts *BatchOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	results, err := converter.ConvertTree(cmd.Context(), root, converter.TreeOptions{
		Options: converter.Options{
			Frontend:  cmdCtx.Frontend(),
			Generator: cmdCtx.Cfg.GeneratorConfig(),
			Logger:    cmdCtx.Logger,
		},
		OutputName: filepath.Base(cmdCtx.Cfg.OutputFile),
		Jobs:       opts.Jobs,
		DryRun:     opts.DryRun,
	})
	if err != nil {
		return err
	}

	structured := output.BatchOutput{Root: root, DryRun: opts.DryRun}
	for i := range results {
		structured.Packages = append(structured.Packages, packageInfo(&results[i]))
	}
	if ok, err := r.Structured(structured); ok {
		return err
	}

	r.Header(1, fmt.Sprintf("Packages under %s (%d total)", root, len(results)))

	rows := make([][]string, 0, len(structured.Packages))
	converted := 0
	for _, pkg := range structured.Packages {
		status := pkg.Output
		switch {
		case pkg.Skipped:
			status = "skipped: no targets"
		case opts.DryRun:
			status = "would write " + pkg.Output
			converted++
		default:
			converted++
		}
		rows = append(rows, []string{pkg.Package, strconv.Itoa(pkg.Targets), strconv.Itoa(len(pkg.Unresolved) + len(pkg.Missing)), status})
	}
	r.Table([]string{"Package", "Targets", "Warnings", "Output"}, rows)

	if opts.DryRun {
		r.Muted(fmt.Sprintf("%d of %d packages would be converted", converted, len(results)))
		return nil
	}
	r.Success(fmt.Sprintf("Converted %d of %d packages", converted, len(results)))
	return nil
}

func packageInfo(pr *converter.PackageResult) output.PackageInfo {
	info := output.PackageInfo{Package: pr.Package, BuildFile: pr.BuildFile, Skipped: pr.Skipped}
	if pr.Result == nil {
		return info
	}
	info.Output = pr.Output
	info.Targets = len(pr.Targets)
	info.Unresolved, info.Missing = references(pr.Result)
	return info
}
