package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/config"
	"github.com/leapstack-labs/bzl2cmake/internal/cli/output"
	"github.com/leapstack-labs/bzl2cmake/internal/converter"
)

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	DryRun bool
	Watch  bool
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Generate CMakeLists.txt from a BUILD file",
		Long: `Translate the cc_library, cc_test and cc_binary rules of a Bazel BUILD
file into a CMakeLists.txt.

Local dependencies become target_link_libraries entries, GoogleTest
dependencies pull GoogleTest in with FetchContent, and other external
dependencies are dropped with a warning.`,
		Example: `  # Convert ./BUILD.bazel into ./CMakeLists.txt
  bzl2cmake convert

  # Choose input, output and project name
  bzl2cmake convert --build-file src/BUILD --output src/CMakeLists.txt --project-name mylib

  # Print the script instead of writing it
  bzl2cmake convert --dry-run

  # Regenerate whenever the BUILD file changes
  bzl2cmake convert --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(cmd, opts)
		},
	}

	addDescriptorFlags(cmd)
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile, "Output CMakeLists.txt path")
	cmd.Flags().String("project-name", config.DefaultProjectName, "CMake project name")
	cmd.Flags().String("cmake-minimum-version", "", "cmake_minimum_required version (default 3.20)")
	cmd.Flags().String("cxx-standard", "", "CMAKE_CXX_STANDARD value (default 20)")
	cmd.Flags().String("googletest-tag", "", "GoogleTest git tag fetched by FetchContent (default v1.14.0)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the generated script instead of writing it")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Regenerate when the BUILD file changes")

	return cmd
}

func runConvert(cmd *cobra.Command, opts *ConvertOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	conv := cmdCtx.NewConverter()
	if err := convertOnce(cmdCtx, conv, opts); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndConvert(ctx, cmdCtx, conv, opts)
}

func watchAndConvert(ctx context.Context, cmdCtx *CommandContext, conv *converter.Converter, opts *ConvertOptions) error {
	buildFile := cmdCtx.Cfg.BuildFile
	w, err := converter.NewWatcher(buildFile, converter.DefaultDebounce, cmdCtx.Logger)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	_, _ = fmt.Fprintf(r.ErrWriter(), "Watching %s for changes (Ctrl+C to stop)\n", buildFile)

	return w.Run(ctx, func() {
		if err := convertOnce(cmdCtx, conv, opts); err != nil {
			r.Error(err.Error())
		}
	})
}

// convertOnce translates the configured BUILD file and writes or prints the
// result.
func convertOnce(cmdCtx *CommandContext, conv *converter.Converter, opts *ConvertOptions) error {
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	res, err := conv.Convert(cfg.BuildFile)
	if err != nil {
		return err
	}

	if !opts.DryRun {
		if err := converter.Write(cfg.OutputFile, res); err != nil {
			return err
		}
	}

	unresolved, missing := references(res)
	structured := output.ConvertOutput{
		BuildFile:  res.BuildFile,
		DryRun:     opts.DryRun,
		Targets:    targetInfos(res.Targets),
		Unresolved: unresolved,
		Missing:    missing,
	}
	if opts.DryRun {
		structured.Script = res.Script
	} else {
		structured.Output = cfg.OutputFile
	}
	if ok, err := r.Structured(structured); ok {
		return err
	}

	// The summary goes to stderr when stdout carries the script.
	summary := r.Writer()
	if opts.DryRun {
		summary = r.ErrWriter()
	}
	printSummary(summary, res)

	if opts.DryRun {
		r.Println(res.Script)
		return nil
	}
	r.Success("Generated " + cfg.OutputFile)
	return nil
}

func printSummary(w io.Writer, res *converter.Result) {
	_, _ = fmt.Fprintf(w, "Found %d targets:\n", len(res.Targets))
	for i := range res.Targets {
		t := &res.Targets[i]
		_, _ = fmt.Fprintf(w, "  - %s: %s\n", t.Kind.RuleName(), t.Name)
	}
}
