package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bzl2cmake/internal/converter"
	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Write bool
	Check bool
}

// errNotFormatted is returned by fmt --check.
var errNotFormatted = errors.New("BUILD file is not formatted")

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Format a BUILD file",
		Long: `Print a BUILD file in canonical buildifier layout. Comments are kept.

With --write the file is rewritten in place; with --check nothing is
printed and the command fails if the file is not already formatted.`,
		Example: `  # Show ./BUILD.bazel formatted
  bzl2cmake fmt

  # Format in place
  bzl2cmake fmt --build-file src/BUILD --write

  # Fail in CI when formatting is needed
  bzl2cmake fmt --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFmt(cmd, opts)
		},
	}

	addDescriptorFlags(cmd)
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Rewrite the file in place")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Fail if the file is not formatted")
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	return cmd
}

func runFmt(cmd *cobra.Command, opts *FmtOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	path := cmdCtx.Cfg.BuildFile

	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", converter.ErrBuildFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	formatted, err := descriptor.Format(path, src)
	if err != nil {
		return err
	}
	changed := !bytes.Equal(src, formatted)

	switch {
	case opts.Check:
		if changed {
			return fmt.Errorf("%w: %s", errNotFormatted, path)
		}
		return nil
	case opts.Write:
		if !changed {
			cmdCtx.Logger.Debug("already formatted", "file", path)
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, formatted, info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		cmdCtx.Renderer.Success("Formatted " + path)
		return nil
	default:
		_, err := cmdCtx.Renderer.Writer().Write(formatted)
		return err
	}
}
