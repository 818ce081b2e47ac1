package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	intconfig "github.com/leapstack-labs/bzl2cmake/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a bzl2cmake.yaml",
		Long: `Create a bzl2cmake.yaml configuration file with the default settings.

Use --example to also create a small C++ project (a header-only library,
a compiled library, a binary and a GoogleTest test) with its BUILD.bazel,
ready to convert.`,
		Example: `  # Initialize in current directory
  bzl2cmake init

  # Create a working example project
  bzl2cmake init greeter --example

  # Force overwrite existing config
  bzl2cmake init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(cmd, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create an example C++ project")

	return cmd
}

func runInit(cmd *cobra.Command, dir, template string, force bool) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if existing := intconfig.FindConfigFile(dir); existing != "" && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", existing)
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, err := listTemplateFiles(template)
	if err != nil {
		return err
	}
	for _, f := range files {
		r.StatusLine(filepath.Join(dir, filepath.FromSlash(f)), "success", "")
	}

	r.Println("")
	r.Success("bzl2cmake initialized!")
	r.Println("")
	r.Println("Next steps:")
	if template == "example" {
		r.Println("  bzl2cmake convert    Generate CMakeLists.txt")
		r.Println("  bzl2cmake graph      Show the target dependency graph")
		r.Println("  bzl2cmake doctor     Check the BUILD file")
	} else {
		r.Println("  1. Set project_name in " + intconfig.ConfigFileName)
		r.Println("  2. Run 'bzl2cmake inspect' to see the targets of your BUILD file")
		r.Println("  3. Run 'bzl2cmake convert' to generate CMakeLists.txt")
	}
	return nil
}
