package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/config"
	"github.com/leapstack-labs/bzl2cmake/internal/cli/output"
	"github.com/leapstack-labs/bzl2cmake/internal/converter"
	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context from the configuration loaded by the
// root command. A command run on its own loads configuration from its flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		var err error
		if cfg, err = config.LoadConfig("", cmd.Flags()); err != nil {
			return nil, err
		}
	}

	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// Frontend returns the configured descriptor frontend.
func (c *CommandContext) Frontend() descriptor.Frontend {
	// Validated when the configuration was loaded.
	f, _ := descriptor.ParseFrontend(c.Cfg.Parser)
	return f
}

// NewConverter creates a converter for the current configuration.
func (c *CommandContext) NewConverter() *converter.Converter {
	return converter.New(converter.Options{
		Frontend:  c.Frontend(),
		Generator: c.Cfg.GeneratorConfig(),
		Logger:    c.Logger,
	})
}

// addDescriptorFlags registers the flags that select and parse a descriptor.
func addDescriptorFlags(cmd *cobra.Command) {
	cmd.Flags().String("build-file", config.DefaultBuildFile, "Path to the Bazel BUILD file")
	addParserFlag(cmd)
}

func addParserFlag(cmd *cobra.Command) {
	cmd.Flags().String("parser", config.DefaultParser, "Descriptor parser (starlark|buildtools)")
	_ = cmd.RegisterFlagCompletionFunc("parser", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return descriptor.Frontends(), cobra.ShellCompDirectiveNoFileComp
	})
}

// targetInfos converts targets to their structured output form.
func targetInfos(targets []descriptor.Target) []output.TargetInfo {
	infos := make([]output.TargetInfo, 0, len(targets))
	for i := range targets {
		t := &targets[i]
		infos = append(infos, output.TargetInfo{
			Name:       t.Name,
			Rule:       t.Kind.RuleName(),
			Line:       t.Line,
			HeaderOnly: t.Kind == descriptor.KindLibrary && t.IsHeaderOnly(),
			Headers:    t.Headers,
			Sources:    t.Sources,
			Deps:       t.Deps,
			Visibility: t.Visibility,
			Data:       t.Data,
		})
	}
	return infos
}

// references flattens converter diagnostics into output references.
func references(res *converter.Result) (unresolved, missing []output.Reference) {
	for _, ref := range res.Unresolved {
		unresolved = append(unresolved, output.Reference{Target: ref.Target, Label: ref.Label})
	}
	for _, ref := range res.Missing {
		missing = append(missing, output.Reference{Target: ref.Target, Label: ref.Label})
	}
	return unresolved, missing
}
