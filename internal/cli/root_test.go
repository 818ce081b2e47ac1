package cli

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/config"
	"github.com/leapstack-labs/bzl2cmake/internal/cli/output"
	"github.com/leapstack-labs/bzl2cmake/internal/cli/testutil"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"convert", "batch", "inspect", "graph", "fmt", "doctor", "rules", "init", "version", "completion"}, names)

	for _, flag := range []string{"config", "verbose", "format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "persistent flag %q should exist", flag)
	}
}

func TestRootCmd_PreRunStoresContext(t *testing.T) {
	t.Cleanup(config.ResetConfig)
	buildFile := testutil.SetupBuildFile(t, testutil.SampleBuild)

	root := NewRootCmd()
	var seen context.Context
	probe := &cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seen = cmd.Context()
			return nil
		},
	}
	probe.Flags().String("build-file", "", "")
	root.AddCommand(probe)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"probe", "--build-file", buildFile, "--format", "json", "-v"})
	require.NoError(t, root.Execute())
	require.NotNil(t, seen)

	cfg := GetConfig(seen)
	assert.Equal(t, buildFile, cfg.BuildFile)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.Verbose)

	assert.Equal(t, output.ModeJSON, GetRenderer(seen).EffectiveMode())
	assert.True(t, config.GetLogger(seen).Enabled(seen, slog.LevelDebug))
}

func TestRootCmd_InvalidConfigFile(t *testing.T) {
	t.Cleanup(config.ResetConfig)
	missing := filepath.Join(t.TempDir(), "bzl2cmake.yaml")

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", missing, "inspect"})
	assert.Error(t, root.Execute())
}

func TestGetConfigAndRenderer_Fallbacks(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, config.Default(), GetConfig(ctx))
	assert.NotNil(t, GetRenderer(ctx))
}

func TestCompletionCommand(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "bzl2cmake")

	root = NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})
	assert.Error(t, root.Execute())
}
