package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/config"
	"github.com/leapstack-labs/bzl2cmake/internal/converter"
	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string)
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			wantFiles: []string{"bzl2cmake.yaml"},
		},
		{
			name: "init existing config without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "bzl2cmake.yaml"), []byte("project_name: keep\n"), 0o600))
			},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "bzl2cmake.yaml"), []byte("project_name: keep\n"), 0o600))
			},
			args:      []string{"--force"},
			wantFiles: []string{"bzl2cmake.yaml"},
		},
		{
			name: "init example",
			args: []string{"--example"},
			wantFiles: []string{
				"bzl2cmake.yaml",
				"BUILD.bazel",
				"greeter.cc",
				"greeter.h",
				"strings.h",
				"main.cc",
				"greeter_test.cc",
				".gitignore",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			_, _, err := execute(t, NewInitCommand(), tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(tmpDir, f))
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
	assert.NotNil(t, cmd.Flags().Lookup("example"))
}

func TestInitCreatesLoadableConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, NewInitCommand(), "project")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("project", "bzl2cmake.yaml"))
	assert.Contains(t, out, "bzl2cmake initialized!")

	config.ResetConfig()
	cfg, err := config.LoadConfig(filepath.Join("project", "bzl2cmake.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "my_project", cfg.ProjectName)
	assert.Equal(t, "starlark", cfg.Parser)
	assert.Equal(t, "20", cfg.CMake.CXXStandard)
}

func TestInitExampleConverts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "greeter")
	t.Chdir(filepath.Dir(dir))

	_, _, err := execute(t, NewInitCommand(), dir, "--example")
	require.NoError(t, err)

	res, err := converter.New(converter.Options{}).Convert(filepath.Join(dir, "BUILD.bazel"))
	require.NoError(t, err)
	require.Len(t, res.Targets, 4)
	assert.Equal(t, descriptor.KindLibrary, res.Targets[0].Kind)
	assert.True(t, res.Targets[0].IsHeaderOnly())
	assert.Empty(t, res.Unresolved)
	assert.Empty(t, res.Missing)
	assert.Contains(t, res.Script, "GTest::gtest_main")
}
