package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfigFile(dir))

	alt := filepath.Join(dir, ConfigFileNameAlt)
	require.NoError(t, os.WriteFile(alt, []byte("project_name: x\n"), 0o600))
	assert.Equal(t, alt, FindConfigFile(dir))

	primary := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(primary, []byte("project_name: y\n"), 0o600))
	assert.Equal(t, primary, FindConfigFile(dir), "yaml wins over yml")
}

func TestFindConfigFile_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ConfigFileName), 0o750))
	assert.Empty(t, FindConfigFile(dir))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	assert.Empty(t, FindProjectRoot(nested))

	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), nil, 0o600))
	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, root, FindProjectRoot(root))
}

func TestCMakeConfig_GeneratorConfig(t *testing.T) {
	cfg := DefaultCMakeConfig().GeneratorConfig("demo")
	assert.Equal(t, "demo", cfg.ProjectName)
	assert.Equal(t, "3.20", cfg.MinimumVersion)
	assert.Equal(t, "20", cfg.CXXStandard)
	assert.Equal(t, "v1.14.0", cfg.GoogleTestTag)

	partial := CMakeConfig{CXXStandard: "17"}.GeneratorConfig("")
	assert.Equal(t, "17", partial.CXXStandard)
	assert.Empty(t, partial.MinimumVersion)
}
