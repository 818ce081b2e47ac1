package converter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bzl2cmake/internal/cmake"
	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
)

// writeTree creates files relative to a temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func TestFindBuildFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"BUILD.bazel":            "",
		"lib/BUILD":              "",
		"lib/BUILD.bazel":        "",
		"lib/sub/BUILD":          "",
		"docs/README.md":         "",
		".git/BUILD":             "",
		"bazel-out/k8/BUILD":     "",
		"tools/BUILD.bazel/keep": "",
	})

	files, err := FindBuildFiles(root)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"BUILD.bazel", "lib/BUILD.bazel", "lib/sub/BUILD"}, rel)
}

func TestConvertTree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"BUILD.bazel":      `cc_library(name = "core", srcs = ["core.cc"])`,
		"net/http/BUILD":   `cc_library(name = "http", hdrs = ["http.h"], deps = ["//:core"])`,
		"docs/BUILD.bazel": `filegroup(name = "docs", srcs = ["a.md"])`,
	})

	results, err := ConvertTree(context.Background(), root, TreeOptions{
		Options: Options{Generator: cmake.Config{ProjectName: "demo"}},
		Jobs:    2,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, ".", results[0].Package)
	assert.Equal(t, "docs", results[1].Package)
	assert.True(t, results[1].Skipped)
	assert.Nil(t, results[1].Result)
	assert.Equal(t, "net/http", results[2].Package)

	rootScript, err := os.ReadFile(filepath.Join(root, "CMakeLists.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(rootScript), "project(demo LANGUAGES CXX)")

	httpScript, err := os.ReadFile(filepath.Join(root, "net", "http", "CMakeLists.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(httpScript), "project(demo_net_http LANGUAGES CXX)")
	assert.Contains(t, string(httpScript), "add_library(http INTERFACE)")
	assert.Equal(t, string(httpScript), results[2].Script)

	assert.NoFileExists(t, filepath.Join(root, "docs", "CMakeLists.txt"))
}

func TestConvertTree_DryRunAndOutputName(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a/BUILD": `cc_binary(name = "a", srcs = ["a.cc"])`,
	})

	results, err := ConvertTree(context.Background(), root, TreeOptions{
		Options:    Options{Frontend: descriptor.FrontendBuildtools},
		OutputName: "generated.cmake",
		DryRun:     true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(root, "a", "generated.cmake"), results[0].Output)
	assert.Contains(t, results[0].Script, "project("+cmake.DefaultProjectName+"_a LANGUAGES CXX)")
	assert.NoFileExists(t, results[0].Output)
}

func TestConvertTree_Errors(t *testing.T) {
	t.Run("no descriptors", func(t *testing.T) {
		_, err := ConvertTree(context.Background(), t.TempDir(), TreeOptions{})
		require.ErrorIs(t, err, ErrBuildFileNotFound)
	})

	t.Run("malformed package", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"good/BUILD": `cc_library(name = "good")`,
			"bad/BUILD":  `cc_library(name = `,
		})
		_, err := ConvertTree(context.Background(), root, TreeOptions{Jobs: 1})
		require.ErrorIs(t, err, descriptor.ErrMalformedDescriptor)
		assert.Contains(t, err.Error(), "bad")
	})

	t.Run("cancelled context", func(t *testing.T) {
		root := writeTree(t, map[string]string{"BUILD": `cc_library(name = "x")`})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ConvertTree(ctx, root, TreeOptions{})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestPackageProjectName(t *testing.T) {
	assert.Equal(t, "demo", packageProjectName("demo", "."))
	assert.Equal(t, "demo_a_b", packageProjectName("demo", "a/b"))
	assert.Equal(t, "demo_third_party_zlib_1_3", packageProjectName("demo", "third-party/zlib-1.3"))
	assert.Equal(t, cmake.DefaultProjectName+"_x", packageProjectName("", "x"))
}
