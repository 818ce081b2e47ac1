package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	for _, name := range []string{"index", "convert", "batch", "inspect", "graph", "fmt", "doctor", "rules", "init", "version"} {
		assert.FileExists(t, filepath.Join(dir, name+".md"))
	}
	assert.NoFileExists(t, filepath.Join(dir, "help.md"))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "| [`convert`](/cli/convert) |")
	assert.Contains(t, string(index), "`BZL2CMAKE_CMAKE__MINIMUM_VERSION`")

	convert, err := os.ReadFile(filepath.Join(dir, "convert.md"))
	require.NoError(t, err)
	assert.Contains(t, string(convert), "# convert")
	assert.Contains(t, string(convert), "bzl2cmake convert [flags]")
	assert.Contains(t, string(convert), "`--dry-run`")
	assert.Contains(t, string(convert), "## Global Options")
}

func TestGenerateRuleDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateRuleDocs(dir))

	data, err := os.ReadFile(filepath.Join(dir, "rules.md"))
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "## References {#references}")
	assert.Contains(t, doc, "### BS01: ")
	assert.Contains(t, doc, "- **Severity**: `error`")
}

func TestCleanExample(t *testing.T) {
	assert.Equal(t, "a\n  b", cleanExample("    a\n      b\n"))
	assert.Equal(t, "x", cleanExample("x"))
}

func TestMarkdownTableEscapesPipes(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A"}, [][]string{{"x|y"}})
	assert.Equal(t, "| A |\n| --- |\n| x\\|y |\n\n", string(w.Bytes()))
}
