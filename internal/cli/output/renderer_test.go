package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"TEXT", ModeText},
		{"md", ModeMarkdown},
		{"markdown", ModeMarkdown},
		{"json", ModeJSON},
		{"yml", ModeYAML},
		{" yaml ", ModeYAML},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMode("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: auto, text, markdown, json, yaml")
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto tty", ModeAuto, true, ModeText},
		{"auto pipe", ModeAuto, false, ModeMarkdown},
		{"empty pipe", "", false, ModeMarkdown},
		{"explicit json on tty", ModeJSON, true, ModeJSON},
		{"explicit text on pipe", ModeText, false, ModeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_NonTTYHasNoANSI(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)

	r.Header(1, "Targets")
	r.Success("Generated CMakeLists.txt")
	r.Muted("3 targets")
	r.Warning("dropping @boost//:asio")
	r.Error("boom")

	assert.False(t, ansiPattern.MatchString(out.String()), "stdout: %q", out.String())
	assert.False(t, ansiPattern.MatchString(errOut.String()), "stderr: %q", errOut.String())
	assert.Contains(t, out.String(), "Targets\n")
	assert.Contains(t, errOut.String(), "Warning: dropping @boost//:asio")
	assert.Contains(t, errOut.String(), "Error: boom")
}

func TestRenderer_MarkdownHeader(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Header(2, "Level 0")
	assert.Equal(t, "## Level 0\n\n", out.String())
}

func TestRenderer_Table(t *testing.T) {
	header := []string{"Rule", "Name"}
	rows := [][]string{{"cc_library", "base_lib"}, {"cc_test", "base_test"}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table(header, rows)
		assert.Contains(t, out.String(), "| Rule | Name |")
		assert.Contains(t, out.String(), "| cc_library | base_lib |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table(header, rows)
		assert.Contains(t, out.String(), "base_test")
		assert.Contains(t, out.String(), "┌")
	})
}

func TestRenderer_Structured(t *testing.T) {
	payload := GraphOutput{
		Levels:       []GraphLevel{{Level: 0, Targets: []GraphNode{{Name: "a", DependsOn: []string{}, UsedBy: []string{}}}}},
		TotalTargets: 1,
	}

	t.Run("json", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeJSON, false)
		ok, err := r.Structured(payload)
		require.NoError(t, err)
		require.True(t, ok)

		var decoded GraphOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, payload, decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeYAML, false)
		ok, err := r.Structured(payload)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Contains(t, out.String(), "total_targets: 1")

		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, 1, decoded["total_targets"])
	})

	t.Run("text is not structured", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, true)
		ok, err := r.Structured(payload)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, out.String())
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Deep", FormatHeader(3, "Deep"))
	assert.Equal(t, "# Clamped", FormatHeader(0, "Clamped"))
	assert.Equal(t, "- **Targets:** 3", FormatKeyValue("Targets", "3"))

	block := FormatCodeBlock("cmake", "project(x)\n")
	assert.Equal(t, "```cmake\nproject(x)\n```", block)
	assert.Equal(t, 2, strings.Count(block, "```"))
}

func TestRenderer_StatusLine(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.StatusLine("bzl2cmake.yaml", "success", "")
	r.StatusLine("BUILD", "error", "(malformed)")
	r.StatusLine("docs", "skipped", "")

	assert.Equal(t, "  ✓ bzl2cmake.yaml\n  ✗ BUILD (malformed)\n  - docs\n", out.String())
}
