package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/output"
	"github.com/leapstack-labs/bzl2cmake/internal/cli/testutil"
	"github.com/leapstack-labs/bzl2cmake/internal/converter"
	"github.com/leapstack-labs/bzl2cmake/internal/health"
)

func TestDoctorCommand_Markdown(t *testing.T) {
	buildFile := testutil.SetupBuildFile(t, testutil.SampleBuild)

	out, _, err := execute(t, NewDoctorCommand(), "--build-file", buildFile)
	require.NoError(t, err)

	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "# BUILD Health Report: "+buildFile)
	assert.Contains(t, out, "- **Targets:** 4")
	assert.Contains(t, out, "- **Libraries:** 2 (1 header-only)")
	assert.Contains(t, out, "### References")
	assert.Contains(t, out, "- **[WARN]** BR01: Unsupported external dependencies (1 issues)")
	assert.Contains(t, out, "  - utils: @com_google_absl//absl/strings")
	assert.Contains(t, out, "- **[PASS]** BS01: Dependency cycles")
	assert.Contains(t, out, "## Health Score")
	assert.Contains(t, out, "## Recommendations")
}

func TestDoctorCommand_JSON(t *testing.T) {
	t.Setenv("BZL2CMAKE_FORMAT", "json")
	buildFile := testutil.SetupBuildFile(t, `cc_library(name="a", deps=[":b"])
cc_library(name="b", deps=[":a"])
cc_test(name="a_test", deps=[":a"])
`)

	out, _, err := execute(t, NewDoctorCommand(), "--build-file", buildFile)
	require.NoError(t, err)

	var report health.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Summary.Targets)

	statuses := make(map[string]health.Status)
	for _, c := range report.Checks {
		statuses[c.RuleID] = c.Status
	}
	assert.Equal(t, health.StatusError, statuses["BS01"])
	assert.Equal(t, health.StatusWarn, statuses["BS03"])
	assert.Equal(t, health.StatusWarn, statuses["BT01"])
	assert.Equal(t, health.StatusWarn, statuses["BF01"])
}

func TestDoctorCommand_Strict(t *testing.T) {
	buildFile := testutil.SetupBuildFile(t, testutil.SampleBuild)

	_, _, err := execute(t, NewDoctorCommand(), "--build-file", buildFile, "--strict")
	require.ErrorIs(t, err, errUnhealthy)
}

func TestDoctorCommand_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, NewDoctorCommand(), "--build-file", t.TempDir()+"/BUILD")
		require.ErrorIs(t, err, converter.ErrBuildFileNotFound)
	})

	t.Run("malformed", func(t *testing.T) {
		buildFile := testutil.SetupBuildFile(t, "cc_library(\n")
		_, _, err := execute(t, NewDoctorCommand(), "--build-file", buildFile)
		require.Error(t, err)
	})
}

func TestRenderDoctorText(t *testing.T) {
	report := &health.Report{
		File:    "BUILD",
		Summary: health.Summary{Targets: 1, Libraries: 1},
		Checks: []health.CheckResult{
			{RuleID: "BR01", Name: "Unsupported external dependencies", Group: "references", Status: health.StatusWarn, IssueCount: 4,
				Details: []string{"a: @x//:1", "a: @x//:2", "a: @x//:3", "a: @x//:4"}},
			{RuleID: "BS01", Name: "Dependency cycles", Group: "structure", Status: health.StatusPass},
		},
		Score:           80,
		Recommendations: []string{"Do the thing"},
	}

	tr := testutil.NewTestRenderer(output.ModeText, false)
	renderDoctorText(tr.Renderer, report)

	out := tr.Output()
	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "BUILD Health Report: BUILD")
	assert.Contains(t, out, "   References\n")
	assert.Contains(t, out, "   ! BR01: Unsupported external dependencies (4 issues)")
	assert.Contains(t, out, "       ... and 1 more")
	assert.Contains(t, out, "   ✓ BS01: Dependency cycles\n")
	assert.Contains(t, out, "   Health Score: 80/100")
	assert.Contains(t, out, "   1. Do the thing")
}
