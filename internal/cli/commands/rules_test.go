package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bzl2cmake/internal/health"
)

func TestRulesCommand_List(t *testing.T) {
	out, _, err := execute(t, NewRulesCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "| ID | Name | Group | Severity |")
	for _, rule := range health.Rules() {
		assert.Contains(t, out, "| "+rule.ID+" | "+rule.Name+" |")
	}
}

func TestRulesCommand_Single(t *testing.T) {
	out, _, err := execute(t, NewRulesCommand(), "bs01")
	require.NoError(t, err)

	assert.Contains(t, out, "# BS01: Dependency cycles")
	assert.Contains(t, out, "- **Group:** Structure")
	assert.Contains(t, out, "- **Severity:** error")
}

func TestRulesCommand_GroupJSON(t *testing.T) {
	t.Setenv("BZL2CMAKE_FORMAT", "json")

	out, _, err := execute(t, NewRulesCommand(), "--group", "references")
	require.NoError(t, err)

	var rules []RuleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	require.Len(t, rules, 2)
	assert.Equal(t, "BR01", rules[0].ID)
	assert.Equal(t, "BR02", rules[1].ID)
}

func TestRulesCommand_Unknown(t *testing.T) {
	_, _, err := execute(t, NewRulesCommand(), "XX99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown rule "XX99"`)
}
