package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bzl2cmake/internal/converter"
)

func analyze(t *testing.T, src string) *Report {
	t.Helper()
	res, err := converter.New(converter.Options{}).Translate("BUILD.bazel", []byte(src))
	require.NoError(t, err)
	return Analyze(Input{Result: res, Source: []byte(src)})
}

func check(t *testing.T, r *Report, id string) CheckResult {
	t.Helper()
	for _, c := range r.Checks {
		if c.RuleID == id {
			return c
		}
	}
	t.Fatalf("no check %s", id)
	return CheckResult{}
}

func TestAnalyze_Healthy(t *testing.T) {
	r := analyze(t, `
cc_library(name = "base", hdrs = ["base.h"])
cc_library(name = "core", srcs = ["core.cc"], deps = [":base"])
cc_test(name = "core_test", srcs = ["core_test.cc"], deps = [":core", "@com_google_googletest//:gtest_main"])
`)

	assert.Equal(t, 100, r.Score)
	assert.Zero(t, r.IssueCount)
	assert.Empty(t, r.Recommendations)
	for _, c := range r.Checks {
		assert.Equal(t, StatusPass, c.Status, c.RuleID)
	}

	assert.Equal(t, Summary{
		Targets:    3,
		Libraries:  2,
		HeaderOnly: 1,
		Tests:      1,
		Depth:      3,
		Roots:      1,
		Leaves:     1,
		Edges:      2,
	}, r.Summary)
}

func TestAnalyze_Issues(t *testing.T) {
	r := analyze(t, `
cc_library(name = "a", srcs = ["a.cc"], deps = [":b", "@zlib//:z"])
cc_library(name = "b", srcs = ["b.cc"], deps = [":a", ":ghost"])
cc_binary(name = "tool", srcs = glob(["*.cc"]))
cc_test(name = "a_test", srcs = ["a_test.cc"], deps = [":a"])
cc_test(name = "a_test", srcs = ["a_test2.cc"], deps = ["@googletest//:gtest"])
`)

	assert.Equal(t, StatusWarn, check(t, r, "BR01").Status)
	assert.Equal(t, []string{"a: @zlib//:z"}, check(t, r, "BR01").Details)

	assert.Equal(t, StatusError, check(t, r, "BR02").Status)
	assert.Equal(t, []string{"b: :ghost"}, check(t, r, "BR02").Details)

	assert.Equal(t, StatusError, check(t, r, "BS01").Status)
	assert.Equal(t, []string{"a -> b -> a"}, check(t, r, "BS01").Details)

	assert.Equal(t, []string{"a_test declared 2 times"}, check(t, r, "BS02").Details)
	assert.Equal(t, []string{"tool (cc_binary)"}, check(t, r, "BS03").Details)
	assert.Equal(t, []string{"a_test"}, check(t, r, "BT01").Details)

	assert.Equal(t, 6, r.IssueCount)
	assert.Len(t, r.Recommendations, 5)
	assert.Zero(t, r.Summary.Depth, "cyclic graphs have no levels")
	assert.Less(t, r.Score, 70)
}

func TestAnalyze_Formatting(t *testing.T) {
	src := "cc_library(name=\"x\")\n"
	res, err := converter.New(converter.Options{}).Translate("BUILD", []byte(src))
	require.NoError(t, err)

	r := Analyze(Input{Result: res, Source: []byte(src), Formatted: []byte("cc_library(name = \"x\")\n")})
	assert.Equal(t, StatusWarn, check(t, r, "BF01").Status)

	r = Analyze(Input{Result: res, Source: []byte(src), Formatted: []byte(src)})
	assert.Equal(t, StatusPass, check(t, r, "BF01").Status)
}

func TestRules_Sorted(t *testing.T) {
	rules := Rules()
	require.NotEmpty(t, rules)
	for i := 1; i < len(rules); i++ {
		prev, cur := rules[i-1], rules[i]
		assert.True(t, prev.Group < cur.Group || (prev.Group == cur.Group && prev.ID < cur.ID),
			"%s/%s should sort before %s/%s", prev.Group, prev.ID, cur.Group, cur.ID)
	}
}

func TestScore(t *testing.T) {
	warn := CheckResult{Status: StatusWarn, IssueCount: 2}
	fail := CheckResult{Status: StatusError, IssueCount: 1}

	assert.Equal(t, 100, Score(nil, 3))
	assert.Equal(t, 80, Score([]CheckResult{warn, fail}, 3))
	assert.Equal(t, 88, Score([]CheckResult{warn, fail}, 20))
	assert.Equal(t, 96, Score([]CheckResult{warn, fail}, 500))
	assert.Equal(t, 0, Score([]CheckResult{{Status: StatusError, IssueCount: 50}}, 1))
}
