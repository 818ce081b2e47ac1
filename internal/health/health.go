// Package health runs checks over a parsed BUILD file and scores the result.
package health

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/bzl2cmake/internal/cmake"
	"github.com/leapstack-labs/bzl2cmake/internal/converter"
	"github.com/leapstack-labs/bzl2cmake/internal/dag"
	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
)

// Status is the outcome of one check.
type Status string

// Check statuses.
const (
	StatusPass  Status = "pass"
	StatusWarn  Status = "warn"
	StatusError Status = "error"
)

// Input is what the checks look at.
type Input struct {
	Result *converter.Result
	// Source and Formatted are compared by the formatting check. It passes
	// when Formatted is nil.
	Source    []byte
	Formatted []byte
}

// Rule is one health check.
type Rule struct {
	ID             string
	Name           string
	Group          string
	Severity       Status
	Recommendation string
	check          func(in *Input, g *dag.Graph) []string
}

// Summary holds descriptor statistics.
type Summary struct {
	Targets    int `json:"targets" yaml:"targets"`
	Libraries  int `json:"libraries" yaml:"libraries"`
	HeaderOnly int `json:"header_only" yaml:"header_only"`
	Tests      int `json:"tests" yaml:"tests"`
	Binaries   int `json:"binaries" yaml:"binaries"`
	Depth      int `json:"depth" yaml:"depth"`
	Roots      int `json:"roots" yaml:"roots"`
	Leaves     int `json:"leaves" yaml:"leaves"`
	Edges      int `json:"edges" yaml:"edges"`
}

// CheckResult is the outcome of one rule.
type CheckResult struct {
	RuleID     string   `json:"rule_id" yaml:"rule_id"`
	Name       string   `json:"name" yaml:"name"`
	Group      string   `json:"group" yaml:"group"`
	Status     Status   `json:"status" yaml:"status"`
	IssueCount int      `json:"issue_count" yaml:"issue_count"`
	Details    []string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Report is the full health report for one descriptor.
type Report struct {
	File            string        `json:"file" yaml:"file"`
	Summary         Summary       `json:"summary" yaml:"summary"`
	Checks          []CheckResult `json:"health_checks" yaml:"health_checks"`
	Score           int           `json:"score" yaml:"score"`
	Recommendations []string      `json:"recommendations" yaml:"recommendations"`
	IssueCount      int           `json:"issue_count" yaml:"issue_count"`
}

// Rules returns every registered rule sorted by group, then ID.
func Rules() []Rule {
	rules := []Rule{
		{
			ID: "BR01", Name: "Unsupported external dependencies", Group: "references", Severity: StatusWarn,
			Recommendation: "Provide unsupported external libraries with find_package or FetchContent by hand",
			check:          unsupportedExternals,
		},
		{
			ID: "BR02", Name: "Undeclared local targets", Group: "references", Severity: StatusError,
			Recommendation: "Declare the missing targets or fix the labels that name them",
			check:          undeclaredLocals,
		},
		{
			ID: "BS01", Name: "Dependency cycles", Group: "structure", Severity: StatusError,
			Recommendation: "Break dependency cycles; CMake rejects cyclic static libraries",
			check:          cycles,
		},
		{
			ID: "BS02", Name: "Duplicate target names", Group: "structure", Severity: StatusError,
			Recommendation: "Give every target a unique name",
			check:          duplicateNames,
		},
		{
			ID: "BS03", Name: "Executables without sources", Group: "structure", Severity: StatusWarn,
			Recommendation: "List sources explicitly; glob() and other calls are not expanded",
			check:          sourcelessExecutables,
		},
		{
			ID: "BT01", Name: "Tests without GoogleTest", Group: "testing", Severity: StatusWarn,
			Recommendation: "Depend on @com_google_googletest//:gtest_main so tests get a main()",
			check:          testsWithoutGTest,
		},
		{
			ID: "BF01", Name: "Canonical formatting", Group: "style", Severity: StatusWarn,
			Recommendation: "Run 'bzl2cmake fmt --write' to format the BUILD file",
			check:          unformatted,
		},
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})
	return rules
}

// Analyze runs every rule against in.
func Analyze(in Input) *Report {
	targets := in.Result.Targets
	g, _ := dag.FromTargets(targets)

	report := &Report{File: in.Result.BuildFile, Summary: summarize(targets, g)}

	seen := make(map[string]bool)
	for _, rule := range Rules() {
		details := rule.check(&in, g)
		res := CheckResult{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     StatusPass,
			IssueCount: len(details),
			Details:    details,
		}
		if len(details) > 0 {
			res.Status = rule.Severity
			report.IssueCount += len(details)
			if !seen[rule.Recommendation] {
				seen[rule.Recommendation] = true
				report.Recommendations = append(report.Recommendations, rule.Recommendation)
			}
		}
		report.Checks = append(report.Checks, res)
	}

	// Limit to top 5 recommendations
	if len(report.Recommendations) > 5 {
		report.Recommendations = report.Recommendations[:5]
	}
	report.Score = Score(report.Checks, len(targets))
	return report
}

func summarize(targets []descriptor.Target, g *dag.Graph) Summary {
	s := Summary{Targets: len(targets), Edges: g.EdgeCount()}
	for i := range targets {
		switch targets[i].Kind {
		case descriptor.KindLibrary:
			s.Libraries++
			if targets[i].IsHeaderOnly() {
				s.HeaderOnly++
			}
		case descriptor.KindTest:
			s.Tests++
		case descriptor.KindBinary:
			s.Binaries++
		}
	}
	if levels, err := g.GetExecutionLevels(); err == nil {
		s.Depth = len(levels)
	}
	s.Roots = len(g.GetRoots())
	s.Leaves = len(g.GetLeaves())
	return s
}

// Score computes a health score from 0 to 100. Each issue costs points,
// errors twice as many, and a larger file makes each issue cheaper.
func Score(checks []CheckResult, targetCount int) int {
	score := 100.0

	penalty := 5.0
	switch {
	case targetCount > 100:
		penalty = 1.0
	case targetCount > 50:
		penalty = 2.0
	case targetCount > 10:
		penalty = 3.0
	}

	for _, check := range checks {
		switch check.Status {
		case StatusError:
			score -= float64(check.IssueCount) * penalty * 2
		case StatusWarn:
			score -= float64(check.IssueCount) * penalty
		}
	}

	if score < 0 {
		score = 0
	}
	return int(score)
}

func unsupportedExternals(in *Input, _ *dag.Graph) []string {
	var details []string
	for _, ref := range in.Result.Unresolved {
		details = append(details, fmt.Sprintf("%s: %s", ref.Target, ref.Label))
	}
	return details
}

func undeclaredLocals(in *Input, _ *dag.Graph) []string {
	var details []string
	for _, ref := range in.Result.Missing {
		details = append(details, fmt.Sprintf("%s: %s", ref.Target, ref.Label))
	}
	return details
}

func cycles(_ *Input, g *dag.Graph) []string {
	if hasCycle, path := g.HasCycle(); hasCycle {
		return []string{strings.Join(path, " -> ")}
	}
	return nil
}

func duplicateNames(in *Input, _ *dag.Graph) []string {
	counts := make(map[string]int)
	var order []string
	for _, t := range in.Result.Targets {
		if counts[t.Name] == 0 {
			order = append(order, t.Name)
		}
		counts[t.Name]++
	}
	var details []string
	for _, name := range order {
		if counts[name] > 1 {
			details = append(details, fmt.Sprintf("%s declared %d times", name, counts[name]))
		}
	}
	return details
}

func sourcelessExecutables(in *Input, _ *dag.Graph) []string {
	var details []string
	for _, t := range in.Result.Targets {
		if t.Kind != descriptor.KindLibrary && len(t.Sources) == 0 {
			details = append(details, fmt.Sprintf("%s (%s)", t.Name, t.Kind.RuleName()))
		}
	}
	return details
}

func testsWithoutGTest(in *Input, _ *dag.Graph) []string {
	var details []string
	for _, t := range in.Result.Targets {
		if t.Kind != descriptor.KindTest || linksGTest(t.Deps) {
			continue
		}
		details = append(details, t.Name)
	}
	return details
}

func linksGTest(deps []string) bool {
	for _, label := range deps {
		if !strings.HasPrefix(label, "@") {
			continue
		}
		if name, ok := cmake.Resolve(label); ok && (name == cmake.GTestTarget || name == cmake.GTestMainTarget) {
			return true
		}
	}
	return false
}

func unformatted(in *Input, _ *dag.Graph) []string {
	if in.Formatted == nil || bytes.Equal(in.Source, in.Formatted) {
		return nil
	}
	return []string{in.Result.BuildFile + " is not in canonical layout"}
}
