package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/output"
	"github.com/leapstack-labs/bzl2cmake/internal/health"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group string
}

// RuleInfo is the structured form of one health rule.
type RuleInfo struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Group          string `json:"group" yaml:"group"`
	Severity       string `json:"severity" yaml:"severity"`
	Recommendation string `json:"recommendation" yaml:"recommendation"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List the checks run by doctor",
		Long: `List every health check the doctor command runs, with its group,
severity and the recommendation shown when it fails.`,
		Example: `  # List all rules
  bzl2cmake rules

  # Show one rule
  bzl2cmake rules BR01

  # List the structure rules as JSON
  bzl2cmake rules --group structure --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return runRules(cmd, id, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	return cmd
}

func runRules(cmd *cobra.Command, id string, opts *RulesOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	var rules []RuleInfo
	for _, rule := range health.Rules() {
		if id != "" && !strings.EqualFold(rule.ID, id) {
			continue
		}
		if opts.Group != "" && !strings.EqualFold(rule.Group, opts.Group) {
			continue
		}
		rules = append(rules, RuleInfo{
			ID:             rule.ID,
			Name:           rule.Name,
			Group:          rule.Group,
			Severity:       string(rule.Severity),
			Recommendation: rule.Recommendation,
		})
	}
	if id != "" && len(rules) == 0 {
		return fmt.Errorf("unknown rule %q", id)
	}

	if ok, err := r.Structured(rules); ok {
		return err
	}

	if id != "" {
		rule := rules[0]
		r.Header(1, rule.ID+": "+rule.Name)
		r.Println(output.FormatKeyValue("Group", cases.Title(language.English).String(rule.Group)))
		r.Println(output.FormatKeyValue("Severity", rule.Severity))
		r.Println(output.FormatKeyValue("Recommendation", rule.Recommendation))
		return nil
	}

	rows := make([][]string, 0, len(rules))
	for _, rule := range rules {
		rows = append(rows, []string{rule.ID, rule.Name, rule.Group, rule.Severity})
	}
	r.Table([]string{"ID", "Name", "Group", "Severity"}, rows)
	return nil
}
