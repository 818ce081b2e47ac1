package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/output"
	"github.com/leapstack-labs/bzl2cmake/internal/converter"
	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
	"github.com/leapstack-labs/bzl2cmake/internal/health"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Strict bool
}

// errUnhealthy is returned by doctor --strict when a check fails.
var errUnhealthy = errors.New("health checks failed")

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check a BUILD file for conversion problems",
		Long: `Analyze a BUILD file for anything that will not survive conversion.

The doctor command runs every health check and reports:
- A summary (targets by kind, dependency depth, roots and leaves)
- Health checks grouped by category (References, Structure, Style, Testing)
- A health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Run health check
  bzl2cmake doctor

  # Fail in CI when any check does not pass
  bzl2cmake doctor --strict

  # Output as JSON
  bzl2cmake doctor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	addDescriptorFlags(cmd)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with an error when any check warns or fails")

	return cmd
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	path := cmdCtx.Cfg.BuildFile

	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", converter.ErrBuildFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	res, err := cmdCtx.NewConverter().Translate(path, src)
	if err != nil {
		return err
	}
	formatted, err := descriptor.Format(path, src)
	if err != nil {
		return err
	}

	report := health.Analyze(health.Input{Result: res, Source: src, Formatted: formatted})

	structured, err := r.Structured(report)
	if err != nil {
		return err
	}
	if !structured {
		if r.EffectiveMode() == output.ModeMarkdown {
			renderDoctorMarkdown(r, report)
		} else {
			renderDoctorText(r, report)
		}
	}

	if opts.Strict && report.IssueCount > 0 {
		return fmt.Errorf("%w: %d issues", errUnhealthy, report.IssueCount)
	}
	return nil
}

func renderDoctorText(r *output.Renderer, report *health.Report) {
	styles := r.Styles()
	s := report.Summary

	r.Println("")
	r.Println(styles.Header1.Render("BUILD Health Report: " + report.File))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Summary"))
	r.Printf("   Targets: %d | Libraries: %d (%d header-only) | Tests: %d | Binaries: %d\n",
		s.Targets, s.Libraries, s.HeaderOnly, s.Tests, s.Binaries)
	r.Printf("   Depth: %d levels | Roots: %d | Leaves: %d | Edges: %d\n", s.Depth, s.Roots, s.Leaves, s.Edges)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range report.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Header2.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case health.StatusWarn:
			icon = styles.Warning.Render("!")
		case health.StatusError:
			icon = styles.Error.Render("✗")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		// Show first 3 details for issues
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if report.Score < 70 {
		scoreStyle = styles.Warning
	}
	if report.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", report.Score)))
	r.Println("")

	if len(report.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range report.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}
}

func renderDoctorMarkdown(r *output.Renderer, report *health.Report) {
	s := report.Summary

	r.Println("# BUILD Health Report: " + report.File)
	r.Println("")

	r.Println("## Summary")
	r.Println("")
	r.Println(output.FormatKeyValue("Targets", fmt.Sprint(s.Targets)))
	r.Println(output.FormatKeyValue("Libraries", fmt.Sprintf("%d (%d header-only)", s.Libraries, s.HeaderOnly)))
	r.Println(output.FormatKeyValue("Tests", fmt.Sprint(s.Tests)))
	r.Println(output.FormatKeyValue("Binaries", fmt.Sprint(s.Binaries)))
	r.Println(output.FormatKeyValue("Depth", fmt.Sprintf("%d levels", s.Depth)))
	r.Println(output.FormatKeyValue("Roots", fmt.Sprint(s.Roots)))
	r.Println(output.FormatKeyValue("Leaves", fmt.Sprint(s.Leaves)))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range report.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		line := fmt.Sprintf("- **[%s]** %s: %s", strings.ToUpper(string(check.Status)), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			line += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println(line)

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", report.Score)
	r.Println("")

	if len(report.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range report.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}
}
