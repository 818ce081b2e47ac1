package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/bzl2cmake/internal/health"
)

var groupDescriptions = map[string]string{
	"references": "Rules about dependency labels that cannot be carried into CMake.",
	"structure":  "Rules about the shape of the target graph.",
	"style":      "Rules about how the BUILD file is written.",
	"testing":    "Rules about test targets and their GoogleTest wiring.",
}

// generateRuleDocs writes the doctor rule reference.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := health.Rules()
	w := NewMarkdownWriter()

	w.Frontmatter("Doctor Rules", "Health checks run by bzl2cmake doctor")
	w.GeneratedMarker()

	w.Header(1, "Doctor Rules")
	w.Paragraph(fmt.Sprintf("`bzl2cmake doctor` runs %d health checks against a BUILD file. "+
		"Errors cost twice as many points as warnings in the health score.", len(rules)))

	titleCaser := cases.Title(language.English)
	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			w.Line(fmt.Sprintf("## %s {#%s}", titleCaser.String(currentGroup), currentGroup))
			w.Newline()
			if desc, ok := groupDescriptions[currentGroup]; ok {
				w.Paragraph(desc)
			}
		}

		w.Header(3, fmt.Sprintf("%s: %s", rule.ID, rule.Name))
		w.BulletList([]string{
			Bold("Severity") + ": " + InlineCode(string(rule.Severity)),
			Bold("Fix") + ": " + rule.Recommendation,
		})
	}

	if err := os.WriteFile(filepath.Join(outDir, "rules.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated rules.md")
	return nil
}
