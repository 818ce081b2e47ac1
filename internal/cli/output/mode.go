// Package output renders command results for terminals, markdown consumers
// and machine-readable formats.
package output

import (
	"fmt"
	"strings"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	// ModeAuto renders text on a terminal and markdown otherwise.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// Modes lists every accepted mode name.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON), string(ModeYAML)}
}

// ParseMode validates a mode name. The empty string means ModeAuto and "md"
// is accepted for markdown.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeAuto):
		return ModeAuto, nil
	case string(ModeText):
		return ModeText, nil
	case "md", string(ModeMarkdown):
		return ModeMarkdown, nil
	case string(ModeJSON):
		return ModeJSON, nil
	case "yml", string(ModeYAML):
		return ModeYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (available: %s)", s, strings.Join(Modes(), ", "))
}
