// Package descriptor reads Bazel BUILD descriptors into an ordered list of
// C++ targets.
//
// The descriptor is never executed. It is parsed into a syntax tree and only
// top-level cc_library, cc_test and cc_binary calls are captured; load
// statements and any other construct are skipped.
package descriptor

import "fmt"

// Kind is the rule kind of a target.
type Kind int

// Supported rule kinds.
const (
	KindLibrary Kind = iota
	KindTest
	KindBinary
)

// ruleKinds maps Bazel rule names to target kinds.
var ruleKinds = map[string]Kind{
	"cc_library": KindLibrary,
	"cc_test":    KindTest,
	"cc_binary":  KindBinary,
}

// KindForRule returns the kind for a Bazel rule name.
func KindForRule(rule string) (Kind, bool) {
	k, ok := ruleKinds[rule]
	return k, ok
}

// RuleName returns the Bazel rule name for the kind (e.g. "cc_library").
func (k Kind) RuleName() string {
	switch k {
	case KindLibrary:
		return "cc_library"
	case KindTest:
		return "cc_test"
	case KindBinary:
		return "cc_binary"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// String returns a human label for the kind.
func (k Kind) String() string {
	switch k {
	case KindLibrary:
		return "Library"
	case KindTest:
		return "Test"
	case KindBinary:
		return "Binary"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler so targets serialize with
// the rule name rather than an integer.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.RuleName()), nil
}

// Target is one declared build unit.
type Target struct {
	Kind       Kind     `json:"kind" yaml:"kind"`
	Name       string   `json:"name" yaml:"name"`
	Headers    []string `json:"hdrs,omitempty" yaml:"hdrs,omitempty"`
	Sources    []string `json:"srcs,omitempty" yaml:"srcs,omitempty"`
	Deps       []string `json:"deps,omitempty" yaml:"deps,omitempty"`
	Visibility []string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	// Data is kept for fidelity; nothing downstream emits it yet.
	Data []string `json:"data,omitempty" yaml:"data,omitempty"`
	// Line is the 1-based line of the rule call in the descriptor.
	Line int `json:"line" yaml:"line"`
}

// IsHeaderOnly reports whether the target declares headers but no sources.
func (t *Target) IsHeaderOnly() bool {
	return len(t.Sources) == 0 && len(t.Headers) > 0
}

// setAttr appends values to the field named by a BUILD attribute.
// It reports false for attributes that are not modeled.
func (t *Target) setAttr(attr string, values []string) bool {
	switch attr {
	case "hdrs":
		t.Headers = append(t.Headers, values...)
	case "srcs":
		t.Sources = append(t.Sources, values...)
	case "deps":
		t.Deps = append(t.Deps, values...)
	case "visibility":
		t.Visibility = append(t.Visibility, values...)
	case "data":
		t.Data = append(t.Data, values...)
	default:
		return false
	}
	return true
}

// isModeledAttr reports whether attr is captured into a Target.
func isModeledAttr(attr string) bool {
	switch attr {
	case "name", "hdrs", "srcs", "deps", "visibility", "data":
		return true
	}
	return false
}
