package descriptor

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Frontend selects the syntax parser used to read a descriptor.
type Frontend string

// Available frontends. Both accept the same descriptors and yield the same
// targets; they differ only in the parser library underneath.
const (
	FrontendStarlark   Frontend = "starlark"
	FrontendBuildtools Frontend = "buildtools"
)

// Frontends lists the accepted frontend names.
func Frontends() []string {
	return []string{string(FrontendStarlark), string(FrontendBuildtools)}
}

// ParseFrontend converts a configuration value to a Frontend.
// The empty string selects the default starlark frontend.
func ParseFrontend(s string) (Frontend, error) {
	switch Frontend(strings.ToLower(strings.TrimSpace(s))) {
	case "", FrontendStarlark:
		return FrontendStarlark, nil
	case FrontendBuildtools:
		return FrontendBuildtools, nil
	default:
		return "", fmt.Errorf("unknown parser %q (available: %s)", s, strings.Join(Frontends(), ", "))
	}
}

type options struct {
	frontend Frontend
	logger   *slog.Logger
}

// Option configures Parse.
type Option func(*options)

// WithFrontend selects the syntax frontend.
func WithFrontend(f Frontend) Option {
	return func(o *options) { o.frontend = f }
}

// WithLogger sets the logger that receives debug notes about skipped
// statements and arguments.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Parse reads descriptor text and returns its targets in declaration order.
//
// Malformed text yields a *SyntaxError and no targets. Valid text without any
// cc_library, cc_test or cc_binary call yields an empty slice and nil error.
func Parse(filename string, src []byte, opts ...Option) ([]Target, error) {
	o := options{
		frontend: FrontendStarlark,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &collector{file: filename, logger: o.logger, targets: []Target{}}

	var err error
	switch o.frontend {
	case FrontendStarlark, "":
		err = parseStarlark(c, src)
	case FrontendBuildtools:
		err = parseBuildtools(c, src)
	default:
		return nil, fmt.Errorf("unknown parser %q", o.frontend)
	}
	if err != nil {
		return nil, err
	}

	o.logger.Debug("parsed descriptor", "file", filename, "parser", string(o.frontend), "targets", len(c.targets))
	return c.targets, nil
}

// ParseFile reads and parses the descriptor at path.
func ParseFile(path string, opts ...Option) ([]Target, error) {
	src, err := os.ReadFile(path) //nolint:gosec // G304: path is the user-selected BUILD file
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, src, opts...)
}

// collector accumulates targets for a single Parse call.
type collector struct {
	file    string
	logger  *slog.Logger
	targets []Target
}

func (c *collector) add(t Target) {
	c.targets = append(c.targets, t)
}

func (c *collector) errorf(line, col int, format string, args ...any) error {
	return &SyntaxError{
		File:   c.file,
		Line:   line,
		Column: col,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// argValue is the evaluated right-hand side of a keyword argument.
type argValue struct {
	strs   []string
	scalar bool // a single string literal rather than a list
	nop    bool // a nested call such as glob(...)
}

// assign records one keyword argument of a rule call.
func (c *collector) assign(t *Target, seen map[string]bool, attr string, v argValue, line, col int) error {
	if seen[attr] {
		return c.errorf(line, col, "%s: keyword argument %q repeated", t.Kind.RuleName(), attr)
	}
	seen[attr] = true

	if v.nop {
		c.logger.Debug("ignoring call-valued argument", "file", c.file, "line", line, "rule", t.Kind.RuleName(), "attr", attr)
		if attr == "name" {
			return c.errorf(line, col, "%s: name must be a string", t.Kind.RuleName())
		}
		return nil
	}

	if attr == "name" {
		if !v.scalar {
			return c.errorf(line, col, "%s: name must be a string", t.Kind.RuleName())
		}
		t.Name = v.strs[0]
		return nil
	}
	t.setAttr(attr, v.strs)
	return nil
}
