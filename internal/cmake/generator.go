// Package cmake renders descriptor targets as a CMakeLists.txt script.
package cmake

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
)

// Default generator settings.
const (
	DefaultProjectName    = "strong_typedefs"
	DefaultMinimumVersion = "3.20"
	DefaultCXXStandard    = "20"
	DefaultGoogleTestTag  = "v1.14.0"
)

// Config holds the values substituted into the generated script.
type Config struct {
	ProjectName    string
	MinimumVersion string
	CXXStandard    string
	GoogleTestTag  string
}

// DefaultConfig returns the generator defaults.
func DefaultConfig() Config {
	return Config{
		ProjectName:    DefaultProjectName,
		MinimumVersion: DefaultMinimumVersion,
		CXXStandard:    DefaultCXXStandard,
		GoogleTestTag:  DefaultGoogleTestTag,
	}
}

// withDefaults fills empty fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ProjectName == "" {
		c.ProjectName = d.ProjectName
	}
	if c.MinimumVersion == "" {
		c.MinimumVersion = d.MinimumVersion
	}
	if c.CXXStandard == "" {
		c.CXXStandard = d.CXXStandard
	}
	if c.GoogleTestTag == "" {
		c.GoogleTestTag = d.GoogleTestTag
	}
	return c
}

// UnresolvedRef is a dependency label that was left out of the script.
type UnresolvedRef struct {
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label" yaml:"label"`
}

// Generator renders CMakeLists.txt text. It holds no per-call state, so one
// Generator may be reused.
type Generator struct {
	cfg      Config
	packages []ExternalPackage
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger that receives a warning per dropped dependency.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Generator. Empty Config fields take their defaults.
func New(cfg Config, opts ...Option) *Generator {
	cfg = cfg.withDefaults()
	g := &Generator{
		cfg:      cfg,
		packages: []ExternalPackage{googleTest(cfg.GoogleTestTag)},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the effective configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate renders the script for targets. Blocks follow the input order;
// dependency ordering is left to CMake.
func (g *Generator) Generate(targets []descriptor.Target) string {
	var lines []string

	lines = append(lines, g.preamble()...)
	lines = append(lines, "")

	if required := requiredPackages(g.packages, targets); len(required) > 0 {
		lines = append(lines, externalSection(required)...)
		lines = append(lines, "")
	}

	for i := range targets {
		lines = append(lines, g.target(&targets[i])...)
		lines = append(lines, "")
	}

	var libraries []*descriptor.Target
	for i := range targets {
		if targets[i].Kind == descriptor.KindLibrary {
			libraries = append(libraries, &targets[i])
		}
	}
	if len(libraries) > 0 {
		lines = append(lines, installRules(libraries)...)
	}

	return strings.Join(lines, "\n")
}

// Unresolved returns every dependency label, per target, that Generate
// leaves out of the script.
func (g *Generator) Unresolved(targets []descriptor.Target) []UnresolvedRef {
	var refs []UnresolvedRef
	for i := range targets {
		_, dropped := resolveAll(targets[i].Deps)
		for _, label := range dropped {
			refs = append(refs, UnresolvedRef{Target: targets[i].Name, Label: label})
		}
	}
	return refs
}

func (g *Generator) preamble() []string {
	return []string{
		fmt.Sprintf("cmake_minimum_required(VERSION %s)", g.cfg.MinimumVersion),
		fmt.Sprintf("project(%s LANGUAGES CXX)", g.cfg.ProjectName),
		"",
		fmt.Sprintf("set(CMAKE_CXX_STANDARD %s)", g.cfg.CXXStandard),
		"set(CMAKE_CXX_STANDARD_REQUIRED ON)",
		"set(CMAKE_CXX_EXTENSIONS OFF)",
		"",
		"# Enable testing",
		"include(CTest)",
		"enable_testing()",
	}
}

func externalSection(packages []ExternalPackage) []string {
	lines := []string{
		"# External dependencies",
		"include(FetchContent)",
	}
	for _, pkg := range packages {
		lines = append(lines, "")
		lines = append(lines, pkg.fetchLines()...)
	}
	return lines
}

func (g *Generator) target(t *descriptor.Target) []string {
	switch t.Kind {
	case descriptor.KindLibrary:
		return g.library(t)
	case descriptor.KindTest:
		return g.executable(t, "Test", true)
	case descriptor.KindBinary:
		return g.executable(t, "Binary", false)
	default:
		return []string{fmt.Sprintf("# %s: %s", t.Kind.RuleName(), t.Name)}
	}
}

func (g *Generator) library(t *descriptor.Target) []string {
	lines := []string{"# Library: " + t.Name}

	headerOnly := t.IsHeaderOnly()
	scope := "PUBLIC"
	if headerOnly {
		scope = "INTERFACE"
		lines = append(lines, fmt.Sprintf("add_library(%s INTERFACE)", t.Name))
		lines = append(lines, fmt.Sprintf("target_sources(%s INTERFACE", t.Name))
		for _, hdr := range t.Headers {
			lines = append(lines, "    ${CMAKE_CURRENT_SOURCE_DIR}/"+hdr)
		}
		lines = append(lines, ")")
	} else {
		lines = append(lines, "add_library("+t.Name)
		lines = append(lines, indent(t.Sources)...)
		lines = append(lines, indent(t.Headers)...)
		lines = append(lines, ")")
	}

	lines = append(lines,
		fmt.Sprintf("target_include_directories(%s %s", t.Name, scope),
		"    $<BUILD_INTERFACE:${CMAKE_CURRENT_SOURCE_DIR}>",
		"    $<INSTALL_INTERFACE:include>",
		")",
	)

	if deps := g.linkDeps(t); len(deps) > 0 {
		lines = append(lines, fmt.Sprintf("target_link_libraries(%s %s", t.Name, scope))
		lines = append(lines, indent(deps)...)
		lines = append(lines, ")")
	}

	return lines
}

func (g *Generator) executable(t *descriptor.Target, label string, registerTest bool) []string {
	lines := []string{fmt.Sprintf("# %s: %s", label, t.Name)}

	lines = append(lines, "add_executable("+t.Name)
	lines = append(lines, indent(t.Sources)...)
	lines = append(lines, ")")

	if deps := g.linkDeps(t); len(deps) > 0 {
		lines = append(lines, "target_link_libraries("+t.Name)
		lines = append(lines, indent(deps)...)
		lines = append(lines, ")")
	}

	if registerTest {
		lines = append(lines, fmt.Sprintf("add_test(NAME %s COMMAND %s)", t.Name, t.Name))
	}

	return lines
}

// linkDeps resolves the target's labels and warns about each dropped one.
func (g *Generator) linkDeps(t *descriptor.Target) []string {
	resolved, dropped := resolveAll(t.Deps)
	for _, label := range dropped {
		g.logger.Warn("dropping unsupported external dependency", "target", t.Name, "label", label)
	}
	return resolved
}

func installRules(libraries []*descriptor.Target) []string {
	lines := []string{"# Install rules"}

	for _, lib := range libraries {
		if len(lib.Headers) == 0 {
			continue
		}
		lines = append(lines, "install(FILES")
		lines = append(lines, indent(lib.Headers)...)
		lines = append(lines, "    DESTINATION include)")
	}

	lines = append(lines, "install(TARGETS")
	for _, lib := range libraries {
		lines = append(lines, "    "+lib.Name)
	}
	lines = append(lines,
		"    EXPORT ${PROJECT_NAME}Targets",
		"    LIBRARY DESTINATION lib",
		"    ARCHIVE DESTINATION lib",
		"    RUNTIME DESTINATION bin",
		"    INCLUDES DESTINATION include)",
	)

	return lines
}

func indent(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "    " + item
	}
	return out
}
