// Package converter ties the descriptor parser and the CMake generator
// together for files on disk.
package converter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/bzl2cmake/internal/cmake"
	"github.com/leapstack-labs/bzl2cmake/internal/dag"
	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
)

var (
	// ErrBuildFileNotFound is returned when the descriptor path does not exist.
	ErrBuildFileNotFound = errors.New("BUILD file not found")
	// ErrNoTargets is returned by Convert when a descriptor declares no
	// supported rules.
	ErrNoTargets = errors.New("no targets found in BUILD file")
)

// Options configures a Converter.
type Options struct {
	Frontend  descriptor.Frontend
	Generator cmake.Config
	Logger    *slog.Logger
}

// Result is one translated descriptor.
type Result struct {
	BuildFile  string
	Targets    []descriptor.Target
	Script     string
	Unresolved []cmake.UnresolvedRef
	Missing    []dag.MissingRef
}

// Converter translates descriptors into CMake scripts. It is safe to reuse
// across files.
type Converter struct {
	frontend descriptor.Frontend
	gen      *cmake.Generator
	logger   *slog.Logger
}

// New creates a Converter.
func New(opts Options) *Converter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	frontend := opts.Frontend
	if frontend == "" {
		frontend = descriptor.FrontendStarlark
	}
	return &Converter{
		frontend: frontend,
		gen:      cmake.New(opts.Generator, cmake.WithLogger(logger)),
		logger:   logger,
	}
}

// Translate parses src and renders its script. An empty descriptor is not
// an error here.
func (c *Converter) Translate(filename string, src []byte) (*Result, error) {
	targets, err := descriptor.Parse(filename, src,
		descriptor.WithFrontend(c.frontend),
		descriptor.WithLogger(c.logger),
	)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("parsed descriptor", "file", filename, "targets", len(targets), "parser", string(c.frontend))

	_, missing := dag.FromTargets(targets)
	for _, ref := range missing {
		c.logger.Warn("reference to undeclared target", "target", ref.Target, "label", ref.Label)
	}
	return &Result{
		BuildFile:  filename,
		Targets:    targets,
		Script:     c.gen.Generate(targets),
		Unresolved: c.gen.Unresolved(targets),
		Missing:    missing,
	}, nil
}

// Load reads and translates the descriptor at path.
func (c *Converter) Load(path string) (*Result, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBuildFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a BUILD file", path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c.Translate(path, src)
}

// Convert is Load that also rejects descriptors without targets.
func (c *Converter) Convert(path string) (*Result, error) {
	res, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	if len(res.Targets) == 0 {
		return nil, ErrNoTargets
	}
	return res, nil
}

// Write stores the script at path, creating parent directories.
func Write(path string, res *Result) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(res.Script), 0o644); err != nil { //nolint:gosec // generated build scripts are world-readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
