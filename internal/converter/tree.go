package converter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/bzl2cmake/internal/cmake"
)

// BuildFileNames are the descriptor names recognized in a package directory,
// in order of preference.
var BuildFileNames = []string{"BUILD.bazel", "BUILD"}

// TreeOptions configures ConvertTree.
type TreeOptions struct {
	Options
	// OutputName is the script file name written next to each descriptor.
	OutputName string
	// Jobs bounds concurrent conversions. Zero means runtime.NumCPU().
	Jobs int
	// DryRun translates without writing.
	DryRun bool
}

// PackageResult is the outcome for one package directory.
type PackageResult struct {
	// Package is the directory relative to the tree root, "." for the root.
	Package   string
	BuildFile string
	Output    string
	Skipped   bool
	*Result
}

// FindBuildFiles returns one descriptor per package under root, sorted by
// path. Hidden directories and bazel-* output trees are skipped.
func FindBuildFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "bazel-")) {
			return filepath.SkipDir
		}
		for _, name := range BuildFileNames {
			candidate := filepath.Join(path, name)
			if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
				files = append(files, candidate)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// ConvertTree converts every package under root concurrently. Packages
// without supported rules are reported as skipped. The first failure cancels
// the remaining work.
func ConvertTree(ctx context.Context, root string, opts TreeOptions) ([]PackageResult, error) {
	files, err := FindBuildFiles(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrBuildFileNotFound, root)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	outputName := opts.OutputName
	if outputName == "" {
		outputName = "CMakeLists.txt"
	}

	results := make([]PackageResult, len(files))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)

	for i, file := range files {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			pkg, err := filepath.Rel(root, filepath.Dir(file))
			if err != nil {
				return err
			}

			pkgOpts := opts.Options
			pkgOpts.Generator.ProjectName = packageProjectName(opts.Generator.ProjectName, pkg)
			res, err := New(pkgOpts).Convert(file)

			pr := PackageResult{
				Package:   filepath.ToSlash(pkg),
				BuildFile: file,
				Output:    filepath.Join(filepath.Dir(file), outputName),
			}
			switch {
			case errors.Is(err, ErrNoTargets):
				pr.Skipped = true
			case err != nil:
				return fmt.Errorf("%s: %w", pr.Package, err)
			default:
				pr.Result = res
				if !opts.DryRun {
					if err := Write(pr.Output, res); err != nil {
						return err
					}
				}
			}
			results[i] = pr
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// packageProjectName derives a project name for a package: the base name at
// the root, base_sub_dir below it.
func packageProjectName(base, pkg string) string {
	if pkg == "." || pkg == "" {
		return base
	}
	if base == "" {
		base = cmake.DefaultProjectName
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('_')
	for _, r := range filepath.ToSlash(pkg) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
