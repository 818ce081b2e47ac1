// Package config holds the project settings shared by the CLI and the
// converter, and locates project config files on disk.
package config

import "github.com/leapstack-labs/bzl2cmake/internal/cmake"

// Default project settings.
const (
	DefaultBuildFile  = "BUILD.bazel"
	DefaultOutputFile = "CMakeLists.txt"
	DefaultParser     = "starlark"
)

// CMakeConfig holds the values substituted into the generated script.
type CMakeConfig struct {
	MinimumVersion string `koanf:"minimum_version"`
	CXXStandard    string `koanf:"cxx_standard"`
	GoogleTestTag  string `koanf:"googletest_tag"`
}

// DefaultCMakeConfig returns the generator defaults.
func DefaultCMakeConfig() CMakeConfig {
	return CMakeConfig{
		MinimumVersion: cmake.DefaultMinimumVersion,
		CXXStandard:    cmake.DefaultCXXStandard,
		GoogleTestTag:  cmake.DefaultGoogleTestTag,
	}
}

// GeneratorConfig combines a project name with c into a generator config.
// Empty fields fall back to the generator defaults.
func (c CMakeConfig) GeneratorConfig(projectName string) cmake.Config {
	return cmake.Config{
		ProjectName:    projectName,
		MinimumVersion: c.MinimumVersion,
		CXXStandard:    c.CXXStandard,
		GoogleTestTag:  c.GoogleTestTag,
	}
}
