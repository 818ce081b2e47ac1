// Package config loads CLI configuration from defaults, a bzl2cmake.yaml
// file, BZL2CMAKE_ environment variables and command-line flags.
package config

import (
	intconfig "github.com/leapstack-labs/bzl2cmake/internal/config"
	"github.com/leapstack-labs/bzl2cmake/internal/cmake"
)

// CMakeConfig is an alias for the shared generator settings.
type CMakeConfig = intconfig.CMakeConfig

// Config holds all CLI configuration options.
type Config struct {
	BuildFile    string      `koanf:"build_file"`
	OutputFile   string      `koanf:"output_file"`
	ProjectName  string      `koanf:"project_name"`
	Parser       string      `koanf:"parser"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"format"`
	CMake        CMakeConfig `koanf:"cmake"`

	// ProjectRoot is the directory relative config paths resolve against.
	// It is empty when no config file was loaded.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultBuildFile   = intconfig.DefaultBuildFile
	DefaultOutputFile  = intconfig.DefaultOutputFile
	DefaultProjectName = cmake.DefaultProjectName
	DefaultParser      = intconfig.DefaultParser
	DefaultFormat      = "auto"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "BZL2CMAKE_"

// GeneratorConfig returns the generator settings for this configuration.
func (c *Config) GeneratorConfig() cmake.Config {
	return c.CMake.GeneratorConfig(c.ProjectName)
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		BuildFile:    DefaultBuildFile,
		OutputFile:   DefaultOutputFile,
		ProjectName:  DefaultProjectName,
		Parser:       DefaultParser,
		OutputFormat: DefaultFormat,
		CMake:        intconfig.DefaultCMakeConfig(),
	}
}
