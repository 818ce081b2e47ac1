package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	intconfig "github.com/leapstack-labs/bzl2cmake/internal/config"
)

// loggerKey is used to store the logger in a command context.
type loggerKey struct{}

var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// flagKeys maps the flags that feed configuration to their keys. Other flags
// are command options and never reach koanf.
var flagKeys = map[string]string{
	"build-file":            "build_file",
	"output":                "output_file",
	"project-name":          "project_name",
	"parser":                "parser",
	"verbose":               "verbose",
	"format":                "format",
	"cmake-minimum-version": "cmake.minimum_version",
	"cxx-standard":          "cmake.cxx_standard",
	"googletest-tag":        "cmake.googletest_tag",
}

// pathKeys are resolved against the config file's directory when relative.
var pathKeys = []string{"build_file", "output_file"}

// ResetConfig resets the loader state. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// findConfigFile picks the config file: the explicit path, then one in the
// working directory, then the nearest one above it.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	if root := intconfig.FindProjectRoot(cwd); root != "" {
		return intconfig.FindConfigFile(root)
	}
	return ""
}

// envKey maps BZL2CMAKE_CMAKE__CXX_STANDARD to cmake.cxx_standard.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// LoadConfig loads configuration from file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Defaults
	defaults := Default()
	if err := k.Load(confmap.Provider(map[string]any{
		"build_file":            defaults.BuildFile,
		"output_file":           defaults.OutputFile,
		"project_name":          defaults.ProjectName,
		"parser":                defaults.Parser,
		"verbose":               false,
		"format":                defaults.OutputFormat,
		"cmake.minimum_version": defaults.CMake.MinimumVersion,
		"cmake.cxx_standard":    defaults.CMake.CXXStandard,
		"cmake.googletest_tag":  defaults.CMake.GoogleTestTag,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file. Relative paths in it are anchored at its directory.
	configFileUsed = findConfigFile(cfgFile)
	fileKeys := koanf.New(".")
	if configFileUsed != "" {
		if err := fileKeys.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if err := k.Merge(fileKeys); err != nil {
			return nil, fmt.Errorf("error merging config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if configFileUsed != "" {
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			cfg.ProjectRoot = filepath.Dir(abs)
		}
		resolveFilePaths(&cfg, fileKeys, k)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// resolveFilePaths anchors relative paths that still carry the config file's
// value, leaving env and flag overrides relative to the working directory.
func resolveFilePaths(cfg *Config, fileKeys, merged *koanf.Koanf) {
	for _, key := range pathKeys {
		if !fileKeys.Exists(key) || fileKeys.String(key) != merged.String(key) {
			continue
		}
		switch key {
		case "build_file":
			cfg.BuildFile = resolvePathRelativeTo(cfg.BuildFile, cfg.ProjectRoot)
		case "output_file":
			cfg.OutputFile = resolvePathRelativeTo(cfg.OutputFile, cfg.ProjectRoot)
		}
	}
}

// resolvePathRelativeTo joins path onto baseDir unless it is empty or
// absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// GetConfigFileUsed returns the path of the loaded config file, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the configuration from the last LoadConfig call.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key under which the root command stores the
// logger.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}
