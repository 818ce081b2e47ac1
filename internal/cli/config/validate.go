package config

import (
	"fmt"

	"github.com/leapstack-labs/bzl2cmake/internal/cli/output"
	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
)

// Validate checks that the configuration can drive a conversion.
func (c *Config) Validate() error {
	if c.BuildFile == "" {
		return fmt.Errorf("build_file is required")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file is required")
	}
	if c.ProjectName == "" {
		return fmt.Errorf("project_name is required")
	}
	if _, err := descriptor.ParseFrontend(c.Parser); err != nil {
		return err
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	return nil
}
