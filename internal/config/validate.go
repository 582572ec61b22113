package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ironsheep/rawconv/internal/imaging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRoot(); err != nil {
		return err
	}
	if c.Depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", c.Depth)
	}
	if err := c.validateExtensions(); err != nil {
		return err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.DcrawPath == "" {
		return errors.New("dcraw_path must be set")
	}
	return c.validateLogging()
}

func (c *Config) validateRoot() error {
	if c.Root == "" {
		return errors.New("root directory is required")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("root directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", c.Root)
	}
	return nil
}

func (c *Config) validateExtensions() error {
	if c.RawExt == "" || c.RawExt == "." {
		return errors.New("raw_ext must be set")
	}
	if c.OutputExt == "" || c.OutputExt == "." {
		return errors.New("output_ext must be set")
	}
	if c.RawExt == c.OutputExt {
		return fmt.Errorf("raw_ext and output_ext must differ (both %s)", c.RawExt)
	}
	if !imaging.SupportedOutputExt(c.OutputExt) {
		return fmt.Errorf("output_ext %s is not a supported image format", c.OutputExt)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("logging.color: unsupported value %q", c.Logging.Color)
	}
	return nil
}
