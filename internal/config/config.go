package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Color modes for console output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultConfigName is the file looked up in the working directory when no
// explicit config path is given.
const DefaultConfigName = "rawconv.toml"

// Config holds every setting of a conversion run.
type Config struct {
	// Root is the directory whose subtree is scanned for RAW files.
	Root string `toml:"root"`
	// Depth is the number of directory levels below Root at which RAW files
	// are collected.
	Depth int `toml:"depth"`
	// RawExt is the source file extension, with leading dot.
	RawExt string `toml:"raw_ext"`
	// OutputExt is the output file extension, with leading dot.
	OutputExt   string  `toml:"output_ext"`
	JPEGQuality int     `toml:"jpeg_quality"`
	DcrawPath   string  `toml:"dcraw_path"`
	Logging     Logging `toml:"logging"`
}

// Logging contains console logging settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// Default returns a config with every default applied and no root.
func Default() Config {
	return Config{
		Depth:       4,
		RawExt:      ".dng",
		OutputExt:   ".jpg",
		JPEGQuality: 75,
		DcrawPath:   "dcraw",
		Logging: Logging{
			Level:  "info",
			Format: "console",
			Color:  ColorAuto,
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path looks for
// DefaultConfigName in the working directory and silently uses the defaults
// when it is absent; an explicit path must exist.
//
// The returned config is normalized but not validated, so flags can still be
// applied before calling Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigName
	}

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg.Normalize()
	return &cfg, nil
}

// Normalize cleans paths and puts extensions in lowercase dotted form.
func (c *Config) Normalize() {
	c.Root = strings.TrimSpace(c.Root)
	if c.Root != "" {
		c.Root = filepath.Clean(c.Root)
	}
	c.RawExt = normalizeExt(c.RawExt)
	c.OutputExt = normalizeExt(c.OutputExt)
	c.DcrawPath = strings.TrimSpace(c.DcrawPath)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Color = strings.ToLower(strings.TrimSpace(c.Logging.Color))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
