// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Defaults reproduce the behavior of the legacy converter script.
package config

import (
	"errors"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// Compression selects the PNG encoder's compression level.
type Compression string

const (
	CompressionDefault Compression = "default" // zlib default (default).
	CompressionNone    Compression = "none"    // Stored blocks only.
	CompressionSpeed   Compression = "speed"   // Fastest deflate.
	CompressionBest    Compression = "best"    // Smallest output.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by the root command's flags before being passed (by pointer)
// to packages that need it.
type Config struct {
	// Paths (Input from the positional arg, Output from -o/--output).
	Input  string
	Output string // Optional. Empty means "next to the input".

	// Traversal.
	Recursive bool // Default: true. Cleared by --no-recursive.

	// Encoding.
	Compression Compression // Default: "default".

	// Behavior flags.
	DryRun   bool
	Manifest string // Optional TOML manifest path for directory runs.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config matching the legacy script: full recursion,
// output next to the input, default PNG compression.
func DefaultConfig() Config {
	return Config{
		Recursive:   true,
		Compression: CompressionDefault,
		DryRun:      false,
		Verbose:     false,
		ColorMode:   ColorAuto,
		CheckOnly:   false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks that enum fields hold valid values. When not in CheckOnly
// mode, it also requires a non-empty input path.
func (c *Config) Validate() error {
	switch c.Compression {
	case CompressionDefault, CompressionNone, CompressionSpeed, CompressionBest:
		// valid
	default:
		return errors.New("invalid compression (use 'default', 'none', 'speed' or 'best')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CheckOnly {
		return nil
	}
	if c.Input == "" {
		return errors.New("need exactly one input path")
	}
	if c.Manifest != "" && strings.EqualFold(filepath.Ext(c.Manifest), ".png") {
		return fmt.Errorf("manifest %q must not be a .png file", c.Manifest)
	}
	return nil
}

// PNGLevel maps the configured compression onto the image/png level.
func (c *Config) PNGLevel() png.CompressionLevel {
	switch c.Compression {
	case CompressionNone:
		return png.NoCompression
	case CompressionSpeed:
		return png.BestSpeed
	case CompressionBest:
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}

// OutputRoot returns the directory-mode output root: the explicit output
// when given, otherwise the input directory itself.
func (c *Config) OutputRoot() string {
	if c.Output != "" {
		return c.Output
	}
	return c.Input
}
