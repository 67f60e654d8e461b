// Package naming derives output paths: the default sibling .png path, the
// mirrored path under an output root, and in-run collision resolution.
package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PNGExt is the extension every output path ends in.
const PNGExt = ".png"

// ErrOutsideRoot is returned when a derived output path would leave the
// output root.
var ErrOutsideRoot = errors.New("output path escapes output root")

// PNGPath replaces the extension of the last path element with ".png".
// A name without an extension gets ".png" appended.
//
//	Material/Common/UIIcons.tga -> Material/Common/UIIcons.png
func PNGPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + PNGExt
}

// HasPNGExt reports whether path already ends in .png (any case).
func HasPNGExt(path string) bool {
	return strings.EqualFold(filepath.Ext(path), PNGExt)
}

// MirrorPath maps inputPath, which must live under inputRoot, to the same
// relative location under outputRoot with a .png extension.
//
//	<inputRoot>/A/B/x.tga -> <outputRoot>/A/B/x.png
func MirrorPath(inputRoot, outputRoot, inputPath string) (string, error) {
	rel, err := filepath.Rel(inputRoot, inputPath)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", inputPath, err)
	}
	out := filepath.Join(outputRoot, PNGPath(rel))
	if !Within(outputRoot, out) {
		return "", fmt.Errorf("%s: %w", out, ErrOutsideRoot)
	}
	return out, nil
}

// Within reports whether path is root itself or lies beneath it, comparing
// cleaned lexical paths.
func Within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// SingleOutputPath resolves the output of a single-file conversion.
// An empty output means a sibling .png of the input; an existing directory
// receives <base>.png; any other path has its extension forced to .png.
// renamed reports that a user-supplied extension was replaced.
func SingleOutputPath(input, output string) (path string, renamed bool) {
	if output == "" {
		return PNGPath(input), false
	}
	if fi, err := os.Stat(output); err == nil && fi.IsDir() {
		return filepath.Join(output, PNGPath(filepath.Base(input))), false
	}
	if HasPNGExt(output) {
		return output, false
	}
	return PNGPath(output), true
}
