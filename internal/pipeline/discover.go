package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Texture extensions eligible for conversion (lowercase, with leading dot).
var textureExtensions = map[string]bool{
	".tga": true,
	".dds": true,
}

// IsTexture reports whether path has a .tga or .dds extension, ignoring case.
func IsTexture(path string) bool {
	return textureExtensions[strings.ToLower(filepath.Ext(path))]
}

// Warner receives discovery problems that do not stop the walk.
type Warner interface {
	Warn(string, ...interface{})
}

// Discover walks inputDir and returns the texture paths sorted
// lexicographically for deterministic processing order. When recursive is
// false only the top level is scanned. An unreadable subdirectory is reported
// through log and skipped; an unreadable inputDir is an error.
func Discover(inputDir string, recursive bool, log Warner) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == inputDir || d == nil {
				return err
			}
			log.Warn("Skipping unreadable directory %s: %v", path, err)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != inputDir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if IsTexture(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
