// Package report writes the optional TOML manifest of a directory run: one
// entry per eligible texture with its outcome, plus the run summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Entry status values.
const (
	StatusConverted = "converted"
	StatusFailed    = "failed"
	StatusPlanned   = "planned" // dry run
)

// Entry is one texture in the manifest.
type Entry struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
	Format string `toml:"format,omitempty"`
	Mode   string `toml:"mode,omitempty"`
	Action string `toml:"action,omitempty"`
	Status string `toml:"status"`
	Bytes  int64  `toml:"bytes,omitempty"`
	Error  string `toml:"error,omitempty"`
}

// Summary mirrors the counters printed at the end of a run.
type Summary struct {
	Total       int   `toml:"total"`
	Converted   int   `toml:"converted"`
	Failed      int   `toml:"failed"`
	InputBytes  int64 `toml:"input_bytes"`
	OutputBytes int64 `toml:"output_bytes"`
}

// Manifest is the top-level TOML document.
type Manifest struct {
	Generated  time.Time `toml:"generated"`
	InputRoot  string    `toml:"input_root"`
	OutputRoot string    `toml:"output_root"`
	DryRun     bool      `toml:"dry_run"`
	Summary    Summary   `toml:"summary"`
	Files      []Entry   `toml:"file"`
}

// Add appends an entry.
func (m *Manifest) Add(e Entry) {
	m.Files = append(m.Files, e)
}

// Write encodes m to path, creating the parent directory if needed.
func Write(path string, m *Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("encode manifest: %w", err)
	}
	return f.Close()
}

// Read decodes a manifest previously produced by Write.
func Read(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
