// Package probe inspects input files without decoding pixel data: it checks
// that the path is a readable regular file and reads the image header to
// learn the format, dimensions, and channel mode.
package probe

import (
	"errors"
	"fmt"
	"os"

	"github.com/tlbbweb/texconv/internal/codec"
)

// minFileSize is the size of the smallest header any supported format has
// (the 18-byte TGA header). Anything shorter is truncated or empty.
const minFileSize = 18

// Sentinel errors returned by Probe before the header is read.
var (
	ErrNotRegular = errors.New("not a regular file")
	ErrTooSmall   = errors.New("file too small (possibly corrupt)")
)

// Probe stats path and reads its image header.
func Probe(path string) (*ImageInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	if fi.Size() < minFileSize {
		return nil, fmt.Errorf("%s: %w", path, ErrTooSmall)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := codec.ReadHeader(f)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return &ImageInfo{
		Path:   path,
		Size:   fi.Size(),
		Format: h.Format,
		Mode:   h.Mode,
		Width:  h.Width,
		Height: h.Height,
	}, nil
}
