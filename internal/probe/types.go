package probe

import (
	"github.com/tlbbweb/texconv/internal/codec"
	"github.com/tlbbweb/texconv/internal/display"
)

// ImageInfo is the header-level description of one input file.
type ImageInfo struct {
	Path   string
	Size   int64 // File size in bytes.
	Format string
	Mode   codec.Mode
	Width  int
	Height int
}

// HasAlpha reports whether the image decodes with an alpha channel.
func (i *ImageInfo) HasAlpha() bool {
	return i.Mode.HasAlpha()
}

// Resolution returns "WxH", or "unknown".
func (i *ImageInfo) Resolution() string {
	return display.Dimensions(i.Width, i.Height)
}
