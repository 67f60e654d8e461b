// Package display holds console formatting helpers shared by the pipeline
// summary, the converter and the --check report.
package display

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Size renders n bytes with IEC units ("512 B", "1.5 KiB", "256 KiB").
// Negative sizes render as zero.
func Size(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// SizeDelta renders a signed size change, e.g. "- 1.2 MiB".
func SizeDelta(n int64) string {
	switch {
	case n > 0:
		return "+ " + Size(n)
	case n < 0:
		return "- " + Size(-n)
	default:
		return Size(0)
	}
}

// Dimensions renders "WxH", or "unknown" when either side is not positive.
func Dimensions(width, height int) string {
	if width <= 0 || height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", width, height)
}
