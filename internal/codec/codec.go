// Package codec is the decoder table used by the converter. Formats are
// recognized from file content, never from the file extension: each entry
// has a magic/header matcher, a cheap header reader that reports dimensions
// and channel mode, and a full decoder backed by an existing library.
//
// TGA has no magic number, so it is matched last by validating its 18-byte
// header; everything else is matched by signature first.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
)

// ErrUnknownFormat is returned when no decoder recognizes the content.
var ErrUnknownFormat = errors.New("unknown image format")

// maxPixels bounds width*height before any pixel buffer is allocated, so a
// corrupt header cannot request gigabytes of memory.
const maxPixels = 1 << 27

// peekLen covers the largest header we sniff (DDS: 4 magic + 124 header).
const peekLen = 128

// Header is the result of reading an image header without decoding pixels.
type Header struct {
	Format string
	Width  int
	Height int
	Mode   Mode
}

type format struct {
	name   string
	match  func(head []byte) bool
	header func(head []byte, r io.Reader) (Header, error)
	decode func(r io.Reader) (image.Image, error)
}

// formats is ordered: signature-matched formats first, TGA last.
var formats = []format{
	ddsFormat,
	pngFormat,
	jpegFormat,
	gifFormat,
	bmpFormat,
	tiffFormat,
	webpFormat,
	tgaFormat,
}

// Names lists the supported format names in match order.
func Names() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.name
	}
	return names
}

// Sniff returns the name of the format recognized from the leading bytes of
// a file, or "" when none matches.
func Sniff(head []byte) string {
	if f, ok := lookup(head); ok {
		return f.name
	}
	return ""
}

func lookup(head []byte) (format, bool) {
	for _, f := range formats {
		if f.match(head) {
			return f, true
		}
	}
	return format{}, false
}

// sniff wraps r so its leading bytes can be inspected without consuming them.
func sniff(r io.Reader) (*bufio.Reader, format, error) {
	br := bufio.NewReaderSize(r, 4096)
	// Peek reports io.EOF for short files; whatever was read is still usable.
	head, err := br.Peek(peekLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, format{}, err
	}
	f, ok := lookup(head)
	if !ok {
		return nil, format{}, ErrUnknownFormat
	}
	return br, f, nil
}

// ReadHeader identifies the format of r and reads its dimensions and mode.
func ReadHeader(r io.Reader) (Header, error) {
	br, f, err := sniff(r)
	if err != nil {
		return Header{}, err
	}
	head, _ := br.Peek(peekLen)
	h, err := f.header(head, br)
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", f.name, err)
	}
	h.Format = f.name
	if err := checkBounds(h.Width, h.Height); err != nil {
		return Header{}, fmt.Errorf("%s: %w", f.name, err)
	}
	return h, nil
}

// Decode identifies the format of r and decodes the full image. The
// returned name is the detected format.
func Decode(r io.Reader) (image.Image, string, error) {
	br, f, err := sniff(r)
	if err != nil {
		return nil, "", err
	}
	img, err := f.decode(br)
	if err != nil {
		return nil, f.name, fmt.Errorf("%s: %w", f.name, err)
	}
	return img, f.name, nil
}

func checkBounds(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if int64(width)*int64(height) > maxPixels {
		return fmt.Errorf("dimensions %dx%d exceed limit", width, height)
	}
	return nil
}
