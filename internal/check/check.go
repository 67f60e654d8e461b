// Package check provides the --check diagnostics: it lists the registered
// decoders and runs in-memory self-tests of the TGA decoder and the PNG
// encoder at the configured compression level.
package check

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"runtime"

	"github.com/disintegration/imaging"

	"github.com/tlbbweb/texconv/internal/codec"
	"github.com/tlbbweb/texconv/internal/config"
)

// Sentinel errors returned by the self-tests.
var (
	ErrNoDecoders        = errors.New("no image decoders registered")
	ErrDecodeSelfTest    = errors.New("TGA decoder self-test failed")
	ErrEncodeSelfTest    = errors.New("PNG encoder self-test failed")
	ErrRoundTripMismatch = errors.New("PNG round trip changed pixel data")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// stays testable with a recording logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck runs the interactive --check flow and reports whether every
// self-test passed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	log.Info("Go runtime: %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	ok := true
	if err := checkDecoders(log); err != nil {
		log.Error("%v", err)
		ok = false
	}
	if err := CheckTGADecode(); err != nil {
		log.Error("%v", err)
		ok = false
	} else {
		log.Success("TGA decoder works")
	}
	if err := CheckPNGEncode(cfg.PNGLevel()); err != nil {
		log.Error("%v", err)
		ok = false
	} else {
		log.Success("PNG encoder works (compression: %s)", cfg.Compression)
	}
	return ok
}

func checkDecoders(log Logger) error {
	names := codec.Names()
	if len(names) == 0 {
		return ErrNoDecoders
	}
	log.Info("Decoders (sniff order):")
	for _, n := range names {
		log.Info("  %s", n)
	}
	return nil
}

// CheckTGADecode decodes a 2x1 uncompressed 32-bit TGA held in memory and
// verifies its pixels.
func CheckTGADecode() error {
	raw := []byte{
		0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 1, 0, 32, 0x28,
		0x00, 0x00, 0xff, 0xff, // red, opaque (BGRA)
		0xff, 0x00, 0x00, 0x80, // blue, half alpha
	}
	img, format, err := codec.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeSelfTest, err)
	}
	if format != "tga" {
		return fmt.Errorf("%w: sniffed as %q", ErrDecodeSelfTest, format)
	}
	want := []color.NRGBA{{R: 0xff, A: 0xff}, {B: 0xff, A: 0x80}}
	b := img.Bounds()
	for i, w := range want {
		got := color.NRGBAModel.Convert(img.At(b.Min.X+i, b.Min.Y)).(color.NRGBA)
		if got != w {
			return fmt.Errorf("%w: pixel %d is %v, want %v", ErrDecodeSelfTest, i, got, w)
		}
	}
	return nil
}

// CheckPNGEncode encodes a small translucent image at level and decodes it
// back, comparing every pixel.
func CheckPNGEncode(level png.CompressionLevel) error {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+0] = uint8(i * 17)
		src.Pix[i+1] = uint8(255 - i*9)
		src.Pix[i+2] = uint8(i * 5)
		src.Pix[i+3] = uint8(64 + i*7)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.PNG, imaging.PNGCompressionLevel(level)); err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeSelfTest, err)
	}
	img, format, err := codec.Decode(&buf)
	if err != nil || format != "png" {
		return fmt.Errorf("%w: decode back: %v", ErrEncodeSelfTest, err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			got := color.NRGBAModel.Convert(img.At(x, y))
			if got != src.NRGBAAt(x, y) {
				return fmt.Errorf("%w at (%d,%d)", ErrRoundTripMismatch, x, y)
			}
		}
	}
	return nil
}
