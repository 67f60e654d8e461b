package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"math/bits"

	"github.com/lian/ddsdecode"
)

const (
	ddsMagic     = "DDS "
	ddsHeaderLen = 128
)

var errDDSPixelFormat = errors.New("unsupported pixel format")

// fourCC packs a four-character code the way DDS stores it.
func fourCC(s string) uint32 {
	return binary.LittleEndian.Uint32([]byte(s))
}

// ParseDDSHeader decodes the 128-byte DDS header (magic included) and rejects
// everything the decoder would misread: FourCCs other than DXT1-DXT5,
// uncompressed layouts other than 24-bit BGR and 32-bit BGRA, and mipmap
// counts longer than the surface's mip chain.
func ParseDDSHeader(head []byte) (ddsdecode.DDS_Header, error) {
	var h ddsdecode.DDS_Header
	if err := binary.Read(bytes.NewReader(head), binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("short header: %w", err)
	}
	if string(h.Magic[:]) != ddsMagic {
		return h, errors.New("invalid magic")
	}
	if h.Size != 124 || h.PixelFormat.Size != 32 {
		return h, errors.New("invalid header size")
	}
	required := uint32(ddsdecode.DDSD_CAPS | ddsdecode.DDSD_HEIGHT | ddsdecode.DDSD_WIDTH | ddsdecode.DDSD_PIXELFORMAT)
	if h.Flags&required != required || h.Caps.Caps1&ddsdecode.DDSCAPS_TEXTURE == 0 {
		return h, errors.New("invalid header flags")
	}

	pf := h.PixelFormat
	switch {
	case pf.Flags&ddsdecode.DDPF_FOURCC != 0:
		switch pf.FourCC {
		case fourCC("DXT1"), fourCC("DXT2"), fourCC("DXT3"), fourCC("DXT4"), fourCC("DXT5"):
		default:
			return h, fmt.Errorf("%w: FourCC %q", errDDSPixelFormat, binary.LittleEndian.AppendUint32(nil, pf.FourCC))
		}
	case pf.Flags&ddsdecode.DDPF_RGB != 0:
		want := uint32(24)
		if pf.Flags&ddsdecode.DDPF_ALPHAPIXELS != 0 {
			want = 32
		}
		if pf.RGBBitCount != want {
			return h, fmt.Errorf("%w: %d-bit RGB", errDDSPixelFormat, pf.RGBBitCount)
		}
	default:
		return h, errDDSPixelFormat
	}

	if h.Caps.Caps1&ddsdecode.DDSCAPS_MIPMAP != 0 {
		levels := 1 + bits.Len32(max(h.Width, h.Height))
		if h.MipMapCount > uint32(levels) {
			return h, fmt.Errorf("invalid mipmap count %d for %dx%d", h.MipMapCount, h.Width, h.Height)
		}
	}
	return h, nil
}

// ddsMode reports RGBA for block-compressed (DXTn) and alpha-flagged
// surfaces, RGB otherwise.
func ddsMode(h ddsdecode.DDS_Header) Mode {
	if h.PixelFormat.Flags&ddsdecode.DDPF_FOURCC != 0 {
		return ModeRGBA
	}
	if h.PixelFormat.Flags&ddsdecode.DDPF_ALPHAPIXELS != 0 {
		return ModeRGBA
	}
	return ModeRGB
}

// ddsSurfaceSize is the byte length of the top-level surface.
func ddsSurfaceSize(h ddsdecode.DDS_Header) int64 {
	w, ht := int64(h.Width), int64(h.Height)
	if h.PixelFormat.Flags&ddsdecode.DDPF_FOURCC != 0 {
		blocks := ((w + 3) / 4) * ((ht + 3) / 4)
		if h.PixelFormat.FourCC == fourCC("DXT1") {
			return blocks * 8
		}
		return blocks * 16
	}
	return w * ht * int64(h.PixelFormat.RGBBitCount/8)
}

var ddsFormat = format{
	name:  "dds",
	match: prefix(ddsMagic),
	header: func(head []byte, _ io.Reader) (Header, error) {
		h, err := ParseDDSHeader(head)
		if err != nil {
			return Header{}, err
		}
		return Header{Width: int(h.Width), Height: int(h.Height), Mode: ddsMode(h)}, nil
	},
	decode: decodeDDS,
}

// decodeDDS decodes the top-level surface (first cubemap face, first mip)
// into an NRGBA image. The decoder is handed a header with the mip chain
// and cube faces stripped and a body limited to that one surface, so
// whatever follows it in the file is never read.
func decodeDDS(r io.Reader) (image.Image, error) {
	head := make([]byte, ddsHeaderLen)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("short header: %w", err)
	}
	h, err := ParseDDSHeader(head)
	if err != nil {
		return nil, err
	}
	if err := checkBounds(int(h.Width), int(h.Height)); err != nil {
		return nil, err
	}

	top := h
	top.MipMapCount = 0
	top.Caps.Caps1 &^= ddsdecode.DDSCAPS_MIPMAP
	top.Caps.Caps2 &^= ddsdecode.DDSCAPS2_CUBEMAP
	var hdr bytes.Buffer
	if err := binary.Write(&hdr, binary.LittleEndian, top); err != nil {
		return nil, err
	}

	size := ddsSurfaceSize(h)
	body := &countingReader{r: io.LimitReader(r, size)}
	tex, err := ddsdecode.Decode(io.MultiReader(&hdr, body))
	if err != nil {
		return nil, err
	}
	// The decoder ignores read errors; a short surface would leave zeroed pixels.
	if body.n < size {
		return nil, io.ErrUnexpectedEOF
	}

	n := tex.Width * tex.Height * 4
	if n <= 0 || len(tex.Data) < n {
		return nil, fmt.Errorf("decoded %d bytes, want %d", len(tex.Data), n)
	}
	return &image.NRGBA{
		Pix:    tex.Data[:n],
		Stride: tex.Width * 4,
		Rect:   image.Rect(0, 0, tex.Width, tex.Height),
	}, nil
}

// countingReader counts the bytes delivered by r.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
