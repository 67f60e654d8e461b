package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/ftrvxmtrx/tga"
)

// TGA image types.
const (
	tgaColorMapped    = 1
	tgaTrueColor      = 2
	tgaGrayscale      = 3
	tgaRLEColorMapped = 9
	tgaRLETrueColor   = 10
	tgaRLEGrayscale   = 11
)

const (
	tgaHeaderLen = 18
	// tgaFooterLen is the TGA 2.0 footer the decoder always seeks back to.
	tgaFooterLen = 26
)

// TGAHeader is the fixed 18-byte TGA file header.
type TGAHeader struct {
	IDLength     uint8
	ColorMapType uint8
	ImageType    uint8
	ColorMapLen  uint16
	ColorMapBits uint8
	Width        uint16
	Height       uint16
	PixelDepth   uint8
	Descriptor   uint8
}

// AlphaBits is the attribute-bits count stored in the image descriptor.
func (h TGAHeader) AlphaBits() uint8 { return h.Descriptor & 0x0f }

var errNotTGA = errors.New("not a TGA header")

// ParseTGAHeader validates and decodes a TGA header from the first 18 bytes
// of a file. Validation is strict because TGA has no signature: it is the
// only thing separating a texture from arbitrary bytes.
func ParseTGAHeader(head []byte) (TGAHeader, error) {
	if len(head) < tgaHeaderLen {
		return TGAHeader{}, errNotTGA
	}
	h := TGAHeader{
		IDLength:     head[0],
		ColorMapType: head[1],
		ImageType:    head[2],
		ColorMapLen:  binary.LittleEndian.Uint16(head[5:7]),
		ColorMapBits: head[7],
		Width:        binary.LittleEndian.Uint16(head[12:14]),
		Height:       binary.LittleEndian.Uint16(head[14:16]),
		PixelDepth:   head[16],
		Descriptor:   head[17],
	}

	switch h.ImageType {
	case tgaColorMapped, tgaRLEColorMapped:
		if h.ColorMapType != 1 || h.ColorMapLen == 0 {
			return TGAHeader{}, errNotTGA
		}
	case tgaTrueColor, tgaRLETrueColor, tgaGrayscale, tgaRLEGrayscale:
		if h.ColorMapType > 1 {
			return TGAHeader{}, errNotTGA
		}
	default:
		return TGAHeader{}, errNotTGA
	}

	switch h.PixelDepth {
	case 8, 15, 16, 24, 32:
	default:
		return TGAHeader{}, errNotTGA
	}
	// Bits 6-7 of the descriptor are reserved interleave flags and must be zero.
	if h.Descriptor&0xc0 != 0 || h.Width == 0 || h.Height == 0 {
		return TGAHeader{}, errNotTGA
	}
	return h, nil
}

// Mode derives the decoded channel layout from the header.
func (h TGAHeader) Mode() Mode {
	switch h.ImageType {
	case tgaColorMapped, tgaRLEColorMapped:
		return ModeP
	case tgaGrayscale, tgaRLEGrayscale:
		if h.PixelDepth == 16 {
			return ModeLA
		}
		return ModeL
	}
	switch {
	case h.PixelDepth == 32:
		return ModeRGBA
	case h.PixelDepth == 16 && h.AlphaBits() > 0:
		return ModeRGBA
	default:
		return ModeRGB
	}
}

var tgaFormat = format{
	name: "tga",
	match: func(head []byte) bool {
		_, err := ParseTGAHeader(head)
		return err == nil
	},
	header: func(head []byte, _ io.Reader) (Header, error) {
		h, err := ParseTGAHeader(head)
		if err != nil {
			return Header{}, err
		}
		return Header{Width: int(h.Width), Height: int(h.Height), Mode: h.Mode()}, nil
	},
	decode: decodeTGA,
}

// payloadLen is the minimum file length of an uncompressed image: header,
// image ID, color map and pixels. It returns 0 for RLE types, whose length
// is only known after decoding.
func (h TGAHeader) payloadLen() int64 {
	switch h.ImageType {
	case tgaColorMapped, tgaTrueColor, tgaGrayscale:
	default:
		return 0
	}
	n := int64(tgaHeaderLen) + int64(h.IDLength)
	if h.ColorMapType == 1 {
		n += int64(h.ColorMapLen) * int64((h.ColorMapBits+7)/8)
	}
	return n + int64(h.Width)*int64(h.Height)*int64((h.PixelDepth+7)/8)
}

func decodeTGA(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	h, err := ParseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	if err := checkBounds(int(h.Width), int(h.Height)); err != nil {
		return nil, err
	}
	if want := h.payloadLen(); int64(len(data)) < want {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", io.ErrUnexpectedEOF, len(data), want)
	}
	// Tiny images end before the footer offset the decoder seeks to; a zero
	// footer carries no signature, so the padding is never interpreted.
	if len(data) < tgaFooterLen {
		data = append(data, make([]byte, tgaFooterLen-len(data))...)
	}
	return tga.Decode(bytes.NewReader(data))
}
