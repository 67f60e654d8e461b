package codec

import "image/color"

// Mode names the channel layout an image decodes to.
type Mode string

const (
	ModeRGB  Mode = "RGB"
	ModeRGBA Mode = "RGBA"
	ModeL    Mode = "L"  // Luminance.
	ModeLA   Mode = "LA" // Luminance + alpha.
	ModeP    Mode = "P"  // Palette.
	ModeCMYK Mode = "CMYK"
)

// HasAlpha reports whether the mode carries an alpha channel.
func (m Mode) HasAlpha() bool {
	return m == ModeRGBA || m == ModeLA
}

// modeFromColorModel maps the color model reported by a standard decoder's
// DecodeConfig onto a Mode. Decoders report premultiplied RGBA models for
// opaque truecolor data and non-premultiplied ones when an alpha channel is
// stored.
func modeFromColorModel(m color.Model) Mode {
	if _, ok := m.(color.Palette); ok {
		return ModeP
	}
	switch m {
	case color.NRGBAModel, color.NRGBA64Model, color.NYCbCrAModel, color.AlphaModel, color.Alpha16Model:
		return ModeRGBA
	case color.GrayModel, color.Gray16Model:
		return ModeL
	case color.CMYKModel:
		return ModeCMYK
	default:
		return ModeRGB
	}
}
