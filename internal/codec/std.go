package codec

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Formats with a fixed signature, decoded by the standard library or
// golang.org/x/image. They are not game-asset formats but the converter
// accepts them so a mislabelled .tga/.dds file still converts.

var pngFormat = format{
	name:   "png",
	match:  prefix("\x89PNG\r\n\x1a\n"),
	header: configHeader(png.DecodeConfig),
	decode: png.Decode,
}

var jpegFormat = format{
	name:   "jpeg",
	match:  prefix("\xff\xd8\xff"),
	header: configHeader(jpeg.DecodeConfig),
	decode: jpeg.Decode,
}

var gifFormat = format{
	name: "gif",
	match: func(head []byte) bool {
		return bytes.HasPrefix(head, []byte("GIF87a")) || bytes.HasPrefix(head, []byte("GIF89a"))
	},
	header: configHeader(gif.DecodeConfig),
	decode: gif.Decode,
}

var bmpFormat = format{
	name:   "bmp",
	match:  prefix("BM"),
	header: configHeader(bmp.DecodeConfig),
	decode: bmp.Decode,
}

var tiffFormat = format{
	name: "tiff",
	match: func(head []byte) bool {
		return bytes.HasPrefix(head, []byte("II*\x00")) || bytes.HasPrefix(head, []byte("MM\x00*"))
	},
	header: configHeader(tiff.DecodeConfig),
	decode: tiff.Decode,
}

var webpFormat = format{
	name: "webp",
	match: func(head []byte) bool {
		return len(head) >= 12 && string(head[:4]) == "RIFF" && string(head[8:12]) == "WEBP"
	},
	header: configHeader(webp.DecodeConfig),
	decode: webp.Decode,
}

func prefix(magic string) func([]byte) bool {
	return func(head []byte) bool {
		return bytes.HasPrefix(head, []byte(magic))
	}
}

// configHeader adapts a DecodeConfig function to the header reader shape.
func configHeader(decodeConfig func(io.Reader) (image.Config, error)) func([]byte, io.Reader) (Header, error) {
	return func(_ []byte, r io.Reader) (Header, error) {
		cfg, err := decodeConfig(r)
		if err != nil {
			return Header{}, err
		}
		return Header{
			Width:  cfg.Width,
			Height: cfg.Height,
			Mode:   modeFromColorModel(cfg.ColorModel),
		}, nil
	}
}
