// Package convert is the single-file converter: decode one input image,
// apply the plan's channel handling, and write one PNG.
//
// Failures never escape as panics or fatal errors. Every outcome is returned
// as a [Result]; callers count Result.OK() and keep going.
package convert

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/tlbbweb/texconv/internal/codec"
	"github.com/tlbbweb/texconv/internal/config"
	"github.com/tlbbweb/texconv/internal/display"
	"github.com/tlbbweb/texconv/internal/naming"
	"github.com/tlbbweb/texconv/internal/planner"
	"github.com/tlbbweb/texconv/internal/probe"
)

// Logger is the minimal logging interface the converter needs.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Result is the outcome of one conversion attempt.
type Result struct {
	Input   string
	Output  string
	Format  string     // Detected input format; empty if probing failed.
	Mode    codec.Mode // Detected input mode; empty if probing failed.
	Action  planner.Action
	InBytes int64 // Size of the input file; zero if probing failed.
	Bytes   int64 // Size of the written PNG; zero on failure or dry run.
	Err     error
}

// OK reports whether the conversion succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Converter converts single files according to cfg.
type Converter struct {
	cfg *config.Config
	log Logger
}

// New returns a Converter bound to cfg and log.
func New(cfg *config.Config, log Logger) *Converter {
	return &Converter{cfg: cfg, log: log}
}

// Convert writes inputPath as a PNG at outputPath. An empty outputPath means
// the input path with its extension replaced by ".png". The parent directory
// of outputPath must already exist.
func (c *Converter) Convert(inputPath, outputPath string) Result {
	if outputPath == "" {
		outputPath = naming.PNGPath(inputPath)
	}
	res := Result{Input: inputPath, Output: outputPath}

	info, err := probe.Probe(inputPath)
	if err != nil {
		return c.fail(res, err)
	}
	res.Format, res.Mode, res.InBytes = info.Format, info.Mode, info.Size

	plan := planner.BuildPlan(c.cfg, info, outputPath)
	res.Action = plan.Action
	c.log.Debug("  %s (%s): %s", filepath.Base(inputPath), info.Resolution(), plan.Note)

	if plan.DryRun {
		c.log.Success("[DRY] Would convert: %s -> %s", inputPath, outputPath)
		return res
	}

	n, err := Execute(plan)
	if err != nil {
		return c.fail(res, err)
	}
	res.Bytes = n
	c.log.Success("Converted: %s -> %s (%s)", inputPath, outputPath, display.Size(n))
	return res
}

func (c *Converter) fail(res Result, err error) Result {
	res.Err = err
	c.log.Error("Error converting %s: %v", res.Input, err)
	return res
}

// Execute decodes plan.InputPath, normalizes channels per plan.Action and
// encodes the PNG to plan.OutputPath. It returns the number of bytes written.
// A partially written output is removed on failure.
func Execute(plan *planner.FilePlan) (int64, error) {
	img, err := decodeFile(plan.InputPath)
	if err != nil {
		return 0, err
	}
	out := Normalize(img, plan.Action)

	f, err := os.Create(plan.OutputPath)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	if err := imaging.Encode(f, out, imaging.PNG, imaging.PNGCompressionLevel(plan.Compression)); err != nil {
		f.Close()
		os.Remove(plan.OutputPath)
		return 0, fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(plan.OutputPath)
		return 0, fmt.Errorf("write output: %w", err)
	}

	fi, err := os.Stat(plan.OutputPath)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// Normalize returns the image to encode. ActionKeepAlpha yields a
// non-premultiplied RGBA copy; ActionFlattenRGB yields the same copy with
// every pixel forced opaque, which the PNG encoder writes as 8-bit RGB.
func Normalize(img image.Image, action planner.Action) *image.NRGBA {
	dst := imaging.Clone(img)
	if action == planner.ActionKeepAlpha {
		return dst
	}
	for y := 0; y < dst.Rect.Dy(); y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+dst.Rect.Dx()*4]
		for i := 3; i < len(row); i += 4 {
			row[i] = 0xff
		}
	}
	return dst
}
