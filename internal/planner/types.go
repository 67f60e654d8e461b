package planner

import (
	"image/png"

	"github.com/tlbbweb/texconv/internal/probe"
)

// Action describes how a file's channels are written.
type Action int

const (
	// ActionKeepAlpha encodes an RGBA PNG from a non-premultiplied copy.
	ActionKeepAlpha Action = iota
	// ActionFlattenRGB drops alpha and encodes a three-channel PNG.
	ActionFlattenRGB
)

func (a Action) String() string {
	switch a {
	case ActionKeepAlpha:
		return "keep alpha"
	case ActionFlattenRGB:
		return "flatten to RGB"
	default:
		return "unknown"
	}
}

// FilePlan holds the decisions for converting one file. It is produced by
// BuildPlan and consumed by the converter.
type FilePlan struct {
	Action Action
	Note   string // Human-readable reason, logged at debug level.

	InputPath   string
	OutputPath  string
	Info        *probe.ImageInfo
	Compression png.CompressionLevel
	DryRun      bool
}
