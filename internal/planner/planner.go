// Package planner turns probe data into a per-file conversion plan.
package planner

import (
	"fmt"

	"github.com/tlbbweb/texconv/internal/config"
	"github.com/tlbbweb/texconv/internal/probe"
)

// BuildPlan decides the channel handling for one probed file. Modes with an
// alpha or luminance-alpha channel keep it; every other mode (RGB, L, P,
// CMYK) is normalized to RGB.
func BuildPlan(cfg *config.Config, info *probe.ImageInfo, outputPath string) *FilePlan {
	plan := &FilePlan{
		InputPath:   info.Path,
		OutputPath:  outputPath,
		Info:        info,
		Compression: cfg.PNGLevel(),
		DryRun:      cfg.DryRun,
	}

	if info.HasAlpha() {
		plan.Action = ActionKeepAlpha
		plan.Note = fmt.Sprintf("%s %s has alpha; writing RGBA", info.Format, info.Mode)
	} else {
		plan.Action = ActionFlattenRGB
		plan.Note = fmt.Sprintf("%s %s; writing RGB", info.Format, info.Mode)
	}
	return plan
}
