package naming

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Assignment is the output chosen for one input of a directory run.
type Assignment struct {
	Input   string
	Output  string
	Renamed bool  // Output is not the plain mirrored path.
	Err     error // Mirroring failed; Output is empty.
}

// Assign mirrors every input under outputRoot. Textures that differ only by
// extension or its case (icon.tga, icon.TGA, icon.dds) mirror to the same
// icon.png: the best ranked one keeps it and the others are written as
// <name>.<ext>.png (icon.dds.png), or with a " - dupN" suffix if that is taken
// too. A .tga outranks a .dds, a lowercase extension outranks any other case,
// and ties go to path order. Assignments are returned in input order.
func Assign(inputRoot, outputRoot string, inputs []string) []Assignment {
	out := make([]Assignment, len(inputs))
	groups := make(map[string][]int)
	var order []string
	for i, in := range inputs {
		out[i].Input = in
		p, err := MirrorPath(inputRoot, outputRoot, in)
		if err != nil {
			out[i].Err = err
			continue
		}
		out[i].Output = p
		if _, ok := groups[p]; !ok {
			order = append(order, p)
		}
		groups[p] = append(groups[p], i)
	}

	claimed := make(map[string]bool, len(inputs))
	for _, p := range order {
		claimed[p] = true
	}
	for _, p := range order {
		idx := groups[p]
		if len(idx) < 2 {
			continue
		}
		slices.SortStableFunc(idx, func(a, b int) int {
			return cmp.Compare(extRank(inputs[a]), extRank(inputs[b]))
		})
		for _, i := range idx[1:] {
			alt := freeName(filepath.Join(filepath.Dir(p), filepath.Base(inputs[i])+PNGExt), claimed)
			claimed[alt] = true
			out[i].Output = alt
			out[i].Renamed = true
		}
	}
	return out
}

func extRank(path string) int {
	ext := filepath.Ext(path)
	r := 0
	if !strings.EqualFold(ext, ".tga") {
		r += 2
	}
	if ext != strings.ToLower(ext) {
		r++
	}
	return r
}

// freeName returns path, or the first unclaimed "<stem> - dupN.png" variant.
func freeName(path string, claimed map[string]bool) string {
	if !claimed[path] {
		return path
	}
	stem := strings.TrimSuffix(path, PNGExt)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s - dup%d%s", stem, n, PNGExt)
		if !claimed[candidate] {
			return candidate
		}
	}
}
