// Package layout implements the Layout Resolver (C8): choosing a preset
// for a player count, applying an optional region permutation, and
// computing per-instance pixel geometry on a monitor.
package layout

import (
	"fmt"
	"math"

	"github.com/bnema/splitux/internal/model"
)

// Rect is a pixel rectangle on a monitor.
type Rect struct {
	X, Y, Width, Height int32
}

// presets is the fixed table of built-in layout presets (see GLOSSARY).
// S(p) in spec.md §4.1 is Presets(p) below.
var presets = []model.LayoutPreset{
	{
		ID: "1p_fullscreen", DisplayName: "Fullscreen", PlayerCount: 1,
		Regions: []model.Region{{FX: 0, FY: 0, FW: 1, FH: 1}},
	},
	{
		ID: "2p_horizontal", DisplayName: "2-Player Horizontal", PlayerCount: 2,
		Regions: []model.Region{{FX: 0, FY: 0, FW: 1, FH: 0.5}, {FX: 0, FY: 0.5, FW: 1, FH: 0.5}},
	},
	{
		ID: "2p_vertical", DisplayName: "2-Player Vertical", PlayerCount: 2,
		Regions: []model.Region{{FX: 0, FY: 0, FW: 0.5, FH: 1}, {FX: 0.5, FY: 0, FW: 0.5, FH: 1}},
	},
	{
		ID: "3p_t_shape", DisplayName: "3-Player T-Shape", PlayerCount: 3,
		Regions: []model.Region{
			{FX: 0, FY: 0, FW: 0.5, FH: 0.5},
			{FX: 0.5, FY: 0, FW: 0.5, FH: 0.5},
			{FX: 0, FY: 0.5, FW: 1, FH: 0.5},
		},
	},
	{
		ID: "4p_grid", DisplayName: "4-Player Grid", PlayerCount: 4,
		Regions: []model.Region{
			{FX: 0, FY: 0, FW: 0.5, FH: 0.5},
			{FX: 0.5, FY: 0, FW: 0.5, FH: 0.5},
			{FX: 0, FY: 0.5, FW: 0.5, FH: 0.5},
			{FX: 0.5, FY: 0.5, FW: 0.5, FH: 0.5},
		},
	},
	{
		ID: "4p_columns", DisplayName: "4-Player Columns", PlayerCount: 4,
		Regions: []model.Region{
			{FX: 0, FY: 0, FW: 0.25, FH: 1},
			{FX: 0.25, FY: 0, FW: 0.25, FH: 1},
			{FX: 0.5, FY: 0, FW: 0.25, FH: 1},
			{FX: 0.75, FY: 0, FW: 0.25, FH: 1},
		},
	},
	{
		ID: "4p_rows", DisplayName: "4-Player Rows", PlayerCount: 4,
		Regions: []model.Region{
			{FX: 0, FY: 0, FW: 1, FH: 0.25},
			{FX: 0, FY: 0.25, FW: 1, FH: 0.25},
			{FX: 0, FY: 0.5, FW: 1, FH: 0.25},
			{FX: 0, FY: 0.75, FW: 1, FH: 0.25},
		},
	},
}

// Presets returns the presets whose PlayerCount equals p, in table order
// (S(p) in spec.md §4.1 — the first entry is the default).
func Presets(p int) []model.LayoutPreset {
	var out []model.LayoutPreset
	for _, preset := range presets {
		if preset.PlayerCount == p {
			out = append(out, preset)
		}
	}
	return out
}

// presetByID looks up a preset by its id among the given candidates.
func presetByID(candidates []model.LayoutPreset, id string) (model.LayoutPreset, bool) {
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return model.LayoutPreset{}, false
}

// SelectPreset implements spec.md §4.1's preset selection rule: if
// config names a preset in S(p), use it; else use S(p)[0].
func SelectPreset(playerCount int, configuredID string) (model.LayoutPreset, error) {
	candidates := Presets(playerCount)
	if len(candidates) == 0 {
		return model.LayoutPreset{}, fmt.Errorf("no layout preset defined for %d players", playerCount)
	}
	if configuredID != "" {
		if p, ok := presetByID(candidates, configuredID); ok {
			return p, nil
		}
	}
	return candidates[0], nil
}

// identityPermutation returns [0, 1, ..., n-1].
func identityPermutation(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// isPermutation reports whether perm is a permutation of {0...n-1}.
func isPermutation(perm []int, n int) bool {
	if len(perm) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range perm {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// ResolveGeometry computes the pixel rectangle for every instance given
// a preset, an optional instance-to-region permutation (nil or empty
// means identity), the target monitor, and whether the low-resolution
// correction (spec.md §4.1) should be applied.
func ResolveGeometry(preset model.LayoutPreset, instanceToRegion []int, monitor model.Monitor, fixLowres bool) ([]Rect, error) {
	n := preset.PlayerCount
	if len(instanceToRegion) == 0 {
		instanceToRegion = identityPermutation(n)
	}
	if !isPermutation(instanceToRegion, n) {
		return nil, fmt.Errorf("instance_to_region is not a permutation of 0..%d", n-1)
	}

	rects := make([]Rect, n)
	for i := 0; i < n; i++ {
		region := preset.Regions[instanceToRegion[i]]
		rects[i] = computeRect(monitor, region, fixLowres)
	}
	return rects, nil
}

func computeRect(m model.Monitor, r model.Region, fixLowres bool) Rect {
	x := m.XOrigin + round(r.FX*float64(m.WidthPx))
	y := m.YOrigin + round(r.FY*float64(m.HeightPx))
	w := round(r.FW * float64(m.WidthPx))
	h := round(r.FH * float64(m.HeightPx))

	if fixLowres {
		w, h = fixLowResolution(w, h)
	}

	return Rect{X: x, Y: y, Width: w, Height: h}
}

// fixLowResolution snaps the minor axis up to 600px, scaling the other
// dimension proportionally, per spec.md §4.1.
func fixLowResolution(w, h int32) (int32, int32) {
	const minDim = 600
	if w >= minDim && h >= minDim {
		return w, h
	}
	if w < h {
		scale := float64(minDim) / float64(w)
		return minDim, int32(math.Round(float64(h) * scale))
	}
	scale := float64(minDim) / float64(h)
	return int32(math.Round(float64(w) * scale)), minDim
}

func round(f float64) int32 {
	return int32(math.Round(f))
}
