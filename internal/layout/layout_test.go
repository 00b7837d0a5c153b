package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/splitux/internal/model"
)

func fullHDMonitor() model.Monitor {
	return model.Monitor{ConnectorName: "DP-1", WidthPx: 1920, HeightPx: 1080}
}

func TestSelectPreset_DefaultsToFirstInTable(t *testing.T) {
	p, err := SelectPreset(2, "")
	require.NoError(t, err)
	assert.Equal(t, "2p_horizontal", p.ID)
}

func TestSelectPreset_HonorsConfiguredID(t *testing.T) {
	p, err := SelectPreset(4, "4p_columns")
	require.NoError(t, err)
	assert.Equal(t, "4p_columns", p.ID)
}

func TestSelectPreset_FallsBackWhenConfiguredIDNotInClass(t *testing.T) {
	p, err := SelectPreset(2, "4p_grid")
	require.NoError(t, err)
	assert.Equal(t, "2p_horizontal", p.ID)
}

func TestSelectPreset_UnknownPlayerCount(t *testing.T) {
	_, err := SelectPreset(5, "")
	assert.Error(t, err)
}

func TestResolveGeometry_OnePlayerFullscreen(t *testing.T) {
	preset, err := SelectPreset(1, "")
	require.NoError(t, err)

	rects, err := ResolveGeometry(preset, nil, fullHDMonitor(), false)
	require.NoError(t, err)
	require.Len(t, rects, 1)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, rects[0])
}

func TestResolveGeometry_FourPlayerGrid(t *testing.T) {
	preset, err := SelectPreset(4, "4p_grid")
	require.NoError(t, err)

	rects, err := ResolveGeometry(preset, nil, fullHDMonitor(), false)
	require.NoError(t, err)
	require.Len(t, rects, 4)

	assert.Equal(t, Rect{X: 0, Y: 0, Width: 960, Height: 540}, rects[0])
	assert.Equal(t, Rect{X: 960, Y: 0, Width: 960, Height: 540}, rects[1])
	assert.Equal(t, Rect{X: 0, Y: 540, Width: 960, Height: 540}, rects[2])
	assert.Equal(t, Rect{X: 960, Y: 540, Width: 960, Height: 540}, rects[3])
}

func TestResolveGeometry_FourPlayerColumns(t *testing.T) {
	preset, err := SelectPreset(4, "4p_columns")
	require.NoError(t, err)

	rects, err := ResolveGeometry(preset, nil, fullHDMonitor(), false)
	require.NoError(t, err)
	require.Len(t, rects, 4)
	for i, r := range rects {
		assert.Equal(t, int32(480), r.Width)
		assert.Equal(t, int32(1080), r.Height)
		assert.Equal(t, int32(480*i), r.X)
	}
}

func TestResolveGeometry_FourPlayerRows(t *testing.T) {
	preset, err := SelectPreset(4, "4p_rows")
	require.NoError(t, err)

	rects, err := ResolveGeometry(preset, nil, fullHDMonitor(), false)
	require.NoError(t, err)
	require.Len(t, rects, 4)
	for i, r := range rects {
		assert.Equal(t, int32(1920), r.Width)
		assert.Equal(t, int32(270), r.Height)
		assert.Equal(t, int32(270*i), r.Y)
	}
}

func TestResolveGeometry_InstanceToRegionPermutation(t *testing.T) {
	preset, err := SelectPreset(2, "2p_vertical")
	require.NoError(t, err)

	rects, err := ResolveGeometry(preset, []int{1, 0}, fullHDMonitor(), false)
	require.NoError(t, err)
	require.Len(t, rects, 2)

	assert.Equal(t, int32(960), rects[0].X)
	assert.Equal(t, int32(0), rects[1].X)
}

func TestResolveGeometry_RejectsNonPermutation(t *testing.T) {
	preset, err := SelectPreset(2, "2p_horizontal")
	require.NoError(t, err)

	_, err = ResolveGeometry(preset, []int{0, 0}, fullHDMonitor(), false)
	assert.Error(t, err)
}

func TestResolveGeometry_LowResolutionCorrection(t *testing.T) {
	preset, err := SelectPreset(4, "4p_columns")
	require.NoError(t, err)

	rects, err := ResolveGeometry(preset, nil, fullHDMonitor(), true)
	require.NoError(t, err)
	for _, r := range rects {
		assert.Equal(t, int32(600), r.Width)
		assert.Equal(t, int32(1350), r.Height)
	}
}

func TestResolveGeometry_LowResolutionCorrectionNoopAboveThreshold(t *testing.T) {
	preset, err := SelectPreset(1, "")
	require.NoError(t, err)

	rects, err := ResolveGeometry(preset, nil, fullHDMonitor(), true)
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, rects[0])
}

func TestFixLowResolution_ScalesMinorAxis(t *testing.T) {
	w, h := fixLowResolution(480, 1080)
	assert.Equal(t, int32(600), w)
	assert.Equal(t, int32(1350), h)
}

func TestPresets_UnknownCountReturnsEmpty(t *testing.T) {
	assert.Empty(t, Presets(7))
}
