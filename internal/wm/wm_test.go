package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/splitux/internal/model"
)

func TestDetect_ExplicitConfigOverridesEnv(t *testing.T) {
	assert.Equal(t, "reactive-script", Detect(model.WMReactiveScript).Name())
	assert.Equal(t, "positioning-controller", Detect(model.WMPositioningController).Name())
	assert.Equal(t, "tiled-controller", Detect(model.WMTiledController).Name())
	assert.Equal(t, "none", Detect(model.WMNone).Name())
}

func TestDetect_AutoFallsBackToNoop(t *testing.T) {
	t.Setenv("SWAYSOCK", "")
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")
	t.Setenv("KDE_FULL_SESSION", "")
	assert.Equal(t, "none", Detect(model.WMAuto).Name())
}

func TestDetect_AutoPrefersSway(t *testing.T) {
	t.Setenv("SWAYSOCK", "/run/user/1000/sway-ipc.sock")
	assert.Equal(t, "reactive-script", Detect(model.WMAuto).Name())
}

func TestReactiveScriptBackend_IsReactive(t *testing.T) {
	assert.True(t, NewReactiveScriptBackend().IsReactive())
}

func TestPositioningControllerBackend_IsNotReactive(t *testing.T) {
	assert.False(t, NewPositioningControllerBackend().IsReactive())
}

func TestBuildTilingPlan_FourPlayerGridSplitsIntoTwoColumns(t *testing.T) {
	plan := BuildTilingPlan("4p_grid", 4)
	assert.Len(t, plan, 2)
	assert.Equal(t, []int{0, 2}, plan[0].WindowIndices)
	assert.Equal(t, []int{1, 3}, plan[1].WindowIndices)
}

func TestBuildTilingPlan_ColumnsGivesOneWindowPerColumn(t *testing.T) {
	plan := BuildTilingPlan("4p_columns", 4)
	assert.Len(t, plan, 4)
	for _, col := range plan {
		assert.Len(t, col.WindowIndices, 1)
	}
}

func TestBuildTilingPlan_RowsGivesOneColumnAllWindows(t *testing.T) {
	plan := BuildTilingPlan("4p_rows", 4)
	assert.Len(t, plan, 1)
	assert.Equal(t, []int{0, 1, 2, 3}, plan[0].WindowIndices)
}

func TestBuildTilingPlan_ThreePlayerTShapeConsolidatesTopTwo(t *testing.T) {
	plan := BuildTilingPlan("3p_t_shape", 3)
	assert.Len(t, plan, 2)
	assert.Equal(t, []int{0, 1}, plan[0].WindowIndices)
	assert.Equal(t, uint32(50), plan[0].WidthPercent)
	assert.Equal(t, []int{2}, plan[1].WindowIndices)
	assert.Equal(t, uint32(50), plan[1].WidthPercent)
}
