package devices

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/splitux/internal/model"
)

func sampleDevices() []model.InputDevice {
	return []model.InputDevice{
		{Path: "/dev/input/event0", DeviceClass: model.DeviceGamepad, UniqueID: "pad-a"},
		{Path: "/dev/input/event1", DeviceClass: model.DeviceGamepad, UniqueID: "pad-b"},
		{Path: "/dev/input/event2", DeviceClass: model.DeviceKeyboard},
		{Path: "/dev/input/event3", DeviceClass: model.DeviceMouse},
	}
}

func TestBuildPlan_AssignedGamepadVisible(t *testing.T) {
	plan := BuildPlan(sampleDevices(), []int{0}, false)
	assert.Contains(t, plan.Visible, "/dev/input/event0")
	assert.Contains(t, plan.Mask, "/dev/input/event1")
}

func TestBuildPlan_UnassignedGamepadAlwaysMasked(t *testing.T) {
	plan := BuildPlan(sampleDevices(), []int{1}, false)
	assert.Contains(t, plan.Mask, "/dev/input/event0")
	assert.Contains(t, plan.Visible, "/dev/input/event1")
}

func TestBuildPlan_KeyboardMouseMaskedWithoutInputHolding(t *testing.T) {
	plan := BuildPlan(sampleDevices(), []int{0}, false)
	assert.Contains(t, plan.Mask, "/dev/input/event2")
	assert.Contains(t, plan.Mask, "/dev/input/event3")
}

func TestBuildPlan_InputHoldingExposesKeyboardMouse(t *testing.T) {
	plan := BuildPlan(sampleDevices(), []int{0}, true)
	assert.Contains(t, plan.Visible, "/dev/input/event2")
	assert.Contains(t, plan.Visible, "/dev/input/event3")
}

func TestBuildPlan_AssignedKeyboardAlwaysVisible(t *testing.T) {
	plan := BuildPlan(sampleDevices(), []int{2}, false)
	assert.Contains(t, plan.Visible, "/dev/input/event2")
}

func TestWritablePaths_DropsUnopenablePaths(t *testing.T) {
	out := WritablePaths([]string{"/dev/input/event-does-not-exist-12345"})
	assert.Empty(t, out)
}

func TestWritablePaths_KeepsWritableDevNull(t *testing.T) {
	out := WritablePaths([]string{"/dev/null"})
	assert.Equal(t, []string{"/dev/null"}, out)
}

func TestIsLegacyJoystick_MissingPath(t *testing.T) {
	assert.False(t, IsLegacyJoystick("/dev/input/js-does-not-exist-12345"))
}

func TestLegacyJoystickPathsFor_NoJsNodesMasksNothing(t *testing.T) {
	assigned := map[int]bool{0: true}
	assert.Empty(t, legacyJoystickPathsFor(sampleDevices(), assigned))
}
