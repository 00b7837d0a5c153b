package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/splitux/internal/model"
)

func TestFirstGamepadPath_ReturnsFirstAssignedGamepad(t *testing.T) {
	all := []model.InputDevice{
		{Path: "/dev/input/event0", DeviceClass: model.DeviceKeyboard},
		{Path: "/dev/input/event1", DeviceClass: model.DeviceGamepad},
	}
	assert.Equal(t, "/dev/input/event1", firstGamepadPath(all, []int{0, 1}))
}

func TestFirstGamepadPath_NoGamepadAssignedReturnsEmpty(t *testing.T) {
	all := []model.InputDevice{{Path: "/dev/input/event0", DeviceClass: model.DeviceKeyboard}}
	assert.Equal(t, "", firstGamepadPath(all, []int{0}))
}

func TestPathsOfClass_FiltersToAssignedIndicesOfClass(t *testing.T) {
	all := []model.InputDevice{
		{Path: "/dev/input/event0", DeviceClass: model.DeviceKeyboard},
		{Path: "/dev/input/event1", DeviceClass: model.DeviceMouse},
		{Path: "/dev/input/event2", DeviceClass: model.DeviceKeyboard},
	}
	assert.Equal(t, []string{"/dev/input/event0", "/dev/input/event2"}, pathsOfClass(all, []int{0, 1, 2}, model.DeviceKeyboard))
	assert.Equal(t, []string{"/dev/input/event1"}, pathsOfClass(all, []int{0, 1, 2}, model.DeviceMouse))
}

func TestRun_FailsFastWithNoMonitors(t *testing.T) {
	req := model.LaunchRequest{
		Instances: []model.Instance{{}},
		Monitors:  nil,
	}
	err := Run(context.Background(), req, t.TempDir())
	assert.Error(t, err)
}
