package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/splitux/internal/model"
)

func TestSpawn_NoGamepadPathReturnsNil(t *testing.T) {
	d, err := Spawn(Profile{}, "", 0)
	assert.NoError(t, err)
	assert.Nil(t, d)
}

func TestStop_NilDaemonIsNoop(t *testing.T) {
	var d *Daemon
	d.Stop(0)
}

func TestDefaultProfileFor_CarriesConfiguredProfileName(t *testing.T) {
	h := model.Handler{TranslationProfile: "xbox-to-wasd"}
	p := DefaultProfileFor(h)
	assert.Equal(t, "xbox-to-wasd", p.Name)
	assert.NotNil(t, p.Buttons)
	assert.NotNil(t, p.Axes)
}

func TestAxisKeyStates_BelowNegativeThreshold(t *testing.T) {
	axis := AxisMapping{NegativeKey: 1, PositiveKey: 2, Threshold: 100}
	neg, pos := axisKeyStates(axis, -150)
	assert.True(t, neg)
	assert.False(t, pos)
}

func TestAxisKeyStates_AbovePositiveThreshold(t *testing.T) {
	axis := AxisMapping{NegativeKey: 1, PositiveKey: 2, Threshold: 100}
	neg, pos := axisKeyStates(axis, 150)
	assert.False(t, neg)
	assert.True(t, pos)
}

func TestAxisKeyStates_WithinDeadzone(t *testing.T) {
	axis := AxisMapping{NegativeKey: 1, PositiveKey: 2, Threshold: 100}
	neg, pos := axisKeyStates(axis, 10)
	assert.False(t, neg)
	assert.False(t, pos)
}
