package monitors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/splitux/internal/model"
)

func TestFallback_ReturnsOneSyntheticMonitor(t *testing.T) {
	mons := fallback()
	assert.Len(t, mons, 1)
	assert.Equal(t, uint32(1920), mons[0].WidthPx)
	assert.Equal(t, uint32(1080), mons[0].HeightPx)
}

func TestDetect_NeverReturnsEmpty(t *testing.T) {
	mons := Detect()
	assert.NotEmpty(t, mons)
}

func TestByConnector_FindsMatchingIndex(t *testing.T) {
	mons := []model.Monitor{{ConnectorName: "HDMI-A-1"}, {ConnectorName: "DP-1"}}
	assert.Equal(t, 1, ByConnector(mons, "DP-1"))
}

func TestByConnector_ReturnsMinusOneWhenAbsent(t *testing.T) {
	mons := []model.Monitor{{ConnectorName: "HDMI-A-1"}}
	assert.Equal(t, -1, ByConnector(mons, "DP-2"))
}
