package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/splitux/internal/model"
)

func TestBuild_NativeGameStartsWithExecutable(t *testing.T) {
	h := model.Handler{ExecutablePath: "/opt/game/bin/game", Args: "--windowed"}
	args, err := Build(h, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/game/bin/game", "--windowed"}, args.Argv)
	assert.False(t, args.DiscardOutput)
}

func TestBuild_FacepunchNativeGameDiscardsOutput(t *testing.T) {
	h := model.Handler{ExecutablePath: "/opt/game/bin/game", FacepunchBackend: true}
	args, err := Build(h, "")
	require.NoError(t, err)
	assert.True(t, args.DiscardOutput)
}

func TestBuild_WindowsGameMissingCompatToolFails(t *testing.T) {
	h := model.Handler{IsWindowsGame: true, ExecutablePath: "game.exe"}
	_, err := Build(h, "definitely-not-a-real-tool-xyz")
	assert.Error(t, err)
}

func TestPreparePrefix_SeparateVsShared(t *testing.T) {
	dir := t.TempDir()

	sep0, err := PreparePrefix(dir, 0, true)
	require.NoError(t, err)
	sep1, err := PreparePrefix(dir, 1, true)
	require.NoError(t, err)
	assert.NotEqual(t, sep0, sep1)

	shared0, err := PreparePrefix(dir, 0, false)
	require.NoError(t, err)
	shared1, err := PreparePrefix(dir, 1, false)
	require.NoError(t, err)
	assert.Equal(t, shared0, shared1)
}
