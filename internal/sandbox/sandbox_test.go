package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/splitux/internal/model"
)

func TestBuild_RejectsDisabledSandbox(t *testing.T) {
	h := model.Handler{DisableSandbox: true}
	_, err := Build(h, model.Config{}, 0, "/tmp/scratch", nil, "", "")
	assert.Error(t, err)
}

func TestBuild_InjectsSDLJoystickDeviceNull(t *testing.T) {
	h := model.Handler{GameRootPath: "/opt/game"}
	args, err := Build(h, model.Config{}, 0, "/tmp/scratch", nil, "", "")
	if err != nil {
		t.Skip("bwrap not on PATH in this environment")
	}
	assert.Contains(t, args.Env, "SDL_JOYSTICK_DEVICE=/dev/null")
}

func TestBuild_OverlaysScratchUpperAndWorkOntoGameRoot(t *testing.T) {
	h := model.Handler{GameRootPath: "/opt/game"}
	args, err := Build(h, model.Config{}, 0, "/tmp/scratch", nil, "", "")
	if err != nil {
		t.Skip("bwrap not on PATH in this environment")
	}
	require.Contains(t, args.Argv, "--overlay")
	require.Contains(t, args.Argv, "/tmp/scratch/upper")
	require.Contains(t, args.Argv, "/tmp/scratch/work")
	require.Contains(t, args.Argv, "/opt/game")
}

func TestBuild_BindsMaskPathsOverDevNull(t *testing.T) {
	h := model.Handler{GameRootPath: "/opt/game"}
	args, err := Build(h, model.Config{}, 0, "/tmp/scratch", []string{"/dev/input/event3"}, "", "")
	if err != nil {
		t.Skip("bwrap not on PATH in this environment")
	}
	require.Contains(t, args.Argv, "/dev/input/event3")
}

func TestInsertLateBindingMasks_ReplacesEarlierMaskSet(t *testing.T) {
	base := Args{
		Argv: []string{"--die-with-parent", "--dev-bind", "/dev/null", "/dev/input/event1", "--proc", "/proc"},
		Env:  []string{"SDL_JOYSTICK_DEVICE=/dev/null"},
	}

	out := InsertLateBindingMasks(base, []string{"/dev/input/event2"})

	assert.NotContains(t, out.Argv, "/dev/input/event1")
	assert.Contains(t, out.Argv, "/dev/input/event2")
	assert.Contains(t, out.Argv, "--proc")
}

func TestInsertLateBindingMasks_EmptyListDropsAllMasks(t *testing.T) {
	base := Args{
		Argv: []string{"--dev-bind", "/dev/null", "/dev/input/event1", "--proc", "/proc"},
	}

	out := InsertLateBindingMasks(base, nil)

	assert.NotContains(t, out.Argv, "/dev/input/event1")
	assert.Contains(t, out.Argv, "--proc")
}

func TestFullArgv_AppendsSeparatorAndCommand(t *testing.T) {
	argv := FullArgv(Args{Argv: []string{"--die-with-parent"}}, []string{"/usr/bin/game", "--fullscreen"})
	assert.Equal(t, []string{"--die-with-parent", "--", "/usr/bin/game", "--fullscreen"}, argv)
}
