// Package sandbox builds the bubblewrap (bwrap) argument vector that
// wraps each game instance in its own filesystem namespace (C2).
package sandbox

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/bnema/splitux/internal/errs"
	"github.com/bnema/splitux/internal/model"
)

// Args is the built sandbox invocation: the argv passed to bwrap
// (everything up to but not including "--"), and the environment
// variables the wrapped command must see.
type Args struct {
	Argv []string
	Env  []string
}

// Build implements the Contract in spec.md §4.3. maskPaths is C1's
// early (arg-build-time) blocking list; it is later replaced at
// spawn-time by the late-binding recheck via InsertLateBindingMasks.
func Build(h model.Handler, cfg model.Config, instanceIdx int, scratchDir string, maskPaths []string, audioSinkEnv, translatorDevicePath string) (Args, error) {
	if h.DisableSandbox {
		return Args{}, errs.New(errs.SpawnFailed, "sandbox disabled for this handler")
	}
	if _, err := exec.LookPath("bwrap"); err != nil {
		return Args{}, errs.Wrap(errs.SpawnFailed, err, "bwrap not found in PATH")
	}

	argv := []string{
		"--die-with-parent",
		"--ro-bind", "/", "/",
		"--dev-bind", "/dev", "/dev",
		"--proc", "/proc",
		"--tmpfs", "/tmp",
	}

	if !cfg.DisableGamedirOverlay && h.GameRootPath != "" {
		upper := filepath.Join(scratchDir, "upper")
		work := filepath.Join(scratchDir, "work")
		argv = append(argv, "--overlay", upper, work, h.GameRootPath)
	}

	for _, p := range maskPaths {
		argv = append(argv, "--dev-bind", "/dev/null", p)
	}

	env := []string{"SDL_JOYSTICK_DEVICE=/dev/null"}
	if audioSinkEnv != "" {
		env = append(env, audioSinkEnv)
	}
	if translatorDevicePath != "" {
		env = append(env, fmt.Sprintf("SPLITUX_TRANSLATOR_DEVICE=%s", translatorDevicePath))
	}

	return Args{Argv: argv, Env: env}, nil
}

// InsertLateBindingMasks rebuilds the /dev/null bind-mount segment of
// an already-built Args using the spawn-time recheck result, per
// spec.md §4.2's "late binding" rule: no earlier cached mask list
// survives to spawn time.
func InsertLateBindingMasks(base Args, writableMasks []string) Args {
	var withoutMasks []string
	for i := 0; i < len(base.Argv); i++ {
		if base.Argv[i] == "--dev-bind" && i+2 < len(base.Argv) && base.Argv[i+1] == "/dev/null" {
			i += 2
			continue
		}
		withoutMasks = append(withoutMasks, base.Argv[i])
	}

	argv := append([]string{}, withoutMasks...)
	for _, p := range writableMasks {
		argv = append(argv, "--dev-bind", "/dev/null", p)
	}
	return Args{Argv: argv, Env: base.Env}
}

// EnsureScratchDir creates and returns the instance-private scratch
// directory overlaid onto the game root (spec.md §4.3's union-over-lower
// semantics). bwrap's --overlay needs both an "upper" directory to
// receive writes and an empty "work" directory for its own bookkeeping;
// both live under the returned directory.
func EnsureScratchDir(stateDir string, instanceIdx int) (string, error) {
	dir := filepath.Join(stateDir, "scratch", fmt.Sprintf("instance-%d", instanceIdx))
	for _, sub := range []string{"upper", "work"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return "", fmt.Errorf("creating scratch dir: %w", err)
		}
	}
	return dir, nil
}

// FullArgv appends the bwrap separator and the wrapped command,
// producing the complete argument vector for exec.Command("bwrap", ...).
func FullArgv(a Args, wrapped []string) []string {
	argv := append([]string{}, a.Argv...)
	argv = append(argv, "--")
	return append(argv, wrapped...)
}
