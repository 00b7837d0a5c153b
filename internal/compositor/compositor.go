// Package compositor builds the nested-compositor (gamescope)
// invocation that becomes the parent of each game instance (C3).
package compositor

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/splitux/internal/errs"
	"github.com/bnema/splitux/internal/model"
)

// Args is the built compositor invocation.
type Args struct {
	Binary string
	Argv   []string
	Env    []string
}

// BuildOpts carries the per-instance inputs the builder needs beyond
// the global config.
type BuildOpts struct {
	TileWidthPx, TileHeightPx int32
	MonitorIndex              int
	ReactiveDisplayPicking    bool
	HeldKeyboardPaths         []string
	HeldMousePaths            []string
}

// Build implements the Contract in spec.md §4.4. It is stateless:
// every flag is a pure function of cfg and opts.
func Build(cfg model.Config, opts BuildOpts) (Args, error) {
	binary := "gamescope"
	if cfg.InputHolding {
		binary = "gamescope-holding"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return Args{}, errs.Wrap(errs.CompositorMissing, err, "%s not found in PATH", binary)
	}

	argv := []string{
		"-W", fmt.Sprintf("%d", opts.TileWidthPx),
		"-H", fmt.Sprintf("%d", opts.TileHeightPx),
		"--hide-cursor-delay", "1000",
	}

	if opts.ReactiveDisplayPicking {
		argv = append(argv, "--display-index", fmt.Sprintf("%d", opts.MonitorIndex))
	}
	if cfg.GamescopeForceGrabCursor {
		argv = append(argv, "--force-grab-cursor")
	}
	if cfg.GamescopeUseSDLBackend {
		argv = append(argv, "--backend=sdl")
	}

	if cfg.InputHolding {
		if len(opts.HeldKeyboardPaths) > 0 {
			argv = append(argv, "--backend-disable-keyboard")
		}
		if len(opts.HeldMousePaths) > 0 {
			argv = append(argv, "--backend-disable-mouse")
		}
		held := append(append([]string{}, opts.HeldKeyboardPaths...), opts.HeldMousePaths...)
		if len(held) > 0 {
			argv = append(argv, fmt.Sprintf("--libinput-hold-dev=%s", strings.Join(held, ",")))
		}
	}

	return Args{Binary: binary, Argv: argv}, nil
}

// FullArgv appends the gamescope "--" separator and the wrapped
// command (typically the runtime-arg-builder's output).
func FullArgv(a Args, wrapped []string) []string {
	argv := append([]string{}, a.Argv...)
	argv = append(argv, "--")
	return append(argv, wrapped...)
}
