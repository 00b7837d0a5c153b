// Package orchestrator drives C1-C8 per instance in sequence,
// spawning children with timing constraints, then awaits completion
// and drives teardown (C9).
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/bnema/splitux/internal/audio"
	"github.com/bnema/splitux/internal/compositor"
	"github.com/bnema/splitux/internal/devices"
	"github.com/bnema/splitux/internal/errs"
	"github.com/bnema/splitux/internal/layout"
	"github.com/bnema/splitux/internal/logger"
	"github.com/bnema/splitux/internal/model"
	"github.com/bnema/splitux/internal/runtime"
	"github.com/bnema/splitux/internal/sandbox"
	"github.com/bnema/splitux/internal/session"
	"github.com/bnema/splitux/internal/statusbar"
	"github.com/bnema/splitux/internal/translator"
	"github.com/bnema/splitux/internal/wm"
)

// builtChild is everything needed to spawn one instance's command,
// assembled before any child is started (spec.md §4.9 step 4).
type builtChild struct {
	instanceIdx   int
	sandboxArgv   []string
	wrappedCmd    []string
	env           []string
	earlyMask     []string
	assignedIdx   []int
	inputHolding  bool
	discardOutput bool
	// directExec is set for a disable_sandbox handler (spec.md §4.3):
	// C1 and C2 are skipped entirely and wrappedCmd is exec'd directly,
	// with no bwrap parent in between.
	directExec bool
}

// Run drives the full sequencing discipline in spec.md §4.9. stateDir
// is <host_state_dir>.
func Run(ctx context.Context, req model.LaunchRequest, stateDir string) error {
	sess := session.New()

	// Step 1: resolve layout and per-instance tile geometry.
	preset, err := layout.SelectPreset(len(req.Instances), req.Config.LayoutPresets[len(req.Instances)])
	if err != nil {
		return fmt.Errorf("resolving layout preset: %w", err)
	}
	if len(req.Monitors) == 0 {
		return fmt.Errorf("no monitors available")
	}
	monitor := req.Monitors[req.Instances[0].MonitorIndex]

	var instanceToRegion []int
	if ov, ok := req.Config.LayoutOverrides[len(req.Instances)]; ok && ov.PresetID == preset.ID {
		instanceToRegion = ov.InstanceToRegion
	}
	rects, err := layout.ResolveGeometry(preset, instanceToRegion, monitor, req.Config.GamescopeFixLowres)
	if err != nil {
		return fmt.Errorf("resolving tile geometry: %w", err)
	}

	// Step 2: start Audio Session.
	audioSystem := audio.DetectSystem()
	assignments := make([]string, len(req.Instances))
	copy(assignments, req.Config.AudioDefaultAssignments)
	audioSess, err := audio.Setup(audioSystem, assignments)
	if err != nil {
		logger.Warnf("orchestrator: %v; continuing with system-default audio", errs.Wrap(errs.AudioSetupFailed, err, "starting audio session"))
		audioSess = &audio.Session{System: audioSystem}
	}
	sess.Audio = audioSess
	defer audio.Teardown(sess.Audio)

	// Step 3: start translator daemons.
	if req.Handler.TranslationDaemon {
		profile := translator.DefaultProfileFor(req.Handler)
		for i, inst := range req.Instances {
			gamepadPath := firstGamepadPath(req.InputDevices, inst.DeviceIndices)
			d, err := translator.Spawn(profile, gamepadPath, i)
			if err != nil {
				logger.Warnf("orchestrator: translator for instance %d unavailable: %v", i, err)
				continue
			}
			sess.Translators = append(sess.Translators, d)
		}
	}
	defer func() {
		for _, d := range sess.Translators {
			d.Stop(3 * time.Second)
		}
	}()

	// Step 4: build each instance's sandbox+compositor+runtime command.
	children := make([]builtChild, len(req.Instances))
	for i, inst := range req.Instances {
		child, err := buildInstanceCommand(req, stateDir, i, inst, rects[i], sess)
		if err != nil {
			return err
		}
		children[i] = child
	}

	// Step 5: select and set up the WM backend.
	backend := wm.Detect(req.Config.WindowManager)
	sess.WMBackend = backend
	lc := wm.LayoutContext{Preset: preset, InstanceToRegion: instanceToRegion, Monitor: monitor, Rects: rects, ClientClass: req.Handler.ExecutablePath}

	sess.StatusBar = statusbar.New(stateDir)
	if err := sess.StatusBar.HideAll(); err != nil {
		logger.Warnf("orchestrator: failed to hide status bars: %v", err)
	} else {
		sess.BarsHidden = true
	}

	if err := backend.Setup(ctx, lc); err != nil {
		return errs.Wrap(errs.WmSetupFailed, err, "setting up window manager backend %s", backend.Name())
	}

	// Step 6: spawn every child, respecting init delays and the
	// spawn-time blocking recheck.
	for i, child := range children {
		if i > 0 {
			time.Sleep(time.Duration(req.Config.InputInitDelayMs) * time.Millisecond)
		}

		var cmd *exec.Cmd
		if child.directExec {
			cmd = exec.CommandContext(ctx, child.wrappedCmd[0], child.wrappedCmd[1:]...)
		} else {
			finalMask := devices.WritablePaths(child.earlyMask)
			finalSandboxArgs := sandbox.InsertLateBindingMasks(sandbox.Args{Argv: child.sandboxArgv}, finalMask)
			argv := sandbox.FullArgv(finalSandboxArgs, child.wrappedCmd)
			cmd = exec.CommandContext(ctx, "bwrap", argv...)
		}
		cmd.Env = append(os.Environ(), child.env...)
		if !child.discardOutput {
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
		}

		if err := cmd.Start(); err != nil {
			logger.Errorf("orchestrator: instance %d failed to spawn: %v", i, err)
			break
		}
		sess.Children = append(sess.Children, cmd)

		if i < len(children)-1 {
			time.Sleep(time.Duration(req.Config.VulkanInitDelayMs) * time.Millisecond)
		}
	}

	// Step 7: non-reactive backends position windows after spawn.
	if !backend.IsReactive() {
		if err := backend.OnInstancesLaunched(ctx, lc); err != nil {
			logger.Warnf("orchestrator: window positioning failed: %v", err)
		}
	}

	// Step 8: wait on every spawned child.
	for i, cmd := range sess.Children {
		if err := cmd.Wait(); err != nil {
			logger.Warnf("orchestrator: instance %d exited with error: %v", i, err)
		}
	}

	// Step 9: teardown (WM, translators via defer, audio via defer).
	if err := backend.Teardown(ctx); err != nil {
		logger.Warnf("orchestrator: window manager teardown failed: %v", err)
	}
	if sess.BarsHidden {
		sess.StatusBar.RestoreAll()
	}

	return nil
}

func buildInstanceCommand(req model.LaunchRequest, stateDir string, idx int, inst model.Instance, rect layout.Rect, sess *session.State) (builtChild, error) {
	audioEnv := ""
	for _, sink := range sess.Audio.Sinks {
		if sink.InstanceIndex == idx {
			audioEnv = sink.EnvVar
		}
	}
	translatorPath := ""
	for _, d := range sess.Translators {
		if d != nil && d.InstanceIndex == idx {
			translatorPath = d.DevicePath
		}
	}

	var (
		sandboxArgv             []string
		earlyMask               []string
		env                     []string
		heldKeyboard, heldMouse []string
	)

	if req.Handler.DisableSandbox {
		// spec.md §4.3: disable_sandbox skips C1 (device-blocking
		// planner) and C2 (sandbox-arg builder) entirely; the instance
		// runs with a direct exec instead of being wrapped in bwrap.
		logger.Debugf("orchestrator: instance %d has sandbox disabled, using direct exec", idx)
		if audioEnv != "" {
			env = append(env, audioEnv)
		}
		if translatorPath != "" {
			env = append(env, fmt.Sprintf("SPLITUX_TRANSLATOR_DEVICE=%s", translatorPath))
		}
	} else {
		allDevices, err := devices.Enumerate()
		if err != nil {
			return builtChild{}, fmt.Errorf("enumerating devices for instance %d: %w", idx, err)
		}

		plan := devices.BuildPlan(allDevices, inst.DeviceIndices, req.Config.InputHolding)
		earlyMask = plan.Mask
		if req.Config.InputHolding {
			heldKeyboard = pathsOfClass(allDevices, inst.DeviceIndices, model.DeviceKeyboard)
			heldMouse = pathsOfClass(allDevices, inst.DeviceIndices, model.DeviceMouse)
		}

		scratchDir, err := sandbox.EnsureScratchDir(stateDir, idx)
		if err != nil {
			return builtChild{}, err
		}

		sandboxArgs, err := sandbox.Build(req.Handler, req.Config, idx, scratchDir, plan.Mask, audioEnv, translatorPath)
		if err != nil {
			return builtChild{}, err
		}
		sandboxArgv = sandboxArgs.Argv
		env = append(env, sandboxArgs.Env...)
	}

	compArgs, err := compositor.Build(req.Config, compositor.BuildOpts{
		TileWidthPx:            int32(rect.Width),
		TileHeightPx:           int32(rect.Height),
		MonitorIndex:           inst.MonitorIndex,
		ReactiveDisplayPicking: req.Config.WindowManager == model.WMNone,
		HeldKeyboardPaths:      heldKeyboard,
		HeldMousePaths:         heldMouse,
	})
	if err != nil {
		return builtChild{}, err
	}

	runtimeArgs, err := runtime.Build(req.Handler, req.Config.WindowsRuntimeName)
	if err != nil {
		return builtChild{}, err
	}
	if req.Handler.IsWindowsGame {
		prefix, err := runtime.PreparePrefix(stateDir, idx, req.Config.SeparateWindowsPrefixes)
		if err != nil {
			return builtChild{}, err
		}
		runtimeArgs.Env = append(runtimeArgs.Env, "STEAM_COMPAT_DATA_PATH="+prefix)
	}

	compositorCmd := compositor.FullArgv(compArgs, runtimeArgs.Argv)
	wrappedCmd := append([]string{compArgs.Binary}, compositorCmd...)

	env = append(env, runtimeArgs.Env...)

	return builtChild{
		instanceIdx:   idx,
		sandboxArgv:   sandboxArgv,
		wrappedCmd:    wrappedCmd,
		env:           env,
		earlyMask:     earlyMask,
		assignedIdx:   inst.DeviceIndices,
		inputHolding:  req.Config.InputHolding,
		discardOutput: runtimeArgs.DiscardOutput,
		directExec:    req.Handler.DisableSandbox,
	}, nil
}

func firstGamepadPath(all []model.InputDevice, assignedIndices []int) string {
	for _, idx := range assignedIndices {
		if idx >= 0 && idx < len(all) && all[idx].DeviceClass == model.DeviceGamepad {
			return all[idx].Path
		}
	}
	return ""
}

// pathsOfClass collects the device paths among assignedIndices that
// belong to the given class, used to compute the held-device lists
// compositor.BuildOpts needs for input-holding (spec.md §4.4).
func pathsOfClass(all []model.InputDevice, assignedIndices []int, class model.DeviceClass) []string {
	var out []string
	for _, idx := range assignedIndices {
		if idx >= 0 && idx < len(all) && all[idx].DeviceClass == class {
			out = append(out, all[idx].Path)
		}
	}
	return out
}
