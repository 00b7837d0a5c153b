// Package wm implements the Window-Manager Backend variant (C7): four
// interchangeable strategies for getting each instance's window into
// its assigned tile.
package wm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/splitux/internal/layout"
	"github.com/bnema/splitux/internal/logger"
	"github.com/bnema/splitux/internal/model"
)

// LayoutContext is everything a backend needs to position windows.
type LayoutContext struct {
	Preset           model.LayoutPreset
	InstanceToRegion []int
	Monitor          model.Monitor
	Rects            []layout.Rect
	ClientClass      string
}

// Backend is the capability set shared by all four WM strategies
// (spec.md §4.8).
type Backend interface {
	Name() string
	Setup(ctx context.Context, lc LayoutContext) error
	OnInstancesLaunched(ctx context.Context, lc LayoutContext) error
	Teardown(ctx context.Context) error
	IsReactive() bool
}

// Detect returns the backend named by cfg. For WMAuto it checks the
// SWAYSOCK, HYPRLAND_INSTANCE_SIGNATURE and KDE_FULL_SESSION environment
// variables in that order and returns the first backend whose variable
// is set, else Backend D (no-op). It checks only that a variable is
// non-empty; no control socket is opened or probed.
func Detect(cfg model.WindowManagerKind) Backend {
	switch cfg {
	case model.WMReactiveScript:
		return NewReactiveScriptBackend()
	case model.WMPositioningController:
		return NewPositioningControllerBackend()
	case model.WMTiledController:
		return NewTiledControllerBackend()
	case model.WMNone:
		return NewNoopBackend()
	}

	if os.Getenv("SWAYSOCK") != "" {
		return NewReactiveScriptBackend()
	}
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return NewTiledControllerBackend()
	}
	if os.Getenv("KDE_FULL_SESSION") != "" {
		return NewPositioningControllerBackend()
	}
	return NewNoopBackend()
}

// --- Backend A: reactive-script WM (Sway) ---

type reactiveScriptBackend struct{}

func NewReactiveScriptBackend() Backend { return &reactiveScriptBackend{} }

func (b *reactiveScriptBackend) Name() string    { return "reactive-script" }
func (b *reactiveScriptBackend) IsReactive() bool { return true }

// Setup loads a swaymsg "for_window" rule per region that moves and
// resizes new windows of the game's client-class as they map,
// matching the preset's grid without further orchestrator involvement.
func (b *reactiveScriptBackend) Setup(ctx context.Context, lc LayoutContext) error {
	for i, rect := range lc.Rects {
		criteria := fmt.Sprintf(`[app_id="%s" instance="%d"]`, lc.ClientClass, i)
		cmd := fmt.Sprintf("for_window %s floating enable, move absolute position %d %d, resize set %dpx %dpx",
			criteria, rect.X, rect.Y, rect.Width, rect.Height)
		if err := exec.CommandContext(ctx, "swaymsg", cmd).Run(); err != nil {
			return fmt.Errorf("installing sway rule for instance %d: %w", i, err)
		}
	}
	return nil
}

func (b *reactiveScriptBackend) OnInstancesLaunched(ctx context.Context, lc LayoutContext) error {
	return nil
}

func (b *reactiveScriptBackend) Teardown(ctx context.Context) error {
	return exec.CommandContext(ctx, "swaymsg", "for_window [app_id=\".*\"] floating disable").Run()
}

// --- Backend B: positioning-controller WM (KWin, control via D-Bus scripting) ---

type positioningControllerBackend struct {
	conn         *dbus.Conn
	scriptHandle int32
	output       string
}

func NewPositioningControllerBackend() Backend { return &positioningControllerBackend{} }

func (b *positioningControllerBackend) Name() string     { return "positioning-controller" }
func (b *positioningControllerBackend) IsReactive() bool { return false }

func (b *positioningControllerBackend) Setup(ctx context.Context, lc LayoutContext) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connecting to session bus: %w", err)
	}
	b.conn = conn
	b.output = lc.Monitor.ConnectorName
	return nil
}

// OnInstancesLaunched polls KWin's window list over D-Bus until N
// matching windows appear (timeout ~120s), then issues move+resize
// calls computed from the preset and monitor.
func (b *positioningControllerBackend) OnInstancesLaunched(ctx context.Context, lc LayoutContext) error {
	windows, err := b.waitForWindows(ctx, lc.ClientClass, len(lc.Rects), 120*time.Second)
	if err != nil {
		return err
	}

	obj := b.conn.Object("org.kde.KWin", "/Scripting")
	for i, rect := range lc.Rects {
		if i >= len(windows) {
			break
		}
		call := obj.Call("org.kde.kwin.Scripting.loadScript", 0,
			fmt.Sprintf("workspace.windows.find(w=>w.internalId=='%s').frameGeometry = {x:%d,y:%d,width:%d,height:%d}",
				windows[i], rect.X, rect.Y, rect.Width, rect.Height))
		if call.Err != nil {
			logger.Warnf("wm: positioning-controller move failed for window %s: %v", windows[i], call.Err)
		}
	}
	return nil
}

func (b *positioningControllerBackend) waitForWindows(ctx context.Context, clientClass string, n int, timeout time.Duration) ([]string, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var ids []string
		obj := b.conn.Object("org.kde.KWin", "/KWin")
		if err := obj.Call("org.kde.KWin.queryWindowInfo", 0).Store(&ids); err == nil && len(ids) >= n {
			return ids[:n], nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("timed out waiting for %d windows of class %q", n, clientClass)
}

func (b *positioningControllerBackend) Teardown(ctx context.Context) error {
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}

// --- Backend C: tiled-compositor WM (Hyprland, via hyprctl -j) ---

type tiledControllerBackend struct{}

func NewTiledControllerBackend() Backend { return &tiledControllerBackend{} }

func (b *tiledControllerBackend) Name() string     { return "tiled-controller" }
func (b *tiledControllerBackend) IsReactive() bool { return false }

func (b *tiledControllerBackend) Setup(ctx context.Context, lc LayoutContext) error {
	return nil
}

type hyprClient struct {
	Address string `json:"address"`
	Class   string `json:"class"`
}

// TilingColumn is one column of a TilingPlan: a list of window indices
// and the percentage of screen width the column should occupy.
type TilingColumn struct {
	WindowIndices []int
	WidthPercent  uint32
}

func (b *tiledControllerBackend) OnInstancesLaunched(ctx context.Context, lc LayoutContext) error {
	addrs, err := waitForHyprlandWindows(ctx, lc.ClientClass, len(lc.Rects), 120*time.Second)
	if err != nil {
		return err
	}

	plan := BuildTilingPlan(lc.Preset.ID, len(lc.Rects))
	for _, col := range plan {
		if len(col.WindowIndices) == 0 {
			continue
		}
		first := addrs[col.WindowIndices[0]]
		if err := exec.CommandContext(ctx, "hyprctl", "dispatch", "focuswindow", "address:"+first).Run(); err != nil {
			return fmt.Errorf("focusing window %s: %w", first, err)
		}
		for _, idx := range col.WindowIndices[1:] {
			addr := addrs[idx]
			if err := exec.CommandContext(ctx, "hyprctl", "dispatch", "movewindow", "address:"+addr).Run(); err != nil {
				logger.Warnf("wm: tiled-controller movewindow failed for %s: %v", addr, err)
			}
		}
		if err := exec.CommandContext(ctx, "hyprctl", "dispatch", "splitratio", fmt.Sprintf("%d", col.WidthPercent)).Run(); err != nil {
			logger.Warnf("wm: tiled-controller splitratio failed for column: %v", err)
		}
	}
	return nil
}

func waitForHyprlandWindows(ctx context.Context, clientClass string, n int, timeout time.Duration) ([]string, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		out, err := exec.CommandContext(ctx, "hyprctl", "-j", "clients").Output()
		if err == nil {
			var clients []hyprClient
			if json.Unmarshal(out, &clients) == nil {
				var addrs []string
				for _, c := range clients {
					if strings.EqualFold(c.Class, clientClass) {
						addrs = append(addrs, c.Address)
					}
				}
				if len(addrs) >= n {
					return addrs[:n], nil
				}
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("timed out waiting for %d windows of class %q", n, clientClass)
}

// BuildTilingPlan implements the pure mapping in spec.md §4.8: Columns
// gives each window its own column, Stacked gives one column with
// every window, Grid gives two columns of two ordered to match the
// 4p_grid preset (left column top-then-bottom, right column
// top-then-bottom), and the 3p_t_shape preset consolidates the top two
// windows into one column beside the third.
func BuildTilingPlan(presetID string, n int) []TilingColumn {
	switch {
	case presetID == "4p_grid" && n == 4:
		return []TilingColumn{
			{WindowIndices: []int{0, 2}, WidthPercent: 50},
			{WindowIndices: []int{1, 3}, WidthPercent: 50},
		}
	case presetID == "3p_t_shape" && n == 3:
		return []TilingColumn{
			{WindowIndices: []int{0, 1}, WidthPercent: 50},
			{WindowIndices: []int{2}, WidthPercent: 50},
		}
	case strings.HasSuffix(presetID, "_rows"):
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return []TilingColumn{{WindowIndices: indices, WidthPercent: 100}}
	default:
		pct := uint32(100 / n)
		cols := make([]TilingColumn, n)
		for i := range cols {
			cols[i] = TilingColumn{WindowIndices: []int{i}, WidthPercent: pct}
		}
		return cols
	}
}

func (b *tiledControllerBackend) Teardown(ctx context.Context) error {
	return nil
}

// --- Backend D: no-op ---

type noopBackend struct{}

func NewNoopBackend() Backend { return &noopBackend{} }

func (b *noopBackend) Name() string                                               { return "none" }
func (b *noopBackend) IsReactive() bool                                           { return false }
func (b *noopBackend) Setup(ctx context.Context, lc LayoutContext) error          { return nil }
func (b *noopBackend) OnInstancesLaunched(ctx context.Context, lc LayoutContext) error { return nil }
func (b *noopBackend) Teardown(ctx context.Context) error                        { return nil }
