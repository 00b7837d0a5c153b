// Package monitors detects the host's connected displays via wlr-randr,
// producing the monitor table a LaunchRequest needs. Splitux does not
// implement display detection beyond this thin CLI wrapper; compositing
// and window placement themselves are delegated to internal/compositor
// and internal/wm.
package monitors

import (
	"encoding/json"
	"os/exec"

	"github.com/bnema/splitux/internal/logger"
	"github.com/bnema/splitux/internal/model"
)

type wlrOutput struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Position    struct {
		X int32 `json:"x"`
		Y int32 `json:"y"`
	} `json:"position"`
	CurrentMode struct {
		Width  int32 `json:"width"`
		Height int32 `json:"height"`
	} `json:"current_mode"`
}

// Detect runs `wlr-randr --json` and returns one model.Monitor per
// enabled output. If wlr-randr is unavailable or reports nothing usable,
// it falls back to a single synthetic 1920x1080 monitor so a launch can
// still proceed headless or under X11/XWayland.
func Detect() []model.Monitor {
	if _, err := exec.LookPath("wlr-randr"); err != nil {
		logger.Debugf("monitors: wlr-randr not found, using fallback monitor: %v", err)
		return fallback()
	}

	out, err := exec.Command("wlr-randr", "--json").Output()
	if err != nil {
		logger.Warnf("monitors: wlr-randr failed, using fallback monitor: %v", err)
		return fallback()
	}

	var outputs []wlrOutput
	if err := json.Unmarshal(out, &outputs); err != nil {
		logger.Warnf("monitors: parsing wlr-randr output: %v", err)
		return fallback()
	}

	var result []model.Monitor
	for _, o := range outputs {
		if !o.Enabled || o.CurrentMode.Width == 0 || o.CurrentMode.Height == 0 {
			continue
		}
		result = append(result, model.Monitor{
			ConnectorName: o.Name,
			WidthPx:       uint32(o.CurrentMode.Width),
			HeightPx:      uint32(o.CurrentMode.Height),
			XOrigin:       o.Position.X,
			YOrigin:       o.Position.Y,
		})
	}

	if len(result) == 0 {
		logger.Warnf("monitors: wlr-randr reported no enabled outputs, using fallback monitor")
		return fallback()
	}
	return result
}

func fallback() []model.Monitor {
	return []model.Monitor{{ConnectorName: "fallback", WidthPx: 1920, HeightPx: 1080}}
}

// ByConnector finds the monitor with the given connector name, returning
// its index, or -1 if absent.
func ByConnector(mons []model.Monitor, name string) int {
	for i, m := range mons {
		if m.ConnectorName == name {
			return i
		}
	}
	return -1
}
