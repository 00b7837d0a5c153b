// Package statusbar implements the shared StatusBarManager (spec.md
// §4.8): hiding known status-bar processes while a launch occupies the
// screen, and restoring them afterward, with crash recovery via a
// state file so a SIGKILL'd session doesn't leave bars dead forever.
package statusbar

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/bnema/splitux/internal/logger"
)

// knownBarProcessNames are the status-bar implementations this
// manager recognizes across window-manager ecosystems.
var knownBarProcessNames = []string{"waybar", "ags", "eww", "polybar"}

// recordedBar is one surviving bar process captured before it is
// killed, serialized to the state file for crash recovery.
type recordedBar struct {
	PID     int      `json:"pid"`
	Cmdline []string `json:"cmdline"`
}

// Manager hides and restores status bars for the duration of a launch.
type Manager struct {
	statePath string
	recorded  []recordedBar
}

// New builds a Manager whose state file lives under stateDir.
func New(stateDir string) *Manager {
	return &Manager{statePath: filepath.Join(stateDir, "tmp", "hidden_bars.json")}
}

// RecoverOnStartup is the crash-recovery path in spec.md §6: before any
// launch, consult the state file — a plain JSON array of argv arrays —
// and restart any bar it lists that is not currently running, then
// remove the file.
func RecoverOnStartup(stateDir string) {
	statePath := filepath.Join(stateDir, "tmp", "hidden_bars.json")
	data, err := os.ReadFile(statePath)
	if err != nil {
		return
	}

	var cmdlines [][]string
	if err := json.Unmarshal(data, &cmdlines); err != nil {
		logger.Warnf("statusbar: corrupt recovery state, discarding: %v", err)
		os.Remove(statePath)
		return
	}

	for _, cmdline := range cmdlines {
		if cmdlineRunning(cmdline) {
			continue
		}
		restartFromCmdline(cmdline)
	}
	os.Remove(statePath)
}

// HideAll enumerates known bar processes, records each surviving
// process's /proc/<pid>/cmdline, persists the list, then kills them.
func (m *Manager) HideAll() error {
	pids, err := findBarPIDs()
	if err != nil {
		return fmt.Errorf("enumerating status bar processes: %w", err)
	}

	for _, pid := range pids {
		cmdline, err := readCmdline(pid)
		if err != nil {
			continue
		}
		m.recorded = append(m.recorded, recordedBar{PID: pid, Cmdline: cmdline})
	}

	if err := m.persist(); err != nil {
		return err
	}

	for _, bar := range m.recorded {
		if err := syscall.Kill(bar.PID, syscall.SIGTERM); err != nil {
			logger.Warnf("statusbar: failed to signal pid %d: %v", bar.PID, err)
		}
	}
	return nil
}

// RestoreAll restarts every recorded bar from its captured cmdline and
// removes the state file.
func (m *Manager) RestoreAll() {
	for _, bar := range m.recorded {
		restartFromCmdline(bar.Cmdline)
	}
	os.Remove(m.statePath)
	m.recorded = nil
}

func (m *Manager) persist() error {
	if err := os.MkdirAll(filepath.Dir(m.statePath), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	cmdlines := make([][]string, len(m.recorded))
	for i, bar := range m.recorded {
		cmdlines[i] = bar.Cmdline
	}
	data, err := json.Marshal(cmdlines)
	if err != nil {
		return fmt.Errorf("marshaling status bar state: %w", err)
	}
	return os.WriteFile(m.statePath, data, 0o644)
}

func findBarPIDs() ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	var pids []int
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		cmdline, err := readCmdline(pid)
		if err != nil || len(cmdline) == 0 {
			continue
		}
		name := filepath.Base(cmdline[0])
		for _, known := range knownBarProcessNames {
			if name == known {
				pids = append(pids, pid)
				break
			}
		}
	}
	return pids, nil
}

func readCmdline(pid int) ([]string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return nil, err
	}
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("empty cmdline for pid %d", pid)
	}
	return parts, nil
}

func processAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}

// cmdlineRunning reports whether a known bar process is currently
// running with exactly this argv, used at recovery time since the
// persisted state (spec.md §6) carries no PID to check directly.
func cmdlineRunning(target []string) bool {
	pids, err := findBarPIDs()
	if err != nil {
		return false
	}
	for _, pid := range pids {
		if !processAlive(pid) {
			continue
		}
		cmdline, err := readCmdline(pid)
		if err != nil {
			continue
		}
		if equalCmdline(cmdline, target) {
			return true
		}
	}
	return false
}

func equalCmdline(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func restartFromCmdline(cmdline []string) {
	if len(cmdline) == 0 {
		return
	}
	proc := exec.Command(cmdline[0], cmdline[1:]...)
	if err := proc.Start(); err != nil {
		logger.Warnf("statusbar: failed to restart %v: %v", cmdline, err)
	}
}
