// Package runtime builds the innermost command: the game executable
// itself, optionally wrapped in a Windows-compatibility tool (C4).
package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/splitux/internal/errs"
	"github.com/bnema/splitux/internal/model"
)

// Args is the built runtime invocation.
type Args struct {
	Argv []string
	Env  []string
	// DiscardOutput is set for the native-game Facepunch quirk
	// (spec.md §4.5): stdout/stderr must be redirected to /dev/null.
	DiscardOutput bool
}

// compatToolSearchPaths mirrors the conventional Steam library layout
// plus a user-tools directory; searched in order for a directory
// matching compatToolName that contains a proton binary.
func compatToolSearchPaths(home string) []string {
	return []string{
		filepath.Join(home, ".steam", "root", "compatibilitytools.d"),
		filepath.Join(home, ".local", "share", "Steam", "compatibilitytools.d"),
		filepath.Join(home, ".steam", "steam", "steamapps", "common"),
		filepath.Join(home, ".local", "share", "Steam", "steamapps", "common"),
	}
}

// resolveCompatTool finds a directory named toolName under the
// conventional search paths that contains a "proton" binary.
func resolveCompatTool(toolName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.Wrap(errs.RuntimeMissing, err, "resolving home directory")
	}

	for _, base := range compatToolSearchPaths(home) {
		candidate := filepath.Join(base, toolName)
		protonPath := filepath.Join(candidate, "proton")
		if info, err := os.Stat(protonPath); err == nil && !info.IsDir() {
			return protonPath, nil
		}
	}
	return "", errs.New(errs.RuntimeMissing, "no compatibility tool named %q found", toolName)
}

// Build implements the Contract in spec.md §4.5.
func Build(h model.Handler, toolName string) (Args, error) {
	if !h.IsWindowsGame {
		argv := append([]string{h.ExecutablePath}, splitArgs(h.Args)...)
		return Args{
			Argv:          argv,
			Env:           envAssignments(h.EnvAssignments),
			DiscardOutput: h.FacepunchBackend,
		}, nil
	}

	proton, err := resolveCompatTool(toolName)
	if err != nil {
		return Args{}, err
	}

	argv := append([]string{proton, "run", h.ExecutablePath}, splitArgs(h.Args)...)
	return Args{Argv: argv, Env: envAssignments(h.EnvAssignments)}, nil
}

// PreparePrefix implements the prefix-management rule in spec.md §4.5:
// a separate STEAM_COMPAT_DATA_PATH per instance, or one shared path.
func PreparePrefix(stateDir string, instanceIdx int, separate bool) (string, error) {
	var dir string
	if separate {
		dir = filepath.Join(stateDir, "prefixes", fmt.Sprintf("%d", instanceIdx))
	} else {
		dir = filepath.Join(stateDir, "prefixes", "shared")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating compat data path: %w", err)
	}
	return dir, nil
}

func splitArgs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func envAssignments(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
