// Package handler loads the per-game handler.yaml descriptors consumed
// as opaque metadata by the launch pipeline. Fetching handler
// descriptions from a network registry and patching game-specific
// content are external collaborators' jobs (spec.md §1); this package
// only reads what's already on disk under <host_state_dir>/handlers.
package handler

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bnema/splitux/internal/model"
)

// yamlHandler mirrors model.Handler with YAML-friendly field names;
// RuntimeHint and DisableSandbox/DisableInputIsolation get explicit
// zero-value defaults matching a native, fully-isolated launch.
type yamlHandler struct {
	IsWindowsGame         bool     `yaml:"is_windows_game"`
	ExecutablePath        string   `yaml:"executable_path"`
	GameRootPath          string   `yaml:"game_root_path"`
	Args                  string   `yaml:"args"`
	EnvAssignments        string   `yaml:"env_assignments"`
	RuntimeHint           string   `yaml:"runtime_hint"`
	GoldbergBackend       bool     `yaml:"goldberg_backend"`
	PhotonBackend         bool     `yaml:"photon_backend"`
	FacepunchBackend      bool     `yaml:"facepunch_backend"`
	TranslationDaemon     bool     `yaml:"translation_daemon"`
	TranslationProfile    string   `yaml:"translation_profile"`
	RequiredMods          []string `yaml:"required_mods"`
	SpecVersion           uint32   `yaml:"spec_version"`
	DisableSandbox        bool     `yaml:"disable_sandbox"`
	DisableInputIsolation bool     `yaml:"disable_input_isolation"`
}

// Load reads <host_state_dir>/handlers/<id>/handler.yaml.
func Load(stateDir, id string) (model.Handler, error) {
	path := filepath.Join(stateDir, "handlers", id, "handler.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Handler{}, fmt.Errorf("reading handler %q: %w", id, err)
	}

	var yh yamlHandler
	if err := yaml.Unmarshal(data, &yh); err != nil {
		return model.Handler{}, fmt.Errorf("parsing handler %q: %w", id, err)
	}

	h := model.Handler{
		IsWindowsGame:         yh.IsWindowsGame,
		ExecutablePath:        yh.ExecutablePath,
		GameRootPath:          yh.GameRootPath,
		Args:                  yh.Args,
		EnvAssignments:        yh.EnvAssignments,
		GoldbergBackend:       yh.GoldbergBackend,
		PhotonBackend:         yh.PhotonBackend,
		FacepunchBackend:      yh.FacepunchBackend,
		TranslationDaemon:     yh.TranslationDaemon,
		TranslationProfile:    yh.TranslationProfile,
		RequiredMods:          yh.RequiredMods,
		SpecVersion:           yh.SpecVersion,
		DisableSandbox:        yh.DisableSandbox,
		DisableInputIsolation: yh.DisableInputIsolation,
	}
	if yh.RuntimeHint == "windows-compat" {
		h.RuntimeHint = model.RuntimeWindowsCompat
	} else {
		h.RuntimeHint = model.RuntimeNative
	}
	return h, nil
}

// List enumerates handler IDs under <host_state_dir>/handlers.
func List(stateDir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(stateDir, "handlers"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing handlers: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
