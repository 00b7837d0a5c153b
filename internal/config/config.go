// Package config loads and saves Splitux's non-interactive configuration
// using Viper. Unlike the interactive host-list style configuration some
// sibling tools expose, Splitux's Config is consumed entirely by the
// launch pipeline (internal/model.Config) — there is no menu surface
// here, only load/get/save.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/bnema/splitux/internal/model"
)

// DefaultConfig provides sensible defaults for every recognized option.
var DefaultConfig = model.Config{
	PadFilter:               model.PadFilterAll,
	WindowsRuntimeName:      "",
	SeparateWindowsPrefixes: true,
	DisableGamedirOverlay:   false,
	GamescopeFixLowres:      true,
	GamescopeUseSDLBackend:  true,
	InputHolding:            false,
	WindowManager:           model.WMAuto,
	LayoutPresets:           map[int]string{},
	AudioSystemPreference:   "auto",
	VulkanInitDelayMs:       6000,
	InputInitDelayMs:        500,
}

var cfg *model.Config

// Init locates and reads splitux.toml from the conventional search
// path, falling back to DefaultConfig when no file is present.
func Init() error {
	viper.SetConfigName("splitux")
	viper.SetConfigType("toml")

	viper.AddConfigPath("/etc/splitux")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "splitux"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "splitux"))
	}
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	loaded := DefaultConfig
	if err := viper.Unmarshal(&loaded); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	cfg = &loaded
	return nil
}

func setDefaults() {
	viper.SetDefault("pad_filter", int(DefaultConfig.PadFilter))
	viper.SetDefault("separate_windows_prefixes", DefaultConfig.SeparateWindowsPrefixes)
	viper.SetDefault("disable_gamedir_overlay", DefaultConfig.DisableGamedirOverlay)
	viper.SetDefault("gamescope_fix_lowres", DefaultConfig.GamescopeFixLowres)
	viper.SetDefault("gamescope_use_sdl_backend", DefaultConfig.GamescopeUseSDLBackend)
	viper.SetDefault("input_holding", DefaultConfig.InputHolding)
	viper.SetDefault("window_manager", int(DefaultConfig.WindowManager))
	viper.SetDefault("audio_system_preference", DefaultConfig.AudioSystemPreference)
	viper.SetDefault("vulkan_init_delay_ms", DefaultConfig.VulkanInitDelayMs)
	viper.SetDefault("input_init_delay_ms", DefaultConfig.InputInitDelayMs)
}

// Get returns the current configuration, or a copy of DefaultConfig if
// Init was never called.
func Get() *model.Config {
	if cfg == nil {
		c := DefaultConfig
		return &c
	}
	return cfg
}

// Set overrides the loaded configuration.
func Set(c *model.Config) {
	cfg = c
}

// Save writes the current configuration to GetConfigPath.
func Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigPath returns the path Splitux will read/write config from.
func GetConfigPath() string {
	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "splitux", "splitux.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/splitux/splitux.toml"
	}
	return filepath.Join(home, ".config", "splitux", "splitux.toml")
}

// StateDir returns <host_state_dir>, the root of handlers/, profiles/,
// prefixes/, and tmp/ (spec.md §6).
func StateDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "splitux")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/var/lib/splitux"
	}
	return filepath.Join(home, ".local", "share", "splitux")
}
