// Package model holds the plain data types that flow through a Splitux
// launch: the device and monitor tables, the per-player Instance
// assignments, the opaque game Handler metadata, and the layout presets
// that place tiles on a monitor.
package model

// DeviceClass classifies an InputDevice node for C1's blocking decisions.
type DeviceClass int

const (
	DeviceOther DeviceClass = iota
	DeviceGamepad
	DeviceKeyboard
	DeviceMouse
)

func (c DeviceClass) String() string {
	switch c {
	case DeviceGamepad:
		return "gamepad"
	case DeviceKeyboard:
		return "keyboard"
	case DeviceMouse:
		return "mouse"
	default:
		return "other"
	}
}

// Monitor is a physical display, identified by its DRM connector name.
// Monitors are indexed; indices are stable within a launch.
type Monitor struct {
	ConnectorName string
	WidthPx       uint32
	HeightPx      uint32
	XOrigin       int32
	YOrigin       int32
}

// InputDevice is a single evdev/hidraw node on the host.
type InputDevice struct {
	Path        string
	DeviceClass DeviceClass
	Enabled     bool
	// UniqueID is the hardware-assigned identifier (USB serial or
	// Bluetooth MAC). May be empty for devices without one.
	UniqueID string
	VendorID uint16
}

// Instance is one running copy of the game, bound to a subset of input
// devices, a display tile, and optionally a dedicated audio sink and
// translator daemon.
type Instance struct {
	DeviceIndices    []int
	ProfileSelection int
	MonitorIndex     int
	TileWidthPx      uint32
	TileHeightPx     uint32
}

// RuntimeHint selects how the Runtime-Arg Builder (C4) wraps the game
// executable.
type RuntimeHint int

const (
	RuntimeNative RuntimeHint = iota
	RuntimeWindowsCompat
)

// Handler is opaque per-game metadata consumed by the core. Content
// patching, mod injection, and save-file layout are treated as opaque
// fields owned by external collaborators.
type Handler struct {
	IsWindowsGame        bool
	ExecutablePath       string
	GameRootPath         string
	Args                 string
	EnvAssignments       string
	RuntimeHint          RuntimeHint
	GoldbergBackend      bool
	PhotonBackend        bool
	FacepunchBackend     bool
	TranslationDaemon    bool
	TranslationProfile   string
	RequiredMods         []string
	SpecVersion          uint32
	DisableSandbox       bool
	DisableInputIsolation bool
}

// Region is a tile rectangle normalized to [0,1] against a monitor.
type Region struct {
	FX, FY, FW, FH float64
}

// LayoutPreset names a set of normalized regions for a given player count.
type LayoutPreset struct {
	ID           string
	DisplayName  string
	PlayerCount  int
	Regions      []Region
}

// PadFilter controls which gamepads the device table exposes.
type PadFilter int

const (
	PadFilterAll PadFilter = iota
	PadFilterNoSteamInput
	PadFilterOnlySteamInput
)

// WindowManagerKind selects a C7 Window-Manager Backend variant.
type WindowManagerKind int

const (
	WMAuto WindowManagerKind = iota
	WMReactiveScript
	WMPositioningController
	WMTiledController
	WMNone
)

// LayoutPresetOverride lets a user permute which region an instance
// lands in for a given preset.
type LayoutPresetOverride struct {
	PresetID          string
	InstanceToRegion  []int
}

// Config enumerates every recognized Splitux option.
type Config struct {
	PadFilter               PadFilter                     `mapstructure:"pad_filter"`
	VerticalTwoPlayer        bool                          `mapstructure:"vertical_two_player"`
	WindowsRuntimeName       string                        `mapstructure:"windows_runtime_name"`
	SeparateWindowsPrefixes  bool                          `mapstructure:"separate_windows_prefixes"`
	AllowSharedDevice        bool                          `mapstructure:"allow_shared_device"`
	DisableGamedirOverlay    bool                          `mapstructure:"disable_gamedir_overlay"`
	GamescopeFixLowres       bool                          `mapstructure:"gamescope_fix_lowres"`
	GamescopeUseSDLBackend   bool                          `mapstructure:"gamescope_use_sdl_backend"`
	GamescopeForceGrabCursor bool                          `mapstructure:"gamescope_force_grab_cursor"`
	InputHolding             bool                          `mapstructure:"input_holding"`
	WindowManager            WindowManagerKind             `mapstructure:"window_manager"`
	LayoutPresets            map[int]string                `mapstructure:"layout_presets"`
	LayoutOverrides          map[int]LayoutPresetOverride   `mapstructure:"-"`
	AudioSystemPreference    string                        `mapstructure:"audio_system_preference"`
	AudioDefaultAssignments  []string                      `mapstructure:"audio_default_assignments"`
	VulkanInitDelayMs        int                           `mapstructure:"vulkan_init_delay_ms"`
	InputInitDelayMs         int                           `mapstructure:"input_init_delay_ms"`
}

// LaunchRequest is the full input to the launch pipeline.
type LaunchRequest struct {
	Handler      Handler
	Instances    []Instance
	InputDevices []InputDevice
	Monitors     []Monitor
	Config       Config
}
