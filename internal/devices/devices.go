// Package devices implements the Device-Blocking Planner (C1): it
// enumerates every input node on the host and decides, per instance,
// which nodes should be masked out of that instance's sandbox view.
package devices

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"unsafe"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/bnema/splitux/internal/logger"
	"github.com/bnema/splitux/internal/model"
)

const (
	evKey = 0x01
	evRel = 0x02
	evAbs = 0x03
)

// btnGamepad and btnSouth are the linux input-event-codes a device must
// advertise to be treated as a gamepad; BTN_GAMEPAD and BTN_SOUTH are two
// names for the same code (0x130), so both constants hold that value.
const (
	btnGamepad = 0x130
	btnSouth   = 0x130
	btnLeft    = 0x110
)

// Enumerate scans /dev/input/event* and classifies each node. Nodes
// that fail to open (permission, vanished) are skipped, not errored —
// enumeration must survive a partially-readable host.
func Enumerate() ([]model.InputDevice, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, err
	}

	var out []model.InputDevice
	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			logger.Debugf("devices: skipping %s: %v", path, err)
			continue
		}
		class := classify(dev)
		out = append(out, model.InputDevice{
			Path:        path,
			DeviceClass: class,
			Enabled:     true,
			UniqueID:    strings.TrimSpace(dev.Uniq),
			VendorID:    dev.Vendor,
		})
		dev.File.Close()
	}
	return out, nil
}

// classify applies the gamepad/keyboard/mouse heuristic: EV_KEY with a
// BTN_GAMEPAD or BTN_SOUTH bit means gamepad; EV_REL with BTN_LEFT
// means mouse; a broad EV_KEY set without those gamepad bits means
// keyboard; anything else is DeviceOther.
func classify(dev *evdev.InputDevice) model.DeviceClass {
	var keyCaps, relCaps []evdev.CapabilityCode
	for capType, codes := range dev.Capabilities {
		switch capType.Type {
		case evKey:
			keyCaps = codes
		case evRel:
			relCaps = codes
		}
	}

	for _, c := range keyCaps {
		if c.Code == btnGamepad || c.Code == btnSouth {
			return model.DeviceGamepad
		}
	}
	if len(relCaps) > 0 {
		for _, c := range keyCaps {
			if c.Code == btnLeft {
				return model.DeviceMouse
			}
		}
	}
	if len(keyCaps) > 20 {
		return model.DeviceKeyboard
	}
	return model.DeviceOther
}

// Plan is C1's output: the set of paths to hide from an instance and
// the set to leave visible, across evdev, legacy joystick, and hidraw
// nodes.
type Plan struct {
	Mask    []string
	Visible []string
}

// BuildPlan implements the Contract in spec.md §4.2: unassigned
// gamepads are always masked, assigned gamepads always visible, and
// keyboard/mouse nodes are masked unless inputHolding is enabled or
// the node is assigned to this instance.
func BuildPlan(all []model.InputDevice, assignedIndices []int, inputHolding bool) Plan {
	assigned := make(map[int]bool, len(assignedIndices))
	for _, idx := range assignedIndices {
		assigned[idx] = true
	}

	var plan Plan
	for i, dev := range all {
		switch dev.DeviceClass {
		case model.DeviceGamepad:
			if assigned[i] {
				plan.Visible = append(plan.Visible, dev.Path)
			} else {
				plan.Mask = append(plan.Mask, dev.Path)
			}
		case model.DeviceKeyboard, model.DeviceMouse:
			if assigned[i] || inputHolding {
				plan.Visible = append(plan.Visible, dev.Path)
			} else {
				plan.Mask = append(plan.Mask, dev.Path)
			}
		default:
			plan.Visible = append(plan.Visible, dev.Path)
		}
	}

	plan.Mask = append(plan.Mask, hidrawPathsFor(all, assigned)...)
	plan.Mask = append(plan.Mask, legacyJoystickPathsFor(all, assigned)...)
	return plan
}

// legacyJoystickPathsFor globs every /dev/input/js* node that opens as a
// joystick and masks it unless its sysfs device has an eventN sibling
// matching a gamepad assigned to this instance, mirroring
// original_source/src/bwrap/operations/devices.rs's glob_js_devices:
// any js* node not proven to belong to this instance's assigned
// gamepads is blocked. Nodes that do not open are left out.
func legacyJoystickPathsFor(all []model.InputDevice, assigned map[int]bool) []string {
	jsNodes, _ := filepath.Glob("/dev/input/js*")
	if len(jsNodes) == 0 {
		return nil
	}

	assignedEvents := make(map[string]bool)
	for i, dev := range all {
		if dev.DeviceClass == model.DeviceGamepad && assigned[i] {
			assignedEvents[filepath.Base(dev.Path)] = true
		}
	}

	var masked []string
	for _, node := range jsNodes {
		if !IsLegacyJoystick(node) {
			continue
		}
		siblings, _ := filepath.Glob(filepath.Join("/sys/class/input", filepath.Base(node), "device", "event*"))
		if len(siblings) > 0 && assignedEvents[filepath.Base(siblings[0])] {
			continue
		}
		masked = append(masked, node)
	}
	return masked
}

// hidrawPathsFor correlates every /dev/hidraw* node to a known gamepad
// via sysfs, masking the ones that belong to an unassigned gamepad.
// Both correlation mechanisms in spec.md §4.2 are tried, sysfs
// input/eventN child first, then HID_UNIQ, first match wins.
func hidrawPathsFor(all []model.InputDevice, assigned map[int]bool) []string {
	hidrawNodes, _ := filepath.Glob("/dev/hidraw*")
	var masked []string
	for _, node := range hidrawNodes {
		name := filepath.Base(node)
		idx, ok := correlateHidraw(name, all)
		if !ok {
			continue
		}
		if all[idx].DeviceClass == model.DeviceGamepad && !assigned[idx] {
			masked = append(masked, node)
		}
	}
	return masked
}

func correlateHidraw(hidrawName string, all []model.InputDevice) (int, bool) {
	sysBase := filepath.Join("/sys/class/hidraw", hidrawName, "device")

	if idx, ok := correlateHidrawByEventChild(sysBase, all); ok {
		return idx, true
	}
	return correlateHidrawByUniq(sysBase, all)
}

// correlateHidrawByEventChild walks <sysBase>/input/input*/event* looking
// for an eventN name matching an enumerated evdev path.
func correlateHidrawByEventChild(sysBase string, all []model.InputDevice) (int, bool) {
	matches, _ := filepath.Glob(filepath.Join(sysBase, "input", "input*", "event*"))
	for _, m := range matches {
		eventName := filepath.Base(m)
		for i, dev := range all {
			if filepath.Base(dev.Path) == eventName {
				return i, true
			}
		}
	}
	return 0, false
}

func correlateHidrawByUniq(sysBase string, all []model.InputDevice) (int, bool) {
	data, err := os.ReadFile(filepath.Join(sysBase, "uevent"))
	if err != nil {
		return 0, false
	}
	var uniq string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "HID_UNIQ=") {
			uniq = strings.TrimPrefix(line, "HID_UNIQ=")
			break
		}
	}
	if uniq == "" {
		return 0, false
	}
	for i, dev := range all {
		if dev.UniqueID == uniq {
			return i, true
		}
	}
	return 0, false
}

// WritablePaths filters a blocking list down to paths that are
// currently open-for-write, implementing the spawn-time recheck in
// spec.md §4.2: a path the sandbox cannot open cannot be masked, and
// that is not reported as an error.
func WritablePaths(paths []string) []string {
	var out []string
	for _, p := range paths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			logger.Debugf("devices: %s not writable at spawn time, dropping from bind list: %v", p, err)
			continue
		}
		f.Close()
		out = append(out, p)
	}
	return out
}

// eviocgbitFallback mirrors the raw-ioctl capability probe used when a
// node's capabilities cannot be read through the evdev library (e.g.
// legacy /dev/input/js* nodes, which golang-evdev does not parse).
func eviocgbitFallback(file *os.File, eventType int, bits []byte) bool {
	cmd := 0x80000000 | (uintptr(len(bits)) << 16) | (uintptr('E') << 8) | uintptr(0x20+eventType)
	_, _, errno := syscall.Syscall(
		syscall.SYS_IOCTL,
		file.Fd(),
		cmd,
		uintptr(unsafe.Pointer(&bits[0])), //nolint:gosec // required for ioctl syscall
	)
	return errno == 0
}

// IsLegacyJoystick reports whether a /dev/input/js* node looks like an
// open-able joystick device, using the same ioctl technique as evdev
// capability probing since golang-evdev does not cover js* nodes.
func IsLegacyJoystick(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	bits := make([]byte, 4)
	return eviocgbitFallback(f, evAbs, bits)
}
