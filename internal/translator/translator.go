// Package translator spawns per-instance gamepad-to-keyboard/mouse
// translation daemons (C6): each reads an assigned evdev gamepad node
// and emits synthetic events on a dedicated uinput virtual device.
package translator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ThomasT75/uinput"
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/bnema/splitux/internal/logger"
	"github.com/bnema/splitux/internal/model"
)

// Profile maps gamepad button/axis codes to synthetic keyboard keys.
// Axis entries fire NegativeKey/PositiveKey past Threshold; button
// entries fire Key directly.
type Profile struct {
	Name    string
	Buttons map[uint16]int
	Axes    map[uint16]AxisMapping
}

type AxisMapping struct {
	NegativeKey, PositiveKey int
	Threshold                int32
}

// Daemon owns one virtual uinput device and the goroutine translating
// one gamepad's events into it.
type Daemon struct {
	InstanceIndex int
	DevicePath    string

	keyboard uinput.Keyboard
	source   *evdev.InputDevice
	cancel   context.CancelFunc
	done     chan struct{}

	mu      sync.Mutex
	pressed map[int]bool
}

// Spawn implements the Contract in spec.md §4.7: given a profile and
// the gamepad node assigned to this instance, create a virtual
// keyboard and start translating. Returns a nil Daemon and nil error
// when gamepadPath is empty (no gamepad assigned); whether the handler
// enables translation is not checked here.
func Spawn(profile Profile, gamepadPath string, instanceIdx int) (*Daemon, error) {
	if gamepadPath == "" {
		return nil, nil
	}

	source, err := evdev.Open(gamepadPath)
	if err != nil {
		return nil, fmt.Errorf("opening gamepad node %s: %w", gamepadPath, err)
	}

	name := fmt.Sprintf("splitux-translator-%d", instanceIdx)
	kb, err := uinput.CreateKeyboard("/dev/uinput", []byte(name))
	if err != nil {
		source.File.Close()
		return nil, fmt.Errorf("creating virtual keyboard: %w", err)
	}

	devicePath, err := resolveUinputDevicePath(name)
	if err != nil {
		kb.Close()
		source.File.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		InstanceIndex: instanceIdx,
		DevicePath:    devicePath,
		keyboard:      kb,
		source:        source,
		cancel:        cancel,
		done:          make(chan struct{}),
		pressed:       make(map[int]bool),
	}
	go d.run(ctx, profile)
	return d, nil
}

func (d *Daemon) run(ctx context.Context, profile Profile) {
	defer close(d.done)
	events := make(chan evdev.InputEvent, 32)

	go func() {
		for {
			evs, err := d.source.Read()
			if err != nil {
				close(events)
				return
			}
			for _, e := range evs {
				select {
				case events <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			d.handle(e, profile)
		}
	}
}

func (d *Daemon) handle(e evdev.InputEvent, profile Profile) {
	switch e.Type {
	case 0x01: // EV_KEY
		if key, ok := profile.Buttons[e.Code]; ok {
			d.setKey(key, e.Value != 0)
		}
	case 0x03: // EV_ABS
		if axis, ok := profile.Axes[e.Code]; ok {
			d.applyAxis(axis, e.Value)
		}
	}
}

func (d *Daemon) applyAxis(axis AxisMapping, value int32) {
	neg, pos := axisKeyStates(axis, value)
	d.setKey(axis.NegativeKey, neg)
	d.setKey(axis.PositiveKey, pos)
}

func (d *Daemon) setKey(key int, down bool) {
	if key == 0 {
		return
	}
	d.mu.Lock()
	already := d.pressed[key]
	d.mu.Unlock()
	if already == down {
		return
	}

	var err error
	if down {
		err = d.keyboard.KeyDown(key)
	} else {
		err = d.keyboard.KeyUp(key)
	}
	if err != nil {
		logger.Warnf("translator: instance %d key event failed: %v", d.InstanceIndex, err)
		return
	}
	d.mu.Lock()
	d.pressed[key] = down
	d.mu.Unlock()
}

// Stop terminates the daemon gracefully: cancel the read loop, wait up
// to a grace period, then close the device handles regardless.
func (d *Daemon) Stop(grace time.Duration) {
	if d == nil {
		return
	}
	d.cancel()
	select {
	case <-d.done:
	case <-time.After(grace):
		logger.Warnf("translator: instance %d did not stop within %s", d.InstanceIndex, grace)
	}
	d.keyboard.Close()
	d.source.File.Close()
}

// resolveUinputDevicePath walks sysfs looking for the just-created
// virtual device's /dev/input/eventN node by matching its advertised
// name, the same technique used to resolve persistent paths for real
// devices.
func resolveUinputDevicePath(name string) (string, error) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		entries, err := os.ReadDir("/sys/class/input")
		if err == nil {
			for _, entry := range entries {
				if !strings.HasPrefix(entry.Name(), "event") {
					continue
				}
				nameBytes, err := os.ReadFile(filepath.Join("/sys/class/input", entry.Name(), "device", "name"))
				if err != nil {
					continue
				}
				if strings.TrimSpace(string(nameBytes)) == name {
					return filepath.Join("/dev/input", entry.Name()), nil
				}
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return "", fmt.Errorf("timed out resolving uinput device path for %q", name)
}

// axisKeyStates reports whether an axis reading should hold the
// negative/positive mapped key down, given the axis's threshold.
func axisKeyStates(axis AxisMapping, value int32) (negative, positive bool) {
	return value < -axis.Threshold, value > axis.Threshold
}

// DefaultProfileFor returns a profile carrying the handler's
// translation profile name with no keys mapped (the device is still
// created so the sandbox has a path to bind). Profile names are not
// resolved to mappings; every name yields the same empty profile.
func DefaultProfileFor(h model.Handler) Profile {
	return Profile{Name: h.TranslationProfile, Buttons: map[uint16]int{}, Axes: map[uint16]AxisMapping{}}
}
