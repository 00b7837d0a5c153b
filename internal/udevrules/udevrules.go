// Package udevrules generates and installs the udev rule that grants
// splitux's own user read/write access to gamepads without needing the
// sandboxed game process to run as root. Nothing here talks to uinput
// directly; internal/translator already owns that.
package udevrules

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	rulePath = "/etc/udev/rules.d/99-splitux-gamepads.rules"
	ruleTag  = "splitux"
)

// VendorProduct is a USB vendor:product pair for a controller known to
// not self-report ID_INPUT_JOYSTICK (some Bluetooth pads, some clones).
type VendorProduct struct {
	Vendor  string
	Product string
}

// RuleContent renders the udev rule text for the given extra
// vendor:product pairs, in addition to the generic ID_INPUT_JOYSTICK match.
func RuleContent(extra []VendorProduct) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Installed by splitux (%s tag). Do not edit by hand;\n", ruleTag)
	fmt.Fprintf(&b, "# run `splitux setup` to regenerate.\n")
	fmt.Fprintln(&b, `ENV{ID_INPUT_JOYSTICK}=="1", MODE="0666", TAG+="uaccess"`)
	for _, vp := range extra {
		fmt.Fprintf(&b, `SUBSYSTEM=="input", ATTRS{idVendor}=="%s", ATTRS{idProduct}=="%s", MODE="0666", TAG+="uaccess"`+"\n", vp.Vendor, vp.Product)
	}
	return b.String()
}

// Installed reports whether the rule file already exists.
func Installed() bool {
	_, err := os.Stat(rulePath)
	return err == nil
}

// Install writes the rule file via sudo and reloads udev. It must be run
// interactively; there is no unprivileged path to /etc/udev/rules.d.
func Install(extra []VendorProduct) error {
	content := RuleContent(extra)

	write := exec.Command("sudo", "tee", rulePath)
	write.Stdin = strings.NewReader(content)
	if out, err := write.CombinedOutput(); err != nil {
		return fmt.Errorf("writing %s: %w: %s", rulePath, err, out)
	}

	if err := exec.Command("sudo", "udevadm", "control", "--reload-rules").Run(); err != nil {
		return fmt.Errorf("reloading udev rules: %w", err)
	}
	if err := exec.Command("sudo", "udevadm", "trigger", "--subsystem-match=input").Run(); err != nil {
		return fmt.Errorf("triggering udev: %w", err)
	}
	return nil
}

// RulePath returns where splitux installs its udev rule.
func RulePath() string {
	return rulePath
}
