package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bnema/splitux/internal/audio"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the host has everything splitux needs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok := true
		required := true
		check := func(label string, pass bool, hint string) {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color("83"))
			mark := "OK"
			if !pass {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
				mark = "MISSING"
				if required {
					ok = false
				}
			}
			line := fmt.Sprintf("  %-28s %s", label, style.Render(mark))
			if !pass && hint != "" {
				line += "  (" + hint + ")"
			}
			fmt.Println(line)
		}

		fmt.Println("Required:")
		check("bubblewrap (bwrap)", onPath("bwrap"), "install bubblewrap")
		check("gamescope", onPath("gamescope"), "install gamescope")

		fmt.Println("Optional:")
		required = false
		check("gamescope-holding", onPath("gamescope-holding"), "only needed for input_holding")
		check("proton", hasAnyCompatTool(), "only needed for windows-compat handlers")
		check("audio backend", audio.DetectSystem() != audio.SystemNone, "no wpctl or pactl found")

		fmt.Println("Window manager integration:")
		check("sway", os.Getenv("SWAYSOCK") != "", "auto-detected via SWAYSOCK")
		check("hyprland", os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "", "auto-detected via HYPRLAND_INSTANCE_SIGNATURE")
		check("kde plasma", os.Getenv("KDE_FULL_SESSION") != "", "auto-detected via KDE_FULL_SESSION")

		if !ok {
			exitError("one or more required dependencies are missing")
		}
		fmt.Println("\nsplitux is ready to launch.")
		return nil
	},
}

func onPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func hasAnyCompatTool() bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	for _, dir := range []string{
		home + "/.steam/root/compatibilitytools.d",
		home + "/.local/share/Steam/compatibilitytools.d",
	} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		if len(entries) > 0 {
			return true
		}
	}
	return false
}
