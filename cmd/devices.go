package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bnema/splitux/internal/devices"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List input devices splitux can assign to an instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := devices.Enumerate()
		if err != nil {
			return fmt.Errorf("enumerating input devices: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No input devices found under /dev/input")
			return nil
		}

		rows := make([][]string, len(all))
		for i, d := range all {
			enabled := "yes"
			if !d.Enabled {
				enabled = "no"
			}
			rows[i] = []string{fmt.Sprintf("%d", i), d.Path, d.DeviceClass.String(), d.UniqueID, enabled}
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("INDEX", "PATH", "CLASS", "UNIQUE ID", "ENABLED").
			Rows(rows...)

		fmt.Println(t.String())
		fmt.Println("Use the index shown above with --instance, e.g. --instance 0,2")
		return nil
	},
}
