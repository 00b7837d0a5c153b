package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bnema/splitux/internal/config"
	"github.com/bnema/splitux/internal/handler"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known game handlers",
	RunE: func(cmd *cobra.Command, args []string) error {
		mustInitConfig()

		ids, err := handler.List(config.StateDir())
		if err != nil {
			return fmt.Errorf("listing handlers: %w", err)
		}
		if len(ids) == 0 {
			fmt.Println("No handlers installed under", config.StateDir())
			return nil
		}

		rows := make([][]string, 0, len(ids))
		for _, id := range ids {
			h, err := handler.Load(config.StateDir(), id)
			if err != nil {
				rows = append(rows, []string{id, "-", "error: " + err.Error()})
				continue
			}
			runtime := "native"
			if h.IsWindowsGame {
				runtime = "windows-compat"
			}
			rows = append(rows, []string{id, runtime, h.ExecutablePath})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("ID", "RUNTIME", "EXECUTABLE").
			Rows(rows...)

		fmt.Println(t.String())
		return nil
	},
}
