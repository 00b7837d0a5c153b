package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/splitux/internal/logger"
	"github.com/bnema/splitux/internal/udevrules"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the udev rule that grants gamepad access without root",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	if os.Geteuid() == 0 {
		return fmt.Errorf("run setup as your normal user; it invokes sudo itself when needed")
	}

	if udevrules.Installed() {
		logger.Infof("udev rule already present at %s", udevrules.RulePath())
		return nil
	}

	logger.Infof("installing udev rule at %s (requires sudo)", udevrules.RulePath())
	if err := udevrules.Install(nil); err != nil {
		return fmt.Errorf("installing udev rule: %w", err)
	}

	logger.Info("udev rule installed. Replug gamepads for the new permissions to apply.")
	return nil
}
