package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/splitux/internal/config"
	"github.com/bnema/splitux/internal/devices"
	"github.com/bnema/splitux/internal/handler"
	"github.com/bnema/splitux/internal/logger"
	"github.com/bnema/splitux/internal/model"
	"github.com/bnema/splitux/internal/monitors"
	"github.com/bnema/splitux/internal/orchestrator"
	"github.com/bnema/splitux/internal/statusbar"
	"github.com/bnema/splitux/internal/ui"
)

var (
	launchInstanceSpecs []string
)

var launchCmd = &cobra.Command{
	Use:   "launch <handler-id>",
	Short: "Launch a split-screen session for a known handler",
	Args:  cobra.ExactArgs(1),
	RunE:  runLaunch,
}

func init() {
	launchCmd.Flags().StringArrayVar(&launchInstanceSpecs, "instance", nil, "comma-separated evdev device index per player, one flag per instance")
}

func runLaunch(cmd *cobra.Command, args []string) error {
	mustInitConfig()
	statusbar.RecoverOnStartup(config.StateDir())

	h, err := handler.Load(config.StateDir(), args[0])
	if err != nil {
		return fmt.Errorf("loading handler %q: %w", args[0], err)
	}

	req, err := buildLaunchRequest(h, launchInstanceSpecs)
	if err != nil {
		return err
	}

	if fullscreen {
		return ui.RunFullscreen(func() error { return runAndReport(req) })
	}
	return runAndReport(req)
}

func runLiteLaunch(execPath, execArgs string, fullscreenUI bool) error {
	mustInitConfig()
	statusbar.RecoverOnStartup(config.StateDir())

	h := model.Handler{ExecutablePath: execPath, Args: execArgs, DisableSandbox: false}
	req, err := buildLaunchRequest(h, []string{"0"})
	if err != nil {
		return err
	}
	if fullscreenUI {
		return ui.RunFullscreen(func() error { return runAndReport(req) })
	}
	return runAndReport(req)
}

func buildLaunchRequest(h model.Handler, instanceSpecs []string) (model.LaunchRequest, error) {
	all, err := devices.Enumerate()
	if err != nil {
		return model.LaunchRequest{}, fmt.Errorf("enumerating input devices: %w", err)
	}

	if len(instanceSpecs) == 0 {
		instanceSpecs = []string{"0"}
	}
	if len(instanceSpecs) > 4 {
		return model.LaunchRequest{}, fmt.Errorf("splitux supports at most 4 instances, got %d", len(instanceSpecs))
	}

	instances := make([]model.Instance, len(instanceSpecs))
	for i, spec := range instanceSpecs {
		indices, err := parseDeviceIndices(spec)
		if err != nil {
			return model.LaunchRequest{}, fmt.Errorf("parsing --instance %q: %w", spec, err)
		}
		instances[i] = model.Instance{DeviceIndices: indices, MonitorIndex: 0}
	}

	return model.LaunchRequest{
		Handler:      h,
		Instances:    instances,
		InputDevices: all,
		Monitors:     monitors.Detect(),
		Config:       *config.Get(),
	}, nil
}

func parseDeviceIndices(spec string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(spec, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}

func runAndReport(req model.LaunchRequest) error {
	logFile, err := logger.SetupFileLogging("splitux")
	if err == nil {
		defer logFile.Close()
	}

	ctx := context.Background()
	if err := orchestrator.Run(ctx, req, config.StateDir()); err != nil {
		return err
	}
	return nil
}
