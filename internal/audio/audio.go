// Package audio detects the running sound server and allocates one
// virtual sink plus loopback per assigned instance (C5).
package audio

import (
	"fmt"
	"os/exec"

	"github.com/bnema/splitux/internal/errs"
	"github.com/bnema/splitux/internal/logger"
)

// System identifies the detected sound server.
type System int

const (
	SystemNone System = iota
	SystemPipeWire
	SystemPulseAudio
)

func (s System) String() string {
	switch s {
	case SystemPipeWire:
		return "pipewire"
	case SystemPulseAudio:
		return "pulseaudio"
	default:
		return "none"
	}
}

// DetectSystem probes, in order, for PipeWire then PulseAudio, per
// spec.md §4.6. It is pure over a sampled snapshot of the two probe
// commands' exit codes.
func DetectSystem() System {
	if probe("wpctl", "status") {
		return SystemPipeWire
	}
	if probe("pactl", "info") {
		return SystemPulseAudio
	}
	return SystemNone
}

func probe(binary string, args ...string) bool {
	if _, err := exec.LookPath(binary); err != nil {
		return false
	}
	return exec.Command(binary, args...).Run() == nil
}

// VirtualSink is one allocated sink+loopback pair, in creation order
// so teardown can reverse it.
type VirtualSink struct {
	SinkName      string
	SinkModuleID  string
	LoopbackID    string
	InstanceIndex int
	EnvVar        string
}

// Session holds every sink allocated during one launch (C10 folds
// this into the broader session record).
type Session struct {
	System System
	Sinks  []VirtualSink
}

// Setup implements spec.md §4.6: for each non-empty assignment, create
// a sink, a loopback to the named physical output, and the env var the
// game's audio client reads to pick it. On partial failure, everything
// created so far is torn down before returning the error.
func Setup(system System, assignments []string) (*Session, error) {
	sess := &Session{System: system}

	for i, target := range assignments {
		if target == "" {
			continue
		}
		sink, err := createSink(system, i, target)
		if err != nil {
			Teardown(sess)
			return nil, errs.Wrap(errs.AudioSetupFailed, err, "allocating sink for instance %d", i)
		}
		sess.Sinks = append(sess.Sinks, sink)
	}
	return sess, nil
}

func createSink(system System, instanceIdx int, target string) (VirtualSink, error) {
	sinkName := fmt.Sprintf("splitux-sink-%d", instanceIdx)

	switch system {
	case SystemPipeWire:
		if err := exec.Command("pw-cli", "create-node", "adapter",
			fmt.Sprintf("{ factory.name=support.null-audio-sink node.name=%s }", sinkName)).Run(); err != nil {
			return VirtualSink{}, fmt.Errorf("pw-cli create-node: %w", err)
		}
		loopbackID := fmt.Sprintf("splitux-loop-%d", instanceIdx)
		if err := exec.Command("pw-loopback", "--capture-props",
			fmt.Sprintf("node.target=%s", sinkName),
			"--playback-props", fmt.Sprintf("node.target=%s", target)).Start(); err != nil {
			return VirtualSink{}, fmt.Errorf("pw-loopback: %w", err)
		}
		return VirtualSink{SinkName: sinkName, LoopbackID: loopbackID, InstanceIndex: instanceIdx, EnvVar: fmt.Sprintf("PIPEWIRE_NODE=%s", sinkName)}, nil

	case SystemPulseAudio:
		out, err := exec.Command("pactl", "load-module", "module-null-sink",
			fmt.Sprintf("sink_name=%s", sinkName)).Output()
		if err != nil {
			return VirtualSink{}, fmt.Errorf("pactl load-module null-sink: %w", err)
		}
		sinkModuleID := trimModuleID(out)
		loopbackOut, err := exec.Command("pactl", "load-module", "module-loopback",
			fmt.Sprintf("source=%s.monitor", sinkName), fmt.Sprintf("sink=%s", target)).Output()
		if err != nil {
			exec.Command("pactl", "unload-module", sinkModuleID).Run()
			return VirtualSink{}, fmt.Errorf("pactl load-module loopback: %w", err)
		}
		return VirtualSink{SinkName: sinkName, SinkModuleID: sinkModuleID, LoopbackID: trimModuleID(loopbackOut), InstanceIndex: instanceIdx, EnvVar: fmt.Sprintf("PULSE_SINK=%s", sinkName)}, nil

	default:
		return VirtualSink{}, fmt.Errorf("no audio system available")
	}
}

func trimModuleID(out []byte) string {
	s := string(out)
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// Teardown removes every loopback then every sink, in reverse order of
// creation, per spec.md §4.6. Errors are logged, never propagated —
// they are recoverable on the next session.
func Teardown(sess *Session) {
	if sess == nil {
		return
	}
	for i := len(sess.Sinks) - 1; i >= 0; i-- {
		sink := sess.Sinks[i]
		var err error
		switch sess.System {
		case SystemPipeWire:
			err = exec.Command("pw-cli", "destroy", sink.LoopbackID).Run()
		case SystemPulseAudio:
			err = exec.Command("pactl", "unload-module", sink.LoopbackID).Run()
		}
		if err != nil {
			logger.Warnf("audio: failed to tear down loopback for instance %d: %v", sink.InstanceIndex, err)
		}
	}
	for i := len(sess.Sinks) - 1; i >= 0; i-- {
		sink := sess.Sinks[i]
		var err error
		switch sess.System {
		case SystemPipeWire:
			err = exec.Command("pw-cli", "destroy", sink.SinkName).Run()
		case SystemPulseAudio:
			err = exec.Command("pactl", "unload-module", sink.SinkModuleID).Run()
		}
		if err != nil {
			logger.Warnf("audio: failed to tear down sink for instance %d: %v", sink.InstanceIndex, err)
		}
	}
}
