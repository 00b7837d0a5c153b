// Package session holds the in-memory record of everything allocated
// during one launch (C10), so the Orchestrator can reverse it in order.
package session

import (
	"os/exec"

	"github.com/bnema/splitux/internal/audio"
	"github.com/bnema/splitux/internal/statusbar"
	"github.com/bnema/splitux/internal/translator"
	"github.com/bnema/splitux/internal/wm"
)

// State is a plain record living on the Orchestrator's stack. Only the
// Orchestrator mutates it, and it is single-threaded once a launch
// begins, so no lock is needed (spec.md §4.10).
type State struct {
	Audio         *audio.Session
	Translators   []*translator.Daemon
	Children      []*exec.Cmd
	WMBackend     wm.Backend
	StatusBar     *statusbar.Manager
	BarsHidden    bool
}

// New returns an empty session record.
func New() *State {
	return &State{}
}
