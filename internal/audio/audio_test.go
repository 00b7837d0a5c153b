package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystem_String(t *testing.T) {
	assert.Equal(t, "pipewire", SystemPipeWire.String())
	assert.Equal(t, "pulseaudio", SystemPulseAudio.String())
	assert.Equal(t, "none", SystemNone.String())
}

func TestSetup_NoAudioSystemFailsAndReportsError(t *testing.T) {
	_, err := Setup(SystemNone, []string{"speakers"})
	assert.Error(t, err)
}

func TestSetup_EmptyAssignmentsSkipped(t *testing.T) {
	sess, err := Setup(SystemNone, []string{"", ""})
	assert.NoError(t, err)
	assert.Empty(t, sess.Sinks)
}

func TestTeardown_NilSessionIsNoop(t *testing.T) {
	Teardown(nil)
}

func TestTrimModuleID_StripsTrailingNewline(t *testing.T) {
	assert.Equal(t, "42", trimModuleID([]byte("42\n")))
}
