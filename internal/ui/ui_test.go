package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleForLevel_KnownLevelsDiffer(t *testing.T) {
	assert.NotEqual(t, styleForLevel("ERROR").GetForeground(), styleForLevel("WARN").GetForeground())
	assert.Equal(t, MutedStyle.GetForeground(), styleForLevel("INFO").GetForeground())
}

func TestModel_LogMsgAppendsAndTrims(t *testing.T) {
	logCh := make(chan logLine, 1)
	doneCh := make(chan error, 1)
	m := newModel(logCh, doneCh)

	for i := 0; i < maxLogLines+5; i++ {
		next, _ := m.Update(logMsg{level: "INFO", message: "line"})
		m = next.(model)
	}

	assert.Len(t, m.lines, maxLogLines)
}

func TestModel_DoneMsgMarksFinished(t *testing.T) {
	logCh := make(chan logLine, 1)
	doneCh := make(chan error, 1)
	m := newModel(logCh, doneCh)

	next, _ := m.Update(doneMsg{err: nil})
	m = next.(model)

	assert.True(t, m.finished)
	assert.NoError(t, m.err)
}
