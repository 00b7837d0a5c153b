package statusbar

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersist_WritesStateFile(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)
	m.recorded = []recordedBar{{PID: 99999999, Cmdline: []string{"waybar"}}}

	require.NoError(t, m.persist())

	data, err := os.ReadFile(filepath.Join(dir, "tmp", "hidden_bars.json"))
	require.NoError(t, err)

	var cmdlines [][]string
	require.NoError(t, json.Unmarshal(data, &cmdlines))
	assert.Equal(t, "waybar", cmdlines[0][0])
}

func TestRestoreAll_RemovesStateFile(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)
	m.recorded = []recordedBar{{PID: 99999999, Cmdline: []string{"/bin/true"}}}
	require.NoError(t, m.persist())

	m.RestoreAll()

	_, err := os.Stat(filepath.Join(dir, "tmp", "hidden_bars.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRecoverOnStartup_NoStateFileIsNoop(t *testing.T) {
	dir := t.TempDir()
	RecoverOnStartup(dir)
}

func TestRecoverOnStartup_CorruptStateFileIsDiscarded(t *testing.T) {
	dir := t.TempDir()
	tmpDir := filepath.Join(dir, "tmp")
	require.NoError(t, os.MkdirAll(tmpDir, 0o755))
	path := filepath.Join(tmpDir, "hidden_bars.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	RecoverOnStartup(dir)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRecoverOnStartup_RemovesStateFileAfterRecovery(t *testing.T) {
	dir := t.TempDir()
	tmpDir := filepath.Join(dir, "tmp")
	require.NoError(t, os.MkdirAll(tmpDir, 0o755))
	path := filepath.Join(tmpDir, "hidden_bars.json")
	data, err := json.Marshal([][]string{{"/bin/true"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	RecoverOnStartup(dir)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestProcessAlive_CurrentProcess(t *testing.T) {
	assert.True(t, processAlive(os.Getpid()))
}
