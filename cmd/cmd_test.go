package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/splitux/internal/model"
)

func TestParseDeviceIndices_CommaSeparated(t *testing.T) {
	indices, err := parseDeviceIndices("0,2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3}, indices)
}

func TestParseDeviceIndices_SingleIndex(t *testing.T) {
	indices, err := parseDeviceIndices("1")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, indices)
}

func TestParseDeviceIndices_RejectsNonNumeric(t *testing.T) {
	_, err := parseDeviceIndices("gamepad")
	assert.Error(t, err)
}

func TestBuildLaunchRequest_RejectsMoreThanFourInstances(t *testing.T) {
	_, err := buildLaunchRequest(model.Handler{}, []string{"0", "1", "2", "3", "4"})
	assert.Error(t, err)
}

// executeCommand runs root with the given args, matching the teacher's own
// cmd-package test helper.
func executeCommand(root *cobra.Command, args ...string) error {
	root.SetArgs(append([]string{}, args...))
	return root.Execute()
}

func TestRootCmd_HelpWithoutExecFlag(t *testing.T) {
	err := executeCommand(rootCmd)
	assert.NoError(t, err)
}
