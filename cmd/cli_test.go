package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/magicpin/internal/version"
)

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, version.Version)
}

func TestUnknownCommandFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "frobnicate")
	require.Error(t, err)
}

func TestAssignmentsWithoutTokenFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "assignments")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no authentication token")
}

func TestChatAssignmentKeywordWithoutTokenEmitsBotError(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "chat", "check", "my", "homework")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Bot Error:")
}

func TestPollWithoutTokenPrintsEmptySnapshot(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "poll")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No emails found.")
}

func TestStateFileStaysUnderConfiguredHome(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "poll")
	require.NoError(t, err)

	// Nothing polled, so only the transcript database and secret dir may
	// exist; the state file must not have escaped the home directory.
	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Equal(t, ".magicpin", entry.Name())
	}
	_, err = os.Stat(filepath.Join(home, ".magicpin"))
	require.NoError(t, err)
}
