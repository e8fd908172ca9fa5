//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	// Ensure the test binary exists (it should be built by TestMain)
	if _, err := os.Stat(binPath); os.IsNotExist(err) {
		t.Skip("Test binary not found - TestMain may not have run yet")
	}

	// Run directly, not through a PTY, since it exits quickly
	out, err := exec.Command(binPath, "--help").CombinedOutput()
	require.NoError(t, err, "Help command should run without error")

	output := string(out)
	require.Contains(t, output, "Usage")
	require.Contains(t, output, "walk")
	require.Contains(t, output, "config")
	require.Contains(t, output, "--log-file")
}

func TestHelpPopup(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "Should render the first frame")

	require.NoError(t, tf.SendKeys(KeyHelp))
	require.True(t, tf.SeePlain("swscroll Help"), "Should show the help popup")
	require.True(t, tf.SeePlain("Toggle auto-scroll up/down"))

	require.NoError(t, tf.SendKeys(KeyEsc))
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, tf.SendKeys(KeyLog))
	require.True(t, tf.SeePlain("Activity"), "Should show the activity popup")
}

func TestUnknownScreenFails(t *testing.T) {
	t.Parallel()

	out, err := exec.Command(binPath, "planets").CombinedOutput()
	require.Error(t, err)
	require.Contains(t, string(out), `unknown screen "planets"`)
}
