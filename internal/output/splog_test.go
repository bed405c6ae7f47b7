package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplog(t *testing.T) {
	t.Run("writes formatted messages to the console", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewSplogForWriter(&buf)

		s.Info("moved %s", "hunk")
		s.Warn("careful")
		s.Error("failed: %d", 3)

		require.Equal(t, "moved hunk\n⚠️  careful\n❌ failed: 3\n", buf.String())
	})

	t.Run("quiet suppresses console output", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewSplogForWriter(&buf)

		s.SetQuiet(true)
		s.Info("hidden")
		s.SetQuiet(false)
		s.Info("shown")

		require.Equal(t, "shown\n", buf.String())
	})

	t.Run("debug follows the DEBUG variable", func(t *testing.T) {
		t.Setenv("DEBUG", "")
		var buf bytes.Buffer
		NewSplogForWriter(&buf).Debug("nope")
		require.Empty(t, buf.String())

		t.Setenv("DEBUG", "1")
		NewSplogForWriter(&buf).Debug("yes")
		require.Equal(t, "yes\n", buf.String())
	})

	t.Run("log file receives debug records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "vb.log")
		s, err := NewSplogWithLogFile(path)
		require.NoError(t, err)
		s.SetQuiet(true)

		s.Debug("claim reconciled")
		require.NoError(t, s.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "claim reconciled")
		require.Contains(t, string(data), "level=DEBUG")
	})

	t.Run("log file path honours VB_LOG_FILE", func(t *testing.T) {
		t.Setenv("VB_LOG_FILE", "/tmp/custom.log")
		require.Equal(t, "/tmp/custom.log", GetLogFilePath())
	})

	t.Run("default log file lives under the home directory", func(t *testing.T) {
		t.Setenv("VB_LOG_FILE", "")
		path := GetLogFilePath()
		require.NotContains(t, path, "~")
		require.True(t, filepath.IsAbs(path))
		require.True(t, strings.HasSuffix(path, filepath.Join(".vb", "logs", "vb.log")))
	})
}
