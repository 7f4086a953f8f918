package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TeesByLevel(t *testing.T) {
	fs := afero.NewMemMapFs()
	var console bytes.Buffer

	log, closeFn, err := New(fs, Options{File: DefaultFile, Level: "info", Console: &console})
	require.NoError(t, err)

	log.Debug("query finished")
	log.Info("GPU: NVIDIA X Temperature: 72 °C, Load: 55%")
	log.Error("Failed to get GPU load")
	require.NoError(t, closeFn())

	assert.NotContains(t, console.String(), "query finished")
	assert.Contains(t, console.String(), "Temperature: 72")
	assert.Contains(t, console.String(), "Failed to get GPU load")

	data, err := afero.ReadFile(fs, DefaultFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"level":"debug"`)
	assert.Contains(t, lines[0], `"msg":"query finished"`)
}

func TestNew_TruncatesExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "trace.log", []byte("stale run\n"), 0o644))

	log, closeFn, err := New(fs, Options{File: "trace.log", Level: "error"})
	require.NoError(t, err)
	log.Info("fresh")
	require.NoError(t, closeFn())

	data, err := afero.ReadFile(fs, "trace.log")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale run")
	assert.Contains(t, string(data), "fresh")
}

func TestNew_RawTerminalLineEnding(t *testing.T) {
	var console bytes.Buffer
	log, closeFn, err := New(afero.NewMemMapFs(), Options{Level: "info", Console: &console, RawTerminal: true})
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, closeFn())
	assert.True(t, strings.HasSuffix(console.String(), "hello\r\n"))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(afero.NewMemMapFs(), Options{Level: "loud"})
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestNew_ReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, _, err := New(fs, Options{File: DefaultFile, Level: "info"})
	assert.ErrorContains(t, err, "create log file")
}
