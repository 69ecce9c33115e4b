package hybridrow

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions_Defaults(t *testing.T) {
	opts, err := LoadOptions("")
	require.NoError(t, err)
	assert.Equal(t, 0, opts.MaxSize)
	assert.Equal(t, defaultInitialCapacity, opts.InitialCapacity)
	assert.Equal(t, "info", opts.LogLevel)
	require.NotNil(t, opts.Logger)
}

func TestLoadOptions_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hybridrow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_size: 4096\ninitial_capacity: 64\nlog_level: debug\n"), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 4096, opts.MaxSize)
	assert.Equal(t, 64, opts.InitialCapacity)
	assert.True(t, opts.Logger.Enabled(context.Background(), slog.LevelDebug))

	t.Setenv("HYBRIDROW_MAX_SIZE", "100")
	opts, err = LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 100, opts.MaxSize, "environment wins over file")

	row := NewRowBuffer(opts)
	row.InitLayout(movieLayout, testNamespace)
	c := row.Root().Field("blob")
	assert.Equal(t, InsufficientBuffer, c.WriteBinary(make([]byte, 200), Insert))
}

func TestLoadOptions_Invalid(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	_, err := LoadOptions(write("level.yaml", "log_level: loud\n"))
	assert.ErrorContains(t, err, "invalid log_level")

	_, err = LoadOptions(write("neg.yaml", "max_size: -1\n"))
	assert.Error(t, err)

	_, err = LoadOptions(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	for in, e := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		a, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, e, a, in)
	}
}
