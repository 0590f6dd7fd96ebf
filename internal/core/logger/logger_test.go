package logger

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-market/internal/core/config"
)

func TestNewWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := New(config.Log{
		Level: "debug",
		JSON:  true,
		File:  config.LogFile{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("order placed")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"order placed"`)
}

func TestNewFallsBackToInfo(t *testing.T) {
	l, cleanup := New(config.Log{Level: "chatty"})
	defer cleanup()
	assert.False(t, l.Core().Enabled(-1)) // debug
	assert.True(t, l.Core().Enabled(0))   // info
}

func TestRedirectStdLog(t *testing.T) {
	file := filepath.Join(t.TempDir(), "std.log")
	l, cleanup := New(config.Log{Level: "info", JSON: true, File: config.LogFile{Enable: true, Filename: file}})
	undo := RedirectStdLog(l)
	log.Print("from std log")
	undo()
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "from std log")
}
