package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesDailyFile(t *testing.T) {
	root := t.TempDir()
	log, err := New(root, false)
	require.NoError(t, err)
	log.Infow("hello", "k", "v")
	_ = log.Sync()

	entries, err := os.ReadDir(filepath.Join(root, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	b, err := os.ReadFile(filepath.Join(root, "logs", entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
}

func TestNewConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsole(&buf, false)
	log.Infow("quiet")
	log.Warnw("loud")
	_ = log.Sync()

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestFromContext(t *testing.T) {
	assert.Same(t, zap.S(), FromContext(context.Background()))

	l := zap.NewNop().Sugar()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
}
