package logger

import (
	"os"
	"path/filepath"
	"testing"

	"CivicPortal/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToRotatingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "portal.log")
	l := New(config.LogConfig{Level: "debug", File: file, MaxSizeMB: 1, JSON: true})
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("event_id", "e1").Info("活动创建成功")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event_id":"e1"`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l := New(config.LogConfig{Level: "verbose"})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}
