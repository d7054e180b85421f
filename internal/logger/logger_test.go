package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nkaewam/catalogctl/internal/config"
	"github.com/nkaewam/catalogctl/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogctl.log")
	cfg := &config.Config{Logger: config.Logger{Mode: "production", Level: "debug", FileEnable: true, Filename: path}}

	log, err := logger.ProvideLogger(cfg)
	require.NoError(t, err)
	log.Info("banner uploaded")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "banner uploaded")
}

func TestProvideLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := logger.ProvideLogger(&config.Config{Logger: config.Logger{Level: "loud"}})
	assert.Error(t, err)
}
