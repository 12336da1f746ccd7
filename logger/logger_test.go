package logger_test

import (
	"fmt"
	"testing"

	"github.com/lsphost/lsphost/logger"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevel(t *testing.T) {
	old := logger.GetLevel()
	defer logger.SetLevel(old)

	var lines []string
	collect := func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	}
	for _, lv := range []logger.Level{logger.LevelDebug, logger.LevelInfo, logger.LevelWarn, logger.LevelError} {
		logger.SetFunc(lv, collect)
	}
	logger.SetFunc(logger.LevelDebug, nil)

	logger.SetLevel(logger.LevelWarn)
	assert.False(t, logger.IsDebugEnabled())
	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Warnf("warn %d", 3)
	logger.Errorf("error %d", 4)
	assert.Equal(t, []string{"warn 3", "error 4"}, lines)

	logger.SetLevel(logger.LevelDebug)
	assert.True(t, logger.IsDebugEnabled())
	assert.Equal(t, "DEBUG", logger.GetLevel().String())
	assert.Equal(t, "UNKNOWN", logger.Level(9).String())
}

func TestUseZap(t *testing.T) {
	old := logger.GetLevel()
	defer logger.SetLevel(old)

	core, logs := observer.New(zap.DebugLevel)
	logger.UseZap(zap.New(core))
	logger.SetLevel(logger.LevelDebug)
	logger.Debugf("hello %s", "zap")
	logger.Errorf("oops")
	entries := logs.AllUntimed()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "hello zap", entries[0].Message)
		assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	}
}
