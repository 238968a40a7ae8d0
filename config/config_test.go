package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "操作失败"
	testErr := errors.New("internal database error")

	// nil err 返回 fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release 模式返回 fallback，不暴露错误详情
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// debug 模式返回 err.Error()
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// GlobalConfig 为 nil 时视为开发环境
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 80, cfg.Budget.DefaultAlertPercentage)
	assert.Equal(t, 7, cfg.Budget.ReminderLookaheadDays)
	assert.Equal(t, time.Local, cfg.Budget.Location)
	assert.Same(t, cfg, GlobalConfig)
}

func TestLoadConfig_ExternalOverride(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("database:\n  driver: postgres\n  port: \"5432\"\nbudget:\n  reminder_lookahead_days: 3\n  timezone: UTC\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 3, cfg.Budget.ReminderLookaheadDays)
	assert.Equal(t, time.UTC, cfg.Budget.Location)
	// 未覆盖的字段保留内置默认值
	assert.Equal(t, "utf8mb4", cfg.Database.Charset)
}

func TestNormalize(t *testing.T) {
	cfg := &Config{Budget: BudgetConfig{DefaultAlertPercentage: 150}}
	require.NoError(t, cfg.normalize())
	assert.Equal(t, 80, cfg.Budget.DefaultAlertPercentage)
	assert.Equal(t, 7, cfg.Budget.ReminderLookaheadDays)

	bad := &Config{Database: DatabaseConfig{Driver: "oracle"}}
	assert.Error(t, bad.normalize())

	badTZ := &Config{Budget: BudgetConfig{Timezone: "Mars/Olympus"}}
	assert.Error(t, badTZ.normalize())
}
