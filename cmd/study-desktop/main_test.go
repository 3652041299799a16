package main

import (
	"os"
	"path/filepath"
	"testing"

	"study-desktop/internal/config"
	"study-desktop/internal/launcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func scriptFor(cfg config.Config) string {
	return launcher.StartupCommand(launcher.ResolveBase(cfg.HomeDir, cfg.FallbackHome), cfg.ScriptPath)
}

func TestLoadConfigHomeScenarios(t *testing.T) {
	noFile := filepath.Join(t.TempDir(), "missing.toml")

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"home set", map[string]string{"HOME": "/home/alice"}, "/home/alice/apps/Study/start_services.sh"},
		{"home empty", map[string]string{"HOME": ""}, "/home/ryan/apps/Study/start_services.sh"},
		{"home unset", map[string]string{}, "/home/ryan/apps/Study/start_services.sh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig([]string{"--config", noFile}, envLookup(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, scriptFor(cfg))
		})
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("fallback_home = \"/from/file\"\nmode = \"direct\"\n"), 0o644))

	env := map[string]string{
		"STUDY_CONFIG":        path,
		"STUDY_FALLBACK_HOME": "/from/env",
	}

	cfg, err := loadConfig(nil, envLookup(env))
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.FallbackHome)
	assert.Equal(t, config.ModeDirect, cfg.Mode)

	cfg, err = loadConfig([]string{"--fallback-home", "/from/flag"}, envLookup(env))
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.FallbackHome)
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	noFile := filepath.Join(t.TempDir(), "missing.toml")
	_, err := loadConfig([]string{"--config", noFile, "--mode", "fork"}, envLookup(nil))
	assert.Error(t, err)
}

func TestLaunchSummary(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"backend": "not attempted"}, launchSummary(nil))

	ok := launchSummary(&launcher.Result{Script: "/home/alice/apps/Study/start_services.sh", PID: 42})
	assert.Equal(t, "launched", ok["backend"])
	assert.Equal(t, 42, ok["backend_pid"])

	failed := launchSummary(&launcher.Result{Script: "/nowhere/start_services.sh", Err: os.ErrNotExist})
	assert.Equal(t, "launch failed", failed["backend"])
	assert.Equal(t, os.ErrNotExist.Error(), failed["launch_error"])
	assert.NotContains(t, failed, "backend_pid")
}
