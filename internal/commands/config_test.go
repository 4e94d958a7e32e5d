package commands

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/sahayi/internal/config"
)

func TestConfigCommand(t *testing.T) {
	cmd := NewConfigCmd(NewDependencies())

	assert.Equal(t, "config", cmd.Use)
	names := []string{}
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
		assert.Equal(t, "true", sub.Annotations[annotationNoSetup], sub.Name())
	}
	assert.ElementsMatch(t, []string{"show", "path", "set", "themes"}, names)
}

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t)
	env.deps.LoadConfig = config.LoadConfig

	require.NoError(t, env.run("config", "show"))

	var cfg config.Config
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &cfg))
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestConfigShow_AppliesEnv(t *testing.T) {
	env := newTestEnv(t)
	env.deps.LoadConfig = config.LoadConfig
	t.Setenv(config.EnvAPIURL, "http://from-env:9000")

	require.NoError(t, env.run("config"))
	assert.Contains(t, env.stdout.String(), `"api_url": "http://from-env:9000"`)
}

func TestConfigCommand_SkipsClientSetup(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Client = nil
	env.deps.LoadConfig = config.LoadConfig

	// An invalid URL would make client setup fail
	t.Setenv(config.EnvAPIURL, "not a url")

	require.NoError(t, env.run("config", "path"))
	assert.Nil(t, env.deps.Client)
}

func TestConfigPath(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("config", "path"))

	want, err := config.GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, want+"\n", env.stdout.String())
	assert.Equal(t, "config.json", filepath.Base(want))
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, cfg config.Config)
	}{
		{
			name: "api url", key: "api_url", value: "http://localhost:9000/",
			check: func(t *testing.T, cfg config.Config) { assert.Equal(t, "http://localhost:9000", cfg.APIURL) },
		},
		{
			name: "timeout", key: "timeout_seconds", value: "30",
			check: func(t *testing.T, cfg config.Config) { assert.Equal(t, 30, cfg.TimeoutSeconds) },
		},
		{
			name: "clipboard", key: "copy_to_clipboard", value: "true",
			check: func(t *testing.T, cfg config.Config) { assert.True(t, cfg.CopyToClipboard) },
		},
		{
			name: "tui theme", key: "tui_theme", value: "nord",
			check: func(t *testing.T, cfg config.Config) { assert.Equal(t, "nord", cfg.TUITheme) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.deps.LoadConfig = config.LoadConfig

			require.NoError(t, env.run("config", "set", tt.key, tt.value))
			assert.Contains(t, env.stdout.String(), tt.key+" = ")

			cfg, err := config.LoadConfig()
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestConfigSet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown key", args: []string{"nope", "x"}, wantErr: "unknown config key"},
		{name: "bad timeout", args: []string{"timeout_seconds", "soon"}, wantErr: "must be an integer"},
		{name: "bad url", args: []string{"api_url", "ftp://x"}, wantErr: "invalid api_url"},
		{name: "unknown theme", args: []string{"tui_theme", "dracula"}, wantErr: "unknown tui_theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.deps.LoadConfig = config.LoadConfig

			err := env.run(append([]string{"config", "set"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			path, _ := config.GetConfigPath()
			assert.NoFileExists(t, path, "a rejected value must not be saved")
		})
	}
}

func TestConfigSet_LoadFailure(t *testing.T) {
	env := newTestEnv(t)
	env.deps.LoadConfig = func() (config.Config, error) {
		return config.Config{}, errors.New("failed to parse config file")
	}

	err := env.run("config", "set", "timeout_seconds", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfigThemes(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("config", "themes"))

	out := env.stdout.String()
	assert.Contains(t, out, "MARKDOWN STYLE")
	assert.Contains(t, out, "CHAT THEME")
	assert.Contains(t, out, "teal")
	assert.Contains(t, out, "nord")
	assert.Contains(t, out, "notty")
}

func TestConfigCommand_MenuOnTTY(t *testing.T) {
	env := newTestEnv(t)
	env.deps.IsTTY = func() bool { return true }

	require.NoError(t, env.run("config"))

	require.Equal(t, 1, env.tui.settingsCalls)
	assert.Equal(t, config.DefaultConfig(), env.tui.settingsOpts.Config)
	assert.Equal(t, "config.json", filepath.Base(env.tui.settingsOpts.ConfigPath))
	assert.NotNil(t, env.tui.settingsOpts.Save)
	assert.Empty(t, env.stdout.String())
}

func TestConfigCommand_ShowWhenPiped(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("config"))
	assert.Zero(t, env.tui.settingsCalls)
	assert.Contains(t, env.stdout.String(), `"api_url"`)
}
