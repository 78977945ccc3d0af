package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phonemouse.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "8900", cfg.PIN)
	assert.Equal(t, 5000, cfg.Port)
	assert.True(t, cfg.RealInput)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, `
pin = "1111"
port = 6000
host = "127.0.0.1"
stun_servers = ["stun:a.example:3478"]
`)
	vars := env(map[string]string{
		"MOUSE_PIN":        "2222",
		"MOUSE_REAL_INPUT": "no",
		"MOUSE_PORT":       "not-a-number",
	})

	cfg, err := Load([]string{"--config", path, "--port", "7000"}, vars)
	require.NoError(t, err)

	assert.Equal(t, "2222", cfg.PIN, "env beats file")
	assert.Equal(t, 7000, cfg.Port, "flag beats file")
	assert.Equal(t, "127.0.0.1", cfg.Host, "file beats default")
	assert.False(t, cfg.RealInput)
	assert.Equal(t, []string{"stun:a.example:3478"}, cfg.STUNServers)
	assert.True(t, cfg.Advertise, "untouched keys keep defaults")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	ApplyEnv(&cfg, env(map[string]string{
		"MOUSE_HOST":        "::1",
		"MOUSE_PORT":        "5050",
		"MOUSE_ADVERTISE":   "0",
		"MOUSE_STATIC_PAGE": "/srv/client.html",
		"MOUSE_STUN":        "stun:a:1, ,stun:b:2",
		"MOUSE_LOG_LEVEL":   "debug",
	}))
	assert.Equal(t, "::1", cfg.Host)
	assert.Equal(t, 5050, cfg.Port)
	assert.False(t, cfg.Advertise)
	assert.Equal(t, "/srv/client.html", cfg.StaticPage)
	assert.Equal(t, []string{"stun:a:1", "stun:b:2"}, cfg.STUNServers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		vars    map[string]string
		wantErr error
	}{
		{name: "empty pin", args: []string{"--pin", " "}, wantErr: ErrEmptyPIN},
		{name: "port too large", vars: map[string]string{"MOUSE_PORT": "70000"}, wantErr: ErrBadPort},
		{name: "help", args: []string{"--help"}, wantErr: pflag.ErrHelp},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.args, env(tc.vars))
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "absent.toml")}, env(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config load failed")
}

func TestLoadRejectsPositionalArgs(t *testing.T) {
	_, err := Load([]string{"extra"}, env(nil))
	assert.Error(t, err)
}
