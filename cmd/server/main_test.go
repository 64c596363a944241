package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/geomic-server/internal/config"
)

func runConfigCommand(t *testing.T, args ...string) config.Config {
	t.Helper()
	t.Setenv("PORT", "")
	t.Cleanup(func() {
		rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		cfgFile = ""
		overrides = config.Config{}
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"config"}, args...))
	require.NoError(t, rootCmd.Execute())

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &cfg))
	return cfg
}

func writeConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`admin_grace: 30s
participant_grace: 20s
require_approval: true
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))
	return path
}

func TestConfigCommandKeepsFileValues(t *testing.T) {
	cfg := runConfigCommand(t, "--config", writeConfigFile(t))

	assert.Equal(t, 30*time.Second, cfg.AdminGrace)
	assert.Equal(t, 20*time.Second, cfg.ParticipantGrace)
	assert.True(t, cfg.RequireApproval)
}

func TestExplicitZeroFlagsOverrideFile(t *testing.T) {
	cfg := runConfigCommand(t,
		"--config", writeConfigFile(t),
		"--admin-grace", "0",
		"--participant-grace", "0s",
		"--require-approval=false",
		"--addr", ":4100",
	)

	assert.Zero(t, cfg.AdminGrace)
	assert.Zero(t, cfg.ParticipantGrace)
	assert.False(t, cfg.RequireApproval)
	assert.Equal(t, ":4100", cfg.Addr)
}
