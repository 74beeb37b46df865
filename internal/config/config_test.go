package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_MissingOptionalUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, "50051", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, "mock", cfg.Backlight.Type)
	assert.Equal(t, uint(domain.DefaultDutyResolution), cfg.Backlight.Resolution)
	assert.Equal(t, 30*24*time.Hour, cfg.Recorder.Retention)

	c, err := cfg.Classifier.Build()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultClassifier().Levels(), c.Levels())
}

func TestLoadFile_MissingRequired(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), true)
	assert.Error(t, err)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "6000"
recorder:
  interval: 1s
  retention: 48h
storage:
  type: sqlite
  path: /tmp/bl.db
backlight:
  type: serial
  port: /dev/ttyUSB0
  resolution: 10
classifier:
  rules:
    - above: 0.5
      level: 90
    - above: 0.2
      level: 50
  fallback: 5
`)

	cfg, err := LoadFile(path, true)
	require.NoError(t, err)

	assert.Equal(t, "6000", cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Recorder.Interval)
	assert.Equal(t, 48*time.Hour, cfg.Recorder.Retention)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Backlight.Port)
	assert.Equal(t, uint(10), cfg.Backlight.Resolution)
	assert.Equal(t, 115200, cfg.Backlight.Baud)

	require.Len(t, cfg.Classifier.Rules, 2)
	c, err := cfg.Classifier.Build()
	require.NoError(t, err)
	assert.Equal(t, domain.BrightnessLevel(50), c.Classify(0.3))
	assert.Equal(t, domain.BrightnessLevel(5), c.Classify(0.2))
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"6000\"\n")

	t.Setenv("BACKLIGHT_SERVER_PORT", "7000")
	t.Setenv("BACKLIGHT_STORAGE_TYPE", "sqlite")
	t.Setenv("BACKLIGHT_SOURCE_BASE", "0.4")
	t.Setenv("BACKLIGHT_RECORDER_INTERVAL", "2s")
	t.Setenv("BACKLIGHT_LOG_LEVEL", "debug")

	cfg, err := LoadFile(path, true)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, 0.4, cfg.Source.Base)
	assert.Equal(t, 2*time.Second, cfg.Recorder.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_UsesPathEnv(t *testing.T) {
	path := writeConfig(t, "storage:\n  type: sqlite\n")
	t.Setenv(PathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
}

func TestLoadFile_FallbackDefaultsWhenOnlyRulesGiven(t *testing.T) {
	path := writeConfig(t, `
classifier:
  rules:
    - above: 0.5
      level: 80
`)

	cfg, err := LoadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, int(domain.BrightnessDim), cfg.Classifier.Fallback)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown storage", func(c *Config) { c.Storage.Type = "postgres" }},
		{"unknown source", func(c *Config) { c.Source.Type = "alsa" }},
		{"unknown backlight", func(c *Config) { c.Backlight.Type = "i2c" }},
		{"serial without port", func(c *Config) { c.Backlight.Type = "serial" }},
		{"zero interval", func(c *Config) { c.Recorder.Interval = 0 }},
		{"negative retention", func(c *Config) { c.Recorder.Retention = -time.Hour }},
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"cert without key", func(c *Config) { c.TLS.Cert = "a.pem" }},
		{"cert and key without ca", func(c *Config) { c.TLS.Cert, c.TLS.Key = "a.pem", "a.key" }},
		{"unknown recorder mode", func(c *Config) { c.Recorder.Mode = "strobe" }},
		{"flash without step", func(c *Config) { c.Recorder.Mode, c.Flash.Step = "flash", 0 }},
		{"flash negative pause", func(c *Config) { c.Recorder.Mode, c.Flash.Pause = "flash", -time.Second }},
		{"pcm without path", func(c *Config) { c.Source.Type, c.Source.Path = "pcm", "" }},
		{"pcm zero channels", func(c *Config) { c.Source.Type, c.Source.Channels = "pcm", 0 }},
		{"pcm tiny window", func(c *Config) { c.Source.Type, c.Source.Window = "pcm", 1 }},
		{"ascending rules", func(c *Config) {
			c.Classifier.Rules = []RuleConfig{{Above: 0.1, Level: 40}, {Above: 0.3, Level: 100}}
		}},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_RulesErrorWrapsDomain(t *testing.T) {
	cfg := Default()
	cfg.Classifier.Fallback = 200

	assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidRules)
}

func TestLoadFile_FlashAndPCM(t *testing.T) {
	path := writeConfig(t, `
recorder:
  mode: flash
flash:
  step: 50ms
source:
  type: pcm
  path: /tmp/mic.raw
  channels: 1
`)

	cfg, err := LoadFile(path, true)
	require.NoError(t, err)

	assert.Equal(t, "flash", cfg.Recorder.Mode)
	assert.Equal(t, 50*time.Millisecond, cfg.Flash.Step)
	assert.Equal(t, time.Second, cfg.Flash.Pause)
	assert.Equal(t, "pcm", cfg.Source.Type)
	assert.Equal(t, "/tmp/mic.raw", cfg.Source.Path)
	assert.Equal(t, 1, cfg.Source.Channels)
	assert.Equal(t, 512, cfg.Source.Window)
}

func TestDefault_AudioMode(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "audio", cfg.Recorder.Mode)
	assert.Equal(t, 100*time.Millisecond, cfg.Flash.Step)
	assert.Equal(t, 2, cfg.Source.Channels)
	assert.Equal(t, "-", cfg.Source.Path)
}
