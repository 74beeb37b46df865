package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/pcm"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. BACKLIGHT_SERVER_PORT
const EnvPrefix = "BACKLIGHT_"

// PathEnv names the variable holding the config file path
const PathEnv = EnvPrefix + "CONFIG"

// DefaultPath is read when PathEnv is unset; a missing file is not an error
const DefaultPath = "config.yaml"

// Config holds application configuration
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Recorder   RecorderConfig   `koanf:"recorder"`
	Storage    StorageConfig    `koanf:"storage"`
	Source     SourceConfig     `koanf:"source"`
	Backlight  BacklightConfig  `koanf:"backlight"`
	Flash      FlashConfig      `koanf:"flash"`
	Classifier ClassifierConfig `koanf:"classifier"`
	TLS        TLSConfig        `koanf:"tls"`
	Remote     RemoteConfig     `koanf:"remote"`
	Log        LogConfig        `koanf:"log"`
}

// ServerConfig holds the gRPC listener settings
type ServerConfig struct {
	Port string `koanf:"port"`
}

// RecorderConfig holds the background loop settings
type RecorderConfig struct {
	Mode      string        `koanf:"mode"` // "audio" | "flash"
	Interval  time.Duration `koanf:"interval"`
	Retention time.Duration `koanf:"retention"`
}

// StorageConfig holds repository settings
type StorageConfig struct {
	Type string `koanf:"type"` // "memory" | "sqlite"
	Path string `koanf:"path"` // SQLite database file path
}

// SourceConfig holds audio source settings
type SourceConfig struct {
	Type      string  `koanf:"type"` // "mock" | "sequence" | "pcm"
	Base      float64 `koanf:"base"`
	Variation float64 `koanf:"variation"`
	Path      string  `koanf:"path"`     // s16le stream, "-" for stdin
	Channels  int     `koanf:"channels"` // interleaved channels per frame
	Window    int     `koanf:"window"`   // mono samples per RMS window
}

// BacklightConfig holds backlight sink settings
type BacklightConfig struct {
	Type       string `koanf:"type"` // "mock" | "serial"
	Port       string `koanf:"port"` // serial device path
	Baud       int    `koanf:"baud"`
	Resolution uint   `koanf:"resolution"` // LEDC timer bits
}

// RuleConfig is one threshold rule
type RuleConfig struct {
	Above float64 `koanf:"above"`
	Level int     `koanf:"level"`
}

// ClassifierConfig holds the brightness rule chain
type ClassifierConfig struct {
	Rules    []RuleConfig `koanf:"rules"`
	Fallback int          `koanf:"fallback"`
}

// TLSConfig holds mTLS file paths
type TLSConfig struct {
	Cert string `koanf:"cert"` // path to this service's certificate
	Key  string `koanf:"key"`  // path to this service's private key
	CA   string `koanf:"ca"`   // path to the CA certificate
}

// FlashConfig times the flash ramp used when recorder.mode is "flash"
type FlashConfig struct {
	Step  time.Duration `koanf:"step"`  // hold time per level
	Pause time.Duration `koanf:"pause"` // wait between ramps
}

// RemoteConfig points flashtest at a running service
type RemoteConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `koanf:"level"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "50051"},
		Recorder: RecorderConfig{Mode: "audio", Interval: 200 * time.Millisecond, Retention: 30 * 24 * time.Hour},
		Storage:  StorageConfig{Type: "memory", Path: "./backlight.db"},
		Source: SourceConfig{
			Type:      "mock",
			Base:      0.15,
			Variation: 0.15,
			Path:      "-",
			Channels:  pcm.DefaultChannels,
			Window:    pcm.DefaultWindow,
		},
		Backlight: BacklightConfig{
			Type:       "mock",
			Baud:       115200,
			Resolution: domain.DefaultDutyResolution,
		},
		Flash:      FlashConfig{Step: 100 * time.Millisecond, Pause: time.Second},
		Classifier: defaultClassifierConfig(),
		Log:        LogConfig{Level: "info"},
	}
}

// Load reads the file named by BACKLIGHT_CONFIG (or config.yaml) over the
// defaults, then applies BACKLIGHT_* environment overrides.
func Load() (*Config, error) {
	path := os.Getenv(PathEnv)
	required := path != ""
	if !required {
		path = DefaultPath
	}
	return LoadFile(path, required)
}

// LoadFile is Load with an explicit path. When required is false a missing
// file is skipped.
func LoadFile(path string, required bool) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil || required {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	// slices decode in place, so configured rules must not land on the defaults
	cfg.Classifier = ClassifierConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	defaults := defaultClassifierConfig()
	if !k.Exists("classifier.rules") {
		cfg.Classifier.Rules = defaults.Rules
	}
	if !k.Exists("classifier.fallback") {
		cfg.Classifier.Fallback = defaults.Fallback
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey maps BACKLIGHT_STORAGE_PATH to storage.path
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

// Validate checks enum values and intervals
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("storage.type: unknown value %q", c.Storage.Type)
	}

	switch c.Source.Type {
	case "mock", "sequence":
	case "pcm":
		if c.Source.Path == "" {
			return errors.New("source.path: required for pcm source")
		}
		if c.Source.Channels <= 0 || c.Source.Window < 2 {
			return fmt.Errorf("source: pcm needs positive channels and a window of at least 2, got %d and %d",
				c.Source.Channels, c.Source.Window)
		}
	default:
		return fmt.Errorf("source.type: unknown value %q", c.Source.Type)
	}

	switch c.Backlight.Type {
	case "mock":
	case "serial":
		if c.Backlight.Port == "" {
			return errors.New("backlight.port: required for serial backlight")
		}
	default:
		return fmt.Errorf("backlight.type: unknown value %q", c.Backlight.Type)
	}

	switch c.Recorder.Mode {
	case "audio":
	case "flash":
		if c.Flash.Step <= 0 || c.Flash.Pause < 0 {
			return fmt.Errorf("flash: step must be positive and pause not negative, got %s and %s",
				c.Flash.Step, c.Flash.Pause)
		}
	default:
		return fmt.Errorf("recorder.mode: unknown value %q", c.Recorder.Mode)
	}

	if c.Recorder.Interval <= 0 {
		return fmt.Errorf("recorder.interval: must be positive, got %s", c.Recorder.Interval)
	}
	if c.Recorder.Retention < 0 {
		return fmt.Errorf("recorder.retention: must not be negative, got %s", c.Recorder.Retention)
	}

	if c.Server.Port == "" {
		return errors.New("server.port: required")
	}

	if (c.TLS.Cert == "") != (c.TLS.Key == "") || (c.TLS.Cert != "" && c.TLS.CA == "") {
		return errors.New("tls: cert, key and ca must be set together")
	}

	if _, err := c.Classifier.Build(); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}

	return nil
}

func defaultClassifierConfig() ClassifierConfig {
	c := domain.DefaultClassifier()
	rules := make([]RuleConfig, 0, len(c.Rules()))
	for _, r := range c.Rules() {
		rules = append(rules, RuleConfig{Above: r.Above, Level: int(r.Level)})
	}
	return ClassifierConfig{Rules: rules, Fallback: int(c.Fallback())}
}

// Build turns the configured rules into a classifier
func (c ClassifierConfig) Build() (*domain.Classifier, error) {
	rules := make([]domain.ThresholdRule, len(c.Rules))
	for i, r := range c.Rules {
		rules[i] = domain.ThresholdRule{Above: r.Above, Level: domain.BrightnessLevel(r.Level)}
	}
	return domain.NewClassifier(rules, domain.BrightnessLevel(c.Fallback))
}
