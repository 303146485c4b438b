package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all polychain settings.
const envPrefix = "POLYCHAIN"

// newViper builds a pre-configured viper instance: YAML file type,
// POLYCHAIN_ env prefix, automatic env binding, and a key replacer mapping
// "." to "_" so "server.port" resolves to POLYCHAIN_SERVER_PORT.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Register every key with a zero default so env-only loading sees them;
	// AutomaticEnv resolves only keys viper already knows about. Real
	// defaults are applied by ApplyDefaults after unmarshalling.
	for _, key := range []string{
		"server.host", "server.port", "server.read_timeout",
		"server.write_timeout", "server.idle_timeout",
		"server.shutdown_timeout", "server.max_upload_bytes",
		"log.level", "log.format", "log.output_paths", "log.error_output_paths",
		"generator.default_bond_angle", "generator.default_torsion_angle",
		"generator.default_bond_length", "generator.default_element",
		"generator.max_units",
		"repeater.offset_x", "repeater.offset_y", "repeater.offset_z",
		"repeater.max_units",
		"storage.output_dir", "storage.scratch_dir", "storage.keep_scratch",
		"metrics.enabled", "metrics.namespace",
	} {
		v.SetDefault(key, nil)
	}
	return v
}

// Load reads the YAML file at configPath, merges POLYCHAIN_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from POLYCHAIN_* environment variables
// plus defaults; no config file required. Naming convention:
//
//	POLYCHAIN_<SECTION>_<FIELD>   e.g. POLYCHAIN_SERVER_PORT
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	// Environment variables arrive as strings; weak typing lets "7070"
	// decode into an int port and "true" into a bool.
	weakDecode := func(dc *mapstructure.DecoderConfig) { dc.WeaklyTypedInput = true }
	if err := v.Unmarshal(cfg, weakDecode); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the freshly parsed
// Config whenever the file changes on disk. It is intended for hot-reloading
// non-critical settings such as log level and generator defaults. Changes
// that fail to parse or validate are dropped without invoking onChange, so
// a bad edit cannot push the application into a broken state.
//
// Watch is non-blocking; the file watcher runs on a viper-managed goroutine.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Callers are expected to have called Load first; an unreadable file
	// here just means onChange never fires.
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad wraps Load and panics on error. For use in main() where a config
// failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
