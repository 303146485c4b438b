// Package config defines the configuration structures for polychain and the
// viper-backed loading, defaulting, and validation logic. Only plain data
// types and validation live in this file; I/O is in loader.go.
package config

import (
	"fmt"
	"time"

	"github.com/polyforge/polychain/internal/domain/chain"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP API server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxUploadBytes caps the size of uploaded monomer files.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GeneratorConfig holds defaults and caps for the procedural chain builder.
// The defaults mirror the original interactive controls (120° bond angle,
// 1.5 length units, carbon).
type GeneratorConfig struct {
	DefaultBondAngle    float64 `mapstructure:"default_bond_angle"`
	DefaultTorsionAngle float64 `mapstructure:"default_torsion_angle"`
	DefaultBondLength   float64 `mapstructure:"default_bond_length"`
	DefaultElement      string  `mapstructure:"default_element"`

	// MaxUnits caps a single build request; the domain layer has no upper
	// bound of its own.
	MaxUnits int `mapstructure:"max_units"`
}

// RepeaterConfig holds the per-copy translation and cap for the monomer
// repeater.
type RepeaterConfig struct {
	OffsetX  float64 `mapstructure:"offset_x"`
	OffsetY  float64 `mapstructure:"offset_y"`
	OffsetZ  float64 `mapstructure:"offset_z"`
	MaxUnits int     `mapstructure:"max_units"`
}

// Offset returns the configured translation as a vector.
func (c RepeaterConfig) Offset() chain.Vec3 {
	return chain.Vec3{X: c.OffsetX, Y: c.OffsetY, Z: c.OffsetZ}
}

// StorageConfig holds document store locations.
type StorageConfig struct {
	// OutputDir is where generated XYZ documents are saved.
	OutputDir string `mapstructure:"output_dir"`

	// ScratchDir is where uploads are staged; empty means the OS temp dir.
	ScratchDir string `mapstructure:"scratch_dir"`

	// KeepScratch disables scratch-file cleanup, for debugging only.
	KeepScratch bool `mapstructure:"keep_scratch"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the root configuration object.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       logging.Config  `mapstructure:"log"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Repeater  RepeaterConfig  `mapstructure:"repeater"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// Validate checks the configuration for values that would make the
// application misbehave at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: server.max_upload_bytes must be positive")
	}
	if c.Generator.MaxUnits < 1 {
		return fmt.Errorf("config: generator.max_units must be >= 1")
	}
	if c.Repeater.MaxUnits < 1 {
		return fmt.Errorf("config: repeater.max_units must be >= 1")
	}
	if !chain.ValidElement(c.Generator.DefaultElement) {
		return fmt.Errorf("config: generator.default_element %q is not an element symbol", c.Generator.DefaultElement)
	}
	if c.Generator.DefaultBondLength <= 0 || c.Generator.DefaultBondLength > chain.MaxBondLength {
		return fmt.Errorf("config: generator.default_bond_length %g out of range", c.Generator.DefaultBondLength)
	}
	if c.Storage.OutputDir == "" {
		return fmt.Errorf("config: storage.output_dir must not be empty")
	}
	return nil
}
