package config

import "time"

// NewDefaultConfig returns a Config populated entirely with platform defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with platform defaults. Explicitly
// configured values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 8 << 20 // 8 MiB of XYZ text is a huge monomer
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Generator.DefaultBondAngle == 0 {
		cfg.Generator.DefaultBondAngle = 120
	}
	if cfg.Generator.DefaultBondLength == 0 {
		cfg.Generator.DefaultBondLength = 1.5
	}
	if cfg.Generator.DefaultElement == "" {
		cfg.Generator.DefaultElement = "C"
	}
	if cfg.Generator.MaxUnits == 0 {
		cfg.Generator.MaxUnits = 100000
	}

	if cfg.Repeater.OffsetX == 0 && cfg.Repeater.OffsetY == 0 && cfg.Repeater.OffsetZ == 0 {
		cfg.Repeater.OffsetZ = 3.0
	}
	if cfg.Repeater.MaxUnits == 0 {
		cfg.Repeater.MaxUnits = 10000
	}

	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = "./polychain-out"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "polychain"
	}
}
