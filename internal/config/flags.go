package config

import "flag"

var (
	flagConfig         = flag.String("config", "", "Path to config file")
	flagDebug          = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile        = flag.String("log-file", "", "Write logs to this file")
	flagMaxTextureSize = flag.Uint("max-texture-size", 0, "Reject packages with larger textures")
	flagWorkers        = flag.Int("workers", 0, "Texture loading workers for pack")
	flagFormat         = flag.String("format", "", "Texture format for pack (rgb, rgba, a)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagMaxTextureSize > 0 {
		cfg.Limits.MaxTextureSize = uint32(*flagMaxTextureSize)
	}
	if *flagWorkers > 0 {
		cfg.Packer.Workers = *flagWorkers
	}
	if *flagFormat != "" {
		cfg.Packer.Format = *flagFormat
	}
}
