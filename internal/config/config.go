// Package config handles spktool configuration loading and management.
package config

import "github.com/Faultbox/cobalt-spk/pkg/spk"

// Config holds all tool settings.
type Config struct {
	Limits  LimitsConfig  `yaml:"limits"`
	Export  ExportConfig  `yaml:"export"`
	Preview PreviewConfig `yaml:"preview"`
	Packer  PackerConfig  `yaml:"packer"`
	Logging LoggingConfig `yaml:"logging"`
}

// LimitsConfig bounds what decoding a package may allocate.
type LimitsConfig struct {
	MaxTextureSize uint32 `yaml:"max_texture_size"` // 0 = unlimited
	MaxTextures    uint32 `yaml:"max_textures"`
	MaxRecords     uint32 `yaml:"max_records"`
}

// ExportConfig holds texture export settings.
type ExportConfig struct {
	JPEGQuality int `yaml:"jpeg_quality"`
}

// PreviewConfig holds terminal preview settings.
type PreviewConfig struct {
	Mode    string `yaml:"mode"` // auto, ansi, ascii
	MaxSize uint   `yaml:"max_size"`
}

// PackerConfig holds settings for building packages from list files.
type PackerConfig struct {
	Format       string `yaml:"format"` // rgb, rgba, a
	DefaultDelay int32  `yaml:"default_delay"`
	Workers      int    `yaml:"workers"`
	ImageIDBase  uint32 `yaml:"image_id_base"`
	BundleIDBase uint32 `yaml:"bundle_id_base"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxTextureSize: 8192,
			MaxTextures:    256,
			MaxRecords:     1 << 20,
		},
		Export: ExportConfig{
			JPEGQuality: 90,
		},
		Preview: PreviewConfig{
			Mode:    "auto",
			MaxSize: 64,
		},
		Packer: PackerConfig{
			Format:       "rgba",
			DefaultDelay: 100,
			Workers:      4,
			ImageIDBase:  spk.BaseIDImages,
			BundleIDBase: spk.BaseIDBundles,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DecodeLimits converts the limits section for the codec.
func (l LimitsConfig) DecodeLimits() spk.Limits {
	return spk.Limits{
		MaxTextureSize: l.MaxTextureSize,
		MaxTextures:    l.MaxTextures,
		MaxRecords:     l.MaxRecords,
	}
}
