package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/cobalt-spk/pkg/spk"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test limits defaults
	if cfg.Limits.MaxTextureSize != 8192 {
		t.Errorf("expected max texture size 8192, got %d", cfg.Limits.MaxTextureSize)
	}
	if cfg.Limits.MaxTextures != 256 {
		t.Errorf("expected max textures 256, got %d", cfg.Limits.MaxTextures)
	}

	// Test packer defaults
	if cfg.Packer.Format != "rgba" {
		t.Errorf("expected packer format 'rgba', got %s", cfg.Packer.Format)
	}
	if cfg.Packer.BundleIDBase != spk.BaseIDBundles {
		t.Errorf("expected bundle id base %d, got %d", spk.BaseIDBundles, cfg.Packer.BundleIDBase)
	}
	if cfg.Packer.DefaultDelay != 100 {
		t.Errorf("expected default delay 100, got %d", cfg.Packer.DefaultDelay)
	}

	// Test preview defaults
	if cfg.Preview.Mode != "auto" {
		t.Errorf("expected preview mode 'auto', got %s", cfg.Preview.Mode)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestDecodeLimits(t *testing.T) {
	l := LimitsConfig{MaxTextureSize: 1024, MaxTextures: 8, MaxRecords: 99}.DecodeLimits()
	want := spk.Limits{MaxTextureSize: 1024, MaxTextures: 8, MaxRecords: 99}
	if l != want {
		t.Errorf("got %+v, expected %+v", l, want)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
limits:
  max_texture_size: 2048
  max_textures: 16
  max_records: 5000

export:
  jpeg_quality: 75

preview:
  mode: ascii
  max_size: 32

packer:
  format: rgb
  default_delay: 80
  workers: 2
  image_id_base: 10
  bundle_id_base: 500

logging:
  level: "debug"
  log_file: "spktool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Limits.MaxTextureSize != 2048 {
		t.Errorf("expected max texture size 2048, got %d", cfg.Limits.MaxTextureSize)
	}
	if cfg.Limits.MaxRecords != 5000 {
		t.Errorf("expected max records 5000, got %d", cfg.Limits.MaxRecords)
	}
	if cfg.Export.JPEGQuality != 75 {
		t.Errorf("expected jpeg quality 75, got %d", cfg.Export.JPEGQuality)
	}
	if cfg.Preview.Mode != "ascii" || cfg.Preview.MaxSize != 32 {
		t.Errorf("unexpected preview config %+v", cfg.Preview)
	}
	if cfg.Packer.Format != "rgb" || cfg.Packer.Workers != 2 || cfg.Packer.BundleIDBase != 500 {
		t.Errorf("unexpected packer config %+v", cfg.Packer)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "spktool.log" {
		t.Errorf("expected log file 'spktool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	if err := os.WriteFile(configPath, []byte("packer:\n  workers: 9\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Packer.Workers != 9 {
		t.Errorf("expected workers 9, got %d", cfg.Packer.Workers)
	}
	// Untouched fields keep their defaults.
	if cfg.Packer.Format != "rgba" {
		t.Errorf("expected default format 'rgba', got %s", cfg.Packer.Format)
	}
	if cfg.Limits.MaxTextures != 256 {
		t.Errorf("expected default max textures 256, got %d", cfg.Limits.MaxTextures)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
limits:
  max_textures: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/spktool.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("preview:\n  mode: ansi\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find spktool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "out.log" },
			verify: func(cfg *Config) {
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file out.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
		{
			name:  "max texture size flag",
			setup: func() { *flagMaxTextureSize = 512 },
			verify: func(cfg *Config) {
				if cfg.Limits.MaxTextureSize != 512 {
					t.Errorf("expected max texture size 512, got %d", cfg.Limits.MaxTextureSize)
				}
			},
			teardown: func() { *flagMaxTextureSize = 0 },
		},
		{
			name:  "workers and format flags",
			setup: func() { *flagWorkers = 16; *flagFormat = "a" },
			verify: func(cfg *Config) {
				if cfg.Packer.Workers != 16 {
					t.Errorf("expected workers 16, got %d", cfg.Packer.Workers)
				}
				if cfg.Packer.Format != "a" {
					t.Errorf("expected format 'a', got %s", cfg.Packer.Format)
				}
			},
			teardown: func() { *flagWorkers = 0; *flagFormat = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadFlagOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
packer:
  workers: 3
  format: rgb
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWorkers = 12
	defer func() {
		*flagConfig = ""
		*flagWorkers = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers should be from flag (12), not file (3)
	if cfg.Packer.Workers != 12 {
		t.Errorf("expected workers 12 from flag, got %d", cfg.Packer.Workers)
	}
	// Format should be from file since no flag override
	if cfg.Packer.Format != "rgb" {
		t.Errorf("expected format rgb from file, got %s", cfg.Packer.Format)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Preview.MaxSize = 128
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := &Config{}
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("reloaded config %+v, expected %+v", loaded, cfg)
	}
}
