// spktool is a CLI utility for working with Cobalt sprite packages.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/cobalt-spk/internal/config"
	"github.com/Faultbox/cobalt-spk/internal/logger"
	"github.com/Faultbox/cobalt-spk/pkg/spk"
)

var cfg *config.Config

func main() {
	config.ParseFlags()

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "list", "ls":
		cmdList(args)
	case "showtex":
		cmdShowTex(args)
	case "extracttex":
		cmdExtractTex(args)
	case "showanim":
		cmdShowAnim(args)
	case "pack":
		cmdPack(args)
	case "verify":
		cmdVerify(args)
	case "initconfig":
		cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`spktool - Cobalt sprite package utility

Usage:
  spktool [flags] <command> [args]

Commands:
  list <file.spk>                      List the contents of a package
  showtex <file.spk> <texid>           Preview a texture in the terminal
  extracttex <file.spk> <texid> <out>  Export a texture (type from extension)
  showanim <file.spk> <anim>           Show the keyframes of an animation
  pack <file.list> <out.spk>           Build a package from a list file
  verify <file.spk>                    Decode, validate and check canonical encoding
  initconfig [path]                    Write the effective config as YAML

Flags:
  -config <path>            Config file (default ./spktool.yaml, then user config dir)
  -debug                    Debug logging
  -log-file <path>          Also log to a rotated file
  -max-texture-size <n>     Reject packages with larger textures
  -workers <n>              Texture loading workers for pack
  -format <rgb|rgba|a>      Texture format for pack

Examples:
  spktool list hero.spk
  spktool extracttex hero.spk 0 hero0.png
  spktool showanim hero.spk walk
  spktool -format rgb pack sprites.list hero.spk`)
}

// openPackage decodes path with the configured limits. Duplicate names are
// logged: the format keeps the last record silently.
func openPackage(path string) (*spk.Package, error) {
	opts := spk.DecodeOptions{
		Limits: cfg.Limits.DecodeLimits(),
		OnDuplicate: func(section, name string) {
			logger.Warn("duplicate name overwritten",
				zap.String("file", path),
				zap.String("section", section),
				zap.String("name", name))
		},
	}
	p, err := spk.ParseFile(path, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("package decoded",
		zap.String("file", path),
		zap.Int("textures", len(p.Textures)),
		zap.Int("images", len(p.Images)),
		zap.Int("bundles", len(p.Bundles)),
		zap.Int("anims", len(p.Anims)))
	return p, nil
}

func mustOpen(path string) *spk.Package {
	p, err := openPackage(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return p
}
