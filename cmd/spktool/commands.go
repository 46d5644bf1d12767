package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/cobalt-spk/internal/imageio"
	"github.com/Faultbox/cobalt-spk/internal/logger"
	"github.com/Faultbox/cobalt-spk/internal/packer"
	"github.com/Faultbox/cobalt-spk/internal/preview"
	"github.com/Faultbox/cobalt-spk/pkg/spk"
)

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	noColor := fs.Bool("no-color", false, "Disable colored headings")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: spktool list [-no-color] <file.spk>")
		os.Exit(1)
	}

	p := mustOpen(fs.Arg(0))
	printPackage(os.Stdout, p, !*noColor)
}

func cmdShowTex(args []string) {
	fs := flag.NewFlagSet("showtex", flag.ExitOnError)
	mode := fs.String("mode", "", "Preview mode: auto, ansi, ascii (default from config)")
	size := fs.Uint("size", 0, "Thumbnail size (default from config)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: spktool showtex [-mode m] [-size n] <file.spk> <texid>")
		os.Exit(1)
	}

	p := mustOpen(fs.Arg(0))
	tex := mustTexture(p, fs.Arg(1))

	opts := preview.Options{Mode: cfg.Preview.Mode, MaxSize: cfg.Preview.MaxSize}
	if *mode != "" {
		opts.Mode = *mode
	}
	if *size > 0 {
		opts.MaxSize = *size
	}

	if err := preview.Print(os.Stdout, tex.Image(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdExtractTex(args []string) {
	fs := flag.NewFlagSet("extracttex", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 3 {
		fmt.Fprintln(os.Stderr, "Usage: spktool extracttex <file.spk> <texid> <out>")
		os.Exit(1)
	}

	p := mustOpen(fs.Arg(0))
	tex := mustTexture(p, fs.Arg(1))
	out := fs.Arg(2)

	if err := imageio.Save(out, tex.Image(), imageio.Options{JPEGQuality: cfg.Export.JPEGQuality}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("texture extracted", zap.Int("id", tex.ID), zap.String("out", out))
	fmt.Printf("Extracted: texture %d -> %s\n", tex.ID, out)
}

func cmdShowAnim(args []string) {
	fs := flag.NewFlagSet("showanim", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: spktool showanim <file.spk> <anim>")
		os.Exit(1)
	}

	p := mustOpen(fs.Arg(0))
	anim, ok := p.Anims[fs.Arg(1)]
	if !ok {
		fmt.Fprintf(os.Stderr, "Bad anim: %s\n", fs.Arg(1))
		os.Exit(1)
	}
	printAnimation(os.Stdout, p, anim)
}

func cmdPack(args []string) {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: spktool pack <file.list> <out.spk>")
		os.Exit(1)
	}

	p, err := packer.BuildFile(context.Background(), fs.Arg(0), cfg.Packer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := p.WriteFile(fs.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Packed: %s (%d textures, %d images, %d bundles, %d anims)\n",
		fs.Arg(1), len(p.Textures), len(p.Images), len(p.Bundles), len(p.Anims))
}

func cmdVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: spktool verify <file.spk>")
		os.Exit(1)
	}

	path := fs.Arg(0)
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report, err := verify(raw, cfg.Limits.DecodeLimits())
	printReport(os.Stdout, path, report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdInitConfig(args []string) {
	var (
		path string
		err  error
	)
	if len(args) > 0 {
		path = args[0]
		err = cfg.SaveTo(path)
	} else {
		path, err = cfg.Save()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote config: %s\n", path)
}

func mustTexture(p *spk.Package, arg string) *spk.Texture {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 || id >= len(p.Textures) {
		fmt.Fprintln(os.Stderr, "Bad texture id")
		os.Exit(1)
	}
	return p.Textures[id]
}

// verifyReport summarizes a verify run.
type verifyReport struct {
	Decoded    bool
	Duplicates []string
	Problems   error
	Canonical  bool
	Size       int
}

// verify decodes raw, validates it and re-encodes it. A file is canonical
// when re-encoding reproduces it byte for byte.
func verify(raw []byte, limits spk.Limits) (verifyReport, error) {
	r := verifyReport{Size: len(raw)}
	p, err := spk.DecodeWithOptions(bytes.NewReader(raw), spk.DecodeOptions{
		Limits: limits,
		OnDuplicate: func(section, name string) {
			r.Duplicates = append(r.Duplicates, section+"/"+name)
		},
	})
	if err != nil {
		return r, err
	}
	r.Decoded = true
	r.Problems = p.Validate()

	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return r, err
	}
	r.Canonical = bytes.Equal(buf.Bytes(), raw)
	if r.Problems != nil {
		return r, fmt.Errorf("package has semantic problems")
	}
	return r, nil
}

func printReport(w io.Writer, path string, r verifyReport) {
	fmt.Fprintf(w, "File:      %s (%d bytes)\n", path, r.Size)
	fmt.Fprintf(w, "Decoded:   %v\n", r.Decoded)
	if !r.Decoded {
		return
	}
	for _, d := range r.Duplicates {
		fmt.Fprintf(w, "Duplicate: %s (last record kept)\n", d)
	}
	if r.Problems != nil {
		fmt.Fprintf(w, "Problems:\n%v\n", r.Problems)
	} else {
		fmt.Fprintln(w, "Problems:  none")
	}
	fmt.Fprintf(w, "Canonical: %v\n", r.Canonical)
}
