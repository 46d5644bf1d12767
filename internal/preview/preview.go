// Package preview draws textures in a terminal.
package preview

import (
	"fmt"
	"image"
	ic "image/color"
	"io"
	"strings"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/gookit/color"
	"github.com/nfnt/resize"
)

// Modes accepted by Print.
const (
	ModeAuto  = "auto"  // inline graphics when the terminal supports it, else ANSI
	ModeANSI  = "ansi"  // 24-bit background blocks
	ModeASCII = "ascii" // shade characters, no escapes
)

// Options controls Print.
type Options struct {
	Mode    string
	MaxSize uint // longest side after thumbnailing; 0 keeps the original size
}

// Print writes img to w. Images larger than opts.MaxSize are scaled down
// first, keeping the aspect ratio.
func Print(w io.Writer, img image.Image, opts Options) error {
	if opts.MaxSize > 0 {
		b := img.Bounds()
		if uint(b.Dx()) > opts.MaxSize || uint(b.Dy()) > opts.MaxSize {
			img = resize.Thumbnail(opts.MaxSize, opts.MaxSize, img, resize.NearestNeighbor)
		}
	}

	switch strings.ToLower(opts.Mode) {
	case "", ModeAuto:
		if ok, err := printRasTerm(w, img); ok || err != nil {
			return err
		}
		return printBlocks(w, img, true)
	case ModeANSI:
		return printBlocks(w, img, true)
	case ModeASCII:
		return printBlocks(w, img, false)
	default:
		return fmt.Errorf("unknown preview mode %q", opts.Mode)
	}
}

// printRasTerm draws with the terminal's inline image protocol. It reports
// false when no protocol is available.
func printRasTerm(w io.Writer, img image.Image) (bool, error) {
	var err error
	switch {
	case rasterm.IsTermKitty():
		err = rasterm.Settings{}.KittyWriteImage(w, img)
	case rasterm.IsTermItermWez():
		err = rasterm.Settings{}.ItermWriteImage(w, img)
	default:
		capable, serr := rasterm.IsSixelCapable()
		if serr != nil || !capable {
			return false, nil
		}
		paletted := image.NewPaletted(img.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(paletted, img.Bounds(), img, image.Point{})
		err = rasterm.Settings{}.SixelWriteImage(w, paletted)
	}
	if err != nil {
		return true, err
	}
	_, err = fmt.Fprintln(w)
	return true, err
}

// printBlocks draws two columns per pixel. Transparent pixels are blank.
func printBlocks(w io.Writer, img image.Image, useColor bool) error {
	var sb strings.Builder
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sb.WriteString(cell(img.At(x, y), useColor))
		}
		if useColor {
			sb.WriteString("\x1b[0m")
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func cell(col ic.Color, useColor bool) string {
	c := ic.NRGBAModel.Convert(col).(ic.NRGBA)
	if c.A == 0 {
		return "  "
	}
	if useColor {
		return color.RGB(c.R, c.G, c.B, true).Sprint("  ")
	}
	lum := (int(c.R) + int(c.G) + int(c.B)) / 3
	switch {
	case lum < 32:
		return ".."
	case lum < 64:
		return "--"
	case lum < 128:
		return "=="
	default:
		return "##"
	}
}
