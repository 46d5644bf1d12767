// Package imageio loads and saves the external image formats spktool
// exchanges textures with.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Options controls encoding.
type Options struct {
	JPEGQuality int
}

// Load decodes an image file of any registered format.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(bufio.NewReader(f), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes r. TGA has no signature, so ext selects it explicitly.
func Decode(r io.Reader, ext string) (image.Image, error) {
	if strings.EqualFold(ext, ".tga") {
		return tga.Decode(r)
	}
	img, _, err := image.Decode(r)
	return img, err
}

// Save encodes img to path, choosing the encoder from the file extension.
func Save(path string, img image.Image, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, img, filepath.Ext(path), opts); err != nil {
		f.Close()
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("imageio: write %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes img in the format named by ext (".png", ".jpg", ...).
func Encode(w io.Writer, img image.Image, ext string, opts Options) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		q := opts.JPEGQuality
		if q <= 0 {
			q = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tga":
		return tga.Encode(w, img)
	case ".webp":
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("unsupported image extension %q", ext)
	}
}

// Extensions lists the extensions Encode accepts.
func Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tga", ".webp"}
}
