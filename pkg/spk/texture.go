package spk

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
)

// maxTextureSide bounds size*size*channels so it fits an int64 on every
// platform, independent of caller limits.
const maxTextureSide = 1 << 16

// Texture is one square spritesheet bitmap.
type Texture struct {
	ID          int
	IsSpecialAI bool // reserved, always false for supported formats
	Size        int
	Format      TextureFormat
	Pix         []byte // interleaved, row-major, Size*Size*channels bytes
}

// NewTexture wraps an interleaved pixel buffer. The buffer is not copied.
func NewTexture(id, size int, format TextureFormat, pix []byte) (*Texture, error) {
	channels, err := format.Channels()
	if err != nil {
		return nil, err
	}
	if size <= 0 || size > maxTextureSide {
		return nil, fmt.Errorf("%w: texture size %d", ErrBadFileFormat, size)
	}
	if want := int64(size) * int64(size) * int64(channels); int64(len(pix)) != want {
		return nil, fmt.Errorf("%w: texture %d has %d bytes, want %d", ErrBadFileFormat, id, len(pix), want)
	}
	return &Texture{ID: id, Size: size, Format: format, Pix: pix}, nil
}

// NewTextureFromImage converts a square image into a texture of the given
// format. RGB drops alpha, A keeps luminance.
func NewTextureFromImage(id int, img image.Image, format TextureFormat) (*Texture, error) {
	channels, err := format.Channels()
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("%w: texture %d is %dx%d, must be square", ErrBadFileFormat, id, b.Dx(), b.Dy())
	}
	size := b.Dx()
	pix := make([]byte, size*size*channels)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			switch format {
			case FormatA:
				pix[i] = color.GrayModel.Convert(c).(color.Gray).Y
			default:
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				pix[i], pix[i+1], pix[i+2] = n.R, n.G, n.B
				if channels == 4 {
					pix[i+3] = n.A
				}
			}
			i += channels
		}
	}
	return NewTexture(id, size, format, pix)
}

// Image returns a copy of the texture as an image. RGB and RGBA textures
// become *image.NRGBA, alpha-only textures become *image.Gray.
func (t *Texture) Image() image.Image {
	rect := image.Rect(0, 0, t.Size, t.Size)
	switch t.Format {
	case FormatA:
		img := image.NewGray(rect)
		copy(img.Pix, t.Pix)
		return img
	case FormatRGBA:
		img := image.NewNRGBA(rect)
		copy(img.Pix, t.Pix)
		return img
	default:
		img := image.NewNRGBA(rect)
		for i, j := 0, 0; j+2 < len(t.Pix); i, j = i+4, j+3 {
			img.Pix[i] = t.Pix[j]
			img.Pix[i+1] = t.Pix[j+1]
			img.Pix[i+2] = t.Pix[j+2]
			img.Pix[i+3] = 0xFF
		}
		return img
	}
}

// decodeTexture reads one planar texture: every pixel's channel 0, then every
// pixel's channel 1, and so on.
func decodeTexture(r *reader, id int, size uint32, format TextureFormat) (*Texture, error) {
	channels, err := format.Channels()
	if err != nil {
		return nil, err
	}
	if size > maxTextureSide {
		return nil, fmt.Errorf("%w: texture size %d", ErrLimitExceeded, size)
	}
	n := int64(size) * int64(size) * int64(channels)

	// Grow with the input rather than trusting the header.
	var planar bytes.Buffer
	if _, err := io.CopyN(&planar, r.r, n); err != nil {
		return nil, truncated(err, fmt.Sprintf("texture %d pixels", id))
	}
	pixels := planar.Len() / channels

	return &Texture{
		ID:     id,
		Size:   int(size),
		Format: format,
		Pix:    interleave(planar.Bytes(), pixels, channels),
	}, nil
}

// encode writes the texture in planar order.
func (t *Texture) encode(w *writer) error {
	channels, err := t.Format.Channels()
	if err != nil {
		return err
	}
	if t.IsSpecialAI {
		return fmt.Errorf("%w: texture %d is special AI", ErrUnsupportedFormat, t.ID)
	}
	if want := int64(t.Size) * int64(t.Size) * int64(channels); int64(len(t.Pix)) != want {
		return fmt.Errorf("%w: texture %d has %d bytes, want %d", ErrBadFileFormat, t.ID, len(t.Pix), want)
	}
	w.write(planarize(t.Pix, len(t.Pix)/channels, channels))
	return w.err
}

func interleave(planar []byte, pixels, channels int) []byte {
	if channels == 1 {
		return planar
	}
	out := make([]byte, len(planar))
	for c := 0; c < channels; c++ {
		plane := planar[c*pixels : (c+1)*pixels]
		for i, v := range plane {
			out[i*channels+c] = v
		}
	}
	return out
}

func planarize(pix []byte, pixels, channels int) []byte {
	if channels == 1 {
		return pix
	}
	out := make([]byte, len(pix))
	for c := 0; c < channels; c++ {
		plane := out[c*pixels : (c+1)*pixels]
		for i := range plane {
			plane[i] = pix[i*channels+c]
		}
	}
	return out
}
