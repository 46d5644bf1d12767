package spk

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
)

// preallocCap caps slice capacity derived from untrusted counts.
const preallocCap = 1024

// Limits bounds what a decode is willing to allocate. Zero fields are
// unlimited.
type Limits struct {
	MaxTextureSize uint32
	MaxTextures    uint32
	MaxRecords     uint32 // per section: images, bundles, anims, bundle images, keyframes
}

func (l Limits) checkRecords(what string, n uint32) error {
	if l.MaxRecords != 0 && n > l.MaxRecords {
		return fmt.Errorf("%w: %s count %d > %d", ErrLimitExceeded, what, n, l.MaxRecords)
	}
	return nil
}

// Section names passed to DecodeOptions.OnDuplicate.
const (
	SectionImages  = "images"
	SectionBundles = "bundles"
	SectionAnims   = "anims"
)

// DecodeOptions configures DecodeWithOptions.
type DecodeOptions struct {
	Limits Limits

	// OnDuplicate is called when a later record replaces an earlier one with
	// the same name. The later record always wins.
	OnDuplicate func(section, name string)
}

// Package is a decoded sprite package. Textures are indexed by id; images,
// bundles and animations are keyed by name.
type Package struct {
	Version       uint32
	TextureSize   uint32
	TextureFormat TextureFormat

	Textures []*Texture
	Images   map[string]*Image
	Bundles  map[string]*ImageBundle
	Anims    map[string]*Animation
}

// New returns an empty package for textures of the given side and format.
func New(textureSize uint32, format TextureFormat) *Package {
	return &Package{
		Version:       Version,
		TextureSize:   textureSize,
		TextureFormat: format,
		Images:        make(map[string]*Image),
		Bundles:       make(map[string]*ImageBundle),
		Anims:         make(map[string]*Animation),
	}
}

// Decode reads a sprite package without allocation limits.
func Decode(r io.Reader) (*Package, error) {
	return DecodeWithOptions(r, DecodeOptions{})
}

// DecodeWithOptions reads a sprite package. On error no package is returned.
func DecodeWithOptions(r io.Reader, opts DecodeOptions) (*Package, error) {
	rd := newReader(r)

	version, err := rd.readU32("version")
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var hdr [6]uint32
	names := [6]string{"texture size", "texture format", "texture count", "image count", "bundle count", "animation count"}
	for i := range hdr {
		if hdr[i], err = rd.readU32(names[i]); err != nil {
			return nil, err
		}
	}
	size, format := hdr[0], TextureFormat(hdr[1])
	numTextures, numImages, numBundles, numAnims := hdr[2], hdr[3], hdr[4], hdr[5]

	if _, err := format.Channels(); err != nil {
		return nil, err
	}
	lim := opts.Limits
	if lim.MaxTextureSize != 0 && size > lim.MaxTextureSize {
		return nil, fmt.Errorf("%w: texture size %d > %d", ErrLimitExceeded, size, lim.MaxTextureSize)
	}
	if lim.MaxTextures != 0 && numTextures > lim.MaxTextures {
		return nil, fmt.Errorf("%w: texture count %d > %d", ErrLimitExceeded, numTextures, lim.MaxTextures)
	}
	for _, c := range []struct {
		what string
		n    uint32
	}{{"image", numImages}, {"bundle", numBundles}, {"animation", numAnims}} {
		if err := lim.checkRecords(c.what, c.n); err != nil {
			return nil, err
		}
	}

	p := New(size, format)
	p.Version = version
	p.Textures = make([]*Texture, 0, min(numTextures, preallocCap))

	dup := func(section, name string) {
		if opts.OnDuplicate != nil {
			opts.OnDuplicate(section, name)
		}
	}

	for i := uint32(0); i < numTextures; i++ {
		tex, err := decodeTexture(rd, int(i), size, format)
		if err != nil {
			return nil, fmt.Errorf("decoding texture %d: %w", i, err)
		}
		p.Textures = append(p.Textures, tex)
	}

	for i := uint32(0); i < numImages; i++ {
		img, err := decodeImage(rd)
		if err != nil {
			return nil, fmt.Errorf("decoding image %d: %w", i, err)
		}
		if _, ok := p.Images[img.Name]; ok {
			dup(SectionImages, img.Name)
		}
		p.Images[img.Name] = &img
	}

	for i := uint32(0); i < numBundles; i++ {
		b, err := decodeBundle(rd, lim)
		if err != nil {
			return nil, fmt.Errorf("decoding bundle %d: %w", i, err)
		}
		if _, ok := p.Bundles[b.Name]; ok {
			dup(SectionBundles, b.Name)
		}
		p.Bundles[b.Name] = b
	}

	for i := uint32(0); i < numAnims; i++ {
		a, err := decodeAnimation(rd, lim)
		if err != nil {
			return nil, fmt.Errorf("decoding animation %d: %w", i, err)
		}
		if _, ok := p.Anims[a.Name]; ok {
			dup(SectionAnims, a.Name)
		}
		p.Anims[a.Name] = a
	}

	return p, nil
}

// ParseFile decodes a sprite package from disk.
func ParseFile(path string, opts DecodeOptions) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sprite package: %w", err)
	}
	defer f.Close()
	return DecodeWithOptions(bufio.NewReader(f), opts)
}

// Encode writes the package. Counts come from the collections, and keyed
// sections are written in canonical order: images and bundles by id,
// animations by name.
func (p *Package) Encode(w io.Writer) error {
	if p.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Version)
	}
	if _, err := p.TextureFormat.Channels(); err != nil {
		return err
	}

	if err := p.checkEntries(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	wr := newWriter(bw)
	wr.writeU32(p.Version)
	wr.writeU32(p.TextureSize)
	wr.writeU32(uint32(p.TextureFormat))
	wr.writeU32(uint32(len(p.Textures)))
	wr.writeU32(uint32(len(p.Images)))
	wr.writeU32(uint32(len(p.Bundles)))
	wr.writeU32(uint32(len(p.Anims)))

	for i, t := range p.Textures {
		if t.Format != p.TextureFormat || t.Size != int(p.TextureSize) {
			return fmt.Errorf("%w: texture %d is %s %dx%d, package is %s %dx%d", ErrBadFileFormat,
				i, t.Format, t.Size, t.Size, p.TextureFormat, p.TextureSize, p.TextureSize)
		}
		if err := t.encode(wr); err != nil {
			return fmt.Errorf("encoding texture %d: %w", i, err)
		}
	}
	for _, img := range p.SortedImages() {
		if err := img.encode(wr); err != nil {
			return fmt.Errorf("encoding image %q: %w", img.Name, err)
		}
	}
	for _, b := range p.SortedBundles() {
		if err := b.encode(wr); err != nil {
			return fmt.Errorf("encoding bundle %q: %w", b.Name, err)
		}
	}
	for _, a := range p.SortedAnims() {
		if err := a.encode(wr); err != nil {
			return fmt.Errorf("encoding animation %q: %w", a.Name, err)
		}
	}

	if wr.err != nil {
		return wr.err
	}
	return bw.Flush()
}

// checkEntries rejects nil records before anything is written.
func (p *Package) checkEntries() error {
	for i, t := range p.Textures {
		if t == nil {
			return fmt.Errorf("%w: texture %d is nil", ErrBadFileFormat, i)
		}
	}
	for name, img := range p.Images {
		if img == nil {
			return fmt.Errorf("%w: image %q is nil", ErrBadFileFormat, name)
		}
	}
	for name, b := range p.Bundles {
		if b == nil {
			return fmt.Errorf("%w: bundle %q is nil", ErrBadFileFormat, name)
		}
	}
	for name, a := range p.Anims {
		if a == nil {
			return fmt.Errorf("%w: animation %q is nil", ErrBadFileFormat, name)
		}
	}
	return nil
}

// WriteFile encodes the package to path.
func (p *Package) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating sprite package: %w", err)
	}
	if err := p.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SortedImages returns images by ascending id, ties broken by name.
func (p *Package) SortedImages() []*Image {
	out := make([]*Image, 0, len(p.Images))
	for _, img := range p.Images {
		out = append(out, img)
	}
	slices.SortFunc(out, func(a, b *Image) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// SortedBundles returns bundles by ascending id, ties broken by name.
func (p *Package) SortedBundles() []*ImageBundle {
	out := make([]*ImageBundle, 0, len(p.Bundles))
	for _, b := range p.Bundles {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *ImageBundle) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// SortedAnims returns animations by name.
func (p *Package) SortedAnims() []*Animation {
	out := make([]*Animation, 0, len(p.Anims))
	for _, a := range p.Anims {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *Animation) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// ImageByID finds an image by id.
func (p *Package) ImageByID(id uint32) (*Image, bool) {
	for _, img := range p.Images {
		if img.ID == id {
			return img, true
		}
	}
	return nil, false
}

// AddTexture appends a texture built from an interleaved buffer and assigns
// it the next id.
func (p *Package) AddTexture(pix []byte) (*Texture, error) {
	t, err := NewTexture(len(p.Textures), int(p.TextureSize), p.TextureFormat, pix)
	if err != nil {
		return nil, err
	}
	p.Textures = append(p.Textures, t)
	return t, nil
}

// AddImage stores img under its name, replacing any image of that name.
func (p *Package) AddImage(img *Image) {
	if p.Images == nil {
		p.Images = make(map[string]*Image)
	}
	p.Images[img.Name] = img
}

// AddBundle stores b under its name, replacing any bundle of that name.
func (p *Package) AddBundle(b *ImageBundle) {
	if p.Bundles == nil {
		p.Bundles = make(map[string]*ImageBundle)
	}
	p.Bundles[b.Name] = b
}

// AddAnimation stores a under its name, replacing any animation of that name.
func (p *Package) AddAnimation(a *Animation) {
	if p.Anims == nil {
		p.Anims = make(map[string]*Animation)
	}
	p.Anims[a.Name] = a
}
