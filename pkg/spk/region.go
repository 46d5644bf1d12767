package spk

import "fmt"

// Vec2 is a signed 2D integer vector.
type Vec2 struct {
	X, Y int32
}

// Rect is a sub-rectangle of a texture.
type Rect struct {
	X, Y, W, H uint32
}

// Size is an unsigned width and height.
type Size struct {
	W, H uint32
}

// Region holds the fields shared by images and bundles.
type Region struct {
	Name    string
	ID      uint32
	Offset  Vec2 // pivot
	Clipped Vec2 // margins trimmed by the packer, unsigned on the wire
}

// Image is a named sub-region of a texture.
type Image struct {
	Region
	TextureNum   uint32
	Rect         Rect
	OriginalSize Size
}

// ImageBundle is a named group of embedded images.
type ImageBundle struct {
	Region
	WidthCount uint32
	Images     []Image
}

func decodeRegion(r *reader) (Region, error) {
	var reg Region
	var err error
	if reg.Name, err = r.readCString("name"); err != nil {
		return reg, err
	}
	if reg.ID, err = r.readU32("id"); err != nil {
		return reg, err
	}
	if reg.Offset.X, err = r.readI32("offset x"); err != nil {
		return reg, err
	}
	if reg.Offset.Y, err = r.readI32("offset y"); err != nil {
		return reg, err
	}
	if reg.Clipped.X, err = r.readI32("clip x"); err != nil {
		return reg, err
	}
	if reg.Clipped.Y, err = r.readI32("clip y"); err != nil {
		return reg, err
	}
	return reg, nil
}

func (reg *Region) encode(w *writer) {
	w.writeCString(reg.Name)
	w.writeU32(reg.ID)
	w.writeI32(reg.Offset.X)
	w.writeI32(reg.Offset.Y)
	w.writeU32(uint32(reg.Clipped.X))
	w.writeU32(uint32(reg.Clipped.Y))
}

func decodeImage(r *reader) (Image, error) {
	var img Image
	var err error
	if img.Region, err = decodeRegion(r); err != nil {
		return img, err
	}

	var v [7]uint32
	for i := range v {
		if v[i], err = r.readU32(fmt.Sprintf("image %q field %d", img.Name, i)); err != nil {
			return img, err
		}
	}
	img.TextureNum = v[0]
	img.Rect = Rect{X: v[1], Y: v[2], W: v[3], H: v[4]}
	img.OriginalSize = Size{W: v[5], H: v[6]}
	return img, nil
}

func (img *Image) encode(w *writer) error {
	img.Region.encode(w)
	w.writeU32(img.TextureNum)
	w.writeU32(img.Rect.X)
	w.writeU32(img.Rect.Y)
	w.writeU32(img.Rect.W)
	w.writeU32(img.Rect.H)
	w.writeU32(img.OriginalSize.W)
	w.writeU32(img.OriginalSize.H)
	return w.err
}

func decodeBundle(r *reader, limits Limits) (*ImageBundle, error) {
	reg, err := decodeRegion(r)
	if err != nil {
		return nil, err
	}
	b := &ImageBundle{Region: reg}
	if b.WidthCount, err = r.readU32("bundle width count"); err != nil {
		return nil, err
	}
	count, err := r.readU32("bundle image count")
	if err != nil {
		return nil, err
	}
	if err := limits.checkRecords(fmt.Sprintf("bundle %q images", b.Name), count); err != nil {
		return nil, err
	}

	b.Images = make([]Image, 0, min(count, preallocCap))
	for i := uint32(0); i < count; i++ {
		img, err := decodeImage(r)
		if err != nil {
			return nil, fmt.Errorf("bundle %q image %d: %w", b.Name, i, err)
		}
		b.Images = append(b.Images, img)
	}
	return b, nil
}

// encode writes the bundle's own region fields, then its embedded images.
func (b *ImageBundle) encode(w *writer) error {
	b.Region.encode(w)
	w.writeU32(b.WidthCount)
	w.writeU32(uint32(len(b.Images)))
	for i := range b.Images {
		if err := b.Images[i].encode(w); err != nil {
			return fmt.Errorf("bundle %q image %d: %w", b.Name, i, err)
		}
	}
	return w.err
}
