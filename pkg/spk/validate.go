package spk

import (
	"errors"
	"fmt"
)

// Validate checks the cross-references and invariants the wire format does
// not enforce. It returns every problem found, joined.
func (p *Package) Validate() error {
	if err := p.checkEntries(); err != nil {
		return err
	}

	var errs []error
	add := func(err error) { errs = append(errs, err) }

	if p.Version != Version {
		add(fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Version))
	}
	channels, err := p.TextureFormat.Channels()
	if err != nil {
		add(err)
	}
	if len(p.Textures) > 0 && !IsPowerOfTwo(p.TextureSize) {
		add(fmt.Errorf("%w: texture size %d is not a power of two", ErrBadFileFormat, p.TextureSize))
	}

	for i, t := range p.Textures {
		if t.ID != i {
			add(fmt.Errorf("%w: texture at index %d has id %d", ErrBadFileFormat, i, t.ID))
		}
		if t.IsSpecialAI {
			add(fmt.Errorf("%w: texture %d is special AI", ErrUnsupportedFormat, i))
		}
		if want := int64(p.TextureSize) * int64(p.TextureSize) * int64(channels); channels > 0 && int64(len(t.Pix)) != want {
			add(fmt.Errorf("%w: texture %d has %d bytes, want %d", ErrBadFileFormat, i, len(t.Pix), want))
		}
	}

	checkImage := func(where string, img *Image) {
		if int(img.TextureNum) >= len(p.Textures) {
			add(fmt.Errorf("%w: %s references texture %d of %d", ErrDanglingReference, where, img.TextureNum, len(p.Textures)))
		}
	}

	ids := make(map[int64]bool, len(p.Images))
	for key, img := range p.Images {
		where := fmt.Sprintf("image %q", key)
		checkRegionName(where, key, &img.Region, add)
		checkImage(where, img)
		if ids[int64(img.ID)] {
			add(fmt.Errorf("%w: %s reuses image id %d", ErrBadFileFormat, where, img.ID))
		}
		ids[int64(img.ID)] = true
	}
	bundleIDs := make(map[uint32]bool, len(p.Bundles))
	for key, b := range p.Bundles {
		where := fmt.Sprintf("bundle %q", key)
		checkRegionName(where, key, &b.Region, add)
		if bundleIDs[b.ID] {
			add(fmt.Errorf("%w: %s reuses bundle id %d", ErrBadFileFormat, where, b.ID))
		}
		bundleIDs[b.ID] = true
		for i := range b.Images {
			checkImage(fmt.Sprintf("%s image %d", where, i), &b.Images[i])
		}
	}
	for key, a := range p.Anims {
		where := fmt.Sprintf("animation %q", key)
		if key != a.Name {
			add(fmt.Errorf("%w: %s is stored under name %q", ErrBadFileFormat, where, a.Name))
		}
		if err := validName(a.Name); err != nil {
			add(fmt.Errorf("%s: %w", where, err))
		}
		for i, k := range a.Keyframes {
			if !ids[int64(k.ImageID)] {
				add(fmt.Errorf("%w: %s keyframe %d references image id %d", ErrDanglingReference, where, i, k.ImageID))
			}
		}
	}

	return errors.Join(errs...)
}

func checkRegionName(where, key string, reg *Region, add func(error)) {
	if key != reg.Name {
		add(fmt.Errorf("%w: %s is stored under name %q", ErrBadFileFormat, where, reg.Name))
	}
	if err := validName(reg.Name); err != nil {
		add(fmt.Errorf("%s: %w", where, err))
	}
}

func validName(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidEncoding)
	}
	return checkName(s)
}
