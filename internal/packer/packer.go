package packer

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/cobalt-spk/internal/config"
	"github.com/Faultbox/cobalt-spk/internal/imageio"
	"github.com/Faultbox/cobalt-spk/internal/logger"
	"github.com/Faultbox/cobalt-spk/pkg/spk"
)

// Loader decodes a texture image file.
type Loader func(path string) (image.Image, error)

// Builder turns a List into a package.
type Builder struct {
	Config config.PackerConfig
	Load   Loader // defaults to imageio.Load
	Dir    string // texture paths are relative to this directory
}

// BuildFile parses the list file at path and builds its package.
func BuildFile(ctx context.Context, path string, cfg config.PackerConfig) (*spk.Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening list file")
	}
	defer f.Close()

	list, err := ParseList(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	b := &Builder{Config: cfg, Dir: filepath.Dir(path)}
	return b.Build(ctx, list)
}

// Build loads the textures named by l and assembles the package. The result
// has been validated.
func (b *Builder) Build(ctx context.Context, l *List) (*spk.Package, error) {
	formatName := b.Config.Format
	if l.Format != "" {
		formatName = l.Format
	}
	format, err := spk.ParseTextureFormat(formatName)
	if err != nil {
		return nil, err
	}

	textures, size, err := b.loadTextures(ctx, l.Textures, format)
	if err != nil {
		return nil, err
	}

	p := spk.New(size, format)
	p.Textures = textures

	images := make(map[string]spk.Image, len(l.Images))
	idOwner := make(map[uint32]string, len(l.Images))
	for i, e := range l.Images {
		if _, dup := images[e.Name]; dup {
			return nil, errors.Errorf("line %d: duplicate image %q", e.Line, e.Name)
		}
		if int(e.Texture) >= len(textures) {
			return nil, errors.Errorf("line %d: image %q uses texture %d, only %d loaded", e.Line, e.Name, e.Texture, len(textures))
		}
		if uint64(e.X)+uint64(e.W) > uint64(size) || uint64(e.Y)+uint64(e.H) > uint64(size) {
			return nil, errors.Errorf("line %d: image %q rect exceeds %dx%d texture", e.Line, e.Name, size, size)
		}

		id := b.Config.ImageIDBase + uint32(i)
		if e.ID != nil {
			id = *e.ID
		}
		if owner, taken := idOwner[id]; taken {
			return nil, errors.Errorf("line %d: image %q id %d already used by image %q", e.Line, e.Name, id, owner)
		}
		idOwner[id] = e.Name
		img := spk.Image{
			Region: spk.Region{
				Name:    e.Name,
				ID:      id,
				Offset:  spk.Vec2{X: e.OffsetX, Y: e.OffsetY},
				Clipped: spk.Vec2{X: e.ClipX, Y: e.ClipY},
			},
			TextureNum:   e.Texture,
			Rect:         spk.Rect{X: e.X, Y: e.Y, W: e.W, H: e.H},
			OriginalSize: spk.Size{W: e.OrigW, H: e.OrigH},
		}
		images[e.Name] = img
		p.AddImage(&img)
	}

	for i, e := range l.Bundles {
		if _, dup := p.Bundles[e.Name]; dup {
			return nil, errors.Errorf("line %d: duplicate bundle %q", e.Line, e.Name)
		}
		bundle := &spk.ImageBundle{
			Region:     spk.Region{Name: e.Name, ID: b.Config.BundleIDBase + uint32(i)},
			WidthCount: e.WidthCount,
		}
		for _, name := range e.Images {
			img, ok := images[name]
			if !ok {
				return nil, errors.Errorf("line %d: bundle %q references unknown image %q", e.Line, e.Name, name)
			}
			bundle.Images = append(bundle.Images, img)
		}
		p.AddBundle(bundle)
	}

	for _, e := range l.Anims {
		if _, dup := p.Anims[e.Name]; dup {
			return nil, errors.Errorf("line %d: duplicate anim %q", e.Line, e.Name)
		}
		anim := &spk.Animation{Name: e.Name}
		for step, f := range e.Frames {
			img, ok := images[f.Image]
			if !ok {
				return nil, errors.Errorf("line %d: anim %q references unknown image %q", e.Line, e.Name, f.Image)
			}
			delay := b.Config.DefaultDelay
			if len(e.Frames) == 1 {
				delay = spk.DelayInfinite
			}
			if f.Delay != nil {
				delay = *f.Delay
			}
			anim.Keyframes = append(anim.Keyframes, spk.Keyframe{
				ImageID: int32(img.ID),
				Step:    int32(step),
				Delay:   delay,
			})
		}
		p.AddAnimation(anim)
	}

	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "built package is invalid")
	}

	logger.Info("package built",
		zap.Int("textures", len(p.Textures)),
		zap.Int("images", len(p.Images)),
		zap.Int("bundles", len(p.Bundles)),
		zap.Int("anims", len(p.Anims)),
		zap.Uint32("texture_size", size),
		zap.Stringer("format", format))
	return p, nil
}

// loadTextures decodes every texture concurrently. All textures must be
// square, the same power-of-two size.
func (b *Builder) loadTextures(ctx context.Context, entries []TextureEntry, format spk.TextureFormat) ([]*spk.Texture, uint32, error) {
	load := b.Load
	if load == nil {
		load = imageio.Load
	}

	textures := make([]*spk.Texture, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	if b.Config.Workers > 0 {
		g.SetLimit(b.Config.Workers)
	}
	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := e.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(b.Dir, path)
			}
			img, err := load(path)
			if err != nil {
				return errors.Wrapf(err, "line %d: loading texture %d", e.Line, i)
			}
			tex, err := spk.NewTextureFromImage(i, img, format)
			if err != nil {
				return errors.Wrapf(err, "line %d: texture %d", e.Line, i)
			}
			logger.Debug("texture loaded", zap.Int("id", i), zap.String("path", path), zap.Int("size", tex.Size))
			textures[i] = tex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var size uint32
	for i, t := range textures {
		s := uint32(t.Size)
		if !spk.IsPowerOfTwo(s) {
			return nil, 0, errors.Errorf("line %d: texture %d size %d is not a power of two", entries[i].Line, i, s)
		}
		if i == 0 {
			size = s
		} else if s != size {
			return nil, 0, errors.Errorf("line %d: texture %d is %dx%d, texture 0 is %dx%d", entries[i].Line, i, s, s, size, size)
		}
	}
	return textures, size, nil
}
