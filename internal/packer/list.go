// Package packer builds sprite packages from the list files written after
// atlas packing. Placement is decided elsewhere; this package only ingests
// the result.
package packer

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// List is a parsed list file.
type List struct {
	Format   string // empty unless a format directive was given
	Textures []TextureEntry
	Images   []ImageEntry
	Bundles  []BundleEntry
	Anims    []AnimEntry
}

// TextureEntry names one texture image file.
type TextureEntry struct {
	Line int
	Path string
}

// ImageEntry places a named sprite in a texture.
type ImageEntry struct {
	Line             int
	Name             string
	Texture          uint32
	X, Y, W, H       uint32
	OrigW, OrigH     uint32 // defaults to W, H
	OffsetX, OffsetY int32
	ClipX, ClipY     int32
	ID               *uint32
}

// BundleEntry groups images by name.
type BundleEntry struct {
	Line       int
	Name       string
	WidthCount uint32
	Images     []string
}

// FrameEntry is one animation frame.
type FrameEntry struct {
	Image string
	Delay *int32
}

// AnimEntry is a named frame sequence.
type AnimEntry struct {
	Line   int
	Name   string
	Frames []FrameEntry
}

var (
	directiveRe = regexp.MustCompile(`^(\w+)\s+(.+)$`)
	imageRe     = regexp.MustCompile(`^(\S+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)((?:\s+\w+=\S+)*)$`)
	bundleRe    = regexp.MustCompile(`^(\S+)\s+width=(\d+)((?:\s+\S+)+)$`)
	animRe      = regexp.MustCompile(`^(\S+)((?:\s+\S+)+)$`)
	optionRe    = regexp.MustCompile(`(\w+)=(\S+)`)
	pairRe      = regexp.MustCompile(`^(-?\d+)[,x](-?\d+)$`)
	frameRe     = regexp.MustCompile(`^([^:\s]+)(?::(-?\d+))?$`)
	nameRe      = regexp.MustCompile(`^[\x21-\x7E]+$`)
)

// ParseList reads a list file. Blank lines and lines starting with # are
// skipped.
func ParseList(r io.Reader) (*List, error) {
	l := &List{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		m := directiveRe.FindStringSubmatch(text)
		if m == nil {
			return nil, errors.Errorf("line %d: expected '<directive> <args>', got %q", line, text)
		}
		args := strings.TrimSpace(m[2])

		var err error
		switch m[1] {
		case "format":
			l.Format = args
		case "texture":
			l.Textures = append(l.Textures, TextureEntry{Line: line, Path: args})
		case "image":
			err = l.parseImage(line, args)
		case "bundle":
			err = l.parseBundle(line, args)
		case "anim":
			err = l.parseAnim(line, args)
		default:
			err = errors.Errorf("unknown directive %q", m[1])
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading list")
	}
	return l, nil
}

func (l *List) parseImage(line int, args string) error {
	m := imageRe.FindStringSubmatch(args)
	if m == nil {
		return errors.Errorf("expected 'image <name> <texture> <x> <y> <w> <h> [key=value...]', got %q", args)
	}
	if err := checkName(m[1]); err != nil {
		return err
	}

	var nums [5]uint32
	for i := range nums {
		v, err := strconv.ParseUint(m[i+2], 10, 32)
		if err != nil {
			return errors.Wrapf(err, "image %q field %d", m[1], i+1)
		}
		nums[i] = uint32(v)
	}
	e := ImageEntry{
		Line:    line,
		Name:    m[1],
		Texture: nums[0],
		X:       nums[1], Y: nums[2], W: nums[3], H: nums[4],
		OrigW: nums[3], OrigH: nums[4],
	}

	for _, opt := range optionRe.FindAllStringSubmatch(m[7], -1) {
		key, val := opt[1], opt[2]
		if key == "id" {
			id, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return errors.Wrapf(err, "image %q id", e.Name)
			}
			v := uint32(id)
			e.ID = &v
			continue
		}

		a, b, err := parsePair(val)
		if err != nil {
			return errors.Wrapf(err, "image %q %s", e.Name, key)
		}
		switch key {
		case "orig":
			if a < 0 || b < 0 {
				return errors.Errorf("image %q orig must not be negative", e.Name)
			}
			e.OrigW, e.OrigH = uint32(a), uint32(b)
		case "offset":
			e.OffsetX, e.OffsetY = a, b
		case "clip":
			e.ClipX, e.ClipY = a, b
		default:
			return errors.Errorf("image %q: unknown option %q", e.Name, key)
		}
	}

	l.Images = append(l.Images, e)
	return nil
}

func (l *List) parseBundle(line int, args string) error {
	m := bundleRe.FindStringSubmatch(args)
	if m == nil {
		return errors.Errorf("expected 'bundle <name> width=<n> <image>...', got %q", args)
	}
	if err := checkName(m[1]); err != nil {
		return err
	}
	width, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return errors.Wrapf(err, "bundle %q width", m[1])
	}
	l.Bundles = append(l.Bundles, BundleEntry{
		Line:       line,
		Name:       m[1],
		WidthCount: uint32(width),
		Images:     strings.Fields(m[3]),
	})
	return nil
}

func (l *List) parseAnim(line int, args string) error {
	m := animRe.FindStringSubmatch(args)
	if m == nil {
		return errors.Errorf("expected 'anim <name> <image>[:<delay>]...', got %q", args)
	}
	if err := checkName(m[1]); err != nil {
		return err
	}
	e := AnimEntry{Line: line, Name: m[1]}
	for _, f := range strings.Fields(m[2]) {
		fm := frameRe.FindStringSubmatch(f)
		if fm == nil {
			return errors.Errorf("anim %q: bad frame %q", e.Name, f)
		}
		frame := FrameEntry{Image: fm[1]}
		if fm[2] != "" {
			d, err := strconv.ParseInt(fm[2], 10, 32)
			if err != nil {
				return errors.Wrapf(err, "anim %q frame %q delay", e.Name, f)
			}
			delay := int32(d)
			frame.Delay = &delay
		}
		e.Frames = append(e.Frames, frame)
	}
	l.Anims = append(l.Anims, e)
	return nil
}

func parsePair(s string) (int32, int32, error) {
	m := pairRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, errors.Errorf("expected '<a>,<b>', got %q", s)
	}
	a, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return 0, 0, errors.WithStack(err)
	}
	b, err := strconv.ParseInt(m[2], 10, 32)
	if err != nil {
		return 0, 0, errors.WithStack(err)
	}
	return int32(a), int32(b), nil
}

func checkName(name string) error {
	if !nameRe.MatchString(name) {
		return errors.Errorf("name %q must be printable ASCII", name)
	}
	return nil
}
