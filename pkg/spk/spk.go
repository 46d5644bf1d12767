// Package spk reads and writes Cobalt sprite packages.
//
// A sprite package bundles spritesheet textures, named image regions,
// image bundles and keyframe animations into one little-endian binary file:
//
//	Header:       u32 version(=3), u32 textureSize, u32 textureFormat,
//	              u32 numTextures, u32 numImages, u32 numBundles, u32 numAnims
//	Texture[n]:   planar pixel bytes, textureSize^2 * channels(format)
//	RegionBase:   cstring name, u32 id, i32 offsetX, i32 offsetY, u32 clipX, u32 clipY
//	Image:        RegionBase, u32 textureNum, u32 x,y,w,h, u32 origW, origH
//	ImageBundle:  RegionBase, u32 widthCount, u32 numImages, Image[numImages]
//	Animation:    cstring name, i32 numKeyframes,
//	              i32 imageId[n], i32 step[n], i32 delay[n]
package spk

import (
	"errors"
	"fmt"
	"strings"
)

// Version is the only package version this codec reads and writes.
const Version uint32 = 3

// Default id ranges used by the packer when assigning ids.
const (
	BaseIDImages  uint32 = 0
	BaseIDBundles uint32 = 100000
)

// Package format errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported sprite package version")
	ErrBadFileFormat      = errors.New("bad sprite package format")
	ErrUnsupportedFormat  = errors.New("unsupported texture format")
	ErrTruncatedInput     = errors.New("truncated sprite package data")
	ErrInvalidEncoding    = errors.New("invalid name encoding")
	ErrLimitExceeded      = errors.New("sprite package limit exceeded")
	ErrDanglingReference  = errors.New("dangling reference")
)

// TextureFormat is the pixel format shared by every texture in a package.
type TextureFormat uint32

// Texture formats.
const (
	FormatRGB       TextureFormat = 0
	FormatRGBA      TextureFormat = 1
	FormatA         TextureFormat = 2
	FormatSpecialAI TextureFormat = 3 // recognized, not supported
)

// Channels returns the number of bytes per pixel for the format.
func (f TextureFormat) Channels() (int, error) {
	switch f {
	case FormatRGB:
		return 3, nil
	case FormatRGBA:
		return 4, nil
	case FormatA:
		return 1, nil
	case FormatSpecialAI:
		return 0, fmt.Errorf("%w: special AI", ErrUnsupportedFormat)
	default:
		return 0, fmt.Errorf("%w: unknown texture format %d", ErrBadFileFormat, uint32(f))
	}
}

// String returns the lowercase format name.
func (f TextureFormat) String() string {
	switch f {
	case FormatRGB:
		return "rgb"
	case FormatRGBA:
		return "rgba"
	case FormatA:
		return "a"
	case FormatSpecialAI:
		return "special-ai"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(f))
	}
}

// ParseTextureFormat parses a format name as produced by String.
// "l" and "gray" are accepted as aliases for the alpha-only format.
func ParseTextureFormat(s string) (TextureFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb":
		return FormatRGB, nil
	case "rgba":
		return FormatRGBA, nil
	case "a", "l", "gray":
		return FormatA, nil
	case "special-ai":
		return FormatSpecialAI, fmt.Errorf("%w: special AI", ErrUnsupportedFormat)
	default:
		return 0, fmt.Errorf("%w: unknown texture format %q", ErrBadFileFormat, s)
	}
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}
