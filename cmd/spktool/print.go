package main

import (
	"fmt"
	"io"

	"github.com/gookit/color"

	"github.com/Faultbox/cobalt-spk/pkg/spk"
)

func heading(s string, useColor bool) string {
	if !useColor {
		return s
	}
	return color.Cyan.Sprint(s)
}

// printPackage lists a package in canonical order.
func printPackage(w io.Writer, p *spk.Package, useColor bool) {
	fmt.Fprintln(w, heading("Package:", useColor))
	fmt.Fprintf(w, "\tVersion: %d\n", p.Version)
	fmt.Fprintf(w, "\tTexture Size: %d\n", p.TextureSize)
	fmt.Fprintf(w, "\tTexture Format: %s (%d)\n", p.TextureFormat, uint32(p.TextureFormat))

	for _, tx := range p.Textures {
		fmt.Fprintln(w, heading("Texture:", useColor))
		fmt.Fprintf(w, "\tID: %d\n", tx.ID)
		fmt.Fprintf(w, "\tImage: %s (%d, %d)\n", tx.Format, tx.Size, tx.Size)
	}
	for _, img := range p.SortedImages() {
		fmt.Fprintf(w, "%s %s\n", heading("Image:", useColor), img.Name)
		printImageFields(w, img, "\t")
	}
	for _, b := range p.SortedBundles() {
		fmt.Fprintln(w, heading("Bundle:", useColor))
		fmt.Fprintf(w, "\tName: %s\n", b.Name)
		fmt.Fprintf(w, "\tID: %d\n", b.ID)
		fmt.Fprintf(w, "\tOffset: (%d, %d)\n", b.Offset.X, b.Offset.Y)
		fmt.Fprintf(w, "\tClip: (%d, %d)\n", b.Clipped.X, b.Clipped.Y)
		fmt.Fprintf(w, "\tWidth Count: %d\n", b.WidthCount)
		for i := range b.Images {
			fmt.Fprintf(w, "\tImage: %s\n", b.Images[i].Name)
			printImageFields(w, &b.Images[i], "\t\t")
		}
	}
	for _, a := range p.SortedAnims() {
		fmt.Fprintf(w, "%s %s (%d frames)\n", heading("Anim:", useColor), a.Name, len(a.Keyframes))
	}
}

func printImageFields(w io.Writer, img *spk.Image, indent string) {
	fmt.Fprintf(w, "%sID: %d\n", indent, img.ID)
	fmt.Fprintf(w, "%sOffset: (%d, %d)\n", indent, img.Offset.X, img.Offset.Y)
	fmt.Fprintf(w, "%sClip: (%d, %d)\n", indent, img.Clipped.X, img.Clipped.Y)
	fmt.Fprintf(w, "%sTexture: %d\n", indent, img.TextureNum)
	fmt.Fprintf(w, "%sRect: (%d, %d, %d, %d)\n", indent, img.Rect.X, img.Rect.Y, img.Rect.W, img.Rect.H)
	fmt.Fprintf(w, "%sOriginal Size: (%d, %d)\n", indent, img.OriginalSize.W, img.OriginalSize.H)
}

// printAnimation prints one keyframe per line, naming the image when the id
// resolves.
func printAnimation(w io.Writer, p *spk.Package, a *spk.Animation) {
	fmt.Fprintf(w, "Anim: %s\n", a.Name)
	for i, k := range a.Keyframes {
		name := "?"
		if k.ImageID >= 0 {
			if img, ok := p.ImageByID(uint32(k.ImageID)); ok {
				name = img.Name
			}
		}
		hold := ""
		if k.IsHold() {
			hold = " hold"
		}
		fmt.Fprintf(w, "\t%d: %s %s%s\n", i, k, name, hold)
	}
}
