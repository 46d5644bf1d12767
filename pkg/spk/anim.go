package spk

import (
	"fmt"
	"math"
)

// DelayInfinite marks a keyframe that holds forever.
const DelayInfinite int32 = -1

// Keyframe is one step of an animation.
type Keyframe struct {
	ImageID int32 // matches an Image.ID
	Step    int32
	Delay   int32 // negative means hold forever
}

// IsHold reports whether the keyframe holds indefinitely.
func (k Keyframe) IsHold() bool {
	return k.Delay < 0
}

// String formats the keyframe the way datutil printed it.
func (k Keyframe) String() string {
	return fmt.Sprintf("(Image: %d, Step: %d, Delay: %d)", k.ImageID, k.Step, k.Delay)
}

// Animation is a named, ordered keyframe sequence.
type Animation struct {
	Name      string
	Keyframes []Keyframe
}

// decodeAnimation reads the columnar layout: all image ids, then all steps,
// then all delays.
func decodeAnimation(r *reader, limits Limits) (*Animation, error) {
	name, err := r.readCString("animation name")
	if err != nil {
		return nil, err
	}
	count, err := r.readI32("keyframe count")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: animation %q has %d keyframes", ErrBadFileFormat, name, count)
	}
	if err := limits.checkRecords(fmt.Sprintf("animation %q keyframes", name), uint32(count)); err != nil {
		return nil, err
	}

	a := &Animation{Name: name, Keyframes: make([]Keyframe, 0, min(count, preallocCap))}
	for i := int32(0); i < count; i++ {
		id, err := r.readI32("keyframe image id")
		if err != nil {
			return nil, err
		}
		a.Keyframes = append(a.Keyframes, Keyframe{ImageID: id})
	}
	for i := range a.Keyframes {
		if a.Keyframes[i].Step, err = r.readI32("keyframe step"); err != nil {
			return nil, err
		}
	}
	for i := range a.Keyframes {
		if a.Keyframes[i].Delay, err = r.readI32("keyframe delay"); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Animation) encode(w *writer) error {
	if len(a.Keyframes) > math.MaxInt32 {
		return fmt.Errorf("%w: animation %q has %d keyframes", ErrLimitExceeded, a.Name, len(a.Keyframes))
	}
	w.writeCString(a.Name)
	w.writeI32(int32(len(a.Keyframes)))
	for _, k := range a.Keyframes {
		w.writeI32(k.ImageID)
	}
	for _, k := range a.Keyframes {
		w.writeI32(k.Step)
	}
	for _, k := range a.Keyframes {
		w.writeI32(k.Delay)
	}
	return w.err
}
