package spk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

// writeRegion appends a RegionBase record to buf.
func writeRegion(buf *bytes.Buffer, name string, id uint32, ox, oy int32, cx, cy uint32) {
	buf.WriteString(name)
	buf.WriteByte(0)
	binary.Write(buf, binary.LittleEndian, id)
	binary.Write(buf, binary.LittleEndian, ox)
	binary.Write(buf, binary.LittleEndian, oy)
	binary.Write(buf, binary.LittleEndian, cx)
	binary.Write(buf, binary.LittleEndian, cy)
}

// writeImageRecord appends a full Image record to buf.
func writeImageRecord(buf *bytes.Buffer, name string, id uint32, tex uint32, rect [4]uint32, orig [2]uint32) {
	writeRegion(buf, name, id, -3, 7, 1, 2)
	binary.Write(buf, binary.LittleEndian, tex)
	binary.Write(buf, binary.LittleEndian, rect)
	binary.Write(buf, binary.LittleEndian, orig)
}

func TestDecodeImage(t *testing.T) {
	var buf bytes.Buffer
	writeImageRecord(&buf, "hero_0", 12, 1, [4]uint32{8, 16, 32, 48}, [2]uint32{34, 50})

	img, err := decodeImage(newReader(&buf))
	if err != nil {
		t.Fatalf("decodeImage: %v", err)
	}

	want := Image{
		Region: Region{
			Name:    "hero_0",
			ID:      12,
			Offset:  Vec2{-3, 7},
			Clipped: Vec2{1, 2},
		},
		TextureNum:   1,
		Rect:         Rect{8, 16, 32, 48},
		OriginalSize: Size{34, 50},
	}
	if !reflect.DeepEqual(img, want) {
		t.Errorf("got %+v, expected %+v", img, want)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes left unread", buf.Len())
	}
}

func TestImage_EncodeMatchesLayout(t *testing.T) {
	var want bytes.Buffer
	writeImageRecord(&want, "hero_0", 12, 1, [4]uint32{8, 16, 32, 48}, [2]uint32{34, 50})

	img, err := decodeImage(newReader(bytes.NewReader(want.Bytes())))
	if err != nil {
		t.Fatal(err)
	}

	var got bytes.Buffer
	if err := img.encode(newWriter(&got)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Bytes(), want.Bytes()) {
		t.Errorf("got %v, expected %v", got.Bytes(), want.Bytes())
	}
}

func TestDecodeImage_Truncated(t *testing.T) {
	var buf bytes.Buffer
	writeImageRecord(&buf, "cut", 1, 0, [4]uint32{}, [2]uint32{})
	data := buf.Bytes()[:buf.Len()-2]

	_, err := decodeImage(newReader(bytes.NewReader(data)))
	if !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("expected ErrTruncatedInput, got %v", err)
	}
}

func TestBundle_RoundTrip(t *testing.T) {
	b := &ImageBundle{
		Region:     Region{Name: "tiles", ID: BaseIDBundles, Offset: Vec2{1, -1}, Clipped: Vec2{0, 4}},
		WidthCount: 2,
		Images: []Image{
			{Region: Region{Name: "grass", ID: 5}, Rect: Rect{0, 0, 16, 16}, OriginalSize: Size{16, 16}},
			{Region: Region{Name: "dirt", ID: 6}, TextureNum: 1, Rect: Rect{16, 0, 16, 16}, OriginalSize: Size{16, 16}},
		},
	}

	var buf bytes.Buffer
	if err := b.encode(newWriter(&buf)); err != nil {
		t.Fatal(err)
	}

	// The record starts with the bundle's own name, not an embedded image's.
	if !bytes.HasPrefix(buf.Bytes(), []byte("tiles\x00")) {
		t.Errorf("bundle record starts with %q", buf.Bytes()[:6])
	}

	got, err := decodeBundle(newReader(&buf), Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, b) {
		t.Errorf("got %+v, expected %+v", got, b)
	}
}

func TestDecodeBundle_Limit(t *testing.T) {
	var buf bytes.Buffer
	writeRegion(&buf, "big", 1, 0, 0, 0, 0)
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, uint32(1000))

	_, err := decodeBundle(newReader(&buf), Limits{MaxRecords: 10})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestRegion_NegativeClipRoundTrip(t *testing.T) {
	reg := Region{Name: "n", Clipped: Vec2{-1, 3}}
	var buf bytes.Buffer
	reg.encode(newWriter(&buf))

	got, err := decodeRegion(newReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if got != reg {
		t.Errorf("got %+v, expected %+v", got, reg)
	}
}
