package spk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

func TestAnimation_ColumnarEncoding(t *testing.T) {
	a := &Animation{
		Name:      "idle",
		Keyframes: []Keyframe{{ImageID: 5, Step: 1, Delay: DelayInfinite}},
	}

	var got bytes.Buffer
	if err := a.encode(newWriter(&got)); err != nil {
		t.Fatal(err)
	}

	var want bytes.Buffer
	want.WriteString("idle\x00")
	binary.Write(&want, binary.LittleEndian, []int32{1, 5, 1, -1})

	if !bytes.Equal(got.Bytes(), want.Bytes()) {
		t.Errorf("got %v, expected %v", got.Bytes(), want.Bytes())
	}
}

func TestAnimation_ColumnOrder(t *testing.T) {
	a := &Animation{
		Name: "walk",
		Keyframes: []Keyframe{
			{ImageID: 10, Step: 0, Delay: 100},
			{ImageID: 11, Step: 1, Delay: 120},
			{ImageID: 12, Step: 2, Delay: 140},
		},
	}

	var buf bytes.Buffer
	if err := a.encode(newWriter(&buf)); err != nil {
		t.Fatal(err)
	}

	body := buf.Bytes()[len("walk\x00"):]
	cols := make([]int32, len(body)/4)
	binary.Read(bytes.NewReader(body), binary.LittleEndian, cols)

	want := []int32{3, 10, 11, 12, 0, 1, 2, 100, 120, 140}
	if !reflect.DeepEqual(cols, want) {
		t.Errorf("got %v, expected %v", cols, want)
	}

	got, err := decodeAnimation(newReader(&buf), Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, a) {
		t.Errorf("got %+v, expected %+v", got, a)
	}
}

func TestDecodeAnimation_Errors(t *testing.T) {
	tests := []struct {
		name   string
		count  int32
		body   []int32
		limits Limits
		want   error
	}{
		{"negative count", -1, nil, Limits{}, ErrBadFileFormat},
		{"missing delays", 2, []int32{1, 2, 0, 1}, Limits{}, ErrTruncatedInput},
		{"over limit", 50, nil, Limits{MaxRecords: 10}, ErrLimitExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			buf.WriteString("a\x00")
			binary.Write(&buf, binary.LittleEndian, tt.count)
			if tt.body != nil {
				binary.Write(&buf, binary.LittleEndian, tt.body)
			}
			_, err := decodeAnimation(newReader(&buf), tt.limits)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestKeyframe_String(t *testing.T) {
	k := Keyframe{ImageID: 3, Step: 0, Delay: -1}
	if got, want := k.String(), "(Image: 3, Step: 0, Delay: -1)"; got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
	if !k.IsHold() {
		t.Error("expected delay -1 to be a hold")
	}
}
