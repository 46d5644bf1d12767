package spk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// reader decodes little-endian primitives from a stream. It never reads past
// the primitive being decoded.
type reader struct {
	r   io.Reader
	buf [4]byte
}

func newReader(r io.Reader) *reader {
	return &reader{r: r}
}

// readFull fills p, mapping a short read to ErrTruncatedInput.
func (r *reader) readFull(p []byte, what string) error {
	if _, err := io.ReadFull(r.r, p); err != nil {
		return truncated(err, what)
	}
	return nil
}

func truncated(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrTruncatedInput, what)
	}
	return fmt.Errorf("reading %s: %w", what, err)
}

func (r *reader) readU32(what string) (uint32, error) {
	if err := r.readFull(r.buf[:4], what); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[:4]), nil
}

func (r *reader) readI32(what string) (int32, error) {
	v, err := r.readU32(what)
	return int32(v), err
}

func (r *reader) readByte(what string) (byte, error) {
	if br, ok := r.r.(io.ByteReader); ok {
		b, err := br.ReadByte()
		if err != nil {
			return 0, truncated(err, what)
		}
		return b, nil
	}
	if err := r.readFull(r.buf[:1], what); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// readCString reads an ASCII string up to and excluding its NUL terminator.
func (r *reader) readCString(what string) (string, error) {
	var s []byte
	for {
		b, err := r.readByte(what)
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(s), nil
		}
		if b >= 0x80 {
			return "", fmt.Errorf("%w: %s contains byte 0x%02X", ErrInvalidEncoding, what, b)
		}
		s = append(s, b)
	}
}

// writer encodes little-endian primitives. The first write error sticks and
// every later call is a no-op, so callers check err once per record.
type writer struct {
	w   io.Writer
	buf [4]byte
	err error
}

func newWriter(w io.Writer) *writer {
	return &writer{w: w}
}

func (w *writer) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}

func (w *writer) writeU32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

func (w *writer) writeI32(v int32) {
	w.writeU32(uint32(v))
}

func (w *writer) writeByte(b byte) {
	w.buf[0] = b
	w.write(w.buf[:1])
}

// writeCString writes s followed by a single NUL.
func (w *writer) writeCString(s string) {
	if w.err != nil {
		return
	}
	if err := checkName(s); err != nil {
		w.err = err
		return
	}
	w.write([]byte(s))
	w.writeByte(0)
}

// checkName rejects strings the format cannot carry.
func checkName(s string) error {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == 0:
			return fmt.Errorf("%w: %q contains NUL", ErrInvalidEncoding, s)
		case c >= 0x80:
			return fmt.Errorf("%w: %q is not ASCII", ErrInvalidEncoding, s)
		}
	}
	return nil
}
