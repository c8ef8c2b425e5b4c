// Copyright 2026 RGB Protocol
//
// Strict encoding reader with trailing-byte rejection

package strictenc

import (
	"bytes"
	"fmt"
	"io"
)

// Reader consumes a strict encoding produced by Writer. Every entity's
// Decode function takes a *Reader; decoding is strict, not permissive:
// any trailing bytes left in the top-level reader after Decode, or any
// tag value the reader doesn't recognize, is an error.
type Reader struct {
	r *bytes.Reader
}

// NewReader wraps raw bytes for decoding.
func NewReader(b []byte) *Reader { return &Reader{r: bytes.NewReader(b)} }

// Remaining reports how many bytes are left unconsumed.
func (r *Reader) Remaining() int { return r.r.Len() }

// ExpectEOF returns an error if the reader has unconsumed trailing bytes.
func (r *Reader) ExpectEOF() error {
	if r.r.Len() != 0 {
		return fmt.Errorf("strictenc: %d trailing byte(s) after decode", r.r.Len())
	}
	return nil
}

func (r *Reader) U8() (uint8, error) { return r.r.ReadByte() }

func (r *Reader) Bool() (bool, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("strictenc: invalid bool byte 0x%02x", b)
	}
}

func (r *Reader) fixed(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.fixed(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.fixed(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.fixed(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

func (r *Reader) Varint() (uint64, error) { return ReadVarint(r.r) }

func (r *Reader) Bytes32() ([32]byte, error) {
	var out [32]byte
	b, err := r.fixed(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func (r *Reader) VarBytes() ([]byte, error) {
	n, err := r.Varint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.r.Len()) {
		return nil, fmt.Errorf("strictenc: declared length %d exceeds remaining %d bytes", n, r.r.Len())
	}
	return r.fixed(int(n))
}

func (r *Reader) VarString() (string, error) {
	b, err := r.VarBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode is a convenience wrapper: it runs fn against a fresh Reader over
// b and requires the whole buffer to be consumed.
func Decode(b []byte, fn func(*Reader) error) error {
	r := NewReader(b)
	if err := fn(r); err != nil {
		return err
	}
	return r.ExpectEOF()
}
