// Copyright 2026 RGB Protocol
//
// Strict encoding writer

package strictenc

import (
	"bytes"
	"sort"
)

// Writer accumulates a strict encoding. Every entity's Encode method takes
// a *Writer and appends to it; the zero value is ready to use.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// U8 appends a single byte.
func (w *Writer) U8(v uint8) { w.buf.WriteByte(v) }

// Bool appends a single byte, 0 or 1.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// U16 appends a fixed-width little-endian uint16.
func (w *Writer) U16(v uint16) { w.buf.Write(PutUint16(nil, v)) }

// U32 appends a fixed-width little-endian uint32.
func (w *Writer) U32(v uint32) { w.buf.Write(PutUint32(nil, v)) }

// U64 appends a fixed-width little-endian uint64.
func (w *Writer) U64(v uint64) { w.buf.Write(PutUint64(nil, v)) }

// Varint appends a small-varint length or count.
func (w *Writer) Varint(v uint64) error { return WriteVarint(&w.buf, v) }

// Bytes32 appends a fixed 32-byte array verbatim: fixed-width fields never
// carry a length prefix.
func (w *Writer) Bytes32(v [32]byte) { w.buf.Write(v[:]) }

// VarBytes appends a varint-length-prefixed byte string.
func (w *Writer) VarBytes(v []byte) error {
	if err := w.Varint(uint64(len(v))); err != nil {
		return err
	}
	w.buf.Write(v)
	return nil
}

// VarString appends a varint-length-prefixed UTF-8 string.
func (w *Writer) VarString(v string) error { return w.VarBytes([]byte(v)) }

// Raw appends bytes verbatim with no length prefix, for embedding an
// already-self-delimiting sub-encoding.
func (w *Writer) Raw(v []byte) { w.buf.Write(v) }

// SortedMapKeys returns keys sorted ascending, the only order a map may
// be emitted in. pkg/types uses it for its string-keyed maps; its
// uint16-keyed maps are sorted ascending by a helper of its own.
func SortedMapKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}
