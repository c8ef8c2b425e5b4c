// Copyright 2026 RGB Protocol
//
// Codec round-trip and strictness tests

package strictenc

import (
	"bytes"
	"testing"
)

func TestVarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 20, maxVarint - 1}
	for _, c := range cases {
		var buf bytes.Buffer
		if err := WriteVarint(&buf, c); err != nil {
			t.Fatalf("write %d: %v", c, err)
		}
		got, err := ReadVarint(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("read %d: %v", c, err)
		}
		if got != c {
			t.Fatalf("round trip %d -> %d", c, got)
		}
	}
}

func TestVarintRejectsOverflow(t *testing.T) {
	var buf bytes.Buffer
	// Encode a value at/above maxVarint by hand: four continuation bytes
	// of 0xff then a trailing byte that pushes the accumulator over the
	// cap (0x10 << 28 == 1<<32).
	for i := 0; i < 4; i++ {
		buf.WriteByte(0xff)
	}
	buf.WriteByte(0x10)
	if _, err := ReadVarint(bytes.NewReader(buf.Bytes())); err == nil {
		t.Fatalf("expected overflow rejection")
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.U8(7)
	w.Bool(true)
	w.U16(1000)
	w.U32(100000)
	w.U64(1 << 40)
	var arr [32]byte
	arr[0] = 0xAB
	w.Bytes32(arr)
	if err := w.VarBytes([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := w.VarString("world"); err != nil {
		t.Fatal(err)
	}

	r := NewReader(w.Bytes())
	if v, err := r.U8(); err != nil || v != 7 {
		t.Fatalf("U8 = %d, %v", v, err)
	}
	if v, err := r.Bool(); err != nil || v != true {
		t.Fatalf("Bool = %v, %v", v, err)
	}
	if v, err := r.U16(); err != nil || v != 1000 {
		t.Fatalf("U16 = %d, %v", v, err)
	}
	if v, err := r.U32(); err != nil || v != 100000 {
		t.Fatalf("U32 = %d, %v", v, err)
	}
	if v, err := r.U64(); err != nil || v != 1<<40 {
		t.Fatalf("U64 = %d, %v", v, err)
	}
	if v, err := r.Bytes32(); err != nil || v != arr {
		t.Fatalf("Bytes32 = %v, %v", v, err)
	}
	if v, err := r.VarBytes(); err != nil || string(v) != "hello" {
		t.Fatalf("VarBytes = %q, %v", v, err)
	}
	if v, err := r.VarString(); err != nil || v != "world" {
		t.Fatalf("VarString = %q, %v", v, err)
	}
	if err := r.ExpectEOF(); err != nil {
		t.Fatalf("expected EOF: %v", err)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	w := NewWriter()
	w.U8(1)
	w.U8(2)
	err := Decode(w.Bytes(), func(r *Reader) error {
		_, err := r.U8()
		return err
	})
	if err == nil {
		t.Fatalf("expected trailing-byte rejection")
	}
}

func TestBoolRejectsInvalidByte(t *testing.T) {
	r := NewReader([]byte{0x02})
	if _, err := r.Bool(); err == nil {
		t.Fatalf("expected invalid bool rejection")
	}
}

func TestVarBytesRejectsOversizedLength(t *testing.T) {
	w := NewWriter()
	_ = w.Varint(1000)
	r := NewReader(w.Bytes())
	if _, err := r.VarBytes(); err == nil {
		t.Fatalf("expected declared-length rejection")
	}
}
