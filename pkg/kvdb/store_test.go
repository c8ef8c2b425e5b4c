// Copyright 2026 RGB Protocol
//
// Prefix-scan and durability adapter tests

package kvdb

import "testing"

func TestSetGetDelete(t *testing.T) {
	s := NewMemStore()
	defer s.Close()

	if err := s.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := s.Get([]byte("a"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != "1" {
		t.Fatalf("unexpected value: %q", v)
	}

	if err := s.Delete([]byte("a")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	v, err = s.Get([]byte("a"))
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil after delete, got %q", v)
	}
}

func TestIteratePrefix(t *testing.T) {
	s := NewMemStore()
	defer s.Close()

	_ = s.Set([]byte("schema/01"), []byte("a"))
	_ = s.Set([]byte("schema/02"), []byte("b"))
	_ = s.Set([]byte("genesis/01"), []byte("c"))

	var got []string
	err := s.IteratePrefix([]byte("schema/"), func(key, value []byte) error {
		got = append(got, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("IteratePrefix: %v", err)
	}
	if len(got) != 2 || got[0] != "schema/01" || got[1] != "schema/02" {
		t.Fatalf("unexpected prefix scan result: %v", got)
	}
}

func TestPrefixUpperBound(t *testing.T) {
	if got := prefixUpperBound([]byte("ab")); string(got) != "ac" {
		t.Fatalf("unexpected upper bound: %q", got)
	}
	if got := prefixUpperBound([]byte{0xFF, 0xFF}); got != nil {
		t.Fatalf("expected nil upper bound for all-0xFF prefix, got %v", got)
	}
}
