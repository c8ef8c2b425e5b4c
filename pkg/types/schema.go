// Copyright 2026 RGB Protocol
//
// Declarative contract schema: owned rights, state kinds, transition rules

package types

import (
	"fmt"
	"sort"

	"github.com/rgbprotocol/rgbd/pkg/strictenc"
)

// StateKind tags how an owned-right type's state is shaped. Declarative
// rights (e.g. an inflation right) carry no amount at all; Amount rights
// carry the confidential/revealed fungible amount this engine's Pedersen
// commitments (pkg/commitment) protect.
type StateKind uint8

const (
	StateDeclarative StateKind = iota
	StateAmount
)

// MetaFieldType tags the shape of a metadata field declared by a Schema.
type MetaFieldType uint8

const (
	MetaFieldBytes MetaFieldType = iota
	MetaFieldString
	MetaFieldU64
)

// TransitionRule constrains which owned-right types a transition of this
// type may consume and produce, and which metadata fields it must carry.
type TransitionRule struct {
	Name           string
	AllowedInputs  map[uint16]bool
	AllowedOutputs map[uint16]bool
	RequiredMeta   []uint16
}

// Schema is the declarative contract template: the permitted owned-right
// types, their state kinds, metadata fields, and transition rules. A
// Schema is immutable once installed.
type Schema struct {
	Name            string
	OwnedRightTypes map[uint16]string
	StateTypes      map[uint16]StateKind
	MetaFields      map[uint16]MetaFieldType
	TransitionTypes map[uint16]TransitionRule
}

// Id computes the SchemaId: the content hash of the schema's strict
// encoding.
func (s *Schema) Id() SchemaId {
	return SchemaIdFromBytes([32]byte(HashBytes(s.Encode())))
}

func sortedU16Keys[V any](m map[uint16]V) []uint16 {
	keys := make([]uint16, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Encode produces the strict binary encoding of the schema. Maps are
// always emitted in ascending key order.
func (s *Schema) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.VarString(s.Name)

	ortKeys := sortedU16Keys(s.OwnedRightTypes)
	_ = w.Varint(uint64(len(ortKeys)))
	for _, k := range ortKeys {
		w.U16(k)
		_ = w.VarString(s.OwnedRightTypes[k])
	}

	stKeys := sortedU16Keys(s.StateTypes)
	_ = w.Varint(uint64(len(stKeys)))
	for _, k := range stKeys {
		w.U16(k)
		w.U8(uint8(s.StateTypes[k]))
	}

	mfKeys := sortedU16Keys(s.MetaFields)
	_ = w.Varint(uint64(len(mfKeys)))
	for _, k := range mfKeys {
		w.U16(k)
		w.U8(uint8(s.MetaFields[k]))
	}

	ttKeys := sortedU16Keys(s.TransitionTypes)
	_ = w.Varint(uint64(len(ttKeys)))
	for _, k := range ttKeys {
		rule := s.TransitionTypes[k]
		w.U16(k)
		_ = w.VarString(rule.Name)
		encodeU16BoolMap(w, rule.AllowedInputs)
		encodeU16BoolMap(w, rule.AllowedOutputs)
		req := append([]uint16(nil), rule.RequiredMeta...)
		sort.Slice(req, func(i, j int) bool { return req[i] < req[j] })
		_ = w.Varint(uint64(len(req)))
		for _, m := range req {
			w.U16(m)
		}
	}
	return w.Bytes()
}

func encodeU16BoolMap(w *strictenc.Writer, m map[uint16]bool) {
	keys := sortedU16Keys(m)
	_ = w.Varint(uint64(len(keys)))
	for _, k := range keys {
		w.U16(k)
	}
}

// DecodeSchema decodes a strict-encoded Schema.
func DecodeSchema(b []byte) (*Schema, error) {
	s := &Schema{
		OwnedRightTypes: map[uint16]string{},
		StateTypes:      map[uint16]StateKind{},
		MetaFields:      map[uint16]MetaFieldType{},
		TransitionTypes: map[uint16]TransitionRule{},
	}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		name, err := r.VarString()
		if err != nil {
			return err
		}
		s.Name = name

		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			k, err := r.U16()
			if err != nil {
				return err
			}
			v, err := r.VarString()
			if err != nil {
				return err
			}
			s.OwnedRightTypes[k] = v
		}

		n, err = r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			k, err := r.U16()
			if err != nil {
				return err
			}
			v, err := r.U8()
			if err != nil {
				return err
			}
			if v > uint8(StateAmount) {
				return fmt.Errorf("types: unknown StateKind tag %d", v)
			}
			s.StateTypes[k] = StateKind(v)
		}

		n, err = r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			k, err := r.U16()
			if err != nil {
				return err
			}
			v, err := r.U8()
			if err != nil {
				return err
			}
			if v > uint8(MetaFieldU64) {
				return fmt.Errorf("types: unknown MetaFieldType tag %d", v)
			}
			s.MetaFields[k] = MetaFieldType(v)
		}

		n, err = r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			k, err := r.U16()
			if err != nil {
				return err
			}
			ruleName, err := r.VarString()
			if err != nil {
				return err
			}
			inputs, err := decodeU16BoolMap(r)
			if err != nil {
				return err
			}
			outputs, err := decodeU16BoolMap(r)
			if err != nil {
				return err
			}
			mn, err := r.Varint()
			if err != nil {
				return err
			}
			req := make([]uint16, 0, mn)
			for j := uint64(0); j < mn; j++ {
				m, err := r.U16()
				if err != nil {
					return err
				}
				req = append(req, m)
			}
			s.TransitionTypes[k] = TransitionRule{
				Name:           ruleName,
				AllowedInputs:  inputs,
				AllowedOutputs: outputs,
				RequiredMeta:   req,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodeU16BoolMap(r *strictenc.Reader) (map[uint16]bool, error) {
	n, err := r.Varint()
	if err != nil {
		return nil, err
	}
	out := make(map[uint16]bool, n)
	for i := uint64(0); i < n; i++ {
		k, err := r.U16()
		if err != nil {
			return nil, err
		}
		out[k] = true
	}
	return out, nil
}
