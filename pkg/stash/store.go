// Copyright 2026 RGB Protocol
//
// Content-addressed tables: schemata, geneses, transitions, reverse index

// Package stash implements the content-addressed store of schemata,
// geneses, transitions, and anchors, and the consignment engine that
// assembles, validates, merges, and forgets ancestry slices over it.
package stash

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/rgbprotocol/rgbd/pkg/kvdb"
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/strictenc"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

var (
	prefixSchema     = []byte("schema/")
	prefixGenesis    = []byte("genesis/")
	prefixTransition = []byte("transition/")
	prefixRevIndex   = []byte("revidx/")
	prefixFwdIndex   = []byte("fwdidx/")
)

// Store is the stash's four content-addressed tables: schemata, geneses,
// transitions (each paired with its anchor), and a reverse index from
// OutpointHash to the (NodeId, assignment index) pairs that seal it, used
// to walk a transition's ancestry backward during consignment assembly.
type Store struct {
	kv *kvdb.Store
}

// New wraps an opened kvdb.Store as a stash Store.
func New(kv *kvdb.Store) *Store {
	return &Store{kv: kv}
}

func schemaKey(id types.SchemaId) []byte {
	return append(append([]byte(nil), prefixSchema...), id.Hash256[:]...)
}

func genesisKey(id types.ContractId) []byte {
	return append(append([]byte(nil), prefixGenesis...), id.Hash256[:]...)
}

func transitionKey(id types.NodeId) []byte {
	return append(append([]byte(nil), prefixTransition...), id.Hash256[:]...)
}

func revIndexKey(oh types.OutpointHash, node types.NodeId, index uint32) []byte {
	key := append([]byte(nil), prefixRevIndex...)
	key = append(key, oh.Hash256[:]...)
	key = append(key, node.Hash256[:]...)
	var idxBuf [4]byte
	binary.LittleEndian.PutUint32(idxBuf[:], index)
	return append(key, idxBuf[:]...)
}

func revIndexPrefix(oh types.OutpointHash) []byte {
	return append(append([]byte(nil), prefixRevIndex...), oh.Hash256[:]...)
}

// fwdIndexKey maps a produced assignment's (node, index) back to the
// OutpointHash it was sealed to, letting Forget, which addresses records
// by (node id, assignment index) rather than by seal, find and remove
// the matching reverse-index entry.
func fwdIndexKey(node types.NodeId, index uint32) []byte {
	key := append(append([]byte(nil), prefixFwdIndex...), node.Hash256[:]...)
	var idxBuf [4]byte
	binary.LittleEndian.PutUint32(idxBuf[:], index)
	return append(key, idxBuf[:]...)
}

func fwdIndexNodePrefix(node types.NodeId) []byte {
	return append(append([]byte(nil), prefixFwdIndex...), node.Hash256[:]...)
}

// AddSchema installs a schema idempotently. A second call with a
// bit-identical encoding is a no-op; a call whose id collides with a
// stored schema of different content is rejected; in practice only
// reachable by a hash collision, but the check is cheap and AddGenesis
// makes the same guarantee.
func (s *Store) AddSchema(schema *types.Schema) error {
	id := schema.Id()
	encoded := schema.Encode()
	existing, err := s.kv.Get(schemaKey(id))
	if err != nil {
		return err
	}
	if existing != nil {
		if !bytes.Equal(existing, encoded) {
			return rgberrors.Wrap(rgberrors.KindDomain, "schema id collision with different content", rgberrors.ErrStashRejection)
		}
		return nil
	}
	return s.kv.Set(schemaKey(id), encoded)
}

// ReadSchema looks up a schema by id.
func (s *Store) ReadSchema(id types.SchemaId) (*types.Schema, error) {
	encoded, err := s.kv.Get(schemaKey(id))
	if err != nil {
		return nil, err
	}
	if encoded == nil {
		return nil, rgberrors.Wrap(rgberrors.KindDomain, fmt.Sprintf("schema %s not found", id.Hash256.String()), rgberrors.ErrCacheMiss)
	}
	return types.DecodeSchema(encoded)
}

// ListSchemata returns every installed schema.
func (s *Store) ListSchemata() ([]*types.Schema, error) {
	var out []*types.Schema
	err := s.kv.IteratePrefix(prefixSchema, func(_, value []byte) error {
		schema, err := types.DecodeSchema(value)
		if err != nil {
			return err
		}
		out = append(out, schema)
		return nil
	})
	return out, err
}

// AddGenesis adds a contract's root node idempotently, rejecting a
// different genesis under an already-stored id, and indexes its
// assignments in the reverse index so later transitions can resolve
// their inputs.
func (s *Store) AddGenesis(genesis *types.Genesis) error {
	id := genesis.ContractId()
	encoded := genesis.Encode()
	existing, err := s.kv.Get(genesisKey(id))
	if err != nil {
		return err
	}
	if existing != nil {
		if !bytes.Equal(existing, encoded) {
			return rgberrors.Wrap(rgberrors.KindDomain, "genesis id collision with different content", rgberrors.ErrStashRejection)
		}
		return nil
	}
	if err := s.kv.Set(genesisKey(id), encoded); err != nil {
		return err
	}
	return s.indexAssignments(genesis.NodeId(), genesis.Assignments)
}

// ReadGenesis looks up a contract's genesis by id.
func (s *Store) ReadGenesis(id types.ContractId) (*types.Genesis, error) {
	encoded, err := s.kv.Get(genesisKey(id))
	if err != nil {
		return nil, err
	}
	if encoded == nil {
		return nil, rgberrors.Wrap(rgberrors.KindDomain, fmt.Sprintf("genesis %s not found", id.Hash256.String()), rgberrors.ErrCacheMiss)
	}
	return types.DecodeGenesis(encoded)
}

// ListGeneses returns every known contract's genesis.
func (s *Store) ListGeneses() ([]*types.Genesis, error) {
	var out []*types.Genesis
	err := s.kv.IteratePrefix(prefixGenesis, func(_, value []byte) error {
		genesis, err := types.DecodeGenesis(value)
		if err != nil {
			return err
		}
		out = append(out, genesis)
		return nil
	})
	return out, err
}

func encodeAnchoredTransition(anchor *types.Anchor, transition *types.Transition) []byte {
	w := strictenc.NewWriter()
	_ = w.VarBytes(anchor.Encode())
	_ = w.VarBytes(transition.Encode())
	return w.Bytes()
}

func decodeAnchoredTransition(b []byte) (*types.Anchor, *types.Transition, error) {
	var anchor *types.Anchor
	var transition *types.Transition
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		anchorBytes, err := r.VarBytes()
		if err != nil {
			return err
		}
		a, err := types.DecodeAnchor(anchorBytes)
		if err != nil {
			return err
		}
		transitionBytes, err := r.VarBytes()
		if err != nil {
			return err
		}
		t, err := types.DecodeTransition(transitionBytes)
		if err != nil {
			return err
		}
		anchor, transition = a, t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return anchor, transition, nil
}

// AddTransition stores a transition alongside its anchor, idempotently,
// and indexes its produced assignments.
func (s *Store) AddTransition(anchor *types.Anchor, transition *types.Transition) error {
	id := transition.NodeId()
	encoded := encodeAnchoredTransition(anchor, transition)
	existing, err := s.kv.Get(transitionKey(id))
	if err != nil {
		return err
	}
	if existing != nil {
		if !bytes.Equal(existing, encoded) {
			return rgberrors.Wrap(rgberrors.KindDomain, "transition id collision with different content", rgberrors.ErrStashRejection)
		}
		return nil
	}
	if err := s.kv.Set(transitionKey(id), encoded); err != nil {
		return err
	}
	return s.indexAssignments(id, transition.Assignments)
}

func (s *Store) indexAssignments(node types.NodeId, assignments []types.Assignment) error {
	for i, a := range assignments {
		idx := uint32(i)
		if err := s.kv.Set(revIndexKey(a.Seal.Hash, node, idx), []byte{}); err != nil {
			return err
		}
		sealBytes := a.Seal.Hash.Bytes()
		if err := s.kv.Set(fwdIndexKey(node, idx), sealBytes[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadTransitions returns the (anchor, transition) pair for each id in
// ids, in the same order.
func (s *Store) ReadTransitions(ids []types.NodeId) ([]*types.Anchor, []*types.Transition, error) {
	anchors := make([]*types.Anchor, len(ids))
	transitions := make([]*types.Transition, len(ids))
	for i, id := range ids {
		encoded, err := s.kv.Get(transitionKey(id))
		if err != nil {
			return nil, nil, err
		}
		if encoded == nil {
			return nil, nil, rgberrors.Wrap(rgberrors.KindDomain, fmt.Sprintf("transition %s not found", id.Hash256.String()), rgberrors.ErrMissingAncestor)
		}
		anchor, transition, err := decodeAnchoredTransition(encoded)
		if err != nil {
			return nil, nil, err
		}
		anchors[i] = anchor
		transitions[i] = transition
	}
	return anchors, transitions, nil
}

// ReadTransition is a single-id convenience wrapper over ReadTransitions.
func (s *Store) ReadTransition(id types.NodeId) (*types.Anchor, *types.Transition, error) {
	anchors, transitions, err := s.ReadTransitions([]types.NodeId{id})
	if err != nil {
		return nil, nil, err
	}
	return anchors[0], transitions[0], nil
}

// RevIndexEntry is one (NodeId, assignment index) pair a reverse-index
// lookup returns for a given sealed outpoint.
type RevIndexEntry struct {
	Node  types.NodeId
	Index uint32
}

// ResolveSeal looks up which node produced the assignment sealed at oh.
// Zero or more than one entry is possible in principle (a confidential
// seal hash collision or, more realistically, a stash that has indexed
// the same seal from two different transitions before one was forgotten);
// callers in the consignment engine take the first and ignore any
// additional entries without logging or failing.
func (s *Store) ResolveSeal(oh types.OutpointHash) ([]RevIndexEntry, error) {
	var out []RevIndexEntry
	prefix := revIndexPrefix(oh)
	err := s.kv.IteratePrefix(prefix, func(key, _ []byte) error {
		rest := key[len(prefix):]
		if len(rest) != 32+4 {
			return fmt.Errorf("stash: malformed reverse-index key length %d", len(rest))
		}
		var nodeBytes [32]byte
		copy(nodeBytes[:], rest[:32])
		index := binary.LittleEndian.Uint32(rest[32:36])
		out = append(out, RevIndexEntry{Node: types.NodeIdFromBytes(nodeBytes), Index: index})
		return nil
	})
	return out, err
}
