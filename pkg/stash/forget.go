// Copyright 2026 RGB Protocol
//
// Owned-right record removal with descendant protection

package stash

import (
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// hasDescendant reports whether any stored transition still consumes one
// of producedSeals, used by Forget to refuse removing a transition whose
// descendants are still present.
func (s *Store) hasDescendant(producedSeals map[types.OutpointHash]struct{}) (bool, error) {
	if len(producedSeals) == 0 {
		return false, nil
	}
	found := false
	err := s.kv.IteratePrefix(prefixTransition, func(_, value []byte) error {
		if found {
			return nil
		}
		_, transition, err := decodeAnchoredTransition(value)
		if err != nil {
			return err
		}
		for _, in := range transition.Inputs {
			if _, ok := producedSeals[in.Seal]; ok {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

// Forget removes the listed (NodeId, assignment index) owned-right
// records from the reverse index; once a transition has no assignments
// left indexed and no descendant consumes any of its outputs, the
// transition itself is removed. A rejected Forget removes nothing: every
// check runs before the first deletion, so ResolveSeal keeps working on
// the untouched index after a rejection.
func (s *Store) Forget(entries []RevIndexEntry) error {
	type removal struct {
		entry RevIndexEntry
		seal  types.OutpointHash
	}
	var removals []removal
	touched := map[types.NodeId]map[uint32]struct{}{}
	for _, e := range entries {
		sealBytes, err := s.kv.Get(fwdIndexKey(e.Node, e.Index))
		if err != nil {
			return err
		}
		if sealBytes == nil {
			// already forgotten, or never indexed: Forget is idempotent
			// per assignment.
			continue
		}
		var seal [32]byte
		copy(seal[:], sealBytes)
		removals = append(removals, removal{entry: e, seal: types.OutpointHashFromBytes(seal)})
		if touched[e.Node] == nil {
			touched[e.Node] = map[uint32]struct{}{}
		}
		touched[e.Node][e.Index] = struct{}{}
	}

	// Decide which transitions would lose their last indexed assignment,
	// and whether removing each is permitted, before mutating anything.
	var removeNodes []types.NodeId
	for node, indexes := range touched {
		indexed, err := s.countAssignmentsIndexed(node)
		if err != nil {
			return err
		}
		if indexed > len(indexes) {
			continue
		}
		encoded, err := s.kv.Get(transitionKey(node))
		if err != nil {
			return err
		}
		if encoded == nil {
			// a genesis node: only its index entries need forgetting.
			continue
		}
		_, transition, err := decodeAnchoredTransition(encoded)
		if err != nil {
			return err
		}
		producedSeals := map[types.OutpointHash]struct{}{}
		for _, a := range transition.Assignments {
			producedSeals[a.Seal.Hash] = struct{}{}
		}
		hasDesc, err := s.hasDescendant(producedSeals)
		if err != nil {
			return err
		}
		if hasDesc {
			return rgberrors.Wrap(rgberrors.KindDomain, "cannot forget a transition with live descendants", rgberrors.ErrStashRejection)
		}
		removeNodes = append(removeNodes, node)
	}

	for _, r := range removals {
		if err := s.kv.Delete(revIndexKey(r.seal, r.entry.Node, r.entry.Index)); err != nil {
			return err
		}
		if err := s.kv.Delete(fwdIndexKey(r.entry.Node, r.entry.Index)); err != nil {
			return err
		}
	}
	for _, node := range removeNodes {
		if err := s.kv.Delete(transitionKey(node)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) countAssignmentsIndexed(node types.NodeId) (int, error) {
	count := 0
	err := s.kv.IteratePrefix(fwdIndexNodePrefix(node), func(_, _ []byte) error {
		count++
		return nil
	})
	return count, err
}
