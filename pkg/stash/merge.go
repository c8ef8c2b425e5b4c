// Copyright 2026 RGB Protocol
//
// Validate-then-commit merge with reveal attribution

package stash

import (
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// RevealedAllocation is an assignment the merge caller asked to attribute:
// the caller supplied the (outpoint, blinding) behind a confidential seal,
// so the merged node's state can be recorded revealed rather than opaque.
type RevealedAllocation struct {
	Node          types.NodeId
	AssignmentIdx int
	Assignment    types.Assignment
}

// MergeResult reports what a successful Merge attributed: every produced
// assignment whose seal hash matched one of the caller's reveal_outpoints.
type MergeResult struct {
	Revealed []RevealedAllocation
}

// Merge validates a consignment and, only if it is valid, commits every node in
// it to the stash. AddGenesis/AddTransition are both idempotent, so Merge is
// safe to call twice on the same consignment.
func (s *Store) Merge(c *types.Consignment, revealOutpoints []types.OutpointHash) (*MergeResult, error) {
	status, err := s.Validate(c)
	if err != nil {
		return nil, err
	}
	if !status.Valid {
		return nil, rgberrors.Wrap(rgberrors.KindDomain, "consignment failed validation: "+firstFailure(status), rgberrors.ErrStashRejection)
	}

	if err := s.AddGenesis(&c.Genesis); err != nil {
		return nil, err
	}
	for _, st := range c.StateTransitions {
		anchor, transition := st.Anchor, st.Transition
		if err := s.AddTransition(&anchor, &transition); err != nil {
			return nil, err
		}
	}

	wanted := map[types.OutpointHash]struct{}{}
	for _, oh := range revealOutpoints {
		wanted[oh] = struct{}{}
	}

	result := &MergeResult{}
	recordReveals := func(node types.NodeId, assignments []types.Assignment) {
		for i, a := range assignments {
			if _, ok := wanted[a.Seal.Hash]; !ok {
				continue
			}
			result.Revealed = append(result.Revealed, RevealedAllocation{
				Node:          node,
				AssignmentIdx: i,
				Assignment:    a,
			})
		}
	}
	recordReveals(c.Genesis.NodeId(), c.Genesis.Assignments)
	for _, st := range c.StateTransitions {
		recordReveals(st.Transition.NodeId(), st.Transition.Assignments)
	}

	return result, nil
}

func firstFailure(status *ValidationStatus) string {
	if len(status.Failures) == 0 {
		return "unknown reason"
	}
	return status.Failures[0]
}
