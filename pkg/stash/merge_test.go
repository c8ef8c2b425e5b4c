// Copyright 2026 RGB Protocol
//
// Merge idempotence and rejection tests

package stash

import (
	"testing"

	"github.com/rgbprotocol/rgbd/pkg/types"
)

func TestMergeCommitsValidConsignmentAndReportsReveals(t *testing.T) {
	s, c := buildValidConsignment(t)
	tailSeal := c.StateTransitions[0].Transition.Assignments[0].Seal.Hash

	result, err := s.Merge(c, []types.OutpointHash{tailSeal})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(result.Revealed) != 1 {
		t.Fatalf("expected 1 revealed allocation, got %d", len(result.Revealed))
	}

	if _, _, err := s.ReadTransition(c.StateTransitions[0].Transition.NodeId()); err != nil {
		t.Fatalf("expected merged transition to be stored: %v", err)
	}
	if _, err := s.ReadGenesis(c.Genesis.ContractId()); err != nil {
		t.Fatalf("expected merged genesis to be stored: %v", err)
	}
}

func TestMergeRejectsInvalidConsignment(t *testing.T) {
	s, c := buildValidConsignment(t)
	c.StateTransitions[0].Transition.Inputs[0].Seal = types.OutpointHashFromBytes([32]byte{0xFE})

	if _, err := s.Merge(c, nil); err == nil {
		t.Fatalf("expected Merge to refuse an invalid consignment")
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	s, c := buildValidConsignment(t)
	if _, err := s.Merge(c, nil); err != nil {
		t.Fatalf("first Merge: %v", err)
	}
	if _, err := s.Merge(c, nil); err != nil {
		t.Fatalf("second Merge should be a no-op, got: %v", err)
	}
}
