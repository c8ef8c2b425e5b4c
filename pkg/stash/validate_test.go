// Copyright 2026 RGB Protocol
//
// Validation invariant and boundary tests

package stash

import (
	"strings"
	"testing"

	"github.com/rgbprotocol/rgbd/pkg/commitment"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// ruleState builds an amount state blinded the way the balance check
// expects: under the assignment's own seal hash.
func ruleState(amount uint64, seal types.OutpointHash) types.State {
	return types.NewAmountState(amount, commitment.BlindingFromSeed(seal.Hash256[:]))
}

func fungibleTestSchema() *types.Schema {
	return &types.Schema{
		Name:            "test.fungible",
		OwnedRightTypes: map[uint16]string{0: "balance"},
		StateTypes:      map[uint16]types.StateKind{0: types.StateAmount},
		MetaFields:      map[uint16]types.MetaFieldType{0: types.MetaFieldString},
		TransitionTypes: map[uint16]types.TransitionRule{
			1: {
				Name:           "transfer",
				AllowedInputs:  map[uint16]bool{0: true},
				AllowedOutputs: map[uint16]bool{0: true},
			},
		},
	}
}

func buildValidConsignment(t *testing.T) (*Store, *types.Consignment) {
	t.Helper()
	s := newTestStore(t)
	schema := fungibleTestSchema()
	if err := s.AddSchema(schema); err != nil {
		t.Fatalf("AddSchema: %v", err)
	}

	genesisSeal := types.OutpointHashFromBytes([32]byte{0x01})
	genesis := types.Genesis{
		Schema:  schema.Id(),
		Network: "testnet",
		Metadata: map[uint16][]byte{
			0: []byte("USDX"),
		},
		Assignments: []types.Assignment{
			{OwnedRightType: 0, Seal: types.Seal{Confidential: true, Hash: genesisSeal}, State: ruleState(1000, genesisSeal)},
		},
	}

	tailSeal := types.OutpointHashFromBytes([32]byte{0x02})
	tail := types.Transition{
		TransitionType: 1,
		Inputs:         []types.Input{{Seal: genesisSeal}},
		Assignments: []types.Assignment{
			{OwnedRightType: 0, Seal: types.Seal{Confidential: true, Hash: tailSeal}, State: ruleState(1000, tailSeal)},
		},
	}
	anchor := types.NewLeafAnchor(txidN(0x70), 0, tail.NodeId())

	c := &types.Consignment{
		Genesis:          genesis,
		StateTransitions: []types.AnchoredTransition{{Anchor: anchor, Transition: tail}},
		Endpoints:        []types.Endpoint{{Node: tail.NodeId(), Seal: tailSeal}},
	}
	return s, c
}

func TestValidateAcceptsWellFormedConsignment(t *testing.T) {
	s, c := buildValidConsignment(t)

	status, err := s.Validate(c)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !status.Valid {
		t.Fatalf("expected a valid consignment, got failures: %v", status.Failures)
	}
}

func TestValidateRejectsBrokenHomomorphism(t *testing.T) {
	s, c := buildValidConsignment(t)
	// Corrupt the transition's output amount so it no longer balances
	// against the genesis issuance it consumes.
	tamperedSeal := c.StateTransitions[0].Transition.Assignments[0].Seal.Hash
	c.StateTransitions[0].Transition.Assignments[0].State = ruleState(999, tamperedSeal)

	status, err := s.Validate(c)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if status.Valid {
		t.Fatalf("expected homomorphism failure to be caught")
	}
	found := false
	for _, f := range status.Failures {
		if strings.Contains(f, "does not balance") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a balance failure, got: %v", status.Failures)
	}
}

func TestValidateRejectsUnresolvableInput(t *testing.T) {
	s, c := buildValidConsignment(t)
	c.StateTransitions[0].Transition.Inputs[0].Seal = types.OutpointHashFromBytes([32]byte{0xFF})

	status, err := s.Validate(c)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if status.Valid {
		t.Fatalf("expected referential-closure failure")
	}
}

func TestValidateRejectsDisallowedTransitionType(t *testing.T) {
	s, c := buildValidConsignment(t)
	c.StateTransitions[0].Transition.TransitionType = 99

	status, err := s.Validate(c)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if status.Valid {
		t.Fatalf("expected schema-conformance failure for an unwhitelisted transition type")
	}
}

func TestValidateRejectsEmptyConsignment(t *testing.T) {
	s := newTestStore(t)
	status, err := s.Validate(&types.Consignment{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if status.Valid {
		t.Fatalf("expected an empty consignment to be rejected")
	}
}

func TestValidateRejectsCycle(t *testing.T) {
	s, c := buildValidConsignment(t)

	// Add a second transition whose input is produced by the first
	// transition, then rewrite the first transition's input to point at
	// the second transition's output: a two-node cycle with no path back
	// to the genesis.
	secondSeal := types.OutpointHashFromBytes([32]byte{0x03})
	second := types.Transition{
		TransitionType: 1,
		Inputs:         []types.Input{{Seal: types.OutpointHashFromBytes([32]byte{0x02})}},
		Assignments: []types.Assignment{
			{OwnedRightType: 0, Seal: types.Seal{Confidential: true, Hash: secondSeal}, State: ruleState(1000, secondSeal)},
		},
	}
	c.StateTransitions[0].Transition.Inputs[0].Seal = secondSeal
	anchor := types.NewLeafAnchor(txidN(0x71), 0, second.NodeId())
	c.StateTransitions = append(c.StateTransitions, types.AnchoredTransition{Anchor: anchor, Transition: second})

	status, err := s.Validate(c)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if status.Valid {
		t.Fatalf("expected a cyclic consignment to be rejected")
	}
	found := false
	for _, f := range status.Failures {
		if strings.Contains(f, "cycle") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a cycle failure, got: %v", status.Failures)
	}
}

func TestValidateRejectsTamperedTransition(t *testing.T) {
	s, c := buildValidConsignment(t)
	// Any mutation of a transition's content changes its node id, so the
	// anchor recorded for the original no longer commits to it.
	c.StateTransitions[0].Transition.Metadata = map[uint16][]byte{0: []byte("tampered")}

	status, err := s.Validate(c)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if status.Valid {
		t.Fatalf("expected a tampered transition to invalidate the consignment")
	}
	found := false
	for _, f := range status.Failures {
		if strings.Contains(f, "anchor") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an anchor-soundness failure, got: %v", status.Failures)
	}
}
