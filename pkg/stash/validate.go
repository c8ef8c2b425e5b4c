// Copyright 2026 RGB Protocol
//
// Consignment validation: closure, anchors, schema, continuity, balance

package stash

import (
	"fmt"

	"github.com/rgbprotocol/rgbd/pkg/commitment"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

var zeroSchemaId types.SchemaId

// ValidationStatus reports whether a consignment is valid and, if not, every
// reason it failed. Validation never stops at the first failure: a
// client debugging a rejected consignment wants the whole list.
type ValidationStatus struct {
	Valid    bool
	Failures []string
}

func (v *ValidationStatus) fail(format string, args ...any) {
	v.Valid = false
	v.Failures = append(v.Failures, fmt.Sprintf(format, args...))
}

// nodeAssignments collects every (producer NodeId, Assignment) pair the
// consignment's genesis and transitions produce, indexed by seal: the
// lookup table every other check is built on.
type nodeAssignments struct {
	bySeal map[types.OutpointHash]types.Assignment
}

func indexConsignment(c *types.Consignment) nodeAssignments {
	idx := nodeAssignments{bySeal: map[types.OutpointHash]types.Assignment{}}
	for _, a := range c.Genesis.Assignments {
		idx.bySeal[a.Seal.Hash] = a
	}
	for _, st := range c.StateTransitions {
		for _, a := range st.Transition.Assignments {
			idx.bySeal[a.Seal.Hash] = a
		}
	}
	return idx
}

// Validate checks a consignment against the five structural invariants
// (referential closure, anchor soundness, schema conformance, ownership
// continuity, confidential balance) plus two boundary conditions (non-empty,
// acyclic), using the installed schema of its genesis. Validation is a pure
// function of the consignment and the schema set (no stash mutation).
func (s *Store) Validate(c *types.Consignment) (*ValidationStatus, error) {
	status := &ValidationStatus{Valid: true}

	if c.Genesis.Schema == zeroSchemaId && len(c.StateTransitions) == 0 {
		status.fail("consignment is empty: no genesis and no state transitions")
		return status, nil
	}
	checkAcyclic(c, status)

	schema, err := s.ReadSchema(c.Genesis.Schema)
	if err != nil {
		return nil, err
	}

	idx := indexConsignment(c)

	checkReferentialClosure(c, idx, status)
	checkAnchorSoundness(c, status)
	checkSchemaConformance(c, schema, status)
	checkOwnershipContinuity(c, idx, schema, status)
	checkConfidentialHomomorphism(c, idx, status)

	return status, nil
}

// checkAcyclic verifies the consignment's transitions form a DAG rooted
// at the genesis, via the same Kahn's-algorithm shape Consign uses to order a
// freshly-assembled ancestry (consign.go's topoSortAncestry), here run
// against an arbitrary, possibly adversarial consignment rather than one
// this stash assembled itself.
func checkAcyclic(c *types.Consignment, status *ValidationStatus) {
	sealProducer := map[types.OutpointHash]types.NodeId{}
	for _, a := range c.Genesis.Assignments {
		sealProducer[a.Seal.Hash] = types.ContractNodeId(c.Genesis.ContractId())
	}
	for _, st := range c.StateTransitions {
		id := st.Transition.NodeId()
		for _, a := range st.Transition.Assignments {
			sealProducer[a.Seal.Hash] = id
		}
	}

	transitionIds := map[types.NodeId]struct{}{}
	for _, st := range c.StateTransitions {
		transitionIds[st.Transition.NodeId()] = struct{}{}
	}

	inDegree := map[types.NodeId]int{}
	children := map[types.NodeId][]types.NodeId{}
	for _, st := range c.StateTransitions {
		id := st.Transition.NodeId()
		if _, ok := inDegree[id]; !ok {
			inDegree[id] = 0
		}
		for _, in := range st.Transition.Inputs {
			producer, ok := sealProducer[in.Seal]
			if !ok {
				continue
			}
			if _, isTransition := transitionIds[producer]; isTransition {
				inDegree[id]++
				children[producer] = append(children[producer], id)
			}
		}
	}

	var ready []types.NodeId
	for id, d := range inDegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	visited := 0
	for len(ready) > 0 {
		id := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		visited++
		for _, child := range children[id] {
			inDegree[child]--
			if inDegree[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	if visited != len(transitionIds) {
		status.fail("consignment's state transitions contain a cycle")
	}
}

// checkReferentialClosure verifies every input resolves to an assignment
// produced inside the consignment: the ancestry-closure invariant.
// Endpoints are explicitly exempt: they may reference externally-unseen
// sealed outpoints.
func checkReferentialClosure(c *types.Consignment, idx nodeAssignments, status *ValidationStatus) {
	for _, st := range c.StateTransitions {
		for _, in := range st.Transition.Inputs {
			if _, ok := idx.bySeal[in.Seal]; !ok {
				status.fail("transition %s: input seal %s resolves to no assignment inside the consignment",
					st.Transition.NodeId().Hash256.String(), in.Seal.Hash256.String())
			}
		}
	}
}

// checkAnchorSoundness verifies each anchor's commitment reconstructs to
// its own node's id.
func checkAnchorSoundness(c *types.Consignment, status *ValidationStatus) {
	for _, st := range c.StateTransitions {
		anchor := st.Anchor
		nodeId := st.Transition.NodeId()
		if !anchor.Verify(nodeId) {
			status.fail("transition %s: anchor does not commit to this node's id", nodeId.Hash256.String())
		}
	}
}

// checkSchemaConformance verifies field presence, state-type arity, and
// transition-type whitelisting against schema. Range proofs over
// confidential states are produced and checked by the wallet, not here:
// this checks the state's declared Kind matches the schema, not the
// hidden amount's range.
func checkSchemaConformance(c *types.Consignment, schema *types.Schema, status *ValidationStatus) {
	checkAssignments := func(nodeLabel string, assignments []types.Assignment) {
		for _, a := range assignments {
			kind, ok := schema.StateTypes[a.OwnedRightType]
			if !ok {
				status.fail("%s: owned-right type %d is not declared by schema %s", nodeLabel, a.OwnedRightType, schema.Name)
				continue
			}
			if kind != a.State.Kind {
				status.fail("%s: assignment of owned-right type %d has state kind %d, schema declares %d",
					nodeLabel, a.OwnedRightType, a.State.Kind, kind)
			}
		}
	}

	checkAssignments("genesis", c.Genesis.Assignments)
	for k := range c.Genesis.Metadata {
		if _, ok := schema.MetaFields[k]; !ok {
			status.fail("genesis: metadata field %d is not declared by schema %s", k, schema.Name)
		}
	}

	for _, st := range c.StateTransitions {
		label := fmt.Sprintf("transition %s", st.Transition.NodeId().Hash256.String())
		rule, ok := schema.TransitionTypes[st.Transition.TransitionType]
		if !ok {
			status.fail("%s: transition type %d is not whitelisted by schema %s", label, st.Transition.TransitionType, schema.Name)
			continue
		}
		checkAssignments(label, st.Transition.Assignments)
		for _, a := range st.Transition.Assignments {
			if !rule.AllowedOutputs[a.OwnedRightType] {
				status.fail("%s: owned-right type %d is not an allowed output of transition type %d", label, a.OwnedRightType, st.Transition.TransitionType)
			}
		}
		for _, field := range rule.RequiredMeta {
			if _, ok := st.Transition.Metadata[field]; !ok {
				status.fail("%s: missing required metadata field %d for transition type %d", label, field, st.Transition.TransitionType)
			}
		}
	}
}

// checkOwnershipContinuity verifies each consumed owned right matches (by
// type) an output assignment of its producing node, and that the
// consuming transition's schema rule permits consuming that type.
func checkOwnershipContinuity(c *types.Consignment, idx nodeAssignments, schema *types.Schema, status *ValidationStatus) {
	for _, st := range c.StateTransitions {
		rule, ok := schema.TransitionTypes[st.Transition.TransitionType]
		if !ok {
			continue // already reported by checkSchemaConformance
		}
		for _, in := range st.Transition.Inputs {
			origin, ok := idx.bySeal[in.Seal]
			if !ok {
				continue // already reported by checkReferentialClosure
			}
			if !rule.AllowedInputs[origin.OwnedRightType] {
				status.fail("transition %s: consumes owned-right type %d, not permitted as an input of transition type %d",
					st.Transition.NodeId().Hash256.String(), origin.OwnedRightType, st.Transition.TransitionType)
			}
		}
	}
}

// checkConfidentialHomomorphism verifies, per transition and per owned- right
// type, that the sum of consumed commitments equals the sum of produced
// commitments plus the expected blinding delta. Every amount state blinds under
// its own seal's outpoint hash (commitment.BlindingFromSeed over the seal
// hash), so the net blinding delta of a transition is computable from the
// public seal hashes alone: the consumed-minus-produced commitment difference
// of a balanced transition is exactly Commit(0, delta). The hidden amounts
// cancel iff the difference lands on that point.
//
// This engine's schema has no separate issuance/burn field, so genesis-
// level issuance is the only source of new value: a genesis's own
// assignments are never checked against consumed commitments (there is
// nothing to consume yet), and every other transition must balance
// exactly.
func checkConfidentialHomomorphism(c *types.Consignment, idx nodeAssignments, status *ValidationStatus) {
	for _, st := range c.StateTransitions {
		consumed := map[uint16][]types.Assignment{}
		for _, in := range st.Transition.Inputs {
			origin, ok := idx.bySeal[in.Seal]
			if !ok || origin.State.Kind != types.StateAmount {
				continue
			}
			consumed[origin.OwnedRightType] = append(consumed[origin.OwnedRightType], origin)
		}
		produced := map[uint16][]types.Assignment{}
		for _, a := range st.Transition.Assignments {
			if a.State.Kind != types.StateAmount {
				continue
			}
			produced[a.OwnedRightType] = append(produced[a.OwnedRightType], a)
		}

		types_ := map[uint16]struct{}{}
		for k := range consumed {
			types_[k] = struct{}{}
		}
		for k := range produced {
			types_[k] = struct{}{}
		}
		for ort := range types_ {
			consumedSum, err := sumCommitments(consumed[ort])
			if err != nil {
				status.fail("transition %s: %v", st.Transition.NodeId().Hash256.String(), err)
				continue
			}
			producedSum, err := sumCommitments(produced[ort])
			if err != nil {
				status.fail("transition %s: %v", st.Transition.NodeId().Hash256.String(), err)
				continue
			}
			var delta [32]byte
			for _, a := range consumed[ort] {
				delta = commitment.AddBlindings(delta, commitment.BlindingFromSeed(a.Seal.Hash.Hash256[:]))
			}
			for _, a := range produced[ort] {
				delta = commitment.SubBlindings(delta, commitment.BlindingFromSeed(a.Seal.Hash.Hash256[:]))
			}
			diff, err := commitment.Sub(consumedSum, producedSum)
			if err != nil {
				status.fail("transition %s: %v", st.Transition.NodeId().Hash256.String(), err)
				continue
			}
			if !commitment.Equal(diff, commitment.Commit(0, delta)) {
				status.fail("transition %s: owned-right type %d does not balance under the confidential commitment homomorphism",
					st.Transition.NodeId().Hash256.String(), ort)
			}
		}
	}
}

func sumCommitments(assignments []types.Assignment) (commitment.Commitment, error) {
	sum := commitment.Identity
	for _, a := range assignments {
		var err error
		sum, err = commitment.Add(sum, a.State.Commitment)
		if err != nil {
			return commitment.Commitment{}, err
		}
	}
	return sum, nil
}
