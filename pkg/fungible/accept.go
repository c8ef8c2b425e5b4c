// Copyright 2026 RGB Protocol
//
// Consignment acceptance: merge, reveal verification, cache update

package fungible

import (
	"github.com/rgbprotocol/rgbd/pkg/commitment"
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/rpc"
	"github.com/rgbprotocol/rgbd/pkg/stash"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// Accept merges a received consignment into the stash and, for every
// assignment the stash attributed to one of params.Reveals, records the
// resulting allocation in the cache.
func (rt *Runtime) Accept(params AcceptParams) error {
	hashes := make([]types.OutpointHash, 0, len(params.Reveals))
	for _, rv := range params.Reveals {
		hashes = append(hashes, types.OutpointHashFromReveal(rv.Outpoint.Hash, rv.Outpoint.Index, rv.Blinding))
	}

	result, err := rt.stash.Merge(&params.Consignment, hashes)
	if err != nil {
		return err
	}

	contractId := params.Consignment.Genesis.ContractId()
	if !rt.cache.HasAsset(contractId) {
		rt.cache.AddAsset(assetFromGenesis(contractId, &params.Consignment.Genesis))
	}

	for _, r := range result.Revealed {
		assignments := nodeAssignments(&params.Consignment, r.Node)
		if int(r.AssignmentIdx) >= len(assignments) {
			continue
		}
		assignment := assignments[r.AssignmentIdx]
		reveal, ok := matchReveal(params.Reveals, assignment.Seal.Hash)
		if !ok {
			continue
		}
		amount := r.RevealedAmount
		if assignment.State.Kind == types.StateAmount && !assignment.State.Revealed {
			// The state itself is confidential: no plaintext amount ever
			// touched the consignment, so the only source of truth is
			// what the caller already expects at this seal, quoted by the
			// sender's invoice. Verify it against the on-record commitment
			// before trusting it.
			if !commitment.Open(assignment.State.Commitment, reveal.Amount, commitment.BlindingFromSeed(assignment.Seal.Hash.Hash256[:])) {
				return rgberrors.Wrap(rgberrors.KindDomain, "accept: revealed amount does not match the assignment's commitment", rgberrors.ErrStashRejection)
			}
			amount = reveal.Amount
		}
		alloc := types.Allocation{
			Outpoint:           reveal.Outpoint,
			NodeId:             r.Node,
			AssignmentIndex:    r.AssignmentIdx,
			ConfidentialAmount: [32]byte(assignment.State.Commitment),
			Revealed:           true,
			RevealedAmount:     amount,
		}
		_ = rt.cache.AddAllocation(contractId, alloc)
	}
	return nil
}

func matchReveal(reveals []rpc.RevealMsg, want types.OutpointHash) (rpc.RevealMsg, bool) {
	for _, rv := range reveals {
		if types.OutpointHashFromReveal(rv.Outpoint.Hash, rv.Outpoint.Index, rv.Blinding) == want {
			return rv, true
		}
	}
	return rpc.RevealMsg{}, false
}

// nodeAssignments returns the assignments produced by node within c,
// whether it is the genesis itself or one of the anchored transitions.
func nodeAssignments(c *types.Consignment, node types.NodeId) []types.Assignment {
	if c.Genesis.NodeId() == node {
		return c.Genesis.Assignments
	}
	for _, st := range c.StateTransitions {
		if st.Transition.NodeId() == node {
			return st.Transition.Assignments
		}
	}
	return nil
}

// assetFromGenesis builds the cache's minimal projection of a contract
// this runtime did not itself issue: ticker metadata is always present,
// but total supply is only as accurate as what the genesis's own
// assignments reveal to this party.
func assetFromGenesis(contractId types.ContractId, g *types.Genesis) *types.Asset {
	asset := &types.Asset{
		ContractId:       contractId,
		Ticker:           string(g.Metadata[stash.FungibleMetaTicker]),
		Name:             string(g.Metadata[stash.FungibleMetaName]),
		KnownAllocations: map[string][]types.Allocation{},
	}
	if prec := g.Metadata[stash.FungibleMetaPrecision]; len(prec) > 0 {
		asset.Precision = prec[0]
	}
	var total uint64
	for _, a := range g.Assignments {
		if a.State.Revealed {
			total += a.State.Amount
		}
	}
	if total > 0 {
		asset.Supplies = []types.Issue{{NodeId: g.NodeId(), Amount: total}}
	}
	return asset
}
