// Copyright 2026 RGB Protocol
//
// Asset issuance workflow

package fungible

import (
	"fmt"

	"github.com/rgbprotocol/rgbd/pkg/commitment"
	"github.com/rgbprotocol/rgbd/pkg/stash"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// Issue builds a new contract's genesis from req, installs it on the
// stash, and records the resulting asset in the cache. Amounts in
// req.Allocations are already in minor units; applying ticker precision
// to human-entered coin values is the invoice parser's job.
func (rt *Runtime) Issue(req IssueParams) (*types.Asset, error) {
	if len(req.Allocations) == 0 {
		return nil, fmt.Errorf("fungible: issue requires at least one allocation")
	}

	genesis := &types.Genesis{
		Schema:  stash.BuiltinFungibleSchema().Id(),
		Network: rt.network,
		Metadata: map[uint16][]byte{
			stash.FungibleMetaTicker:    []byte(req.Ticker),
			stash.FungibleMetaName:      []byte(req.Name),
			stash.FungibleMetaPrecision: {req.Precision},
		},
	}

	var total uint64
	for _, alloc := range req.Allocations {
		seal := types.NewRevealedSeal(alloc.Outpoint, blindingForOutpoint(alloc.Outpoint))
		genesis.Assignments = append(genesis.Assignments, types.Assignment{
			OwnedRightType: stash.FungibleOwnedRightBalance,
			Seal:           seal,
			// The amount state blinds under the seal's own outpoint hash,
			// the derivation the stash's balance check reconstructs when a
			// descendant transition later spends this assignment.
			State: types.NewAmountState(alloc.Amount, commitment.BlindingFromSeed(seal.Hash.Hash256[:])),
		})
		total += alloc.Amount
	}

	if err := rt.stash.AddGenesis(genesis); err != nil {
		return nil, err
	}

	nodeId := genesis.NodeId()
	asset := &types.Asset{
		ContractId:       genesis.ContractId(),
		Ticker:           req.Ticker,
		Name:             req.Name,
		Precision:        req.Precision,
		Supplies:         []types.Issue{{NodeId: nodeId, Amount: total}},
		KnownAllocations: map[string][]types.Allocation{},
	}
	for i, alloc := range req.Allocations {
		assignment := genesis.Assignments[i]
		asset.AddAllocation(types.Allocation{
			Outpoint:           alloc.Outpoint,
			NodeId:             nodeId,
			AssignmentIndex:    uint32(i),
			ConfidentialAmount: [32]byte(assignment.State.Commitment),
			Revealed:           true,
			RevealedAmount:     alloc.Amount,
		})
	}
	rt.cache.AddAsset(asset)
	return asset, nil
}
