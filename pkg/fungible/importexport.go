// Copyright 2026 RGB Protocol
//
// Asset import, export, and cache synchronization

package fungible

import (
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// ImportAsset adopts an externally-known genesis: installs it on the
// stash and records its revealed allocations in the cache.
func (rt *Runtime) ImportAsset(g *types.Genesis) (*types.Asset, error) {
	if err := rt.stash.AddGenesis(g); err != nil {
		return nil, err
	}
	contractId := g.ContractId()
	asset := assetFromGenesis(contractId, g)
	for i, a := range g.Assignments {
		if a.Seal.Confidential || a.Seal.Outpoint == nil {
			continue
		}
		asset.AddAllocation(types.Allocation{
			Outpoint:           *a.Seal.Outpoint,
			NodeId:             g.NodeId(),
			AssignmentIndex:    uint32(i),
			ConfidentialAmount: [32]byte(a.State.Commitment),
			Revealed:           a.State.Revealed,
			RevealedAmount:     a.State.Amount,
		})
	}
	rt.cache.AddAsset(asset)
	return asset, nil
}

// Sync reconciles the cache against the stash's currently known contracts:
// any genesis the stash has that the cache does not yet know about is
// adopted the same way ImportAsset would. It
// returns the number of contracts adopted.
func (rt *Runtime) Sync() (uint32, error) {
	var synced uint32
	geneses, err := rt.stash.ListGeneses()
	if err != nil {
		return 0, err
	}
	for _, g := range geneses {
		if rt.cache.HasAsset(g.ContractId()) {
			continue
		}
		if _, err := rt.ImportAsset(g); err != nil {
			return synced, err
		}
		synced++
	}
	return synced, nil
}
