// Copyright 2026 RGB Protocol
//
// In-memory asset cache with outpoint reverse index

// Package fungible implements the fungible-asset service: the in-memory
// asset cache, its pluggable persistence, and the issue/transfer/
// accept/forget workflows that drive it, delegating all consignment
// storage and validation to the stash over RPC.
package fungible

import (
	"sync"

	"github.com/btcsuite/btcd/wire"

	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// Cache is the fungible runtime's in-memory projection over the stash:
// assets keyed by contract id, and a reverse index from outpoint to the
// contracts that have an allocation there. The
// stash remains the authoritative source of truth; a lost cache is
// recoverable by replaying known consignments.
type Cache struct {
	mu         sync.RWMutex
	assets     map[types.ContractId]*types.Asset
	byOutpoint map[string]map[types.ContractId]struct{}
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		assets:     map[types.ContractId]*types.Asset{},
		byOutpoint: map[string]map[types.ContractId]struct{}{},
	}
}

func outpointKey(op wire.OutPoint) string { return op.String() }

// AddAsset installs or replaces asset in the cache, reindexing every
// outpoint it currently has allocations at.
func (c *Cache) AddAsset(asset *types.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assets[asset.ContractId] = asset
	for key := range asset.KnownAllocations {
		if len(asset.KnownAllocations[key]) == 0 {
			continue
		}
		set, ok := c.byOutpoint[key]
		if !ok {
			set = map[types.ContractId]struct{}{}
			c.byOutpoint[key] = set
		}
		set[asset.ContractId] = struct{}{}
	}
}

// Asset looks up a cached asset by contract id.
func (c *Cache) Asset(id types.ContractId) (*types.Asset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.assets[id]
	if !ok {
		return nil, rgberrors.ErrCacheMiss
	}
	return a, nil
}

// HasAsset reports whether the cache knows about the contract.
func (c *Cache) HasAsset(id types.ContractId) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.assets[id]
	return ok
}

// Assets returns every cached asset.
func (c *Cache) Assets() []*types.Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*types.Asset, 0, len(c.assets))
	for _, a := range c.assets {
		out = append(out, a)
	}
	return out
}

// OutpointAssets returns the contracts with a known allocation at op.
func (c *Cache) OutpointAssets(op wire.OutPoint) []types.ContractId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.byOutpoint[outpointKey(op)]
	if !ok {
		return nil
	}
	out := make([]types.ContractId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// AssetAllocations returns every allocation known for contract id, across
// all outpoints.
func (c *Cache) AssetAllocations(id types.ContractId) []types.Allocation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.assets[id]
	if !ok {
		return nil
	}
	var out []types.Allocation
	for _, allocs := range a.KnownAllocations {
		out = append(out, allocs...)
	}
	return out
}

// AddAllocation records a newly-accepted allocation against its contract,
// rejecting it when the asset is unknown: an asset enters the cache via
// AddAsset only once its genesis has been accepted by the stash, and an
// allocation must never precede its contract.
func (c *Cache) AddAllocation(id types.ContractId, alloc types.Allocation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.assets[id]
	if !ok {
		return rgberrors.ErrCacheMiss
	}
	a.AddAllocation(alloc)
	key := outpointKey(alloc.Outpoint)
	set, ok := c.byOutpoint[key]
	if !ok {
		set = map[types.ContractId]struct{}{}
		c.byOutpoint[key] = set
	}
	set[id] = struct{}{}
	return nil
}

// Forget removes every allocation known at op, across every contract.
func (c *Cache) Forget(op wire.OutPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := outpointKey(op)
	for id := range c.byOutpoint[key] {
		if a, ok := c.assets[id]; ok {
			a.RemoveAllocations(op)
		}
	}
	delete(c.byOutpoint, key)
}
