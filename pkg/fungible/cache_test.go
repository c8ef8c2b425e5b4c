// Copyright 2026 RGB Protocol
//
// Cache index tests

package fungible

import (
	"testing"

	"github.com/rgbprotocol/rgbd/pkg/types"
)

func testContractId(b byte) types.ContractId {
	var id [32]byte
	id[0] = b
	return types.ContractIdFromBytes(id)
}

func TestCacheAddAssetAndHasAsset(t *testing.T) {
	c := NewCache()
	id := testContractId(0x01)
	if c.HasAsset(id) {
		t.Fatalf("expected a fresh cache not to have any asset")
	}
	c.AddAsset(&types.Asset{ContractId: id, Ticker: "USDT", Precision: 2})
	if !c.HasAsset(id) {
		t.Fatalf("expected HasAsset to report true after AddAsset")
	}
	got, err := c.Asset(id)
	if err != nil {
		t.Fatalf("Asset: %v", err)
	}
	if got.Ticker != "USDT" {
		t.Fatalf("expected the stored asset's ticker to round-trip, got %q", got.Ticker)
	}
}

func TestCacheAssetMissReturnsError(t *testing.T) {
	c := NewCache()
	if _, err := c.Asset(testContractId(0x02)); err == nil {
		t.Fatalf("expected an error for an unknown contract id")
	}
}

func TestCacheAddAllocationIndexesByOutpoint(t *testing.T) {
	c := NewCache()
	id := testContractId(0x03)
	c.AddAsset(&types.Asset{ContractId: id, Ticker: "USDT", Precision: 2, KnownAllocations: map[string][]types.Allocation{}})

	op := outpoint(0x70, 0)
	alloc := types.Allocation{Outpoint: op, Revealed: true, RevealedAmount: 500}
	if err := c.AddAllocation(id, alloc); err != nil {
		t.Fatalf("AddAllocation: %v", err)
	}

	contracts := c.OutpointAssets(op)
	if len(contracts) != 1 || contracts[0] != id {
		t.Fatalf("expected OutpointAssets to list the contract, got %v", contracts)
	}

	allocs := c.AssetAllocations(id)
	if len(allocs) != 1 || allocs[0].RevealedAmount != 500 {
		t.Fatalf("expected one allocation of 500, got %+v", allocs)
	}
}

func TestCacheAddAllocationRejectsUnknownAsset(t *testing.T) {
	c := NewCache()
	err := c.AddAllocation(testContractId(0x04), types.Allocation{Outpoint: outpoint(0x71, 0)})
	if err == nil {
		t.Fatalf("expected AddAllocation to reject an allocation for an asset the cache doesn't know")
	}
}

func TestCacheForgetClearsOutpoint(t *testing.T) {
	c := NewCache()
	id := testContractId(0x05)
	c.AddAsset(&types.Asset{ContractId: id, KnownAllocations: map[string][]types.Allocation{}})
	op := outpoint(0x72, 0)
	if err := c.AddAllocation(id, types.Allocation{Outpoint: op, Revealed: true, RevealedAmount: 10}); err != nil {
		t.Fatalf("AddAllocation: %v", err)
	}
	c.Forget(op)
	if got := c.OutpointAssets(op); len(got) != 0 {
		t.Fatalf("expected Forget to remove the outpoint's contract index, got %v", got)
	}
	if got := c.AssetAllocations(id); len(got) != 0 {
		t.Fatalf("expected Forget to remove the outpoint's allocation, got %v", got)
	}
}

func TestCacheAssetsListsAll(t *testing.T) {
	c := NewCache()
	c.AddAsset(&types.Asset{ContractId: testContractId(0x06)})
	c.AddAsset(&types.Asset{ContractId: testContractId(0x07)})
	if got := len(c.Assets()); got != 2 {
		t.Fatalf("expected 2 cached assets, got %d", got)
	}
}
