// Copyright 2026 RGB Protocol
//
// Asset encoding round-trip tests

package types

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

func TestAssetEncodeDecodeRoundTrip(t *testing.T) {
	var txid chainhash.Hash
	copy(txid[:], bytes.Repeat([]byte{0x07}, 32))
	op := wire.OutPoint{Hash: txid, Index: 1}

	asset := &Asset{
		ContractId: ContractIdFromBytes([32]byte{0x01}),
		Ticker:     "USDX",
		Name:       "US Dollar Experimental",
		Precision:  8,
		Supplies:   []Issue{{NodeId: NodeIdFromBytes([32]byte{0x02}), Amount: 1_000_000}},
	}
	asset.AddAllocation(Allocation{
		Outpoint:           op,
		NodeId:             NodeIdFromBytes([32]byte{0x03}),
		AssignmentIndex:    0,
		ConfidentialAmount: [32]byte{0x09},
		Revealed:           true,
		RevealedAmount:     250,
	})

	encoded := asset.Encode()
	decoded, err := DecodeAsset(encoded)
	if err != nil {
		t.Fatalf("DecodeAsset: %v", err)
	}
	if decoded.Ticker != "USDX" || decoded.Precision != 8 {
		t.Fatalf("scalar fields not round-tripped: %+v", decoded)
	}
	if decoded.TotalKnownSupply() != 1_000_000 {
		t.Fatalf("TotalKnownSupply mismatch: got %d", decoded.TotalKnownSupply())
	}
	allocs := decoded.KnownAllocations[op.String()]
	if len(allocs) != 1 || allocs[0].RevealedAmount != 250 {
		t.Fatalf("allocation not round-tripped: %+v", allocs)
	}
}

func TestAssetRemoveAllocations(t *testing.T) {
	var txid chainhash.Hash
	op := wire.OutPoint{Hash: txid, Index: 0}
	asset := &Asset{ContractId: ContractIdFromBytes([32]byte{0x01})}
	asset.AddAllocation(Allocation{Outpoint: op, NodeId: NodeIdFromBytes([32]byte{0x02})})
	if len(asset.KnownAllocations) != 1 {
		t.Fatalf("expected allocation to be indexed")
	}
	asset.RemoveAllocations(op)
	if len(asset.KnownAllocations) != 0 {
		t.Fatalf("expected allocations to be removed")
	}
}

func TestDecodeAssetRejectsTrailingBytes(t *testing.T) {
	asset := &Asset{ContractId: ContractIdFromBytes([32]byte{0x01})}
	encoded := append(asset.Encode(), 0xFF)
	if _, err := DecodeAsset(encoded); err == nil {
		t.Fatalf("expected trailing-byte rejection")
	}
}
