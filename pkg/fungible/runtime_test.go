// Copyright 2026 RGB Protocol
//
// End-to-end issue, transfer, accept, forget, and sync tests

package fungible

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/rgbprotocol/rgbd/pkg/bus"
	"github.com/rgbprotocol/rgbd/pkg/kvdb"
	"github.com/rgbprotocol/rgbd/pkg/rpc"
	"github.com/rgbprotocol/rgbd/pkg/stash"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

func testLogger(t *testing.T) *log.Logger {
	t.Helper()
	return log.New(os.Stderr, "["+t.Name()+"] ", log.LstdFlags)
}

// startTestStash brings up a real stash.Runtime over loopback TCP, the
// same way cmd/stashd does, so pkg/fungible tests exercise the actual RPC
// round trip (strict encoding, dispatch, reply) rather than calling the
// store directly.
func startTestStash(t *testing.T) (rpcEndpoint, subEndpoint string) {
	t.Helper()
	store := stash.New(kvdb.NewMemStore())
	rt, err := stash.NewRuntime(store, "tcp://127.0.0.1:0", "tcp://127.0.0.1:0", testLogger(t))
	if err != nil {
		t.Fatalf("stash.NewRuntime: %v", err)
	}
	t.Cleanup(func() { rt.Close() })
	go rt.Run()
	return "tcp://" + rt.RPCAddr(), "tcp://" + rt.PubAddr()
}

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	stashRPC, stashSub := startTestStash(t)
	client := NewStashClient(stashRPC, 2*time.Second)
	rt, err := NewRuntime(NewCache(), client, "regtest", "tcp://127.0.0.1:0", "tcp://127.0.0.1:0", stashSub, testLogger(t))
	if err != nil {
		t.Fatalf("fungible.NewRuntime: %v", err)
	}
	t.Cleanup(func() { rt.Close() })
	return rt
}

func outpoint(b byte, index uint32) wire.OutPoint {
	var h chainhash.Hash
	for i := range h {
		h[i] = b
	}
	return wire.OutPoint{Hash: h, Index: index}
}

func TestIssueAddsAssetToCache(t *testing.T) {
	rt := newTestRuntime(t)

	asset, err := rt.Issue(IssueParams{
		Ticker:    "USDT",
		Name:      "Demo",
		Precision: 2,
		Allocations: []rpc.CoinAllocation{
			{Outpoint: outpoint(0x01, 0), Amount: 10000},
		},
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if got := asset.TotalKnownSupply(); got != 10000 {
		t.Fatalf("expected supply 10000, got %d", got)
	}
	if !rt.cache.HasAsset(asset.ContractId) {
		t.Fatalf("expected issued asset to be cached")
	}
}

func TestIssueRejectsNoAllocations(t *testing.T) {
	rt := newTestRuntime(t)
	if _, err := rt.Issue(IssueParams{Ticker: "USDT", Name: "Demo", Precision: 2}); err == nil {
		t.Fatalf("expected an error for an issuance with no allocations")
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	rt := newTestRuntime(t)
	asset, err := rt.Issue(IssueParams{
		Ticker:      "USDT",
		Name:        "Demo",
		Precision:   2,
		Allocations: []rpc.CoinAllocation{{Outpoint: outpoint(0x02, 0), Amount: 5000}},
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	genesis, err := rt.stash.ReadGenesis(asset.ContractId)
	if err != nil {
		t.Fatalf("ReadGenesis: %v", err)
	}
	if genesis.ContractId() != asset.ContractId {
		t.Fatalf("exported genesis does not round-trip to the same contract id")
	}
}

// TestTransferThenAccept exercises the full peer-to-peer flow: two
// independent fungible runtimes sharing one stash, a transfer from the
// issuer to itself (change) and to a confidential recipient seal, then
// the recipient accepting the consignment and seeing the allocation.
func TestTransferThenAccept(t *testing.T) {
	stashRPC, stashSub := startTestStash(t)

	issuer, err := NewRuntime(NewCache(), NewStashClient(stashRPC, 2*time.Second), "regtest",
		"tcp://127.0.0.1:0", "tcp://127.0.0.1:0", stashSub, testLogger(t))
	if err != nil {
		t.Fatalf("issuer NewRuntime: %v", err)
	}
	t.Cleanup(func() { issuer.Close() })

	recipient, err := NewRuntime(NewCache(), NewStashClient(stashRPC, 2*time.Second), "regtest",
		"tcp://127.0.0.1:0", "tcp://127.0.0.1:0", stashSub, testLogger(t))
	if err != nil {
		t.Fatalf("recipient NewRuntime: %v", err)
	}
	t.Cleanup(func() { recipient.Close() })

	asset, err := issuer.Issue(IssueParams{
		Ticker:      "USDT",
		Name:        "Demo",
		Precision:   2,
		Allocations: []rpc.CoinAllocation{{Outpoint: outpoint(0x10, 0), Amount: 10000}},
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	recipientOutpoint := outpoint(0x20, 0)
	recipientBlinding := [32]byte{0xAB}
	recipientSeal := types.OutpointHashFromReveal(recipientOutpoint.Hash, recipientOutpoint.Index, recipientBlinding)

	consignment, err := issuer.Transfer(TransferParams{
		ContractId: asset.ContractId,
		Inputs:     []wire.OutPoint{outpoint(0x10, 0)},
		Ours:       []rpc.CoinAllocation{{Outpoint: outpoint(0x11, 0), Amount: 7000}},
		Theirs:     []rpc.TheirAllocation{{Seal: recipientSeal, Amount: 3000}},
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	if err := recipient.Accept(AcceptParams{
		Consignment: *consignment,
		Reveals:     []rpc.RevealMsg{{Outpoint: recipientOutpoint, Blinding: recipientBlinding, Amount: 3000}},
	}); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	contracts := recipient.cache.OutpointAssets(recipientOutpoint)
	if len(contracts) != 1 || contracts[0] != asset.ContractId {
		t.Fatalf("expected the recipient's cache to list the contract at its outpoint, got %v", contracts)
	}

	allocs := recipient.cache.AssetAllocations(asset.ContractId)
	var total uint64
	for _, a := range allocs {
		total += a.RevealedAmount
	}
	if total != 3000 {
		t.Fatalf("expected the recipient to see a revealed allocation of 3000, got total %d (%+v)", total, allocs)
	}
}

func TestAcceptRejectsMismatchedRevealedAmount(t *testing.T) {
	stashRPC, stashSub := startTestStash(t)
	issuer, err := NewRuntime(NewCache(), NewStashClient(stashRPC, 2*time.Second), "regtest",
		"tcp://127.0.0.1:0", "tcp://127.0.0.1:0", stashSub, testLogger(t))
	if err != nil {
		t.Fatalf("issuer NewRuntime: %v", err)
	}
	t.Cleanup(func() { issuer.Close() })
	recipient, err := NewRuntime(NewCache(), NewStashClient(stashRPC, 2*time.Second), "regtest",
		"tcp://127.0.0.1:0", "tcp://127.0.0.1:0", stashSub, testLogger(t))
	if err != nil {
		t.Fatalf("recipient NewRuntime: %v", err)
	}
	t.Cleanup(func() { recipient.Close() })

	asset, err := issuer.Issue(IssueParams{
		Ticker:      "USDT",
		Name:        "Demo",
		Precision:   2,
		Allocations: []rpc.CoinAllocation{{Outpoint: outpoint(0x30, 0), Amount: 10000}},
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	recipientOutpoint := outpoint(0x21, 0)
	recipientBlinding := [32]byte{0xCD}
	recipientSeal := types.OutpointHashFromReveal(recipientOutpoint.Hash, recipientOutpoint.Index, recipientBlinding)

	consignment, err := issuer.Transfer(TransferParams{
		ContractId: asset.ContractId,
		Inputs:     []wire.OutPoint{outpoint(0x30, 0)},
		Theirs:     []rpc.TheirAllocation{{Seal: recipientSeal, Amount: 10000}},
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	err = recipient.Accept(AcceptParams{
		Consignment: *consignment,
		Reveals:     []rpc.RevealMsg{{Outpoint: recipientOutpoint, Blinding: recipientBlinding, Amount: 9999}},
	})
	if err == nil {
		t.Fatalf("expected Accept to reject a revealed amount that doesn't match the commitment")
	}
}

func TestForgetRemovesCacheAndStashAllocations(t *testing.T) {
	rt := newTestRuntime(t)
	op := outpoint(0x40, 0)
	asset, err := rt.Issue(IssueParams{
		Ticker:      "USDT",
		Name:        "Demo",
		Precision:   2,
		Allocations: []rpc.CoinAllocation{{Outpoint: op, Amount: 10000}},
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(rt.cache.OutpointAssets(op)) != 1 {
		t.Fatalf("expected the issued outpoint to be cached before Forget")
	}

	removed, err := rt.Forget(op)
	if err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if !removed {
		t.Fatalf("expected Forget to report that allocations were removed")
	}
	if got := rt.cache.OutpointAssets(op); len(got) != 0 {
		t.Fatalf("expected Forget to clear the outpoint's allocations, got %v", got)
	}
	if _, err := rt.cache.Asset(asset.ContractId); err != nil {
		t.Fatalf("expected the asset entry itself to survive Forget, got %v", err)
	}

	removed, err = rt.Forget(op)
	if err != nil {
		t.Fatalf("second Forget: %v", err)
	}
	if removed {
		t.Fatalf("expected a repeat Forget to report nothing left to remove")
	}
}

// TestForgetRepliesNothingForUnknownOutpoint drives the Forget request
// over real RPC: an outpoint the cache knows nothing about yields a
// Nothing reply, not a Success, and the stash is never consulted.
func TestForgetRepliesNothingForUnknownOutpoint(t *testing.T) {
	rt := newTestRuntime(t)
	go rt.Run()

	client := rpc.NewClient(bus.NewRequestSocket("tcp://" + rt.RPCAddr()))
	req := &rpc.FAForgetRequest{Outpoint: outpoint(0x41, 0)}
	tag, _, err := client.Call(uint16(rpc.TagFAForget), req.Encode(), rpc.TagSuccess, rpc.TagNothing)
	if err != nil {
		t.Fatalf("Forget call: %v", err)
	}
	if tag != rpc.TagNothing {
		t.Fatalf("expected a Nothing reply for an unknown outpoint, got %v", tag)
	}
}

func TestSyncAdoptsExistingStashContracts(t *testing.T) {
	stashRPC, stashSub := startTestStash(t)
	issuer, err := NewRuntime(NewCache(), NewStashClient(stashRPC, 2*time.Second), "regtest",
		"tcp://127.0.0.1:0", "tcp://127.0.0.1:0", stashSub, testLogger(t))
	if err != nil {
		t.Fatalf("issuer NewRuntime: %v", err)
	}
	t.Cleanup(func() { issuer.Close() })

	asset, err := issuer.Issue(IssueParams{
		Ticker:      "USDT",
		Name:        "Demo",
		Precision:   2,
		Allocations: []rpc.CoinAllocation{{Outpoint: outpoint(0x50, 0), Amount: 10000}},
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	fresh, err := NewRuntime(NewCache(), NewStashClient(stashRPC, 2*time.Second), "regtest",
		"tcp://127.0.0.1:0", "tcp://127.0.0.1:0", stashSub, testLogger(t))
	if err != nil {
		t.Fatalf("fresh NewRuntime: %v", err)
	}
	t.Cleanup(func() { fresh.Close() })

	n, err := fresh.Sync()
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected Sync to adopt exactly 1 contract, got %d", n)
	}
	if !fresh.cache.HasAsset(asset.ContractId) {
		t.Fatalf("expected Sync to populate the cache with the stash's known contract")
	}
}
