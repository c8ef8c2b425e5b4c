// Copyright 2026 RGB Protocol
//
// Fungible asset projection: supplies and outpoint-indexed allocations

package types

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/rgbprotocol/rgbd/pkg/strictenc"
)

// Issue records one supply event of a fungible asset. The cache only ever
// records the genesis's initial issuance here.
type Issue struct {
	NodeId NodeId
	Amount uint64 // 0 when the issuance is fully confidential
}

// Allocation is a single owned right the fungible cache has indexed
// against a concrete UTXO.
type Allocation struct {
	Outpoint        wire.OutPoint
	NodeId          NodeId
	AssignmentIndex uint32
	// ConfidentialAmount is the Pedersen commitment the allocation carries;
	// RevealedAmount/Revealed mirror a State's own reveal bookkeeping so
	// the cache can report known balances without re-reading the stash.
	ConfidentialAmount [32]byte
	Revealed           bool
	RevealedAmount     uint64
}

// Asset is the fungible-asset projection the cache maintains over a
// contract's DAG: ticker metadata, the issuance history, and the known
// allocations by outpoint.
type Asset struct {
	ContractId ContractId
	Ticker     string
	Name       string
	Precision  uint8
	Supplies   []Issue
	// KnownAllocations indexes allocations by the string form of their
	// outpoint ("txid:vout") so the type stays a plain comparable map key;
	// pkg/fungible reconstructs wire.OutPoint via Allocation.Outpoint.
	KnownAllocations map[string][]Allocation
}

// TotalKnownSupply sums every revealed issuance amount; confidential
// issuances (Amount == 0 with no reveal) don't contribute, matching the
// cache's "only counts what it can see" semantics.
func (a *Asset) TotalKnownSupply() uint64 {
	var total uint64
	for _, issue := range a.Supplies {
		total += issue.Amount
	}
	return total
}

func outpointKey(op wire.OutPoint) string {
	return op.String()
}

// AddAllocation indexes alloc under its own outpoint.
func (a *Asset) AddAllocation(alloc Allocation) {
	if a.KnownAllocations == nil {
		a.KnownAllocations = map[string][]Allocation{}
	}
	key := outpointKey(alloc.Outpoint)
	a.KnownAllocations[key] = append(a.KnownAllocations[key], alloc)
}

// RemoveAllocations drops every allocation known at outpoint, e.g. on
// Forget(outpoint).
func (a *Asset) RemoveAllocations(op wire.OutPoint) {
	delete(a.KnownAllocations, outpointKey(op))
}

func encodeOutpoint(w *strictenc.Writer, op wire.OutPoint) {
	w.Bytes32([32]byte(op.Hash))
	w.U32(op.Index)
}

func decodeOutpoint(r *strictenc.Reader) (wire.OutPoint, error) {
	hashBytes, err := r.Bytes32()
	if err != nil {
		return wire.OutPoint{}, err
	}
	idx, err := r.U32()
	if err != nil {
		return wire.OutPoint{}, err
	}
	return wire.OutPoint{Hash: chainhash.Hash(hashBytes), Index: idx}, nil
}

func encodeAllocation(w *strictenc.Writer, a Allocation) {
	encodeOutpoint(w, a.Outpoint)
	w.Bytes32(a.NodeId.Bytes())
	w.U32(a.AssignmentIndex)
	w.Bytes32(a.ConfidentialAmount)
	w.Bool(a.Revealed)
	if a.Revealed {
		w.U64(a.RevealedAmount)
	}
}

func decodeAllocation(r *strictenc.Reader) (Allocation, error) {
	op, err := decodeOutpoint(r)
	if err != nil {
		return Allocation{}, err
	}
	nodeBytes, err := r.Bytes32()
	if err != nil {
		return Allocation{}, err
	}
	idx, err := r.U32()
	if err != nil {
		return Allocation{}, err
	}
	commit, err := r.Bytes32()
	if err != nil {
		return Allocation{}, err
	}
	revealed, err := r.Bool()
	if err != nil {
		return Allocation{}, err
	}
	out := Allocation{
		Outpoint:           op,
		NodeId:             NodeIdFromBytes(nodeBytes),
		AssignmentIndex:    idx,
		ConfidentialAmount: commit,
		Revealed:           revealed,
	}
	if revealed {
		amt, err := r.U64()
		if err != nil {
			return Allocation{}, err
		}
		out.RevealedAmount = amt
	}
	return out, nil
}

// Encode produces the strict binary encoding of the asset, used by the
// cache's StrictEncode persistence format.
func (a *Asset) Encode() []byte {
	w := strictenc.NewWriter()
	w.Bytes32(a.ContractId.Bytes())
	_ = w.VarString(a.Ticker)
	_ = w.VarString(a.Name)
	w.U8(a.Precision)

	_ = w.Varint(uint64(len(a.Supplies)))
	for _, issue := range a.Supplies {
		w.Bytes32(issue.NodeId.Bytes())
		w.U64(issue.Amount)
	}

	keys := strictenc.SortedMapKeys(mapKeys(a.KnownAllocations))
	_ = w.Varint(uint64(len(keys)))
	for _, k := range keys {
		_ = w.VarString(k)
		allocs := a.KnownAllocations[k]
		_ = w.Varint(uint64(len(allocs)))
		for _, alloc := range allocs {
			encodeAllocation(w, alloc)
		}
	}
	return w.Bytes()
}

func mapKeys(m map[string][]Allocation) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// DecodeAsset decodes a strict-encoded Asset.
func DecodeAsset(b []byte) (*Asset, error) {
	a := &Asset{KnownAllocations: map[string][]Allocation{}}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		contractBytes, err := r.Bytes32()
		if err != nil {
			return err
		}
		a.ContractId = ContractIdFromBytes(contractBytes)

		ticker, err := r.VarString()
		if err != nil {
			return err
		}
		a.Ticker = ticker

		name, err := r.VarString()
		if err != nil {
			return err
		}
		a.Name = name

		precision, err := r.U8()
		if err != nil {
			return err
		}
		a.Precision = precision

		n, err := r.Varint()
		if err != nil {
			return err
		}
		a.Supplies = make([]Issue, 0, n)
		for i := uint64(0); i < n; i++ {
			nodeBytes, err := r.Bytes32()
			if err != nil {
				return err
			}
			amt, err := r.U64()
			if err != nil {
				return err
			}
			a.Supplies = append(a.Supplies, Issue{NodeId: NodeIdFromBytes(nodeBytes), Amount: amt})
		}

		nk, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < nk; i++ {
			key, err := r.VarString()
			if err != nil {
				return err
			}
			na, err := r.Varint()
			if err != nil {
				return err
			}
			allocs := make([]Allocation, 0, na)
			for j := uint64(0); j < na; j++ {
				alloc, err := decodeAllocation(r)
				if err != nil {
					return err
				}
				allocs = append(allocs, alloc)
			}
			a.KnownAllocations[key] = allocs
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
