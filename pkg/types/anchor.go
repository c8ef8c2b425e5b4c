// Copyright 2026 RGB Protocol
//
// On-chain anchor commitments with Merkle-style inclusion paths

package types

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/rgbprotocol/rgbd/pkg/strictenc"
)

// Anchor binds a node's id to a specific output of an on-chain transaction via
// a deterministic, multi-protocol commitment: several contracts may anchor
// distinct node ids into the very same output, each proven by its own Merkle-
// style inclusion path against a shared CommittedRoot . Broadcasting,
// confirming, or otherwise touching the anchoring transaction itself is out of
// scope; the engine only ever checks that a claimed Anchor reconstructs to the
// node id it is attached to.
//
// The inclusion path pairs sha256(left||right) upward from the node id
// leaf, one sibling and one side bit per level, until it reaches the
// root the anchoring output committed to.
type Anchor struct {
	Txid          chainhash.Hash
	Vout          uint32
	CommittedRoot Hash256
	Path          []Hash256
	// PathSides holds one bit per Path entry: true means the sibling at
	// that level is the right-hand operand (this node's running hash is
	// the left operand), false means the reverse.
	PathSides []bool
}

func pairHash(left, right [32]byte) Hash256 {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return HashBytes(buf)
}

// Commit recomputes the root that nodeId's inclusion path leads to.
func (a *Anchor) Commit(nodeId NodeId) Hash256 {
	if len(a.Path) != len(a.PathSides) {
		// malformed anchor: caller must treat this as verification failure,
		// not panic; NewAnchor never produces mismatched slices.
		return Hash256{}
	}
	running := [32]byte(nodeId.Bytes())
	for i, sib := range a.Path {
		sibBytes := [32]byte(sib)
		if a.PathSides[i] {
			running = [32]byte(pairHash(running, sibBytes))
		} else {
			running = [32]byte(pairHash(sibBytes, running))
		}
	}
	return Hash256(running)
}

// Verify reports whether the anchor's commitment reconstructs to nodeId,
// i.e. anchor soundness.
func (a *Anchor) Verify(nodeId NodeId) bool {
	return a.Commit(nodeId) == a.CommittedRoot
}

// NewLeafAnchor builds a trivial single-leaf anchor: the committed root is
// the node id itself, with an empty path. This is the anchor a freshly
// issued genesis or a solo transition gets when no other contract shares
// its anchoring output.
func NewLeafAnchor(txid chainhash.Hash, vout uint32, nodeId NodeId) Anchor {
	return Anchor{
		Txid:          txid,
		Vout:          vout,
		CommittedRoot: Hash256(nodeId.Bytes()),
	}
}

// Encode produces the strict binary encoding of the anchor.
func (a *Anchor) Encode() []byte {
	w := strictenc.NewWriter()
	w.Bytes32([32]byte(a.Txid))
	w.U32(a.Vout)
	w.Bytes32([32]byte(a.CommittedRoot))
	_ = w.Varint(uint64(len(a.Path)))
	for i, sib := range a.Path {
		w.Bytes32([32]byte(sib))
		w.Bool(a.PathSides[i])
	}
	return w.Bytes()
}

// DecodeAnchor decodes a strict-encoded Anchor.
func DecodeAnchor(b []byte) (*Anchor, error) {
	a := &Anchor{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		txidBytes, err := r.Bytes32()
		if err != nil {
			return err
		}
		a.Txid = chainhash.Hash(txidBytes)
		vout, err := r.U32()
		if err != nil {
			return err
		}
		a.Vout = vout
		rootBytes, err := r.Bytes32()
		if err != nil {
			return err
		}
		a.CommittedRoot = Hash256(rootBytes)

		n, err := r.Varint()
		if err != nil {
			return err
		}
		a.Path = make([]Hash256, 0, n)
		a.PathSides = make([]bool, 0, n)
		for i := uint64(0); i < n; i++ {
			sibBytes, err := r.Bytes32()
			if err != nil {
				return err
			}
			side, err := r.Bool()
			if err != nil {
				return err
			}
			a.Path = append(a.Path, Hash256(sibBytes))
			a.PathSides = append(a.PathSides, side)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("types: decode anchor: %w", err)
	}
	return a, nil
}
