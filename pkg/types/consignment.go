// Copyright 2026 RGB Protocol
//
// Portable consignment bundle: genesis, anchored transitions, endpoints

package types

import (
	"github.com/rgbprotocol/rgbd/pkg/strictenc"
)

// AnchoredTransition pairs a non-root node with the anchor that binds it
// to an on-chain transaction output.
type AnchoredTransition struct {
	Anchor     Anchor
	Transition Transition
}

// Endpoint names an owned-right assignment this consignment leaves open:
// the (NodeId, OutpointHash) of a produced assignment whose seal is not
// resolved inside the consignment itself; the recipient resolves it on
// acceptance.
type Endpoint struct {
	Node NodeId
	Seal OutpointHash
}

// Consignment is a self-contained, verifiable ancestry slice: a genesis,
// the topologically-sorted chain of anchored transitions descending from
// it, and the open endpoints a recipient should resolve.
type Consignment struct {
	Genesis          Genesis
	StateTransitions []AnchoredTransition
	Endpoints        []Endpoint
}

// Encode produces the strict binary encoding of the consignment.
func (c *Consignment) Encode() []byte {
	w := strictenc.NewWriter()
	genesisBytes := c.Genesis.Encode()
	_ = w.VarBytes(genesisBytes)

	_ = w.Varint(uint64(len(c.StateTransitions)))
	for _, at := range c.StateTransitions {
		_ = w.VarBytes(at.Anchor.Encode())
		_ = w.VarBytes(at.Transition.Encode())
	}

	_ = w.Varint(uint64(len(c.Endpoints)))
	for _, ep := range c.Endpoints {
		w.Bytes32(ep.Node.Bytes())
		w.Bytes32(ep.Seal.Bytes())
	}
	return w.Bytes()
}

// DecodeConsignment decodes a strict-encoded Consignment.
func DecodeConsignment(b []byte) (*Consignment, error) {
	c := &Consignment{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		genesisBytes, err := r.VarBytes()
		if err != nil {
			return err
		}
		genesis, err := DecodeGenesis(genesisBytes)
		if err != nil {
			return err
		}
		c.Genesis = *genesis

		n, err := r.Varint()
		if err != nil {
			return err
		}
		c.StateTransitions = make([]AnchoredTransition, 0, n)
		for i := uint64(0); i < n; i++ {
			anchorBytes, err := r.VarBytes()
			if err != nil {
				return err
			}
			anchor, err := DecodeAnchor(anchorBytes)
			if err != nil {
				return err
			}
			transitionBytes, err := r.VarBytes()
			if err != nil {
				return err
			}
			transition, err := DecodeTransition(transitionBytes)
			if err != nil {
				return err
			}
			c.StateTransitions = append(c.StateTransitions, AnchoredTransition{
				Anchor:     *anchor,
				Transition: *transition,
			})
		}

		n, err = r.Varint()
		if err != nil {
			return err
		}
		c.Endpoints = make([]Endpoint, 0, n)
		for i := uint64(0); i < n; i++ {
			nodeBytes, err := r.Bytes32()
			if err != nil {
				return err
			}
			sealBytes, err := r.Bytes32()
			if err != nil {
				return err
			}
			c.Endpoints = append(c.Endpoints, Endpoint{
				Node: NodeIdFromBytes(nodeBytes),
				Seal: OutpointHashFromBytes(sealBytes),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
