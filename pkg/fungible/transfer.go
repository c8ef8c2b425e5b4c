// Copyright 2026 RGB Protocol
//
// Transfer workflow: transition construction and consignment request

package fungible

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"

	"github.com/rgbprotocol/rgbd/pkg/commitment"
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/stash"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// Transfer spends params.Inputs and produces a fresh transition assigning
// params.Ours to the sender's own change outputs and params.Theirs to the
// recipient's confidential seals, then asks the stash to assemble it into
// a consignment. params.Psbt is parsed only far
// enough to confirm it is a well-formed PSBT; finalizing, signing, and
// broadcasting it is out of scope and it travels
// through the rest of the pipeline opaquely.
func (rt *Runtime) Transfer(params TransferParams) (*types.Consignment, error) {
	if len(params.Inputs) == 0 {
		return nil, fmt.Errorf("fungible: transfer requires at least one input")
	}
	if len(params.Ours)+len(params.Theirs) == 0 {
		return nil, fmt.Errorf("fungible: transfer requires at least one output allocation")
	}
	if len(params.Psbt) > 0 {
		if _, err := psbt.NewFromRawBytes(bytes.NewReader(params.Psbt), false); err != nil {
			return nil, rgberrors.Wrap(rgberrors.KindParse, "parsing transfer PSBT", err)
		}
	}

	transition := types.Transition{
		TransitionType: stash.FungibleTransitionTransfer,
	}
	for _, op := range params.Inputs {
		oh := types.OutpointHashFromReveal(op.Hash, op.Index, blindingForOutpoint(op))
		transition.Inputs = append(transition.Inputs, types.Input{Seal: oh})
	}

	for _, our := range params.Ours {
		seal := types.NewRevealedSeal(our.Outpoint, blindingForOutpoint(our.Outpoint))
		transition.Assignments = append(transition.Assignments, types.Assignment{
			OwnedRightType: stash.FungibleOwnedRightBalance,
			Seal:           seal,
			State:          types.NewAmountState(our.Amount, commitment.BlindingFromSeed(seal.Hash.Hash256[:])),
		})
	}
	for _, their := range params.Theirs {
		// The recipient's state stays confidential: only the commitment
		// travels. Its blinding derives from the seal hash the recipient
		// itself generated, so the recipient can reopen the commitment
		// against the amount the invoice quoted.
		blinding := commitment.BlindingFromSeed(their.Seal.Hash256[:])
		transition.Assignments = append(transition.Assignments, types.Assignment{
			OwnedRightType: stash.FungibleOwnedRightBalance,
			Seal:           types.Seal{Confidential: true, Hash: their.Seal},
			State:          types.State{Kind: types.StateAmount, Commitment: commitment.Commit(their.Amount, blinding)},
		})
	}

	nodeId := transition.NodeId()

	var anchor types.Anchor
	switch {
	case len(params.Ours) > 0:
		anchor = types.NewLeafAnchor(params.Ours[0].Outpoint.Hash, params.Ours[0].Outpoint.Index, nodeId)
	default:
		// Every output is confidential: anchor to the first spent input's
		// transaction, since no plaintext output outpoint is available to
		// bind against (the sender still knows which transaction commits
		// the transition, just not the recipient's outpoint).
		anchor = types.NewLeafAnchor(params.Inputs[0].Hash, params.Inputs[0].Index, nodeId)
	}

	endpoints := make([]types.OutpointHash, 0, len(params.Theirs))
	for _, their := range params.Theirs {
		endpoints = append(endpoints, their.Seal)
	}

	c, err := rt.stash.Consign(transition, anchor, endpoints)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// blindingForOutpoint derives a deterministic blinding factor from an
// outpoint the caller itself controls. A production signer would draw this
// from a CSPRNG and persist it alongside the PSBT; deriving it instead
// keeps Transfer a pure function of its arguments, which is what the
// accompanying tests exercise.
func blindingForOutpoint(op wire.OutPoint) [32]byte {
	return commitment.BlindingFromSeed(append(op.Hash[:], byte(op.Index)))
}
