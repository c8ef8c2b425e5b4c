// Copyright 2026 RGB Protocol
//
// Deadline-bounded RPC client for the stash service

package fungible

import (
	"errors"
	"time"

	"github.com/rgbprotocol/rgbd/pkg/bus"
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/rpc"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// StashClient is the fungible runtime's sole connection to the stash:
// every consignment, validation, merge, or forget call the fungible side
// needs goes through here.
//
// Calls are bounded by a configurable deadline. bus.RequestSocket.Call
// has no deadline of its own, so this wraps it in a goroutine and races
// it against a timer; a late reply is simply dropped when nothing is
// left reading the channel.
type StashClient struct {
	rpc      *rpc.Client
	deadline time.Duration
}

// NewStashClient dials nothing yet (the underlying RequestSocket
// connects lazily per call); deadline bounds every call this client
// makes.
func NewStashClient(endpoint string, deadline time.Duration) *StashClient {
	return &StashClient{rpc: rpc.NewClient(bus.NewRequestSocket(endpoint)), deadline: deadline}
}

var errStashTimeout = errors.New("stash call timed out")

func (sc *StashClient) call(tag uint16, payload []byte, want ...rpc.ReplyTag) (rpc.ReplyTag, []byte, error) {
	type result struct {
		tag     rpc.ReplyTag
		payload []byte
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		t, p, err := sc.rpc.Call(tag, payload, want...)
		ch <- result{t, p, err}
	}()
	select {
	case r := <-ch:
		return r.tag, r.payload, r.err
	case <-time.After(sc.deadline):
		return 0, nil, rgberrors.Wrap(rgberrors.KindTransport, "stash call timed out", errStashTimeout)
	}
}

// Consign asks the stash to assemble a consignment for transition.
func (sc *StashClient) Consign(transition types.Transition, anchor types.Anchor, outpoints []types.OutpointHash) (*types.Consignment, error) {
	req := &rpc.ConsignRequestMsg{Transition: transition, Anchor: anchor, Outpoints: outpoints}
	_, payload, err := sc.call(uint16(rpc.TagConsign), req.Encode(), rpc.TagConsignmentReply)
	if err != nil {
		return nil, err
	}
	rep, err := rpc.DecodeConsignmentReply(payload)
	if err != nil {
		return nil, rgberrors.Wrap(rgberrors.KindProtocol, "decoding Consign reply", err)
	}
	return &rep.Consignment, nil
}

// Validate asks the stash to validate a consignment.
func (sc *StashClient) Validate(c *types.Consignment) (*rpc.ValidationStatusReply, error) {
	req := &rpc.ValidateRequest{Consignment: *c}
	_, payload, err := sc.call(uint16(rpc.TagValidate), req.Encode(), rpc.TagValidationStatus)
	if err != nil {
		return nil, err
	}
	return rpc.DecodeValidationStatusReply(payload)
}

// Merge asks the stash to validate and, if valid, commit a consignment.
func (sc *StashClient) Merge(c *types.Consignment, revealOutpoints []types.OutpointHash) (*rpc.MergeReply, error) {
	req := &rpc.MergeRequestMsg{Consignment: *c, RevealOutpoints: revealOutpoints}
	_, payload, err := sc.call(uint16(rpc.TagMerge), req.Encode(), rpc.TagMergeReply)
	if err != nil {
		return nil, err
	}
	return rpc.DecodeMergeReply(payload)
}

// Forget asks the stash to drop the given owned-right records.
func (sc *StashClient) Forget(entries []rpc.ForgetEntryMsg) error {
	req := &rpc.ForgetRequest{Entries: entries}
	_, _, err := sc.call(uint16(rpc.TagForget), req.Encode(), rpc.TagSuccess)
	return err
}

// AddGenesis asks the stash to install a contract's root node.
func (sc *StashClient) AddGenesis(g *types.Genesis) error {
	req := &rpc.AddGenesisRequest{Genesis: *g}
	_, _, err := sc.call(uint16(rpc.TagAddGenesis), req.Encode(), rpc.TagSuccess)
	return err
}

// ListGeneses asks the stash for every contract's genesis, for cache
// reconciliation.
func (sc *StashClient) ListGeneses() ([]*types.Genesis, error) {
	_, payload, err := sc.call(uint16(rpc.TagListGeneses), nil, rpc.TagGenesesList)
	if err != nil {
		return nil, err
	}
	rep, err := rpc.DecodeGenesisListReply(payload)
	if err != nil {
		return nil, rgberrors.Wrap(rgberrors.KindProtocol, "decoding ListGeneses reply", err)
	}
	return rep.Geneses, nil
}

// ReadGenesis asks the stash for a contract's genesis.
func (sc *StashClient) ReadGenesis(id types.ContractId) (*types.Genesis, error) {
	req := &rpc.ReadGenesisRequest{ContractId: id}
	_, payload, err := sc.call(uint16(rpc.TagReadGenesis), req.Encode(), rpc.TagGenesisReply)
	if err != nil {
		return nil, err
	}
	rep, err := rpc.DecodeGenesisReply(payload)
	if err != nil {
		return nil, rgberrors.Wrap(rgberrors.KindProtocol, "decoding ReadGenesis reply", err)
	}
	return &rep.Genesis, nil
}
