// Copyright 2026 RGB Protocol
//
// Stash service runtime: sockets, handlers, event loop

package stash

import (
	"log"

	"github.com/rgbprotocol/rgbd/pkg/bus"
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/rpc"
)

// Runtime wires a Store to the RPC dispatch fabric. It owns the stash's
// two sockets, an RPC server (reply) and a notification publisher
// (publish), and registers a RequestFunc per StashTag.
type Runtime struct {
	store      *Store
	dispatcher *rpc.Dispatcher
	rep        *bus.ReplySocket
	pub        *bus.PublishSocket
	logger     *log.Logger
}

// NewRuntime opens the stash's sockets, installs the built-in fungible
// schema (idempotent across restarts), and registers every stash request
// handler.
func NewRuntime(store *Store, rpcEndpoint, pubEndpoint string, logger *log.Logger) (*Runtime, error) {
	if err := store.AddSchema(BuiltinFungibleSchema()); err != nil {
		return nil, rgberrors.Wrap(rgberrors.KindBootstrap, "installing built-in fungible schema", err)
	}

	rep, err := bus.NewReplySocket(rpcEndpoint, logger)
	if err != nil {
		return nil, rgberrors.Wrap(rgberrors.KindBootstrap, "opening stash RPC endpoint", err)
	}
	pub, err := bus.NewPublishSocket(pubEndpoint, logger)
	if err != nil {
		rep.Close()
		return nil, rgberrors.Wrap(rgberrors.KindBootstrap, "opening stash notification endpoint", err)
	}

	rt := &Runtime{store: store, rep: rep, pub: pub, logger: logger}
	rt.dispatcher = rpc.NewDispatcher(logger)
	rt.registerHandlers()
	return rt, nil
}

// RPCAddr returns the bound address of the stash's RPC endpoint.
func (rt *Runtime) RPCAddr() string { return rt.rep.Addr() }

// PubAddr returns the bound address of the stash's notification endpoint.
func (rt *Runtime) PubAddr() string { return rt.pub.Addr() }

// Run enters the event loop: receive one request, dispatch it, send one
// reply. It blocks until Close is called from another goroutine.
func (rt *Runtime) Run() {
	rt.logger.Printf("🗄️  stash runtime listening")
	rt.rep.Serve(rt.dispatcher.Handle)
}

// Close shuts down both of the stash's sockets.
func (rt *Runtime) Close() error {
	pubErr := rt.pub.Close()
	repErr := rt.rep.Close()
	if repErr != nil {
		return repErr
	}
	return pubErr
}

// notify publishes a best-effort notification frame. Notifications must trail
// the triggering request's reply; since bus.ReplySocket writes the reply
// synchronously inside serveConn, this runtime approximates that ordering by
// publishing from a separate goroutine rather than blocking the reply path on a
// subscriber's receive.
func (rt *Runtime) notify(payload []byte) {
	go rt.pub.Publish(payload)
}

func (rt *Runtime) registerHandlers() {
	rt.dispatcher.Register(uint16(rpc.TagAddSchema), rt.handleAddSchema)
	rt.dispatcher.Register(uint16(rpc.TagListSchemata), rt.handleListSchemata)
	rt.dispatcher.Register(uint16(rpc.TagReadSchema), rt.handleReadSchema)
	rt.dispatcher.Register(uint16(rpc.TagAddGenesis), rt.handleAddGenesis)
	rt.dispatcher.Register(uint16(rpc.TagListGeneses), rt.handleListGeneses)
	rt.dispatcher.Register(uint16(rpc.TagReadGenesis), rt.handleReadGenesis)
	rt.dispatcher.Register(uint16(rpc.TagReadTransitions), rt.handleReadTransitions)
	rt.dispatcher.Register(uint16(rpc.TagConsign), rt.handleConsign)
	rt.dispatcher.Register(uint16(rpc.TagValidate), rt.handleValidate)
	rt.dispatcher.Register(uint16(rpc.TagMerge), rt.handleMerge)
	rt.dispatcher.Register(uint16(rpc.TagForget), rt.handleForget)
}

func (rt *Runtime) handleAddSchema(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeAddSchemaRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding AddSchema request", err)
	}
	if err := rt.store.AddSchema(&req.Schema); err != nil {
		return 0, nil, err
	}
	return rpc.TagSuccess, nil, nil
}

func (rt *Runtime) handleListSchemata(payload []byte) (rpc.ReplyTag, []byte, error) {
	schemata, err := rt.store.ListSchemata()
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.SchemaListReply{Schemata: schemata}
	return rpc.TagSchemataList, rep.Encode(), nil
}

func (rt *Runtime) handleReadSchema(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeReadSchemaRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding ReadSchema request", err)
	}
	schema, err := rt.store.ReadSchema(req.Id)
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.SchemaReply{Schema: *schema}
	return rpc.TagSchemaReply, rep.Encode(), nil
}

func (rt *Runtime) handleAddGenesis(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeAddGenesisRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding AddGenesis request", err)
	}
	if err := rt.store.AddGenesis(&req.Genesis); err != nil {
		return 0, nil, err
	}
	return rpc.TagSuccess, nil, nil
}

func (rt *Runtime) handleListGeneses(payload []byte) (rpc.ReplyTag, []byte, error) {
	geneses, err := rt.store.ListGeneses()
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.GenesisListReply{Geneses: geneses}
	return rpc.TagGenesesList, rep.Encode(), nil
}

func (rt *Runtime) handleReadGenesis(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeReadGenesisRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding ReadGenesis request", err)
	}
	genesis, err := rt.store.ReadGenesis(req.ContractId)
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.GenesisReply{Genesis: *genesis}
	return rpc.TagGenesisReply, rep.Encode(), nil
}

func (rt *Runtime) handleReadTransitions(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeReadTransitionsRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding ReadTransitions request", err)
	}
	anchors, transitions, err := rt.store.ReadTransitions(req.Ids)
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.TransitionsReply{Anchors: anchors, Transitions: transitions}
	return rpc.TagTransitionsList, rep.Encode(), nil
}

func (rt *Runtime) handleConsign(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeConsignRequestMsg(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Consign request", err)
	}
	c, err := rt.store.Consign(ConsignRequest{
		Transition: req.Transition,
		Anchor:     req.Anchor,
		Outpoints:  req.Outpoints,
	})
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.ConsignmentReply{Consignment: *c}
	return rpc.TagConsignmentReply, rep.Encode(), nil
}

func (rt *Runtime) handleValidate(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeValidateRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Validate request", err)
	}
	status, err := rt.store.Validate(&req.Consignment)
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.ValidationStatusReply{Valid: status.Valid, Failures: status.Failures}
	return rpc.TagValidationStatus, rep.Encode(), nil
}

func (rt *Runtime) handleMerge(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeMergeRequestMsg(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Merge request", err)
	}
	result, err := rt.store.Merge(&req.Consignment, req.RevealOutpoints)
	if err != nil {
		return 0, nil, err
	}
	revealed := make([]rpc.RevealedAllocationMsg, 0, len(result.Revealed))
	for _, r := range result.Revealed {
		revealed = append(revealed, rpc.RevealedAllocationMsg{
			Node:           r.Node,
			AssignmentIdx:  uint32(r.AssignmentIdx),
			RevealedAmount: r.Assignment.State.Amount,
			Blinding:       r.Assignment.State.Blinding,
		})
	}
	rep := &rpc.MergeReply{Revealed: revealed}
	contractId := req.Consignment.Genesis.ContractId()
	rt.notify(contractId.Hash256[:])
	return rpc.TagMergeReply, rep.Encode(), nil
}

func (rt *Runtime) handleForget(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeForgetRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Forget request", err)
	}
	entries := make([]RevIndexEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, RevIndexEntry{Node: e.Node, Index: e.Index})
	}
	if err := rt.store.Forget(entries); err != nil {
		return 0, nil, err
	}
	return rpc.TagSuccess, nil, nil
}
