// Copyright 2026 RGB Protocol
//
// Fungible service runtime: sockets, handlers, event loop

package fungible

import (
	"log"

	"github.com/btcsuite/btcd/wire"

	"github.com/rgbprotocol/rgbd/pkg/bus"
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/rpc"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// IssueParams is the caller-facing form of an Issue call: amounts are already
// in minor units, outpoints already chosen by the caller's wallet.
type IssueParams struct {
	Ticker      string
	Name        string
	Precision   uint8
	Allocations []rpc.CoinAllocation
}

// TransferParams is the caller-facing form of a Transfer call.
type TransferParams struct {
	ContractId types.ContractId
	Inputs     []wire.OutPoint
	Ours       []rpc.CoinAllocation
	Theirs     []rpc.TheirAllocation
	Psbt       []byte
}

// AcceptParams is the caller-facing form of an Accept call: a consignment
// received from a counterparty plus the (outpoint, blinding) pairs the
// caller can itself reveal.
type AcceptParams struct {
	Consignment types.Consignment
	Reveals     []rpc.RevealMsg
}

// Runtime wires the asset cache and a stash connection to the RPC
// dispatch fabric. It additionally
// subscribes to the stash's notification publisher and forwards each
// notification on its own publisher; notifications do not update the
// cache.
type Runtime struct {
	cache      *Cache
	stash      *StashClient
	network    string
	dispatcher *rpc.Dispatcher
	rep        *bus.ReplySocket
	pub        *bus.PublishSocket
	sub        *bus.SubscribeSocket
	logger     *log.Logger
}

// NewRuntime opens the fungible runtime's sockets, connects to the stash's
// RPC and notification endpoints, and registers every fungible request
// handler.
func NewRuntime(cache *Cache, stash *StashClient, network, rpcEndpoint, pubEndpoint, stashSubEndpoint string, logger *log.Logger) (*Runtime, error) {
	rep, err := bus.NewReplySocket(rpcEndpoint, logger)
	if err != nil {
		return nil, rgberrors.Wrap(rgberrors.KindBootstrap, "opening fungible RPC endpoint", err)
	}
	pub, err := bus.NewPublishSocket(pubEndpoint, logger)
	if err != nil {
		rep.Close()
		return nil, rgberrors.Wrap(rgberrors.KindBootstrap, "opening fungible notification endpoint", err)
	}
	sub, err := bus.NewSubscribeSocket(stashSubEndpoint, logger)
	if err != nil {
		rep.Close()
		pub.Close()
		return nil, rgberrors.Wrap(rgberrors.KindBootstrap, "subscribing to stash notifications", err)
	}

	rt := &Runtime{cache: cache, stash: stash, network: network, rep: rep, pub: pub, sub: sub, logger: logger}
	rt.dispatcher = rpc.NewDispatcher(logger)
	rt.registerHandlers()
	go rt.sub.Listen(rt.onStashNotification)
	return rt, nil
}

// RPCAddr returns the bound address of the fungible runtime's RPC
// endpoint.
func (rt *Runtime) RPCAddr() string { return rt.rep.Addr() }

// PubAddr returns the bound address of the fungible runtime's
// notification endpoint.
func (rt *Runtime) PubAddr() string { return rt.pub.Addr() }

// Run enters the event loop; it blocks until Close is called from another
// goroutine.
func (rt *Runtime) Run() {
	rt.logger.Printf("💰 fungible runtime listening")
	rt.rep.Serve(rt.dispatcher.Handle)
}

// Close shuts down all three of the fungible runtime's sockets.
func (rt *Runtime) Close() error {
	subErr := rt.sub.Close()
	pubErr := rt.pub.Close()
	repErr := rt.rep.Close()
	if repErr != nil {
		return repErr
	}
	if pubErr != nil {
		return pubErr
	}
	return subErr
}

// onStashNotification reacts to a contract-id notification from the
// stash's Merge handler by forwarding the same notification on this
// runtime's own publisher, so a UI subscribed only to the fungible side
// still observes contract updates.
func (rt *Runtime) onStashNotification(payload []byte) {
	rt.pub.Publish(payload)
}

func (rt *Runtime) registerHandlers() {
	rt.dispatcher.Register(uint16(rpc.TagIssue), rt.handleIssue)
	rt.dispatcher.Register(uint16(rpc.TagTransfer), rt.handleTransfer)
	rt.dispatcher.Register(uint16(rpc.TagFAValidate), rt.handleValidate)
	rt.dispatcher.Register(uint16(rpc.TagAccept), rt.handleAccept)
	rt.dispatcher.Register(uint16(rpc.TagFAForget), rt.handleForget)
	rt.dispatcher.Register(uint16(rpc.TagImportAsset), rt.handleImportAsset)
	rt.dispatcher.Register(uint16(rpc.TagExportAsset), rt.handleExportAsset)
	rt.dispatcher.Register(uint16(rpc.TagSync), rt.handleSync)
	rt.dispatcher.Register(uint16(rpc.TagAssets), rt.handleAssets)
	rt.dispatcher.Register(uint16(rpc.TagAllocations), rt.handleAllocations)
}

func (rt *Runtime) handleIssue(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeIssueRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Issue request", err)
	}
	asset, err := rt.Issue(IssueParams{
		Ticker:      req.Ticker,
		Name:        req.Name,
		Precision:   req.Precision,
		Allocations: req.Allocations,
	})
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.AssetReply{Asset: *asset}
	return rpc.TagAsset, rep.Encode(), nil
}

func (rt *Runtime) handleTransfer(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeTransferRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Transfer request", err)
	}
	c, err := rt.Transfer(TransferParams{
		ContractId: req.ContractId,
		Inputs:     req.Inputs,
		Ours:       req.Ours,
		Theirs:     req.Theirs,
		Psbt:       req.Psbt,
	})
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.TransferReplyMsg{Consignment: *c, Psbt: req.Psbt}
	return rpc.TagTransferReply, rep.Encode(), nil
}

func (rt *Runtime) handleValidate(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeValidateRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Validate request", err)
	}
	status, err := rt.stash.Validate(&req.Consignment)
	if err != nil {
		return 0, nil, err
	}
	return rpc.TagValidationStatus, status.Encode(), nil
}

func (rt *Runtime) handleAccept(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeAcceptRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Accept request", err)
	}
	if err := rt.Accept(AcceptParams{Consignment: req.Consignment, Reveals: req.Reveals}); err != nil {
		return 0, nil, err
	}
	return rpc.TagSuccess, nil, nil
}

func (rt *Runtime) handleForget(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeFAForgetRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Forget request", err)
	}
	removed, err := rt.Forget(req.Outpoint)
	if err != nil {
		return 0, nil, err
	}
	if !removed {
		return rpc.TagNothing, nil, nil
	}
	return rpc.TagSuccess, nil, nil
}

func (rt *Runtime) handleImportAsset(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeImportAssetRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding ImportAsset request", err)
	}
	asset, err := rt.ImportAsset(&req.Genesis)
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.AssetReply{Asset: *asset}
	return rpc.TagAsset, rep.Encode(), nil
}

func (rt *Runtime) handleExportAsset(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeExportAssetRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding ExportAsset request", err)
	}
	genesis, err := rt.stash.ReadGenesis(req.ContractId)
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.GenesisReply{Genesis: *genesis}
	return rpc.TagGenesisReply, rep.Encode(), nil
}

func (rt *Runtime) handleSync(payload []byte) (rpc.ReplyTag, []byte, error) {
	n, err := rt.Sync()
	if err != nil {
		return 0, nil, err
	}
	rep := &rpc.SyncReply{AssetsSynced: n}
	return rpc.TagSyncReply, rep.Encode(), nil
}

func (rt *Runtime) handleAssets(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeAssetsRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Assets request", err)
	}
	rep := &rpc.OutpointAssetsReply{ContractIds: rt.cache.OutpointAssets(req.Outpoint)}
	return rpc.TagOutpointAssets, rep.Encode(), nil
}

func (rt *Runtime) handleAllocations(payload []byte) (rpc.ReplyTag, []byte, error) {
	req, err := rpc.DecodeAllocationsRequest(payload)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindParse, "decoding Allocations request", err)
	}
	rep := &rpc.AssetAllocationsReply{Allocations: rt.cache.AssetAllocations(req.ContractId)}
	return rpc.TagAssetAllocations, rep.Encode(), nil
}
