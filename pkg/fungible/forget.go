// Copyright 2026 RGB Protocol
//
// Outpoint forget workflow across cache and stash

package fungible

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/rgbprotocol/rgbd/pkg/rpc"
)

// Forget drops every cached allocation at op and asks the stash to forget
// the underlying owned-right records too, so a spent outpoint stops
// weighing on either side's state. It reports whether any allocation was
// actually known at op: when the cache holds nothing there, the stash is
// never called and the caller replies Nothing rather than Success.
func (rt *Runtime) Forget(op wire.OutPoint) (bool, error) {
	var entries []rpc.ForgetEntryMsg
	for _, contractId := range rt.cache.OutpointAssets(op) {
		asset, err := rt.cache.Asset(contractId)
		if err != nil {
			continue
		}
		for _, alloc := range asset.KnownAllocations[outpointKey(op)] {
			entries = append(entries, rpc.ForgetEntryMsg{Node: alloc.NodeId, Index: alloc.AssignmentIndex})
		}
	}
	if len(entries) == 0 {
		return false, nil
	}
	if err := rt.stash.Forget(entries); err != nil {
		return false, err
	}
	rt.cache.Forget(op)
	return true, nil
}
