// Copyright 2026 RGB Protocol
//
// Consignment assembly: ancestry walk and topological ordering

package stash

import (
	"sort"

	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// ConsignRequest is the input to Consign: the new transition, the anchor
// binding it to its on-chain output, and the outpoints its recipient
// wants left as open endpoints.
type ConsignRequest struct {
	Transition types.Transition
	Anchor     types.Anchor
	Outpoints  []types.OutpointHash
}

type visitedNode struct {
	isGenesis  bool
	genesis    *types.Genesis
	anchor     *types.Anchor
	transition *types.Transition
}

// Consign assembles a self-contained ancestry slice for req.Transition:
// walking backward from its inputs to the genesis, then emitting a
// topologically-sorted Consignment:
//  1. Start from the new transition and its input seals.
//  2. Walk backward: resolve each seal's producing node via the reverse
//     index; add it to the working set; recurse on its own inputs.
//  3. Stop at the genesis.
//  4. Retrieve each visited transition's anchor.
//  5. Compute the endpoints the caller asked for.
//  6. Emit the topo-sorted Consignment.
func (s *Store) Consign(req ConsignRequest) (*types.Consignment, error) {
	visited := map[types.NodeId]*visitedNode{}
	var genesisNode *types.Genesis

	queue := make([]types.OutpointHash, 0, len(req.Transition.Inputs))
	for _, in := range req.Transition.Inputs {
		queue = append(queue, in.Seal)
	}

	for len(queue) > 0 {
		seal := queue[0]
		queue = queue[1:]

		entries, err := s.ResolveSeal(seal)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, rgberrors.Wrap(rgberrors.KindDomain, "input seal resolves to no known producer", rgberrors.ErrMissingAncestor)
		}
		node := entries[0].Node
		if _, ok := visited[node]; ok {
			continue
		}

		if genesis, err := s.tryReadGenesisNode(node); err == nil {
			if genesisNode != nil && genesisNode.ContractId() != genesis.ContractId() {
				return nil, rgberrors.Wrap(rgberrors.KindDomain, "consignment spans more than one contract", rgberrors.ErrStashRejection)
			}
			genesisNode = genesis
			visited[node] = &visitedNode{isGenesis: true, genesis: genesis}
			continue
		}

		anchor, transition, err := s.ReadTransition(node)
		if err != nil {
			return nil, err
		}
		visited[node] = &visitedNode{anchor: anchor, transition: transition}
		for _, in := range transition.Inputs {
			queue = append(queue, in.Seal)
		}
	}

	if genesisNode == nil {
		return nil, rgberrors.Wrap(rgberrors.KindDomain, "consignment ancestry never reaches a genesis", rgberrors.ErrMissingAncestor)
	}

	ordered, err := topoSortAncestry(visited)
	if err != nil {
		return nil, err
	}

	newNodeId := req.Transition.NodeId()
	stateTransitions := make([]types.AnchoredTransition, 0, len(ordered)+1)
	for _, n := range ordered {
		stateTransitions = append(stateTransitions, types.AnchoredTransition{Anchor: *n.anchor, Transition: *n.transition})
	}
	stateTransitions = append(stateTransitions, types.AnchoredTransition{Anchor: req.Anchor, Transition: req.Transition})

	endpoints := make([]types.Endpoint, 0, len(req.Outpoints))
	for _, oh := range req.Outpoints {
		endpoints = append(endpoints, types.Endpoint{Node: newNodeId, Seal: oh})
	}

	return &types.Consignment{
		Genesis:          *genesisNode,
		StateTransitions: stateTransitions,
		Endpoints:        endpoints,
	}, nil
}

func (s *Store) tryReadGenesisNode(node types.NodeId) (*types.Genesis, error) {
	contractId := types.ContractIdFromBytes(node.Bytes())
	return s.ReadGenesis(contractId)
}

// topoSortAncestry orders the visited transition nodes (the genesis entry
// is excluded, it always comes first implicitly) so parents precede
// children, breaking ties by NodeId lexicographic order for determinism.
func topoSortAncestry(visited map[types.NodeId]*visitedNode) ([]*visitedNode, error) {
	sealProducer := map[types.OutpointHash]types.NodeId{}
	for id, n := range visited {
		var assignments []types.Assignment
		if n.isGenesis {
			assignments = n.genesis.Assignments
		} else {
			assignments = n.transition.Assignments
		}
		for _, a := range assignments {
			sealProducer[a.Seal.Hash] = id
		}
	}

	transitionNodes := map[types.NodeId]*visitedNode{}
	for id, n := range visited {
		if !n.isGenesis {
			transitionNodes[id] = n
		}
	}

	inDegree := map[types.NodeId]int{}
	children := map[types.NodeId][]types.NodeId{}
	for id, n := range transitionNodes {
		inDegree[id] = 0
		for _, in := range n.transition.Inputs {
			producer, ok := sealProducer[in.Seal]
			if !ok {
				continue
			}
			if _, isTransition := transitionNodes[producer]; isTransition {
				inDegree[id]++
				children[producer] = append(children[producer], id)
			}
		}
	}

	var ready []types.NodeId
	for id, d := range inDegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}

	var order []*visitedNode
	for len(ready) > 0 {
		sortNodeIds(ready)
		id := ready[0]
		ready = ready[1:]
		order = append(order, transitionNodes[id])
		for _, child := range children[id] {
			inDegree[child]--
			if inDegree[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	if len(order) != len(transitionNodes) {
		return nil, rgberrors.Wrap(rgberrors.KindDomain, "ancestry graph contains a cycle", rgberrors.ErrStashRejection)
	}
	return order, nil
}

func sortNodeIds(ids []types.NodeId) {
	sort.Slice(ids, func(i, j int) bool {
		bi, bj := ids[i].Bytes(), ids[j].Bytes()
		for k := range bi {
			if bi[k] != bj[k] {
				return bi[k] < bj[k]
			}
		}
		return false
	})
}
