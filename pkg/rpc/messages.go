// Copyright 2026 RGB Protocol
//
// Strict-encoded request and reply payloads

package rpc

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/rgbprotocol/rgbd/pkg/strictenc"
	"github.com/rgbprotocol/rgbd/pkg/types"
)

// This file defines the strict-encoded request/reply payloads carried
// behind the tags in tags.go. Each payload type pairs an
// Encode method with a package-level Decode function, the same shape as
// pkg/types' entity codecs; a request/reply payload is just another
// strict-encoded value, nested inside the RPC envelope rather than the
// stash store.

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

func encodeNodeIds(w *strictenc.Writer, ids []types.NodeId) {
	_ = w.Varint(uint64(len(ids)))
	for _, id := range ids {
		w.Bytes32(id.Bytes())
	}
}

func decodeNodeIds(r *strictenc.Reader) ([]types.NodeId, error) {
	n, err := r.Varint()
	if err != nil {
		return nil, err
	}
	out := make([]types.NodeId, 0, n)
	for i := uint64(0); i < n; i++ {
		b, err := r.Bytes32()
		if err != nil {
			return nil, err
		}
		out = append(out, types.NodeIdFromBytes(b))
	}
	return out, nil
}

func encodeOutpointHashes(w *strictenc.Writer, ohs []types.OutpointHash) {
	_ = w.Varint(uint64(len(ohs)))
	for _, oh := range ohs {
		w.Bytes32(oh.Bytes())
	}
}

func decodeOutpointHashes(r *strictenc.Reader) ([]types.OutpointHash, error) {
	n, err := r.Varint()
	if err != nil {
		return nil, err
	}
	out := make([]types.OutpointHash, 0, n)
	for i := uint64(0); i < n; i++ {
		b, err := r.Bytes32()
		if err != nil {
			return nil, err
		}
		out = append(out, types.OutpointHashFromBytes(b))
	}
	return out, nil
}

// ---- stash requests ----

// AddSchemaRequest carries a schema to install.
type AddSchemaRequest struct{ Schema types.Schema }

func (req *AddSchemaRequest) Encode() []byte { return req.Schema.Encode() }

func DecodeAddSchemaRequest(b []byte) (*AddSchemaRequest, error) {
	s, err := types.DecodeSchema(b)
	if err != nil {
		return nil, err
	}
	return &AddSchemaRequest{Schema: *s}, nil
}

// ReadSchemaRequest names a schema by id.
type ReadSchemaRequest struct{ Id types.SchemaId }

func (req *ReadSchemaRequest) Encode() []byte {
	w := strictenc.NewWriter()
	w.Bytes32(req.Id.Bytes())
	return w.Bytes()
}

func DecodeReadSchemaRequest(b []byte) (*ReadSchemaRequest, error) {
	req := &ReadSchemaRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		id, err := r.Bytes32()
		if err != nil {
			return err
		}
		req.Id = types.SchemaIdFromBytes(id)
		return nil
	})
	return req, err
}

// SchemaListReply carries every installed schema.
type SchemaListReply struct{ Schemata []*types.Schema }

func (rep *SchemaListReply) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.Varint(uint64(len(rep.Schemata)))
	for _, s := range rep.Schemata {
		_ = w.VarBytes(s.Encode())
	}
	return w.Bytes()
}

func DecodeSchemaListReply(b []byte) (*SchemaListReply, error) {
	rep := &SchemaListReply{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			sb, err := r.VarBytes()
			if err != nil {
				return err
			}
			s, err := types.DecodeSchema(sb)
			if err != nil {
				return err
			}
			rep.Schemata = append(rep.Schemata, s)
		}
		return nil
	})
	return rep, err
}

// SchemaReply carries a single looked-up schema.
type SchemaReply struct{ Schema types.Schema }

func (rep *SchemaReply) Encode() []byte { return rep.Schema.Encode() }

func DecodeSchemaReply(b []byte) (*SchemaReply, error) {
	s, err := types.DecodeSchema(b)
	if err != nil {
		return nil, err
	}
	return &SchemaReply{Schema: *s}, nil
}

// AddGenesisRequest carries a genesis to install.
type AddGenesisRequest struct{ Genesis types.Genesis }

func (req *AddGenesisRequest) Encode() []byte { return req.Genesis.Encode() }

func DecodeAddGenesisRequest(b []byte) (*AddGenesisRequest, error) {
	g, err := types.DecodeGenesis(b)
	if err != nil {
		return nil, err
	}
	return &AddGenesisRequest{Genesis: *g}, nil
}

// ReadGenesisRequest names a contract by id.
type ReadGenesisRequest struct{ ContractId types.ContractId }

func (req *ReadGenesisRequest) Encode() []byte {
	w := strictenc.NewWriter()
	w.Bytes32(req.ContractId.Bytes())
	return w.Bytes()
}

func DecodeReadGenesisRequest(b []byte) (*ReadGenesisRequest, error) {
	req := &ReadGenesisRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		id, err := r.Bytes32()
		if err != nil {
			return err
		}
		req.ContractId = types.ContractIdFromBytes(id)
		return nil
	})
	return req, err
}

// GenesisReply carries a single genesis, used both as a ReadGenesis reply
// and as ExportAsset's reply.
type GenesisReply struct{ Genesis types.Genesis }

func (rep *GenesisReply) Encode() []byte { return rep.Genesis.Encode() }

func DecodeGenesisReply(b []byte) (*GenesisReply, error) {
	g, err := types.DecodeGenesis(b)
	if err != nil {
		return nil, err
	}
	return &GenesisReply{Genesis: *g}, nil
}

// GenesisListReply carries every known contract's genesis.
type GenesisListReply struct{ Geneses []*types.Genesis }

func (rep *GenesisListReply) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.Varint(uint64(len(rep.Geneses)))
	for _, g := range rep.Geneses {
		_ = w.VarBytes(g.Encode())
	}
	return w.Bytes()
}

func DecodeGenesisListReply(b []byte) (*GenesisListReply, error) {
	rep := &GenesisListReply{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			gb, err := r.VarBytes()
			if err != nil {
				return err
			}
			g, err := types.DecodeGenesis(gb)
			if err != nil {
				return err
			}
			rep.Geneses = append(rep.Geneses, g)
		}
		return nil
	})
	return rep, err
}

// ReadTransitionsRequest names a batch of transitions, in request order.
type ReadTransitionsRequest struct{ Ids []types.NodeId }

func (req *ReadTransitionsRequest) Encode() []byte {
	w := strictenc.NewWriter()
	encodeNodeIds(w, req.Ids)
	return w.Bytes()
}

func DecodeReadTransitionsRequest(b []byte) (*ReadTransitionsRequest, error) {
	req := &ReadTransitionsRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		ids, err := decodeNodeIds(r)
		if err != nil {
			return err
		}
		req.Ids = ids
		return nil
	})
	return req, err
}

// TransitionsReply carries the (anchor, transition) pairs ReadTransitions
// resolved, in request order.
type TransitionsReply struct {
	Anchors     []*types.Anchor
	Transitions []*types.Transition
}

func (rep *TransitionsReply) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.Varint(uint64(len(rep.Transitions)))
	for i := range rep.Transitions {
		_ = w.VarBytes(rep.Anchors[i].Encode())
		_ = w.VarBytes(rep.Transitions[i].Encode())
	}
	return w.Bytes()
}

func DecodeTransitionsReply(b []byte) (*TransitionsReply, error) {
	rep := &TransitionsReply{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			ab, err := r.VarBytes()
			if err != nil {
				return err
			}
			anchor, err := types.DecodeAnchor(ab)
			if err != nil {
				return err
			}
			tb, err := r.VarBytes()
			if err != nil {
				return err
			}
			transition, err := types.DecodeTransition(tb)
			if err != nil {
				return err
			}
			rep.Anchors = append(rep.Anchors, anchor)
			rep.Transitions = append(rep.Transitions, transition)
		}
		return nil
	})
	return rep, err
}

// ConsignRequestMsg is the wire form of stash.ConsignRequest.
type ConsignRequestMsg struct {
	Transition types.Transition
	Anchor     types.Anchor
	Outpoints  []types.OutpointHash
}

func (req *ConsignRequestMsg) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.VarBytes(req.Transition.Encode())
	_ = w.VarBytes(req.Anchor.Encode())
	encodeOutpointHashes(w, req.Outpoints)
	return w.Bytes()
}

func DecodeConsignRequestMsg(b []byte) (*ConsignRequestMsg, error) {
	req := &ConsignRequestMsg{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		tb, err := r.VarBytes()
		if err != nil {
			return err
		}
		t, err := types.DecodeTransition(tb)
		if err != nil {
			return err
		}
		req.Transition = *t
		ab, err := r.VarBytes()
		if err != nil {
			return err
		}
		a, err := types.DecodeAnchor(ab)
		if err != nil {
			return err
		}
		req.Anchor = *a
		ohs, err := decodeOutpointHashes(r)
		if err != nil {
			return err
		}
		req.Outpoints = ohs
		return nil
	})
	return req, err
}

// ConsignmentReply wraps a types.Consignment as a reply payload, used by
// the stash's Consign reply.
type ConsignmentReply struct{ Consignment types.Consignment }

func (rep *ConsignmentReply) Encode() []byte { return rep.Consignment.Encode() }

func DecodeConsignmentReply(b []byte) (*ConsignmentReply, error) {
	c, err := types.DecodeConsignment(b)
	if err != nil {
		return nil, err
	}
	return &ConsignmentReply{Consignment: *c}, nil
}

// TransferReplyMsg is the fungible Transfer reply: the assembled
// consignment for the counterparty plus the caller's own PSBT handed
// back untouched, so the wallet that initiated the transfer can finalize
// and broadcast it.
type TransferReplyMsg struct {
	Consignment types.Consignment
	Psbt        []byte
}

func (rep *TransferReplyMsg) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.VarBytes(rep.Consignment.Encode())
	_ = w.VarBytes(rep.Psbt)
	return w.Bytes()
}

func DecodeTransferReplyMsg(b []byte) (*TransferReplyMsg, error) {
	rep := &TransferReplyMsg{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		cb, err := r.VarBytes()
		if err != nil {
			return err
		}
		c, err := types.DecodeConsignment(cb)
		if err != nil {
			return err
		}
		rep.Consignment = *c
		psbt, err := r.VarBytes()
		if err != nil {
			return err
		}
		rep.Psbt = psbt
		return nil
	})
	return rep, err
}

// ValidateRequest carries a consignment to validate.
type ValidateRequest struct{ Consignment types.Consignment }

func (req *ValidateRequest) Encode() []byte { return req.Consignment.Encode() }

func DecodeValidateRequest(b []byte) (*ValidateRequest, error) {
	c, err := types.DecodeConsignment(b)
	if err != nil {
		return nil, err
	}
	return &ValidateRequest{Consignment: *c}, nil
}

// ValidationStatusReply is the wire form of stash.ValidationStatus.
type ValidationStatusReply struct {
	Valid    bool
	Failures []string
}

func (rep *ValidationStatusReply) Encode() []byte {
	w := strictenc.NewWriter()
	w.Bool(rep.Valid)
	_ = w.Varint(uint64(len(rep.Failures)))
	for _, f := range rep.Failures {
		_ = w.VarString(f)
	}
	return w.Bytes()
}

func DecodeValidationStatusReply(b []byte) (*ValidationStatusReply, error) {
	rep := &ValidationStatusReply{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		valid, err := r.Bool()
		if err != nil {
			return err
		}
		rep.Valid = valid
		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			f, err := r.VarString()
			if err != nil {
				return err
			}
			rep.Failures = append(rep.Failures, f)
		}
		return nil
	})
	return rep, err
}

// MergeRequestMsg carries a consignment to merge plus the outpoints the
// caller wants revealed assignments attributed to.
type MergeRequestMsg struct {
	Consignment     types.Consignment
	RevealOutpoints []types.OutpointHash
}

func (req *MergeRequestMsg) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.VarBytes(req.Consignment.Encode())
	encodeOutpointHashes(w, req.RevealOutpoints)
	return w.Bytes()
}

func DecodeMergeRequestMsg(b []byte) (*MergeRequestMsg, error) {
	req := &MergeRequestMsg{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		cb, err := r.VarBytes()
		if err != nil {
			return err
		}
		c, err := types.DecodeConsignment(cb)
		if err != nil {
			return err
		}
		req.Consignment = *c
		ohs, err := decodeOutpointHashes(r)
		if err != nil {
			return err
		}
		req.RevealOutpoints = ohs
		return nil
	})
	return req, err
}

// RevealedAllocationMsg is the wire form of one stash.RevealedAllocation.
type RevealedAllocationMsg struct {
	Node           types.NodeId
	AssignmentIdx  uint32
	RevealedAmount uint64
	Blinding       [32]byte
}

// MergeReply reports the allocations a Merge call revealed, so the
// fungible runtime can update its cache without a further round trip.
type MergeReply struct{ Revealed []RevealedAllocationMsg }

func (rep *MergeReply) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.Varint(uint64(len(rep.Revealed)))
	for _, r := range rep.Revealed {
		w.Bytes32(r.Node.Bytes())
		w.U32(r.AssignmentIdx)
		w.U64(r.RevealedAmount)
		w.Bytes32(r.Blinding)
	}
	return w.Bytes()
}

func DecodeMergeReply(b []byte) (*MergeReply, error) {
	rep := &MergeReply{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			nodeBytes, err := r.Bytes32()
			if err != nil {
				return err
			}
			idx, err := r.U32()
			if err != nil {
				return err
			}
			amt, err := r.U64()
			if err != nil {
				return err
			}
			blind, err := r.Bytes32()
			if err != nil {
				return err
			}
			rep.Revealed = append(rep.Revealed, RevealedAllocationMsg{
				Node:           types.NodeIdFromBytes(nodeBytes),
				AssignmentIdx:  idx,
				RevealedAmount: amt,
				Blinding:       blind,
			})
		}
		return nil
	})
	return rep, err
}

// ForgetEntryMsg names one owned-right record Forget should remove.
type ForgetEntryMsg struct {
	Node  types.NodeId
	Index uint32
}

// ForgetRequest carries the stash-side Forget request.
type ForgetRequest struct{ Entries []ForgetEntryMsg }

func (req *ForgetRequest) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.Varint(uint64(len(req.Entries)))
	for _, e := range req.Entries {
		w.Bytes32(e.Node.Bytes())
		w.U32(e.Index)
	}
	return w.Bytes()
}

func DecodeForgetRequest(b []byte) (*ForgetRequest, error) {
	req := &ForgetRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			nodeBytes, err := r.Bytes32()
			if err != nil {
				return err
			}
			idx, err := r.U32()
			if err != nil {
				return err
			}
			req.Entries = append(req.Entries, ForgetEntryMsg{Node: types.NodeIdFromBytes(nodeBytes), Index: idx})
		}
		return nil
	})
	return req, err
}

// ---- fungible requests ----

// CoinAllocation names a plaintext (outpoint, amount) the issuer or
// sender controls: the wire form of one entry of Issue's "allocation"
// list or Transfer's "ours" list.
type CoinAllocation struct {
	Outpoint wire.OutPoint
	Amount   uint64
}

// IssueRequest is the wire form of a fungible-asset issuance. It carries no
// inflation, renomination or epoch fields, and the built-in schema
// (pkg/stash.BuiltinFungibleSchema) declares none for them (see
// pkg/stash/schema_builtin.go).
type IssueRequest struct {
	Ticker      string
	Name        string
	Precision   uint8
	Allocations []CoinAllocation
}

func (req *IssueRequest) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.VarString(req.Ticker)
	_ = w.VarString(req.Name)
	w.U8(req.Precision)
	_ = w.Varint(uint64(len(req.Allocations)))
	for _, a := range req.Allocations {
		encodeOutpoint(w, a.Outpoint)
		w.U64(a.Amount)
	}
	return w.Bytes()
}

func DecodeIssueRequest(b []byte) (*IssueRequest, error) {
	req := &IssueRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		ticker, err := r.VarString()
		if err != nil {
			return err
		}
		req.Ticker = ticker
		name, err := r.VarString()
		if err != nil {
			return err
		}
		req.Name = name
		prec, err := r.U8()
		if err != nil {
			return err
		}
		req.Precision = prec
		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			op, err := decodeOutpoint(r)
			if err != nil {
				return err
			}
			amt, err := r.U64()
			if err != nil {
				return err
			}
			req.Allocations = append(req.Allocations, CoinAllocation{Outpoint: op, Amount: amt})
		}
		return nil
	})
	return req, err
}

// AssetReply carries a fungible asset projection.
type AssetReply struct{ Asset types.Asset }

func (rep *AssetReply) Encode() []byte { return rep.Asset.Encode() }

func DecodeAssetReply(b []byte) (*AssetReply, error) {
	a, err := types.DecodeAsset(b)
	if err != nil {
		return nil, err
	}
	return &AssetReply{Asset: *a}, nil
}

// TheirAllocation names a recipient's share of a transfer by confidential
// seal rather than by outpoint, mirroring Transfer's "theirs" list.
type TheirAllocation struct {
	Seal   types.OutpointHash
	Amount uint64
}

// TransferRequest is the wire form of a fungible transfer. Psbt is carried and
// returned unchanged end-to-end; the engine only parses it to reject a
// malformed PSBT and never finalizes it.
type TransferRequest struct {
	ContractId types.ContractId
	Inputs     []wire.OutPoint
	Ours       []CoinAllocation
	Theirs     []TheirAllocation
	Psbt       []byte
}

func (req *TransferRequest) Encode() []byte {
	w := strictenc.NewWriter()
	w.Bytes32(req.ContractId.Bytes())
	_ = w.Varint(uint64(len(req.Inputs)))
	for _, op := range req.Inputs {
		encodeOutpoint(w, op)
	}
	_ = w.Varint(uint64(len(req.Ours)))
	for _, o := range req.Ours {
		encodeOutpoint(w, o.Outpoint)
		w.U64(o.Amount)
	}
	_ = w.Varint(uint64(len(req.Theirs)))
	for _, t := range req.Theirs {
		w.Bytes32(t.Seal.Bytes())
		w.U64(t.Amount)
	}
	_ = w.VarBytes(req.Psbt)
	return w.Bytes()
}

func DecodeTransferRequest(b []byte) (*TransferRequest, error) {
	req := &TransferRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		cid, err := r.Bytes32()
		if err != nil {
			return err
		}
		req.ContractId = types.ContractIdFromBytes(cid)
		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			op, err := decodeOutpoint(r)
			if err != nil {
				return err
			}
			req.Inputs = append(req.Inputs, op)
		}
		n, err = r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			op, err := decodeOutpoint(r)
			if err != nil {
				return err
			}
			amt, err := r.U64()
			if err != nil {
				return err
			}
			req.Ours = append(req.Ours, CoinAllocation{Outpoint: op, Amount: amt})
		}
		n, err = r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			sealBytes, err := r.Bytes32()
			if err != nil {
				return err
			}
			amt, err := r.U64()
			if err != nil {
				return err
			}
			req.Theirs = append(req.Theirs, TheirAllocation{Seal: types.OutpointHashFromBytes(sealBytes), Amount: amt})
		}
		psbt, err := r.VarBytes()
		if err != nil {
			return err
		}
		req.Psbt = psbt
		return nil
	})
	return req, err
}

// RevealMsg names one confidential seal the accepting party can resolve
// to a concrete (outpoint, blinding) pair it already holds, e.g. a seal
// the recipient generated for itself before the transfer was sent.
// Unlike the stash-level Merge call, which only ever needs to match a
// produced assignment's confidential hash, Accept needs the plaintext
// form too so the fungible cache can index the resulting allocation by
// outpoint. Amount is the plaintext value the recipient already expects
// at this seal, learned out-of-band from the invoice rather than from
// the consignment itself, since a genuinely confidential state carries
// no plaintext amount for anyone to read off it; Accept verifies it
// against the Pedersen commitment before trusting it into the cache.
type RevealMsg struct {
	Outpoint wire.OutPoint
	Blinding [32]byte
	Amount   uint64
}

func encodeReveals(w *strictenc.Writer, reveals []RevealMsg) {
	_ = w.Varint(uint64(len(reveals)))
	for _, r := range reveals {
		encodeOutpoint(w, r.Outpoint)
		w.Bytes32(r.Blinding)
		w.U64(r.Amount)
	}
}

func decodeReveals(r *strictenc.Reader) ([]RevealMsg, error) {
	n, err := r.Varint()
	if err != nil {
		return nil, err
	}
	out := make([]RevealMsg, 0, n)
	for i := uint64(0); i < n; i++ {
		op, err := decodeOutpoint(r)
		if err != nil {
			return nil, err
		}
		blinding, err := r.Bytes32()
		if err != nil {
			return nil, err
		}
		amount, err := r.U64()
		if err != nil {
			return nil, err
		}
		out = append(out, RevealMsg{Outpoint: op, Blinding: blinding, Amount: amount})
	}
	return out, nil
}

// AcceptRequest is the wire form of the fungible Accept call.
type AcceptRequest struct {
	Consignment types.Consignment
	Reveals     []RevealMsg
}

func (req *AcceptRequest) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.VarBytes(req.Consignment.Encode())
	encodeReveals(w, req.Reveals)
	return w.Bytes()
}

func DecodeAcceptRequest(b []byte) (*AcceptRequest, error) {
	req := &AcceptRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		cb, err := r.VarBytes()
		if err != nil {
			return err
		}
		c, err := types.DecodeConsignment(cb)
		if err != nil {
			return err
		}
		req.Consignment = *c
		reveals, err := decodeReveals(r)
		if err != nil {
			return err
		}
		req.Reveals = reveals
		return nil
	})
	return req, err
}

// FAForgetRequest names the outpoint whose allocations the fungible
// runtime should drop.
type FAForgetRequest struct{ Outpoint wire.OutPoint }

func (req *FAForgetRequest) Encode() []byte {
	w := strictenc.NewWriter()
	encodeOutpoint(w, req.Outpoint)
	return w.Bytes()
}

func DecodeFAForgetRequest(b []byte) (*FAForgetRequest, error) {
	req := &FAForgetRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		op, err := decodeOutpoint(r)
		if err != nil {
			return err
		}
		req.Outpoint = op
		return nil
	})
	return req, err
}

// ImportAssetRequest carries an externally-known genesis to adopt.
type ImportAssetRequest struct{ Genesis types.Genesis }

func (req *ImportAssetRequest) Encode() []byte { return req.Genesis.Encode() }

func DecodeImportAssetRequest(b []byte) (*ImportAssetRequest, error) {
	g, err := types.DecodeGenesis(b)
	if err != nil {
		return nil, err
	}
	return &ImportAssetRequest{Genesis: *g}, nil
}

// ExportAssetRequest names the contract whose genesis should be exported
// byte-identical to what was imported.
type ExportAssetRequest struct{ ContractId types.ContractId }

func (req *ExportAssetRequest) Encode() []byte {
	w := strictenc.NewWriter()
	w.Bytes32(req.ContractId.Bytes())
	return w.Bytes()
}

func DecodeExportAssetRequest(b []byte) (*ExportAssetRequest, error) {
	req := &ExportAssetRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		id, err := r.Bytes32()
		if err != nil {
			return err
		}
		req.ContractId = types.ContractIdFromBytes(id)
		return nil
	})
	return req, err
}

// SyncRequest carries no arguments: it asks the fungible runtime to
// reconcile its cache against the stash's current state.
type SyncRequest struct{}

func (req *SyncRequest) Encode() []byte { return nil }

func DecodeSyncRequest(b []byte) (*SyncRequest, error) {
	if len(b) != 0 {
		return nil, strictenc.Decode(b, func(r *strictenc.Reader) error { return r.ExpectEOF() })
	}
	return &SyncRequest{}, nil
}

// SyncReply reports how many assets were reconciled.
type SyncReply struct{ AssetsSynced uint32 }

func (rep *SyncReply) Encode() []byte {
	w := strictenc.NewWriter()
	w.U32(rep.AssetsSynced)
	return w.Bytes()
}

func DecodeSyncReply(b []byte) (*SyncReply, error) {
	rep := &SyncReply{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		n, err := r.U32()
		if err != nil {
			return err
		}
		rep.AssetsSynced = n
		return nil
	})
	return rep, err
}

// AssetsRequest names the outpoint whose known contracts are wanted.
type AssetsRequest struct{ Outpoint wire.OutPoint }

func (req *AssetsRequest) Encode() []byte {
	w := strictenc.NewWriter()
	encodeOutpoint(w, req.Outpoint)
	return w.Bytes()
}

func DecodeAssetsRequest(b []byte) (*AssetsRequest, error) {
	req := &AssetsRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		op, err := decodeOutpoint(r)
		if err != nil {
			return err
		}
		req.Outpoint = op
		return nil
	})
	return req, err
}

// OutpointAssetsReply lists which contracts have known allocations at the
// queried outpoint.
type OutpointAssetsReply struct{ ContractIds []types.ContractId }

func (rep *OutpointAssetsReply) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.Varint(uint64(len(rep.ContractIds)))
	for _, id := range rep.ContractIds {
		w.Bytes32(id.Bytes())
	}
	return w.Bytes()
}

func DecodeOutpointAssetsReply(b []byte) (*OutpointAssetsReply, error) {
	rep := &OutpointAssetsReply{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			idBytes, err := r.Bytes32()
			if err != nil {
				return err
			}
			rep.ContractIds = append(rep.ContractIds, types.ContractIdFromBytes(idBytes))
		}
		return nil
	})
	return rep, err
}

// AllocationsRequest names the contract whose known allocations are
// wanted.
type AllocationsRequest struct{ ContractId types.ContractId }

func (req *AllocationsRequest) Encode() []byte {
	w := strictenc.NewWriter()
	w.Bytes32(req.ContractId.Bytes())
	return w.Bytes()
}

func DecodeAllocationsRequest(b []byte) (*AllocationsRequest, error) {
	req := &AllocationsRequest{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		id, err := r.Bytes32()
		if err != nil {
			return err
		}
		req.ContractId = types.ContractIdFromBytes(id)
		return nil
	})
	return req, err
}

// AssetAllocationsReply lists every allocation the cache knows for one
// contract.
type AssetAllocationsReply struct{ Allocations []types.Allocation }

func (rep *AssetAllocationsReply) Encode() []byte {
	w := strictenc.NewWriter()
	_ = w.Varint(uint64(len(rep.Allocations)))
	for _, a := range rep.Allocations {
		encodeOutpoint(w, a.Outpoint)
		w.Bytes32(a.NodeId.Bytes())
		w.U32(a.AssignmentIndex)
		w.Bytes32(a.ConfidentialAmount)
		w.Bool(a.Revealed)
		if a.Revealed {
			w.U64(a.RevealedAmount)
		}
	}
	return w.Bytes()
}

func DecodeAssetAllocationsReply(b []byte) (*AssetAllocationsReply, error) {
	rep := &AssetAllocationsReply{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		n, err := r.Varint()
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			op, err := decodeOutpoint(r)
			if err != nil {
				return err
			}
			nodeBytes, err := r.Bytes32()
			if err != nil {
				return err
			}
			idx, err := r.U32()
			if err != nil {
				return err
			}
			commit, err := r.Bytes32()
			if err != nil {
				return err
			}
			revealed, err := r.Bool()
			if err != nil {
				return err
			}
			alloc := types.Allocation{
				Outpoint:           op,
				NodeId:             types.NodeIdFromBytes(nodeBytes),
				AssignmentIndex:    idx,
				ConfidentialAmount: commit,
				Revealed:           revealed,
			}
			if revealed {
				amt, err := r.U64()
				if err != nil {
					return err
				}
				alloc.RevealedAmount = amt
			}
			rep.Allocations = append(rep.Allocations, alloc)
		}
		return nil
	})
	return rep, err
}
