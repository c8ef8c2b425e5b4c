// Copyright 2026 RGB Protocol
//
// Genesis and Transition DAG nodes with seal/state assignments

package types

import (
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/rgbprotocol/rgbd/pkg/commitment"
	"github.com/rgbprotocol/rgbd/pkg/strictenc"
)

// Seal is a UTXO-bound assignment target: either confidential (only its
// blinded OutpointHash is known) or revealed ((txid, vout, blinding), with
// hash(txid||vout||blinding) == OutpointHash).
type Seal struct {
	Confidential bool
	Hash         OutpointHash
	Outpoint     *wire.OutPoint // non-nil iff Confidential == false
	Blinding     [32]byte       // meaningful iff Confidential == false
}

// Conceal returns the confidential form of a revealed seal: it never
// loses the OutpointHash, it just stops carrying the (outpoint, blinding)
// that lets a recipient attribute an allocation to a specific UTXO.
func (s Seal) Conceal() Seal {
	return Seal{Confidential: true, Hash: s.Hash}
}

// NewRevealedSeal builds a revealed seal, deriving its OutpointHash.
func NewRevealedSeal(op wire.OutPoint, blinding [32]byte) Seal {
	return Seal{
		Confidential: false,
		Hash:         OutpointHashFromReveal(op.Hash, op.Index, blinding),
		Outpoint:     &op,
		Blinding:     blinding,
	}
}

// State is an owned right's value: StateDeclarative rights carry neither a
// commitment nor a revealed amount; StateAmount rights always carry a
// Pedersen commitment, and carry the revealed (amount, blinding) only once
// somebody has chosen to reveal it.
type State struct {
	Kind       StateKind
	Commitment commitment.Commitment // meaningful iff Kind == StateAmount
	Revealed   bool
	Amount     uint64
	Blinding   [32]byte
}

// NewAmountState builds a StateAmount state from a known amount and
// blinding, computing its Pedersen commitment.
func NewAmountState(amount uint64, blinding [32]byte) State {
	return State{
		Kind:       StateAmount,
		Commitment: commitment.Commit(amount, blinding),
		Revealed:   true,
		Amount:     amount,
		Blinding:   blinding,
	}
}

// Conceal strips the revealed amount/blinding, keeping only the
// commitment.
func (s State) Conceal() State {
	return State{Kind: s.Kind, Commitment: s.Commitment}
}

// Assignment is a single produced owned right: a (seal, state) pair typed
// by its position in the schema's OwnedRightTypes.
type Assignment struct {
	OwnedRightType uint16
	Seal           Seal
	State          State
}

// Input references a previously-produced owned-right assignment a
// transition consumes, by the seal it was assigned to. The producing
// node is deliberately not named directly: resolving an Input to the
// node that produced it is always a reverse-index lookup over its Seal,
// which is what lets a transition spend a right without the DAG
// structure above it being visible in the transition's own encoding.
type Input struct {
	Seal OutpointHash
}

// Genesis is the root node of a contract.
type Genesis struct {
	Schema      SchemaId
	Network     string
	Metadata    map[uint16][]byte
	Assignments []Assignment
}

// ContractId computes the contract's identity: the hash of the genesis's
// strict encoding.
func (g *Genesis) ContractId() ContractId {
	return ContractIdFromBytes([32]byte(HashBytes(g.Encode())))
}

// NodeId returns the genesis's identity reinterpreted as a DAG node id:
// a genesis is simultaneously a contract's identity and the root node of
// its DAG.
func (g *Genesis) NodeId() NodeId { return ContractNodeId(g.ContractId()) }

// Transition is a non-root DAG node: it consumes Inputs and produces
// Assignments.
type Transition struct {
	TransitionType uint16
	Inputs         []Input
	Assignments    []Assignment
	Metadata       map[uint16][]byte
}

// NodeId computes the transition's identity: the hash of its strict
// encoding.
func (t *Transition) NodeId() NodeId {
	return NodeIdFromBytes([32]byte(HashBytes(t.Encode())))
}

// ---- strict encoding ----

func encodeSeal(w *strictenc.Writer, s Seal) {
	w.Bool(s.Confidential)
	w.Bytes32(s.Hash.Bytes())
	if !s.Confidential {
		w.Bytes32([32]byte(s.Outpoint.Hash))
		w.U32(s.Outpoint.Index)
		w.Bytes32(s.Blinding)
	}
}

func decodeSeal(r *strictenc.Reader) (Seal, error) {
	confidential, err := r.Bool()
	if err != nil {
		return Seal{}, err
	}
	hashBytes, err := r.Bytes32()
	if err != nil {
		return Seal{}, err
	}
	s := Seal{Confidential: confidential, Hash: OutpointHashFromBytes(hashBytes)}
	if !confidential {
		txidBytes, err := r.Bytes32()
		if err != nil {
			return Seal{}, err
		}
		vout, err := r.U32()
		if err != nil {
			return Seal{}, err
		}
		blinding, err := r.Bytes32()
		if err != nil {
			return Seal{}, err
		}
		s.Outpoint = &wire.OutPoint{Hash: chainhash.Hash(txidBytes), Index: vout}
		s.Blinding = blinding
	}
	return s, nil
}

func encodeState(w *strictenc.Writer, s State) {
	w.U8(uint8(s.Kind))
	if s.Kind == StateAmount {
		w.Bytes32([32]byte(s.Commitment))
	}
	w.Bool(s.Revealed)
	if s.Revealed {
		w.U64(s.Amount)
		w.Bytes32(s.Blinding)
	}
}

func decodeState(r *strictenc.Reader) (State, error) {
	kind, err := r.U8()
	if err != nil {
		return State{}, err
	}
	if kind > uint8(StateAmount) {
		return State{}, fmt.Errorf("types: unknown StateKind tag %d", kind)
	}
	s := State{Kind: StateKind(kind)}
	if s.Kind == StateAmount {
		c, err := r.Bytes32()
		if err != nil {
			return State{}, err
		}
		s.Commitment = commitment.Commitment(c)
	}
	revealed, err := r.Bool()
	if err != nil {
		return State{}, err
	}
	s.Revealed = revealed
	if revealed {
		amt, err := r.U64()
		if err != nil {
			return State{}, err
		}
		blind, err := r.Bytes32()
		if err != nil {
			return State{}, err
		}
		s.Amount = amt
		s.Blinding = blind
	}
	return s, nil
}

func encodeAssignment(w *strictenc.Writer, a Assignment) {
	w.U16(a.OwnedRightType)
	encodeSeal(w, a.Seal)
	encodeState(w, a.State)
}

func decodeAssignment(r *strictenc.Reader) (Assignment, error) {
	ort, err := r.U16()
	if err != nil {
		return Assignment{}, err
	}
	seal, err := decodeSeal(r)
	if err != nil {
		return Assignment{}, err
	}
	state, err := decodeState(r)
	if err != nil {
		return Assignment{}, err
	}
	return Assignment{OwnedRightType: ort, Seal: seal, State: state}, nil
}

func encodeAssignments(w *strictenc.Writer, list []Assignment) {
	_ = w.Varint(uint64(len(list)))
	for _, a := range list {
		encodeAssignment(w, a)
	}
}

func decodeAssignments(r *strictenc.Reader) ([]Assignment, error) {
	n, err := r.Varint()
	if err != nil {
		return nil, err
	}
	out := make([]Assignment, 0, n)
	for i := uint64(0); i < n; i++ {
		a, err := decodeAssignment(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func encodeMetadata(w *strictenc.Writer, meta map[uint16][]byte) {
	keys := sortedU16Keys(meta)
	_ = w.Varint(uint64(len(keys)))
	for _, k := range keys {
		w.U16(k)
		_ = w.VarBytes(meta[k])
	}
}

func decodeMetadata(r *strictenc.Reader) (map[uint16][]byte, error) {
	n, err := r.Varint()
	if err != nil {
		return nil, err
	}
	out := make(map[uint16][]byte, n)
	for i := uint64(0); i < n; i++ {
		k, err := r.U16()
		if err != nil {
			return nil, err
		}
		v, err := r.VarBytes()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// Encode produces the strict binary encoding of the genesis.
func (g *Genesis) Encode() []byte {
	w := strictenc.NewWriter()
	w.Bytes32(g.Schema.Bytes())
	_ = w.VarString(g.Network)
	encodeMetadata(w, g.Metadata)
	encodeAssignments(w, g.Assignments)
	return w.Bytes()
}

// DecodeGenesis decodes a strict-encoded Genesis.
func DecodeGenesis(b []byte) (*Genesis, error) {
	g := &Genesis{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		schemaBytes, err := r.Bytes32()
		if err != nil {
			return err
		}
		g.Schema = SchemaIdFromBytes(schemaBytes)
		network, err := r.VarString()
		if err != nil {
			return err
		}
		g.Network = network
		meta, err := decodeMetadata(r)
		if err != nil {
			return err
		}
		g.Metadata = meta
		assigns, err := decodeAssignments(r)
		if err != nil {
			return err
		}
		g.Assignments = assigns
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Encode produces the strict binary encoding of the transition.
func (t *Transition) Encode() []byte {
	w := strictenc.NewWriter()
	w.U16(t.TransitionType)

	inputs := append([]Input(nil), t.Inputs...)
	sort.Slice(inputs, func(i, j int) bool {
		bi, bj := inputs[i].Seal.Bytes(), inputs[j].Seal.Bytes()
		for k := range bi {
			if bi[k] != bj[k] {
				return bi[k] < bj[k]
			}
		}
		return false
	})
	_ = w.Varint(uint64(len(inputs)))
	for _, in := range inputs {
		w.Bytes32(in.Seal.Bytes())
	}

	encodeAssignments(w, t.Assignments)
	encodeMetadata(w, t.Metadata)
	return w.Bytes()
}

// DecodeTransition decodes a strict-encoded Transition.
func DecodeTransition(b []byte) (*Transition, error) {
	t := &Transition{}
	err := strictenc.Decode(b, func(r *strictenc.Reader) error {
		tt, err := r.U16()
		if err != nil {
			return err
		}
		t.TransitionType = tt

		n, err := r.Varint()
		if err != nil {
			return err
		}
		inputs := make([]Input, 0, n)
		for i := uint64(0); i < n; i++ {
			sealBytes, err := r.Bytes32()
			if err != nil {
				return err
			}
			inputs = append(inputs, Input{Seal: OutpointHashFromBytes(sealBytes)})
		}
		t.Inputs = inputs

		assigns, err := decodeAssignments(r)
		if err != nil {
			return err
		}
		t.Assignments = assigns

		meta, err := decodeMetadata(r)
		if err != nil {
			return err
		}
		t.Metadata = meta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
