// Copyright 2026 RGB Protocol
//
// Content-addressed identifier types shared across the engine

// Package types defines the domain entities of the protocol: schemata,
// genesis and transition nodes, owned-right assignments, anchors,
// consignments, and the fungible-asset projection. Every
// entity here is content-addressed: its identifying hash is computed over
// its own strict binary encoding (pkg/strictenc), so Encode/Decode must be
// exact inverses of one another.
package types

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Hash256 is a bare 32-byte content hash. It is a type alias for
// chainhash.Hash so it inherits that type's reversed-hex String() display
// (the same display convention a txid uses), which is fitting here since
// every id in this package is, one way or another, committed into a UTXO.
type Hash256 = chainhash.Hash

// HashBytes computes the content hash of b. The protocol only requires
// a collision-resistant hash over the strict encoding, which sha256
// satisfies.
func HashBytes(b []byte) Hash256 {
	return Hash256(sha256.Sum256(b))
}

// SchemaId identifies a Schema by the hash of its strict encoding.
type SchemaId struct{ Hash256 }

// ContractId identifies a contract by the hash of its Genesis.
type ContractId struct{ Hash256 }

// NodeId identifies a Genesis or Transition node. The DAG is hash-keyed:
// nodes live in flat tables and edges resolve by lookup, never by
// in-memory pointers.
type NodeId struct{ Hash256 }

// OutpointHash is a blinded commitment to a UTXO reference, used as a
// confidential seal.
type OutpointHash struct{ Hash256 }

func (id SchemaId) Bytes() [32]byte     { return [32]byte(id.Hash256) }
func (id ContractId) Bytes() [32]byte   { return [32]byte(id.Hash256) }
func (id NodeId) Bytes() [32]byte       { return [32]byte(id.Hash256) }
func (id OutpointHash) Bytes() [32]byte { return [32]byte(id.Hash256) }

func SchemaIdFromBytes(b [32]byte) SchemaId     { return SchemaId{Hash256(b)} }
func ContractIdFromBytes(b [32]byte) ContractId { return ContractId{Hash256(b)} }
func NodeIdFromBytes(b [32]byte) NodeId         { return NodeId{Hash256(b)} }
func OutpointHashFromBytes(b [32]byte) OutpointHash {
	return OutpointHash{Hash256(b)}
}

// ContractNodeId reinterprets a ContractId as the NodeId of its genesis:
// a genesis is both the contract's identity and a node in the DAG.
func ContractNodeId(c ContractId) NodeId { return NodeId{c.Hash256} }

// OutpointHashFromReveal computes the blinded commitment for a revealed
// seal: hash(txid || vout || blinding) = OutpointHash.
func OutpointHashFromReveal(txid chainhash.Hash, vout uint32, blinding [32]byte) OutpointHash {
	buf := make([]byte, 0, 32+4+32)
	buf = append(buf, txid[:]...)
	buf = append(buf,
		byte(vout), byte(vout>>8), byte(vout>>16), byte(vout>>24))
	buf = append(buf, blinding[:]...)
	return OutpointHashFromBytes([32]byte(HashBytes(buf)))
}

// HexString is a small helper for log lines and error messages that want
// a short, unambiguous identifier without pulling the full String().
func HexString(b [32]byte) string { return hex.EncodeToString(b[:]) }
