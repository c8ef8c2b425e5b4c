// Copyright 2026 RGB Protocol
//
// Built-in fungible-asset schema

package stash

import "github.com/rgbprotocol/rgbd/pkg/types"

// Owned-right and transition-type numbering for the built-in fungible
// schema. Like a contract's metadata field ids, these are meaningful only
// relative to the schema that declares them.
const (
	FungibleOwnedRightBalance uint16 = 0

	FungibleTransitionTransfer uint16 = 1
)

const (
	FungibleMetaTicker uint16 = iota
	FungibleMetaName
	FungibleMetaPrecision
)

// BuiltinFungibleSchema is the schema every stash runtime installs at
// startup. It declares a single transferable balance right; genesis alone
// introduces new value (an Issue call's allocations), and every
// transition thereafter must balance exactly. This engine does not model
// a separate inflation right; no supported workflow issues one.
func BuiltinFungibleSchema() *types.Schema {
	return &types.Schema{
		Name: "rgbd.fungible.v1",
		OwnedRightTypes: map[uint16]string{
			FungibleOwnedRightBalance: "balance",
		},
		StateTypes: map[uint16]types.StateKind{
			FungibleOwnedRightBalance: types.StateAmount,
		},
		MetaFields: map[uint16]types.MetaFieldType{
			FungibleMetaTicker:    types.MetaFieldString,
			FungibleMetaName:      types.MetaFieldString,
			FungibleMetaPrecision: types.MetaFieldU64,
		},
		TransitionTypes: map[uint16]types.TransitionRule{
			FungibleTransitionTransfer: {
				Name:           "transfer",
				AllowedInputs:  map[uint16]bool{FungibleOwnedRightBalance: true},
				AllowedOutputs: map[uint16]bool{FungibleOwnedRightBalance: true},
			},
		},
	}
}
