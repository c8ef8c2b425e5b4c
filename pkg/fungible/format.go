// Copyright 2026 RGB Protocol
//
// Pluggable cache persistence formats

package fungible

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/rgbprotocol/rgbd/pkg/types"
)

// parseOutpointString parses the "txid:vout" form wire.OutPoint.String()
// produces back into a wire.OutPoint.
func parseOutpointString(s string) (wire.OutPoint, error) {
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return wire.OutPoint{}, fmt.Errorf("missing ':' separator in outpoint %q", s)
	}
	txid, err := chainhash.NewHashFromStr(s[:idx])
	if err != nil {
		return wire.OutPoint{}, err
	}
	vout, err := strconv.ParseUint(s[idx+1:], 10, 32)
	if err != nil {
		return wire.OutPoint{}, err
	}
	return wire.OutPoint{Hash: *txid, Index: uint32(vout)}, nil
}

// DataFormat enumerates the cache's pluggable persistence formats.
type DataFormat uint8

const (
	StrictEncode DataFormat = iota
	Json
	Yaml
	Toml
)

// String returns the format's canonical file extension.
func (f DataFormat) String() string {
	switch f {
	case StrictEncode:
		return "se"
	case Json:
		return "json"
	case Yaml:
		return "yaml"
	case Toml:
		return "toml"
	default:
		return "unknown"
	}
}

// ParseDataFormat parses a format name case-insensitively, accepting the
// yml alias for yaml and dat/strictencode/strict_encode/strict-encode for
// StrictEncode.
func ParseDataFormat(s string) (DataFormat, error) {
	switch strings.ToLower(s) {
	case "se", "dat", "strictencode", "strict_encode", "strict-encode":
		return StrictEncode, nil
	case "json":
		return Json, nil
	case "yaml", "yml":
		return Yaml, nil
	case "toml":
		return Toml, nil
	default:
		return 0, fmt.Errorf("fungible: unknown data format %q", s)
	}
}

// jsonAsset is the JSON/YAML/TOML wire shape of a types.Asset: ids and
// hashes as hex strings, since none of those three formats has a native
// binary type.
type jsonAsset struct {
	ContractId       string                 `json:"contract_id" yaml:"contract_id" toml:"contract_id"`
	Ticker           string                 `json:"ticker" yaml:"ticker" toml:"ticker"`
	Name             string                 `json:"name" yaml:"name" toml:"name"`
	Precision        uint8                  `json:"precision" yaml:"precision" toml:"precision"`
	Supplies         []jsonIssue            `json:"supplies" yaml:"supplies" toml:"supplies"`
	KnownAllocations map[string][]jsonAlloc `json:"known_allocations" yaml:"known_allocations" toml:"known_allocations"`
}

type jsonIssue struct {
	NodeId string `json:"node_id" yaml:"node_id" toml:"node_id"`
	Amount uint64 `json:"amount" yaml:"amount" toml:"amount"`
}

type jsonAlloc struct {
	Outpoint           string `json:"outpoint" yaml:"outpoint" toml:"outpoint"`
	NodeId             string `json:"node_id" yaml:"node_id" toml:"node_id"`
	AssignmentIndex    uint32 `json:"assignment_index" yaml:"assignment_index" toml:"assignment_index"`
	ConfidentialAmount string `json:"confidential_amount" yaml:"confidential_amount" toml:"confidential_amount"`
	Revealed           bool   `json:"revealed" yaml:"revealed" toml:"revealed"`
	RevealedAmount     uint64 `json:"revealed_amount" yaml:"revealed_amount" toml:"revealed_amount"`
}

func toJSONAsset(a *types.Asset) *jsonAsset {
	cidBytes := a.ContractId.Bytes()
	out := &jsonAsset{
		ContractId:       hex.EncodeToString(cidBytes[:]),
		Ticker:           a.Ticker,
		Name:             a.Name,
		Precision:        a.Precision,
		KnownAllocations: map[string][]jsonAlloc{},
	}
	for _, issue := range a.Supplies {
		idBytes := issue.NodeId.Bytes()
		out.Supplies = append(out.Supplies, jsonIssue{NodeId: hex.EncodeToString(idBytes[:]), Amount: issue.Amount})
	}
	for key, allocs := range a.KnownAllocations {
		var jallocs []jsonAlloc
		for _, al := range allocs {
			nodeBytes := al.NodeId.Bytes()
			jallocs = append(jallocs, jsonAlloc{
				Outpoint:           al.Outpoint.String(),
				NodeId:             hex.EncodeToString(nodeBytes[:]),
				AssignmentIndex:    al.AssignmentIndex,
				ConfidentialAmount: hex.EncodeToString(al.ConfidentialAmount[:]),
				Revealed:           al.Revealed,
				RevealedAmount:     al.RevealedAmount,
			})
		}
		out.KnownAllocations[key] = jallocs
	}
	return out
}

func fromJSONAsset(j *jsonAsset) (*types.Asset, error) {
	cidBytes, err := decodeHex32(j.ContractId)
	if err != nil {
		return nil, fmt.Errorf("fungible: asset contract_id: %w", err)
	}
	a := &types.Asset{
		ContractId:       types.ContractIdFromBytes(cidBytes),
		Ticker:           j.Ticker,
		Name:             j.Name,
		Precision:        j.Precision,
		KnownAllocations: map[string][]types.Allocation{},
	}
	for _, issue := range j.Supplies {
		idBytes, err := decodeHex32(issue.NodeId)
		if err != nil {
			return nil, fmt.Errorf("fungible: issue node_id: %w", err)
		}
		a.Supplies = append(a.Supplies, types.Issue{NodeId: types.NodeIdFromBytes(idBytes), Amount: issue.Amount})
	}
	for key, jallocs := range j.KnownAllocations {
		var allocs []types.Allocation
		for _, al := range jallocs {
			op, err := parseOutpointString(al.Outpoint)
			if err != nil {
				return nil, fmt.Errorf("fungible: allocation outpoint: %w", err)
			}
			nodeBytes, err := decodeHex32(al.NodeId)
			if err != nil {
				return nil, fmt.Errorf("fungible: allocation node_id: %w", err)
			}
			commitBytes, err := hex.DecodeString(al.ConfidentialAmount)
			if err != nil || len(commitBytes) != 32 {
				return nil, fmt.Errorf("fungible: allocation confidential_amount: malformed hex")
			}
			var commit [32]byte
			copy(commit[:], commitBytes)
			allocs = append(allocs, types.Allocation{
				Outpoint:           op,
				NodeId:             types.NodeIdFromBytes(nodeBytes),
				AssignmentIndex:    al.AssignmentIndex,
				ConfidentialAmount: commit,
				Revealed:           al.Revealed,
				RevealedAmount:     al.RevealedAmount,
			})
		}
		a.KnownAllocations[key] = allocs
	}
	return a, nil
}

func decodeHex32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

// EncodeAssetFormat serializes asset in the requested DataFormat.
func EncodeAssetFormat(format DataFormat, asset *types.Asset) ([]byte, error) {
	switch format {
	case StrictEncode:
		return asset.Encode(), nil
	case Json:
		return json.MarshalIndent(toJSONAsset(asset), "", "  ")
	case Yaml:
		return yaml.Marshal(toJSONAsset(asset))
	case Toml:
		var buf strings.Builder
		if err := toml.NewEncoder(&buf).Encode(toJSONAsset(asset)); err != nil {
			return nil, err
		}
		return []byte(buf.String()), nil
	default:
		return nil, fmt.Errorf("fungible: unknown data format %d", format)
	}
}

// DecodeAssetFormat deserializes an asset previously produced by
// EncodeAssetFormat in the same format.
func DecodeAssetFormat(format DataFormat, b []byte) (*types.Asset, error) {
	switch format {
	case StrictEncode:
		return types.DecodeAsset(b)
	case Json:
		var j jsonAsset
		if err := json.Unmarshal(b, &j); err != nil {
			return nil, err
		}
		return fromJSONAsset(&j)
	case Yaml:
		var j jsonAsset
		if err := yaml.Unmarshal(b, &j); err != nil {
			return nil, err
		}
		return fromJSONAsset(&j)
	case Toml:
		var j jsonAsset
		if _, err := toml.Decode(string(b), &j); err != nil {
			return nil, err
		}
		return fromJSONAsset(&j)
	default:
		return nil, fmt.Errorf("fungible: unknown data format %d", format)
	}
}
