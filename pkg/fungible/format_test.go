// Copyright 2026 RGB Protocol
//
// Data format parsing and round-trip tests

package fungible

import (
	"testing"

	"github.com/rgbprotocol/rgbd/pkg/rpc"
)

func TestParseDataFormatAliases(t *testing.T) {
	cases := map[string]DataFormat{
		"se":            StrictEncode,
		"dat":           StrictEncode,
		"strictencode":  StrictEncode,
		"strict_encode": StrictEncode,
		"strict-encode": StrictEncode,
		"STRICT-ENCODE": StrictEncode,
		"json":          Json,
		"JSON":          Json,
		"yaml":          Yaml,
		"yml":           Yaml,
		"YML":           Yaml,
		"toml":          Toml,
	}
	for input, want := range cases {
		got, err := ParseDataFormat(input)
		if err != nil {
			t.Fatalf("ParseDataFormat(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseDataFormat(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseDataFormatRejectsUnknown(t *testing.T) {
	if _, err := ParseDataFormat("protobuf"); err == nil {
		t.Fatalf("expected an error for an unrecognized format name")
	}
}

func TestEncodeDecodeAssetFormatRoundTrip(t *testing.T) {
	rt := newTestRuntime(t)
	asset, err := rt.Issue(IssueParams{
		Ticker:      "USDT",
		Name:        "Demo",
		Precision:   2,
		Allocations: []rpc.CoinAllocation{{Outpoint: outpoint(0x60, 0), Amount: 12345}},
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for _, format := range []DataFormat{StrictEncode, Json, Yaml, Toml} {
		encoded, err := EncodeAssetFormat(format, asset)
		if err != nil {
			t.Fatalf("EncodeAssetFormat(%v): %v", format, err)
		}
		decoded, err := DecodeAssetFormat(format, encoded)
		if err != nil {
			t.Fatalf("DecodeAssetFormat(%v): %v", format, err)
		}
		if decoded.ContractId != asset.ContractId {
			t.Fatalf("format %v: contract id did not round-trip", format)
		}
		if decoded.Ticker != asset.Ticker || decoded.Precision != asset.Precision {
			t.Fatalf("format %v: ticker/precision did not round-trip, got %+v", format, decoded)
		}
		if decoded.TotalKnownSupply() != asset.TotalKnownSupply() {
			t.Fatalf("format %v: supply did not round-trip, got %d want %d", format, decoded.TotalKnownSupply(), asset.TotalKnownSupply())
		}
	}
}
