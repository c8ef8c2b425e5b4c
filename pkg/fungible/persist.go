// Copyright 2026 RGB Protocol
//
// Cache directory load and save

package fungible

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rgbprotocol/rgbd/pkg/types"
)

// LoadCacheDir populates cache from dir, one file per contract, each
// named by the contract id's hex string with the format's extension. A
// missing directory is not an error: a fresh install simply starts empty
// and relies on Sync to repopulate from the stash.
func LoadCacheDir(cache *Cache, dir string, format DataFormat) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fungible: reading cache directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("fungible: reading cached asset %s: %w", entry.Name(), err)
		}
		asset, err := DecodeAssetFormat(format, b)
		if err != nil {
			return fmt.Errorf("fungible: decoding cached asset %s: %w", entry.Name(), err)
		}
		cache.AddAsset(asset)
	}
	return nil
}

// SaveCacheDir persists every asset currently in cache to dir, overwriting
// whatever was there before. Each asset gets its own file so a partial
// write on one contract never corrupts another.
func SaveCacheDir(cache *Cache, dir string, format DataFormat) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("fungible: creating cache directory %s: %w", dir, err)
	}
	for _, asset := range cache.Assets() {
		b, err := EncodeAssetFormat(format, asset)
		if err != nil {
			return fmt.Errorf("fungible: encoding asset %s: %w", types.HexString(asset.ContractId.Bytes()), err)
		}
		name := types.HexString(asset.ContractId.Bytes()) + "." + format.String()
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			return fmt.Errorf("fungible: writing cached asset %s: %w", name, err)
		}
	}
	return nil
}
