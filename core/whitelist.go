package core

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// addressByteLen is the fixed width of one whitelist entry (spec.md §3:
// "flat buffer of N×20 bytes of addresses"). The engine stores addresses
// decoded rather than as a raw byte buffer; applyWhiteListRefresh uses this
// width to validate and walk the incoming buffer, and decodeAddressStrict
// uses it to check configured addresses.
const addressByteLen = 20

// needsWhitelistRefresh reports whether the chain's whitelist should be
// refreshed: it must exist, be non-manual, and be flagged (spec.md §4.3).
func needsWhitelistRefresh(chain *Chain) bool {
	return chain.Whitelist != nil && !chain.Whitelist.isManual() && chain.Whitelist.NeedsUpdate
}

// whiteListCacheKey is the client.cache key a chain's whitelist blob is
// stored/loaded under (spec.md §6).
func whiteListCacheKey(chainID uint64) string {
	return "whitelist:" + strconv.FormatUint(chainID, 10)
}

// tryCachedWhiteListRefresh mirrors tryCachedNodeListRefresh for whitelist
// blobs (spec.md §6).
func tryCachedWhiteListRefresh(client *Client, chain *Chain) bool {
	if client.cache == nil {
		return false
	}
	raw, ok := client.cache.Load(whiteListCacheKey(chain.ChainID))
	if !ok {
		return false
	}
	var cached map[string]any
	if err := json.Unmarshal(raw, &cached); err != nil {
		return false
	}
	if applyWhiteListRefresh(client, chain, cached) != nil {
		return false
	}
	return !chain.Whitelist.NeedsUpdate
}

// applyWhiteListRefresh parses an in3_whiteList result and updates the
// chain's whitelist buffer in place (spec.md §4.3). The response's "nodes"
// field is a single hex-encoded flat buffer of N*20 address bytes, walked
// one address (20 bytes) per iteration — the original source's loop
// incremented its index by 20 but also scaled its bound by 20, under-
// iterating the buffer by 20x; this walks exactly N steps for N addresses
// (spec.md §9 resolved open question). On success it write-through-caches
// the raw result via client.cache, when one is configured (spec.md §6).
func applyWhiteListRefresh(client *Client, chain *Chain, result map[string]any) *Error {
	lastBlockRaw, ok := asFloat(result[keyLastBlockNumber])
	if !ok {
		return newError(KindInvalidData, "missing lastBlockNumber")
	}
	lastBlock := uint64(lastBlockRaw)
	if lastBlock <= chain.Whitelist.LastBlock {
		return nil
	}

	blob, ok := result[keyNodes].(string)
	if !ok {
		return newError(KindInvalidData, "malformed whitelist nodes")
	}
	decoded, err := hex.DecodeString(strings.TrimPrefix(blob, "0x"))
	if err != nil || len(decoded)%addressByteLen != 0 {
		return newError(KindInvalidData, "whitelist buffer wrong length")
	}

	n := len(decoded) / addressByteLen
	addrs := make([]common.Address, 0, n)
	for i := 0; i < n; i++ {
		start := i * addressByteLen
		addrs = append(addrs, common.BytesToAddress(decoded[start:start+addressByteLen]))
	}

	chain.Whitelist.Addresses = addrs
	chain.Whitelist.LastBlock = lastBlock
	chain.Whitelist.NeedsUpdate = false
	chain.runWhitelisting()

	if client.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			_ = client.cache.Store(whiteListCacheKey(chain.ChainID), raw)
		}
	}
	return nil
}
