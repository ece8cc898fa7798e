package core

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// configDoc is the declarative configuration document Configure accepts
// (spec.md §4.8).
type configDoc struct {
	AutoUpdateList     *bool            `json:"autoUpdateList"`
	ChainID            *json.RawMessage `json:"chainId"`
	SignatureCount     *uint8           `json:"signatureCount"`
	Finality           *uint8           `json:"finality"`
	IncludeCode        *bool            `json:"includeCode"`
	MaxAttempts        *int             `json:"maxAttempts"`
	KeepIn3            *bool            `json:"keepIn3"`
	MaxBlockCache      *int             `json:"maxBlockCache"`
	MaxCodeCache       *int             `json:"maxCodeCache"`
	MinDeposit         *uint64          `json:"minDeposit"`
	NodeLimit          *int             `json:"nodeLimit"`
	Proof              *string          `json:"proof"`
	ReplaceLatestBlock *int             `json:"replaceLatestBlock"`
	RequestCount       *int             `json:"requestCount"`
	RPC                *string          `json:"rpc"`
	Servers            map[string]serverConfig `json:"servers"`
}

type serverConfig struct {
	Contract          *string  `json:"contract"`
	RegistryID        *string  `json:"registryId"`
	WhiteListContract *string  `json:"whiteListContract"`
	WhiteList         []string `json:"whiteList"`
	NeedsUpdate       *bool    `json:"needsUpdate"`
	NodeList          []nodeConfig `json:"nodeList"`
}

type nodeConfig struct {
	Address string `json:"address"`
	URL     string `json:"url"`
	Props   *uint64 `json:"props"`
}

// Configure applies a declarative JSON configuration document to client
// (spec.md §4.8). Invalid input yields a structured invalid-argument error
// and no partial mutation of the affected chain.
func Configure(client *Client, document []byte) *Error {
	var doc configDoc
	if err := json.Unmarshal(document, &doc); err != nil {
		return newError(KindInvalidArgument, "malformed configuration document")
	}

	if doc.RPC != nil {
		return configureRPCShortcut(client, *doc.RPC)
	}

	if doc.AutoUpdateList != nil {
		client.autoUpdateList = *doc.AutoUpdateList
	}
	if doc.ChainID != nil {
		id, err := parseChainID(*doc.ChainID)
		if err != nil {
			return err
		}
		if client.FindChain(id) == nil {
			return newError(KindInvalidArgument, "configure: unknown chainId")
		}
		client.chainID = id
	}
	if doc.SignatureCount != nil {
		client.signatureCount = *doc.SignatureCount
	}
	if doc.Finality != nil {
		client.finality = *doc.Finality
	}
	if doc.IncludeCode != nil {
		client.includeCode = *doc.IncludeCode
	}
	if doc.MaxAttempts != nil {
		if *doc.MaxAttempts < 1 {
			return newError(KindInvalidArgument, "configure: maxAttempts must be >= 1")
		}
		client.maxAttempts = *doc.MaxAttempts
	}
	if doc.KeepIn3 != nil {
		client.keepIn3 = *doc.KeepIn3
	}
	if doc.MaxBlockCache != nil {
		client.maxBlockCache = *doc.MaxBlockCache
	}
	if doc.MaxCodeCache != nil {
		client.maxCodeCache = *doc.MaxCodeCache
	}
	if doc.MinDeposit != nil {
		client.minDeposit = *doc.MinDeposit
	}
	if doc.NodeLimit != nil {
		client.nodeLimit = *doc.NodeLimit
	}
	if doc.Proof != nil {
		mode, err := parseProofMode(*doc.Proof)
		if err != nil {
			return err
		}
		client.proof = mode
	}
	if doc.ReplaceLatestBlock != nil {
		client.replaceLatestBlock = *doc.ReplaceLatestBlock
	}
	if doc.RequestCount != nil {
		if *doc.RequestCount < 1 {
			return newError(KindInvalidArgument, "configure: requestCount must be >= 1")
		}
		client.requestCount = *doc.RequestCount
	}

	for key, sc := range doc.Servers {
		chainID, err := parseChainKey(key)
		if err != nil {
			return err
		}
		if err := applyServerConfig(client, chainID, sc); err != nil {
			return err
		}
	}

	return nil
}

// configureRPCShortcut implements the "rpc" shortcut (spec.md §4.8 table):
// proof=none, chain=LOCAL, one node at the given URL.
func configureRPCShortcut(client *Client, url string) *Error {
	client.proof = ProofNone
	client.chainID = ChainIDLocal
	client.requestCount = 1

	chain := client.FindChain(ChainIDLocal)
	if chain == nil || len(chain.Nodes) == 0 {
		return newError(KindConfiguration, "local chain missing bootstrap node")
	}
	chain.Nodes[0].URL = url
	return nil
}

func parseChainID(raw json.RawMessage) (uint64, *Error) {
	var asNum uint64
	if err := json.Unmarshal(raw, &asNum); err == nil {
		return asNum, nil
	}
	var asStr string
	if err := json.Unmarshal(raw, &asStr); err == nil {
		if id, ok := chainIDFromName(asStr); ok {
			return id, nil
		}
		return 0, newError(KindInvalidArgument, "configure: unknown chain name")
	}
	return 0, newError(KindInvalidArgument, "configure: chainId must be a number or known name")
}

func parseChainKey(key string) (uint64, *Error) {
	if id, ok := chainIDFromName(key); ok {
		return id, nil
	}
	id, err := hexutil.DecodeUint64("0x" + strings.TrimPrefix(key, "0x"))
	if err != nil {
		return 0, newError(KindInvalidArgument, "configure: servers key is not a chain id")
	}
	return id, nil
}

func parseProofMode(s string) (ProofMode, *Error) {
	switch s {
	case "none":
		return ProofNone, nil
	case "standard":
		return ProofStandard, nil
	case "full":
		return ProofFull, nil
	}
	return ProofNone, newError(KindInvalidArgument, "configure: unknown proof mode")
}

// decodeAddressStrict decodes a hex-encoded 20-byte address, rejecting any
// input that doesn't decode to exactly addressByteLen bytes rather than
// silently zero-padding or truncating it the way common.HexToAddress does.
func decodeAddressStrict(s string) (common.Address, *Error) {
	decoded, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(decoded) != addressByteLen {
		return common.Address{}, newError(KindInvalidArgument, "configure: malformed address")
	}
	return common.BytesToAddress(decoded), nil
}

// decodeRegistryIDStrict decodes a hex-encoded 32-byte registry id, with the
// same exact-length requirement as decodeAddressStrict.
func decodeRegistryIDStrict(s string) ([32]byte, *Error) {
	var out [32]byte
	decoded, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(decoded) != 32 {
		return out, newError(KindInvalidArgument, "configure: malformed registryId")
	}
	copy(out[:], decoded)
	return out, nil
}

// applyServerConfig registers or updates the chain record for chainID
// (spec.md §4.8). Every field is validated before any mutation happens: a
// brand-new chain requires contract and registryId, and every hex field is
// checked for exact byte length, so an invalid document leaves the affected
// chain (new or existing) untouched (spec.md §4.8 closing paragraph).
func applyServerConfig(client *Client, chainID uint64, sc serverConfig) *Error {
	chain := client.FindChain(chainID)
	isNew := chain == nil

	if isNew && (sc.Contract == nil || sc.RegistryID == nil) {
		return newError(KindInvalidArgument, "configure: registering a new chain requires contract and registryId")
	}

	var contract common.Address
	if sc.Contract != nil {
		var derr *Error
		if contract, derr = decodeAddressStrict(*sc.Contract); derr != nil {
			return derr
		}
	}
	var registryID [32]byte
	if sc.RegistryID != nil {
		var derr *Error
		if registryID, derr = decodeRegistryIDStrict(*sc.RegistryID); derr != nil {
			return derr
		}
	}
	var wlContract common.Address
	if sc.WhiteListContract != nil {
		var derr *Error
		if wlContract, derr = decodeAddressStrict(*sc.WhiteListContract); derr != nil {
			return derr
		}
	}
	wlAddrs := make([]common.Address, 0, len(sc.WhiteList))
	for _, addr := range sc.WhiteList {
		decoded, derr := decodeAddressStrict(addr)
		if derr != nil {
			return newError(KindInvalidArgument, "configure: malformed whiteList address")
		}
		wlAddrs = append(wlAddrs, decoded)
	}
	nodeAddrs := make([]common.Address, len(sc.NodeList))
	for i, nc := range sc.NodeList {
		if nc.Address == "" || nc.URL == "" {
			return newError(KindInvalidArgument, "configure: nodeList entry missing address/url")
		}
		decoded, derr := decodeAddressStrict(nc.Address)
		if derr != nil {
			return derr
		}
		nodeAddrs[i] = decoded
	}

	if isNew {
		chain = &Chain{ChainID: chainID}
		client.chains = append(client.chains, chain)
	}

	if sc.Contract != nil {
		chain.Contract = contract
	}
	if sc.RegistryID != nil {
		chain.RegistryID = registryID
	}
	if sc.NeedsUpdate != nil {
		chain.NeedsUpdate = *sc.NeedsUpdate
	}
	if sc.WhiteListContract != nil {
		chain.Whitelist = &Whitelist{Contract: wlContract, NeedsUpdate: true}
	}
	if len(wlAddrs) > 0 {
		if chain.Whitelist == nil {
			chain.Whitelist = &Whitelist{}
		}
		chain.Whitelist.Addresses = append(chain.Whitelist.Addresses, wlAddrs...)
	}

	for i, nc := range sc.NodeList {
		props := NodeProps(0xFF)
		if nc.Props != nil {
			props = NodeProps(*nc.Props)
		}
		if err := client.AddNode(chainID, nc.URL, props, nodeAddrs[i]); err != nil {
			return err
		}
	}

	chain.runWhitelisting()
	return nil
}
