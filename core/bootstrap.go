package core

import (
	"github.com/ethereum/go-ethereum/common"
)

// Well-known chain identifiers (spec.md §6).
const (
	ChainIDMainnet uint64 = 0x01
	ChainIDKovan   uint64 = 0x2a
	ChainIDGoerli  uint64 = 0x05
	ChainIDIPFS    uint64 = 0x7d0
	ChainIDLocal   uint64 = 0xFFFF
)

// bootstrapNode is the literal shape of a compiled-in boot node: address and
// URL only, matching original_source/lib/in3-core/src/core/client/
// client_init.c's initNode (capacity 1, deposit 0, no whitelist entry yet).
type bootstrapNode struct {
	address string
	url     string
}

// bootstrapChain carries everything initChain needs, taken verbatim from the
// non-staging (#else) branches of client_init.c so values match a real
// deployment rather than a placeholder.
type bootstrapChain struct {
	chainID    uint64
	chainType  ChainType
	contract   string
	registryID string // empty for version 1 chains (ipfs)
	version    uint8
	nodes      []bootstrapNode
}

var bootstrapChains = []bootstrapChain{
	{
		chainID:    ChainIDMainnet,
		chainType:  ChainEVM,
		contract:   "ac1b824795e1eb1f6e609fe0da9b9af8beaab60f",
		registryID: "23d5345c5c13180a8080bd5ddbe7cde64683755dcce6e734d95b7b573845facb",
		version:    2,
		nodes: []bootstrapNode{
			{"45d45e6ff99e6c34a235d263965910298985fcfe", "https://in3-v2.slock.it/mainnet/nd-1"},
			{"1fe2e9bf29aa1938859af64c413361227d04059a", "https://in3-v2.slock.it/mainnet/nd-2"},
		},
	},
	{
		chainID:    ChainIDKovan,
		chainType:  ChainEVM,
		contract:   "4c396dcf50ac396e5fdea18163251699b5fcca25",
		registryID: "92eb6ad5ed9068a24c1c85276cd7eb11eda1e8c50b17fbaffaf3e8396df4becf",
		version:    2,
		nodes: []bootstrapNode{
			{"45d45e6ff99e6c34a235d263965910298985fcfe", "https://in3-v2.slock.it/kovan/nd-1"},
			{"1fe2e9bf29aa1938859af64c413361227d04059a", "https://in3-v2.slock.it/kovan/nd-2"},
		},
	},
	{
		chainID:    ChainIDGoerli,
		chainType:  ChainEVM,
		contract:   "5f51e413581dd76759e9eed51e63d14c8d1379c8",
		registryID: "67c02e5e272f9d6b4a33716614061dd298283f86351079ef903bf0d4410a44ea",
		version:    2,
		nodes: []bootstrapNode{
			{"45d45e6ff99e6c34a235d263965910298985fcfe", "https://in3-v2.slock.it/goerli/nd-1"},
			{"1fe2e9bf29aa1938859af64c413361227d04059a", "https://in3-v2.slock.it/goerli/nd-2"},
		},
	},
	{
		chainID:   ChainIDIPFS,
		chainType: ChainIPFS,
		contract:  "f0fb87f4757c77ea3416afe87f36acaa0496c7e9",
		version:   1,
		nodes: []bootstrapNode{
			{"784bfa9eb182c3a02dbeb5285e3dba92d717e07a", "https://in3.slock.it/ipfs/nd-1"},
			{"243d5bb48a47bed0f6a89b61e4660540e856a33d", "https://in3.slock.it/ipfs/nd-5"},
		},
	},
	{
		chainID:   ChainIDLocal,
		chainType: ChainEVM,
		contract:  "f0fb87f4757c77ea3416afe87f36acaa0496c7e9",
		version:   1,
		nodes: []bootstrapNode{
			{"784bfa9eb182c3a02dbeb5285e3dba92d717e07a", "http://localhost:8545"},
		},
	},
}

// initBootstrapChain builds a *Chain for one bootstrapChain entry, mirroring
// client_init.c's initChain+initNode. Node props default to 0xFF for every
// chain except LOCAL, which boots with 0x0 props and NeedsUpdate=false.
func initBootstrapChain(bc bootstrapChain) *Chain {
	chain := &Chain{
		ChainID:     bc.chainID,
		Type:        bc.chainType,
		Contract:    common.HexToAddress(bc.contract),
		Version:     bc.version,
		NeedsUpdate: bc.chainID != ChainIDLocal,
	}
	if bc.registryID != "" {
		chain.RegistryID = common.HexToHash(bc.registryID)
	}

	defaultProps := NodeProps(0xFF)
	if bc.chainID == ChainIDLocal {
		defaultProps = 0
	}

	for _, n := range bc.nodes {
		chain.Nodes = append(chain.Nodes, &Node{
			Address:  common.HexToAddress(n.address),
			URL:      n.url,
			Capacity: 1,
			Props:    defaultProps,
		})
		chain.Weights = append(chain.Weights, newNodeWeight())
	}
	return chain
}

// chainIDFromName resolves the handful of chain-name shortcuts the
// configurator accepts (spec.md §4.8's chain-id coercion in
// client_init.c's static chain_id()).
func chainIDFromName(name string) (uint64, bool) {
	switch name {
	case "mainnet":
		return ChainIDMainnet, true
	case "kovan":
		return ChainIDKovan, true
	case "goerli":
		return ChainIDGoerli, true
	}
	return 0, false
}
