package core

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ChainType tags the verifier a chain uses (spec.md §3).
type ChainType int

const (
	ChainEVM ChainType = iota
	ChainIPFS
)

// registrationGrace is the blacklist window applied to newly registered
// nodes (spec.md §4.1): "a newly-registered node is blacklisted until
// register_time + 24h to harden against last-minute malicious
// registrations."
const registrationGrace = 24 * time.Hour

// blacklistDuration is how long a misbehaving node is excluded from
// selection (spec.md §4.6, original_source execute.c: blacklist_node uses
// 3600000ms).
const blacklistDuration = time.Hour

// Node is one remote service endpoint on a chain's nodelist (spec.md §3).
type Node struct {
	Address      common.Address
	URL          string
	Capacity     uint64
	Deposit      uint64
	Props        NodeProps
	Whitelisted  bool
	RegisterTime time.Time
}

// NodeWeight is the mutable, per-node selection state parallel to Node
// (spec.md §3). Index i of a Chain's Nodes and Weights are bound together
// for the lifetime of the chain (invariant 1).
type NodeWeight struct {
	BlacklistedUntil  time.Time
	ResponseCount     uint64
	TotalResponseTime uint64
	Weight            float64
}

func newNodeWeight() *NodeWeight {
	return &NodeWeight{Weight: 1}
}

// Whitelist is an additional membership filter layered on top of a
// chain's nodelist (spec.md §3). A zero Contract means "manual": addresses
// are edited directly by the configurator and never refreshed from the
// network (spec.md §4.3).
type Whitelist struct {
	Contract    common.Address
	LastBlock   uint64
	NeedsUpdate bool
	Addresses   []common.Address
}

func (w *Whitelist) isManual() bool {
	return w == nil || w.Contract == (common.Address{})
}

func (w *Whitelist) contains(addr common.Address) bool {
	for _, a := range w.Addresses {
		if a == addr {
			return true
		}
	}
	return false
}

// Chain is a chain-partitioned view of the node network (spec.md §3).
// Invariant: len(Nodes) == len(Weights) at every observable moment.
type Chain struct {
	ChainID     uint64
	Type        ChainType
	Contract    common.Address
	RegistryID  [32]byte
	Version     uint8
	NeedsUpdate bool
	LastBlock   uint64
	Whitelist   *Whitelist

	Nodes   []*Node
	Weights []*NodeWeight
}

// FindChain returns the chain record for chainID, or nil if unknown
// (spec.md §4.1).
func (c *Client) FindChain(chainID uint64) *Chain {
	for _, ch := range c.chains {
		if ch.ChainID == chainID {
			return ch
		}
	}
	return nil
}

// RegisterChain either updates an existing chain's metadata or appends a
// new one (spec.md §4.1). A nil wlContract means "no whitelist"; a non-nil
// zero address installs a manual whitelist.
func (c *Client) RegisterChain(chainID uint64, typ ChainType, contract common.Address, registryID [32]byte, version uint8, wlContract *common.Address) *Chain {
	chain := c.FindChain(chainID)
	if chain == nil {
		chain = &Chain{ChainID: chainID}
		c.chains = append(c.chains, chain)
	}
	chain.Contract = contract
	chain.Type = typ
	chain.Version = version
	chain.NeedsUpdate = false
	chain.RegistryID = registryID
	chain.Whitelist = nil
	if wlContract != nil {
		chain.Whitelist = &Whitelist{Contract: *wlContract, NeedsUpdate: true}
	}
	return chain
}

// AddNode either updates an existing node (matched by address) or appends
// a new node and weight slot (spec.md §4.1). New nodes are blacklisted for
// registrationGrace from now, mirroring the nodelist-refresh grace period
// applied to freshly announced nodes.
func (c *Client) AddNode(chainID uint64, url string, props NodeProps, address common.Address) *Error {
	chain := c.FindChain(chainID)
	if chain == nil {
		return newError(KindNotFound, "chain not found")
	}

	for i, n := range chain.Nodes {
		if n.Address == address {
			n.URL = url
			n.Props = props
			chain.Weights[i] = newNodeWeight()
			return nil
		}
	}

	node := &Node{
		Address:      address,
		URL:          url,
		Capacity:     1,
		Props:        props,
		RegisterTime: time.Now(),
	}
	weight := newNodeWeight()
	weight.BlacklistedUntil = node.RegisterTime.Add(registrationGrace)
	chain.Nodes = append(chain.Nodes, node)
	chain.Weights = append(chain.Weights, weight)
	return nil
}

// RemoveNode compacts the two parallel arrays, preserving relative order of
// survivors (invariant 2).
func (c *Client) RemoveNode(chainID uint64, address common.Address) *Error {
	chain := c.FindChain(chainID)
	if chain == nil {
		return newError(KindNotFound, "chain not found")
	}
	idx := -1
	for i, n := range chain.Nodes {
		if n.Address == address {
			idx = i
			break
		}
	}
	if idx == -1 {
		return newError(KindNotFound, "node not found")
	}
	chain.Nodes = append(chain.Nodes[:idx], chain.Nodes[idx+1:]...)
	chain.Weights = append(chain.Weights[:idx], chain.Weights[idx+1:]...)
	if len(chain.Nodes) == 0 {
		chain.Nodes = nil
		chain.Weights = nil
	}
	return nil
}

// ClearNodes releases a chain's entire nodelist (spec.md §4.1).
func (c *Client) ClearNodes(chainID uint64) *Error {
	chain := c.FindChain(chainID)
	if chain == nil {
		return newError(KindNotFound, "chain not found")
	}
	chain.Nodes = nil
	chain.Weights = nil
	return nil
}

// runWhitelisting recomputes every node's Whitelisted flag by exact-bytes
// membership in the chain's whitelist buffer (spec.md §4.3, last
// paragraph). A no-op when the chain has no whitelist.
func (chain *Chain) runWhitelisting() {
	if chain.Whitelist == nil {
		return
	}
	for _, n := range chain.Nodes {
		n.Whitelisted = chain.Whitelist.contains(n.Address)
	}
}
