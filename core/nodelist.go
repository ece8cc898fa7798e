package core

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// pickedNode is one entry of the node picker's output (spec.md §4.4): the
// chosen node, its weight record, and the two sampling scalars (s, w).
// The original represents this as a singly-linked list; a slice satisfies
// the same ordering and iteration contract and is simpler in Go (spec.md
// §9 DESIGN NOTES permits either representation when the invariants hold).
type pickedNode struct {
	node   *Node
	weight *NodeWeight
	s, w   float64
}

// avgResponseTimeDefault is substituted when a node has never answered yet,
// making its scoring multiplier exactly 1 (spec.md §4.4).
const avgResponseTimeDefault = 500

// pickNodes implements the node picker (spec.md §4.4): filter, score, and
// weighted-sample without replacement.
func pickNodes(client *Client, chain *Chain, count int, required NodeProps) ([]*pickedNode, *Error) {
	candidates, err := filterCandidates(client, chain, required)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 && moreThanHalfBlacklisted(chain) {
		now := time.Time{}
		for _, w := range chain.Weights {
			w.BlacklistedUntil = now
		}
		candidates, err = filterCandidates(client, chain, required)
		if err != nil {
			return nil, err
		}
	}

	if len(candidates) == 0 {
		return nil, newError(KindNotFound, "no node found")
	}

	assignScores(candidates)

	k := count
	if k > len(candidates) {
		k = len(candidates)
	}
	if k == len(candidates) {
		return candidates, nil
	}

	return sampleWeighted(client, candidates, k), nil
}

func filterCandidates(client *Client, chain *Chain, required NodeProps) ([]*pickedNode, *Error) {
	now := time.Now()
	var out []*pickedNode
	for i, n := range chain.Nodes {
		if chain.Whitelist != nil && !n.Whitelisted {
			continue
		}
		if n.Deposit < client.minDeposit {
			continue
		}
		if !n.Props.Matches(required) {
			continue
		}
		w := chain.Weights[i]
		if now.Before(w.BlacklistedUntil) {
			continue
		}
		out = append(out, &pickedNode{node: n, weight: w})
	}
	return out, nil
}

func moreThanHalfBlacklisted(chain *Chain) bool {
	if len(chain.Weights) == 0 {
		return false
	}
	now := time.Now()
	blacklisted := 0
	for _, w := range chain.Weights {
		if now.Before(w.BlacklistedUntil) {
			blacklisted++
		}
	}
	return blacklisted*2 > len(chain.Weights)
}

// assignScores fills in each candidate's score w and cumulative sum s
// (spec.md §4.4 Scoring).
func assignScores(candidates []*pickedNode) {
	var cum float64
	for _, c := range candidates {
		avg := float64(avgResponseTimeDefault)
		if c.weight.ResponseCount > 0 {
			avg = float64(c.weight.TotalResponseTime) / float64(c.weight.ResponseCount)
		}
		w := c.weight.Weight * float64(c.node.Capacity) * (500 / avg)
		c.s = cum
		c.w = w
		cum += w
	}
}

// sampleWeighted draws k distinct candidates by weighted random sampling
// without replacement, bounded at 10*k draws (spec.md §4.4 Sampling, §9
// resolved open question).
func sampleWeighted(client *Client, candidates []*pickedNode, k int) []*pickedNode {
	var total float64
	for _, c := range candidates {
		total += c.w
	}
	if total <= 0 {
		if k > len(candidates) {
			k = len(candidates)
		}
		return append([]*pickedNode(nil), candidates[:k]...)
	}

	chosen := make([]*pickedNode, 0, k)
	seen := make(map[*Node]bool, k)
	maxDraws := 10 * k
	for draws := 0; draws < maxDraws && len(chosen) < k; draws++ {
		r := client.rnd.Float64() * total
		for _, c := range candidates {
			if r >= c.s && r < c.s+c.w {
				if !seen[c.node] {
					seen[c.node] = true
					chosen = append(chosen, c)
				}
				break
			}
		}
	}
	return chosen
}

// nodeListCacheKey is the client.cache key a chain's nodelist blob is
// stored/loaded under (spec.md §6).
func nodeListCacheKey(chainID uint64) string {
	return "nodelist:" + strconv.FormatUint(chainID, 10)
}

// tryCachedNodeListRefresh attempts to satisfy a pending nodelist refresh
// from client.cache before falling back to a network round trip (spec.md
// §6: a cache miss simply triggers a network refresh). It reports whether
// the cached entry was applied and cleared chain.NeedsUpdate.
func tryCachedNodeListRefresh(client *Client, chain *Chain) bool {
	if client.cache == nil {
		return false
	}
	raw, ok := client.cache.Load(nodeListCacheKey(chain.ChainID))
	if !ok {
		return false
	}
	var cached map[string]any
	if err := json.Unmarshal(raw, &cached); err != nil {
		return false
	}
	if applyNodeListRefresh(client, chain, cached) != nil {
		return false
	}
	return !chain.NeedsUpdate
}

// applyNodeListRefresh parses an in3_nodeList result and updates chain in
// place (spec.md §4.2). A malformed result leaves the old list untouched.
// On success it write-through-caches the raw result via client.cache, when
// one is configured (spec.md §6).
func applyNodeListRefresh(client *Client, chain *Chain, result map[string]any) *Error {
	lastBlockRaw, ok := asFloat(result[keyLastBlockNumber])
	if !ok {
		return newError(KindInvalidData, "missing lastBlockNumber")
	}
	lastBlock := uint64(lastBlockRaw)
	if lastBlock <= chain.LastBlock {
		return nil
	}

	rawNodes, _ := result[keyNodes].([]any)
	newNodes := make([]*Node, 0, len(rawNodes))
	newWeights := make([]*NodeWeight, 0, len(rawNodes))

	for idx, rn := range rawNodes {
		entry, ok := rn.(map[string]any)
		if !ok {
			return newError(KindInvalidData, "malformed node entry")
		}
		addrStr, ok := entry[keyAddress].(string)
		if !ok || addrStr == "" {
			return newError(KindInvalidData, "missing node address")
		}
		urlStr, ok := entry[keyURL].(string)
		if !ok || urlStr == "" {
			return newError(KindInvalidData, "missing node url")
		}

		capacity := uint64(1)
		if v, ok := asFloat(entry[keyCapacity]); ok {
			capacity = uint64(v)
		}
		deposit := uint64(0)
		if v, ok := asFloat(entry[keyDeposit]); ok {
			deposit = uint64(v)
		}
		props := NodeProps(0xFFFF)
		if v, ok := asFloat(entry[keyProps]); ok {
			props = NodeProps(uint64(v))
		}

		node := &Node{
			Address:  common.HexToAddress(addrStr),
			URL:      urlStr,
			Capacity: capacity,
			Deposit:  deposit,
			Props:    props,
		}
		if v, ok := asFloat(entry[keyRegisterTime]); ok {
			node.RegisterTime = time.Unix(int64(v), 0)
		}

		weight := reuseWeight(chain, node.Address, idx)
		if weight == nil {
			weight = newNodeWeight()
			if !node.RegisterTime.IsZero() {
				weight.BlacklistedUntil = node.RegisterTime.Add(registrationGrace)
			}
		}

		newNodes = append(newNodes, node)
		newWeights = append(newWeights, weight)
	}

	chain.Nodes = newNodes
	chain.Weights = newWeights
	chain.LastBlock = lastBlock
	chain.NeedsUpdate = false
	chain.runWhitelisting()

	if client.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			_ = client.cache.Store(nodeListCacheKey(chain.ChainID), raw)
		}
	}
	return nil
}

// reuseWeight implements the "match positionally first, then by linear
// scan" weight-reuse rule (spec.md §4.2).
func reuseWeight(chain *Chain, addr common.Address, idx int) *NodeWeight {
	if idx < len(chain.Nodes) && chain.Nodes[idx].Address == addr {
		return chain.Weights[idx]
	}
	for i, n := range chain.Nodes {
		if n.Address == addr {
			return chain.Weights[i]
		}
	}
	return nil
}

func asFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
