package core

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// wireRequest is the JSON shape of one outgoing request object (spec.md
// §4.7).
type wireRequest struct {
	ID      uint64 `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	In3     *wireIn3 `json:"in3,omitempty"`
}

// wireIn3 is the in3 verification-metadata object appended when the
// per-request verification mode is PROOF (spec.md §4.7).
type wireIn3 struct {
	Verification      string   `json:"verification"`
	Version           string   `json:"version"`
	ChainID           string   `json:"chainId,omitempty"`
	WhiteListContract string   `json:"whiteListContract,omitempty"`
	ClientSignature   string   `json:"clientSignature,omitempty"`
	Finality          uint8    `json:"finality,omitempty"`
	LatestBlock       int      `json:"latestBlock,omitempty"`
	Signers           []string `json:"signers,omitempty"`
	IncludeCode       bool     `json:"includeCode,omitempty"`
	UseFullProof      bool     `json:"useFullProof,omitempty"`
	UseBinary         bool     `json:"useBinary,omitempty"`
	VerifiedHashes    []string `json:"verifiedHashes,omitempty"`
}

// buildPayload constructs the JSON array of request objects for rctx,
// targeting chain (spec.md §4.7).
func buildPayload(rctx *RequestContext, chain *Chain) (string, *Error) {
	wireReqs := make([]wireRequest, len(rctx.Requests))
	for i, req := range rctx.Requests {
		wr := wireRequest{
			ID:      req.ID,
			JSONRPC: "2.0",
			Method:  req.Method,
			Params:  req.Params,
		}

		if i < len(rctx.Configs) {
			cfg := rctx.Configs[i]
			if cfg.Proof != ProofNone {
				in3 := &wireIn3{
					Verification: "proof",
					Version:      IN3ProtoVersion,
					Finality:     cfg.Finality,
					LatestBlock:  cfg.LatestBlock,
					IncludeCode:  cfg.IncludeCode,
					UseFullProof: cfg.UseFullProof,
					UseBinary:    cfg.UseBinary,
				}
				if rctx.client.hasMultichainNode() {
					in3.ChainID = wireHexUint64(cfg.ChainID)
				}
				if chain != nil && chain.Whitelist != nil {
					in3.WhiteListContract = wireHexBytes(chain.Whitelist.Contract[:])
				}
				for _, s := range cfg.Signers {
					in3.Signers = append(in3.Signers, wireHexBytes(s[:]))
				}
				wr.In3 = in3
			}
		}

		wireReqs[i] = wr
	}

	out, err := json.Marshal(wireReqs)
	if err != nil {
		return "", newError(KindInvalidData, "failed to encode payload")
	}
	return string(out), nil
}

func wireHexUint64(v uint64) string {
	return hexutil.EncodeUint64(v)
}

func wireHexBytes(b []byte) string {
	return hexutil.Encode(b)
}

// hasMultichainNode reports whether the client has observed any node
// advertising the MULTICHAIN property, gating the optional chainId field
// (spec.md §4.7).
func (c *Client) hasMultichainNode() bool {
	for _, chain := range c.chains {
		for _, n := range chain.Nodes {
			if n.Props.Has(PropMultichain) {
				return true
			}
		}
	}
	return false
}
