package core

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestBuildPayloadOmitsIn3WhenProofNone(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	rctx := NewRPCContext(client, []RPCRequest{{Method: "eth_blockNumber"}})
	rctx.Configs = []requestConfig{{Proof: ProofNone}}

	payload, perr := buildPayload(rctx, nil)
	if perr != nil {
		t.Fatal(perr)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded[0]["in3"]; ok {
		t.Fatal("expected no in3 object when proof is none")
	}
}

func TestBuildPayloadIncludesIn3UnderStandardProof(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	rctx := NewRPCContext(client, []RPCRequest{{Method: "eth_blockNumber"}})
	rctx.Configs = []requestConfig{{Proof: ProofStandard, Finality: 1}}

	payload, perr := buildPayload(rctx, nil)
	if perr != nil {
		t.Fatal(perr)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatal(err)
	}
	in3, ok := decoded[0]["in3"].(map[string]any)
	if !ok {
		t.Fatal("expected in3 object under standard proof")
	}
	if in3["verification"] != "proof" {
		t.Fatalf("expected verification=proof, got %v", in3["verification"])
	}
	if _, ok := in3["chainId"]; ok {
		t.Fatal("expected chainId omitted when no multichain node observed")
	}
}

func TestBuildPayloadIncludesChainIDForMultichainNode(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	local := client.FindChain(ChainIDLocal)
	local.Nodes[0].Props = PropMultichain

	rctx := NewRPCContext(client, []RPCRequest{{Method: "eth_blockNumber"}})
	rctx.Configs = []requestConfig{{Proof: ProofStandard, ChainID: ChainIDMainnet}}

	payload, perr := buildPayload(rctx, nil)
	if perr != nil {
		t.Fatal(perr)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatal(err)
	}
	in3 := decoded[0]["in3"].(map[string]any)
	if in3["chainId"] != "0x1" {
		t.Fatalf("expected chainId 0x1, got %v", in3["chainId"])
	}
}

func TestBuildPayloadIncludesWhiteListContractWhenChainHasWhitelist(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	chain := client.FindChain(ChainIDLocal)
	chain.Whitelist = &Whitelist{Contract: common.BytesToAddress([]byte{0xaa, 0xbb})}

	rctx := NewRPCContext(client, []RPCRequest{{Method: "eth_blockNumber"}})
	rctx.Configs = []requestConfig{{Proof: ProofStandard}}

	payload, perr := buildPayload(rctx, chain)
	if perr != nil {
		t.Fatal(perr)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatal(err)
	}
	in3 := decoded[0]["in3"].(map[string]any)
	want := wireHexBytes(chain.Whitelist.Contract[:])
	if in3["whiteListContract"] != want {
		t.Fatalf("expected whiteListContract %s, got %v", want, in3["whiteListContract"])
	}
}

func TestBuildPayloadOmitsWhiteListContractWhenChainHasNone(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	chain := client.FindChain(ChainIDLocal)

	rctx := NewRPCContext(client, []RPCRequest{{Method: "eth_blockNumber"}})
	rctx.Configs = []requestConfig{{Proof: ProofStandard}}

	payload, perr := buildPayload(rctx, chain)
	if perr != nil {
		t.Fatal(perr)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatal(err)
	}
	in3 := decoded[0]["in3"].(map[string]any)
	if _, ok := in3["whiteListContract"]; ok {
		t.Fatal("expected whiteListContract omitted when chain has no whitelist")
	}
}

func TestWireHexBytesEncoding(t *testing.T) {
	got := wireHexBytes([]byte{0xab, 0x01})
	if got != "0xab01" {
		t.Fatalf("expected 0xab01, got %s", got)
	}
}
