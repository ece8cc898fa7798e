package core

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// TestConfigureRPCShortcut is spec.md §8 concrete scenario 2: the "rpc"
// shortcut sets proof=none, chain=local, requestCount=1, and rewrites the
// local chain's first node URL.
func TestConfigureRPCShortcut(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	client.chainID = ChainIDMainnet
	client.proof = ProofStandard
	client.requestCount = 3

	cfgErr := Configure(client, []byte(`{"rpc":"http://localhost:8545"}`))
	if cfgErr != nil {
		t.Fatal(cfgErr)
	}

	if client.proof != ProofNone {
		t.Fatalf("expected proof none, got %v", client.proof)
	}
	if client.chainID != ChainIDLocal {
		t.Fatalf("expected chain rewritten to local, got 0x%x", client.chainID)
	}
	if client.requestCount != 1 {
		t.Fatalf("expected requestCount 1, got %d", client.requestCount)
	}
	local := client.FindChain(ChainIDLocal)
	if local.Nodes[0].URL != "http://localhost:8545" {
		t.Fatalf("expected local node URL rewritten, got %s", local.Nodes[0].URL)
	}
}

// TestConfigureManualWhitelistSkipsRefresh is spec.md §8 concrete scenario
// 5: a manually configured whitelist (zero contract) must never flag
// needs_update, so the engine never issues an in3_whiteList RPC for it.
func TestConfigureManualWhitelistSkipsRefresh(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	doc := `{
		"servers": {
			"0xffff": {
				"whiteList": ["0x0100000000000000000000000000000000000000"]
			}
		}
	}`
	if cfgErr := Configure(client, []byte(doc)); cfgErr != nil {
		t.Fatal(cfgErr)
	}
	local := client.FindChain(ChainIDLocal)
	if local.Whitelist == nil {
		t.Fatal("expected whitelist to be set")
	}
	if local.Whitelist.Contract != (common.Address{}) {
		t.Fatal("expected manual whitelist to carry the zero contract")
	}
	if needsWhitelistRefresh(local) {
		t.Fatal("manual whitelist must never need a refresh")
	}
	if len(local.Whitelist.Addresses) != 1 {
		t.Fatalf("expected one configured address, got %d", len(local.Whitelist.Addresses))
	}
}

// TestConfigureSignatureCountPicksDistinctSigners is spec.md §8 concrete
// scenario 6: signatureCount=2 against three SIGNER-capable nodes must
// record exactly two distinct signer addresses.
func TestConfigureSignatureCountPicksDistinctSigners(t *testing.T) {
	client, err := NewClient(ChainIDLocal)
	if err != nil {
		t.Fatal(err)
	}
	client.proof = ProofStandard

	chain := client.FindChain(ChainIDLocal)
	chain.Nodes = nil
	chain.Weights = nil
	for i := 0; i < 3; i++ {
		chain.Nodes = append(chain.Nodes, &Node{
			Address:  common.BytesToAddress([]byte{byte(i + 1)}),
			URL:      "http://signer",
			Capacity: 1,
			Props:    PropData | PropSigner,
		})
		chain.Weights = append(chain.Weights, newNodeWeight())
	}

	if cfgErr := Configure(client, []byte(`{"signatureCount":2}`)); cfgErr != nil {
		t.Fatal(cfgErr)
	}

	rctx := NewRPCContext(client, []RPCRequest{{Method: "eth_call"}})
	rctx.configureRequests(client, chain)

	if len(rctx.Configs) != 1 {
		t.Fatalf("expected one request config, got %d", len(rctx.Configs))
	}
	signers := rctx.Configs[0].Signers
	if len(signers) != 2 {
		t.Fatalf("expected exactly 2 signers, got %d", len(signers))
	}
	if signers[0] == signers[1] {
		t.Fatal("expected two distinct signer addresses")
	}
}

func TestConfigureRejectsSubOneMaxAttempts(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	if cfgErr := Configure(client, []byte(`{"maxAttempts":0}`)); cfgErr == nil {
		t.Fatal("expected error for maxAttempts < 1")
	}
}

// TestConfigureRejectsNewChainMissingContract confirms registering a chain
// id with no existing record requires both contract and registryId, and
// that rejection leaves no partial chain behind.
func TestConfigureRejectsNewChainMissingContract(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	doc := `{"servers": {"0x2a0": {"registryId": "0x0000000000000000000000000000000000000000000000000000000000000001"}}}`
	if cfgErr := Configure(client, []byte(doc)); cfgErr == nil {
		t.Fatal("expected error for new chain missing contract")
	}
	if client.FindChain(0x2a0) != nil {
		t.Fatal("expected no partial chain registered on invalid configure")
	}
}

// TestConfigureRejectsMalformedRegistryIDLength confirms a registryId that
// doesn't decode to exactly 32 bytes is rejected rather than silently
// zero-padded, and that the chain is not partially mutated.
func TestConfigureRejectsMalformedRegistryIDLength(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	doc := `{"servers": {"0x2a1": {
		"contract": "0x0100000000000000000000000000000000000000",
		"registryId": "0xabcd"
	}}}`
	if cfgErr := Configure(client, []byte(doc)); cfgErr == nil {
		t.Fatal("expected error for short registryId")
	}
	if client.FindChain(0x2a1) != nil {
		t.Fatal("expected no partial chain registered on invalid configure")
	}
}

// TestConfigureRejectsMalformedContractLength confirms an existing chain's
// contract update is rejected, and left untouched, on a too-short address.
func TestConfigureRejectsMalformedContractLength(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	local := client.FindChain(ChainIDLocal)
	originalContract := local.Contract

	doc := `{"servers": {"0xffff": {"contract": "0xabcd"}}}`
	if cfgErr := Configure(client, []byte(doc)); cfgErr == nil {
		t.Fatal("expected error for short contract address")
	}
	if local.Contract != originalContract {
		t.Fatal("expected existing chain's contract left untouched on invalid configure")
	}
}

func TestConfigureChainIDByName(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	if cfgErr := Configure(client, []byte(`{"chainId":"kovan"}`)); cfgErr != nil {
		t.Fatal(cfgErr)
	}
	if client.chainID != ChainIDKovan {
		t.Fatalf("expected kovan selected, got 0x%x", client.chainID)
	}
}
