package core

import "testing"

func TestEVMVerifierAcceptsWellFormedCurrentBlock(t *testing.T) {
	v := &EVMVerifier{}
	vctx := &VerifyContext{CurrentBlk: "0x10"}
	code, err := v.Verify(vctx)
	if err != nil {
		t.Fatal(err)
	}
	if code != VerifyOK {
		t.Fatalf("expected VerifyOK, got %v", code)
	}
}

func TestEVMVerifierRejectsMalformedCurrentBlock(t *testing.T) {
	v := &EVMVerifier{}
	vctx := &VerifyContext{CurrentBlk: "not-hex"}
	code, err := v.Verify(vctx)
	if code != VerifyFailed || err == nil {
		t.Fatal("expected VerifyFailed for malformed currentBlock")
	}
}

func TestEVMVerifierSkipsFullProofWhenNotRequested(t *testing.T) {
	v := &EVMVerifier{}
	vctx := &VerifyContext{UseFullProof: false}
	code, err := v.Verify(vctx)
	if err != nil {
		t.Fatal(err)
	}
	if code != VerifyOK {
		t.Fatal("expected VerifyOK when full proof is not requested")
	}
}

func TestEVMVerifierRequiresProofBlockUnderFullProof(t *testing.T) {
	v := &EVMVerifier{}
	vctx := &VerifyContext{UseFullProof: true, Proof: map[string]any{}}
	code, err := v.Verify(vctx)
	if code != VerifyFailed || err == nil {
		t.Fatal("expected VerifyFailed when proof.block is missing under full proof mode")
	}
}

func TestEVMVerifierAcceptsHexProofBlockUnderFullProof(t *testing.T) {
	v := &EVMVerifier{}
	vctx := &VerifyContext{UseFullProof: true, Proof: map[string]any{"block": "0xdeadbeef"}}
	code, err := v.Verify(vctx)
	if err != nil {
		t.Fatal(err)
	}
	if code != VerifyOK {
		t.Fatalf("expected VerifyOK, got %v", code)
	}
}

func TestEVMVerifierPreHandleAnswersNetVersionInternally(t *testing.T) {
	client, err := NewClient(ChainIDKovan)
	if err != nil {
		t.Fatal(err)
	}
	v := &EVMVerifier{}
	rctx := NewRPCContext(client, []RPCRequest{{Method: "net_version"}})
	code, res, perr := v.PreHandle(rctx)
	if perr != nil {
		t.Fatal(perr)
	}
	if code != VerifyOK {
		t.Fatal("expected net_version answered internally")
	}
	if res != `"42"` {
		t.Fatalf("expected quoted kovan chain id 42, got %s", res)
	}
}

func TestEVMVerifierPreHandleDefersOtherMethods(t *testing.T) {
	client, err := NewClient(0)
	if err != nil {
		t.Fatal(err)
	}
	v := &EVMVerifier{}
	rctx := NewRPCContext(client, []RPCRequest{{Method: "eth_call"}})
	code, _, perr := v.PreHandle(rctx)
	if perr != nil {
		t.Fatal(perr)
	}
	if code != VerifyFailed {
		t.Fatal("expected eth_call to defer to the network")
	}
}
