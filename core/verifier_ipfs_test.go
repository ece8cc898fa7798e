package core

import "testing"

func TestIPFSVerifierAcceptsCIDv0Shape(t *testing.T) {
	v := &IPFSVerifier{}
	vctx := &VerifyContext{ResultValue: "QmT78zSuBmuS4z925WZfrqQ1qHaJ56DQaTfyMUF7F8ff5o"}
	code, err := v.Verify(vctx)
	if err != nil {
		t.Fatal(err)
	}
	if code != VerifyOK {
		t.Fatalf("expected VerifyOK for a CIDv0-shaped result, got %v", code)
	}
}

func TestIPFSVerifierRejectsNonCIDShape(t *testing.T) {
	v := &IPFSVerifier{}
	vctx := &VerifyContext{ResultValue: "not-a-cid"}
	code, err := v.Verify(vctx)
	if code != VerifyFailed || err == nil {
		t.Fatal("expected VerifyFailed for a non-CIDv0-shaped result")
	}
}

func TestIPFSVerifierSkipsNonStringResults(t *testing.T) {
	v := &IPFSVerifier{}
	vctx := &VerifyContext{ResultValue: float64(42)}
	code, err := v.Verify(vctx)
	if err != nil {
		t.Fatal(err)
	}
	if code != VerifyOK {
		t.Fatal("expected non-string result values to pass through unchecked")
	}
}

func TestIPFSVerifierPreHandleAlwaysDefersToNetwork(t *testing.T) {
	v := &IPFSVerifier{}
	code, _, err := v.PreHandle(&RequestContext{})
	if err != nil {
		t.Fatal(err)
	}
	if code != VerifyFailed {
		t.Fatal("expected IPFS PreHandle to always defer to the network")
	}
}
