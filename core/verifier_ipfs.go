package core

import "github.com/mr-tron/base58"

// IPFSVerifier is the ChainIPFS verifier (SPEC_FULL.md §3.2). It confirms
// the result decodes as base58, the shape a CIDv0 string takes, using only
// bytes already decoded by the JSON layer. No full multihash/CID library is
// pulled in since this is a shape check, not a proof.
type IPFSVerifier struct{}

func (v *IPFSVerifier) Verify(vctx *VerifyContext) (Code, error) {
	s, ok := vctx.ResultValue.(string)
	if !ok || s == "" {
		return VerifyOK, nil
	}
	if !looksLikeCIDv0(s) {
		return VerifyFailed, newError(KindInvalidData, "result is not a CIDv0-shaped value")
	}
	return VerifyOK, nil
}

func (v *IPFSVerifier) PreHandle(rctx *RequestContext) (Code, string, error) {
	return VerifyFailed, "", nil
}

// looksLikeCIDv0 reports whether s decodes as base58 and starts with the
// 0x12 0x20 (sha2-256, 32-byte) multihash prefix CIDv0 always uses.
func looksLikeCIDv0(s string) bool {
	decoded, err := base58.Decode(s)
	if err != nil || len(decoded) != 34 {
		return false
	}
	return decoded[0] == 0x12 && decoded[1] == 0x20
}
