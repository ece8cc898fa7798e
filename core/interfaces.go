package core

import "context"

// ProofMode governs whether and how the engine asks nodes for cryptographic
// proofs (spec.md §4.7, GLOSSARY).
type ProofMode int

const (
	ProofNone ProofMode = iota
	ProofStandard
	ProofFull
)

// SignMode is the signing algorithm requested of a Signer (spec.md §6).
// EC-HASH is the only mode the original names; it is kept as a type rather
// than a bare constant so a second mode can be added without breaking the
// Signer interface.
type SignMode int

const (
	SignModeECHash SignMode = iota
)

// NodeResultSlot is one pre-allocated per-node response slot a Transport
// must fill exactly once (spec.md §6 Transport callback).
type NodeResultSlot struct {
	URL    string
	Result string
	Error  string
}

// TransportRequest is what the engine hands to a Transport: the JSON text of
// one outgoing batch payload and the URLs to send it to. Slots is
// pre-allocated with one entry per URL, in the same order.
type TransportRequest struct {
	Payload string
	URLs    []string
	Slots   []NodeResultSlot
}

// Transport is the host-supplied delivery mechanism (spec.md §6). It may be
// synchronous or drive its own asynchronous machinery, as long as every slot
// is populated before Send returns.
type Transport interface {
	Send(ctx context.Context, req *TransportRequest) error
}

// Signer is the host-supplied key custodian (spec.md §6). Sign must return a
// 65-byte signature or a non-nil error; it is invoked inline by the executor
// and must not itself suspend the request-context state machine.
type Signer interface {
	Sign(ctx context.Context, mode SignMode, data []byte, from [20]byte) ([]byte, error)
}

// Cache is the optional write-through store for nodelist/whitelist blobs
// (spec.md §6). No timing contract is implied; a miss simply triggers a
// network refresh.
type Cache interface {
	Store(key string, value []byte) error
	Load(key string) ([]byte, bool)
}

// Code is a verifier/executor result code: zero (VerifyOK) means success,
// positive means "still waiting" (on a required child or on node
// responses), negative means a
// terminal verification failure for the response being examined.
type Code int

const (
	VerifyOK      Code = 0
	VerifyWaiting Code = 1
	VerifyFailed  Code = -1
)

// VerifyContext carries everything a Verifier needs to judge one node's
// parsed response for one request slot (spec.md §4.6).
type VerifyContext struct {
	Client       *Client
	RCtx         *RequestContext
	Chain        *Chain
	Proof        map[string]any
	CurrentBlk   string
	LastValSet   uint64
	UseFullProof bool
	ResultValue  any
}

// Verifier is the per-chain-type pluggable response validator (spec.md §6,
// GLOSSARY). PreHandle is optional: a Verifier that cannot service a
// request internally returns VerifyFailed.
type Verifier interface {
	Verify(vctx *VerifyContext) (Code, error)
	PreHandle(rctx *RequestContext) (Code, string, error)
}
