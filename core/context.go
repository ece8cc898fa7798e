package core

import (
	"github.com/google/uuid"
)

// CtxType distinguishes an RPC batch context from a signature-request
// context (spec.md §3).
type CtxType int

const (
	CtxRPC CtxType = iota
	CtxSign
)

// State is the request context's derived status (spec.md §4.5). It is
// never stored directly; RequestContext.State recomputes it on demand.
type State int

const (
	StateError State = iota
	StateWaitingForRequired
	StateWaitingForResponse
	StateSuccess
)

// RPCRequest is one entry of the payload array a caller submits (spec.md
// §3).
type RPCRequest struct {
	ID     uint64
	Method string
	Params []any
}

// requestConfig is the per-request verification configuration
// configureRequests fills in (spec.md §4.5 step RPC.d, §4.7).
type requestConfig struct {
	Proof        ProofMode
	ChainID      uint64
	Finality     uint8
	LatestBlock  int
	IncludeCode  bool
	UseBinary    bool
	UseFullProof bool
	Signers      [][20]byte
}

// RequestContext is the tree-structured state object driving one in-flight
// RPC batch (spec.md §3). It is constructed from a JSON-RPC payload,
// mutated only by Execute, and owns its Required child transitively.
type RequestContext struct {
	client *Client

	Type    CtxType
	TraceID uuid.UUID

	Requests []RPCRequest
	Configs  []requestConfig

	Nodes []*pickedNode
	Raw   []NodeResultSlot

	// syntheticResult holds a verifier PreHandle's internally-produced
	// answer, bypassing node selection entirely (spec.md §4.5 step RPC.c).
	syntheticResult string

	ParsedResult map[string]any
	ResultTokens []any

	Attempt int
	err     *Error
	ok      bool

	Required *RequestContext

	// afterSuccess runs once, immediately after this context reaches
	// SUCCESS, to fold a required child's result into its parent (e.g.
	// applying a nodelist/whitelist refresh). Only used on internally
	// constructed child contexts.
	afterSuccess func() *Error
}

// NewRPCContext builds a CtxRPC request context for one or more RPC
// requests against client.
func NewRPCContext(client *Client, requests []RPCRequest) *RequestContext {
	rctx := &RequestContext{
		client:   client,
		Type:     CtxRPC,
		TraceID:  uuid.New(),
		Requests: requests,
	}
	for i := range rctx.Requests {
		if rctx.Requests[i].ID == 0 {
			rctx.Requests[i].ID = client.nextRPCID()
		}
	}
	return rctx
}

// State recomputes the context's derived state (spec.md §4.5).
func (rctx *RequestContext) State() State {
	if rctx.err != nil {
		return StateError
	}
	if rctx.Required != nil && rctx.Required.State() != StateSuccess {
		return StateWaitingForRequired
	}
	if rctx.ok {
		return StateSuccess
	}
	return StateWaitingForResponse
}

// Free releases rctx's Required child transitively (spec.md §5: "the
// context destructor is recursive over required children"). Go's GC frees
// the rest; Free exists to make the ownership contract explicit and
// testable (invariant 9).
func (rctx *RequestContext) Free() {
	if rctx.Required != nil {
		rctx.Required.Free()
		rctx.Required = nil
	}
}

func (rctx *RequestContext) hasAnyRawFilled() bool {
	for _, r := range rctx.Raw {
		if r.Result != "" || r.Error != "" {
			return true
		}
	}
	return false
}
