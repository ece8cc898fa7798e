package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"in3go/pkg/metrics"
)

// maxNonProductiveIterations bounds send's retry loop to guarantee
// termination (spec.md §5).
const maxNonProductiveIterations = 10

// chainVersionString is a small convenience used by EVMVerifier.PreHandle to
// answer net_version internally without a round-trip.
func (c *Client) chainVersionString() string {
	return fmt.Sprintf("%d", c.chainID)
}

func requiredProps(client *Client, rctx *RequestContext) NodeProps {
	req := PropData | client.nodeProps
	if client.useHTTP {
		req |= PropHTTP
	}
	if client.proof != ProofNone {
		req |= PropProof
	}
	return req
}

// Execute performs one step of the request-context state machine (spec.md
// §4.5). It never blocks; suspension is signalled by returning VerifyWaiting.
func Execute(rctx *RequestContext) (Code, *Error) {
	if rctx.err != nil {
		return VerifyFailed, rctx.err
	}
	if len(rctx.Requests) == 0 || rctx.Requests[0].Method == "" {
		rctx.err = newError(KindInvalidArgument, "request missing method")
		return VerifyFailed, rctx.err
	}
	if rctx.ok {
		return VerifyOK, nil
	}

	if rctx.Required != nil {
		code, err := Execute(rctx.Required)
		if err != nil {
			rctx.err = wrapError(err, "Error updating node_list/white_list")
			return VerifyFailed, rctx.err
		}
		if code != VerifyOK {
			return VerifyWaiting, nil
		}
		rctx.Required = nil
	}

	switch rctx.Type {
	case CtxSign:
		return rctx.executeSign()
	default:
		return rctx.executeRPC()
	}
}

func (rctx *RequestContext) executeSign() (Code, *Error) {
	if len(rctx.Raw) == 0 {
		return VerifyWaiting, nil
	}
	slot := rctx.Raw[0]
	if slot.Error != "" {
		rctx.err = newError(KindRPCError, slot.Error)
		return VerifyFailed, rctx.err
	}
	if slot.Result == "" {
		return VerifyWaiting, nil
	}
	rctx.ok = true
	return VerifyOK, nil
}

func (rctx *RequestContext) executeRPC() (Code, *Error) {
	client := rctx.client
	chain := client.FindChain(client.chainID)
	if chain == nil {
		rctx.err = newError(KindNotFound, "chain not found")
		return VerifyFailed, rctx.err
	}
	verifier := client.verifierFor(chain.Type)
	if verifier == nil {
		rctx.err = newError(KindConfiguration, "no verifier registered for chain type")
		return VerifyFailed, rctx.err
	}

	if rctx.syntheticResult == "" && len(rctx.Raw) == 0 && len(rctx.Nodes) == 0 {
		code, res, err := verifier.PreHandle(rctx)
		if err != nil {
			rctx.err = wrapError(err, "pre_handle failed")
			return VerifyFailed, rctx.err
		}
		if code == VerifyOK {
			rctx.syntheticResult = res
		}
	}

	if rctx.syntheticResult == "" && len(rctx.Raw) == 0 && len(rctx.Nodes) == 0 {
		// A nodelist/whitelist refresh context never requires another refresh.
		method := rctx.Requests[0].Method
		isRefresh := method == methodNodeList || method == methodWhiteList
		if chain.NeedsUpdate && !isRefresh {
			tryCachedNodeListRefresh(client, chain)
		}
		if chain.NeedsUpdate && !isRefresh {
			logrus.Debugf("chain %d needs nodelist update, inserting required context", chain.ChainID)
			rctx.Required = buildNodeListRefreshContext(client, chain)
			return VerifyWaiting, nil
		}
		if needsWhitelistRefresh(chain) && !isRefresh {
			tryCachedWhiteListRefresh(client, chain)
		}
		if needsWhitelistRefresh(chain) && !isRefresh {
			logrus.Debugf("chain %d needs whitelist update, inserting required context", chain.ChainID)
			rctx.Required = buildWhiteListRefreshContext(client, chain)
			return VerifyWaiting, nil
		}

		required := requiredProps(client, rctx)
		nodes, perr := pickNodes(client, chain, client.requestCount, required)
		if perr != nil {
			rctx.err = perr
			return VerifyFailed, rctx.err
		}
		rctx.Nodes = nodes
		rctx.Raw = make([]NodeResultSlot, len(nodes))
		for i, n := range nodes {
			rctx.Raw[i].URL = n.node.URL
		}
		metrics.NodesPicked.Add(float64(len(nodes)))
		rctx.configureRequests(client, chain)
	}

	if rctx.syntheticResult == "" && !rctx.hasAnyRawFilled() {
		return VerifyWaiting, nil
	}

	code, err := rctx.findValidResult(client, chain, verifier)
	if code == VerifyWaiting {
		return VerifyWaiting, nil
	}
	if code == VerifyOK {
		rctx.ok = true
		metrics.RequestsSucceeded.Inc()
		return VerifyOK, nil
	}

	// Failure: discard the parsed-response context and node list, retry
	// bounded by max_attempts (spec.md §4.5 step RPC.g).
	rctx.Nodes = nil
	rctx.Raw = nil
	rctx.ParsedResult = nil
	rctx.Attempt++
	metrics.Retries.Inc()
	if rctx.Attempt < client.maxAttempts-1 {
		return Execute(rctx)
	}
	rctx.err = newError(KindLimitReached, "reaching max_attempts and giving up")
	_ = err
	metrics.RequestsFailed.Inc()
	return VerifyFailed, rctx.err
}

// configureRequests fills chain_id, finality, latest-block hint, binary
// preference, and proof mode for every request slot, recursively picking
// SIGNER nodes when signatureCount > 0 (spec.md §4.5 step RPC.d).
func (rctx *RequestContext) configureRequests(client *Client, chain *Chain) {
	rctx.Configs = make([]requestConfig, len(rctx.Requests))
	var signers [][20]byte
	if client.signatureCount > 0 {
		signerNodes, err := pickNodes(client, chain, int(client.signatureCount), PropSigner)
		if err == nil {
			for _, n := range signerNodes {
				signers = append(signers, n.node.Address)
			}
		}
	}
	for i := range rctx.Configs {
		rctx.Configs[i] = requestConfig{
			Proof:        client.proof,
			ChainID:      client.chainID,
			Finality:     client.finality,
			LatestBlock:  client.replaceLatestBlock,
			IncludeCode:  client.includeCode && rctx.Requests[i].Method == "eth_call",
			UseBinary:    client.useBinary,
			UseFullProof: client.useFullProof,
			Signers:      signers,
		}
	}
}

// findValidResult implements response verification over rctx.Raw in list
// order (spec.md §4.6).
func (rctx *RequestContext) findValidResult(client *Client, chain *Chain, verifier Verifier) (Code, *Error) {
	if rctx.syntheticResult != "" {
		var parsed map[string]any
		if err := json.Unmarshal([]byte("{\"result\":"+rctx.syntheticResult+"}"), &parsed); err != nil {
			return VerifyFailed, newError(KindInvalidData, "malformed synthetic result")
		}
		rctx.ParsedResult = parsed
		return VerifyOK, nil
	}

	for i, slot := range rctx.Raw {
		if slot.Error != "" || slot.Result == "" {
			rctx.blacklist(i)
			continue
		}

		objects, ok := parseResponseBody(slot.Result, len(rctx.Requests))
		if !ok {
			rctx.blacklist(i)
			continue
		}

		failed := false
		tokens := make([]any, len(rctx.Requests))
	slotLoop:
		for reqIdx := range rctx.Requests {
			obj := objects[reqIdx]

			in3Obj, _ := obj[keyIn3].(map[string]any)
			if in3Obj != nil {
				if v, ok := asFloat(in3Obj[keyLastNodeList]); ok && uint64(v) > chain.LastBlock {
					chain.NeedsUpdate = true
				}
				if chain.Whitelist != nil {
					if v, ok := asFloat(in3Obj[keyLastWhiteList]); ok && uint64(v) > chain.Whitelist.LastBlock {
						chain.Whitelist.NeedsUpdate = true
					}
				}
			}

			vctx := &VerifyContext{Client: client, RCtx: rctx, Chain: chain, ResultValue: obj[keyResult]}
			if in3Obj != nil {
				vctx.Proof, _ = in3Obj[keyProof].(map[string]any)
				vctx.CurrentBlk, _ = in3Obj[keyCurrentBlock].(string)
				if v, ok := asFloat(in3Obj[keyLastValidatorChange]); ok {
					vctx.LastValSet = uint64(v)
				}
			}
			if reqIdx < len(rctx.Configs) {
				vctx.UseFullProof = rctx.Configs[reqIdx].UseFullProof
			}

			code, _ := verifier.Verify(vctx)
			if code == VerifyWaiting {
				return VerifyWaiting, nil
			}
			if code != VerifyOK {
				failed = true
				break slotLoop
			}
			tokens[reqIdx] = obj[keyResult]
		}

		if failed {
			rctx.blacklist(i)
			continue
		}

		rctx.ParsedResult = objects[0]
		rctx.ResultTokens = tokens
		return VerifyOK, nil
	}

	return VerifyFailed, newError(KindInvalidArgument, "no node produced a verified response")
}

// parseResponseBody decodes one node's raw response body (spec.md §4.6):
// a single JSON object when exactly one request was sent, or a JSON array
// of exactly n objects — one per request, in request order — when n>1
// (original_source/lib/in3-core/src/core/client/execute.c's
// ctx_parse_response).
func parseResponseBody(body string, n int) ([]map[string]any, bool) {
	if n <= 1 {
		var doc map[string]any
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, false
		}
		return []map[string]any{doc}, true
	}

	var batch []map[string]any
	if err := json.Unmarshal([]byte(body), &batch); err != nil {
		return nil, false
	}
	if len(batch) != n {
		return nil, false
	}
	return batch, true
}

func (rctx *RequestContext) blacklist(slotIdx int) {
	if slotIdx >= len(rctx.Nodes) {
		return
	}
	n := rctx.Nodes[slotIdx]
	n.weight.BlacklistedUntil = time.Now().Add(blacklistDuration)
	metrics.NodesBlacklisted.Inc()
	logrus.Infof("blacklisting node %s until %s", n.node.Address.Hex(), n.weight.BlacklistedUntil)
}

func buildNodeListRefreshContext(client *Client, chain *Chain) *RequestContext {
	req := RPCRequest{
		Method: methodNodeList,
		Params: []any{client.nodeLimit, randomSeedHex(client), []any{}},
	}
	child := NewRPCContext(client, []RPCRequest{req})
	child.afterSuccess = func() *Error {
		result, err := child.firstResult()
		if err != nil {
			return err
		}
		metrics.NodeListRefreshes.Inc()
		return applyNodeListRefresh(client, chain, result)
	}
	return child
}

func buildWhiteListRefreshContext(client *Client, chain *Chain) *RequestContext {
	req := RPCRequest{
		Method: methodWhiteList,
		Params: []any{chain.Whitelist.Contract.Hex()},
	}
	child := NewRPCContext(client, []RPCRequest{req})
	child.afterSuccess = func() *Error {
		result, err := child.firstResult()
		if err != nil {
			return err
		}
		metrics.WhiteListRefreshes.Inc()
		return applyWhiteListRefresh(client, chain, result)
	}
	return child
}

func randomSeedHex(client *Client) string {
	return fmt.Sprintf("0x%016x", client.rnd.Uint64())
}

func (rctx *RequestContext) firstResult() (map[string]any, *Error) {
	if rctx.ParsedResult == nil {
		return nil, newError(KindInvalidData, "required context has no parsed result")
	}
	res, _ := rctx.ParsedResult[keyResult].(map[string]any)
	if res == nil {
		return nil, newError(KindInvalidData, "required context result is not an object")
	}
	return res, nil
}

// Send is the synchronous driver (spec.md §5): it loops Execute and,
// whenever WAITING is returned, completes any outstanding required child
// first, then invokes the transport or signer once, then re-enters Execute.
func Send(goCtx context.Context, rctx *RequestContext) *Error {
	for i := 0; i < maxNonProductiveIterations; i++ {
		code, err := Execute(rctx)
		if err != nil {
			return err
		}
		if code == VerifyOK {
			if rctx.afterSuccess != nil {
				if aerr := rctx.afterSuccess(); aerr != nil {
					return aerr
				}
			}
			return nil
		}

		if rctx.Required != nil {
			if err := Send(goCtx, rctx.Required); err != nil {
				return err
			}
			continue
		}

		if rctx.Type == CtxSign {
			if err := driveSigner(goCtx, rctx); err != nil {
				return err
			}
			continue
		}

		if len(rctx.Nodes) > 0 && !rctx.hasAnyRawFilled() {
			if err := driveTransport(goCtx, rctx); err != nil {
				return err
			}
			continue
		}
	}
	return newError(KindLimitReached, "send exceeded non-productive iteration bound")
}

func driveTransport(goCtx context.Context, rctx *RequestContext) *Error {
	client := rctx.client
	if client.transport == nil {
		return newError(KindConfiguration, "no transport configured")
	}

	chain := client.FindChain(client.chainID)
	payload, perr := buildPayload(rctx, chain)
	if perr != nil {
		return perr
	}

	urls := make([]string, len(rctx.Nodes))
	for i, n := range rctx.Nodes {
		urls[i] = rewriteURL(client, n.node.URL)
	}

	treq := &TransportRequest{Payload: payload, URLs: urls, Slots: make([]NodeResultSlot, len(urls))}
	for i, u := range urls {
		treq.Slots[i].URL = u
	}
	if err := client.transport.Send(goCtx, treq); err != nil {
		return newError(KindRPCError, err.Error())
	}
	rctx.Raw = treq.Slots
	return nil
}

func driveSigner(goCtx context.Context, rctx *RequestContext) *Error {
	client := rctx.client
	if client.signer == nil {
		return newError(KindConfiguration, "no signer configured")
	}
	if len(rctx.Requests) == 0 || len(rctx.Requests[0].Params) < 2 {
		return newError(KindInvalidArgument, "sign request missing data/from params")
	}
	data, _ := rctx.Requests[0].Params[0].([]byte)
	var from [20]byte
	sig, err := client.signer.Sign(goCtx, SignModeECHash, data, from)
	if err != nil {
		rctx.Raw = []NodeResultSlot{{Error: err.Error()}}
		return nil
	}
	rctx.Raw = []NodeResultSlot{{Result: fmt.Sprintf("0x%x", sig)}}
	return nil
}

// rewriteURL applies the https->http rewrite when the client's use_http
// flag is set (spec.md §4.7).
func rewriteURL(client *Client, url string) string {
	if !client.useHTTP {
		return url
	}
	if len(url) > 8 && url[:8] == "https://" {
		return "http://" + url[8:]
	}
	return url
}
