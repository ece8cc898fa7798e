// Package mock is an in-memory core.Transport for tests, grounded in the
// teacher's tests/consensus_test.go mock-network pattern (a map-based
// stand-in driven entirely by test setup, no real I/O).
package mock

import (
	"context"
	"sync"

	"in3go/core"
)

// Response is the canned reply for one node URL: either a JSON result or
// an error string, never both.
type Response struct {
	Result string
	Error  string
}

// Transport answers Send calls from a pre-programmed map of URL -> Response.
// Unlisted URLs are left with their slots untouched (both empty), matching
// a node that never answers.
type Transport struct {
	mu        sync.Mutex
	Responses map[string]Response
	Calls     []*core.TransportRequest
}

// New builds an empty mock transport; populate Responses before driving a
// context, or use Respond to add one entry at a time.
func New() *Transport {
	return &Transport{Responses: make(map[string]Response)}
}

// Respond programs the canned reply for url.
func (t *Transport) Respond(url string, resp Response) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Responses[url] = resp
}

// Send implements core.Transport.
func (t *Transport) Send(_ context.Context, req *core.TransportRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls = append(t.Calls, req)
	for i, u := range req.URLs {
		if resp, ok := t.Responses[u]; ok {
			req.Slots[i].Result = resp.Result
			req.Slots[i].Error = resp.Error
		}
	}
	return nil
}
