// Package httprpc is the reference core.Transport over net/http: it POSTs
// the engine's JSON-RPC batch payload to every chosen node URL concurrently
// and fills each result/error slot. The transport implementation is
// explicitly external per spec.md §1, so stdlib net/http is the right tool
// here rather than a third-party HTTP client — there is no dependency in
// the teacher's stack that does less than net/http already does for a
// single POST-and-read-body round trip.
package httprpc

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"in3go/core"
)

// Transport POSTs application/json batch payloads to node URLs.
type Transport struct {
	client *http.Client
}

// New builds a Transport with the given per-request timeout.
func New(timeout time.Duration) *Transport {
	return &Transport{client: &http.Client{Timeout: timeout}}
}

// Send implements core.Transport.
func (t *Transport) Send(ctx context.Context, req *core.TransportRequest) error {
	var wg sync.WaitGroup
	for i, u := range req.URLs {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader([]byte(req.Payload)))
			if err != nil {
				req.Slots[i].Error = err.Error()
				return
			}
			httpReq.Header.Set("Content-Type", "application/json")

			resp, err := t.client.Do(httpReq)
			if err != nil {
				req.Slots[i].Error = err.Error()
				return
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				req.Slots[i].Error = err.Error()
				return
			}
			if resp.StatusCode >= 400 {
				req.Slots[i].Error = string(body)
				return
			}
			req.Slots[i].Result = string(body)
		}(i, u)
	}
	wg.Wait()
	return nil
}
