package tcprpc

import (
	"bufio"
	"context"
	"net/url"
	"sync"
	"time"

	"in3go/core"
)

// Transport implements core.Transport over pooled raw TCP connections: one
// newline-delimited JSON-RPC payload write, one newline-delimited response
// line read back, per node. Node URLs are expected in "host:port" or
// "tcp://host:port" form; "https://"/"http://" URLs belong to
// transport/httprpc instead.
type Transport struct {
	pool *Pool
}

// New builds a Transport with a fresh connection Pool, using the default
// dial circuit breaker tuning (see NewPoolWithBreaker).
func New(dialTimeout time.Duration, maxIdlePerNode int, idleTTL time.Duration) *Transport {
	dialer := NewDialer(dialTimeout, 30*time.Second)
	return &Transport{pool: NewPool(dialer, maxIdlePerNode, idleTTL)}
}

// NewWithBreaker is New with explicit dial circuit breaker tuning.
func NewWithBreaker(dialTimeout time.Duration, maxIdlePerNode int, idleTTL time.Duration, failureThreshold int, cooldown time.Duration) *Transport {
	dialer := NewDialer(dialTimeout, 30*time.Second)
	return &Transport{pool: NewPoolWithBreaker(dialer, maxIdlePerNode, idleTTL, failureThreshold, cooldown)}
}

// Close releases pooled connections.
func (t *Transport) Close() { t.pool.Close() }

// Send implements core.Transport: it dials (or reuses) one connection per
// URL concurrently, writes the payload terminated by a newline, and reads
// one newline-delimited response line back into the matching slot.
func (t *Transport) Send(ctx context.Context, req *core.TransportRequest) error {
	var wg sync.WaitGroup
	for i, u := range req.URLs {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			addr := addressOf(u)
			conn, err := t.pool.Acquire(ctx, addr)
			if err != nil {
				req.Slots[i].Error = err.Error()
				return
			}

			if deadline, ok := ctx.Deadline(); ok {
				_ = conn.SetDeadline(deadline)
			}

			if _, err := conn.Write(append([]byte(req.Payload), '\n')); err != nil {
				req.Slots[i].Error = err.Error()
				_ = conn.Close()
				return
			}

			line, err := bufio.NewReader(conn).ReadString('\n')
			if err != nil {
				req.Slots[i].Error = err.Error()
				_ = conn.Close()
				return
			}
			req.Slots[i].Result = line
			t.pool.Release(conn)
		}(i, u)
	}
	wg.Wait()
	return nil
}

// addressOf strips an optional "tcp://" scheme, leaving "host:port".
func addressOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
