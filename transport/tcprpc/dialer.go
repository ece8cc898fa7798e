// Package tcprpc is a pooled raw-TCP core.Transport: one newline-delimited
// JSON-RPC batch write per connection, one newline-delimited response read
// back. Adapted from the teacher's core/network.go Dialer and
// core/connection_pool.go ConnPool, which this package repurposes from
// general peer-connection management to the dispatch engine's one-shot
// request/response exchange.
package tcprpc

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Dialer opens outbound TCP connections to dispatch-engine node addresses,
// adapted from the teacher's network.go Dialer. Pool is what carries this
// package's actual dispatch-domain behavior (the per-address dial circuit
// breaker); Dialer stays a thin timeout/keepalive wrapper because that's
// all a one-shot outbound connect needs.
type Dialer struct {
	Timeout   time.Duration
	KeepAlive time.Duration
}

// NewDialer builds a Dialer with the given timeout and TCP keepalive.
func NewDialer(timeout, keepAlive time.Duration) *Dialer {
	return &Dialer{Timeout: timeout, KeepAlive: keepAlive}
}

// Dial connects to a node's TCP address.
func (d *Dialer) Dial(ctx context.Context, address string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: d.Timeout, KeepAlive: d.KeepAlive}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("tcprpc: failed to connect to %s: %w", address, err)
	}
	return conn, nil
}
