package tcprpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// defaultDialFailureThreshold and defaultDialCooldown bound how long a
// node address is skipped after repeated dial failures — a transport-level
// circuit breaker distinct from the engine's response-level blacklist
// (core.Chain's NodeWeight.BlacklistedUntil): this one protects the pool
// itself from repeatedly paying a TCP connect timeout against a node whose
// listener is down, before the engine even gets a chance to see a result.
const (
	defaultDialFailureThreshold = 3
	defaultDialCooldown         = 30 * time.Second
)

// pooledConn is a reusable connection to one node address, adapted from
// the teacher's connection_pool.go pooledConn.
type pooledConn struct {
	net.Conn
	addr     string
	lastUsed time.Time
}

// Pool manages reusable TCP connections per node URL, adapted from the
// teacher's ConnPool (same idle-reaper design, now keyed by the JSON-RPC
// dispatch engine's node addresses instead of arbitrary peer addresses),
// plus a per-address dial circuit breaker the teacher's version had no
// equivalent of.
type Pool struct {
	dialer    *Dialer
	mu        sync.Mutex
	conns     map[string][]*pooledConn
	maxIdle   int
	idleTTL   time.Duration
	closing   chan struct{}
	closeOnce sync.Once

	dialFailures     map[string]int
	cooldownUntil    map[string]time.Time
	failureThreshold int
	cooldown         time.Duration
}

// NewPool builds a connection pool over dialer, keeping up to maxIdle idle
// connections per address for up to idleTTL before the reaper closes them.
// A node address that fails to dial defaultDialFailureThreshold times in a
// row is skipped for defaultDialCooldown before Acquire tries it again; use
// NewPoolWithBreaker to override either value.
func NewPool(d *Dialer, maxIdle int, idleTTL time.Duration) *Pool {
	return NewPoolWithBreaker(d, maxIdle, idleTTL, defaultDialFailureThreshold, defaultDialCooldown)
}

// NewPoolWithBreaker is NewPool with explicit dial circuit breaker tuning.
// failureThreshold <= 0 disables the breaker entirely.
func NewPoolWithBreaker(d *Dialer, maxIdle int, idleTTL time.Duration, failureThreshold int, cooldown time.Duration) *Pool {
	p := &Pool{
		dialer:           d,
		conns:            make(map[string][]*pooledConn),
		maxIdle:          maxIdle,
		idleTTL:          idleTTL,
		closing:          make(chan struct{}),
		dialFailures:     make(map[string]int),
		cooldownUntil:    make(map[string]time.Time),
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
	}
	go p.reaper()
	return p
}

// Acquire returns a pooled connection for addr, or dials a new one. An
// address currently in its dial cooldown window is rejected without
// attempting to dial.
func (p *Pool) Acquire(ctx context.Context, addr string) (net.Conn, error) {
	p.mu.Lock()
	if until, ok := p.cooldownUntil[addr]; ok {
		if time.Now().Before(until) {
			p.mu.Unlock()
			return nil, fmt.Errorf("tcprpc: %s is in dial cooldown until %s", addr, until.Format(time.RFC3339))
		}
		delete(p.cooldownUntil, addr)
	}
	list := p.conns[addr]
	n := len(list)
	if n > 0 {
		c := list[n-1]
		p.conns[addr] = list[:n-1]
		p.mu.Unlock()
		c.lastUsed = time.Now()
		return c, nil
	}
	p.mu.Unlock()
	if p.dialer == nil {
		return nil, errors.New("tcprpc: dialer not configured")
	}
	conn, err := p.dialer.Dial(ctx, addr)
	if err != nil {
		p.recordDialFailure(addr)
		return nil, err
	}
	p.recordDialSuccess(addr)
	return &pooledConn{Conn: conn, addr: addr, lastUsed: time.Now()}, nil
}

// recordDialFailure counts a failed dial toward addr's circuit breaker,
// opening it once failureThreshold consecutive failures accrue.
func (p *Pool) recordDialFailure(addr string) {
	if p.failureThreshold <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialFailures[addr]++
	if p.dialFailures[addr] >= p.failureThreshold {
		p.cooldownUntil[addr] = time.Now().Add(p.cooldown)
		p.dialFailures[addr] = 0
	}
}

// recordDialSuccess clears addr's failure count, so an isolated blip doesn't
// count toward a later, unrelated string of failures.
func (p *Pool) recordDialSuccess(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.dialFailures, addr)
}

// Release returns conn to the pool, closing it outright if the pool is
// full or the connection wasn't acquired from this pool.
func (p *Pool) Release(conn net.Conn) {
	pc, ok := conn.(*pooledConn)
	if !ok {
		_ = conn.Close()
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxIdle > 0 && len(p.conns[pc.addr]) < p.maxIdle {
		pc.lastUsed = time.Now()
		p.conns[pc.addr] = append(p.conns[pc.addr], pc)
		return
	}
	_ = pc.Close()
}

// Close closes every pooled connection and stops the reaper.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.closing)
		p.mu.Lock()
		defer p.mu.Unlock()
		for _, list := range p.conns {
			for _, c := range list {
				_ = c.Close()
			}
		}
		p.conns = make(map[string][]*pooledConn)
	})
}

func (p *Pool) reaper() {
	ticker := time.NewTicker(p.idleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-p.idleTTL)
			p.mu.Lock()
			for addr, list := range p.conns {
				i := 0
				for _, c := range list {
					if c.lastUsed.Before(cutoff) {
						_ = c.Close()
						continue
					}
					list[i] = c
					i++
				}
				p.conns[addr] = list[:i]
			}
			p.mu.Unlock()
		case <-p.closing:
			return
		}
	}
}
