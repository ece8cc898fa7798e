package tcprpc

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestDialConnectsToListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		c, err := ln.Accept()
		if err == nil {
			c.Close()
		}
	}()

	d := NewDialer(time.Second, 0)
	conn, err := d.Dial(context.Background(), ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
}

func TestDialFailsOnUnreachableAddress(t *testing.T) {
	d := NewDialer(200*time.Millisecond, 0)
	_, err := d.Dial(context.Background(), "127.0.0.1:1")
	if err == nil {
		t.Fatal("expected dial error for unreachable address")
	}
}
