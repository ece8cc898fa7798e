package tcprpc

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"in3go/core"
)

func startLineEchoServer(t *testing.T, response string) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				r := bufio.NewReader(c)
				if _, err := r.ReadString('\n'); err != nil {
					return
				}
				c.Write([]byte(response + "\n"))
			}(c)
		}
	}()
	return ln
}

func TestSendWritesAndReadsOneLinePerNode(t *testing.T) {
	ln := startLineEchoServer(t, `{"result":"0x1"}`)
	defer ln.Close()

	tr := New(time.Second, 4, time.Minute)
	defer tr.Close()

	req := &core.TransportRequest{
		Payload: `[{"id":1}]`,
		URLs:    []string{ln.Addr().String()},
		Slots:   make([]core.NodeResultSlot, 1),
	}
	if err := tr.Send(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if req.Slots[0].Result != `{"result":"0x1"}`+"\n" {
		t.Fatalf("unexpected result: %q", req.Slots[0].Result)
	}
}

func TestSendFillsErrorSlotForUnreachableNode(t *testing.T) {
	tr := New(200*time.Millisecond, 4, time.Minute)
	defer tr.Close()

	req := &core.TransportRequest{
		Payload: `[]`,
		URLs:    []string{"127.0.0.1:1"},
		Slots:   make([]core.NodeResultSlot, 1),
	}
	if err := tr.Send(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if req.Slots[0].Error == "" {
		t.Fatal("expected error slot filled for unreachable node")
	}
}

func TestAddressOfStripsSchemeFromTCPURL(t *testing.T) {
	if got := addressOf("tcp://127.0.0.1:8545"); got != "127.0.0.1:8545" {
		t.Fatalf("expected scheme stripped, got %q", got)
	}
	if got := addressOf("127.0.0.1:8545"); got != "127.0.0.1:8545" {
		t.Fatalf("expected plain host:port unchanged, got %q", got)
	}
}
