package signer

import (
	"bytes"
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"in3go/core"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	l, err := NewLocal(crypto.FromECDSA(key))
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestSignProducesRecoverableSignature(t *testing.T) {
	l := newTestLocal(t)
	data := []byte("hello in3")
	sig, err := l.Sign(context.Background(), core.SignModeECHash, data, [20]byte{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sig) != 65 {
		t.Fatalf("expected 65-byte [R||S||V] signature, got %d", len(sig))
	}

	hash := crypto.Keccak256(data)
	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		t.Fatal(err)
	}
	recovered := crypto.PubkeyToAddress(*pub)
	want := l.Address()
	if !bytes.Equal(recovered.Bytes(), want[:]) {
		t.Fatal("recovered address does not match signer address")
	}
}

func TestSignRejectsUnsupportedMode(t *testing.T) {
	l := newTestLocal(t)
	_, err := l.Sign(context.Background(), core.SignMode(99), []byte("x"), [20]byte{})
	if err == nil {
		t.Fatal("expected error for unsupported sign mode")
	}
}

func TestNewLocalRejectsMalformedKey(t *testing.T) {
	if _, err := NewLocal([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for malformed private key")
	}
}
