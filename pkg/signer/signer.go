// Package signer implements core.Signer over a local secp256k1 key using
// github.com/ethereum/go-ethereum/crypto, matching the EC-HASH signing mode
// spec.md §6 names. spec.md treats "the key signer" as an external
// collaborator and only mandates its interface; this concrete
// implementation gives the engine and cmd/in3cli something to drive in
// tests without a remote HSM or wallet.
package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"in3go/core"
)

// Local signs with an in-memory ECDSA private key.
type Local struct {
	key *ecdsa.PrivateKey
}

// NewLocal constructs a Local signer from a raw 32-byte private key.
func NewLocal(privKey []byte) (*Local, error) {
	key, err := crypto.ToECDSA(privKey)
	if err != nil {
		return nil, fmt.Errorf("signer: invalid private key: %w", err)
	}
	return &Local{key: key}, nil
}

// Sign implements core.Signer for core.SignModeECHash: it Keccak256-hashes
// data, signs the hash, and returns the 65-byte [R || S || V] signature.
func (l *Local) Sign(_ context.Context, mode core.SignMode, data []byte, _ [20]byte) ([]byte, error) {
	if mode != core.SignModeECHash {
		return nil, fmt.Errorf("signer: unsupported sign mode %d", mode)
	}
	hash := crypto.Keccak256(data)
	sig, err := crypto.Sign(hash, l.key)
	if err != nil {
		return nil, fmt.Errorf("signer: sign failed: %w", err)
	}
	return sig, nil
}

// Address returns the signer's Ethereum-style address, derived from the
// public key.
func (l *Local) Address() [20]byte {
	var out [20]byte
	copy(out[:], crypto.PubkeyToAddress(l.key.PublicKey).Bytes())
	return out
}
