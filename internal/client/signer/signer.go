// Package signer defines the capability a submission needs to authorize a
// rating, plus development key pairs for local use.
//
// The pipelines only ever see the Signer interface. How keys are obtained
// (browser wallet, hardware device, dev seed) is outside of them.
package signer

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"reflect"

	"github.com/dmitrijs2005/mark3t-rep/internal/common"
	"github.com/dmitrijs2005/mark3t-rep/internal/cryptox"
)

// Signer authorizes payloads on behalf of Address.
type Signer interface {
	Address() string
	Sign(payload []byte) ([]byte, error)
}

// PublicKeyer is implemented by signers that can disclose their public key,
// letting the ledger verify signatures.
type PublicKeyer interface {
	PublicKey() []byte
}

// devSalt scopes development seeds to this application.
var devSalt = []byte("mark3t-rep/dev-signer/v1")

var (
	ErrEmptySecret = errors.New("empty signer secret")
	ErrNoKey       = errors.New("signer has no key")
)

// KeyPair is an ed25519 signer.
type KeyPair struct {
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
	address string
}

// FromSeed builds a key pair from a 32-byte seed.
func FromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.New("seed must be 32 bytes")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &KeyPair{priv: priv, pub: pub, address: cryptox.Address(pub)}, nil
}

// FromSecret derives a key pair from a secret phrase or a well-known dev
// account name such as "Alice". The secret is wiped afterwards.
func FromSecret(secret []byte) (*KeyPair, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	seed := cryptox.DeriveSeed(secret, devSalt)
	defer common.WipeByteArray(seed)
	common.WipeByteArray(secret)
	return FromSeed(seed)
}

// Dev returns the development key pair for a named account.
func Dev(name string) (*KeyPair, error) {
	return FromSecret([]byte(name))
}

// Present reports whether sg can sign. A nil interface, a typed nil
// pointer and a signer without an address all count as absent.
func Present(sg Signer) bool {
	if sg == nil {
		return false
	}
	switch v := reflect.ValueOf(sg); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return false
		}
	}
	return sg.Address() != ""
}

func (k *KeyPair) Address() string {
	if k == nil {
		return ""
	}
	return k.address
}

func (k *KeyPair) PublicKey() []byte {
	if k == nil {
		return nil
	}
	out := make([]byte, len(k.pub))
	copy(out, k.pub)
	return out
}

func (k *KeyPair) Sign(payload []byte) ([]byte, error) {
	if k == nil || len(k.priv) == 0 {
		return nil, ErrNoKey
	}
	return ed25519.Sign(k.priv, payload), nil
}

// Verify checks an ed25519 signature.
func Verify(publicKey, payload, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(publicKey, payload, signature)
}

// Ref folds an address into the 32-bit account reference rating records
// carry. Distinct addresses may collide.
func Ref(address string) uint32 {
	return binary.BigEndian.Uint32(cryptox.Hash256([]byte(address))[:4])
}
