// Package cryptox holds the hashing and key-derivation primitives used by
// development signers and by the in-memory ledger.
package cryptox

import (
	"encoding/hex"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
)

// AddressSize is the byte length of an account address.
const AddressSize = 20

// DeriveSeed stretches a secret into a 32-byte key seed with argon2id.
func DeriveSeed(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// Hash256 returns the blake2b-256 digest of b.
func Hash256(b []byte) []byte {
	h := blake2b.Sum256(b)
	return h[:]
}

// Address derives the 0x-prefixed account address of a public key: the
// first 20 bytes of its blake2b-256 digest.
func Address(publicKey []byte) string {
	return "0x" + hex.EncodeToString(Hash256(publicKey)[:AddressSize])
}

// TxHash identifies a signed payload.
func TxHash(payload, signature []byte) string {
	buf := make([]byte, 0, len(payload)+len(signature))
	buf = append(buf, payload...)
	buf = append(buf, signature...)
	return "0x" + hex.EncodeToString(Hash256(buf))
}
