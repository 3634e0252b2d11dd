package common

import (
	"crypto/rand"
	"encoding/binary"
)

// GenerateRandByteArray returns size bytes read from crypto/rand.
// It panics if the system random source fails.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// RandomUint64 returns a non-zero random value.
func RandomUint64() uint64 {
	for {
		v := binary.BigEndian.Uint64(GenerateRandByteArray(8))
		if v != 0 {
			return v
		}
	}
}

// WipeByteArray overwrites b with zeros. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
