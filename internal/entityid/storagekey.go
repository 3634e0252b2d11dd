package entityid

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const hashPrefixSize = 16

var ErrKeyMismatch = errors.New("storage key does not match root")

func hash128(b []byte) []byte {
	h, err := blake2b.New(hashPrefixSize, nil)
	if err != nil {
		// only fails for sizes outside 1..64
		panic(err)
	}
	h.Write(b)
	return h.Sum(nil)
}

func concat(b []byte) []byte {
	return append(hash128(b), b...)
}

// RootPrefix is the hashed prefix shared by every key under root.
func RootPrefix(root string) []byte {
	return hash128([]byte(root))
}

// StorageKey derives the key of the entry stored for id under root:
//
//	blake2b128(root) ++ blake2b128(id) ++ id
//
// The raw id trails the key so it can be recovered from a key listing.
func StorageKey(root string, id ID) []byte {
	key := RootPrefix(root)
	return append(key, concat(id[:])...)
}

// EntryKey derives the key of a second-level entry stored under (id, entry),
// e.g. a single review in a per-subject map.
func EntryKey(root string, id ID, entry []byte) []byte {
	key := StorageKey(root, id)
	return append(key, concat(entry)...)
}

// IDFromStorageKey recovers the ID from a key produced by StorageKey.
func IDFromStorageKey(root string, key []byte) (ID, error) {
	var id ID
	want := 2*hashPrefixSize + Size
	if len(key) < want {
		return id, fmt.Errorf("%w: key too short (%d bytes)", ErrKeyMismatch, len(key))
	}
	if !bytes.Equal(key[:hashPrefixSize], RootPrefix(root)) {
		return id, fmt.Errorf("%w: prefix differs from %q", ErrKeyMismatch, root)
	}
	copy(id[:], key[2*hashPrefixSize:want])
	if !bytes.Equal(key[hashPrefixSize:2*hashPrefixSize], hash128(id[:])) {
		return id, fmt.Errorf("%w: id hash differs", ErrKeyMismatch)
	}
	return id, nil
}
