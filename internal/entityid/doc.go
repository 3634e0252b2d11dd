// Package entityid maps short human readable codes to the fixed-size
// 32-byte identifiers the reputation contract keys its storage by.
//
// # Encoding
//
// Encode copies the first 32 UTF-8 bytes of a code and right-pads the rest
// with zero bytes. The mapping is total and deterministic: the same code
// always yields the same bytes, across calls and process restarts, which is
// what on-chain lookups rely on. Codes longer than 32 bytes are truncated,
// so two codes that share their first 32 bytes collide. A truncation point
// may fall inside a multi-byte rune; only bytes are significant.
//
// # Subjects
//
// The canonical address of a rated subject is its integer id. FromSubject
// and ToSubject convert between that id and the 32-byte form by encoding the
// decimal representation of the id.
//
// # Storage keys
//
// StorageKey and EntryKey derive the raw keys used to read contract storage
// directly (hashed-prefix plus raw id, blake2b-128 concat), see storagekey.go.
package entityid
