package entityid

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Size is the byte width of an ID.
const Size = 32

// codeAlphabet skips glyphs that are easy to confuse (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	ErrInvalidHex = errors.New("invalid entity id hex")
	ErrNotSubject = errors.New("entity id is not a subject id")
)

// ID is a fixed 32-byte entity identifier. IDs are values and compare with ==.
type ID [Size]byte

// Encode returns the ID for code: its first 32 bytes, zero padded.
func Encode(code string) ID {
	var id ID
	copy(id[:], code)
	return id
}

// Bytes returns a copy of the identifier bytes.
func (id ID) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// Code returns the encoded code with the zero padding removed.
func (id ID) Code() string {
	return string(bytes.TrimRight(id[:], "\x00"))
}

// Hex returns the 0x-prefixed lowercase hex form.
func (id ID) Hex() string {
	return "0x" + hex.EncodeToString(id[:])
}

func (id ID) String() string {
	return id.Hex()
}

// IsZero reports whether every byte is zero.
func (id ID) IsZero() bool {
	return id == ID{}
}

// ParseHex parses a 64 hex digit identifier with an optional 0x prefix.
func ParseHex(s string) (ID, error) {
	var id ID
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != Size*2 {
		return id, fmt.Errorf("%w: want %d hex digits, got %d", ErrInvalidHex, Size*2, len(s))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return id, nil
}

// FromSubject returns the ID of an integer subject id.
func FromSubject(subjectID uint32) ID {
	return Encode(strconv.FormatUint(uint64(subjectID), 10))
}

// ToSubject is the inverse of FromSubject. It fails for IDs that were not
// produced from a decimal subject id.
func ToSubject(id ID) (uint32, error) {
	code := id.Code()
	if code == "" {
		return 0, fmt.Errorf("%w: empty code", ErrNotSubject)
	}
	v, err := strconv.ParseUint(code, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotSubject, code)
	}
	if FromSubject(uint32(v)) != id {
		// leading zeros or a sign would not round-trip
		return 0, fmt.Errorf("%w: non canonical %q", ErrNotSubject, code)
	}
	return uint32(v), nil
}

// RandomCode returns a random code of n characters from an unambiguous
// uppercase alphabet.
func RandomCode(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out)
}
