// Package hash provides the 32 byte hash value used throughout the
// blockchain and the double-SHA256 function that produces it.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Size is the width of a hash in bytes.
const Size = 32

// Hash represents a 256 bit value. The zero value means "none" and is used
// for the coinbase previous output and the genesis previous block.
type Hash [Size]byte

// Zero is the all-zeros hash.
var Zero Hash

// Sum256 returns the double SHA256 of the specified data.
func Sum256(data []byte) Hash {
	first := sha256.Sum256(data)
	return Hash(sha256.Sum256(first[:]))
}

// FromHex converts a hex string into a Hash.
func FromHex(s string) (Hash, error) {
	var h Hash

	data, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("decode hash hex: %w", err)
	}
	if len(data) != Size {
		return Hash{}, fmt.Errorf("invalid hash length: got %d, exp %d", len(data), Size)
	}

	copy(h[:], data)
	return h, nil
}

// IsZero reports whether the hash is the "none" sentinel.
func (h Hash) IsZero() bool {
	return h == Zero
}

// String returns the lowercase hex encoding of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}
