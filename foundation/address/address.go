// Package address produces the human facing form of an aurelis address.
// The ledger core never parses these; it compares the raw bytes stored in
// a scriptPubKey.
package address

import (
	"crypto/ecdsa"

	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
)

// Prefix marks every aurelis address.
const Prefix = "AUR"

// FromPubKeyHash encodes a public key hash as an address.
func FromPubKeyHash(pkh []byte) string {
	return Prefix + base58.Encode(pkh)
}

// FromPublicKey hashes a public key and encodes the result as an address.
// The hash is the last 20 bytes of the Keccak256 of the uncompressed
// public key, which keeps wallet addresses stable across tools.
func FromPublicKey(pub ecdsa.PublicKey) string {
	pkh := crypto.Keccak256(crypto.FromECDSAPub(&pub)[1:])[12:]
	return FromPubKeyHash(pkh)
}
