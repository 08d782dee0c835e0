// Package genesis maintains the compiled chain parameters and constructs
// the genesis block and the protocol coinbase.
package genesis

import (
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
)

// Chain parameters. These are compiled constants; there are no flags for
// them in the node.
const (
	// ReserveAddress receives the genesis reward and every block subsidy.
	ReserveAddress = "AUR131FCE87dAe14b2A9568D0146950125Fe217Bf0e"

	// BlockReward is the subsidy carried by each coinbase, in base units
	// (1 AUC = 100,000,000 base units).
	BlockReward int64 = 2500 * 100_000_000

	// Timestamp is the genesis block time: 2026-01-09 00:00:00 UTC.
	Timestamp uint32 = 1767916800

	// Bits is carried in every header. It is stored, never interpreted.
	Bits uint32 = 0x1e00ffff

	// Version is the block version for this chain.
	Version int32 = 1
)

// coinbaseMessage is the scriptSig carried by the protocol coinbase.
const coinbaseMessage = "2026-01-08 Aurelis Republic Established"

// =============================================================================

// Coinbase constructs the issuance transaction paying the block reward to
// the specified address.
func Coinbase(address string, reward int64) database.Tx {
	return database.Tx{
		Version: 1,
		TxIn: []database.TxIn{
			{
				PrevOutHash: hash.Zero,
				ScriptSig:   []byte(coinbaseMessage),
				Sequence:    database.DefaultSequence,
			},
		},
		TxOut: []database.TxOut{
			{
				Value:        reward,
				ScriptPubKey: []byte(address),
			},
		},
	}
}

// Block constructs the genesis block with the compiled parameters. The
// merkle root is the hash of the sole coinbase.
func Block() database.Block {
	coinbase := Coinbase(ReserveAddress, BlockReward)

	return database.Block{
		Header: database.BlockHeader{
			Version:    Version,
			PrevBlock:  hash.Zero,
			MerkleRoot: coinbase.Hash(),
			Timestamp:  Timestamp,
			Bits:       Bits,
			Nonce:      0,
		},
		Txs: []database.Tx{coinbase},
	}
}
