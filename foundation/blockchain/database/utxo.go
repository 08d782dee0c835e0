package database

import (
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
)

// OutPoint identifies a single transaction output.
type OutPoint struct {
	Hash  hash.Hash
	Index uint32
}

// UTXO is an unspent transaction output tracked by the chain.
type UTXO struct {
	OutPoint OutPoint
	Out      TxOut
}

// BlockIndex carries the header level view of an accepted block. It lives
// for the life of the process once created.
type BlockIndex struct {
	Hash   hash.Hash
	Header BlockHeader
	Height int
}

// newBlockIndex constructs the index entry for a block at the
// specified height.
func newBlockIndex(block Block, height int) *BlockIndex {
	return &BlockIndex{
		Hash:   block.Hash(),
		Header: block.Header,
		Height: height,
	}
}

// applyBlock folds the block's transactions into the UTXO set, in
// transaction order. Inputs are spent before outputs are created so a
// later transaction in the same block may spend an earlier one's outputs.
// A zero previous output hash denotes issuance and spends nothing.
func applyBlock(utxos map[OutPoint]TxOut, block Block) {
	for _, tx := range block.Txs {
		txid := tx.Hash()

		for _, in := range tx.TxIn {
			if !in.PrevOutHash.IsZero() {
				delete(utxos, OutPoint{Hash: in.PrevOutHash, Index: in.PrevOutN})
			}
		}

		for i, out := range tx.TxOut {
			utxos[OutPoint{Hash: txid, Index: uint32(i)}] = out
		}
	}
}
