package state

import (
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
)

// QueryHeight returns the zero based height of the chain, -1 when empty.
func (s *State) QueryHeight() int {
	return s.db.Height()
}

// QueryBestHash returns the hash of the chain tip.
func (s *State) QueryBestHash() hash.Hash {
	return s.db.BestHash()
}

// QueryBlock returns the block with the specified hash.
func (s *State) QueryBlock(blockHash hash.Hash) (database.Block, bool) {
	return s.db.GetBlock(blockHash)
}

// QueryBlockByHeight returns the block at the specified height.
func (s *State) QueryBlockByHeight(height int) (database.Block, bool) {
	return s.db.GetBlockByHeight(height)
}

// QueryIndex returns the index entry for the specified block hash.
func (s *State) QueryIndex(blockHash hash.Hash) (database.BlockIndex, bool) {
	return s.db.GetIndex(blockHash)
}

// QueryTransaction returns the confirmed transaction with the specified
// hash and the hash of its containing block.
func (s *State) QueryTransaction(txHash hash.Hash) (database.Tx, hash.Hash, bool) {
	return s.db.GetTransaction(txHash)
}

// QueryBalance returns the sum of unspent outputs held by the address.
func (s *State) QueryBalance(address string) int64 {
	return s.db.Balance(address)
}

// QueryUTXOs returns the unspent outputs held by the address.
func (s *State) QueryUTXOs(address string) []database.UTXO {
	return s.db.UTXOsByAddress(address)
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryMempool returns a snapshot of the pending transactions.
func (s *State) QueryMempool() []database.Tx {
	return s.mempool.Copy()
}

// MempoolContains reports whether the pool holds the transaction.
func (s *State) MempoolContains(txHash hash.Hash) bool {
	return s.mempool.Contains(txHash)
}
