// Package mempool maintains the set of pending transactions waiting to be
// mined into a block.
package mempool

import (
	"sync"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
)

// Mempool represents a cache of pending transactions keyed by hash.
type Mempool struct {
	pool map[hash.Hash]database.Tx
	mu   sync.Mutex
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[hash.Hash]database.Tx),
	}
}

// Add admits a transaction into the pool. It returns false for a
// duplicate or a transaction failing the admission rules; the reason is
// not structured.
func (mp *Mempool) Add(tx database.Tx) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txHash := tx.Hash()
	if _, exists := mp.pool[txHash]; exists {
		return false
	}

	if !validateTransaction(tx) {
		return false
	}

	mp.pool[txHash] = tx
	return true
}

// Contains reports whether the pool holds the specified transaction.
func (mp *Mempool) Contains(txHash hash.Hash) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	_, exists := mp.pool[txHash]
	return exists
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	return len(mp.pool)
}

// Copy returns a snapshot of the pending transactions.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txs := make([]database.Tx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		txs = append(txs, tx)
	}
	return txs
}

// Remove deletes the specified transactions from the pool. Best effort;
// called by the chain when a block is accepted.
func (mp *Mempool) Remove(txs []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, tx := range txs {
		delete(mp.pool, tx.Hash())
	}
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[hash.Hash]database.Tx)
}

// =============================================================================

// validateTransaction applies the admission rules: outputs must exist and
// carry positive values, and a bare coinbase may not enter the pool
// unless it is a protocol mint.
func validateTransaction(tx database.Tx) bool {
	if len(tx.TxOut) == 0 {
		return false
	}

	for _, out := range tx.TxOut {
		if out.Value <= 0 {
			return false
		}
	}

	if !tx.IsMint() && len(tx.TxIn) == 1 && tx.TxIn[0].PrevOutHash.IsZero() {
		return false
	}

	return true
}
