// Package database maintains the blockchain in memory, the UTXO set
// derived from it, and the append only chain log on disk.
package database

import (
	"errors"
	"sync"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/wire"
)

// EventHandler defines a function that is called when events occur in the
// processing of blocks.
type EventHandler func(v string, args ...any)

// Storage interface represents the behavior required to be implemented by
// any package providing support for persisting the chain log.
type Storage interface {
	Append(data []byte) error
	ReadAll() ([]byte, error)
	Close() error
}

// =============================================================================

// Database manages the height ordered chain, the block lookup maps, and
// the UTXO set. One mutex guards all of it; AddBlock holds the lock across
// validation, UTXO apply, and the disk write.
type Database struct {
	mu sync.Mutex

	chain      []*BlockIndex
	blockIndex map[hash.Hash]*BlockIndex
	blocks     map[hash.Hash]Block
	utxos      map[OutPoint]TxOut

	storage   Storage
	evHandler EventHandler
}

// New constructs a database backed by the specified storage.
func New(storage Storage, evHandler EventHandler) *Database {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Database{
		blockIndex: make(map[hash.Hash]*BlockIndex),
		blocks:     make(map[hash.Hash]Block),
		utxos:      make(map[OutPoint]TxOut),
		storage:    storage,
		evHandler:  ev,
	}
}

// Close releases the underlying storage.
func (db *Database) Close() error {
	return db.storage.Close()
}

// =============================================================================

// AddBlock validates the block against the current tip and, if it passes,
// appends it to the chain, applies its transactions to the UTXO set, and
// persists it. A duplicate or invalid block returns false; duplicates are
// not an error.
func (db *Database) AddBlock(block Block) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	blockHash := block.Hash()
	if _, exists := db.blockIndex[blockHash]; exists {
		return false
	}

	if err := block.ValidateBlock(db.tipHash(), len(db.chain) == 0); err != nil {
		db.evHandler("database: AddBlock: block REJECTED: %s", err)
		return false
	}

	db.install(block, blockHash)

	db.evHandler("database: AddBlock: accepted block[%d] hash[%s]", len(db.chain)-1, blockHash)

	if err := db.saveBlock(block); err != nil {
		db.evHandler("database: AddBlock: WARNING: save block: %s", err)
	}

	return true
}

// install appends the block to the in memory chain and folds its
// transactions into the UTXO set. Callers must hold the lock.
func (db *Database) install(block Block, blockHash hash.Hash) {
	index := newBlockIndex(block, len(db.chain))
	db.chain = append(db.chain, index)
	db.blockIndex[blockHash] = index
	db.blocks[blockHash] = block

	applyBlock(db.utxos, block)
}

// tipHash returns the hash of the latest block, or the zero hash when the
// chain is empty. Callers must hold the lock.
func (db *Database) tipHash() hash.Hash {
	if len(db.chain) == 0 {
		return hash.Zero
	}
	return db.chain[len(db.chain)-1].Hash
}

// =============================================================================

// Height returns the zero based height of the chain tip, -1 when empty.
func (db *Database) Height() int {
	db.mu.Lock()
	defer db.mu.Unlock()

	return len(db.chain) - 1
}

// BestHash returns the hash of the chain tip, the zero hash when empty.
func (db *Database) BestHash() hash.Hash {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.tipHash()
}

// GetBlock returns the block with the specified hash.
func (db *Database) GetBlock(blockHash hash.Hash) (Block, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	block, exists := db.blocks[blockHash]
	return block, exists
}

// GetBlockByHeight returns the block at the specified height.
func (db *Database) GetBlockByHeight(height int) (Block, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if height < 0 || height >= len(db.chain) {
		return Block{}, false
	}

	block, exists := db.blocks[db.chain[height].Hash]
	return block, exists
}

// GetIndex returns the index entry for the specified block hash.
func (db *Database) GetIndex(blockHash hash.Hash) (BlockIndex, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	index, exists := db.blockIndex[blockHash]
	if !exists {
		return BlockIndex{}, false
	}
	return *index, true
}

// GetTransaction walks the chain from the tip down and returns the first
// transaction matching the specified hash along with its containing block.
func (db *Database) GetTransaction(txHash hash.Hash) (Tx, hash.Hash, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := len(db.chain) - 1; i >= 0; i-- {
		block, exists := db.blocks[db.chain[i].Hash]
		if !exists {
			continue
		}
		for _, tx := range block.Txs {
			if tx.Hash() == txHash {
				return tx, db.chain[i].Hash, true
			}
		}
	}

	return Tx{}, hash.Hash{}, false
}

// Balance sums the unspent outputs whose scriptPubKey matches the address
// bytes verbatim. Linear over the UTXO set.
func (db *Database) Balance(address string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()

	var balance int64
	for _, out := range db.utxos {
		if out.Address() == address {
			balance += out.Value
		}
	}
	return balance
}

// UTXOsByAddress returns the unspent outputs held by the address.
func (db *Database) UTXOsByAddress(address string) []UTXO {
	db.mu.Lock()
	defer db.mu.Unlock()

	var results []UTXO
	for op, out := range db.utxos {
		if out.Address() == address {
			results = append(results, UTXO{OutPoint: op, Out: out})
		}
	}
	return results
}

// CopyUTXOSet returns a copy of the full UTXO map.
func (db *Database) CopyUTXOSet() map[OutPoint]TxOut {
	db.mu.Lock()
	defer db.mu.Unlock()

	utxos := make(map[OutPoint]TxOut, len(db.utxos))
	for op, out := range db.utxos {
		utxos[op] = out
	}
	return utxos
}

// =============================================================================

// LoadChain reads the chain log and installs every block it can decode.
// The log is trusted, so blocks are not re-validated. Decoding stops
// cleanly at the first underflow; a partial tail is dropped with a
// warning. LoadChain is called once at startup before any other
// goroutine touches the chain.
func (db *Database) LoadChain() error {
	data, err := db.storage.ReadAll()
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	d := wire.NewDecoder(data)
	var count int

	for d.Remaining() > 0 {
		block, err := DecodeBlock(d)
		if err != nil {
			if errors.Is(err, wire.ErrUnderflow) {
				db.evHandler("database: LoadChain: WARNING: corrupt chain data, loaded %d blocks", count)
				break
			}
			return err
		}

		blockHash := block.Hash()
		if len(db.chain) > 0 && blockHash == db.chain[0].Hash {
			continue
		}

		db.install(block, blockHash)
		count++
	}

	db.evHandler("database: LoadChain: loaded %d blocks from disk", count)
	return nil
}

// saveBlock appends the serialized block to the chain log. Callers must
// hold the lock.
func (db *Database) saveBlock(block Block) error {
	e := wire.NewEncoder()
	block.Encode(e)
	return db.storage.Append(e.Bytes())
}
