// Package state is the core API for the ledger engine. It owns the chain
// database, the mempool, and the miner wiring, and implements the business
// rules that tie them together.
package state

import (
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database/storage"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/genesis"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/mempool"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/miner"
)

// EventHandler defines a function that is called when events occur in the
// processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the ledger engine.
type Config struct {
	ReserveAddress string
	DBPath         string
	MinerWorkers   int
	EvHandler      EventHandler
}

// State manages the blockchain database, the mempool, and the miner.
type State struct {
	reserveAddress string
	minerWorkers   int
	evHandler      EventHandler

	db      *database.Database
	mempool *mempool.Mempool
	miner   *miner.Miner
}

// New constructs the ledger engine: it recovers the chain from disk,
// installs the genesis block on an empty chain, and prepares a miner
// anchored on the tip. Mining does not start until StartMining is called.
func New(cfg Config) (*State, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db := database.New(storage.NewDisk(cfg.DBPath), database.EventHandler(ev))

	// Recover the chain first; only an empty chain gets the genesis block.
	if err := db.LoadChain(); err != nil {
		return nil, err
	}
	if db.Height() == -1 {
		db.AddBlock(genesis.Block())
	}

	s := State{
		reserveAddress: cfg.ReserveAddress,
		minerWorkers:   cfg.MinerWorkers,
		evHandler:      ev,
		db:             db,
		mempool:        mempool.New(),
	}

	s.miner = miner.New(s.nextTemplate(), s.mempool, s.acceptMinedBlock, miner.EventHandler(ev))

	return &s, nil
}

// StartMining launches the configured number of POW workers.
func (s *State) StartMining() {
	s.miner.Start(s.minerWorkers)
}

// Shutdown cleanly brings the engine down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	s.miner.Stop()
	return s.db.Close()
}

// =============================================================================

// acceptMinedBlock is the block found callback handed to the miner. It
// runs without the work mutex held, so submitting the block and replacing
// the template cannot deadlock against a concurrent UpdateWork.
func (s *State) acceptMinedBlock(block database.Block) {
	s.evHandler("state: acceptMinedBlock: mined block[%s]", block.Hash())

	if !s.SubmitBlock(block) {
		s.evHandler("state: acceptMinedBlock: WARNING: mined block rejected")
	}
}
