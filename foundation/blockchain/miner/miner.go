// Package miner implements the proof of work search. A set of workers
// shares a replaceable work template; a version counter tells workers the
// template changed under them.
package miner

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/mempool"
	"golang.org/x/sync/errgroup"
)

// Tuning constants for the worker loop.
const (
	// refreshInterval is how many nonce steps a worker takes before
	// re-snapshotting the template to pick up new mempool transactions.
	refreshInterval = 100_000

	// nonceStagger spreads workers across the nonce space when new work
	// arrives.
	nonceStagger = 100_000_000

	// maxBlockTxs caps how many mempool transactions join a candidate.
	maxBlockTxs = 100

	// publishCadence rate limits block publication after a find.
	publishCadence = 15 * time.Second

	// cadencePoll is how often the cadence sleep checks the stop flag.
	cadencePoll = 200 * time.Millisecond
)

// EventHandler defines a function that is called when events occur in the
// mining workflow.
type EventHandler func(v string, args ...any)

// BlockFoundHandler is called with each solved block. The miner never
// holds the work mutex while the handler executes.
type BlockFoundHandler func(block database.Block)

// =============================================================================

// Miner manages the POW workers searching over the current template.
type Miner struct {
	mempool      *mempool.Mempool
	onBlockFound BlockFoundHandler
	evHandler    EventHandler

	workMu      sync.Mutex
	template    database.Block
	workVersion atomic.Int64

	running atomic.Bool
	g       errgroup.Group
}

// New constructs a miner over the specified template. The block found
// handler is invoked for every solved block.
func New(template database.Block, mp *mempool.Mempool, onBlockFound BlockFoundHandler, evHandler EventHandler) *Miner {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	m := Miner{
		mempool:      mp,
		onBlockFound: onBlockFound,
		evHandler:    ev,
		template:     template,
	}

	return &m
}

// Start launches the specified number of workers.
func (m *Miner) Start(workers int) {
	if !m.running.CompareAndSwap(false, true) {
		return
	}

	for i := 0; i < workers; i++ {
		threadID := i
		m.g.Go(func() error {
			m.mineWorker(threadID)
			return nil
		})
	}
}

// Stop signals the workers to exit and waits for them.
func (m *Miner) Stop() {
	if !m.running.CompareAndSwap(true, false) {
		return
	}
	m.g.Wait()
}

// UpdateWork replaces the template and bumps the work version so workers
// abandon the old block on their next refresh check.
func (m *Miner) UpdateWork(template database.Block) {
	m.workMu.Lock()
	defer m.workMu.Unlock()

	m.template = template
	m.workVersion.Add(1)
}

// =============================================================================

// mineWorker is the search loop run by each worker.
func (m *Miner) mineWorker(threadID int) {
	m.evHandler("miner: worker %d: started", threadID)
	defer m.evHandler("miner: worker %d: stopped", threadID)

	var work database.Block
	myVersion := int64(-1)
	nonceCounter := 0

	for m.running.Load() {

		// Refresh the snapshot when the template changed or enough nonces
		// have been stepped to warrant picking up new mempool transactions.
		if version := m.workVersion.Load(); myVersion != version || nonceCounter >= refreshInterval {
			nonce := work.Header.Nonce
			work = m.snapshotWork()
			nonceCounter = 0

			// Stagger the nonce space across workers on new work only; a
			// periodic refresh carries on from the current nonce.
			if myVersion != version {
				work.Header.Nonce = uint32(threadID) * nonceStagger
			} else {
				work.Header.Nonce = nonce
			}
			myVersion = version
		}

		if blockHash := work.Header.Hash(); database.IsHashSolved(blockHash) {
			m.evHandler("miner: worker %d: block found: hash[%s] nonce[%d]", threadID, blockHash, work.Header.Nonce)

			if m.onBlockFound != nil {
				m.onBlockFound(work)
			}

			// Publication cadence. Poll the stop flag so shutdown is not
			// held up by the sleep.
			deadline := time.Now().Add(publishCadence)
			for m.running.Load() && time.Now().Before(deadline) {
				time.Sleep(cadencePoll)
			}

			myVersion = -1
			continue
		}

		work.Header.Nonce++
		nonceCounter++

		if nonceCounter%1000 == 0 {
			if !m.running.Load() {
				break
			}
			runtime.Gosched()
		}
	}
}

// snapshotWork copies the current template and fills it with pending
// transactions from the mempool, recomputing the merkle root.
func (m *Miner) snapshotWork() database.Block {
	m.workMu.Lock()
	work := m.template
	work.Txs = make([]database.Tx, len(m.template.Txs))
	copy(work.Txs, m.template.Txs)
	m.workMu.Unlock()

	pending := m.mempool.Copy()
	for i := 0; i < len(pending) && i < maxBlockTxs; i++ {
		work.Txs = append(work.Txs, pending[i])
	}

	work.Header.MerkleRoot = database.MerkleRoot(work.Txs)

	return work
}
