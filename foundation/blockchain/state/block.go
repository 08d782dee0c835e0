package state

import (
	"time"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/genesis"
)

// SubmitBlock offers a block for chain extension. On acceptance the
// block's transactions leave the mempool and the miner is handed a new
// template anchored on the new tip. Returns false for duplicates and
// validation failures.
func (s *State) SubmitBlock(block database.Block) bool {
	if !s.db.AddBlock(block) {
		return false
	}

	s.evHandler("state: SubmitBlock: height[%d] best[%s]", s.db.Height(), s.db.BestHash())

	// Confirmed transactions must not be mined twice.
	s.mempool.Remove(block.Txs)

	s.miner.UpdateWork(s.nextTemplate())

	return true
}

// nextTemplate builds the candidate block for the miner: anchored on the
// current tip, carrying the protocol coinbase, timestamped once here. The
// miner appends mempool transactions and recomputes the merkle root on
// each work refresh.
func (s *State) nextTemplate() database.Block {
	coinbase := genesis.Coinbase(s.reserveAddress, genesis.BlockReward)

	return database.Block{
		Header: database.BlockHeader{
			Version:    genesis.Version,
			PrevBlock:  s.db.BestHash(),
			MerkleRoot: coinbase.Hash(),
			Timestamp:  uint32(time.Now().Unix()),
			Bits:       genesis.Bits,
			Nonce:      0,
		},
		Txs: []database.Tx{coinbase},
	}
}
