package database_test

import (
	"path/filepath"
	"testing"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database/storage"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/genesis"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/wire"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

// memStorage keeps the chain log in memory for tests that don't need a
// disk file.
type memStorage struct {
	data []byte
}

func (ms *memStorage) Append(data []byte) error {
	ms.data = append(ms.data, data...)
	return nil
}

func (ms *memStorage) ReadAll() ([]byte, error) {
	return ms.data, nil
}

func (ms *memStorage) Close() error {
	return nil
}

// mineBlock searches nonces until the header hash has two leading zero
// bytes. Expected work is around 2^16 hashes.
func mineBlock(t *testing.T, prev hash.Hash, txs []database.Tx) database.Block {
	t.Helper()

	block := database.Block{
		Header: database.BlockHeader{
			Version:    genesis.Version,
			PrevBlock:  prev,
			MerkleRoot: database.MerkleRoot(txs),
			Timestamp:  genesis.Timestamp + 1,
			Bits:       genesis.Bits,
		},
		Txs: txs,
	}

	for !database.IsHashSolved(block.Hash()) {
		block.Header.Nonce++
	}

	return block
}

// =============================================================================

func TestGenesisAcceptance(t *testing.T) {
	t.Log("Given the need to install a genesis block on an empty chain.")
	{
		t.Logf("\tTest 0:\tWhen adding the genesis block.")
		{
			db := database.New(&memStorage{}, nil)
			gen := genesis.Block()

			if !db.AddBlock(gen) {
				t.Fatalf("\t%s\tTest 0:\tShould accept the genesis block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the genesis block.", success)

			if db.Height() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould be at height 0, got %d.", failed, db.Height())
			}
			t.Logf("\t%s\tTest 0:\tShould be at height 0.", success)

			if db.BestHash() != gen.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould report the genesis hash as best.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the genesis hash as best.", success)

			utxos := db.CopyUTXOSet()
			if len(utxos) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould hold exactly one UTXO, got %d.", failed, len(utxos))
			}

			op := database.OutPoint{Hash: gen.Txs[0].Hash(), Index: 0}
			out, exists := utxos[op]
			if !exists || out.Value != genesis.BlockReward {
				t.Fatalf("\t%s\tTest 0:\tShould hold the coinbase output.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hold the coinbase output.", success)
		}
	}
}

func TestLinkageRejection(t *testing.T) {
	t.Log("Given the need to reject a block that does not extend the tip.")
	{
		t.Logf("\tTest 0:\tWhen submitting a block with a foreign prev_block.")
		{
			db := database.New(&memStorage{}, nil)
			if !db.AddBlock(genesis.Block()) {
				t.Fatalf("\t%s\tTest 0:\tShould accept the genesis block.", failed)
			}

			var wrong hash.Hash
			for i := range wrong {
				wrong[i] = 0xFF
			}

			coinbase := genesis.Coinbase(genesis.ReserveAddress, genesis.BlockReward)
			block := mineBlock(t, wrong, []database.Tx{coinbase})

			if db.AddBlock(block) {
				t.Fatalf("\t%s\tTest 0:\tShould reject the block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the block.", success)

			if db.Height() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould keep the height unchanged.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the height unchanged.", success)

			if len(db.CopyUTXOSet()) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould keep the UTXO set unchanged.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the UTXO set unchanged.", success)
		}
	}
}

func TestPOWRejection(t *testing.T) {
	t.Log("Given the need to enforce proof of work after genesis.")
	{
		t.Logf("\tTest 0:\tWhen submitting an unsolved block.")
		{
			db := database.New(&memStorage{}, nil)
			gen := genesis.Block()
			if !db.AddBlock(gen) {
				t.Fatalf("\t%s\tTest 0:\tShould accept the genesis block.", failed)
			}

			coinbase := genesis.Coinbase(genesis.ReserveAddress, genesis.BlockReward)
			block := database.Block{
				Header: database.BlockHeader{
					Version:    genesis.Version,
					PrevBlock:  gen.Hash(),
					MerkleRoot: database.MerkleRoot([]database.Tx{coinbase}),
					Timestamp:  genesis.Timestamp + 1,
					Bits:       genesis.Bits,
				},
				Txs: []database.Tx{coinbase},
			}

			// Walk the nonce until the hash does NOT satisfy the target.
			for database.IsHashSolved(block.Hash()) {
				block.Header.Nonce++
			}

			if db.AddBlock(block) {
				t.Fatalf("\t%s\tTest 0:\tShould reject the unsolved block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the unsolved block.", success)
		}
	}
}

func TestDuplicateIdempotence(t *testing.T) {
	t.Log("Given the need for AddBlock to be idempotent on duplicates.")
	{
		t.Logf("\tTest 0:\tWhen adding the same block twice.")
		{
			db := database.New(&memStorage{}, nil)
			gen := genesis.Block()

			if !db.AddBlock(gen) {
				t.Fatalf("\t%s\tTest 0:\tShould accept the first add.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the first add.", success)

			if db.AddBlock(gen) {
				t.Fatalf("\t%s\tTest 0:\tShould return false on the duplicate.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould return false on the duplicate.", success)

			if db.Height() != 0 || len(db.CopyUTXOSet()) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the state unchanged.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the state unchanged.", success)
		}
	}
}

func TestChainQueries(t *testing.T) {
	t.Log("Given the need to query blocks, transactions and balances.")
	{
		t.Logf("\tTest 0:\tWhen extending the chain with a mint.")
		{
			db := database.New(&memStorage{}, nil)
			gen := genesis.Block()
			db.AddBlock(gen)

			coinbase := genesis.Coinbase(genesis.ReserveAddress, genesis.BlockReward)
			mint := database.Tx{
				Version: 1,
				TxIn: []database.TxIn{
					{PrevOutHash: hash.Zero, ScriptSig: database.MintScriptSig(), Sequence: database.DefaultSequence},
				},
				TxOut: []database.TxOut{
					{Value: 1000, ScriptPubKey: []byte("AURtestaddress")},
				},
			}

			block := mineBlock(t, gen.Hash(), []database.Tx{coinbase, mint})
			if !db.AddBlock(block) {
				t.Fatalf("\t%s\tTest 0:\tShould accept the mined block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the mined block.", success)

			if got, exists := db.GetBlockByHeight(1); !exists || got.Hash() != block.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould find the block by height.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find the block by height.", success)

			if index, exists := db.GetIndex(block.Hash()); !exists || index.Height != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould find the block index.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find the block index.", success)

			tx, blockHash, found := db.GetTransaction(mint.Hash())
			if !found || blockHash != block.Hash() || tx.Hash() != mint.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould find the mint transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find the mint transaction.", success)

			if balance := db.Balance("AURtestaddress"); balance != 1000 {
				t.Fatalf("\t%s\tTest 0:\tShould report the minted balance, got %d.", failed, balance)
			}
			t.Logf("\t%s\tTest 0:\tShould report the minted balance.", success)

			if utxos := db.UTXOsByAddress("AURtestaddress"); len(utxos) != 1 || utxos[0].Out.Value != 1000 {
				t.Fatalf("\t%s\tTest 0:\tShould report the minted UTXO.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the minted UTXO.", success)
		}
	}
}

func TestSpendAcrossBlock(t *testing.T) {
	t.Log("Given the need to spend previous outputs inside a new block.")
	{
		t.Logf("\tTest 0:\tWhen a transfer consumes a minted output.")
		{
			db := database.New(&memStorage{}, nil)
			gen := genesis.Block()
			db.AddBlock(gen)

			mint := database.Tx{
				Version: 1,
				TxIn: []database.TxIn{
					{PrevOutHash: hash.Zero, ScriptSig: database.MintScriptSig(), Sequence: database.DefaultSequence},
				},
				TxOut: []database.TxOut{
					{Value: 1000, ScriptPubKey: []byte("alice")},
				},
			}
			b1 := mineBlock(t, gen.Hash(), []database.Tx{mint})
			if !db.AddBlock(b1) {
				t.Fatalf("\t%s\tTest 0:\tShould accept the mint block.", failed)
			}

			transfer := database.Tx{
				Version: 1,
				TxIn: []database.TxIn{
					{PrevOutHash: mint.Hash(), PrevOutN: 0, ScriptSig: []byte("alice"), Sequence: database.DefaultSequence},
				},
				TxOut: []database.TxOut{
					{Value: 400, ScriptPubKey: []byte("bob")},
					{Value: 600, ScriptPubKey: []byte("alice")},
				},
			}
			b2 := mineBlock(t, b1.Hash(), []database.Tx{transfer})
			if !db.AddBlock(b2) {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transfer block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the transfer block.", success)

			if balance := db.Balance("alice"); balance != 600 {
				t.Fatalf("\t%s\tTest 0:\tShould leave alice the change, got %d.", failed, balance)
			}
			t.Logf("\t%s\tTest 0:\tShould leave alice the change.", success)

			if balance := db.Balance("bob"); balance != 400 {
				t.Fatalf("\t%s\tTest 0:\tShould pay bob, got %d.", failed, balance)
			}
			t.Logf("\t%s\tTest 0:\tShould pay bob.", success)

			if _, exists := db.CopyUTXOSet()[database.OutPoint{Hash: mint.Hash(), Index: 0}]; exists {
				t.Fatalf("\t%s\tTest 0:\tShould remove the spent output.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould remove the spent output.", success)
		}
	}
}

func TestDiskRoundTrip(t *testing.T) {
	t.Log("Given the need to recover the chain from the log on restart.")
	{
		t.Logf("\tTest 0:\tWhen reloading a two block chain.")
		{
			path := filepath.Join(t.TempDir(), "blockchain.dat")

			db := database.New(storage.NewDisk(path), nil)
			gen := genesis.Block()
			db.AddBlock(gen)

			coinbase := genesis.Coinbase(genesis.ReserveAddress, genesis.BlockReward)
			b1 := mineBlock(t, gen.Hash(), []database.Tx{coinbase})
			if !db.AddBlock(b1) {
				t.Fatalf("\t%s\tTest 0:\tShould accept block 1.", failed)
			}
			db.Close()

			db2 := database.New(storage.NewDisk(path), nil)
			if err := db2.LoadChain(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould load the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould load the chain.", success)

			if db2.Height() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould recover height 1, got %d.", failed, db2.Height())
			}
			t.Logf("\t%s\tTest 0:\tShould recover height 1.", success)

			if db2.BestHash() != b1.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould recover the best hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould recover the best hash.", success)

			// The genesis and block 1 coinbases are the same transaction,
			// so the second replaces the first in the UTXO set.
			if balance := db2.Balance(genesis.ReserveAddress); balance != db.Balance(genesis.ReserveAddress) {
				t.Fatalf("\t%s\tTest 0:\tShould recover the reserve balance.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould recover the reserve balance.", success)
		}

		t.Logf("\tTest 1:\tWhen the log carries a truncated tail.")
		{
			path := filepath.Join(t.TempDir(), "blockchain.dat")

			disk := storage.NewDisk(path)
			db := database.New(disk, nil)
			gen := genesis.Block()
			db.AddBlock(gen)

			// A partial block at the end of the log must be dropped.
			if err := disk.Append([]byte{0x01, 0x02, 0x03}); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould append the partial tail: %v", failed, err)
			}

			db2 := database.New(storage.NewDisk(path), nil)
			if err := db2.LoadChain(); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould load despite the tail: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould load despite the tail.", success)

			if db2.Height() != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould recover only the full block, got height %d.", failed, db2.Height())
			}
			t.Logf("\t%s\tTest 1:\tShould recover only the full block.", success)
		}
	}
}

func TestSerializeIdentity(t *testing.T) {
	t.Log("Given the need for serialize/deserialize to be the identity.")
	{
		t.Logf("\tTest 0:\tWhen round tripping a block.")
		{
			gen := genesis.Block()

			e := wire.NewEncoder()
			gen.Encode(e)

			back, err := database.DecodeBlock(wire.NewDecoder(e.Bytes()))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould decode the block: %v", failed, err)
			}

			if back.Hash() != gen.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould preserve the header hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould preserve the header hash.", success)

			if len(back.Txs) != len(gen.Txs) || back.Txs[0].Hash() != gen.Txs[0].Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould preserve the transactions.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould preserve the transactions.", success)

			e2 := wire.NewEncoder()
			back.Encode(e2)
			if string(e2.Bytes()) != string(e.Bytes()) {
				t.Fatalf("\t%s\tTest 0:\tShould re-encode to the same bytes.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould re-encode to the same bytes.", success)
		}

		t.Logf("\tTest 1:\tWhen checking the header size.")
		{
			e := wire.NewEncoder()
			genesis.Block().Header.Encode(e)

			if len(e.Bytes()) != 80 {
				t.Fatalf("\t%s\tTest 1:\tShould serialize to 80 bytes, got %d.", failed, len(e.Bytes()))
			}
			t.Logf("\t%s\tTest 1:\tShould serialize to 80 bytes.", success)
		}
	}
}

func TestMerkleRoot(t *testing.T) {
	t.Log("Given the need for the flat merkle construction.")
	{
		t.Logf("\tTest 0:\tWhen committing to a single transaction.")
		{
			coinbase := genesis.Coinbase(genesis.ReserveAddress, genesis.BlockReward)

			if database.MerkleRoot([]database.Tx{coinbase}) != coinbase.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould equal the sole tx hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould equal the sole tx hash.", success)
		}

		t.Logf("\tTest 1:\tWhen committing to several transactions.")
		{
			coinbase := genesis.Coinbase(genesis.ReserveAddress, genesis.BlockReward)
			mint := database.Tx{
				Version: 1,
				TxIn:    []database.TxIn{{ScriptSig: database.MintScriptSig(), Sequence: database.DefaultSequence}},
				TxOut:   []database.TxOut{{Value: 5, ScriptPubKey: []byte("x")}},
			}
			txs := []database.Tx{coinbase, mint}

			// Hash256 over the concatenation of the tx hashes, in order.
			e := wire.NewEncoder()
			e.WriteHash(coinbase.Hash())
			e.WriteHash(mint.Hash())
			exp := hash.Sum256(e.Bytes())

			if database.MerkleRoot(txs) != exp {
				t.Fatalf("\t%s\tTest 1:\tShould hash the concatenated tx hashes.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould hash the concatenated tx hashes.", success)
		}
	}
}
