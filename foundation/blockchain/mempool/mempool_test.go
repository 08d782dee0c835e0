package mempool_test

import (
	"testing"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// mintTx builds an issuance transaction with the specified scriptSig.
func mintTx(sig []byte, value int64) database.Tx {
	return database.Tx{
		Version: 1,
		TxIn: []database.TxIn{
			{PrevOutHash: hash.Zero, ScriptSig: sig, Sequence: database.DefaultSequence},
		},
		TxOut: []database.TxOut{
			{Value: value, ScriptPubKey: []byte("AURmintaddr")},
		},
	}
}

func TestMintAdmission(t *testing.T) {
	t.Log("Given the need to admit protocol mints and reject fake coinbases.")
	{
		t.Logf("\tTest 0:\tWhen submitting a MINT transaction.")
		{
			mp := mempool.New()
			tx := mintTx([]byte("MINT"), 1000)

			if !mp.Add(tx) {
				t.Fatalf("\t%s\tTest 0:\tShould admit the mint.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould admit the mint.", success)

			if !mp.Contains(tx.Hash()) {
				t.Fatalf("\t%s\tTest 0:\tShould report the mint as pending.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the mint as pending.", success)
		}

		t.Logf("\tTest 1:\tWhen submitting a FAKE coinbase.")
		{
			mp := mempool.New()

			if mp.Add(mintTx([]byte("FAKE"), 1000)) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the fake coinbase.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the fake coinbase.", success)
		}
	}
}

func TestStructuralRejection(t *testing.T) {
	t.Log("Given the need to reject malformed transactions.")
	{
		t.Logf("\tTest 0:\tWhen a transaction has no outputs.")
		{
			mp := mempool.New()
			tx := mintTx([]byte("MINT"), 1000)
			tx.TxOut = nil

			if mp.Add(tx) {
				t.Fatalf("\t%s\tTest 0:\tShould reject empty outputs.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject empty outputs.", success)
		}

		t.Logf("\tTest 1:\tWhen an output value is not positive.")
		{
			mp := mempool.New()

			if mp.Add(mintTx([]byte("MINT"), 0)) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a zero value.", failed)
			}
			if mp.Add(mintTx([]byte("MINT"), -5)) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a negative value.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject non positive values.", success)
		}

		t.Logf("\tTest 2:\tWhen the same transaction is submitted twice.")
		{
			mp := mempool.New()
			tx := mintTx([]byte("MINT"), 1000)

			if !mp.Add(tx) {
				t.Fatalf("\t%s\tTest 2:\tShould admit the first copy.", failed)
			}
			if mp.Add(tx) {
				t.Fatalf("\t%s\tTest 2:\tShould reject the duplicate.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject the duplicate.", success)

			if mp.Count() != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould hold one transaction, got %d.", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 2:\tShould hold one transaction.", success)
		}
	}
}

func TestRemoveConfirmed(t *testing.T) {
	t.Log("Given the need to drop transactions confirmed by a block.")
	{
		t.Logf("\tTest 0:\tWhen removing a block's transactions.")
		{
			mp := mempool.New()
			tx1 := mintTx([]byte("MINT"), 1000)
			tx2 := mintTx([]byte("MINT"), 2000)

			mp.Add(tx1)
			mp.Add(tx2)

			mp.Remove([]database.Tx{tx1})

			if mp.Contains(tx1.Hash()) {
				t.Fatalf("\t%s\tTest 0:\tShould drop the confirmed transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould drop the confirmed transaction.", success)

			if !mp.Contains(tx2.Hash()) {
				t.Fatalf("\t%s\tTest 0:\tShould keep the pending transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the pending transaction.", success)

			// Removing unknown transactions is a no-op.
			mp.Remove([]database.Tx{tx1})
			if mp.Count() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould ignore unknown removals.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould ignore unknown removals.", success)
		}
	}
}
