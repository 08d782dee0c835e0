package state

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/wire"
)

// ErrInsufficientBalance is returned when a transfer cannot be funded
// from the sender's unspent outputs.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrRejected is returned when the mempool refuses a transaction.
var ErrRejected = errors.New("transaction rejected (invalid or exists)")

// =============================================================================

// SubmitTransaction offers a transaction for mempool admission.
func (s *State) SubmitTransaction(tx database.Tx) bool {
	if !s.mempool.Add(tx) {
		return false
	}

	s.evHandler("state: SubmitTransaction: tx[%s] pending[%d]", tx.Hash(), s.mempool.Count())
	return true
}

// Mint builds a protocol issuance transaction paying the amount to the
// address and admits it to the mempool.
func (s *State) Mint(address string, amount int64) (hash.Hash, error) {
	tx := database.Tx{
		Version: 1,
		TxIn: []database.TxIn{
			{
				PrevOutHash: hash.Zero,
				ScriptSig:   database.MintScriptSig(),
				Sequence:    database.DefaultSequence,
			},
		},
		TxOut: []database.TxOut{
			{
				Value:        amount,
				ScriptPubKey: []byte(address),
			},
		},
	}

	if !s.SubmitTransaction(tx) {
		return hash.Hash{}, ErrRejected
	}

	return tx.Hash(), nil
}

// Transfer funds a payment from the sender's unspent outputs, greedily
// selecting until the amount is covered and returning change to the
// sender. There is no real signing on this chain; the scriptSig carries
// the sender address bytes.
func (s *State) Transfer(from string, to string, amount int64) (hash.Hash, error) {
	utxos := s.db.UTXOsByAddress(from)

	var total int64
	var selected []database.UTXO
	for _, utxo := range utxos {
		total += utxo.Out.Value
		selected = append(selected, utxo)
		if total >= amount {
			break
		}
	}

	if total < amount {
		return hash.Hash{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, total, amount)
	}

	tx := database.Tx{Version: 1}
	for _, utxo := range selected {
		tx.TxIn = append(tx.TxIn, database.TxIn{
			PrevOutHash: utxo.OutPoint.Hash,
			PrevOutN:    utxo.OutPoint.Index,
			ScriptSig:   []byte(from),
			Sequence:    database.DefaultSequence,
		})
	}

	tx.TxOut = append(tx.TxOut, database.TxOut{Value: amount, ScriptPubKey: []byte(to)})
	if total > amount {
		tx.TxOut = append(tx.TxOut, database.TxOut{Value: total - amount, ScriptPubKey: []byte(from)})
	}

	if !s.SubmitTransaction(tx) {
		return hash.Hash{}, ErrRejected
	}

	return tx.Hash(), nil
}

// SubmitRawTransaction decodes a hex encoded transaction and offers it
// for mempool admission.
func (s *State) SubmitRawTransaction(txHex string) (hash.Hash, error) {
	data, err := hex.DecodeString(txHex)
	if err != nil {
		return hash.Hash{}, fmt.Errorf("decode tx hex: %w", err)
	}

	tx, err := database.DecodeTx(wire.NewDecoder(data))
	if err != nil {
		return hash.Hash{}, err
	}

	if !s.SubmitTransaction(tx) {
		return hash.Hash{}, ErrRejected
	}

	return tx.Hash(), nil
}
