package database

import (
	"bytes"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/wire"
)

// mintScriptSig marks a protocol issuance input. A single-input transaction
// with a zero previous output is only accepted into the mempool when its
// scriptSig is exactly these 4 bytes.
var mintScriptSig = []byte("MINT")

// DefaultSequence is the sequence value for inputs that never vary it.
const DefaultSequence uint32 = 0xFFFFFFFF

// =============================================================================

// TxIn represents a spend of a previous transaction output. A zero
// previous output hash denotes issuance and spends nothing.
type TxIn struct {
	PrevOutHash hash.Hash
	PrevOutN    uint32
	ScriptSig   []byte
	Sequence    uint32
}

// Encode writes the input in wire order.
func (in TxIn) Encode(e *wire.Encoder) {
	e.WriteHash(in.PrevOutHash)
	e.WriteUint32(in.PrevOutN)
	e.WriteBytes(in.ScriptSig)
	e.WriteUint32(in.Sequence)
}

// DecodeTxIn reads an input in wire order.
func DecodeTxIn(d *wire.Decoder) (TxIn, error) {
	var in TxIn
	var err error

	if in.PrevOutHash, err = d.ReadHash(); err != nil {
		return TxIn{}, err
	}
	if in.PrevOutN, err = d.ReadUint32(); err != nil {
		return TxIn{}, err
	}
	if in.ScriptSig, err = d.ReadBytes(); err != nil {
		return TxIn{}, err
	}
	if in.Sequence, err = d.ReadUint32(); err != nil {
		return TxIn{}, err
	}

	return in, nil
}

// =============================================================================

// TxOut represents value sent to an address. The scriptPubKey carries the
// destination address as raw bytes since this chain runs no scripts.
type TxOut struct {
	Value        int64
	ScriptPubKey []byte
}

// Encode writes the output in wire order.
func (out TxOut) Encode(e *wire.Encoder) {
	e.WriteInt64(out.Value)
	e.WriteBytes(out.ScriptPubKey)
}

// DecodeTxOut reads an output in wire order.
func DecodeTxOut(d *wire.Decoder) (TxOut, error) {
	var out TxOut
	var err error

	if out.Value, err = d.ReadInt64(); err != nil {
		return TxOut{}, err
	}
	if out.ScriptPubKey, err = d.ReadBytes(); err != nil {
		return TxOut{}, err
	}

	return out, nil
}

// Address returns the destination address carried by the output.
func (out TxOut) Address() string {
	return string(out.ScriptPubKey)
}

// =============================================================================

// Tx represents a transaction moving value between addresses.
type Tx struct {
	Version  int32
	TxIn     []TxIn
	TxOut    []TxOut
	LockTime uint32
}

// Encode writes the transaction in wire order.
func (tx Tx) Encode(e *wire.Encoder) {
	e.WriteInt32(tx.Version)

	e.WriteUint64(uint64(len(tx.TxIn)))
	for _, in := range tx.TxIn {
		in.Encode(e)
	}

	e.WriteUint64(uint64(len(tx.TxOut)))
	for _, out := range tx.TxOut {
		out.Encode(e)
	}

	e.WriteUint32(tx.LockTime)
}

// DecodeTx reads a transaction in wire order.
func DecodeTx(d *wire.Decoder) (Tx, error) {
	var tx Tx
	var err error

	if tx.Version, err = d.ReadInt32(); err != nil {
		return Tx{}, err
	}

	inCount, err := d.ReadCount()
	if err != nil {
		return Tx{}, err
	}
	for i := uint64(0); i < inCount; i++ {
		in, err := DecodeTxIn(d)
		if err != nil {
			return Tx{}, err
		}
		tx.TxIn = append(tx.TxIn, in)
	}

	outCount, err := d.ReadCount()
	if err != nil {
		return Tx{}, err
	}
	for i := uint64(0); i < outCount; i++ {
		out, err := DecodeTxOut(d)
		if err != nil {
			return Tx{}, err
		}
		tx.TxOut = append(tx.TxOut, out)
	}

	if tx.LockTime, err = d.ReadUint32(); err != nil {
		return Tx{}, err
	}

	return tx, nil
}

// Hash returns the unique hash for the transaction.
func (tx Tx) Hash() hash.Hash {
	e := wire.NewEncoder()
	tx.Encode(e)
	return hash.Sum256(e.Bytes())
}

// IsMint reports whether the transaction is a protocol issuance: a single
// input with a zero previous output whose scriptSig is the mint marker.
func (tx Tx) IsMint() bool {
	return len(tx.TxIn) == 1 &&
		tx.TxIn[0].PrevOutHash.IsZero() &&
		bytes.Equal(tx.TxIn[0].ScriptSig, mintScriptSig)
}

// MintScriptSig returns a copy of the 4 byte issuance marker.
func MintScriptSig() []byte {
	sig := make([]byte, len(mintScriptSig))
	copy(sig, mintScriptSig)
	return sig
}
