package database

import (
	"errors"
	"fmt"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/wire"
)

// Validation failures reported by ValidateBlock.
var (
	ErrInsufficientPOW = errors.New("insufficient difficulty")
	ErrEmptyBlock      = errors.New("no transactions")
	ErrMerkleMismatch  = errors.New("merkle root mismatch")
	ErrPrevMismatch    = errors.New("prev_block mismatch")
)

// =============================================================================

// BlockHeader represents the 80 byte header that is hashed for proof of
// work. The bits field is stored on the wire but the validator never
// interprets it; the solve threshold is fixed at two leading zero bytes.
type BlockHeader struct {
	Version    int32
	PrevBlock  hash.Hash
	MerkleRoot hash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// Encode writes the header in wire order.
func (bh BlockHeader) Encode(e *wire.Encoder) {
	e.WriteInt32(bh.Version)
	e.WriteHash(bh.PrevBlock)
	e.WriteHash(bh.MerkleRoot)
	e.WriteUint32(bh.Timestamp)
	e.WriteUint32(bh.Bits)
	e.WriteUint32(bh.Nonce)
}

// DecodeBlockHeader reads a header in wire order.
func DecodeBlockHeader(d *wire.Decoder) (BlockHeader, error) {
	var bh BlockHeader
	var err error

	if bh.Version, err = d.ReadInt32(); err != nil {
		return BlockHeader{}, err
	}
	if bh.PrevBlock, err = d.ReadHash(); err != nil {
		return BlockHeader{}, err
	}
	if bh.MerkleRoot, err = d.ReadHash(); err != nil {
		return BlockHeader{}, err
	}
	if bh.Timestamp, err = d.ReadUint32(); err != nil {
		return BlockHeader{}, err
	}
	if bh.Bits, err = d.ReadUint32(); err != nil {
		return BlockHeader{}, err
	}
	if bh.Nonce, err = d.ReadUint32(); err != nil {
		return BlockHeader{}, err
	}

	return bh, nil
}

// Hash returns the unique hash for the header.
func (bh BlockHeader) Hash() hash.Hash {
	e := wire.NewEncoder()
	bh.Encode(e)
	return hash.Sum256(e.Bytes())
}

// =============================================================================

// Block represents a header plus the ordered transactions it commits to.
type Block struct {
	Header BlockHeader
	Txs    []Tx
}

// Encode writes the block in wire order.
func (b Block) Encode(e *wire.Encoder) {
	b.Header.Encode(e)
	e.WriteUint64(uint64(len(b.Txs)))
	for _, tx := range b.Txs {
		tx.Encode(e)
	}
}

// DecodeBlock reads a block in wire order.
func DecodeBlock(d *wire.Decoder) (Block, error) {
	var b Block
	var err error

	if b.Header, err = DecodeBlockHeader(d); err != nil {
		return Block{}, err
	}

	count, err := d.ReadCount()
	if err != nil {
		return Block{}, err
	}
	for i := uint64(0); i < count; i++ {
		tx, err := DecodeTx(d)
		if err != nil {
			return Block{}, err
		}
		b.Txs = append(b.Txs, tx)
	}

	return b, nil
}

// Hash returns the unique hash for the block, which is the header hash.
func (b Block) Hash() hash.Hash {
	return b.Header.Hash()
}

// =============================================================================

// MerkleRoot computes the transaction commitment for a block. A single
// transaction commits to its own hash; more than one commits to the
// Hash256 of all transaction hashes concatenated in order. This flat
// construction is part of the wire format and must not be changed.
func MerkleRoot(txs []Tx) hash.Hash {
	switch len(txs) {
	case 0:
		return hash.Zero
	case 1:
		return txs[0].Hash()
	}

	e := wire.NewEncoder()
	for _, tx := range txs {
		e.WriteHash(tx.Hash())
	}
	return hash.Sum256(e.Bytes())
}

// IsHashSolved checks the hash complies with the POW rule of two leading
// zero bytes.
func IsHashSolved(h hash.Hash) bool {
	return h[0] == 0 && h[1] == 0
}

// ValidateBlock validates the block against the current tip. It is a pure
// function of the block, the tip hash, and whether the chain is empty. The
// POW check is bypassed for the first block so a zero work genesis can be
// installed.
func (b Block) ValidateBlock(tipHash hash.Hash, chainEmpty bool) error {
	if !chainEmpty && !IsHashSolved(b.Hash()) {
		return fmt.Errorf("%w: hash %s", ErrInsufficientPOW, b.Hash())
	}

	if len(b.Txs) == 0 {
		return ErrEmptyBlock
	}

	if computed := MerkleRoot(b.Txs); computed != b.Header.MerkleRoot {
		return fmt.Errorf("%w: header %s, computed %s", ErrMerkleMismatch, b.Header.MerkleRoot, computed)
	}

	if !chainEmpty && b.Header.PrevBlock != tipHash {
		return fmt.Errorf("%w: expected %s, got %s", ErrPrevMismatch, tipHash, b.Header.PrevBlock)
	}

	return nil
}
