// Package wire implements the deterministic binary encoding used for block
// hashing, the on-disk chain log, and the peer wire format. Integers are
// little endian in their native width, hashes are raw bytes, and byte
// strings and sequences carry a uint64 little endian length prefix.
package wire

import (
	"encoding/binary"
	"errors"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
)

// ErrUnderflow is returned when a read would move past the end of the
// buffer. The chain recovery path treats this as end of log.
var ErrUnderflow = errors.New("decode underflow")

// =============================================================================

// Encoder accumulates the serialized form of a value.
type Encoder struct {
	buf []byte
}

// NewEncoder constructs an encoder ready for writing.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// WriteRaw appends bytes with no length prefix. Used for fixed width
// fields such as hashes and command names.
func (e *Encoder) WriteRaw(data []byte) {
	e.buf = append(e.buf, data...)
}

// WriteHash appends the 32 raw bytes of a hash.
func (e *Encoder) WriteHash(h hash.Hash) {
	e.buf = append(e.buf, h[:]...)
}

// WriteUint32 appends a little endian uint32.
func (e *Encoder) WriteUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

// WriteInt32 appends a little endian int32.
func (e *Encoder) WriteInt32(v int32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(v))
}

// WriteUint64 appends a little endian uint64.
func (e *Encoder) WriteUint64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// WriteInt64 appends a little endian int64.
func (e *Encoder) WriteInt64(v int64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v))
}

// WriteBytes appends a uint64 length prefix followed by the bytes.
func (e *Encoder) WriteBytes(data []byte) {
	e.WriteUint64(uint64(len(data)))
	e.buf = append(e.buf, data...)
}

// =============================================================================

// Decoder walks a buffer, failing with ErrUnderflow when a read would
// exceed the remaining bytes.
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder constructs a decoder over the specified buffer.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// ReadRaw returns the next n bytes.
func (d *Decoder) ReadRaw(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, ErrUnderflow
	}

	data := d.data[d.pos : d.pos+n]
	d.pos += n
	return data, nil
}

// ReadHash reads 32 raw bytes into a hash.
func (d *Decoder) ReadHash() (hash.Hash, error) {
	data, err := d.ReadRaw(hash.Size)
	if err != nil {
		return hash.Hash{}, err
	}

	var h hash.Hash
	copy(h[:], data)
	return h, nil
}

// ReadUint32 reads a little endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	data, err := d.ReadRaw(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// ReadInt32 reads a little endian int32.
func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads a little endian uint64.
func (d *Decoder) ReadUint64() (uint64, error) {
	data, err := d.ReadRaw(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

// ReadInt64 reads a little endian int64.
func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

// ReadBytes reads a uint64 length prefix followed by that many bytes.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadUint64()
	if err != nil {
		return nil, err
	}
	if uint64(d.Remaining()) < n {
		return nil, ErrUnderflow
	}

	data, err := d.ReadRaw(int(n))
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, data)
	return out, nil
}

// ReadCount reads a uint64 sequence length prefix.
func (d *Decoder) ReadCount() (uint64, error) {
	return d.ReadUint64()
}
