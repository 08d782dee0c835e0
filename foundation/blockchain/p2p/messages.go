package p2p

import (
	"encoding/binary"
	"fmt"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/wire"
)

// Magic identifies aurelis traffic on the wire ("AURL", little endian).
const Magic uint32 = 0x4155524C

// HeaderSize is the fixed size of a message header in bytes.
const HeaderSize = 24

// commandSize is the fixed width of the NUL padded command field.
const commandSize = 12

// Commands defined by the handshake.
const (
	CmdVersion = "version"
	CmdVerack  = "verack"
)

// VerackChecksum is the checksum of an empty payload.
const VerackChecksum uint32 = 0x5df6e0e2

// =============================================================================

// MessageHeader frames every message on the peer wire.
type MessageHeader struct {
	Magic    uint32
	Command  [commandSize]byte
	Length   uint32
	Checksum uint32
}

// NewMessageHeader constructs a header for the specified command and
// payload.
func NewMessageHeader(command string, payload []byte) MessageHeader {
	mh := MessageHeader{
		Magic:    Magic,
		Length:   uint32(len(payload)),
		Checksum: Checksum(payload),
	}
	copy(mh.Command[:], command)

	return mh
}

// CommandString returns the command with the NUL padding stripped.
func (mh MessageHeader) CommandString() string {
	for i, b := range mh.Command {
		if b == 0 {
			return string(mh.Command[:i])
		}
	}
	return string(mh.Command[:])
}

// Encode writes the header in wire order.
func (mh MessageHeader) Encode(e *wire.Encoder) {
	e.WriteUint32(mh.Magic)
	e.WriteRaw(mh.Command[:])
	e.WriteUint32(mh.Length)
	e.WriteUint32(mh.Checksum)
}

// DecodeMessageHeader reads a header in wire order.
func DecodeMessageHeader(d *wire.Decoder) (MessageHeader, error) {
	var mh MessageHeader
	var err error

	if mh.Magic, err = d.ReadUint32(); err != nil {
		return MessageHeader{}, err
	}

	cmd, err := d.ReadRaw(commandSize)
	if err != nil {
		return MessageHeader{}, err
	}
	copy(mh.Command[:], cmd)

	if mh.Length, err = d.ReadUint32(); err != nil {
		return MessageHeader{}, err
	}
	if mh.Checksum, err = d.ReadUint32(); err != nil {
		return MessageHeader{}, err
	}

	return mh, nil
}

// Checksum returns the first 4 bytes of the payload's Hash256 read as a
// little endian uint32. An empty verack payload uses VerackChecksum.
func Checksum(payload []byte) uint32 {
	if len(payload) == 0 {
		return VerackChecksum
	}

	h := hash.Sum256(payload)
	return binary.LittleEndian.Uint32(h[:4])
}

// =============================================================================

// VersionMessage opens the handshake from both sides.
type VersionMessage struct {
	Version     int32
	Services    uint64
	Timestamp   int64
	StartHeight int32
}

// Encode writes the message in wire order.
func (vm VersionMessage) Encode(e *wire.Encoder) {
	e.WriteInt32(vm.Version)
	e.WriteUint64(vm.Services)
	e.WriteInt64(vm.Timestamp)
	e.WriteInt32(vm.StartHeight)
}

// DecodeVersionMessage reads a version message in wire order.
func DecodeVersionMessage(d *wire.Decoder) (VersionMessage, error) {
	var vm VersionMessage
	var err error

	if vm.Version, err = d.ReadInt32(); err != nil {
		return VersionMessage{}, err
	}
	if vm.Services, err = d.ReadUint64(); err != nil {
		return VersionMessage{}, err
	}
	if vm.Timestamp, err = d.ReadInt64(); err != nil {
		return VersionMessage{}, err
	}
	if vm.StartHeight, err = d.ReadInt32(); err != nil {
		return VersionMessage{}, err
	}

	return vm, nil
}

// marshalMessage produces the framed bytes for a command and payload.
func marshalMessage(command string, payload []byte) []byte {
	e := wire.NewEncoder()
	NewMessageHeader(command, payload).Encode(e)
	e.WriteRaw(payload)
	return e.Bytes()
}

// validateMagic rejects traffic from foreign networks.
func validateMagic(mh MessageHeader) error {
	if mh.Magic != Magic {
		return fmt.Errorf("invalid magic 0x%08X", mh.Magic)
	}
	return nil
}
