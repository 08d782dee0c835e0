package p2p_test

import (
	"testing"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/p2p"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/wire"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestMessageHeader(t *testing.T) {
	t.Log("Given the need to frame messages on the peer wire.")
	{
		t.Logf("\tTest 0:\tWhen round tripping a version header.")
		{
			payload := []byte{0x01, 0x02, 0x03}
			mh := p2p.NewMessageHeader(p2p.CmdVersion, payload)

			e := wire.NewEncoder()
			mh.Encode(e)

			if len(e.Bytes()) != p2p.HeaderSize {
				t.Fatalf("\t%s\tTest 0:\tShould serialize to 24 bytes, got %d.", failed, len(e.Bytes()))
			}
			t.Logf("\t%s\tTest 0:\tShould serialize to 24 bytes.", success)

			back, err := p2p.DecodeMessageHeader(wire.NewDecoder(e.Bytes()))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould decode the header: %v", failed, err)
			}

			if back.Magic != p2p.Magic {
				t.Fatalf("\t%s\tTest 0:\tShould carry the AURL magic, got 0x%08X.", failed, back.Magic)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the AURL magic.", success)

			if back.CommandString() != p2p.CmdVersion {
				t.Fatalf("\t%s\tTest 0:\tShould carry the command, got %q.", failed, back.CommandString())
			}
			t.Logf("\t%s\tTest 0:\tShould carry the command.", success)

			if back.Length != 3 || back.Checksum != p2p.Checksum(payload) {
				t.Fatalf("\t%s\tTest 0:\tShould carry length and checksum.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould carry length and checksum.", success)
		}

		t.Logf("\tTest 1:\tWhen framing an empty verack payload.")
		{
			mh := p2p.NewMessageHeader(p2p.CmdVerack, nil)

			if mh.Checksum != p2p.VerackChecksum {
				t.Fatalf("\t%s\tTest 1:\tShould use the verack checksum 0x5df6e0e2, got 0x%08x.", failed, mh.Checksum)
			}
			t.Logf("\t%s\tTest 1:\tShould use the verack checksum.", success)
		}
	}
}

func TestVersionMessage(t *testing.T) {
	t.Log("Given the need to round trip the version payload.")
	{
		t.Logf("\tTest 0:\tWhen encoding a version message.")
		{
			vm := p2p.VersionMessage{
				Version:     1,
				Services:    0,
				Timestamp:   1767916800,
				StartHeight: 0,
			}

			e := wire.NewEncoder()
			vm.Encode(e)

			// i32 + u64 + i64 + i32.
			if len(e.Bytes()) != 24 {
				t.Fatalf("\t%s\tTest 0:\tShould serialize to 24 bytes, got %d.", failed, len(e.Bytes()))
			}
			t.Logf("\t%s\tTest 0:\tShould serialize to 24 bytes.", success)

			back, err := p2p.DecodeVersionMessage(wire.NewDecoder(e.Bytes()))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould decode the payload: %v", failed, err)
			}
			if back != vm {
				t.Fatalf("\t%s\tTest 0:\tShould get the original message back.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get the original message back.", success)
		}
	}
}
