package hash_test

import (
	"testing"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestSum256(t *testing.T) {
	t.Log("Given the need to produce the double SHA256 of a payload.")
	{
		t.Logf("\tTest 0:\tWhen hashing the empty payload.")
		{
			// Well known value: SHA256(SHA256("")).
			const exp = "5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456"

			h := hash.Sum256(nil)
			if h.String() != exp {
				t.Fatalf("\t%s\tTest 0:\tShould match the known digest.\n\t\tgot: %s\n\t\texp: %s", failed, h, exp)
			}
			t.Logf("\t%s\tTest 0:\tShould match the known digest.", success)
		}

		t.Logf("\tTest 1:\tWhen hashing different payloads.")
		{
			if hash.Sum256([]byte("a")) == hash.Sum256([]byte("b")) {
				t.Fatalf("\t%s\tTest 1:\tShould produce different digests.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould produce different digests.", success)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	t.Log("Given the need to round trip a hash through hex.")
	{
		t.Logf("\tTest 0:\tWhen converting to and from a string.")
		{
			h := hash.Sum256([]byte("aurelis"))

			back, err := hash.FromHex(h.String())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould parse the hex form: %v", failed, err)
			}
			if back != h {
				t.Fatalf("\t%s\tTest 0:\tShould get the original hash back.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get the original hash back.", success)
		}

		t.Logf("\tTest 1:\tWhen parsing a malformed string.")
		{
			if _, err := hash.FromHex("zz"); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject non hex input.", failed)
			}
			if _, err := hash.FromHex("abcd"); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a short value.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject malformed input.", success)
		}
	}
}

func TestZero(t *testing.T) {
	t.Log("Given the need for a none sentinel.")
	{
		t.Logf("\tTest 0:\tWhen checking the zero value.")
		{
			var h hash.Hash
			if !h.IsZero() {
				t.Fatalf("\t%s\tTest 0:\tShould report the zero value as zero.", failed)
			}
			if hash.Sum256(nil).IsZero() {
				t.Fatalf("\t%s\tTest 0:\tShould not report a digest as zero.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould distinguish zero from digests.", success)
		}
	}
}
