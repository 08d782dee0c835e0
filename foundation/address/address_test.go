package address_test

import (
	"strings"
	"testing"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/address"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestFromPubKeyHash(t *testing.T) {
	t.Log("Given the need to render addresses for humans.")
	{
		t.Logf("\tTest 0:\tWhen encoding a public key hash.")
		{
			pkh := make([]byte, 20)
			for i := range pkh {
				pkh[i] = 0xAB
			}

			addr := address.FromPubKeyHash(pkh)
			if !strings.HasPrefix(addr, address.Prefix) {
				t.Fatalf("\t%s\tTest 0:\tShould carry the AUR prefix, got %q.", failed, addr)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the AUR prefix.", success)

			if addr != address.FromPubKeyHash(pkh) {
				t.Fatalf("\t%s\tTest 0:\tShould be deterministic.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be deterministic.", success)
		}
	}
}

func TestFromPublicKey(t *testing.T) {
	t.Log("Given the need to derive an address from a key pair.")
	{
		t.Logf("\tTest 0:\tWhen deriving from a generated key.")
		{
			privateKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould generate a key: %v", failed, err)
			}

			addr := address.FromPublicKey(privateKey.PublicKey)
			if !strings.HasPrefix(addr, address.Prefix) || len(addr) <= len(address.Prefix) {
				t.Fatalf("\t%s\tTest 0:\tShould produce a usable address, got %q.", failed, addr)
			}
			t.Logf("\t%s\tTest 0:\tShould produce a usable address.", success)

			if addr != address.FromPublicKey(privateKey.PublicKey) {
				t.Fatalf("\t%s\tTest 0:\tShould be deterministic.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be deterministic.", success)
		}
	}
}
