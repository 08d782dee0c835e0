package cmd

import (
	"fmt"
	"log"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/address"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the balance of an address, or of your key",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	addr, err := resolveAddress(args)
	if err != nil {
		log.Fatal(err)
	}

	var balance int64
	if err := rpcCall("getaddressbalance", []any{addr}, &balance); err != nil {
		log.Fatal(err)
	}

	fmt.Println("address:", addr)
	fmt.Println("balance:", formatAmount(balance), "AUC")
}

// resolveAddress takes the address argument if given, otherwise derives
// the address from the configured private key.
func resolveAddress(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return "", err
	}

	return address.FromPublicKey(privateKey.PublicKey), nil
}
