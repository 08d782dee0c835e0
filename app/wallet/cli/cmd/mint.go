package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var mintCmd = &cobra.Command{
	Use:   "mint <address> <amount>",
	Short: "Mint new coins to an address (protocol issuance)",
	Args:  cobra.ExactArgs(2),
	Run:   mintRun,
}

func init() {
	rootCmd.AddCommand(mintCmd)
}

func mintRun(cmd *cobra.Command, args []string) {
	amount, err := parseAmount(args[1])
	if err != nil {
		log.Fatal(err)
	}

	var txHash string
	if err := rpcCall("mint", []any{args[0], amount}, &txHash); err != nil {
		log.Fatal(err)
	}

	fmt.Println("tx:", txHash)
}
