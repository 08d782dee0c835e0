package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var utxosCmd = &cobra.Command{
	Use:   "transactions [address]",
	Short: "List recent transactions for an address",
	Run:   utxosRun,
}

func init() {
	rootCmd.AddCommand(utxosCmd)
}

type addressTx struct {
	Hash      string `json:"hash"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Address   string `json:"address"`
}

func utxosRun(cmd *cobra.Command, args []string) {
	addr, err := resolveAddress(args)
	if err != nil {
		log.Fatal(err)
	}

	var txs []addressTx
	if err := rpcCall("getaddresstransactions", []any{addr}, &txs); err != nil {
		log.Fatal(err)
	}

	for _, tx := range txs {
		fmt.Printf("%s  %-8s %12s AUC  %s  (%s)\n", tx.Hash, tx.Type, formatAmount(tx.Amount), tx.Address, tx.Timestamp)
	}
}
