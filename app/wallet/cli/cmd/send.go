package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var sendTo string
var sendAmount string

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send coins from your address to another",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendTo, "to", "t", "", "Destination address.")
	sendCmd.Flags().StringVarP(&sendAmount, "amount", "m", "", "Amount in AUC.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) {
	from, err := resolveAddress(nil)
	if err != nil {
		log.Fatal(err)
	}

	amount, err := parseAmount(sendAmount)
	if err != nil {
		log.Fatal(err)
	}

	var txHash string
	if err := rpcCall("transfer", []any{from, sendTo, amount}, &txHash); err != nil {
		log.Fatal(err)
	}

	fmt.Println("tx:", txHash)
}
