package main

import "github.com/EmekaIwuagwu/aurelis-blockchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
