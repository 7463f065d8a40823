package main

import "github.com/AlexZinkM/evm-wallet/cmd/evm-wallet/cmd"

// @title           EVM Wallet API
// @version         1.0
// @description     Local self-custody wallet: encrypted key vault, balance, fee quotes and transfers on EVM networks.
// @host            localhost:8080
// @BasePath        /
func main() {
	cmd.Execute()
}
