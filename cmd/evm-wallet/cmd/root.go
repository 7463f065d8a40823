package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var opt struct {
	network string
}

var rootCmd = &cobra.Command{
	Use:   "evm-wallet",
	Short: "Self-custody wallet for EVM networks",
	Long: `evm-wallet keeps one encrypted private key on disk (or in Redis) and
uses it to check balances, quote fees and send native transfers on the
configured EVM networks. Run "evm-wallet serve" for the HTTP API.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opt.network, "network", "n", "", "network id to use (overrides ACTIVE_NETWORK)")
}
