package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/wallet"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the balance on the active network",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			b, err := a.svc.Balance(cmd.Context())
			if err != nil {
				return err
			}
			printf("network: %s\naddress: %s\nbalance: %s\n", b.Network, b.Address, b.Native)
			if b.Fiat != "" {
				printf("value:   %s (price %s)\n", b.Fiat, b.Price)
			} else {
				printf("value:   price unavailable\n")
			}
			return nil
		})
	},
}

var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Show the receiving address as a QR code",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			address, err := a.svc.Address(cmd.Context())
			if err != nil {
				return err
			}
			qr, err := qrcode.New(address.Hex(), qrcode.Medium)
			if err != nil {
				return fmt.Errorf("failed to generate QR code: %w", err)
			}
			fmt.Fprint(os.Stdout, qr.ToSmallString(false))
			printf("%s\n", address.Hex())
			if link := a.svc.AddressURL(address.Hex()); link != "" {
				printf("%s\n", link)
			}
			return nil
		})
	},
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List configured networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			n := a.svc.Networks()
			for _, p := range n.Profiles {
				marker := " "
				if p.ID == n.Active.ID {
					marker = "*"
				}
				printf("%s %-12s chain=%-10d %s\n", marker, p.ID, p.ChainID, p.RPCEndpoint)
			}
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			h, err := a.svc.History(cmd.Context())
			if err != nil {
				return err
			}
			if len(h.Transactions) == 0 {
				printf("no transactions\n")
				return nil
			}
			for _, tx := range h.Transactions {
				printf("%s  %s -> %s  %s\n", tx.SentAt, tx.FromAddress, tx.ToAddress, tx.Value)
			}
			return nil
		})
	},
}

var sendFlags struct {
	currency string
	gasPrice string
	gasLimit string
	yes      bool
	timeout  time.Duration
}

var sendCmd = &cobra.Command{
	Use:   "send <recipient> <amount>",
	Short: "Send native currency",
	Long: `Quotes the transfer, asks for confirmation, signs it with the unlocked key
and waits for the receipt. The amount is in fiat unless --currency native is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			req := model.TransferRequest{
				Recipient:       args[0],
				Amount:          args[1],
				DisplayCurrency: model.Currency(sendFlags.currency),
				GasPrice:        sendFlags.gasPrice,
				GasLimit:        sendFlags.gasLimit,
			}
			// accept pasted "ethereum:" URIs
			if to, err := wallet.ValidateRecipient(args[0]); err == nil {
				req.Recipient = to
			}

			q, err := a.svc.Quote(ctx, req)
			if err != nil {
				return err
			}
			printQuote(q)
			if !sendFlags.yes && !confirm("Send?") {
				return errors.New("aborted")
			}

			if err := a.unlock(ctx); err != nil {
				return err
			}
			if _, err := a.svc.Send(ctx, req); err != nil {
				return err
			}

			if sendFlags.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, sendFlags.timeout)
				defer cancel()
			}
			status, err := a.svc.WaitTransfer(ctx)
			if err != nil {
				return fmt.Errorf("stopped waiting for the receipt: %w", err)
			}
			r := status.Receipt
			if r.Hash != "" {
				printf("hash: %s\n", r.Hash)
			}
			if status.TxURL != "" {
				printf("%s\n", status.TxURL)
			}
			if !r.Success {
				return fmt.Errorf("transfer failed: %s", r.Error)
			}
			printf("transfer confirmed\n")
			return nil
		})
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendFlags.currency, "currency", "c", string(model.CurrencyFiat), "unit of the amount: fiat or native")
	sendCmd.Flags().StringVar(&sendFlags.gasPrice, "gas-price", "", "gas price in gwei (default: node suggestion)")
	sendCmd.Flags().StringVar(&sendFlags.gasLimit, "gas-limit", "", "gas limit (default: node estimate)")
	sendCmd.Flags().BoolVarP(&sendFlags.yes, "yes", "y", false, "skip confirmation")
	sendCmd.Flags().DurationVar(&sendFlags.timeout, "timeout", 0, "stop waiting for the receipt after this long")

	rootCmd.AddCommand(balanceCmd, receiveCmd, networksCmd, historyCmd, sendCmd)
}

func printQuote(q *model.Quote) {
	printf("to:       %s\n", q.Recipient)
	if q.FiatAmount != "" {
		printf("amount:   %s (%s fiat)\n", q.NativeAmount, q.FiatAmount)
	} else {
		printf("amount:   %s\n", q.NativeAmount)
	}
	printf("gas:      %s gwei x %s\n", q.GasPrice, q.GasLimit)
	printf("fee:      %s\n", q.Fee)
	printf("total:    %s\n", q.Total)
	printf("balance:  %s\n", q.Balance)
}
