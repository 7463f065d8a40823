package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlexZinkM/evm-wallet/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a new wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			password, err := config.PromptForNewPassword()
			if err != nil {
				return err
			}
			defer clear(password)

			resp, err := a.svc.Create(cmd.Context(), password)
			if err != nil {
				return err
			}
			printf("%s\naddress: %s\n", resp.Message, resp.Address)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an existing private key",
	Long:  `Reads a 0x-prefixed hex private key from the terminal (hidden) or from stdin when piped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := readSecret()
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app) error {
			password, err := config.PromptForNewPassword()
			if err != nil {
				return err
			}
			defer clear(password)

			resp, err := a.svc.Import(cmd.Context(), secret, password)
			if err != nil {
				return err
			}
			printf("%s\naddress: %s\n", resp.Message, resp.Address)
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export-key",
	Short: "Print the private key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			password, err := config.PromptForPassword("Wallet password")
			if err != nil {
				return err
			}
			defer clear(password)

			resp, err := a.svc.ExportSecret(cmd.Context(), password)
			if err != nil {
				return err
			}
			printf("address: %s\nprivate key: %s\n", resp.Address, resp.Secret)
			return nil
		})
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Re-encrypt the wallet under a new password",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			current, err := config.PromptForPassword("Current wallet password")
			if err != nil {
				return err
			}
			defer clear(current)
			next, err := config.PromptForNewPassword()
			if err != nil {
				return err
			}
			defer clear(next)

			if err := a.svc.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}
			printf("password changed\n")
			return nil
		})
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Write the encrypted wallet file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			blob, err := a.svc.Backup(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], blob, 0600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			printf("backup written to %s\n", args[0])
			return nil
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Install a wallet file written by backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blob, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}
		return withApp(cmd.Context(), func(a *app) error {
			resp, err := a.svc.Restore(cmd.Context(), blob)
			if err != nil {
				return err
			}
			printf("%s\naddress: %s\n", resp.Message, resp.Address)
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the stored wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm("This erases the wallet. Without a backup the funds are lost. Continue?") {
			return errors.New("aborted")
		}
		return withApp(cmd.Context(), func(a *app) error {
			if err := a.svc.Reset(cmd.Context()); err != nil {
				return err
			}
			printf("wallet erased\n")
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	rootCmd.AddCommand(createCmd, importCmd, exportCmd, passwdCmd, backupCmd, restoreCmd, resetCmd)
}

func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Private key: ")
		defer fmt.Fprintln(os.Stderr)
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return "", fmt.Errorf("failed to read private key: %w", err)
		}
		defer clear(raw)
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read private key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
