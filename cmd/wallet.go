package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opensig/opensig-cli/pkg/backup"
	"github.com/opensig/opensig-cli/pkg/wallet"
)

var (
	// wallet flags
	showWIFs bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Wallet operations",
	Long: `Manage the key wallet (~/.opensig/wallet unless --wallet is given).

The wallet is a plain text file holding one "<wif><TAB><label>" entry per line.
The first key is the default key.

Subcommands:
  list     List the keys in the wallet
  check    Report corrupt wallet entries
  backup   Write a password-encrypted copy of the wallet
  restore  Recreate the wallet from a backup`,
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the keys in the wallet",
	Long: `List the keys in the wallet in order. The default key is marked with *.

Examples:
  opensig wallet list
  opensig wallet list --show-wif`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWallet(true)
		if err != nil {
			return err
		}

		keys := w.Keys()
		if len(keys) == 0 {
			fmt.Println("No keys found. Use 'opensig create -s <label>' to add a key.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if showWIFs {
			fmt.Fprintln(tw, "LABEL\tDEFAULT\tADDRESS\tCOMPRESSED\tWIF")
		} else {
			fmt.Fprintln(tw, "LABEL\tDEFAULT\tADDRESS\tCOMPRESSED")
		}
		for i, k := range keys {
			isDefault := ""
			if i == 0 {
				isDefault = "*"
			}
			compressed := "no"
			if k.Compressed() {
				compressed = "yes"
			}
			if showWIFs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", k.Label(), isDefault, k.Address(), compressed, k.WIF())
			} else {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", k.Label(), isDefault, k.Address(), compressed)
			}
		}
		tw.Flush()

		fmt.Printf("\nTotal: %d key(s)\n", len(keys))
		return nil
	},
}

var walletCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report corrupt wallet entries",
	Long: `Load the wallet and print every entry that could not be parsed.
Exits with an error if any entry is corrupt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWallet(true)
		if err != nil {
			return err
		}

		if !w.HasWarnings() {
			fmt.Printf("Wallet OK: %d key(s)\n", w.Len())
			return nil
		}

		fmt.Println(w.DumpWarnings())
		return fmt.Errorf("wallet %s has %d corrupt entries", w.Path(), len(w.Warnings()))
	},
}

var walletBackupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Write a password-encrypted copy of the wallet",
	Long: `Encrypt the wallet with a password and write it to a new file.
Existing files are never overwritten. Corrupt entries are not included.

Set OPENSIG_BACKUP_PASSWORD for non-interactive use or follow the password prompt.

Examples:
  opensig wallet backup wallet.backup`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWallet(true)
		if err != nil {
			return err
		}

		password, err := backupPassword(true)
		if err != nil {
			return err
		}
		defer clearBytes(password)

		data := w.Bytes()
		defer clearBytes(data)
		if err := backup.Write(args[0], data, password); err != nil {
			return err
		}

		fmt.Printf("Backed up %d key(s) to %s\n", w.Len(), args[0])
		return nil
	},
}

var walletRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Recreate the wallet from a backup",
	Long: `Decrypt a backup made with 'opensig wallet backup' and write it as the wallet.
The wallet must not already exist.

Set OPENSIG_BACKUP_PASSWORD for non-interactive use or follow the password prompt.

Examples:
  opensig wallet restore wallet.backup
  opensig wallet restore wallet.backup -w ~/other-wallet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveWalletPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("failed to restore wallet: %w", wallet.ErrWalletExists)
		}

		password, err := backupPassword(false)
		if err != nil {
			return err
		}
		defer clearBytes(password)

		data, err := backup.Read(args[0], password)
		if err != nil {
			return err
		}
		defer clearBytes(data)

		w := wallet.New(path)
		if err := w.Create(); err != nil {
			return fmt.Errorf("failed to restore wallet: %w", err)
		}
		w.Load(data)
		logWarnings(w)
		if err := w.Save(); err != nil {
			return fmt.Errorf("failed to restore wallet: %w", err)
		}

		fmt.Printf("Restored %d key(s) to %s\n", w.Len(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletListCmd)
	walletCmd.AddCommand(walletCheckCmd)
	walletCmd.AddCommand(walletBackupCmd)
	walletCmd.AddCommand(walletRestoreCmd)

	walletListCmd.Flags().BoolVar(&showWIFs, "show-wif", false, "Show each key's WIF (private key material)")
}
