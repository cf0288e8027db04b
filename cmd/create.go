package cmd

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/cobra"

	"github.com/opensig/opensig-cli/pkg/keypair"
	"github.com/opensig/opensig-cli/pkg/wallet"
)

// promptKeyArg is the --key value that asks for the key on the terminal.
const promptKeyArg = "-"

var (
	// create flags
	createKey          string
	createSave         string
	createUncompressed bool
)

var createCmd = &cobra.Command{
	Use:   "create [wallet]",
	Short: "Create a new key or a new wallet",
	Long: `Create a new private key and output its details, or create a new wallet.

With "wallet" as the argument, an empty wallet file is created. It is an error
if the wallet already exists.

Otherwise a new random key is generated. With --save the key is stored in the
wallet under the given label; without it the key is printed and not stored.
Use --key to import an existing WIF or hex private key instead; importing
requires --save. Pass --key - to enter the key without echo.

Examples:
  opensig create wallet
  opensig create
  opensig create -s alice
  opensig create -k - -s bob
  opensig create --network testnet -a`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			if args[0] != "wallet" {
				return fmt.Errorf("unknown create target %q (only \"wallet\" is supported)", args[0])
			}
			return createWallet()
		}

		net, err := currentNetwork()
		if err != nil {
			return err
		}

		if createKey != "" && createSave == "" {
			return fmt.Errorf("cannot import key without a label - use -s to specify")
		}

		if createSave == "" {
			key, err := keypair.Generate("", createUncompressed, net.Params)
			if err != nil {
				return err
			}
			fmt.Println(key.Format(formatFor(keypair.PlaceholderFull)))
			return nil
		}

		w, err := openWallet(true)
		if err != nil {
			return err
		}

		var key *keypair.KeyPair
		if createKey != "" {
			key, err = importKey(createKey, createSave, net.Params)
		} else {
			key, err = keypair.Generate(createSave, createUncompressed, net.Params)
		}
		if err != nil {
			return err
		}

		if err := w.AddKey(key); err != nil {
			return fmt.Errorf("failed to add key: %w", err)
		}
		if err := w.Save(); err != nil {
			return fmt.Errorf("failed to save wallet: %w", err)
		}
		cliLog.Debug("saved key", "label", key.Label(), "wallet", w.Path())

		fmt.Println(key.Format(formatFor("")))
		return nil
	},
}

// createWallet creates an empty wallet file at the selected path.
func createWallet() error {
	path, err := resolveWalletPath()
	if err != nil {
		return err
	}
	w := wallet.New(path)
	if err := w.Create(); err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	fmt.Printf("Wallet created: %s\n", path)
	return nil
}

// importKey parses keyArg, prompting for it when keyArg is "-".
func importKey(keyArg, label string, params *chaincfg.Params) (*keypair.KeyPair, error) {
	if keyArg == promptKeyArg {
		input, err := readSecret("private key or WIF")
		if err != nil {
			return nil, err
		}
		keyArg = strings.TrimSpace(string(input))
		clearBytes(input)
	}

	key, err := keypair.NewForNetwork(keyArg, label, createUncompressed, params)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&createKey, "key", "k", "", "Import the given private key or WIF (requires --save; use - to prompt)")
	createCmd.Flags().StringVarP(&createSave, "save", "s", "", "Save the key to the wallet with the given label")
	createCmd.Flags().BoolVar(&createUncompressed, "uncompressed", false, "Use an uncompressed public key for new and hex-imported keys")
}
