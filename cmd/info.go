package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opensig/opensig-cli/pkg/keypair"
	"github.com/opensig/opensig-cli/pkg/wallet"
)

// opensigFormat renders a key as an OpenSig text reference.
const opensigFormat = "OPENSIG-" + keypair.PlaceholderPub + "-btc"

var (
	// info flags
	infoFull    bool
	infoOpensig bool
)

var infoCmd = &cobra.Command{
	Use:   "info [item]",
	Short: "Show information about a key or the wallet",
	Long: `Show information about the given wallet label, WIF, private key or file.

The item defaults to the wallet's default key. Use "wallet" to list every key
in the wallet. An item that is not in the wallet is read as a WIF, a hex
private key or the path of a readable file.

Format placeholders:
  <label>  key label             <network>  network name
  <pub>    address               <priv>     hex private key
  <pubc>   compressed address    <wif>      WIF as stored
  <pubu>   uncompressed address  <wifc>     compressed WIF
  <eth>    EVM address           <wifu>     uncompressed WIF
  <full>   all of the above

Examples:
  opensig info
  opensig info alice --full
  opensig info wallet -f "<label> <pub> <wif>"
  opensig info contract.pdf -o`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item := wallet.DefaultKeyToken
		if len(args) > 0 {
			item = args[0]
		}
		if item == "" {
			return wallet.ErrEmptyToken
		}

		format := outputFormat
		if infoFull {
			format = keypair.PlaceholderFull
		}
		if addressOnly {
			format = keypair.PlaceholderPub
		}
		if infoOpensig {
			format = opensigFormat
		}

		if item == "wallet" {
			w, err := openWallet(true)
			if err != nil {
				return err
			}
			if w.Len() > 0 {
				fmt.Println(w.Format(format))
			}
			return nil
		}

		net, err := currentNetwork()
		if err != nil {
			return err
		}
		w, err := openWallet(false)
		if err != nil {
			return err
		}
		key, err := resolveKey(w, item, net)
		if err != nil {
			return err
		}

		fmt.Println(key.Format(format))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&infoFull, "full", false, "Output full information (same as --format \"<full>\")")
	infoCmd.Flags().BoolVarP(&infoOpensig, "opensig", "o", false, "Output in OpenSig text format")
}
