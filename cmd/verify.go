package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opensig/opensig-cli/pkg/signer"
	"github.com/opensig/opensig-cli/pkg/wallet"
)

var (
	// verify flags
	verifyExpect string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file> <signature>",
	Short: "Verify a file signature",
	Long: `Recover the signer of a file from a signature made with 'opensig sign' and
output the signer's address and, if the key is in the wallet, its label.

A signature always recovers some address, so use --expect to require a
particular signer. The expected signer may be an address or a wallet label.

Examples:
  opensig verify contract.pdf H3x...=
  opensig verify contract.pdf H3x...= --expect alice
  opensig verify contract.pdf H3x...= --expect 1LoVGDgRs9hTfTNJNuXKSpywcbdvwRXpmK`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, sig := args[0], args[1]

		net, err := currentNetwork()
		if err != nil {
			return err
		}

		rec, err := signer.VerifyFile(file, sig, net.Params)
		if err != nil {
			return fmt.Errorf("failed to verify %s: %w", file, err)
		}
		cliLog.Debug("recovered signer", "file", file, "digest", rec.Digest, "compressed", rec.Compressed)

		w, err := openWallet(false)
		if err != nil {
			return err
		}

		if verifyExpect != "" && !signerMatches(w, rec.Address, verifyExpect) {
			return fmt.Errorf("signature was made by %s, not %s", rec.Address, verifyExpect)
		}

		if addressOnly {
			fmt.Println(rec.Address)
			return nil
		}
		label := ""
		if key, ok := w.KeyFromAddress(rec.Address); ok {
			label = key.Label()
		}
		fmt.Printf("%s\t%s\n", rec.Address, label)
		return nil
	},
}

// signerMatches reports whether addr is expect, or the address of the wallet
// key labelled expect.
func signerMatches(w *wallet.Wallet, addr, expect string) bool {
	if addr == expect {
		return true
	}
	key, ok := w.KeyFromLabel(expect)
	if !ok {
		return false
	}
	return key.HasAddress(addr)
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyExpect, "expect", "", "Fail unless the signer is this address or wallet label")
}
