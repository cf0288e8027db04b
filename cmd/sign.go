package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opensig/opensig-cli/pkg/signer"
	"github.com/opensig/opensig-cli/pkg/wallet"
)

var (
	// sign flags
	signatureOnly bool
)

var signCmd = &cobra.Command{
	Use:   "sign <file> [key]",
	Short: "Sign a file",
	Long: `Sign the SHA-256 digest of a file and output the signer's address and the
signature. The key defaults to the wallet's default key and may be a wallet
label, a WIF, a hex private key or a readable file.

The signature is a base64 Bitcoin signed message over the file's hex digest,
so the signer's address can be recovered from it with 'opensig verify'.

With --address only the signer's address is printed; with --signature-only
only the signature.

Examples:
  opensig sign contract.pdf
  opensig sign contract.pdf alice --signature-only
  opensig sign contract.pdf alice
  opensig sign contract.pdf KwdMAjGmerYanjeui5SHS7JkmpZvVipYvB2LJGU1ZxJwYvP98617`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		token := wallet.DefaultKeyToken
		if len(args) > 1 {
			token = args[1]
		}

		net, err := currentNetwork()
		if err != nil {
			return err
		}
		w, err := openWallet(false)
		if err != nil {
			return err
		}
		key, err := resolveKey(w, token, net)
		if err != nil {
			return err
		}

		sig, err := signer.SignFile(file, key)
		if err != nil {
			return fmt.Errorf("failed to sign %s: %w", file, err)
		}
		cliLog.Debug("signed file", "file", file, "digest", sig.Digest)

		switch {
		case signatureOnly:
			fmt.Println(sig.Signature)
			return nil
		case addressOnly:
			fmt.Println(sig.Address)
			return nil
		}
		fmt.Printf("%s\t%s\n", sig.Address, sig.Signature)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().BoolVar(&signatureOnly, "signature-only", false, "Print only the signature")
}
