package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opensig/opensig-cli/pkg/config"
	"github.com/opensig/opensig-cli/pkg/logger"
	"github.com/opensig/opensig-cli/pkg/wallet"
)

var (
	// Global flags
	addressOnly  bool
	outputFormat string
	walletPath   string // Wallet file, defaults to ~/.opensig/wallet
	verbose      bool
	networkName  string

	// Loaded from OPENSIG_* before every command
	envConfig = &config.Config{Network: "mainnet"}
	cliLog    = logger.ForVerbosity(os.Stderr, false)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "opensig",
	Short:         "OpenSig key and file signature CLI",
	Version:       "1.0.0",
	SilenceErrors: true,
	SilenceUsage:  true,
	Long: `Create and manage secp256k1 keys and use them to sign and verify files.

Keys are held in a flat-file wallet (~/.opensig/wallet by default). Wherever a
key is expected you may give a wallet label, a WIF, a hex private key, or the
path of a readable file (whose SHA-256 digest becomes the key).

Example usage:
  opensig create wallet
  opensig create -s alice
  opensig info alice --full
  opensig sign contract.pdf alice
  opensig verify contract.pdf <signature> --expect alice

Environment Variables:
  OPENSIG_WALLET           Wallet file (overridden by --wallet)
  OPENSIG_NETWORK          mainnet or testnet (overridden by --network)
  OPENSIG_VERBOSE          Set to true for debug diagnostics
  OPENSIG_BACKUP_PASSWORD  Password for wallet backup and restore (safer than prompting in scripts)`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		envConfig = cfg
		applyEnvConfig(cmd, cfg)
		cliLog = logger.ForVerbosity(os.Stderr, verbose)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logFailure(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyEnvConfig fills in global flags the user did not set from cfg.
func applyEnvConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("wallet") && cfg.Wallet != "" {
		walletPath = cfg.Wallet
	}
	if !flags.Changed("network") && cfg.Network != "" {
		networkName = cfg.Network
	}
	if !flags.Changed("verbose") && cfg.Verbose {
		verbose = true
	}
}

// logFailure adds detail about err at debug level, visible with --verbose.
func logFailure(err error) {
	var fsErr *wallet.FileSystemError
	if errors.As(err, &fsErr) {
		cliLog.Debug("filesystem failure", "op", fsErr.Op, "path", fsErr.Path, "cause", fsErr.Err.Error())
		return
	}
	var walletErr *wallet.WalletError
	if errors.As(err, &walletErr) {
		cliLog.Debug("wallet rule violated", "reason", walletErr.Error())
		return
	}
	cliLog.Debug("command failed", "type", fmt.Sprintf("%T", err))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&addressOnly, "address", "a", false, "Limit output to public blockchain address(es) only (overrides --format)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "Output format, e.g. \"<label> <pub> <wif>\" (see 'opensig info --help')")
	rootCmd.PersistentFlags().StringVarP(&walletPath, "wallet", "w", "", "Use the given wallet file instead of ~/.opensig/wallet")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Display verbose diagnostics on stderr")
	rootCmd.PersistentFlags().StringVarP(&networkName, "network", "n", "mainnet", "Network for new keys and addresses: mainnet or testnet")
}
