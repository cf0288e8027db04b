package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/opensig/opensig-cli/pkg/keypair"
	"github.com/opensig/opensig-cli/pkg/network"
	"github.com/opensig/opensig-cli/pkg/wallet"
)

// errUnresolvedKey is reported when a key argument matches nothing usable.
var errUnresolvedKey = errors.New("argument is not a valid wallet label, private key, readable file or wif")

// resolveWalletPath returns --wallet if set, otherwise the default wallet path.
func resolveWalletPath() (string, error) {
	if walletPath != "" {
		return walletPath, nil
	}
	return wallet.DefaultPath()
}

// currentNetwork returns the network selected by --network or OPENSIG_NETWORK.
func currentNetwork() (network.Config, error) {
	return network.Lookup(networkName)
}

// openWallet loads the wallet file and logs any entries skipped while parsing.
// If required is false, a missing wallet file yields an empty wallet so that
// external keys can still be used.
func openWallet(required bool) (*wallet.Wallet, error) {
	path, err := resolveWalletPath()
	if err != nil {
		return nil, err
	}

	w := wallet.New(path)
	cliLog.Debug("opening wallet", "path", path)
	if err := w.Open(); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			cliLog.Debug("no wallet file, continuing with an empty wallet", "path", path)
			return w, nil
		}
		return nil, fmt.Errorf("failed to open wallet: %w", err)
	}
	logWarnings(w)
	return w, nil
}

// logWarnings reports each corrupt entry skipped by the last load.
func logWarnings(w *wallet.Wallet) {
	for _, warning := range w.Warnings() {
		cliLog.Warn(warning, "wallet", w.Path())
	}
}

// resolveKey finds the key named by token. Wallet keys are tried first; an
// unknown token is then read as a WIF, a hex private key, or a file whose
// digest is the key.
func resolveKey(w *wallet.Wallet, token string, net network.Config) (*keypair.KeyPair, error) {
	if token == "" {
		return nil, wallet.ErrEmptyToken
	}

	req := wallet.Token(token)
	if key, ok := w.GetKey(req); ok {
		cliLog.Debug("resolved key from wallet", "kind", w.Classify(req).String(), "label", key.Label())
		return key, nil
	}
	if w.Classify(req) == wallet.KindDefault {
		return nil, fmt.Errorf("wallet %s has no default key", w.Path())
	}

	return externalKey(token, net)
}

// externalKey interprets token as a key that is not stored in the wallet.
func externalKey(token string, net network.Config) (*keypair.KeyPair, error) {
	key, err := keypair.NewForNetwork(token, "", false, net.Params)
	if err == nil {
		cliLog.Debug("resolved external key")
		return key, nil
	}
	cliLog.Debug("token is not a key", "reason", err.Error())

	key, fileErr := keypair.FromFile(token, "", net.Params)
	if fileErr == nil {
		cliLog.Debug("resolved file key", "file", token)
		return key, nil
	}
	cliLog.Debug("token is not a readable file", "reason", fileErr.Error())

	return nil, errUnresolvedKey
}

// formatFor returns the output format, honouring --format and --address.
func formatFor(defaultFormat string) string {
	if addressOnly {
		return keypair.PlaceholderPub
	}
	if outputFormat != "" {
		return outputFormat
	}
	return defaultFormat
}
