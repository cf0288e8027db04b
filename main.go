// opensig provides command-line utilities for OpenSig keys and file signatures.
//
// It creates secp256k1 keys, keeps them in a flat-file wallet, and uses them
// to sign files and to recover the signer of a signed file.
package main

import (
	"github.com/opensig/opensig-cli/cmd"
)

func main() {
	cmd.Execute()
}
