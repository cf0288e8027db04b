// Package network provides Bitcoin network configuration utilities.
package network

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Config holds network-specific configuration.
type Config struct {
	Name   string
	Params *chaincfg.Params
}

// Mainnet configuration
var Mainnet = Config{
	Name:   "mainnet",
	Params: &chaincfg.MainNetParams,
}

// Testnet configuration (testnet3)
var Testnet = Config{
	Name:   "testnet",
	Params: &chaincfg.TestNet3Params,
}

// Lookup returns the network configuration for the given network name.
// An empty name selects mainnet.
func Lookup(name string) (Config, error) {
	switch strings.ToLower(name) {
	case "", "mainnet", "main":
		return Mainnet, nil
	case "testnet", "test", "testnet3":
		return Testnet, nil
	default:
		return Config{}, fmt.Errorf("unknown network %q (use mainnet or testnet)", name)
	}
}
