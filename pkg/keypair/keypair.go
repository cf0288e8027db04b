// Package keypair encodes, parses and formats secp256k1 key pairs.
package keypair

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"
)

// PrivateKeyLen is the length in bytes of a raw secp256k1 private key.
const PrivateKeyLen = 32

const pubKeyHashLen = 20

// KeyPair is a labelled private key together with its encodings.
type KeyPair struct {
	label      string
	key        *btcec.PrivateKey
	wif        string
	compressed bool
	net        *chaincfg.Params
}

// New parses keyOrWIF as either a WIF or a hex private key (optionally 0x-prefixed).
// A WIF carries its own compression flag and network. For hex keys the public key
// is compressed unless uncompressed is set, and the network defaults to mainnet.
func New(keyOrWIF, label string, uncompressed bool) (*KeyPair, error) {
	return NewForNetwork(keyOrWIF, label, uncompressed, &chaincfg.MainNetParams)
}

// NewForNetwork is like New but encodes hex keys for the given network.
func NewForNetwork(keyOrWIF, label string, uncompressed bool, net *chaincfg.Params) (*KeyPair, error) {
	keyOrWIF = strings.TrimSpace(keyOrWIF)
	if keyOrWIF == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	if isHexKey(keyOrWIF) {
		keyBytes, err := ParsePrivateKey(keyOrWIF)
		if err != nil {
			return nil, err
		}
		key, err := ToPrivateKey(keyBytes)
		if err != nil {
			return nil, err
		}
		return fromKey(key, label, !uncompressed, net)
	}

	decoded, err := btcutil.DecodeWIF(keyOrWIF)
	if err != nil {
		return nil, fmt.Errorf("invalid wif: %w", err)
	}
	wifNet, err := wifNetwork(decoded)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		label:      label,
		key:        decoded.PrivKey,
		wif:        decoded.String(),
		compressed: decoded.CompressPubKey,
		net:        wifNet,
	}, nil
}

// Generate creates a new random key pair for the given network.
func Generate(label string, uncompressed bool, net *chaincfg.Params) (*KeyPair, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate random key: %w", err)
	}
	return fromKey(key, label, !uncompressed, net)
}

// FromFile derives a key pair from the SHA-256 digest of the file at path.
// Anyone holding the same file derives the same key.
func FromFile(path, label string, net *chaincfg.Params) (*KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	digest := sha256.Sum256(data)
	key, err := ToPrivateKey(digest[:])
	if err != nil {
		return nil, err
	}
	return fromKey(key, label, true, net)
}

func fromKey(key *btcec.PrivateKey, label string, compressed bool, net *chaincfg.Params) (*KeyPair, error) {
	if net == nil {
		net = &chaincfg.MainNetParams
	}
	wif, err := btcutil.NewWIF(key, net, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode wif: %w", err)
	}
	return &KeyPair{
		label:      label,
		key:        key,
		wif:        wif.String(),
		compressed: compressed,
		net:        net,
	}, nil
}

// wifNetwork returns the known network a decoded WIF belongs to. WIFs of
// other coins share the encoding but not the version byte.
func wifNetwork(w *btcutil.WIF) (*chaincfg.Params, error) {
	switch {
	case w.IsForNet(&chaincfg.MainNetParams):
		return &chaincfg.MainNetParams, nil
	case w.IsForNet(&chaincfg.TestNet3Params):
		return &chaincfg.TestNet3Params, nil
	}
	return nil, fmt.Errorf("invalid wif: unknown network version byte")
}

// isHexKey reports whether s looks like a hex private key rather than a WIF.
func isHexKey(s string) bool {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return true
	}
	if len(s) != 2*PrivateKeyLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// ParsePrivateKey decodes a hex private key, accepting an optional 0x/0X prefix.
func ParsePrivateKey(keyStr string) ([]byte, error) {
	keyStr = strings.TrimSpace(keyStr)
	keyStr = strings.TrimPrefix(strings.TrimPrefix(keyStr, "0x"), "0X")

	keyBytes, err := hex.DecodeString(keyStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex private key: %w", err)
	}
	return keyBytes, nil
}

// ToPrivateKey converts raw key bytes to a secp256k1 private key.
// The scalar must be non-zero and below the curve order.
func ToPrivateKey(keyBytes []byte) (*btcec.PrivateKey, error) {
	if len(keyBytes) != PrivateKeyLen {
		return nil, fmt.Errorf("invalid private key length: expected %d bytes, got %d", PrivateKeyLen, len(keyBytes))
	}
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("private key is out of range")
	}
	key, _ := btcec.PrivKeyFromBytes(keyBytes)
	return key, nil
}

// Label returns the key's label, which may be empty.
func (kp *KeyPair) Label() string {
	return kp.label
}

// WIF returns the key in Wallet Import Format, exactly as it was imported.
func (kp *KeyPair) WIF() string {
	return kp.wif
}

// PrivateKey returns the lowercase hex encoding of the raw private key.
func (kp *KeyPair) PrivateKey() string {
	return hex.EncodeToString(kp.key.Serialize())
}

// PrivKey returns the underlying secp256k1 private key.
func (kp *KeyPair) PrivKey() *btcec.PrivateKey {
	return kp.key
}

// Compressed reports whether the public key is serialized in compressed form.
func (kp *KeyPair) Compressed() bool {
	return kp.compressed
}

// Network returns the chain parameters used for address and WIF encoding.
func (kp *KeyPair) Network() *chaincfg.Params {
	return kp.net
}

// Address returns the P2PKH address for the key's own compression format.
func (kp *KeyPair) Address() string {
	if kp.compressed {
		return kp.CompressedAddress()
	}
	return kp.UncompressedAddress()
}

// CompressedAddress returns the P2PKH address of the compressed public key.
func (kp *KeyPair) CompressedAddress() string {
	return address(kp.key.PubKey().SerializeCompressed(), kp.net)
}

// UncompressedAddress returns the P2PKH address of the uncompressed public key.
func (kp *KeyPair) UncompressedAddress() string {
	return address(kp.key.PubKey().SerializeUncompressed(), kp.net)
}

// HasAddress reports whether addr is the P2PKH address of either public key
// serialization. The network the address was encoded for is ignored.
func (kp *KeyPair) HasAddress(addr string) bool {
	hash, version, err := base58.CheckDecode(addr)
	if err != nil || len(hash) != pubKeyHashLen {
		return false
	}
	if version != chaincfg.MainNetParams.PubKeyHashAddrID && version != chaincfg.TestNet3Params.PubKeyHashAddrID {
		return false
	}
	pub := kp.key.PubKey()
	return bytes.Equal(hash, btcutil.Hash160(pub.SerializeCompressed())) ||
		bytes.Equal(hash, btcutil.Hash160(pub.SerializeUncompressed()))
}

// EthereumAddress returns the checksummed EVM address of the same key.
func (kp *KeyPair) EthereumAddress() string {
	ecdsaKey, err := crypto.ToECDSA(kp.key.Serialize())
	if err != nil {
		return ""
	}
	return crypto.PubkeyToAddress(ecdsaKey.PublicKey).Hex()
}

// CompressedWIF returns the WIF encoding with the compressed flag set.
func (kp *KeyPair) CompressedWIF() string {
	return kp.encodeWIF(true)
}

// UncompressedWIF returns the WIF encoding without the compressed flag.
func (kp *KeyPair) UncompressedWIF() string {
	return kp.encodeWIF(false)
}

func (kp *KeyPair) encodeWIF(compressed bool) string {
	if compressed == kp.compressed {
		return kp.wif
	}
	w, err := btcutil.NewWIF(kp.key, kp.net, compressed)
	if err != nil {
		return ""
	}
	return w.String()
}

// AddressForPubKey encodes a serialized public key as a P2PKH address.
func AddressForPubKey(pubKey []byte, net *chaincfg.Params) string {
	return address(pubKey, net)
}

func address(pubKey []byte, net *chaincfg.Params) string {
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pubKey), net)
	if err != nil {
		return ""
	}
	return addr.EncodeAddress()
}
