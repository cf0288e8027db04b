// Package signer creates and checks detached file signatures.
//
// A file is signed by hashing it with SHA-256 and signing the hex digest as a
// Bitcoin signed message. The signature is the base64 compact form, from which
// the signer's public key (and therefore address) can be recovered.
package signer

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/opensig/opensig-cli/pkg/keypair"
)

const messageMagic = "Bitcoin Signed Message:\n"

// compactSigLen is the length of a decoded compact signature: recovery byte, R and S.
const compactSigLen = 65

// ErrInvalidSignature is returned when a signature cannot be decoded or recovered.
var ErrInvalidSignature = errors.New("invalid signature")

// Signature is a signed file digest.
type Signature struct {
	Digest    string
	Address   string
	Signature string
}

// Recovered describes the signer recovered from a signature.
type Recovered struct {
	Digest     string
	Address    string
	Compressed bool
}

// Digest returns the lowercase hex SHA-256 of everything read from r.
func Digest(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash data: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileDigest returns the hex SHA-256 of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Digest(f)
}

// MessageHash returns the double SHA-256 that is signed for message.
func MessageHash(message string) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarString(&buf, 0, messageMagic); err != nil {
		return nil, err
	}
	if err := wire.WriteVarString(&buf, 0, message); err != nil {
		return nil, err
	}
	return chainhash.DoubleHashB(buf.Bytes()), nil
}

// SignMessage signs message with kp and returns the base64 compact signature.
func SignMessage(message string, kp *keypair.KeyPair) (string, error) {
	if kp == nil {
		return "", errors.New("key cannot be nil")
	}
	hash, err := MessageHash(message)
	if err != nil {
		return "", fmt.Errorf("failed to hash message: %w", err)
	}
	sig := ecdsa.SignCompact(kp.PrivKey(), hash, kp.Compressed())
	return base64.StdEncoding.EncodeToString(sig), nil
}

// RecoverMessage returns the address that produced sig over message.
func RecoverMessage(message, sig string, net *chaincfg.Params) (string, bool, error) {
	raw, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(raw) != compactSigLen {
		return "", false, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, compactSigLen, len(raw))
	}
	hash, err := MessageHash(message)
	if err != nil {
		return "", false, fmt.Errorf("failed to hash message: %w", err)
	}
	pub, compressed, err := ecdsa.RecoverCompact(raw, hash)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if net == nil {
		net = &chaincfg.MainNetParams
	}
	serialized := pub.SerializeUncompressed()
	if compressed {
		serialized = pub.SerializeCompressed()
	}
	return keypair.AddressForPubKey(serialized, net), compressed, nil
}

// SignFile signs the SHA-256 digest of the file at path.
func SignFile(path string, kp *keypair.KeyPair) (*Signature, error) {
	digest, err := FileDigest(path)
	if err != nil {
		return nil, err
	}
	sig, err := SignMessage(digest, kp)
	if err != nil {
		return nil, err
	}
	return &Signature{
		Digest:    digest,
		Address:   kp.Address(),
		Signature: sig,
	}, nil
}

// VerifyFile recovers the signer of the file at path from sig. Any valid
// compact signature recovers some address, so callers compare it with the
// address they expect.
func VerifyFile(path, sig string, net *chaincfg.Params) (*Recovered, error) {
	digest, err := FileDigest(path)
	if err != nil {
		return nil, err
	}
	addr, compressed, err := RecoverMessage(digest, sig, net)
	if err != nil {
		return nil, err
	}
	return &Recovered{
		Digest:     digest,
		Address:    addr,
		Compressed: compressed,
	}, nil
}
