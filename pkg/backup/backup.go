// Package backup writes and reads password-encrypted copies of a wallet file.
//
// The wallet content is sealed with AES-256-GCM under a key derived from the
// password with Argon2id. The backup file is JSON with base64 fields.
package backup

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters - these are the OWASP recommended values
	argon2Time    = 3         // Number of iterations
	argon2Memory  = 64 * 1024 // Memory in KiB (64 MiB)
	argon2Threads = 4         // Number of threads
	argon2KeyLen  = 32        // Output key length (256 bits for AES-256)

	saltSize  = 16
	nonceSize = 12

	// MinPasswordLen is the shortest accepted backup password.
	MinPasswordLen = 8

	fileVersion = 1
	filePerm    = 0600
)

// additionalData binds ciphertexts to this file format.
var additionalData = []byte("opensig-wallet-backup-v1")

// ErrWrongPassword is returned when a backup cannot be authenticated.
var ErrWrongPassword = errors.New("decryption failed (wrong password?)")

// File is the on-disk backup format.
type File struct {
	Version    int       `json:"version"`
	KDF        string    `json:"kdf"`
	Salt       string    `json:"salt"`
	Nonce      string    `json:"nonce"`
	Ciphertext string    `json:"ciphertext"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password []byte) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	return nil
}

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext under password with a fresh salt and nonce.
func Seal(plaintext, password []byte) (*File, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	salt, err := randomBytes(saltSize)
	if err != nil {
		return nil, err
	}
	nonce, err := randomBytes(nonceSize)
	if err != nil {
		return nil, err
	}

	key := deriveKey(password, salt)
	defer clearBytes(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return &File{
		Version:    fileVersion,
		KDF:        "argon2id",
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, plaintext, additionalData)),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Open decrypts f with password.
func Open(f *File, password []byte) ([]byte, error) {
	if f.Version != fileVersion {
		return nil, fmt.Errorf("unsupported backup version %d", f.Version)
	}
	salt, err := base64.StdEncoding.DecodeString(f.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(f.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(f.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	key := deriveKey(password, salt)
	defer clearBytes(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("invalid nonce length: expected %d bytes, got %d", gcm.NonceSize(), len(nonce))
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrWrongPassword
	}
	return plaintext, nil
}

// Write seals plaintext and writes it to path. It refuses to overwrite an existing file.
func Write(path string, plaintext, password []byte) error {
	f, err := Seal(plaintext, password)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close backup file: %w", err)
	}
	return nil
}

// Read reads the backup at path and decrypts it with password.
func Read(path string, password []byte) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse backup file: %w", err)
	}
	return Open(&f, password)
}

// clearBytes zeros a byte slice so key material does not linger in memory.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
