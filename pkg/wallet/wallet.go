// Package wallet implements the flat-file OpenSig key wallet.
//
// The wallet file holds one key per line as "<wif>\t<label>". Lines that
// cannot be parsed are skipped on load and reported as warnings, so a partly
// corrupt wallet remains usable.
package wallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/opensig/opensig-cli/pkg/keypair"
)

const (
	// FilePerm is the permission of the wallet file.
	FilePerm = 0600
	// DirPerm is the permission of directories created for a new wallet.
	DirPerm = 0700

	walletDir  = ".opensig"
	walletFile = "wallet"

	fieldSep  = "\t"
	recordSep = "\n"
)

// Decoder builds a key record from a stored WIF and label.
type Decoder func(keyOrWIF, label string, uncompressed bool) (*keypair.KeyPair, error)

// Wallet is an ordered set of labelled keys backed by a file. The first key
// is the default key.
type Wallet struct {
	path                string
	fs                  afero.Fs
	decode              Decoder
	defaultUncompressed bool

	keys     []*keypair.KeyPair
	warnings []string
}

// DefaultPath returns the default wallet path (~/.opensig/wallet).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, walletDir, walletFile), nil
}

// New returns an empty wallet bound to path on the local disk. Call Open or
// Create before use.
func New(path string) *Wallet {
	return NewWithFS(path, afero.NewOsFs())
}

// NewWithFS is like New but reads and writes through fsys.
func NewWithFS(path string, fsys afero.Fs) *Wallet {
	return &Wallet{
		path:   path,
		fs:     fsys,
		decode: keypair.New,
	}
}

// SetDecoder replaces the key record constructor used by Open.
func (w *Wallet) SetDecoder(d Decoder) {
	w.decode = d
}

// SetDefaultUncompressed makes Open treat raw stored keys as uncompressed.
func (w *Wallet) SetDefaultUncompressed(uncompressed bool) {
	w.defaultUncompressed = uncompressed
}

// Open loads the wallet from disk, discarding any keys held in memory.
// It fails only if the file cannot be read; corrupt lines become warnings.
func (w *Wallet) Open() error {
	data, err := afero.ReadFile(w.fs, w.path)
	if err != nil {
		return &FileSystemError{Op: "read wallet", Path: w.path, Err: err}
	}
	w.Load(data)
	return nil
}

// Load replaces the keys held in memory with those parsed from data, which is
// in wallet file format. Corrupt lines are skipped and recorded as warnings.
func (w *Wallet) Load(data []byte) {
	w.keys = nil
	w.warnings = nil

	for _, line := range strings.Split(string(data), recordSep) {
		if line == "" {
			continue
		}
		fields := strings.Split(line, fieldSep)
		if len(fields) != 2 {
			w.warn("ignoring corrupt wallet entry: %s", line)
			continue
		}
		key, err := w.decode(fields[0], fields[1], w.defaultUncompressed)
		if err != nil {
			w.warn("ignoring corrupt wallet entry (%v): %s", err, line)
			continue
		}
		w.keys = append(w.keys, key)
	}
}

// Create writes a new empty wallet file, creating parent directories as needed.
// It fails with ErrWalletExists if a file is already present at the path.
func (w *Wallet) Create() error {
	if isFile(w.fs, w.path) {
		return ErrWalletExists
	}
	dir := filepath.Dir(w.path)
	if err := w.fs.MkdirAll(dir, DirPerm); err != nil {
		return &FileSystemError{Op: "create wallet directory", Path: dir, Err: err}
	}
	w.keys = nil
	w.warnings = nil
	return w.Save()
}

// Save replaces the wallet file with the keys currently held, in order.
func (w *Wallet) Save() error {
	if err := writeFileAtomic(w.fs, w.path, w.Bytes(), FilePerm); err != nil {
		return &FileSystemError{Op: "write wallet", Path: w.path, Err: err}
	}
	return nil
}

// Bytes returns the keys held in memory in wallet file format.
func (w *Wallet) Bytes() []byte {
	lines := make([]string, len(w.keys))
	for i, k := range w.keys {
		lines[i] = k.WIF() + fieldSep + k.Label()
	}
	return []byte(strings.Join(lines, recordSep))
}

// AddKey appends key to the wallet in memory. Call Save to persist it.
func (w *Wallet) AddKey(key *keypair.KeyPair) error {
	if key == nil {
		return errors.New("key cannot be nil")
	}
	if w.HasWIF(key.WIF()) {
		return ErrKeyExists
	}
	if strings.ContainsAny(key.Label(), fieldSep+recordSep) {
		return ErrInvalidLabel
	}
	if w.HasLabel(key.Label()) {
		return ErrLabelInUse
	}
	w.keys = append(w.keys, key)
	return nil
}

// HasWIF reports whether a key with the given WIF is in the wallet.
func (w *Wallet) HasWIF(wif string) bool {
	_, ok := w.KeyFromWIF(wif)
	return ok
}

// HasLabel reports whether label is in use. Labels are case insensitive.
func (w *Wallet) HasLabel(label string) bool {
	_, ok := w.KeyFromLabel(label)
	return ok
}

// DefaultKey returns the first key in the wallet.
func (w *Wallet) DefaultKey() (*keypair.KeyPair, bool) {
	if len(w.keys) == 0 {
		return nil, false
	}
	return w.keys[0], true
}

// KeyFromWIF returns the key with exactly the given WIF.
func (w *Wallet) KeyFromWIF(wif string) (*keypair.KeyPair, bool) {
	for _, k := range w.keys {
		if k.WIF() == wif {
			return k, true
		}
	}
	return nil, false
}

// KeyFromPrivateKey returns the key with exactly the given hex private key.
func (w *Wallet) KeyFromPrivateKey(privateKey string) (*keypair.KeyPair, bool) {
	for _, k := range w.keys {
		if k.PrivateKey() == privateKey {
			return k, true
		}
	}
	return nil, false
}

// KeyFromLabel returns the key whose label matches, ignoring case.
func (w *Wallet) KeyFromLabel(label string) (*keypair.KeyPair, bool) {
	want := normalizeLabel(label)
	for _, k := range w.keys {
		if normalizeLabel(k.Label()) == want {
			return k, true
		}
	}
	return nil, false
}

// KeyFromAddress returns the key whose compressed or uncompressed address is
// addr on any network.
func (w *Wallet) KeyFromAddress(addr string) (*keypair.KeyPair, bool) {
	for _, k := range w.keys {
		if k.HasAddress(addr) {
			return k, true
		}
	}
	return nil, false
}

// GetKey resolves r to a wallet key. In order: the default key for a default
// request, an empty token or "default-key"; a WIF-shaped token by WIF; a
// private-key-shaped token by private key; otherwise a label. A token that
// matches a shape but no stored key is not found, even if it is also a label.
func (w *Wallet) GetKey(r Request) (*keypair.KeyPair, bool) {
	switch w.Classify(r) {
	case KindDefault:
		return w.DefaultKey()
	case KindWIF:
		return w.KeyFromWIF(r.token)
	case KindPrivateKey:
		return w.KeyFromPrivateKey(r.token)
	case KindLabel:
		return w.KeyFromLabel(r.token)
	default:
		return nil, false
	}
}

// Keys returns the wallet's keys in order.
func (w *Wallet) Keys() []*keypair.KeyPair {
	keys := make([]*keypair.KeyPair, len(w.keys))
	copy(keys, w.keys)
	return keys
}

// Len returns the number of keys in the wallet.
func (w *Wallet) Len() int {
	return len(w.keys)
}

// Path returns the wallet file path.
func (w *Wallet) Path() string {
	return w.path
}

// Format renders every key with keypair format, one key per line.
func (w *Wallet) Format(format string) string {
	lines := make([]string, len(w.keys))
	for i, k := range w.keys {
		lines[i] = k.Format(format)
	}
	return strings.Join(lines, "\n")
}

func (w *Wallet) warn(format string, args ...any) {
	w.warnings = append(w.warnings, fmt.Sprintf(format, args...))
}

// HasWarnings reports whether the last Open skipped any entries.
func (w *Wallet) HasWarnings() bool {
	return len(w.warnings) > 0
}

// Warnings returns the warnings from the last Open in the order recorded.
func (w *Wallet) Warnings() []string {
	warnings := make([]string, len(w.warnings))
	copy(warnings, w.warnings)
	return warnings
}

// DumpWarnings returns the warnings joined by newlines, or "" if there are none.
func (w *Wallet) DumpWarnings() string {
	return strings.Join(w.warnings, "\n")
}

func normalizeLabel(label string) string {
	return strings.ToUpper(label)
}
