package wallet

import "fmt"

// WalletError reports a violation of a wallet rule, such as a duplicate key.
// The caller can recover, for example by choosing a different label.
type WalletError struct {
	msg string
}

func (e *WalletError) Error() string {
	return e.msg
}

var (
	ErrWalletExists = &WalletError{msg: "wallet already exists"}
	ErrKeyExists    = &WalletError{msg: "key already present in wallet"}
	ErrLabelInUse   = &WalletError{msg: "key label already in use in wallet"}
	ErrEmptyToken   = &WalletError{msg: "key cannot be empty"}
	ErrInvalidLabel = &WalletError{msg: "key label cannot contain tabs or newlines"}
)

// FileSystemError wraps an I/O failure on the wallet file or its directory.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error {
	return e.Err
}
