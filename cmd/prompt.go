package cmd

import (
	"crypto/subtle"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/opensig/opensig-cli/pkg/backup"
)

// clearBytes securely zeros a byte slice to prevent sensitive data from lingering in memory.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// readSecret prompts on stderr and reads a line from the terminal without echo.
// The returned slice must be cleared by the caller when no longer needed.
func readSecret(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal: cannot prompt for %s", prompt)
	}
	fmt.Fprintf(os.Stderr, "Enter %s: ", prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", prompt, err)
	}
	return secret, nil
}

// promptPassword prompts for a password. If confirm is true, asks for confirmation.
// The returned password must be cleared by the caller when no longer needed.
func promptPassword(confirm bool) ([]byte, error) {
	password, err := readSecret("password")
	if err != nil {
		return nil, err
	}

	if err := backup.ValidatePassword(password); err != nil {
		clearBytes(password)
		return nil, err
	}

	if confirm {
		confirmPwd, err := readSecret("password again")
		if err != nil {
			clearBytes(password)
			return nil, fmt.Errorf("failed to read password confirmation: %w", err)
		}

		// Use constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare(password, confirmPwd) != 1 {
			clearBytes(password)
			clearBytes(confirmPwd)
			return nil, fmt.Errorf("passwords do not match")
		}
		clearBytes(confirmPwd)
	}

	return password, nil
}

// backupPassword returns OPENSIG_BACKUP_PASSWORD if set, otherwise prompts.
func backupPassword(confirm bool) ([]byte, error) {
	if pwd := envConfig.BackupPasswordBytes(); pwd != nil {
		if err := backup.ValidatePassword(pwd); err != nil {
			clearBytes(pwd)
			return nil, fmt.Errorf("OPENSIG_BACKUP_PASSWORD: %w", err)
		}
		return pwd, nil
	}
	return promptPassword(confirm)
}
