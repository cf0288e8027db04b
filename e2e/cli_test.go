//go:build clie2e

package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const (
	testWIFC     = "KwdMAjGmerYanjeui5SHS7JkmpZvVipYvB2LJGU1ZxJwYvP98617"
	testAddrC    = "1LoVGDgRs9hTfTNJNuXKSpywcbdvwRXpmK"
	testPassword = "backup-password"
)

// runCLI executes the opensig CLI with the given environment and arguments.
func runCLI(t *testing.T, env []string, args ...string) (string, string, error) {
	t.Helper()

	// For help commands, don't add extra flags
	isHelpCmd := false
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			isHelpCmd = true
			break
		}
	}

	fullArgs := args
	if !isHelpCmd {
		fullArgs = append([]string{"--network", *networkFlag}, args...)
	}

	binPath := cliBinaryPath
	if binPath == "" {
		// Fallback for direct execution without TestMain setup.
		binPath = "../opensig"
	}
	cmd := exec.Command(binPath, fullArgs...)
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// =============================================================================
// CLI Help Tests
// =============================================================================

func TestCLIHelp(t *testing.T) {
	stdout, _, err := runCLI(t, cliEnv(t), "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}

	for _, want := range []string{"info", "create", "sign", "verify", "wallet"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output missing %q command", want)
		}
	}
}

func TestCLIWalletHelp(t *testing.T) {
	stdout, _, err := runCLI(t, cliEnv(t), "wallet", "--help")
	if err != nil {
		t.Fatalf("wallet help failed: %v", err)
	}

	for _, want := range []string{"list", "check", "backup", "restore"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("wallet help output missing %q subcommand", want)
		}
	}
}

// =============================================================================
// Key Tests
// =============================================================================

func TestCLICreatePrintsKey(t *testing.T) {
	stdout, stderr, err := runCLI(t, cliEnv(t), "create")
	if err != nil {
		t.Fatalf("create failed: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "private key:") || !strings.Contains(stdout, "wif:") {
		t.Errorf("create output = %q, want full key details", stdout)
	}
}

func TestCLIInfoExternalWIF(t *testing.T) {
	if *networkFlag != "mainnet" {
		t.Skip("address vector is for mainnet")
	}
	stdout, stderr, err := runCLI(t, cliEnv(t), "info", testWIFC)
	if err != nil {
		t.Fatalf("info failed: %v\nstderr: %s", err, stderr)
	}
	if strings.TrimSpace(stdout) != testAddrC {
		t.Errorf("info output = %q, want %s", stdout, testAddrC)
	}
}

func TestCLIInfoUnresolvable(t *testing.T) {
	_, stderr, err := runCLI(t, cliEnv(t), "info", "no-such-label")
	if err == nil {
		t.Fatal("info of an unknown label should fail")
	}
	if !strings.Contains(stderr, "argument is not a valid wallet label, private key, readable file or wif") {
		t.Errorf("stderr = %q, want unresolved key error", stderr)
	}
}

// =============================================================================
// Wallet Lifecycle
// =============================================================================

func TestCLIWalletLifecycle(t *testing.T) {
	env := cliEnv(t, envBackupPassword+"="+testPassword)
	walletFile := filepath.Join(t.TempDir(), "wallets", "main")
	withWallet := func(args ...string) []string {
		return append([]string{"--wallet", walletFile}, args...)
	}

	t.Run("create wallet", func(t *testing.T) {
		if _, stderr, err := runCLI(t, env, withWallet("create", "wallet")...); err != nil {
			t.Fatalf("create wallet failed: %v\nstderr: %s", err, stderr)
		}
		if _, _, err := runCLI(t, env, withWallet("create", "wallet")...); err == nil {
			t.Fatal("second create wallet should fail")
		}
	})

	t.Run("save keys", func(t *testing.T) {
		if _, stderr, err := runCLI(t, env, withWallet("create", "-s", "alice")...); err != nil {
			t.Fatalf("create -s alice failed: %v\nstderr: %s", err, stderr)
		}
		if _, stderr, err := runCLI(t, env, withWallet("create", "-k", testWIFC, "-s", "bob")...); err != nil {
			t.Fatalf("create -k -s bob failed: %v\nstderr: %s", err, stderr)
		}
		if _, _, err := runCLI(t, env, withWallet("create", "-s", "ALICE")...); err == nil {
			t.Fatal("saving a duplicate label should fail")
		}
	})

	t.Run("list", func(t *testing.T) {
		stdout, stderr, err := runCLI(t, env, withWallet("wallet", "list")...)
		if err != nil {
			t.Fatalf("wallet list failed: %v\nstderr: %s", err, stderr)
		}
		if !strings.Contains(stdout, "alice") || !strings.Contains(stdout, "bob") {
			t.Errorf("wallet list output = %q, want alice and bob", stdout)
		}
	})

	t.Run("sign and verify", func(t *testing.T) {
		doc := writeTestFile(t, "doc.txt", "signed content")

		stdout, stderr, err := runCLI(t, env, withWallet("sign", doc, "bob")...)
		if err != nil {
			t.Fatalf("sign failed: %v\nstderr: %s", err, stderr)
		}
		fields := strings.Split(strings.TrimSpace(stdout), "\t")
		if len(fields) != 2 {
			t.Fatalf("sign output = %q, want <address>\\t<signature>", stdout)
		}
		sig := fields[1]

		stdout, stderr, err = runCLI(t, env, withWallet("verify", doc, sig, "--expect", "bob")...)
		if err != nil {
			t.Fatalf("verify failed: %v\nstderr: %s", err, stderr)
		}
		if !strings.HasSuffix(strings.TrimSpace(stdout), "\tbob") {
			t.Errorf("verify output = %q, want bob as signer", stdout)
		}

		if _, _, err := runCLI(t, env, withWallet("verify", doc, sig, "--expect", "alice")...); err == nil {
			t.Error("verify --expect alice should fail for bob's signature")
		}
	})

	t.Run("backup and restore", func(t *testing.T) {
		backupFile := filepath.Join(t.TempDir(), "wallet.backup")
		if _, stderr, err := runCLI(t, env, withWallet("wallet", "backup", backupFile)...); err != nil {
			t.Fatalf("wallet backup failed: %v\nstderr: %s", err, stderr)
		}

		restored := filepath.Join(t.TempDir(), "restored")
		if _, stderr, err := runCLI(t, env, "--wallet", restored, "wallet", "restore", backupFile); err != nil {
			t.Fatalf("wallet restore failed: %v\nstderr: %s", err, stderr)
		}

		original, err := os.ReadFile(walletFile)
		if err != nil {
			t.Fatalf("failed to read wallet: %v", err)
		}
		got, err := os.ReadFile(restored)
		if err != nil {
			t.Fatalf("failed to read restored wallet: %v", err)
		}
		if !bytes.Equal(got, original) {
			t.Errorf("restored wallet = %q, want %q", got, original)
		}

		if _, _, err := runCLI(t, env, "--wallet", restored, "wallet", "restore", backupFile); err == nil {
			t.Error("restore over an existing wallet should fail")
		}
	})

	t.Run("check corrupt wallet", func(t *testing.T) {
		f, err := os.OpenFile(walletFile, os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			t.Fatalf("failed to open wallet: %v", err)
		}
		_, _ = f.WriteString("\nnot a wallet entry")
		_ = f.Close()

		stdout, _, err := runCLI(t, env, withWallet("wallet", "check")...)
		if err == nil {
			t.Fatal("wallet check should fail for a corrupt wallet")
		}
		if !strings.Contains(stdout, "ignoring corrupt wallet entry: not a wallet entry") {
			t.Errorf("wallet check output = %q, want corrupt entry warning", stdout)
		}

		// Other commands still work and warn on stderr
		_, stderr, err := runCLI(t, env, withWallet("info", "alice")...)
		if err != nil {
			t.Fatalf("info on corrupt wallet failed: %v", err)
		}
		if !strings.Contains(stderr, "ignoring corrupt wallet entry") {
			t.Errorf("stderr = %q, want corrupt entry warning", stderr)
		}
	})
}
