package cmd

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/opensig/opensig-cli/pkg/wallet"
)

func TestCreateWallet(t *testing.T) {
	path := setupCmdTest(t)

	out := mustRun(t, createCmd, "wallet")
	if !strings.Contains(out, path) {
		t.Errorf("create wallet output = %q, want the wallet path", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read wallet: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("new wallet content = %q, want empty", data)
	}

	_, err = runCmd(t, createCmd, "wallet")
	if !errors.Is(err, wallet.ErrWalletExists) {
		t.Errorf("second create wallet error = %v, want ErrWalletExists", err)
	}
}

func TestCreate_UnknownTarget(t *testing.T) {
	setupCmdTest(t)

	if _, err := runCmd(t, createCmd, "wallets"); err == nil {
		t.Error("create with unknown target should fail")
	}
}

func TestCreate_PrintsNewKey(t *testing.T) {
	path := setupCmdTest(t)

	out := mustRun(t, createCmd)
	for _, want := range []string{"address:", "private key:", "wif:"} {
		if !strings.Contains(out, want) {
			t.Errorf("create output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("create without --save should not touch the wallet")
	}

	addressOnly = true
	out = mustRun(t, createCmd)
	if got := strings.TrimSpace(out); !strings.HasPrefix(got, "1") || strings.Contains(got, "\n") {
		t.Errorf("create -a output = %q, want a single mainnet address", got)
	}
}

func TestCreate_Testnet(t *testing.T) {
	setupCmdTest(t)
	networkName = "testnet"
	addressOnly = true

	out := strings.TrimSpace(mustRun(t, createCmd))
	if !strings.HasPrefix(out, "m") && !strings.HasPrefix(out, "n") {
		t.Errorf("create --network testnet output = %q, want a testnet address", out)
	}
}

func TestCreate_SaveAndImport(t *testing.T) {
	path := setupCmdTest(t)
	mustRun(t, createCmd, "wallet")

	createSave = "alice"
	out := mustRun(t, createCmd)
	if !strings.HasPrefix(out, "alice\t") {
		t.Errorf("create -s output = %q, want alice's entry", out)
	}

	createKey, createSave = testWIFC, "bob"
	out = mustRun(t, createCmd)
	if out != "bob\t"+testAddrC+"\n" {
		t.Errorf("create -k -s output = %q, want bob's entry", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read wallet: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 2 {
		t.Fatalf("wallet has %d lines, want 2: %q", len(lines), data)
	}
	if !strings.HasSuffix(lines[0], "\talice") || lines[1] != testWIFC+"\tbob" {
		t.Errorf("wallet content = %q", data)
	}
}

func TestCreate_SaveErrors(t *testing.T) {
	setupCmdTest(t)

	// No wallet yet
	createSave = "alice"
	if _, err := runCmd(t, createCmd); err == nil {
		t.Error("create -s without a wallet should fail")
	}

	mustRun(t, createCmd, "wallet")
	createKey, createSave = testWIFC, "alice"
	mustRun(t, createCmd)

	tests := []struct {
		name    string
		key     string
		save    string
		wantErr error
	}{
		{"duplicate label", "", "ALICE", wallet.ErrLabelInUse},
		{"duplicate key", testWIFC, "carol", wallet.ErrKeyExists},
		{"label with tab", "", "a\tb", wallet.ErrInvalidLabel},
		{"label with newline", "", "a\nb", wallet.ErrInvalidLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			createKey, createSave = tt.key, tt.save
			_, err := runCmd(t, createCmd)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("create error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	w, err := openWallet(true)
	if err != nil {
		t.Fatalf("openWallet() error = %v", err)
	}
	if w.Len() != 1 || w.HasWarnings() {
		t.Errorf("wallet has %d key(s), warnings %q, want only alice", w.Len(), w.DumpWarnings())
	}
}

func TestCreate_KeyRequiresSave(t *testing.T) {
	setupCmdTest(t)
	createKey = testWIFC

	_, err := runCmd(t, createCmd)
	if err == nil || !strings.Contains(err.Error(), "without a label") {
		t.Errorf("create -k error = %v, want missing label error", err)
	}
}

func TestCreate_InvalidKey(t *testing.T) {
	setupCmdTest(t)
	mustRun(t, createCmd, "wallet")
	createKey, createSave = "not-a-key", "alice"

	if _, err := runCmd(t, createCmd); err == nil {
		t.Error("create -k with an invalid key should fail")
	}
}
