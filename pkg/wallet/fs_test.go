package wallet

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// failingFs wraps an in-memory filesystem and fails selected operations.
type failingFs struct {
	afero.Fs
	readErr  error
	writeErr error
	mkdirErr error
}

func newFailingFs() failingFs {
	return failingFs{Fs: afero.NewMemMapFs()}
}

func (f failingFs) Open(name string) (afero.File, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.Fs.Open(name)
}

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.writeErr != nil && flag&os.O_CREATE != 0 {
		return nil, f.writeErr
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f failingFs) MkdirAll(path string, perm os.FileMode) error {
	if f.mkdirErr != nil {
		return f.mkdirErr
	}
	return f.Fs.MkdirAll(path, perm)
}

func TestFileSystemErrors(t *testing.T) {
	errBoom := errors.New("boom")

	withRead := newFailingFs()
	withRead.readErr = errBoom
	withWrite := newFailingFs()
	withWrite.writeErr = errBoom
	withMkdir := newFailingFs()
	withMkdir.mkdirErr = errBoom

	tests := []struct {
		name string
		fs   afero.Fs
		run  func(w *Wallet) error
		op   string
	}{
		{"read", withRead, (*Wallet).Open, "read wallet"},
		{"write", withWrite, (*Wallet).Save, "write wallet"},
		{"mkdir", withMkdir, (*Wallet).Create, "create wallet directory"},
		{"create write", withWrite, (*Wallet).Create, "write wallet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWithFS(filepath.Join("/wallets", tt.name, "wallet"), tt.fs)
			err := tt.run(w)

			var fsErr *FileSystemError
			if !errors.As(err, &fsErr) {
				t.Fatalf("error = %v, want *FileSystemError", err)
			}
			if fsErr.Op != tt.op {
				t.Errorf("Op = %q, want %q", fsErr.Op, tt.op)
			}
			if !errors.Is(err, errBoom) {
				t.Errorf("error = %v, want it to wrap the underlying error", err)
			}
		})
	}
}

func TestMemFs_CreateSaveOpen(t *testing.T) {
	memFs := afero.NewMemMapFs()
	path := "/home/user/.opensig/wallet"

	w := NewWithFS(path, memFs)
	if err := w.Create(); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := w.AddKey(mustKey(t, testWIFC, "main")); err != nil {
		t.Fatalf("AddKey() error = %v", err)
	}
	if err := w.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := afero.ReadFile(memFs, path)
	if err != nil {
		t.Fatalf("failed to read wallet: %v", err)
	}
	if string(got) != testWIFC+"\tmain" {
		t.Errorf("wallet content = %q, want %q", got, testWIFC+"\tmain")
	}

	entries, err := afero.ReadDir(memFs, filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to list wallet directory: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}

	reloaded := NewWithFS(path, memFs)
	if err := reloaded.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if reloaded.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reloaded.Len())
	}
}

func TestCreate_DirectoryAtPath(t *testing.T) {
	// A directory is not a wallet file, so Create proceeds and fails on write
	path := t.TempDir()

	err := New(path).Create()
	if errors.Is(err, ErrWalletExists) {
		t.Fatal("Create() on a directory should not report ErrWalletExists")
	}
	var fsErr *FileSystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("Create() error = %v, want *FileSystemError", err)
	}
}

func TestWriteFileAtomic_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atomic")
	osFs := afero.NewOsFs()

	if err := writeFileAtomic(osFs, path, []byte("first"), FilePerm); err != nil {
		t.Fatalf("writeFileAtomic(first) error = %v", err)
	}
	if err := writeFileAtomic(osFs, path, []byte("second"), FilePerm); err != nil {
		t.Fatalf("writeFileAtomic(second) error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("file content = %q, want second", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != FilePerm {
		t.Errorf("file mode = %o, want %o", perm, FilePerm)
	}
}

func TestSave_FollowsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "wallet")

	if err := os.WriteFile(target, []byte(testWIFC+"\tmain"), FilePerm); err != nil {
		t.Fatalf("failed to write wallet: %v", err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	w := New(link)
	if err := w.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := w.AddKey(mustKey(t, testWIF, "two")); err != nil {
		t.Fatalf("AddKey() error = %v", err)
	}
	if err := w.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("failed to stat link: %v", err)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		t.Error("Save() replaced the symlink with a regular file")
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read link target: %v", err)
	}
	want := testWIFC + "\tmain\n" + testWIF + "\ttwo"
	if string(got) != want {
		t.Errorf("link target content = %q, want %q", got, want)
	}
}
