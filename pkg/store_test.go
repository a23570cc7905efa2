package hotcache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestNewRejectsMissingRoot(t *testing.T) {
	opt := NewStoreOpt().WithRoot("/does/not/exist").WithFS(afero.NewMemMapFs())
	_, err := New[testCtx](opt)
	var rootErr *RootDoesNotExistError
	if !errors.As(err, &rootErr) {
		t.Fatalf("New with a missing root should fail with RootDoesNotExistError, got %v", err)
	}
}

func TestNewRejectsFileAsRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/a-file", []byte("x"), 0o644); err != nil {
		t.Fatalf("seed fs: %v", err)
	}
	opt := NewStoreOpt().WithRoot("/a-file").WithFS(fs)
	_, err := New[testCtx](opt)
	var rootErr *RootDoesNotExistError
	if !errors.As(err, &rootErr) {
		t.Fatalf("New against a plain file should fail with RootDoesNotExistError, got %v", err)
	}
}

func TestNewCanonicalizesRelativeRoot(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	rel, err := filepath.Rel(cwd, dir)
	if err != nil {
		t.Skipf("no relative path from %s to %s: %v", cwd, dir, err)
	}

	store, err := New[testCtx](NewStoreOpt().WithRoot(rel))
	if err != nil {
		t.Fatalf("New with relative root: %v", err)
	}
	defer store.Close()

	want, err := filepath.Abs(dir)
	if err != nil {
		t.Fatalf("Abs: %v", err)
	}
	if got := store.Storage.Root(); got != want {
		t.Fatalf("Storage.root = %q, want canonicalized %q", got, want)
	}
}

func TestStoreEndToEndGetAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	store, err := New[testCtx](NewStoreOpt().WithRoot(dir).WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer store.Close()

	ctx := &testCtx{}
	ldr := Loader[string, testCtx]{
		Load: func(key Key, _ *Storage[testCtx], _ *testCtx) (string, []DepKey, error) {
			data, err := os.ReadFile(key.(FSKey).Path())
			if err != nil {
				return "", nil, err
			}
			return string(data), nil, nil
		},
	}

	h, err := Get(store.Storage, NewFSKey("greeting.txt"), ldr, ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := h.Borrow(); got != "hello" {
		t.Fatalf("Borrow() = %q, want %q", got, "hello")
	}

	if err := os.WriteFile(path, []byte("updated"), 0o644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		store.Sync(ctx)
		if h.Borrow() == "updated" {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if got := h.Borrow(); got != "updated" {
		t.Fatalf("Borrow() after on-disk edit = %q, want %q (handle identity must survive reload)", got, "updated")
	}
}
