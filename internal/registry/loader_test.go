package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func seedModels(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("gguf"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", n, err)
		}
	}
	return dir
}

func TestLoadDirScansGGUFOnly(t *testing.T) {
	dir := seedModels(t, "a.gguf", "b.GGUF", "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "sub.gguf"), 0o755); err != nil {
		t.Fatal(err)
	}

	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d: %+v", len(models), models)
	}
	for _, m := range models {
		if m.ID == "" || !filepath.IsAbs(m.Path) {
			t.Fatalf("model entries need id and absolute path: %+v", m)
		}
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestResolveByID(t *testing.T) {
	dir := seedModels(t, "coder.gguf")
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := Resolve(models, "coder.gguf")
	if !ok || m.Path != filepath.Join(dir, "coder.gguf") {
		t.Fatalf("resolve by id failed: %+v ok=%v", m, ok)
	}
}

func TestResolveByPath(t *testing.T) {
	dir := seedModels(t, "outside.gguf")
	p := filepath.Join(dir, "outside.gguf")
	m, ok := Resolve(nil, p)
	if !ok || m.ID != "outside.gguf" || m.Path != p {
		t.Fatalf("resolve by path failed: %+v ok=%v", m, ok)
	}
}

func TestResolveMisses(t *testing.T) {
	if _, ok := Resolve(nil, ""); ok {
		t.Fatal("empty reference must not resolve")
	}
	if _, ok := Resolve(nil, "ghost.gguf"); ok {
		t.Fatal("unknown reference must not resolve")
	}
}
