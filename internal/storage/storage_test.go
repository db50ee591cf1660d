package storage

import (
	"os"
	"path/filepath"
	"testing"
)

// TestFileStorageRoundTrip checks set, get, and remove against disk.
func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "storage.json")
	store := NewFileStorage(path)

	if _, ok, err := store.Get("theme"); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v err %v, want absent", ok, err)
	}

	if err := store.Set("theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok, err := store.Get("theme")
	if err != nil || !ok || value != "dark" {
		t.Fatalf("Get() = %q ok %v err %v, want dark", value, ok, err)
	}

	if err := store.Remove("theme"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := store.Get("theme"); ok {
		t.Fatal("key should be gone after Remove")
	}
}

// TestFileStoragePersistsAcrossInstances checks the document survives reopen.
func TestFileStoragePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	first := NewFileStorage(path)
	if err := first.Set("language", "th"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	second := NewFileStorage(path)
	value, ok, err := second.Get("language")
	if err != nil || !ok || value != "th" {
		t.Fatalf("reopened Get() = %q ok %v err %v, want th", value, ok, err)
	}
}

// TestFileStorageCorruptDocument checks decode errors surface to callers.
func TestFileStorageCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	store := NewFileStorage(path)
	if _, _, err := store.Get("anything"); err == nil {
		t.Fatal("expected error for corrupt document")
	}
}

// TestMemoryStorageRoundTrip checks the in-memory backend behaves like disk.
func TestMemoryStorageRoundTrip(t *testing.T) {
	store := NewMemoryStorage()

	if err := store.Set("gemini_api_key", "AIza-test"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, ok, _ := store.Get("gemini_api_key")
	if !ok || value != "AIza-test" {
		t.Fatalf("Get() = %q ok %v", value, ok)
	}

	if err := store.Remove("gemini_api_key"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := store.Get("gemini_api_key"); ok {
		t.Fatal("key should be gone after Remove")
	}
}
