package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	content := []byte("fake audio bytes for the archive")

	key, size, mimeType, err := store.Save(context.Background(), "tenant:42:agent@example.com", "call.m4a", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len(content)) {
		t.Fatalf("size = %d, want %d", size, len(content))
	}
	if mimeType == "" {
		t.Fatalf("expected sniffed mime type")
	}
	if !strings.Contains(key, "/") {
		t.Fatalf("expected account-namespaced key, got %q", key)
	}
	if !strings.HasSuffix(key, "_call.m4a") {
		t.Fatalf("expected sanitized file name suffix, got %q", key)
	}

	reader, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("archived bytes do not match original")
	}
}

func TestSaveIsolatesAccounts(t *testing.T) {
	store := New(t.TempDir())

	keyA, _, _, err := store.Save(context.Background(), "tenant:1:a@example.com", "call.m4a", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save a: %v", err)
	}
	keyB, _, _, err := store.Save(context.Background(), "tenant:2:b@example.com", "call.m4a", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save b: %v", err)
	}

	dirA := strings.SplitN(keyA, "/", 2)[0]
	dirB := strings.SplitN(keyB, "/", 2)[0]
	if dirA == dirB {
		t.Fatalf("expected distinct account namespaces, both %q", dirA)
	}
}

func TestOpenRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())

	for _, key := range []string{"../etc/passwd", "/etc/passwd", "a/../../b"} {
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
