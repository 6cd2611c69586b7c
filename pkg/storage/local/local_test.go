package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	key := "catalog/images/drill-x/original.webp"
	data := []byte("webp-bytes")

	if err := s.PutObject(ctx, key, bytes.NewReader(data), "image/webp", int64(len(data))); err != nil {
		t.Fatalf("PutObject failed: %v", err)
	}

	exists, err := s.ObjectExists(ctx, key)
	if err != nil {
		t.Fatalf("ObjectExists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected object to exist after put")
	}

	r, err := s.GetObject(ctx, key)
	if err != nil {
		t.Fatalf("GetObject failed: %v", err)
	}
	got, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("object content mismatch: got %q", got)
	}
}

func TestLocalStorageCopyOverwritesDestination(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	src := "p/original_1.webp"
	dst := "p/original.webp"
	if err := s.PutObject(ctx, src, strings.NewReader("new"), "image/webp", 3); err != nil {
		t.Fatalf("put src: %v", err)
	}
	if err := s.PutObject(ctx, dst, strings.NewReader("old"), "image/webp", 3); err != nil {
		t.Fatalf("put dst: %v", err)
	}

	if err := s.CopyObject(ctx, src, dst); err != nil {
		t.Fatalf("CopyObject failed: %v", err)
	}

	r, err := s.GetObject(ctx, dst)
	if err != nil {
		t.Fatalf("GetObject failed: %v", err)
	}
	got, _ := io.ReadAll(r)
	r.Close()
	if string(got) != "new" {
		t.Fatalf("expected destination overwritten, got %q", got)
	}
}

func TestLocalStorageCopyMissingSource(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.CopyObject(ctx, "missing.webp", "dst.webp"); err == nil {
		t.Fatal("expected error copying missing source")
	}
}

func TestLocalStorageDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := s.DeleteObject(ctx, "never/stored.webp"); err != nil {
		t.Fatalf("deleting a missing object should succeed, got %v", err)
	}

	key := "a/b.webp"
	if err := s.PutObject(ctx, key, strings.NewReader("x"), "image/webp", 1); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.DeleteObject(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	exists, err := s.ObjectExists(ctx, key)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("object should be gone after delete")
	}
}
