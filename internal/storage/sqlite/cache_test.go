package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speech.db")
	c, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	ctx := context.Background()

	if _, _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get() on empty cache should miss")
	}

	if err := c.Put(ctx, "k1", []byte("audio"), "audio/wav"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	data, contentType, ok := c.Get(ctx, "k1")
	if !ok {
		t.Fatal("Get() should hit after Put()")
	}
	if string(data) != "audio" || contentType != "audio/wav" {
		t.Errorf("Get() = %q/%q, want audio/audio/wav", data, contentType)
	}

	if err := c.Put(ctx, "k1", []byte("newer"), "audio/mpeg"); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}
	data, _, _ = c.Get(ctx, "k1")
	if string(data) != "newer" {
		t.Errorf("Get() after overwrite = %q, want newer", data)
	}
}

func TestCachePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speech.db")
	ctx := context.Background()

	c, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Put(ctx, "welcome", []byte("audio"), "audio/wav"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	c.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer reopened.Close()

	data, _, ok := reopened.Get(ctx, "welcome")
	if !ok || string(data) != "audio" {
		t.Errorf("Get() after reopen = %q, %v; want persisted entry", data, ok)
	}
}
