// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package factory

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewStorageMemory(t *testing.T) {
	storage, err := NewStorage("memory", nil)
	if err != nil {
		t.Fatalf("NewStorage(memory) returned error: %v", err)
	}

	ctx := context.Background()
	if err := storage.PutWithMetadata(ctx, "k", strings.NewReader("v"), nil); err != nil {
		t.Fatalf("PutWithMetadata failed: %v", err)
	}
	exists, err := storage.Exists(ctx, "k")
	if err != nil || !exists {
		t.Fatalf("expected object to exist, got exists=%v err=%v", exists, err)
	}
}

func TestNewStorageUnknown(t *testing.T) {
	_, err := NewStorage("carrier-pigeon", nil)
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestNewStorageInvalidSettings(t *testing.T) {
	// The s3 and minio backends require a bucket.
	if _, err := NewStorage("s3", map[string]string{}); err == nil {
		t.Fatal("expected error for s3 backend without bucket")
	}
	if _, err := NewStorage("minio", map[string]string{"bucket": "b"}); err == nil {
		t.Fatal("expected error for minio backend without endpoint")
	}
}

func TestBackends(t *testing.T) {
	names := Backends()
	seen := map[string]bool{}
	for _, name := range names {
		seen[name] = true
	}
	for _, want := range []string{"memory", "minio", "s3"} {
		if !seen[want] {
			t.Errorf("backend %q not registered", want)
		}
	}
}
