// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/objsweep/go-objsweep/pkg/common"
)

func TestNew(t *testing.T) {
	storage := New()
	if storage == nil {
		t.Fatal("New() returned nil")
	}
}

func TestConfigure(t *testing.T) {
	storage := New()
	if err := storage.Configure(nil); err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	if err := storage.Configure(map[string]string{"any": "setting"}); err != nil {
		t.Fatalf("Configure() with settings returned error: %v", err)
	}
}

func TestPutAndGet(t *testing.T) {
	storage := New()
	ctx := context.Background()

	testData := []byte("hello world")
	err := storage.PutWithMetadata(ctx, "test-key", bytes.NewReader(testData), nil)
	if err != nil {
		t.Fatalf("PutWithMetadata() returned error: %v", err)
	}

	obj, err := storage.GetObject(ctx, "test-key")
	if err != nil {
		t.Fatalf("GetObject() returned error: %v", err)
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() returned error: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Fatalf("GetObject() returned wrong data: got %q, want %q", data, testData)
	}
	if obj.Metadata.Size != int64(len(testData)) {
		t.Fatalf("wrong size: got %d, want %d", obj.Metadata.Size, len(testData))
	}
}

func TestETagIsContentMD5(t *testing.T) {
	storage := New()
	ctx := context.Background()

	_ = storage.PutWithMetadata(ctx, "a", strings.NewReader("same"), nil)
	_ = storage.PutWithMetadata(ctx, "b", strings.NewReader("same"), nil)
	_ = storage.PutWithMetadata(ctx, "c", strings.NewReader("different"), nil)

	metaA, _ := storage.GetMetadata(ctx, "a")
	metaB, _ := storage.GetMetadata(ctx, "b")
	metaC, _ := storage.GetMetadata(ctx, "c")

	if metaA.ETag == "" {
		t.Fatal("ETag not computed")
	}
	if metaA.ETag != metaB.ETag {
		t.Error("identical content must produce identical ETags")
	}
	if metaA.ETag == metaC.ETag {
		t.Error("different content must produce different ETags")
	}
}

func TestLastModifiedPreserved(t *testing.T) {
	storage := New()
	ctx := context.Background()

	staged := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := storage.PutWithMetadata(ctx, "old.txt", strings.NewReader("x"),
		&common.Metadata{LastModified: staged})
	if err != nil {
		t.Fatalf("PutWithMetadata() returned error: %v", err)
	}

	meta, err := storage.GetMetadata(ctx, "old.txt")
	if err != nil {
		t.Fatalf("GetMetadata() returned error: %v", err)
	}
	if !meta.LastModified.Equal(staged) {
		t.Fatalf("caller-supplied timestamp not preserved: got %v, want %v", meta.LastModified, staged)
	}
}

func TestGetMissingKey(t *testing.T) {
	storage := New()
	ctx := context.Background()

	if _, err := storage.GetObject(ctx, "missing"); !errors.Is(err, common.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if _, err := storage.GetMetadata(ctx, "missing"); !errors.Is(err, common.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestUpdateMetadata(t *testing.T) {
	storage := New()
	ctx := context.Background()

	staged := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	_ = storage.PutWithMetadata(ctx, "doc.txt", strings.NewReader("payload"),
		&common.Metadata{LastModified: staged, ContentType: "text/plain"})

	before, _ := storage.GetMetadata(ctx, "doc.txt")

	err := storage.UpdateMetadata(ctx, "doc.txt", &common.Metadata{
		ContentType: "text/plain",
		Custom:      map[string]string{"owner": "alice"},
	})
	if err != nil {
		t.Fatalf("UpdateMetadata() returned error: %v", err)
	}

	after, _ := storage.GetMetadata(ctx, "doc.txt")
	if after.Custom["owner"] != "alice" {
		t.Error("custom metadata not replaced")
	}
	if after.Size != before.Size || after.ETag != before.ETag {
		t.Error("payload attributes must survive a metadata update")
	}
	if !after.LastModified.After(before.LastModified) {
		t.Error("metadata update must refresh the timestamp")
	}

	err = storage.UpdateMetadata(ctx, "missing", &common.Metadata{})
	if !errors.Is(err, common.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	storage := New()
	ctx := context.Background()

	_ = storage.PutWithMetadata(ctx, "victim", strings.NewReader("x"), nil)
	if err := storage.DeleteWithContext(ctx, "victim"); err != nil {
		t.Fatalf("DeleteWithContext() returned error: %v", err)
	}

	exists, err := storage.Exists(ctx, "victim")
	if err != nil {
		t.Fatalf("Exists() returned error: %v", err)
	}
	if exists {
		t.Fatal("object still present after delete")
	}

	if err := storage.DeleteWithContext(ctx, "victim"); !errors.Is(err, common.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	storage := New()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		key := fmt.Sprintf("data/obj-%02d", i)
		_ = storage.PutWithMetadata(ctx, key, strings.NewReader("x"), nil)
	}
	_ = storage.PutWithMetadata(ctx, "other/obj", strings.NewReader("x"), nil)

	var keys []string
	opts := &common.ListOptions{Prefix: "data/", MaxResults: 10}
	pages := 0
	for {
		result, err := storage.ListWithOptions(ctx, opts)
		if err != nil {
			t.Fatalf("ListWithOptions() returned error: %v", err)
		}
		pages++
		for _, obj := range result.Objects {
			keys = append(keys, obj.Key)
		}
		if !result.Truncated {
			break
		}
		opts.ContinueFrom = result.NextToken
	}

	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
	if len(keys) != 25 {
		t.Fatalf("expected 25 keys, got %d", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("keys out of order or duplicated: %q before %q", keys[i-1], keys[i])
		}
	}
}

func TestListEmptyPrefix(t *testing.T) {
	storage := New()
	ctx := context.Background()

	result, err := storage.ListWithOptions(ctx, &common.ListOptions{Prefix: "nothing/"})
	if err != nil {
		t.Fatalf("ListWithOptions() returned error: %v", err)
	}
	if len(result.Objects) != 0 || result.Truncated {
		t.Fatal("empty prefix must yield an empty terminal page")
	}
}

func TestClearAndCount(t *testing.T) {
	storage := New()
	ctx := context.Background()

	_ = storage.PutWithMetadata(ctx, "a", strings.NewReader("x"), nil)
	_ = storage.PutWithMetadata(ctx, "b", strings.NewReader("x"), nil)
	if storage.Count() != 2 {
		t.Fatalf("expected 2 objects, got %d", storage.Count())
	}

	storage.Clear()
	if storage.Count() != 0 {
		t.Fatalf("expected empty storage after Clear, got %d", storage.Count())
	}
}

func TestContextCancellation(t *testing.T) {
	storage := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := storage.PutWithMetadata(ctx, "k", strings.NewReader("x"), nil); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if _, err := storage.ListWithOptions(ctx, nil); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
