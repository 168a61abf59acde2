// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

// Package memory provides an in-memory implementation of the storage
// interface. It is used as the test fixture throughout the repository and
// is available as the "memory" factory backend for development.
package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/objsweep/go-objsweep/pkg/common"
)

const defaultPageSize = 1000

// object represents a stored object with its data and metadata.
type object struct {
	data     []byte
	metadata *common.Metadata
}

// Memory is a storage backend that stores objects in memory.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]*object
}

// New creates a new Memory storage backend.
func New() *Memory {
	return &Memory{
		objects: make(map[string]*object),
	}
}

// Configure sets up the backend. The memory backend has no required settings.
func (m *Memory) Configure(settings map[string]string) error {
	return nil
}

// PutWithMetadata stores an object with associated metadata.
//
// The ETag is the hex MD5 of the body, matching what S3-compatible
// services report for simple uploads, so change-detection behaves the
// same against this backend as against a real one. A caller-supplied
// LastModified is preserved; a zero value is replaced with the current
// time. Tests rely on both behaviors to stage objects of a given age.
func (m *Memory) PutWithMetadata(ctx context.Context, key string, data io.Reader, metadata *common.Metadata) error {
	if err := common.ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dataBytes, err := io.ReadAll(data)
	if err != nil {
		return err
	}

	meta := metadata.Clone()
	if meta == nil {
		meta = &common.Metadata{}
	}
	meta.Size = int64(len(dataBytes))
	if meta.LastModified.IsZero() {
		meta.LastModified = time.Now()
	}
	sum := md5.Sum(dataBytes)
	meta.ETag = hex.EncodeToString(sum[:])

	m.mu.Lock()
	m.objects[key] = &object{
		data:     dataBytes,
		metadata: meta,
	}
	m.mu.Unlock()

	return nil
}

// GetObject retrieves an object's body together with its metadata.
func (m *Memory) GetObject(ctx context.Context, key string) (*common.Object, error) {
	if err := common.ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	obj, exists := m.objects[key]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", common.ErrKeyNotFound, key)
	}

	// Copy the data so callers cannot mutate the stored object.
	dataCopy := make([]byte, len(obj.data))
	copy(dataCopy, obj.data)

	return &common.Object{
		Body:     io.NopCloser(bytes.NewReader(dataCopy)),
		Metadata: obj.metadata.Clone(),
	}, nil
}

// GetMetadata retrieves only the metadata for an object.
func (m *Memory) GetMetadata(ctx context.Context, key string) (*common.Metadata, error) {
	if err := common.ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	obj, exists := m.objects[key]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", common.ErrKeyNotFound, key)
	}
	return obj.metadata.Clone(), nil
}

// UpdateMetadata replaces the metadata on an existing object in place.
// The payload, size, and ETag are untouched; LastModified is refreshed,
// mirroring what a metadata-replace copy does on S3-compatible services.
func (m *Memory) UpdateMetadata(ctx context.Context, key string, metadata *common.Metadata) error {
	if err := common.ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	obj, exists := m.objects[key]
	if !exists {
		return fmt.Errorf("%w: %s", common.ErrKeyNotFound, key)
	}

	meta := metadata.Clone()
	if meta == nil {
		meta = &common.Metadata{}
	}
	meta.Size = obj.metadata.Size
	meta.ETag = obj.metadata.ETag
	meta.LastModified = time.Now()
	obj.metadata = meta
	return nil
}

// DeleteWithContext removes an object from the backend.
func (m *Memory) DeleteWithContext(ctx context.Context, key string) error {
	if err := common.ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.objects[key]; !exists {
		return fmt.Errorf("%w: %s", common.ErrKeyNotFound, key)
	}
	delete(m.objects, key)
	return nil
}

// Exists checks if an object exists in the backend.
func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	if err := common.ValidateKey(key); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	_, exists := m.objects[key]
	m.mu.RUnlock()
	return exists, nil
}

// ListWithOptions returns a paginated list of objects with metadata.
// Keys are returned in lexical order. The continuation token is the last
// key of the previous page.
func (m *Memory) ListWithOptions(ctx context.Context, opts *common.ListOptions) (*common.ListResult, error) {
	if opts == nil {
		opts = &common.ListOptions{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, opts.Prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if opts.ContinueFrom != "" {
		start = sort.SearchStrings(keys, opts.ContinueFrom)
		if start < len(keys) && keys[start] == opts.ContinueFrom {
			start++
		}
	}

	pageSize := opts.MaxResults
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	end := start + pageSize
	if end > len(keys) {
		end = len(keys)
	}

	result := &common.ListResult{}
	for _, key := range keys[start:end] {
		result.Objects = append(result.Objects, &common.ObjectInfo{
			Key:      key,
			Metadata: m.objects[key].metadata.Clone(),
		})
	}
	if end < len(keys) {
		result.Truncated = true
		result.NextToken = keys[end-1]
	}
	return result, nil
}

// Clear removes all objects from the storage. This is useful for testing.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.objects = make(map[string]*object)
	m.mu.Unlock()
}

// Count returns the number of objects in storage. This is useful for testing.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
