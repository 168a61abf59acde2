// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package reconcile

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/objsweep/go-objsweep/pkg/common"
	"github.com/objsweep/go-objsweep/pkg/memory"
)

// faultyStorage delegates to an inner backend and injects failures into
// selected operations.
type faultyStorage struct {
	common.Storage

	// failListOnPage makes the Nth ListWithOptions call fail (1-based).
	// 0 disables the injection.
	failListOnPage int
	listCalls      int
	listErr        error

	// failMetadata makes every GetMetadata call fail.
	failMetadata bool
	metadataErr  error

	// failDelete makes every DeleteWithContext call fail.
	failDelete bool
	deleteErr  error
}

func (f *faultyStorage) ListWithOptions(ctx context.Context, opts *common.ListOptions) (*common.ListResult, error) {
	f.listCalls++
	if f.failListOnPage > 0 && f.listCalls == f.failListOnPage {
		return nil, f.listErr
	}
	return f.Storage.ListWithOptions(ctx, opts)
}

func (f *faultyStorage) GetMetadata(ctx context.Context, key string) (*common.Metadata, error) {
	if f.failMetadata {
		return nil, f.metadataErr
	}
	return f.Storage.GetMetadata(ctx, key)
}

func (f *faultyStorage) DeleteWithContext(ctx context.Context, key string) error {
	if f.failDelete {
		return f.deleteErr
	}
	return f.Storage.DeleteWithContext(ctx, key)
}

// putAged stores content under key with a fixed LastModified timestamp.
func putAged(t *testing.T, storage *memory.Memory, key, content string, lastModified time.Time) {
	t.Helper()
	err := storage.PutWithMetadata(context.Background(), key, strings.NewReader(content),
		&common.Metadata{LastModified: lastModified, ContentType: "text/plain"})
	require.NoError(t, err)
}

// readAll fetches and fully reads an object's body.
func readAll(t *testing.T, storage common.Storage, key string) string {
	t.Helper()
	obj, err := storage.GetObject(context.Background(), key)
	require.NoError(t, err)
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	return string(data)
}
